package status

import (
	"strings"

	"github.com/easayliu/mirror-status-bot/internal/domain/entities"
)

// Theme 显示主题
type Theme int

const (
	ThemeEmoji Theme = iota
	ThemePlain
)

// ParseTheme "plain" 为纯文本, 其余都按emoji处理
func ParseTheme(s string) Theme {
	if strings.EqualFold(strings.TrimSpace(s), "plain") {
		return ThemePlain
	}
	return ThemeEmoji
}

func (t Theme) String() string {
	if t == ThemePlain {
		return "plain"
	}
	return "emoji"
}

// Field 面板上的一个带标签字段
type Field int

const (
	FieldProcess Field = iota
	FieldSpeed
	FieldETA
	FieldEngine
	FieldSeeders
	FieldLeechers
	FieldSource
	FieldUser
	FieldCancel
	FieldSize
	FieldUploaded
	FieldRatio
	FieldSeedTime
	FieldElapsed
	FieldSplitSize
	FieldCPU
	FieldFree
	FieldRAM
	FieldUptime
	FieldDL
	FieldUL
	FieldPrevious
	FieldNext
)

// labels 每个字段的 [emoji, plain] 标签
var labels = map[Field][2]string{
	FieldProcess:   {"🔄 Process", " Process"},
	FieldSpeed:     {"⚡ Speed", " Speed"},
	FieldETA:       {"⏳ ETA", " ETA"},
	FieldEngine:    {"⛓️ Engine", " Engine"},
	FieldSeeders:   {"🌱 Seeders", " Seeders"},
	FieldLeechers:  {"🐌 Leechers", "Leechers"},
	FieldSource:    {"🌐 Source", " Source"},
	FieldUser:      {"👤 User", " User"},
	FieldCancel:    {"❌ ", " "},
	FieldSize:      {"📦 Size", " Size"},
	FieldUploaded:  {"🔺 Uploaded", " Uploaded"},
	FieldRatio:     {"📎 Ratio", " Ratio"},
	FieldSeedTime:  {"⏲️ Time", "Time"},
	FieldElapsed:   {"⏳ Elapsed", " Elapsed"},
	FieldSplitSize: {"📐 Size", " Size"},
	FieldCPU:       {"🖥 CPU", "CPU"},
	FieldFree:      {"💿 FREE", "FREE"},
	FieldRAM:       {"🎮 RAM", "RAM"},
	FieldUptime:    {"🟢 UPTIME", "UPTIME"},
	FieldDL:        {"🔻 DL", "DL"},
	FieldUL:        {"🔺 UL", "UL"},
	FieldPrevious:  {"⏪Previous", "Previous"},
	FieldNext:      {"Next⏩", "Next"},
}

var statusNames = map[entities.Status][2]string{
	entities.StatusUploading:   {"📤 Upload", "Upload"},
	entities.StatusDownloading: {"📥 Download", "Download"},
	entities.StatusCloning:     {"♻️ Clone", "Clone"},
	entities.StatusQueued:      {"💤 Queue", "Queue"},
	entities.StatusPaused:      {"⛔️ Pause", "Pause"},
	entities.StatusArchiving:   {"🔐 Archive", "Archive"},
	entities.StatusExtracting:  {"📂 Extract", "Extract"},
	entities.StatusSplitting:   {"✂️ Split", "Split"},
	entities.StatusCheckingUp:  {"📝 CheckUp", "CheckUp"},
	entities.StatusSeeding:     {"🌧 Seed", "Seed"},
}

// Label 字段标签
func (t Theme) Label(f Field) string {
	return labels[f][t.index()]
}

// StatusName 状态的显示名, 未知状态原样返回
func (t Theme) StatusName(s entities.Status) string {
	if names, ok := statusNames[s]; ok {
		return names[t.index()]
	}
	return string(s)
}

func (t Theme) index() int {
	if t == ThemePlain {
		return 1
	}
	return 0
}
