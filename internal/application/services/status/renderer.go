package status

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/easayliu/mirror-status-bot/internal/domain/entities"
	"github.com/easayliu/mirror-status-bot/pkg/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const separator = "\n<b>_________________________________</b>\n\n"

// SystemProbe 系统指标来源
type SystemProbe interface {
	CPUPercent() (float64, error)
	MemoryPercent() (float64, error)
	DiskUsage(path string) (*entities.DiskStats, error)
	NetIO() (*entities.NetStats, error)
}

// Limits 各类任务的大小上限, 单位GB, 0表示不限
type Limits struct {
	TorrentDirect float64
	ZipUnzip      float64
	Leech         float64
	Mega          float64
}

// Options 渲染配置
type Options struct {
	Theme         Theme
	CancelCommand string
	StatsCallback string
	DownloadDir   string
	StartTime     time.Time
	Limits        Limits
	CreditName    string
}

// Document 渲染结果
type Document struct {
	Text       string
	Page       Page
	Throughput Throughput
}

// Renderer 状态面板渲染器
type Renderer struct {
	pager *Pager
	probe SystemProbe
	opts  Options
	now   func() time.Time
}

// NewRenderer 创建渲染器
func NewRenderer(pager *Pager, probe SystemProbe, opts Options) *Renderer {
	if opts.CancelCommand == "" {
		opts.CancelCommand = "cancel"
	}
	if opts.StatsCallback == "" {
		opts.StatsCallback = DefaultStatsCallback
	}
	if opts.StartTime.IsZero() {
		opts.StartTime = time.Now()
	}
	return &Renderer{
		pager: pager,
		probe: probe,
		opts:  opts,
		now:   time.Now,
	}
}

// Render 渲染当前页, 任务表为空时返回 nil, nil
// 只在复制快照时持锁, 格式化过程不持锁
func (r *Renderer) Render() (*Document, *tgbotapi.InlineKeyboardMarkup) {
	tasks, page := r.pager.View()
	if len(tasks) == 0 {
		return nil, nil
	}

	var b strings.Builder
	for _, task := range page.Window(tasks) {
		r.writeTask(&b, task)
	}

	throughput := AggregateThroughput(tasks)
	if page.Paginated() {
		fmt.Fprintf(&b, "<b>Tasks:</b> %d\n", page.TaskCount)
	}
	b.WriteString(r.summary(throughput))

	doc := &Document{
		Text:       b.String(),
		Page:       page,
		Throughput: throughput,
	}
	return doc, StatusControls(page, r.opts.Theme, r.opts.StatsCallback)
}

func (r *Renderer) writeTask(b *strings.Builder, task entities.Task) {
	theme := r.opts.Theme
	msg := task.Message()

	link := ""
	if msg != nil {
		link = msg.Link
	}
	fmt.Fprintf(b, "<b>╭ <a href='%s'>%s</a>: </b><code>%s</code>",
		link, theme.StatusName(task.Status()), utils.EscapeHTML(task.Name()))

	switch task.Status() {
	case entities.StatusSeeding:
		r.writeSeeding(b, task)
	case entities.StatusSplitting:
		line(b, theme.Label(FieldEngine), task.Engine())
		lastLine(b, theme.Label(FieldSplitSize)+": ", utils.ReadableSize(task.Size()))
	default:
		r.writeActive(b, task)
	}
	b.WriteString(separator)
}

func (r *Renderer) writeActive(b *strings.Builder, task entities.Task) {
	theme := r.opts.Theme

	fmt.Fprintf(b, "\n<b>├</b>%s %s", ProgressBar(task.ProcessedBytes(), task.Size()), task.Progress())
	line(b, theme.Label(FieldProcess), fmt.Sprintf("%s of %s",
		utils.ReadableSize(task.ProcessedBytes()), utils.ReadableSize(task.Size())))
	line(b, theme.Label(FieldSpeed), task.Speed())
	line(b, theme.Label(FieldETA), task.ETA())
	fmt.Fprintf(b, "<b> | Elapsed: </b>%s", r.elapsed(task))
	line(b, theme.Label(FieldEngine), task.Engine())

	if peers, ok := task.(entities.PeerReporter); ok {
		if seeders, leechers, ok := peers.Peers(); ok {
			line(b, theme.Label(FieldSeeders), fmt.Sprintf("%d | <b>%s:</b> %d",
				seeders, theme.Label(FieldLeechers), leechers))
		}
	}

	if ctx, ok := r.chatContext(task.Message()); ok {
		b.WriteString(ctx)
	}
	r.writeCancel(b, task)
}

func (r *Renderer) writeSeeding(b *strings.Builder, task entities.Task) {
	theme := r.opts.Theme

	line(b, theme.Label(FieldSize), utils.ReadableSize(task.Size()))
	line(b, theme.Label(FieldEngine), "<code>"+task.Engine()+"</code>")
	if seed, ok := task.(entities.SeedReporter); ok {
		line(b, theme.Label(FieldSpeed), seed.UploadSpeed())
		line(b, theme.Label(FieldUploaded), utils.ReadableSize(seed.UploadedBytes()))
		line(b, theme.Label(FieldRatio), seed.Ratio())
		fmt.Fprintf(b, " | <b>%s: </b>%s", theme.Label(FieldSeedTime), utils.ReadableTime(seed.SeedingTime()))
	}
	line(b, theme.Label(FieldElapsed), r.elapsed(task))
	r.writeCancel(b, task)
}

// chatContext 群组里显示来源链接, 私聊显示用户, 数据不全时省略
func (r *Renderer) chatContext(msg *entities.Message) (string, bool) {
	if msg == nil || msg.Chat == nil || msg.From == nil {
		return "", false
	}
	theme := r.opts.Theme
	name := utils.EscapeHTML(msg.From.FirstName)

	if msg.Chat.Type != entities.ChatTypePrivate {
		chatID := strings.TrimPrefix(strconv.FormatInt(msg.Chat.ID, 10), "-100")
		return fmt.Sprintf("\n<b>├%s: </b><a href=\"https://t.me/c/%s/%d\">%s</a> | <b>Id :</b> <code>%d</code>",
			theme.Label(FieldSource), chatID, msg.ID, name, msg.From.ID), true
	}
	return fmt.Sprintf("\n<b>├%s:</b> <code>%s</code> | <b>Id:</b> <code>%d</code>",
		theme.Label(FieldUser), name, msg.From.ID), true
}

func (r *Renderer) writeCancel(b *strings.Builder, task entities.Task) {
	lastLine(b, r.opts.Theme.Label(FieldCancel), fmt.Sprintf("<code>/%s %s</code>", r.opts.CancelCommand, task.GID()))
}

func (r *Renderer) elapsed(task entities.Task) string {
	msg := task.Message()
	if msg == nil || msg.Date.IsZero() {
		return utils.ReadableTime(0)
	}
	return utils.ReadableTime(r.now().Sub(msg.Date))
}

// summary 面板底部的系统信息
func (r *Renderer) summary(t Throughput) string {
	theme := r.opts.Theme

	cpu, free, ram := "N/A", "N/A", "N/A"
	if r.probe != nil {
		if v, err := r.probe.CPUPercent(); err == nil {
			cpu = formatPercent(v) + "%"
		}
		if d, err := r.probe.DiskUsage(r.opts.DownloadDir); err == nil {
			free = utils.ReadableSize(d.Free)
		}
		if v, err := r.probe.MemoryPercent(); err == nil {
			ram = formatPercent(v) + "%"
		}
	}

	return fmt.Sprintf("<b>%s:</b> %s | <b>%s:</b> %s"+
		"\n<b>%s:</b> %s | <b>%s:</b> %s"+
		"\n<b>%s:</b> %s/s | <b>%s:</b> %s/s",
		theme.Label(FieldCPU), cpu, theme.Label(FieldFree), free,
		theme.Label(FieldRAM), ram, theme.Label(FieldUptime), utils.ReadableTime(r.now().Sub(r.opts.StartTime)),
		theme.Label(FieldDL), utils.ReadableSize(t.Download), theme.Label(FieldUL), utils.ReadableSize(t.Upload))
}

// ProgressBar 12格进度条, 每格8%
func ProgressBar(processed, total int64) string {
	// 两边同时除以8, 比例不变
	completed := float64(processed) / 8
	whole := float64(total) / 8

	p := 0
	if whole != 0 {
		p = int(math.Round(completed * 100 / whole))
	}
	p = min(max(p, 0), 100)

	filled := p / 8
	return "[" + strings.Repeat("■", filled) + strings.Repeat("□", 12-filled) + "]"
}

func line(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "\n<b>├%s:</b> %s", label, value)
}

func lastLine(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "\n<b>╰%s</b>%s", label, value)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64)
}
