package entities

import "time"

// Status 任务状态
type Status string

const (
	StatusUploading   Status = "uploading"
	StatusDownloading Status = "downloading"
	StatusCloning     Status = "cloning"
	StatusQueued      Status = "queued"
	StatusPaused      Status = "paused"
	StatusArchiving   Status = "archiving"
	StatusExtracting  Status = "extracting"
	StatusSplitting   Status = "splitting"
	StatusCheckingUp  Status = "checking"
	StatusSeeding     Status = "seeding"
)

// AllStatuses 所有状态, 顺序即展示顺序
var AllStatuses = []Status{
	StatusUploading,
	StatusDownloading,
	StatusCloning,
	StatusQueued,
	StatusPaused,
	StatusArchiving,
	StatusExtracting,
	StatusSplitting,
	StatusCheckingUp,
	StatusSeeding,
}

// 下载引擎标签
const (
	EngineAria2   = "Aria2c📶"
	EngineGDrive  = "Google Api♻️"
	EngineMega    = "MegaSDK⭕️"
	EngineQbit    = "qBittorrent🦠"
	EngineTG      = "Pyrogram💥"
	EngineYTDL    = "YT-dlp🌟"
	EngineExtract = "Extract | pExtract⚔️"
	EngineSplit   = "FFmpeg✂️"
	EngineZip     = "p7zip🛠"
)

// Task 一个传输任务的只读视图, 由下载引擎层实现
type Task interface {
	GID() string
	Name() string
	Status() Status
	Size() int64
	ProcessedBytes() int64
	Speed() string
	Progress() string
	ETA() string
	Engine() string
	Message() *Message
}

// PeerReporter 种子类任务可选实现, ok=false 表示当前拿不到peer信息
type PeerReporter interface {
	Peers() (seeders, leechers int, ok bool)
}

// SeedReporter 做种中的任务实现
type SeedReporter interface {
	UploadSpeed() string
	UploadedBytes() int64
	Ratio() string
	SeedingTime() time.Duration
}
