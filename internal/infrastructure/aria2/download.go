package aria2

import (
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/easayliu/mirror-status-bot/internal/domain/entities"
	"github.com/easayliu/mirror-status-bot/pkg/utils"
)

// aria2 任务状态
const (
	StatusActive   = "active"
	StatusWaiting  = "waiting"
	StatusPaused   = "paused"
	StatusError    = "error"
	StatusComplete = "complete"
	StatusRemoved  = "removed"
)

const metadataPrefix = "[METADATA]"

var (
	_ entities.Task         = (*Download)(nil)
	_ entities.PeerReporter = (*Download)(nil)
	_ entities.SeedReporter = (*Download)(nil)
)

// Download 一个 aria2 任务, 由同步循环更新, 渲染时只读
type Download struct {
	mu        sync.RWMutex
	gid       string
	aliases   []string // 接续前用过的gid, 选文件按钮里仍是旧gid
	result    StatusResult
	msg       *entities.Message
	seed      bool
	seedStart time.Time
	now       func() time.Time
}

// NewDownload 创建任务视图, seed 表示下载完成后继续做种
func NewDownload(gid string, msg *entities.Message, seed bool) *Download {
	return &Download{
		gid:    gid,
		result: StatusResult{GID: gid, Status: StatusWaiting},
		msg:    msg,
		seed:   seed,
		now:    time.Now,
	}
}

// Update 用 tellStatus 的结果刷新
func (d *Download) Update(s *StatusResult) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if s.Seeder == "true" && d.seedStart.IsZero() {
		d.seedStart = d.now()
	}
	d.result = *s
	if s.GID != "" {
		d.gid = s.GID
	}
}

// Follow 磁力元数据下载完后 aria2 会用新的gid继续, 切换过去
func (d *Download) Follow(gid string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gid == d.gid {
		return
	}
	d.aliases = append(d.aliases, d.gid)
	d.gid = gid
	d.result = StatusResult{GID: gid, Status: StatusWaiting}
}

// HasGID 当前gid或接续前的任一gid
func (d *Download) HasGID(gid string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return gid == d.gid || slices.Contains(d.aliases, gid)
}

// Finished 任务已结束, 应从任务表移除
func (d *Download) Finished() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	switch d.result.Status {
	case StatusError, StatusRemoved:
		return true
	case StatusComplete:
		return len(d.result.FollowedBy) == 0
	}
	return false
}

// Err 任务出错时的错误信息
func (d *Download) Err() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.result.Status != StatusError {
		return nil
	}
	return fmt.Errorf("aria2 error %s: %s", d.result.ErrorCode, d.result.ErrorMessage)
}

// FollowedBy 元数据任务完成后接续的gid
func (d *Download) FollowedBy() (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(d.result.FollowedBy) == 0 {
		return "", false
	}
	return d.result.FollowedBy[0], true
}

func (d *Download) GID() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.gid
}

func (d *Download) Name() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	r := d.result
	if r.Bittorrent != nil && r.Bittorrent.Info != nil && r.Bittorrent.Info.Name != "" {
		return r.Bittorrent.Info.Name
	}
	if len(r.Files) > 0 && r.Files[0].Path != "" {
		if filepath.IsAbs(r.Files[0].Path) && r.Dir != "" {
			if rel, err := filepath.Rel(r.Dir, r.Files[0].Path); err == nil {
				return rel
			}
		}
		return filepath.Base(r.Files[0].Path)
	}
	if r.Bittorrent != nil || r.InfoHash != "" {
		return metadataPrefix + r.InfoHash
	}
	if len(r.Files) > 0 && len(r.Files[0].URIs) > 0 {
		return filepath.Base(r.Files[0].URIs[0].URI)
	}
	return ""
}

func (d *Download) Status() entities.Status {
	d.mu.RLock()
	defer d.mu.RUnlock()

	switch {
	case d.result.Status == StatusWaiting:
		return entities.StatusQueued
	case d.result.Status == StatusPaused:
		return entities.StatusPaused
	case d.result.Seeder == "true" && d.seed:
		return entities.StatusSeeding
	}
	return entities.StatusDownloading
}

func (d *Download) Size() int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return parseInt(d.result.TotalLength)
}

func (d *Download) ProcessedBytes() int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return parseInt(d.result.CompletedLength)
}

func (d *Download) Speed() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return utils.ReadableSize(parseInt(d.result.DownloadSpeed)) + "/s"
}

func (d *Download) Progress() string {
	total, done := d.Size(), d.ProcessedBytes()
	if total == 0 {
		return "0%"
	}
	p := math.Round(float64(done)/float64(total)*10000) / 100
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}

func (d *Download) ETA() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	speed := parseInt(d.result.DownloadSpeed)
	if speed == 0 {
		return "-"
	}
	remaining := parseInt(d.result.TotalLength) - parseInt(d.result.CompletedLength)
	return utils.ReadableTime(time.Duration(remaining/speed) * time.Second)
}

func (d *Download) Engine() string {
	return entities.EngineAria2
}

func (d *Download) Message() *entities.Message {
	return d.msg
}

// Peers 只有种子任务有peer信息
func (d *Download) Peers() (seeders, leechers int, ok bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.result.Bittorrent == nil || d.result.NumSeeders == "" {
		return 0, 0, false
	}
	return int(parseInt(d.result.NumSeeders)), int(parseInt(d.result.Connections)), true
}

func (d *Download) UploadSpeed() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return utils.ReadableSize(parseInt(d.result.UploadSpeed)) + "/s"
}

func (d *Download) UploadedBytes() int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return parseInt(d.result.UploadLength)
}

func (d *Download) Ratio() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	completed := parseInt(d.result.CompletedLength)
	if completed == 0 {
		return "0"
	}
	ratio := float64(parseInt(d.result.UploadLength)) / float64(completed)
	return strconv.FormatFloat(ratio, 'f', 3, 64)
}

func (d *Download) SeedingTime() time.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.seedStart.IsZero() {
		return 0
	}
	return d.now().Sub(d.seedStart)
}

func parseInt(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
