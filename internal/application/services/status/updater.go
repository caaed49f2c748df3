package status

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/easayliu/mirror-status-bot/internal/infrastructure/ratelimit"
	"github.com/easayliu/mirror-status-bot/pkg/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/robfig/cron/v3"
)

// MessageEditor 更新器用到的 Telegram 操作
type MessageEditor interface {
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

// Refresher 渲染前同步任务进度
type Refresher interface {
	Refresh(ctx context.Context) error
}

type trackedMessage struct {
	messageID int
	lastText  string
}

// Updater 定时刷新各聊天里的状态消息
type Updater struct {
	renderer  *Renderer
	editor    MessageEditor
	limiter   *ratelimit.RateLimiter
	refresher Refresher
	interval  time.Duration

	cron     *cron.Cron
	mu       sync.Mutex
	messages map[int64]*trackedMessage
	running  bool
}

// NewUpdater 创建状态更新器, limiter 可为 nil
func NewUpdater(renderer *Renderer, editor MessageEditor, limiter *ratelimit.RateLimiter, interval time.Duration) *Updater {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Updater{
		renderer: renderer,
		editor:   editor,
		limiter:  limiter,
		interval: interval,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		messages: make(map[int64]*trackedMessage),
	}
}

// SetRefresher 设置渲染前的同步钩子
func (u *Updater) SetRefresher(r Refresher) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.refresher = r
}

// Start 启动定时刷新
func (u *Updater) Start() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.running {
		return fmt.Errorf("status updater already running")
	}

	spec := fmt.Sprintf("@every %s", u.interval)
	if _, err := u.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), u.interval)
		defer cancel()
		u.Tick(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule status updates: %w", err)
	}

	u.cron.Start()
	u.running = true
	logger.Info("Status updater started", "interval", u.interval.String())
	return nil
}

// Stop 停止定时刷新, 等待正在执行的一轮结束
func (u *Updater) Stop() {
	u.mu.Lock()
	if !u.running {
		u.mu.Unlock()
		return
	}
	u.running = false
	u.mu.Unlock()

	<-u.cron.Stop().Done()
	logger.Info("Status updater stopped")
}

// Track 登记某聊天的状态消息, 返回被替换掉的旧消息
func (u *Updater) Track(chatID int64, messageID int, text string) (int, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	old, ok := u.messages[chatID]
	u.messages[chatID] = &trackedMessage{messageID: messageID, lastText: text}
	if ok && old.messageID != messageID {
		return old.messageID, true
	}
	return 0, false
}

// Untrack 取消登记
func (u *Updater) Untrack(chatID int64) (int, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	old, ok := u.messages[chatID]
	if !ok {
		return 0, false
	}
	delete(u.messages, chatID)
	if u.limiter != nil {
		u.limiter.Forget(chatID)
	}
	return old.messageID, true
}

// Tracked 已登记的聊天数
func (u *Updater) Tracked() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.messages)
}

// Tick 刷新一轮: 同步进度, 渲染, 编辑所有登记的消息
// 没有任务时删除状态消息
func (u *Updater) Tick(ctx context.Context) {
	u.mu.Lock()
	refresher := u.refresher
	u.mu.Unlock()

	if refresher != nil {
		if err := refresher.Refresh(ctx); err != nil {
			logger.Warn("Failed to refresh task progress", "error", err)
		}
	}

	doc, markup := u.renderer.Render()
	if doc == nil {
		u.clear(ctx)
		return
	}

	for chatID, msg := range u.pending(doc.Text) {
		if u.limiter != nil && !u.limiter.Allow(chatID) {
			continue
		}
		if err := u.editor.EditMessage(ctx, chatID, msg.messageID, doc.Text, markup); err != nil {
			logger.Warn("Failed to edit status message", "chat_id", chatID, "message_id", msg.messageID, "error", err)
			continue
		}
		u.markSent(chatID, msg.messageID, doc.Text)
	}
}

// pending 返回内容有变化的消息
func (u *Updater) pending(text string) map[int64]trackedMessage {
	u.mu.Lock()
	defer u.mu.Unlock()

	out := make(map[int64]trackedMessage, len(u.messages))
	for chatID, msg := range u.messages {
		if msg.lastText != text {
			out[chatID] = *msg
		}
	}
	return out
}

func (u *Updater) markSent(chatID int64, messageID int, text string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	// 编辑期间消息可能已被替换
	if msg, ok := u.messages[chatID]; ok && msg.messageID == messageID {
		msg.lastText = text
	}
}

func (u *Updater) clear(ctx context.Context) {
	u.mu.Lock()
	messages := u.messages
	u.messages = make(map[int64]*trackedMessage)
	u.mu.Unlock()

	for chatID, msg := range messages {
		if u.limiter != nil {
			u.limiter.Forget(chatID)
		}
		if err := u.editor.DeleteMessage(ctx, chatID, msg.messageID); err != nil {
			logger.Warn("Failed to delete status message", "chat_id", chatID, "message_id", msg.messageID, "error", err)
		}
	}
}
