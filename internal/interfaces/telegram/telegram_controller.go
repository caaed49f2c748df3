package telegram

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/easayliu/mirror-status-bot/internal/application/services/mirror"
	"github.com/easayliu/mirror-status-bot/internal/application/services/status"
	"github.com/easayliu/mirror-status-bot/internal/domain/entities"
	"github.com/easayliu/mirror-status-bot/pkg/logger"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// pollTimeout long polling 超时, 单位秒
const pollTimeout = 30

// pollBackoff 拉取失败后的等待
var pollBackoff = 5 * time.Second

// Bot 控制器用到的 Telegram 操作, 由 infrastructure/telegram.Client 实现
type Bot interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (int, error)
	ReplyMessage(ctx context.Context, chatID int64, replyTo int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (int, error)
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	AnswerCallbackQuery(callbackQueryID, text string, alert bool) error
	GetUpdates(offset int64, timeout int) ([]tgbotapi.Update, error)
	IsAuthorized(userID int64) bool
	Username() string
}

// Mirror 任务提交与取消
type Mirror interface {
	Submit(ctx context.Context, req mirror.SubmitRequest) (*mirror.SubmitResult, error)
	Cancel(ctx context.Context, gid string, userID int64, isAdmin bool) (entities.Task, error)
	ConfirmSelection(ctx context.Context, gid string, userID int64, isAdmin bool) error
	Refresh(ctx context.Context) error
}

// Recorder 命令和回调计数
type Recorder interface {
	RecordCommand(command, status string)
	RecordCallback(action string)
}

type noopRecorder struct{}

func (noopRecorder) RecordCommand(string, string) {}
func (noopRecorder) RecordCallback(string)        {}

// Options 控制器配置
type Options struct {
	AdminIDs      []int64
	CancelCommand string
	StatsCallback string
}

// TelegramController 命令和回调的路由入口
type TelegramController struct {
	bot      Bot
	mirror   Mirror
	pager    *status.Pager
	renderer *status.Renderer
	updater  *status.Updater
	metrics  Recorder
	opts     Options

	messageHandler  *MessageHandler
	callbackHandler *CallbackHandler

	lastUpdateID int
	wg           sync.WaitGroup
	cancel       context.CancelFunc
}

// NewTelegramController 创建控制器, metrics 可为 nil
func NewTelegramController(bot Bot, m Mirror, pager *status.Pager, renderer *status.Renderer, updater *status.Updater, metrics Recorder, opts Options) *TelegramController {
	if opts.CancelCommand == "" {
		opts.CancelCommand = "cancel"
	}
	if opts.StatsCallback == "" {
		opts.StatsCallback = status.DefaultStatsCallback
	}
	if metrics == nil {
		metrics = noopRecorder{}
	}

	c := &TelegramController{
		bot:      bot,
		mirror:   m,
		pager:    pager,
		renderer: renderer,
		updater:  updater,
		metrics:  metrics,
		opts:     opts,
	}
	c.messageHandler = NewMessageHandler(c)
	c.callbackHandler = NewCallbackHandler(c)
	return c
}

// HandleUpdate 分发一条 update
func (c *TelegramController) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	switch {
	case update.Message != nil:
		c.messageHandler.HandleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		c.callbackHandler.HandleCallbackQuery(ctx, update.CallbackQuery)
	}
}

// Webhook 处理 Telegram 推送
func (c *TelegramController) Webhook(ctx *gin.Context) {
	var update tgbotapi.Update
	if err := ctx.ShouldBindJSON(&update); err != nil {
		logger.Error("Failed to parse telegram update", "error", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update format"})
		return
	}

	c.HandleUpdate(ctx.Request.Context(), &update)
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

// StartPolling 开始轮询, StopPolling 或 ctx 取消时退出
func (c *TelegramController) StartPolling(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	logger.Info("Starting Telegram polling...")

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				logger.Info("Telegram polling stopped")
				return
			default:
				c.pollUpdates(ctx)
			}
		}
	}()
}

// StopPolling 停止轮询并等待当前批次处理完
func (c *TelegramController) StopPolling() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
}

func (c *TelegramController) pollUpdates(ctx context.Context) {
	updates, err := c.bot.GetUpdates(int64(c.lastUpdateID+1), pollTimeout)
	if err != nil {
		logger.Error("Failed to get telegram updates", "error", err)
		select {
		case <-ctx.Done():
		case <-time.After(pollBackoff):
		}
		return
	}

	for i := range updates {
		if updates[i].UpdateID > c.lastUpdateID {
			c.lastUpdateID = updates[i].UpdateID
		}
		c.HandleUpdate(ctx, &updates[i])
	}
}

// syncTasks 渲染新面板前先同步一次进度, 失败时用任务表里已有的状态
func (c *TelegramController) syncTasks(ctx context.Context) {
	if err := c.mirror.Refresh(ctx); err != nil {
		logger.Warn("Failed to refresh task progress", "error", err)
	}
}

func (c *TelegramController) isAdmin(userID int64) bool {
	for _, id := range c.opts.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
