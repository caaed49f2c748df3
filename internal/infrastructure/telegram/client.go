package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/easayliu/mirror-status-bot/internal/infrastructure/config"
	"github.com/easayliu/mirror-status-bot/pkg/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MaxMessageLength Telegram 单条消息上限, 留一些余量
const MaxMessageLength = 4000

// ErrNotInitialized bot 未能连接
var ErrNotInitialized = errors.New("telegram bot not initialized")

type Client struct {
	config *config.TelegramConfig
	bot    *tgbotapi.BotAPI
}

// NewClient 连接 Telegram, 失败时返回一个不可用的客户端, 调用都会返回 ErrNotInitialized
func NewClient(cfg *config.TelegramConfig) *Client {
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(cfg.BotToken, endpoint)
	if err != nil {
		logger.Error("Failed to create Telegram bot", "error", err)
		return &Client{config: cfg}
	}

	logger.Info("Telegram bot connected successfully", "username", bot.Self.UserName)

	client := &Client{
		config: cfg,
		bot:    bot,
	}

	// 注册Bot命令菜单
	if err := client.RegisterBotCommands(); err != nil {
		logger.Error("Failed to register bot commands", "error", err)
	} else {
		logger.Info("Bot commands registered successfully")
	}

	return client
}

// GetBot 获取bot实例
func (c *Client) GetBot() *tgbotapi.BotAPI {
	return c.bot
}

// Username bot 的用户名, 用于识别 /cmd@bot 形式的命令
func (c *Client) Username() string {
	if c.bot == nil {
		return ""
	}
	return c.bot.Self.UserName
}

// cleanUTF8 确保文本是有效的UTF-8编码
func cleanUTF8(text string) string {
	if !utf8.ValidString(text) {
		return strings.ToValidUTF8(text, "?")
	}
	return text
}

// truncate 超长时按字符截断
func truncate(text string) string {
	if utf8.RuneCountInString(text) <= MaxMessageLength {
		return text
	}
	return string([]rune(text)[:MaxMessageLength-3]) + "..."
}

// SendMessage 发送HTML消息, 返回消息ID
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (int, error) {
	return c.ReplyMessage(ctx, chatID, 0, text, keyboard)
}

// ReplyMessage 回复某条消息, replyTo 为0时直接发送
func (c *Client) ReplyMessage(ctx context.Context, chatID int64, replyTo int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (int, error) {
	if c.bot == nil {
		return 0, ErrNotInitialized
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	msg := tgbotapi.NewMessage(chatID, truncate(cleanUTF8(text)))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	msg.ReplyToMessageID = replyTo
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}

	sent, err := c.bot.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("failed to send telegram message: %w", err)
	}
	return sent.MessageID, nil
}

// EditMessage 编辑消息文本和按钮, 内容未变化不算错误
func (c *Client) EditMessage(ctx context.Context, chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	if c.bot == nil {
		return ErrNotInitialized
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	text = truncate(cleanUTF8(text))
	var edit tgbotapi.EditMessageTextConfig
	if keyboard != nil {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, *keyboard)
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, text)
	}
	edit.ParseMode = tgbotapi.ModeHTML
	edit.DisableWebPagePreview = true

	if _, err := c.bot.Request(edit); err != nil {
		if isNotModified(err) {
			return nil
		}
		return fmt.Errorf("failed to edit telegram message: %w", err)
	}
	return nil
}

// DeleteMessage 删除消息
func (c *Client) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if c.bot == nil {
		return ErrNotInitialized
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := c.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("failed to delete telegram message: %w", err)
	}
	return nil
}

// AnswerCallbackQuery 应答回调, alert 为true时以弹窗显示
func (c *Client) AnswerCallbackQuery(callbackQueryID, text string, alert bool) error {
	if c.bot == nil {
		return ErrNotInitialized
	}

	callback := tgbotapi.NewCallback(callbackQueryID, text)
	if alert {
		callback = tgbotapi.NewCallbackWithAlert(callbackQueryID, text)
	}
	if _, err := c.bot.Request(callback); err != nil {
		return fmt.Errorf("failed to answer callback query: %w", err)
	}
	return nil
}

func (c *Client) GetUpdates(offset int64, timeout int) ([]tgbotapi.Update, error) {
	if c.bot == nil {
		return nil, ErrNotInitialized
	}

	updateConfig := tgbotapi.NewUpdate(int(offset))
	updateConfig.Timeout = timeout

	updates, err := c.bot.GetUpdates(updateConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to get telegram updates: %w", err)
	}
	return updates, nil
}

// SetWebhook 设置 webhook 地址
func (c *Client) SetWebhook(url string) error {
	if c.bot == nil {
		return ErrNotInitialized
	}

	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	if _, err := c.bot.Request(wh); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	return nil
}

// DeleteWebhook 切换回 polling 前删除 webhook
func (c *Client) DeleteWebhook() error {
	if c.bot == nil {
		return ErrNotInitialized
	}
	if _, err := c.bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	return nil
}

func (c *Client) IsAuthorized(userID int64) bool {
	if len(c.config.AdminIDs) == 0 {
		return true
	}

	for _, adminID := range c.config.AdminIDs {
		if adminID == userID {
			return true
		}
	}
	return false
}

// RegisterBotCommands 注册Bot命令菜单
func (c *Client) RegisterBotCommands() error {
	if c.bot == nil {
		return ErrNotInitialized
	}

	commands := []tgbotapi.BotCommand{
		{Command: "mirror", Description: "📥 Mirror a link or magnet (usage: /mirror <link>)"},
		{Command: "status", Description: "📊 Show the status of all tasks"},
		{Command: "cancel", Description: "❌ Cancel a task (usage: /cancel <gid>)"},
		{Command: "stats", Description: "🖥 Show bot statistics"},
		{Command: "help", Description: "❓ Show help"},
	}

	if _, err := c.bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}
	return nil
}

func isNotModified(err error) bool {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) {
		return strings.Contains(tgErr.Message, "message is not modified")
	}
	return strings.Contains(err.Error(), "message is not modified")
}
