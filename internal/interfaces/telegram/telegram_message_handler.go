package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/easayliu/mirror-status-bot/internal/application/services/mirror"
	apperrors "github.com/easayliu/mirror-status-bot/internal/shared/errors"
	"github.com/easayliu/mirror-status-bot/pkg/logger"
	"github.com/easayliu/mirror-status-bot/pkg/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// 命令名
const (
	CommandMirror = "mirror"
	CommandStatus = "status"
	CommandStats  = "stats"
	CommandHelp   = "help"
	CommandStart  = "start"
)

// selectFlags /mirror 后跟这些参数时进入选文件模式
var selectFlags = map[string]bool{"s": true, "-s": true, "select": true}

const helpText = `<b>Mirror Bot</b>

/mirror &lt;link|magnet&gt; [s] - Mirror a link, <code>s</code> to select torrent files first
/status - Show the status of all tasks
/%s &lt;gid&gt; - Cancel a task
/stats - Show bot statistics
/help - Show this message`

// MessageHandler 处理命令消息
type MessageHandler struct {
	controller *TelegramController
}

// NewMessageHandler 创建消息处理器
func NewMessageHandler(controller *TelegramController) *MessageHandler {
	return &MessageHandler{
		controller: controller,
	}
}

// HandleMessage 处理一条消息, 只响应命令
func (h *MessageHandler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg == nil || msg.Text == "" || msg.From == nil || msg.Chat == nil {
		return
	}

	c := h.controller
	command, args := parseCommand(msg.Text, c.bot.Username())
	if command == "" {
		return
	}

	chatID := msg.Chat.ID
	if !c.bot.IsAuthorized(msg.From.ID) {
		h.reply(ctx, msg, "Unauthorized")
		c.metrics.RecordCommand(command, "unauthorized")
		logger.Warn("Unauthorized telegram access attempt", "user_id", msg.From.ID, "username", msg.From.UserName)
		return
	}

	logger.Info("Received telegram command", "command", command, "from", msg.From.UserName, "chat_id", chatID)

	var err error
	switch command {
	case CommandMirror:
		err = h.handleMirror(ctx, msg, args)
	case CommandStatus:
		err = h.handleStatus(ctx, msg)
	case c.opts.CancelCommand:
		err = h.handleCancel(ctx, msg, args)
	case CommandStats:
		_, err = c.bot.ReplyMessage(ctx, chatID, msg.MessageID, c.renderer.SystemStatsSummary(), nil)
	case CommandHelp, CommandStart:
		_, err = c.bot.ReplyMessage(ctx, chatID, msg.MessageID, fmt.Sprintf(helpText, c.opts.CancelCommand), nil)
	default:
		return
	}

	if err != nil {
		c.metrics.RecordCommand(command, string(apperrors.CodeOf(err)))
		if _, ok := apperrors.AsServiceError(err); !ok {
			logger.Error("Failed to handle command", "command", command, "chat_id", chatID, "error", err)
		}
		h.reply(ctx, msg, utils.EscapeHTML(apperrors.UserMessage(err)))
		return
	}
	c.metrics.RecordCommand(command, "ok")
}

func (h *MessageHandler) reply(ctx context.Context, msg *tgbotapi.Message, text string) {
	if _, err := h.controller.bot.ReplyMessage(ctx, msg.Chat.ID, msg.MessageID, text, nil); err != nil {
		logger.Warn("Failed to reply", "chat_id", msg.Chat.ID, "error", err)
	}
}

// handleMirror /mirror <link> [s], 也可以回复一条含链接的消息
func (h *MessageHandler) handleMirror(ctx context.Context, msg *tgbotapi.Message, args []string) error {
	c := h.controller

	var link string
	selectFiles := false
	for _, arg := range args {
		if selectFlags[strings.ToLower(arg)] {
			selectFiles = true
			continue
		}
		if link == "" {
			link = arg
		}
	}
	if link == "" && msg.ReplyToMessage != nil {
		link = strings.TrimSpace(msg.ReplyToMessage.Text)
	}
	if link == "" {
		return apperrors.NewServiceError(apperrors.ErrorCodeInvalidRequest,
			"Send a link along with the command or reply to a message containing one")
	}

	res, err := c.mirror.Submit(ctx, mirror.SubmitRequest{
		Link:    link,
		Message: toEntity(msg),
		Select:  selectFiles,
		IsAdmin: c.isAdmin(msg.From.ID),
	})
	if err != nil {
		return err
	}

	text := fmt.Sprintf("<b>Added to download queue</b>\n<b>GID:</b> <code>%s</code>", res.GID)
	if res.Name != "" {
		text += "\n<b>Name:</b> <code>" + utils.EscapeHTML(res.Name) + "</code>"
	}
	if res.Buttons != nil {
		text += "\n\nDownload paused. Choose files then press Done Selecting to start."
	}
	_, err = c.bot.ReplyMessage(ctx, msg.Chat.ID, msg.MessageID, text, res.Buttons)
	return err
}

// handleStatus 发送新的状态面板, 同一聊天的旧面板删除
func (h *MessageHandler) handleStatus(ctx context.Context, msg *tgbotapi.Message) error {
	c := h.controller
	chatID := msg.Chat.ID

	c.syncTasks(ctx)
	doc, markup := c.renderer.Render()
	if doc == nil {
		_, err := c.bot.ReplyMessage(ctx, chatID, msg.MessageID, "No Active Downloads !", nil)
		return err
	}

	messageID, err := c.bot.SendMessage(ctx, chatID, doc.Text, markup)
	if err != nil {
		return err
	}
	if old, replaced := c.updater.Track(chatID, messageID, doc.Text); replaced {
		if err := c.bot.DeleteMessage(ctx, chatID, old); err != nil {
			logger.Debug("Failed to delete previous status message", "chat_id", chatID, "message_id", old, "error", err)
		}
	}
	return nil
}

// handleCancel /cancel <gid>
func (h *MessageHandler) handleCancel(ctx context.Context, msg *tgbotapi.Message, args []string) error {
	c := h.controller
	if len(args) == 0 {
		return apperrors.NewServiceError(apperrors.ErrorCodeInvalidRequest,
			fmt.Sprintf("Usage: /%s <gid>", c.opts.CancelCommand))
	}

	task, err := c.mirror.Cancel(ctx, args[0], msg.From.ID, c.isAdmin(msg.From.ID))
	if err != nil {
		return err
	}

	text := fmt.Sprintf("<b>Download cancelled</b>\n<code>%s</code>", utils.EscapeHTML(task.Name()))
	_, err = c.bot.ReplyMessage(ctx, msg.Chat.ID, msg.MessageID, text, nil)
	return err
}
