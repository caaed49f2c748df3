package telegram

import (
	"context"
	"strings"

	"github.com/easayliu/mirror-status-bot/internal/application/services/mirror"
	"github.com/easayliu/mirror-status-bot/internal/application/services/status"
	apperrors "github.com/easayliu/mirror-status-bot/internal/shared/errors"
	"github.com/easayliu/mirror-status-bot/pkg/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CallbackHandler 处理内联按钮回调
type CallbackHandler struct {
	controller *TelegramController
}

// NewCallbackHandler 创建回调处理器
func NewCallbackHandler(controller *TelegramController) *CallbackHandler {
	return &CallbackHandler{
		controller: controller,
	}
}

// HandleCallbackQuery 按回调数据的第一段分发
func (h *CallbackHandler) HandleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query == nil || query.From == nil {
		return
	}
	c := h.controller

	if !c.bot.IsAuthorized(query.From.ID) {
		h.answer(query, "Unauthorized", true)
		return
	}

	data := strings.Fields(query.Data)
	if len(data) == 0 {
		h.answer(query, "", false)
		return
	}

	switch {
	case query.Data == c.opts.StatsCallback:
		c.metrics.RecordCallback("stats")
		h.answer(query, c.renderer.SystemStatsSummary(), true)
	case data[0] == status.CallbackPrefix:
		h.handleStatus(ctx, query, data)
	case data[0] == mirror.SelectCallbackPrefix:
		h.handleSelection(ctx, query, data)
	default:
		logger.Debug("Unknown callback", "data", query.Data)
		h.answer(query, "", false)
	}
}

func (h *CallbackHandler) answer(query *tgbotapi.CallbackQuery, text string, alert bool) {
	if err := h.controller.bot.AnswerCallbackQuery(query.ID, text, alert); err != nil {
		logger.Warn("Failed to answer callback query", "error", err)
	}
}

// handleStatus 状态面板的翻页/刷新/关闭
func (h *CallbackHandler) handleStatus(ctx context.Context, query *tgbotapi.CallbackQuery, data []string) {
	c := h.controller
	if len(data) < 2 {
		h.answer(query, "", false)
		return
	}
	action := data[1]
	c.metrics.RecordCallback(status.CallbackPrefix + "_" + action)

	msg := query.Message
	if msg == nil || msg.Chat == nil {
		h.answer(query, "", false)
		return
	}
	chatID := msg.Chat.ID

	switch action {
	case "page":
		h.answer(query, "", false)
		return
	case "close":
		h.answer(query, "", false)
		c.updater.Untrack(chatID)
		if err := c.bot.DeleteMessage(ctx, chatID, msg.MessageID); err != nil {
			logger.Warn("Failed to delete status message", "chat_id", chatID, "error", err)
		}
		return
	case status.ActionNext, status.ActionPrev:
		if !c.pager.Turn(data) {
			h.answer(query, "Nothing to turn", false)
			return
		}
	case status.ActionRefresh:
		c.syncTasks(ctx)
	}
	h.answer(query, "", false)

	doc, markup := c.renderer.Render()
	if doc == nil {
		c.updater.Untrack(chatID)
		if err := c.bot.DeleteMessage(ctx, chatID, msg.MessageID); err != nil {
			logger.Warn("Failed to delete status message", "chat_id", chatID, "error", err)
		}
		return
	}
	if err := c.bot.EditMessage(ctx, chatID, msg.MessageID, doc.Text, markup); err != nil {
		logger.Warn("Failed to edit status message", "chat_id", chatID, "error", err)
		return
	}
	c.updater.Track(chatID, msg.MessageID, doc.Text)
}

// handleSelection 选文件按钮: btsel pin <gid> <pin> / btsel done <gid> <id>
func (h *CallbackHandler) handleSelection(ctx context.Context, query *tgbotapi.CallbackQuery, data []string) {
	c := h.controller
	if len(data) < 4 {
		h.answer(query, "", false)
		return
	}
	c.metrics.RecordCallback(mirror.SelectCallbackPrefix + "_" + data[1])

	switch data[1] {
	case mirror.SelectActionPin:
		h.answer(query, data[3], true)
	case mirror.SelectActionDone:
		err := c.mirror.ConfirmSelection(ctx, data[2], query.From.ID, c.isAdmin(query.From.ID))
		if err != nil {
			h.answer(query, apperrors.UserMessage(err), true)
			return
		}
		h.answer(query, "", false)
		if msg := query.Message; msg != nil && msg.Chat != nil {
			if err := c.bot.DeleteMessage(ctx, msg.Chat.ID, msg.MessageID); err != nil {
				logger.Warn("Failed to delete selection message", "chat_id", msg.Chat.ID, "error", err)
			}
		}
	default:
		h.answer(query, "", false)
	}
}
