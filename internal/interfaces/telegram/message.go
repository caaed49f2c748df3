package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/easayliu/mirror-status-bot/internal/domain/entities"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// toEntity 把 Telegram 消息转成任务关联的消息
func toEntity(msg *tgbotapi.Message) *entities.Message {
	if msg == nil {
		return nil
	}

	out := &entities.Message{
		ID:   msg.MessageID,
		Date: time.Unix(int64(msg.Date), 0),
	}
	if msg.Chat != nil {
		out.Chat = &entities.Chat{ID: msg.Chat.ID, Type: msg.Chat.Type}
		out.Link = messageLink(msg.Chat, msg.MessageID)
	}
	if msg.From != nil {
		out.From = &entities.User{ID: msg.From.ID, FirstName: msg.From.FirstName}
	}
	return out
}

// messageLink 群组和频道的消息链接, 私聊没有
func messageLink(chat *tgbotapi.Chat, messageID int) string {
	switch {
	case chat.IsPrivate():
		return ""
	case chat.UserName != "":
		return fmt.Sprintf("https://t.me/%s/%d", chat.UserName, messageID)
	default:
		id := strings.TrimPrefix(strconv.FormatInt(chat.ID, 10), "-100")
		return fmt.Sprintf("https://t.me/c/%s/%d", id, messageID)
	}
}

// parseCommand 拆出命令名和参数, 去掉 @bot 后缀
// 非命令或发给其他bot的命令返回空
func parseCommand(text, botUsername string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil
	}

	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		if botUsername != "" && !strings.EqualFold(name[at+1:], botUsername) {
			return "", nil
		}
		name = name[:at]
	}
	return strings.ToLower(name), fields[1:]
}
