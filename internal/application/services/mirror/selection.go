package mirror

import (
	"strings"

	"github.com/easayliu/mirror-status-bot/internal/infrastructure/telegram"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// 选文件回调数据, 形如 "btsel done <gid> <id>"
const (
	SelectCallbackPrefix = "btsel"
	SelectActionPin      = "pin"
	SelectActionDone     = "done"
)

// SelectionButtons 种子选文件的按钮
// id 为 aria2 gid 或 infohash, 超过20位时只取前12位作为回调里的gid
func SelectionButtons(id, baseURL string, pincodeMode bool) *tgbotapi.InlineKeyboardMarkup {
	gid := id
	if len(id) > 20 {
		gid = id[:12]
	}
	pincode := Pincode(id)

	buttons := telegram.NewButtonMaker()
	if baseURL != "" {
		url := strings.TrimRight(baseURL, "/") + "/app/files/" + id
		if !pincodeMode {
			url += "?pin_code=" + pincode
		}
		buttons.URL("Select Files", url)
		if pincodeMode {
			buttons.Data("Pincode", strings.Join([]string{SelectCallbackPrefix, SelectActionPin, gid, pincode}, " "))
		}
	}
	buttons.Data("Done Selecting", strings.Join([]string{SelectCallbackPrefix, SelectActionDone, gid, id}, " "))
	return buttons.BuildMenu(2)
}

// Pincode id 中前4个数字
func Pincode(id string) string {
	var b strings.Builder
	for _, r := range id {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == 4 {
				break
			}
		}
	}
	return b.String()
}
