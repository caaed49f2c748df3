package status

import (
	"fmt"

	"github.com/easayliu/mirror-status-bot/internal/infrastructure/telegram"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// 状态面板回调数据
const (
	CallbackPrefix  = "status"
	CallbackRefresh = CallbackPrefix + " " + ActionRefresh
	CallbackClose   = CallbackPrefix + " close"
	CallbackNext    = CallbackPrefix + " " + ActionNext
	CallbackPrev    = CallbackPrefix + " " + ActionPrev
	CallbackPage    = CallbackPrefix + " page"

	// DefaultStatsCallback 弹出系统统计的回调数据
	DefaultStatsCallback = "stats"
)

// StatusControls 面板下方的按钮
// 不分页时一行: 刷新/统计/关闭; 分页时第一行为 上一页/页码/下一页
func StatusControls(page Page, theme Theme, statsCallback string) *tgbotapi.InlineKeyboardMarkup {
	if statsCallback == "" {
		statsCallback = DefaultStatsCallback
	}

	buttons := telegram.NewButtonMaker()
	if page.Paginated() {
		buttons.Data(theme.Label(FieldPrevious), CallbackPrev).
			Data(fmt.Sprintf("%d/%d", page.Number, page.Total), CallbackPage).
			Data(theme.Label(FieldNext), CallbackNext)
	}
	buttons.Data("Refresh", CallbackRefresh).
		Data("Statistics", statsCallback).
		Data("Close", CallbackClose)

	return buttons.BuildMenu(3)
}
