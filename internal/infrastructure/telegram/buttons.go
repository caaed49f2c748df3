package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ButtonMaker 按添加顺序收集内联按钮, 最后按固定列数排版
type ButtonMaker struct {
	buttons []tgbotapi.InlineKeyboardButton
}

// NewButtonMaker 创建按钮构造器
func NewButtonMaker() *ButtonMaker {
	return &ButtonMaker{}
}

// Data 添加回调按钮
func (b *ButtonMaker) Data(text, data string) *ButtonMaker {
	b.buttons = append(b.buttons, tgbotapi.NewInlineKeyboardButtonData(text, data))
	return b
}

// URL 添加链接按钮
func (b *ButtonMaker) URL(text, url string) *ButtonMaker {
	b.buttons = append(b.buttons, tgbotapi.NewInlineKeyboardButtonURL(text, url))
	return b
}

// Len 已添加的按钮数
func (b *ButtonMaker) Len() int {
	return len(b.buttons)
}

// BuildMenu 每行 cols 个按钮, 最后一行可能不满
func (b *ButtonMaker) BuildMenu(cols int) *tgbotapi.InlineKeyboardMarkup {
	if cols <= 0 {
		cols = 1
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, (len(b.buttons)+cols-1)/cols)
	for i := 0; i < len(b.buttons); i += cols {
		end := min(i+cols, len(b.buttons))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(b.buttons[i:end]...))
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}
