package utils

import (
	"strings"
)

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
)

// EscapeHTML 转义HTML特殊字符
// 遵循 Telegram Bot API HTML 格式规范,仅需转义 4 个字符: & < > "
// 其他字符(包括 emoji 和中文)无需转义
func EscapeHTML(text string) string {
	return htmlReplacer.Replace(text)
}
