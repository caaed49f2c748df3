package logger

import (
	"errors"
	"regexp"
	"strings"
)

// sensitiveKeys 需要脱敏的字段关键字
var sensitiveKeys = []string{
	"token", "password", "passwd", "pwd",
	"secret", "api_key", "apikey", "api-key",
	"authorization", "auth",
}

// botTokenPattern 匹配Telegram Bot Token, 例如 123456:AAH... 以及 bot123456:AAH...
var botTokenPattern = regexp.MustCompile(`(bot)?(\d{5,}):([A-Za-z0-9_-]{30,})`)

// MaskToken 脱敏token字符串
// 规则:
//   - 空字符串返回空
//   - 长度<8: 返回 "***"
//   - 长度>=8: 保留前4后4,中间用星号替换
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) < 8 {
		return "***"
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}

// IsSensitiveKey 判断键名是否为敏感字段
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, sk := range sensitiveKeys {
		if strings.Contains(keyLower, sk) {
			return true
		}
	}
	return false
}

// SanitizeValue 根据键名脱敏值
func SanitizeValue(key string, value interface{}) interface{} {
	if !IsSensitiveKey(key) {
		return value
	}
	if strVal, ok := value.(string); ok {
		return MaskToken(strVal)
	}
	return "***MASKED***"
}

// SanitizeArgs 批量脱敏slog日志参数
// slog使用键值对格式: key1, value1, key2, value2, ...
// error类型的值会额外经过 SanitizeString, Telegram的请求URL里带着bot token
func SanitizeArgs(args ...any) []any {
	if len(args) == 0 {
		return args
	}

	result := make([]any, len(args))
	for i := 0; i < len(args); i += 2 {
		result[i] = args[i]
		if i+1 >= len(args) {
			break
		}

		key, ok := args[i].(string)
		if !ok {
			result[i+1] = args[i+1]
			continue
		}

		switch v := args[i+1].(type) {
		case error:
			if IsSensitiveKey(key) {
				result[i+1] = "***MASKED***"
			} else if s := SanitizeString(v.Error()); s != v.Error() {
				result[i+1] = errors.New(s)
			} else {
				result[i+1] = v
			}
		default:
			result[i+1] = SanitizeValue(key, v)
		}
	}

	return result
}

// SanitizeString 脱敏字符串中的bot token
func SanitizeString(s string) string {
	return botTokenPattern.ReplaceAllStringFunc(s, func(m string) string {
		parts := botTokenPattern.FindStringSubmatch(m)
		return parts[1] + parts[2] + ":" + MaskToken(parts[3])
	})
}
