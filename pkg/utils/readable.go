package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// SizeUnits 文件大小单位, 按1024递进
var SizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// SizeTooLarge 超出单位表时的返回值
const SizeTooLarge = "File too large"

// Number 可格式化的数值类型
type Number interface {
	~int | ~int32 | ~int64 | ~uint64 | ~float64
}

// ReadableSize 把字节数格式化为 "1.5KB" 这样的字符串, 保留两位小数
// 单位为B时不带小数部分, 其余单位至少保留一位小数 (1024 -> "1.0KB")
func ReadableSize[T Number](size T) string {
	value := float64(size)
	index := 0
	for value >= 1024 {
		value /= 1024
		index++
	}
	if index >= len(SizeUnits) {
		return SizeTooLarge
	}

	value = math.Round(value*100) / 100
	s := strconv.FormatFloat(value, 'f', -1, 64)
	if index > 0 && !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + SizeUnits[index]
}

// ReadableSizeOrZero 同 ReadableSize, nil 返回 "0B"
func ReadableSizeOrZero(size *int64) string {
	if size == nil {
		return "0B"
	}
	return ReadableSize(*size)
}

// ReadableTime 把时长格式化为 "1d1h1m1s", 省略为0的天/时/分, 秒始终保留
func ReadableTime(d time.Duration) string {
	seconds := int64(d / time.Second)
	if seconds < 0 {
		seconds = 0
	}

	var b strings.Builder
	days, remainder := seconds/86400, seconds%86400
	if days != 0 {
		fmt.Fprintf(&b, "%dd", days)
	}
	hours, remainder := remainder/3600, remainder%3600
	if hours != 0 {
		fmt.Fprintf(&b, "%dh", hours)
	}
	minutes, secs := remainder/60, remainder%60
	if minutes != 0 {
		fmt.Fprintf(&b, "%dm", minutes)
	}
	fmt.Fprintf(&b, "%ds", secs)
	return b.String()
}

// ReadableElapsed 把毫秒数格式化为 "1 days, 2 hours, 3 min, 4 sec, 5 millisec"
// 所有为0的部分都会省略, 0 毫秒返回空字符串
func ReadableElapsed(milliseconds int64) string {
	if milliseconds < 0 {
		milliseconds = 0
	}
	seconds, millis := milliseconds/1000, milliseconds%1000
	minutes, seconds := seconds/60, seconds%60
	hours, minutes := minutes/60, minutes%60
	days, hours := hours/24, hours%24

	parts := make([]string, 0, 5)
	for _, p := range []struct {
		value int64
		unit  string
	}{
		{days, "days"},
		{hours, "hours"},
		{minutes, "min"},
		{seconds, "sec"},
		{millis, "millisec"},
	} {
		if p.value != 0 {
			parts = append(parts, fmt.Sprintf("%d %s", p.value, p.unit))
		}
	}
	return strings.Join(parts, ", ")
}

// ParseSpeed 把 "500KB/s"、"1.2MB/s" 这类速度字符串还原为 字节/秒
// 大小写敏感, 只识别 K 和 M, 其他单位或无法解析的数字按0处理
func ParseSpeed(speed string) float64 {
	var multiplier float64
	var prefix string
	if i := strings.Index(speed, "K"); i >= 0 {
		prefix, multiplier = speed[:i], 1024
	} else if i := strings.Index(speed, "M"); i >= 0 {
		prefix, multiplier = speed[:i], 1048576
	} else {
		return 0
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(prefix), 64)
	if err != nil {
		return 0
	}
	return value * multiplier
}
