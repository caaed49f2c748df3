package utils

import (
	"strings"
	"testing"
	"time"
)

func TestReadableSize(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  string
	}{
		{"零", 0, "0B"},
		{"字节", 512, "512B"},
		{"1.5KB", 1536, "1.5KB"},
		{"整KB带小数位", 1024, "1.0KB"},
		{"两位小数", 1500000, "1.43MB"},
		{"GB", 5 * 1024 * 1024 * 1024, "5.0GB"},
		{"EB", 2 * float64(uint64(1) << 60), "2.0EB"},
		{"超出单位表", float64(uint64(1)<<63) * 256, SizeTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReadableSize(tt.input); got != tt.want {
				t.Errorf("ReadableSize(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestReadableSizeOrZero(t *testing.T) {
	if got := ReadableSizeOrZero(nil); got != "0B" {
		t.Errorf("ReadableSizeOrZero(nil) = %q, want 0B", got)
	}
	size := int64(1536)
	if got := ReadableSizeOrZero(&size); got != "1.5KB" {
		t.Errorf("ReadableSizeOrZero(1536) = %q, want 1.5KB", got)
	}
}

func TestReadableSizeUnitMonotonic(t *testing.T) {
	unitIndex := func(s string) int {
		unit := strings.TrimLeft(s, "0123456789.")
		for i, u := range SizeUnits {
			if u == unit {
				return i
			}
		}
		return -1
	}

	last := 0
	for size := int64(1); size < 1<<50; size *= 3 {
		idx := unitIndex(ReadableSize(size))
		if idx < last {
			t.Fatalf("unit index decreased at %d: %s", size, ReadableSize(size))
		}
		last = idx
	}
}

func TestReadableTime(t *testing.T) {
	tests := []struct {
		input time.Duration
		want  string
	}{
		{0, "0s"},
		{65 * time.Second, "1m5s"},
		{90061 * time.Second, "1d1h1m1s"},
		{3600 * time.Second, "1h0s"},
		{1500 * time.Millisecond, "1s"},
		{-5 * time.Second, "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := ReadableTime(tt.input); got != tt.want {
				t.Errorf("ReadableTime(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestReadableElapsed(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{0, ""},
		{1500, "1 sec, 500 millisec"},
		{60000, "1 min"},
		{90061001, "1 days, 1 hours, 1 min, 1 sec, 1 millisec"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := ReadableElapsed(tt.input); got != tt.want {
				t.Errorf("ReadableElapsed(%d) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSpeed(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"500KB/s", 500 * 1024},
		{"1MB/s", 1048576},
		{"1.5MB/s", 1.5 * 1048576},
		{"0B/s", 0},
		{"2GB/s", 0},
		{"500kb/s", 0},
		{"abcKB/s", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseSpeed(tt.input); got != tt.want {
				t.Errorf("ParseSpeed(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscapeHTML(t *testing.T) {
	if got := EscapeHTML(`<a href="x">&</a>`); got != "&lt;a href=&quot;x&quot;&gt;&amp;&lt;/a&gt;" {
		t.Errorf("EscapeHTML() = %q", got)
	}
}
