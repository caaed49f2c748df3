package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevels(t *testing.T) {
	if err := Init(Options{Level: "debug", Output: "console"}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	Debug("debug message", "gid", "abc")
	Info("info message", "gid", "abc")
	Warn("warn message", "gid", "abc")
	Error("error message", "gid", "abc")
}

func TestInitInvalid(t *testing.T) {
	if err := Init(Options{Level: "verbose"}); err == nil {
		t.Error("expected error for unknown level")
	}
	if err := Init(Options{Output: "file"}); err == nil {
		t.Error("expected error for file output without path")
	}
	if err := SetLevel("loud"); err == nil {
		t.Error("expected error for unknown level in SetLevel")
	}
}

func TestFileOutputRespectsLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "bot.log")

	if err := Init(Options{Level: "info", Output: "file", Format: "text", FilePath: logPath}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := SetLevel("error"); err != nil {
		t.Fatalf("SetLevel failed: %v", err)
	}

	Info("should not appear")
	Error("should appear")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if strings.Contains(string(content), "should not appear") {
		t.Error("info message written at error level")
	}
	if !strings.Contains(string(content), "should appear") {
		t.Error("error message missing")
	}
}

func TestJSONOutputMasksToken(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "bot.json")

	if err := Init(Options{Level: "info", Output: "file", Format: "json", FilePath: logPath}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	Info("bot connected", "bot_token", "1234567890abcdef")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), `"msg":"bot connected"`) {
		t.Errorf("JSON log does not contain expected message: %s", content)
	}
	if !strings.Contains(string(content), `"bot_token":"1234********cdef"`) {
		t.Errorf("JSON log does not contain masked token: %s", content)
	}
}

func TestInitDefault(t *testing.T) {
	defaultLogger = nil
	Info("test default init")

	if defaultLogger == nil {
		t.Fatal("Default logger was not initialized")
	}
}
