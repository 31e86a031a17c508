package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go-iocage/config"
)

func TestMemoryLogger_CaptureMessages(t *testing.T) {
	var _ LibraryLogger = (*MemoryLogger)(nil)

	logger := NewMemoryLogger()
	logger.Info("Successfully added mount to %s's fstab", "web")
	logger.Debug("mount -t nullfs")
	logger.Warn("editor exited")
	logger.Error("umount failed")

	messages := logger.GetMessages()
	if len(messages) != 4 {
		t.Fatalf("Expected 4 messages, got %d", len(messages))
	}
	if messages[0].Level != "INFO" || messages[0].Message != "Successfully added mount to web's fstab" {
		t.Errorf("First message incorrect: %+v", messages[0])
	}
	for _, level := range []string{"INFO", "DEBUG", "WARN", "ERROR"} {
		if got := logger.CountByLevel(level); got != 1 {
			t.Errorf("CountByLevel(%s) = %d, want 1", level, got)
		}
	}
	if !logger.HasMessageWithLevel("ERROR", "umount") {
		t.Error("Expected ERROR message containing 'umount'")
	}
	if logger.HasMessageWithLevel("INFO", "umount") {
		t.Error("Should not find 'umount' in INFO messages")
	}
}

func TestConsoleLogger_Routing(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := &ConsoleLogger{Out: &out, Err: &errOut}

	logger.Info("No matching fstab entry.")
	logger.Debug("hidden")
	logger.Error("boom %d", 1)

	if out.String() != "No matching fstab entry.\n" {
		t.Errorf("stdout = %q", out.String())
	}
	if strings.Contains(errOut.String(), "hidden") {
		t.Error("debug output should be dropped when not verbose")
	}
	if !strings.Contains(errOut.String(), "[ERROR] boom 1") {
		t.Errorf("stderr = %q", errOut.String())
	}

	logger.Verbose = true
	logger.Debug("shown")
	if !strings.Contains(errOut.String(), "[DEBUG] shown") {
		t.Errorf("stderr = %q, want debug line", errOut.String())
	}
}

func TestTee(t *testing.T) {
	a, b := NewMemoryLogger(), NewMemoryLogger()
	Tee{a, b, NoOpLogger{}}.Warn("x=%d", 2)

	if !a.HasMessageWithLevel("WARN", "x=2") || !b.HasMessageWithLevel("WARN", "x=2") {
		t.Errorf("tee did not reach all loggers: %s / %s", a, b)
	}
}

func TestLogger_AppendsToFile(t *testing.T) {
	cfg := &config.Config{LogsPath: filepath.Join(t.TempDir(), "log")}

	for i := 0; i < 2; i++ {
		logger, err := NewLogger(cfg)
		if err != nil {
			t.Fatalf("NewLogger failed: %v", err)
		}
		logger.Info("run %d", i)
		logger.Close()
		logger.Info("after close")
	}

	data, err := os.ReadFile(filepath.Join(cfg.LogsPath, "fstab.log"))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "INFO: run 0") || !strings.Contains(content, "INFO: run 1") {
		t.Errorf("log content = %q", content)
	}
	if strings.Contains(content, "after close") {
		t.Error("writes after Close should be dropped")
	}
}
