package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go-iocage/config"
)

// Compile-time interface checks
var _ LibraryLogger = (*Logger)(nil)

// Logger appends every message to <LogsPath>/fstab.log. The file is opened
// in append mode so consecutive invocations build one history.
type Logger struct {
	file *os.File
	mu   sync.Mutex
}

// NewLogger opens the fstab log below cfg.LogsPath.
func NewLogger(cfg *config.Config) (*Logger, error) {
	if err := os.MkdirAll(cfg.LogsPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(cfg.LogsPath, "fstab.log"),
		os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open fstab log: %w", err)
	}

	return &Logger{file: f}, nil
}

// Close closes the log file
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}

func (l *Logger) write(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	msg := fmt.Sprintf(format, args...)
	l.file.WriteString(fmt.Sprintf("[%s] %s: %s\n", timestamp, level, msg))
	l.file.Sync()
}

func (l *Logger) Info(format string, args ...any)  { l.write("INFO", format, args...) }
func (l *Logger) Debug(format string, args ...any) { l.write("DEBUG", format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.write("WARN", format, args...) }
func (l *Logger) Error(format string, args ...any) { l.write("ERROR", format, args...) }
