package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Logger writes application log lines to stdout and a timestamped file under
// logs/. It covers the ambient logging the API handlers and the status store
// need; per-request access logging is left to the HTTP framework.
type Logger struct {
	file   *os.File
	logger *log.Logger
}

// NewLogger creates the logs directory if needed and opens a new log file
// for this process run.
func NewLogger(name string) (*Logger, error) {
	logsDir := "logs"
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logPath := filepath.Join(logsDir, fmt.Sprintf("%s_%s.log", name, timestamp))

	file, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	multiWrite := io.MultiWriter(os.Stdout, file)
	logger := log.New(multiWrite, "", log.Ldate|log.Ltime|log.Lmicroseconds)

	return &Logger{
		file:   file,
		logger: logger,
	}, nil
}

// NewDiscardLogger returns a logger that writes nowhere, for tests.
func NewDiscardLogger() *Logger {
	return &Logger{logger: log.New(io.Discard, "", 0)}
}

func (l *Logger) LogInfo(format string, v ...interface{}) {
	l.log("INFO", format, v...)
}

func (l *Logger) LogError(format string, v ...interface{}) {
	l.log("ERROR", format, v...)
}

func (l *Logger) LogDebug(format string, v ...interface{}) {
	l.log("DEBUG", format, v...)
}

func (l *Logger) log(level string, format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	l.logger.Printf("[%s] %s", level, message)
}

func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
