package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Logger interface {
	Debug(msg string)
	Info(msg string)
	Error(msg string, err error)
	Warning(msg string)
	Close()
}

type fileLogger struct {
	mu      sync.Mutex
	logFile *os.File
	zl      zerolog.Logger
	closed  bool
}

// callerSkip is zerolog's default of 2 plus the Info/Error and write frames.
const callerSkip = 4

// NewFileLogger writes one JSON object per line to
// <logDir>/<logPrefix>_<timestamp>.json. A file is used instead of stderr so
// that log output does not corrupt the alt-screen TUI.
func NewFileLogger(logDir, logPrefix string) (Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory '%s': %w", logDir, err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logFilePath := filepath.Join(logDir, fmt.Sprintf("%s_%s.json", logPrefix, timestamp))

	file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file '%s': %w", logFilePath, err)
	}

	return &fileLogger{
		logFile: file,
		zl:      newZerolog(file),
	}, nil
}

// NewWriterLogger logs to an arbitrary writer. Close is a no-op for the writer.
func NewWriterLogger(w io.Writer) Logger {
	return &fileLogger{zl: newZerolog(w)}
}

// Nop discards everything.
func Nop() Logger {
	return &fileLogger{zl: zerolog.Nop()}
}

func newZerolog(w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(w).
		Level(zerolog.DebugLevel).
		With().
		Timestamp().
		CallerWithSkipFrameCount(callerSkip).
		Logger()
}

func (l *fileLogger) write(level zerolog.Level, msg string, errIn error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		fmt.Fprintf(os.Stderr, "logger is closed, dropping log: %s\n", msg)
		return
	}

	event := l.zl.WithLevel(level)
	if errIn != nil {
		event = event.Err(errIn)
	}
	event.Msg(msg)
}

func (l *fileLogger) Debug(msg string) {
	l.write(zerolog.DebugLevel, msg, nil)
}

func (l *fileLogger) Info(msg string) {
	l.write(zerolog.InfoLevel, msg, nil)
}

func (l *fileLogger) Error(msg string, err error) {
	l.write(zerolog.ErrorLevel, msg, err)
}

func (l *fileLogger) Warning(msg string) {
	l.write(zerolog.WarnLevel, msg, nil)
}

func (l *fileLogger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile != nil {
		if err := l.logFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "error closing log file: %v\n", err)
		}
		l.logFile = nil
		l.closed = true
	}
}
