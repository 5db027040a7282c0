package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogFilePath is the path to the game log file, relative to the working directory (project root when run via go run ./cmd/game).
const LogFilePath = "logs/game.txt"

// maxLines bounds the in-memory history shown by the terminal overlay.
const maxLines = 500

// Logger is a zerolog logger that also keeps recent lines in memory for the on-screen terminal
// and appends them to a file on disk.
type Logger struct {
	zerolog.Logger

	mu    sync.Mutex
	lines []string
	file  *os.File
}

// Options control where a Logger writes besides its in-memory history.
type Options struct {
	// FilePath is appended to; empty disables the file.
	FilePath string
	// Console, if set, receives human-readable output (e.g. os.Stderr).
	Console io.Writer
	Level   zerolog.Level
}

// New returns a Logger writing to LogFilePath at info level and ensures the logs directory exists.
func New() *Logger {
	return NewWithOptions(Options{FilePath: LogFilePath, Level: zerolog.InfoLevel})
}

// NewWithOptions returns a Logger configured by opts. A file that cannot be opened is skipped.
func NewWithOptions(opts Options) *Logger {
	l := &Logger{lines: make([]string, 0)}
	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: lineSink{l}, NoColor: true, TimeFormat: "2006-01-02 15:04:05"},
	}
	if opts.FilePath != "" {
		_ = os.MkdirAll(filepath.Dir(opts.FilePath), 0755)
		f, err := os.OpenFile(opts.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			l.file = f
			writers = append(writers, zerolog.ConsoleWriter{Out: f, NoColor: true, TimeFormat: time.RFC3339})
		}
	}
	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: opts.Console, TimeFormat: time.RFC3339})
	}
	l.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(opts.Level).With().Timestamp().Logger()
	return l
}

// Log records a line typed by the user (or a plain message for the user) at info level.
func (l *Logger) Log(line string) {
	l.Info().Msg(line)
}

// Lines returns a copy of all stored lines.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) appendLine(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, line)
	if len(l.lines) > maxLines {
		l.lines = append(l.lines[:0], l.lines[len(l.lines)-maxLines:]...)
	}
}

// lineSink receives formatted console lines and stores them in the Logger history.
type lineSink struct{ l *Logger }

func (s lineSink) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line != "" {
			s.l.appendLine(line)
		}
	}
	return len(p), nil
}
