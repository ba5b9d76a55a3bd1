package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileName is the log file written under <workspace>/.suitemap/logs.
const FileName = "suitemap.log"

// Config selects where the log file lives and how verbose it is.
type Config struct {
	Root  string
	Debug bool
	// Command is attached as "cmd" to every entry, e.g. "suitemap get".
	Command string
}

type sink struct {
	log  *slog.Logger
	file *os.File
	path string
}

var (
	mu      sync.RWMutex
	current = discard()
)

func discard() sink {
	return sink{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// Dir returns the log directory of a workspace root.
func Dir(root string) string {
	if root == "" {
		root = "."
	}
	return filepath.Join(filepath.Clean(root), ".suitemap", "logs")
}

// Setup opens the workspace log file and installs it as the process logger. The
// returned cleanup closes the file and goes back to discarding.
func Setup(cfg Config) (func() error, error) {
	dir := Dir(cfg.Root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		reset()
		return nil, err
	}

	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		reset()
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: slog.LevelInfo, ReplaceAttr: utcTime}
	if cfg.Debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	l := slog.New(slog.NewJSONHandler(f, opts))
	if cfg.Command != "" {
		l = l.With("cmd", cfg.Command)
	}

	mu.Lock()
	current = sink{log: l, file: f, path: path}
	mu.Unlock()

	l.Info("logger.ready", "path", path, "debug", cfg.Debug)

	return func() error {
		mu.Lock()
		defer mu.Unlock()
		var cerr error
		if current.file != nil {
			cerr = current.file.Close()
		}
		current = discard()
		return cerr
	}, nil
}

// utcTime renders entry timestamps in UTC.
func utcTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
		a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
	}
	return a
}

// L returns the process logger; it discards output until Setup succeeds.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current.log
}

// Path is the open log file, or "" when logging is discarded.
func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return current.path
}

// IsReady reports an error unless a log file is open.
func IsReady() error {
	mu.RLock()
	defer mu.RUnlock()
	if current.file == nil {
		return errors.New("logger: no log file open")
	}
	return nil
}

func reset() {
	mu.Lock()
	defer mu.Unlock()
	current = discard()
}
