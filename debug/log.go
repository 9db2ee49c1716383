package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	file    *os.File
	logger  = log.New(io.Discard)
	mu      sync.Mutex
	enabled bool
)

// DefaultPath is ~/.config/go-midistream/debug.log
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "go-midistream", "debug.log")
}

// Enable starts debug logging to the file at path (DefaultPath if empty)
func Enable(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}
	if path == "" {
		path = DefaultPath()
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	file = f
	enable(f)
	logger.WithPrefix("debug").Debug("=== Debug logging started ===")
	return nil
}

// EnableWriter sends debug logging to w, e.g. os.Stderr for -v flags
func EnableWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	enable(w)
}

func enable(w io.Writer) {
	logger = log.NewWithOptions(w, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
	})
	enabled = true
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	logger = log.New(io.Discard)
	enabled = false
}

// Enabled reports whether logging is on
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Log writes a message to the debug log
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled {
		return
	}
	logger.WithPrefix(category).Debug(fmt.Sprintf(format, args...))
	if file != nil {
		file.Sync() // flush immediately so we see logs even on crash
	}
}

// Logger returns the structured logger for key/value logging. It discards
// everything while logging is disabled.
func Logger() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// LogEvery logs only every N calls (use for high-frequency events)
var counters = make(map[string]int)

func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}
