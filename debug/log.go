package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger  *logrus.Logger
	file    *os.File
	mu      sync.Mutex
	enabled bool
)

// LogPath returns the path of the debug log (~/.config/piloop/debug.log)
func LogPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "piloop", "debug.log")
}

// Enable starts debug logging to ~/.config/piloop/debug.log
func Enable() error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}

	logPath := LogPath()

	// Ensure directory exists
	os.MkdirAll(filepath.Dir(logPath), 0755)

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	file = f
	start(f)
	return nil
}

// EnableWriter starts debug logging to w (stderr for the headless runner,
// a buffer in tests)
func EnableWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		logger.SetOutput(w)
		return
	}
	start(w)
}

// start must be called with mu held
func start(w io.Writer) {
	logger = logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	enabled = true

	// Write directly (can't call Log - we hold the mutex)
	logger.WithField("cat", "debug").Info("=== Debug logging started ===")
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	logger = nil
	enabled = false
}

// Enabled reports whether Log writes anywhere
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Log writes a message to the debug log
func Log(category, format string, args ...any) {
	mu.Lock()
	l := logger
	on := enabled
	mu.Unlock()

	if !on || l == nil {
		return
	}

	l.WithField("cat", category).Debug(fmt.Sprintf(format, args...))
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
