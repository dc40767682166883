// Package logging wraps charmbracelet/log and keeps a ring of recent entries
// for the in-app debug panel.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// maxEntries is how many recent entries the debug ring keeps.
const maxEntries = 300

// Entry is one captured log record.
type Entry struct {
	Time    time.Time
	Level   log.Level
	Message string
	KeyVals []interface{}
}

// Format renders the entry on one line for the debug panel.
func (e Entry) Format() string {
	var kv []string
	for i := 0; i+1 < len(e.KeyVals); i += 2 {
		val := fmt.Sprintf("%v", e.KeyVals[i+1])
		if len(val) > 60 {
			val = val[:57] + "..."
		}
		kv = append(kv, fmt.Sprintf("%v=%s", e.KeyVals[i], val))
	}
	s := fmt.Sprintf("%s [%s] %s", e.Time.Format("15:04:05"), strings.ToUpper(e.Level.String()), e.Message)
	if len(kv) > 0 {
		s += " " + strings.Join(kv, " ")
	}
	return s
}

// Ring is a fixed-size buffer of recent entries. Safe for concurrent use.
type Ring struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
}

// NewRing returns a ring holding up to size entries.
func NewRing(size int) *Ring {
	if size < 1 {
		size = maxEntries
	}
	return &Ring{entries: make([]Entry, size)}
}

// Push stores e, overwriting the oldest entry when full.
func (r *Ring) Push(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[r.next] = e
	r.next = (r.next + 1) % len(r.entries)
	if r.next == 0 {
		r.full = true
	}
}

// Recent returns up to n entries, oldest first.
func (r *Ring) Recent(n int) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	size := r.next
	start := 0
	if r.full {
		size = len(r.entries)
		start = r.next
	}
	if n > size || n <= 0 {
		n = size
	}

	out := make([]Entry, 0, n)
	for i := size - n; i < size; i++ {
		out = append(out, r.entries[(start+i)%len(r.entries)])
	}
	return out
}

// Logger logs through charmbracelet/log and mirrors entries into a Ring.
type Logger struct {
	base *log.Logger
	ring *Ring
	kv   []interface{}
}

// New creates a Logger writing to w at the given level.
func New(w io.Writer, level log.Level) *Logger {
	return &Logger{
		base: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Level:           level,
		}),
		ring: NewRing(maxEntries),
	}
}

// Discard returns a Logger that writes nowhere but still fills its ring.
func Discard() *Logger {
	return New(io.Discard, log.DebugLevel)
}

// OpenFile creates dir and a dated log file inside it, returning a Logger
// over it and a close func for the file.
func OpenFile(dir string, level log.Level) (*Logger, func() error, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	name := fmt.Sprintf("droptrack-%s.log", time.Now().Format("2006-01-02"))
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, level), f.Close, nil
}

// ParseLevel converts "debug", "info", "warn" or "error" to a level.
// Anything else is info.
func ParseLevel(s string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// With returns a Logger that adds keyvals to every entry and shares the
// parent's ring.
func (l *Logger) With(keyvals ...interface{}) *Logger {
	kv := append(append([]interface{}{}, l.kv...), keyvals...)
	return &Logger{base: l.base.With(keyvals...), ring: l.ring, kv: kv}
}

// Ring exposes recent entries for display.
func (l *Logger) Ring() *Ring { return l.ring }

func (l *Logger) Debug(msg string, keyvals ...interface{}) {
	l.record(log.DebugLevel, msg, keyvals)
	l.base.Debug(msg, keyvals...)
}

func (l *Logger) Info(msg string, keyvals ...interface{}) {
	l.record(log.InfoLevel, msg, keyvals)
	l.base.Info(msg, keyvals...)
}

func (l *Logger) Warn(msg string, keyvals ...interface{}) {
	l.record(log.WarnLevel, msg, keyvals)
	l.base.Warn(msg, keyvals...)
}

func (l *Logger) Error(msg string, keyvals ...interface{}) {
	l.record(log.ErrorLevel, msg, keyvals)
	l.base.Error(msg, keyvals...)
}

func (l *Logger) record(level log.Level, msg string, keyvals []interface{}) {
	if level < l.base.GetLevel() {
		return
	}
	kv := keyvals
	if len(l.kv) > 0 {
		kv = append(append([]interface{}{}, l.kv...), keyvals...)
	}
	l.ring.Push(Entry{Time: time.Now(), Level: level, Message: msg, KeyVals: kv})
}
