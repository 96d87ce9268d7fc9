package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// TestLogBuffer is a thread-safe buffer for capturing log output in tests.
type TestLogBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

// Write implements io.Writer for TestLogBuffer.
func (b *TestLogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns the buffer contents as a string.
func (b *TestLogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Entries parses the buffer contents as JSON log entries, one per line.
func (b *TestLogBuffer) Entries() ([]map[string]any, error) {
	lines := strings.Split(b.String(), "\n")
	entries := make([]map[string]any, 0, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// EntriesWithMessage returns the parsed entries whose msg equals message.
func (b *TestLogBuffer) EntriesWithMessage(message string) []map[string]any {
	entries, err := b.Entries()
	if err != nil {
		return nil
	}
	var out []map[string]any
	for _, e := range entries {
		if e["msg"] == message {
			out = append(out, e)
		}
	}
	return out
}

// NewTestLogger returns a debug-level JSON logger writing into a fresh buffer.
// The default slog logger is left untouched.
func NewTestLogger(t *testing.T) (*slog.Logger, *TestLogBuffer) {
	t.Helper()

	buf := &TestLogBuffer{}
	l := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return l, buf
}

// AssertLogContains fails the test if the captured logs do not contain content.
func AssertLogContains(t *testing.T, buf *TestLogBuffer, content string) {
	t.Helper()

	if !strings.Contains(buf.String(), content) {
		t.Errorf("expected logs to contain %q, got:\n%s", content, buf.String())
	}
}
