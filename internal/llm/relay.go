package llm

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	eventPrefix  = "data:"
	doneSentinel = "[DONE]"

	// deltaPath locates the incremental text in a streamed event.
	deltaPath = "choices.0.delta.content"

	relayBufferSize = 4096
)

var doneEvent = []byte("data: [DONE]\n\n")

// RelayTransformer converts a provider's native stream into the normalized
// event stream. Each upstream event carrying non-empty delta text becomes
//
//	data: {"content":"<text>"}\n\n
//
// and Close appends a single terminal "data: [DONE]\n\n" event. Input may
// be split at arbitrary byte boundaries; the output does not depend on how
// it was chunked.
type RelayTransformer struct {
	out      io.Writer
	pending  []byte
	finished bool
	closed   bool
	emitted  int
	dropped  int
}

// NewRelayTransformer returns a transformer writing events to out.
func NewRelayTransformer(out io.Writer) *RelayTransformer {
	return &RelayTransformer{out: out}
}

// Write consumes a chunk of upstream bytes. Complete lines are processed
// immediately; an incomplete trailing line is held until the next chunk.
func (t *RelayTransformer) Write(chunk []byte) (int, error) {
	if t.closed {
		return 0, errors.New("relay: write after close")
	}

	data := append(t.pending, chunk...)
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		if err := t.processLine(data[:i]); err != nil {
			t.pending = nil
			return len(chunk), err
		}
		data = data[i+1:]
	}
	t.pending = append([]byte(nil), data...)
	return len(chunk), nil
}

// Close processes any unterminated final line and emits the terminal event.
// Calling Close more than once has no further effect.
func (t *RelayTransformer) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true

	if len(t.pending) > 0 {
		line := t.pending
		t.pending = nil
		if err := t.processLine(line); err != nil {
			return err
		}
	}
	_, err := t.out.Write(doneEvent)
	return err
}

// Emitted reports how many content events were written.
func (t *RelayTransformer) Emitted() int { return t.emitted }

// Dropped reports how many event lines were skipped as malformed.
func (t *RelayTransformer) Dropped() int { return t.dropped }

func (t *RelayTransformer) processLine(line []byte) error {
	if t.finished {
		return nil
	}

	line = bytes.TrimRight(line, "\r")
	if !bytes.HasPrefix(line, []byte(eventPrefix)) {
		return nil
	}
	payload := bytes.TrimSpace(line[len(eventPrefix):])

	if string(payload) == doneSentinel {
		t.finished = true
		return nil
	}
	if !gjson.ValidBytes(payload) {
		t.dropped++
		return nil
	}

	text := gjson.GetBytes(payload, deltaPath).String()
	if text == "" {
		return nil
	}

	event, err := sjson.SetBytes([]byte(`{}`), "content", text)
	if err != nil {
		t.dropped++
		return nil
	}

	msg := make([]byte, 0, len(event)+8)
	msg = append(msg, "data: "...)
	msg = append(msg, event...)
	msg = append(msg, "\n\n"...)
	if _, err := t.out.Write(msg); err != nil {
		return err
	}
	t.emitted++
	return nil
}

// flushWriter calls flush after every successful write.
type flushWriter struct {
	w     io.Writer
	flush func()
}

func (f flushWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if err == nil && f.flush != nil {
		f.flush()
	}
	return n, err
}

// Relay copies src through a RelayTransformer into dst, calling flush after
// every event when flush is non-nil. It always attempts to finish the output
// with the terminal event, unless writing to dst itself failed. The returned
// error reports a failed read or write, or context cancellation.
func Relay(ctx context.Context, dst io.Writer, src io.Reader, flush func()) (RelayStats, error) {
	t := NewRelayTransformer(flushWriter{w: dst, flush: flush})

	var readErr error
	buf := make([]byte, relayBufferSize)
	for {
		if err := ctx.Err(); err != nil {
			readErr = err
			break
		}
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := t.Write(buf[:n]); werr != nil {
				return t.stats(), werr
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			readErr = err
			break
		}
	}

	if err := t.Close(); err != nil {
		return t.stats(), err
	}
	return t.stats(), readErr
}

// RelayStats summarizes a finished relay.
type RelayStats struct {
	Emitted int
	Dropped int
}

func (t *RelayTransformer) stats() RelayStats {
	return RelayStats{Emitted: t.emitted, Dropped: t.dropped}
}
