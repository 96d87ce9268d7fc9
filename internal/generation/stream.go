package generation

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/geo-copy/geo-api/internal/domain"
	"github.com/geo-copy/geo-api/internal/llm"
	"github.com/geo-copy/geo-api/internal/redact"
)

// StreamSession is an open upstream stream ready to be relayed.
type StreamSession struct {
	CopyType domain.CopyType
	Model    string
	Provider domain.Provider

	body    io.ReadCloser
	started time.Time
	logger  *slog.Logger
}

// Relay writes the normalized event stream to dst, calling flush after each
// event, then closes the upstream body.
func (s *StreamSession) Relay(ctx context.Context, dst io.Writer, flush func()) error {
	defer s.Close()

	stats, err := llm.Relay(ctx, dst, s.body, flush)
	attrs := []any{
		slog.Int("events", stats.Emitted),
		slog.Int("dropped", stats.Dropped),
		slog.Int64("duration_ms", time.Since(s.started).Milliseconds()),
	}
	if err != nil {
		s.logger.Warn("LLM stream interrupted", append(attrs, slog.String("error", redact.Error(err)))...)
		return err
	}
	if stats.Dropped > 0 {
		s.logger.Debug("dropped malformed stream events", slog.Int("dropped", stats.Dropped))
	}
	s.logger.Info("LLM stream finished", attrs...)
	return nil
}

// Close releases the upstream body. It is safe to call more than once.
func (s *StreamSession) Close() error {
	if s.body == nil {
		return nil
	}
	err := s.body.Close()
	s.body = nil
	return err
}
