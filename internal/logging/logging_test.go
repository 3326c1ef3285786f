package logging

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/noxus/leadops/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	mu      sync.Mutex
	entries []models.SystemLog
}

func (s *memorySink) Write(entries []models.SystemLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
	return nil
}

func (s *memorySink) snapshot() []models.SystemLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.SystemLog(nil), s.entries...)
}

func TestPGHandler_OnlyPersistsErrors(t *testing.T) {
	sink := &memorySink{}
	h := NewSinkHandler(sink, time.Hour)
	defer h.Stop()

	logger := slog.New(h).With("request_id", "req-1")
	logger.Info("ignored")
	logger.Error("upstream failed",
		"endpoint", "/leads",
		"loja_id", int64(101),
		"error", "boom",
		"status", 502,
	)
	h.Flush()

	entries := sink.snapshot()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "upstream failed", e.Message)
	assert.Equal(t, "ERROR", e.Level)
	assert.Equal(t, "req-1", e.RequestID)
	assert.Equal(t, "/leads", e.Endpoint)
	assert.Equal(t, "boom", e.Error)
	require.NotNil(t, e.LojaID)
	assert.Equal(t, int64(101), *e.LojaID)
	assert.Contains(t, string(e.Extra), `"status":502`)
}

func TestPGHandler_StopIsIdempotent(t *testing.T) {
	h := NewSinkHandler(&memorySink{}, time.Hour)
	h.Stop()
	assert.NotPanics(t, h.Stop)
}

func TestMultiHandler_FansOut(t *testing.T) {
	var info, errs bytes.Buffer
	m := NewMultiHandler(
		NewJSONHandler(&info, slog.LevelInfo),
		NewJSONHandler(&errs, slog.LevelError),
	)
	logger := slog.New(m).With("component", "test")

	logger.Info("hello")
	logger.Error("bad")

	assert.Contains(t, info.String(), `"msg":"hello"`)
	assert.Contains(t, info.String(), `"msg":"bad"`)
	assert.NotContains(t, errs.String(), "hello")
	assert.Contains(t, errs.String(), `"component":"test"`)
}
