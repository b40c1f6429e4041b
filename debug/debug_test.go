package debug

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/ultron-go/dispatch"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type fixedStats dispatch.Stats

func (f fixedStats) Stats() dispatch.Stats { return dispatch.Stats(f) }

func TestLogDispatchStats(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	LogDispatchStats(logger, dispatch.Stats{Workers: 4, Submitted: 10, Completed: 8, Failed: 1, Discarded: 1})

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "dispatch-stats", rec["msg"])
	assert.EqualValues(t, 4, rec["workers"])
	assert.EqualValues(t, 10, rec["submitted"])
	assert.EqualValues(t, 1, rec["discarded"])
}

func TestStartDispatchLogger_StopsWithContext(t *testing.T) {
	buf := &syncBuffer{}
	logger := slog.New(slog.NewJSONHandler(buf, nil))
	ctx, cancel := context.WithCancel(context.Background())
	StartDispatchLogger(ctx, 5*time.Millisecond, fixedStats{Workers: 2}, logger)

	require.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "dispatch-stats")
	}, time.Second, 5*time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)
	n := len(buf.String())
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, len(buf.String()))
}

func TestStartGoroutineLogger(t *testing.T) {
	buf := &syncBuffer{}
	logger := slog.New(slog.NewJSONHandler(buf, nil))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartGoroutineLogger(ctx, 5*time.Millisecond, logger)
	require.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "goroutine-stacks")
	}, time.Second, 5*time.Millisecond)
}
