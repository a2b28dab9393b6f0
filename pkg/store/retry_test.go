package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/observability"
)

// recordingHooks captures store events.
type recordingHooks struct {
	mu      sync.Mutex
	loads   []string
	saves   []string
	retries []int
}

func (h *recordingHooks) OnLoad(ctx context.Context, backend, boardID string, d time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loads = append(h.loads, backend+":"+boardID)
}

func (h *recordingHooks) OnSave(ctx context.Context, backend, boardID string, d time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.saves = append(h.saves, backend+":"+boardID)
}

func (h *recordingHooks) OnRetry(ctx context.Context, attempt int, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.retries = append(h.retries, attempt)
}

func useHooks(t *testing.T) *recordingHooks {
	t.Helper()
	h := &recordingHooks{}
	observability.SetStoreHooks(h)
	t.Cleanup(observability.Reset)
	return h
}

func TestRetryable(t *testing.T) {
	assert.NoError(t, Retryable(nil))

	base := errors.New("locked")
	err := Retryable(base)
	assert.True(t, IsRetryable(err))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "locked", err.Error())
	assert.False(t, IsRetryable(base))
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	fast := WithDelay(time.Millisecond)

	t.Run("succeeds after retryable failures", func(t *testing.T) {
		hooks := useHooks(t)
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			if calls < 3 {
				return Retryable(errors.New("busy"))
			}
			return nil
		}, fast)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []int{1, 2}, hooks.retries)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		perm := errors.New("permanent")
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return perm
		}, fast)
		assert.ErrorIs(t, err, perm)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after attempts", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return Retryable(errors.New("busy"))
		}, fast, WithAttempts(4))
		assert.True(t, IsRetryable(err))
		assert.Equal(t, 4, calls)
	})

	t.Run("at least one attempt", func(t *testing.T) {
		calls := 0
		_ = RetryWithBackoff(ctx, func() error {
			calls++
			return nil
		}, WithAttempts(0))
		assert.Equal(t, 1, calls)
	})

	t.Run("context cancelled while waiting", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		err := RetryWithBackoff(cctx, func() error {
			cancel()
			return Retryable(errors.New("busy"))
		}, WithDelay(time.Hour))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestInstrument(t *testing.T) {
	ctx := context.Background()
	hooks := useHooks(t)
	s := Instrument(NewMemoryStore(), "memory")

	require.NoError(t, s.Save(ctx, testBoard("b1", "Home")))
	_, err := s.Get(ctx, "b1")
	require.NoError(t, err)
	_, err = s.Get(ctx, "missing")
	require.Error(t, err)
	_ = s.Save(ctx, (*board.Board)(nil))

	assert.Equal(t, []string{"memory:b1", "memory:"}, hooks.saves)
	assert.Equal(t, []string{"memory:b1", "memory:missing"}, hooks.loads)
}
