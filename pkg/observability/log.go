package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Failures are
// logged at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger, or to log.Default() when
// logger is nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnApply(_ context.Context, boardID string, changed bool, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("transform failed", "board", boardID, "duration", d, "err", err)
		return
	}
	h.logger.Debug("transform applied", "board", boardID, "changed", changed, "duration", d)
}

func (h *LogHooks) OnPublish(_ context.Context, boardID string, version int64, subscribers int) {
	h.logger.Debug("update published", "board", boardID, "version", version, "subscribers", subscribers)
}

func (h *LogHooks) OnLoad(_ context.Context, backend, boardID string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "backend", backend, "board", boardID, "err", err)
		return
	}
	h.logger.Debug("board loaded", "backend", backend, "board", boardID, "duration", d)
}

func (h *LogHooks) OnSave(_ context.Context, backend, boardID string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("save failed", "backend", backend, "board", boardID, "err", err)
		return
	}
	h.logger.Debug("board saved", "backend", backend, "board", boardID, "duration", d)
}

func (h *LogHooks) OnRetry(_ context.Context, attempt int, err error) {
	h.logger.Warn("retrying storage operation", "attempt", attempt, "err", err)
}

func (h *LogHooks) OnHit(_ context.Context, backend, key string) {
	h.logger.Debug("cache hit", "backend", backend, "key", key)
}

func (h *LogHooks) OnMiss(_ context.Context, backend, key string) {
	h.logger.Debug("cache miss", "backend", backend, "key", key)
}

func (h *LogHooks) OnSet(_ context.Context, backend, key string, size int) {
	h.logger.Debug("cache set", "backend", backend, "key", key, "bytes", size)
}

var (
	_ DispatchHooks = (*LogHooks)(nil)
	_ StoreHooks    = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)
