package revalidate

import (
	"log/slog"

	"github.com/peervote/api/internal/core/ports"
)

// LogRevalidator is the default cache-invalidation hook: it records which
// rendered views were made stale by a mutation. A frontend integration can
// swap in its own implementation; services only see ports.Revalidator.
type LogRevalidator struct {
	logger *slog.Logger
}

func NewLogRevalidator(logger *slog.Logger) ports.Revalidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogRevalidator{logger: logger}
}

func (r *LogRevalidator) Invalidate(paths ...string) {
	r.logger.Debug("cache invalidated", "paths", paths)
}

// Noop discards invalidation signals. Used in tests.
type Noop struct{}

func (Noop) Invalidate(paths ...string) {}
