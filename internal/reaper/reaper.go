package reaper

import (
	"context"
	"log/slog"
	"time"
)

// DefaultInterval between sweeps.
const DefaultInterval = 5 * time.Minute

type roomRegistry interface {
	ReapEmpty() []string
}

// Reaper periodically deletes rooms whose sessions have no occupied
// seats. Disconnected-but-unvacated players keep a room alive.
type Reaper struct {
	logger   *slog.Logger
	registry roomRegistry
	interval time.Duration
}

func New(logger *slog.Logger, registry roomRegistry, interval time.Duration) *Reaper {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Reaper{
		logger:   logger.With("component", "reaper"),
		registry: registry,
		interval: interval,
	}
}

// Run sweeps until the context is canceled.
func (that *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(that.interval)
	defer ticker.Stop()

	that.logger.Info("reaper started", "interval", that.interval)

	for {
		select {
		case <-ctx.Done():
			that.logger.Info("reaper stopped")
			return
		case <-ticker.C:
			if reaped := that.registry.ReapEmpty(); len(reaped) > 0 {
				that.logger.Info("reaped empty rooms", "rooms", reaped)
			}
		}
	}
}
