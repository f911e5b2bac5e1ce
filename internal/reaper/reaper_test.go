package reaper

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeRegistry struct {
	mu     sync.Mutex
	sweeps int
	reaped []string
}

func (that *fakeRegistry) ReapEmpty() []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sweeps++
	return that.reaped
}

func (that *fakeRegistry) sweepCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.sweeps
}

func TestReaper_Run(t *testing.T) {
	t.Run("Sweeps on every tick until canceled", func(t *testing.T) {
		// Given: a reaper on a short interval
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		reg := &fakeRegistry{reaped: []string{"room-1"}}
		r := New(logger, reg, 5*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())

		// When: it runs for a few intervals
		done := make(chan struct{})
		go func() {
			r.Run(ctx)
			close(done)
		}()

		assert.Eventually(t, func() bool {
			return reg.sweepCount() >= 3
		}, time.Second, time.Millisecond)

		// Then: canceling the context stops the loop
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("reaper did not stop after cancel")
		}
	})

	t.Run("Zero interval falls back to the default", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

		r := New(logger, &fakeRegistry{}, 0)

		assert.Equal(t, DefaultInterval, r.interval)
	})
}
