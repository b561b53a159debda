package engine

import (
	"context"
	"time"

	"github.com/hambruna/server/internal/platform/logger"
)

// TickRate defines how often the simulation steps in real time. The step
// delta is measured per frame, not assumed, so a stalled or slow frame
// still decays the right amount.
const TickRate = 250 * time.Millisecond

// FlushRate defines how often buffered saves are pushed to disk.
const FlushRate = 5 * time.Second

// Ticker drives the engine's Step on a real-time cadence. It knows nothing
// about sustenance rules, only time progression.
type Ticker struct {
	engine   *Engine
	logger   *logger.Logger
	stopChan chan struct{}
}

// NewTicker creates the simulation heartbeat.
func NewTicker(engine *Engine, log *logger.Logger) *Ticker {
	return &Ticker{
		engine:   engine,
		logger:   log,
		stopChan: make(chan struct{}),
	}
}

// Start begins the loop. Call in a goroutine.
func (t *Ticker) Start(ctx context.Context) {
	t.logger.Info("Simulation ticker started.")

	frame := time.NewTicker(TickRate)
	defer frame.Stop()
	flush := time.NewTicker(FlushRate)
	defer flush.Stop()

	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("Simulation ticker stopped by context.")
			return
		case <-t.stopChan:
			t.logger.Info("Simulation ticker stopped manually.")
			return
		case now := <-frame.C:
			dt := now.Sub(last).Seconds()
			last = now
			t.engine.Step(dt)
		case <-flush.C:
			t.engine.Flush()
		}
	}
}

// Stop gracefully stops the ticker.
func (t *Ticker) Stop() {
	close(t.stopChan)
}
