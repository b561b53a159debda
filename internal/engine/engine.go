// Package engine hosts the sustenance simulation: it serializes all
// mutation behind one mutex (the single logical simulation thread the core
// assumes) and exposes the command surface collaborators call. No gameplay
// logic lives here; the rules are in internal/sustenance.
package engine

import (
	"sync"
	"time"

	"github.com/hambruna/server/internal/events"
	"github.com/hambruna/server/internal/platform/logger"
	"github.com/hambruna/server/internal/platform/metrics"
	"github.com/hambruna/server/internal/storage"
	"github.com/hambruna/server/internal/sustenance"
)

// Engine is the host around the sustenance System. It implements
// sustenance.Provider for typed downstream consumers.
type Engine struct {
	mu     sync.Mutex
	system *sustenance.System
	store  storage.Store
	logger *logger.Logger
}

var _ sustenance.Provider = (*Engine)(nil)

// NewEngine wires the system to the host and registers metrics counters on
// the bus.
func NewEngine(system *sustenance.System, store storage.Store, bus *events.Bus, log *logger.Logger) *Engine {
	e := &Engine{
		system: system,
		store:  store,
		logger: log,
	}

	m := metrics.Get()
	bus.SubscribeLevelChanged(func(float64) { m.RecordNotification(metrics.NotifLevel) })
	bus.SubscribeSeverityChanged(func(string) { m.RecordNotification(metrics.NotifSeverity) })
	bus.SubscribeStarvationTick(func() { m.RecordNotification(metrics.NotifStarvation) })

	return e
}

// Step advances the simulation by dt simulated seconds. Called by the
// Ticker once per frame with the measured wall delta.
func (e *Engine) Step(dt float64) {
	start := time.Now()
	e.mu.Lock()
	e.system.Tick(dt)
	e.mu.Unlock()
	metrics.Get().RecordTick(time.Since(start))
}

// ForceNotify re-publishes the current state. Call once after all
// subscribers are wired so HUD/audio consumers initialize.
func (e *Engine) ForceNotify() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.system.ForceNotify()
}

// AddTime credits seconds of sustenance (the food collaborator's command).
func (e *Engine) AddTime(seconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.system.Add(seconds)
}

// ResetToFull restores the resource to max_level (debug).
func (e *Engine) ResetToFull() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.system.ResetToFull()
}

// SetLevel overrides the resource level (debug/testing).
func (e *Engine) SetLevel(seconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.system.Set(seconds)
}

// Level returns the current resource level.
func (e *Engine) Level() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.system.Level()
}

// FillFraction returns level / max_level in [0,1].
func (e *Engine) FillFraction() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.system.FillFraction()
}

// SeverityLabel returns "Full", "Hungry" or "Starving".
func (e *Engine) SeverityLabel() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.system.SeverityLabel()
}

// CurrentSeverity returns the severity bucket.
func (e *Engine) CurrentSeverity() sustenance.Severity {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.system.CurrentSeverity()
}

// MovementMultiplier returns the locomotion multiplier at the current level.
func (e *Engine) MovementMultiplier() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.system.MovementMultiplier()
}

// DifficultyMultiplier returns the task difficulty multiplier at the current level.
func (e *Engine) DifficultyMultiplier() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.system.DifficultyMultiplier()
}

// Flush pushes buffered saves to durable storage. Runs under the engine
// mutex: the store's buffers are not thread-safe, and commands mutate them
// from other goroutines.
func (e *Engine) Flush() {
	start := time.Now()
	e.mu.Lock()
	err := e.store.Flush()
	e.mu.Unlock()
	metrics.Get().RecordFlush(time.Since(start), err)
	if err != nil {
		e.logger.Warn("Persistence flush failed: " + err.Error())
	}
}

// Shutdown persists and flushes the final record before teardown.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	e.system.Save()
	e.mu.Unlock()
	e.logger.Info("Engine shut down; final sustenance record flushed.")
}
