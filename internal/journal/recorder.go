package journal

import (
	"context"
	"time"

	"github.com/hambruna/server/internal/events"
	"github.com/hambruna/server/internal/platform/logger"
	"github.com/hambruna/server/internal/sustenance"
)

// Recorder subscribes to the bus and appends ledger entries. It holds the
// engine only through the Provider capability interface.
type Recorder struct {
	repo     Repository
	provider sustenance.Provider
	logger   *logger.Logger

	// async controls whether Append runs on its own goroutine. On the
	// live server writes must stay off the simulation step; tests flip
	// this off for determinism.
	async bool
}

// NewRecorder creates a Recorder writing through repo.
func NewRecorder(repo Repository, provider sustenance.Provider, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, provider: provider, logger: log, async: true}
}

// Synchronous makes Append run inline. Test hook.
func (r *Recorder) Synchronous() *Recorder {
	r.async = false
	return r
}

// Attach subscribes the recorder to the bus. LevelChanged is deliberately
// not recorded; it fires every frame and would swamp the ledger.
func (r *Recorder) Attach(bus *events.Bus) {
	bus.SubscribeSeverityChanged(func(severity string) {
		r.record(Entry{
			RecordedAt: time.Now(),
			Kind:       KindSeverityChanged,
			Severity:   severity,
			Fraction:   r.provider.FillFraction(),
		})
	})
	bus.SubscribeStarvationTick(func() {
		r.record(Entry{
			RecordedAt: time.Now(),
			Kind:       KindStarvationTick,
			Severity:   r.provider.SeverityLabel(),
			Fraction:   r.provider.FillFraction(),
		})
	})
}

func (r *Recorder) record(entry Entry) {
	if !r.async {
		if err := r.repo.Append(context.Background(), entry); err != nil {
			r.logger.Warn("Journal append failed: " + err.Error())
		}
		return
	}
	// Keep ledger writes off the simulation step.
	go func(e Entry) {
		if err := r.repo.Append(context.Background(), e); err != nil {
			r.logger.Warn("Journal append failed: " + err.Error())
		}
	}(entry)
}
