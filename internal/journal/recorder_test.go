package journal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hambruna/server/internal/events"
	"github.com/hambruna/server/internal/platform/logger"
)

type fakeProvider struct {
	label    string
	fraction float64
}

func (f fakeProvider) SeverityLabel() string { return f.label }
func (f fakeProvider) FillFraction() float64 { return f.fraction }

func TestRecorderLedgersSeverityTransitions(t *testing.T) {
	repo := NewMemoryRepository()
	bus := events.NewBus()

	rec := NewRecorder(repo, fakeProvider{label: "Hungry", fraction: 0.4}, logger.NewLogger()).Synchronous()
	rec.Attach(bus)

	bus.EmitSeverityChanged("Hungry")

	entries := repo.All()
	require.Len(t, entries, 1)
	assert.Equal(t, KindSeverityChanged, entries[0].Kind)
	assert.Equal(t, "Hungry", entries[0].Severity)
	assert.Equal(t, 0.4, entries[0].Fraction)
}

func TestRecorderLedgersStarvationTicks(t *testing.T) {
	repo := NewMemoryRepository()
	bus := events.NewBus()

	rec := NewRecorder(repo, fakeProvider{label: "Starving", fraction: 0.05}, logger.NewLogger()).Synchronous()
	rec.Attach(bus)

	bus.EmitStarvationTick()
	bus.EmitStarvationTick()

	entries := repo.All()
	require.Len(t, entries, 2)
	assert.Equal(t, KindStarvationTick, entries[0].Kind)
	assert.Equal(t, "Starving", entries[0].Severity)
}

func TestRecorderIgnoresLevelChanges(t *testing.T) {
	repo := NewMemoryRepository()
	bus := events.NewBus()

	NewRecorder(repo, fakeProvider{}, logger.NewLogger()).Synchronous().Attach(bus)

	// Per-frame level updates would swamp the ledger; they are HUD-only.
	bus.EmitLevelChanged(0.9)
	bus.EmitLevelChanged(0.8)

	assert.Empty(t, repo.All())
}

func TestMemoryRepositoryRecentNewestFirst(t *testing.T) {
	repo := NewMemoryRepository()
	bus := events.NewBus()
	NewRecorder(repo, fakeProvider{label: "Starving"}, logger.NewLogger()).Synchronous().Attach(bus)

	bus.EmitSeverityChanged("Hungry")
	bus.EmitSeverityChanged("Starving")

	recent, err := repo.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Starving", recent[0].Severity)
}
