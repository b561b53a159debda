package sustenance

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hambruna/server/internal/config"
	"github.com/hambruna/server/internal/events"
	"github.com/hambruna/server/internal/platform/logger"
	"github.com/hambruna/server/internal/storage"
)

func systemTestConfig() config.Balance {
	cfg := config.Default()
	cfg.MaxLevel = 100
	cfg.DecayRate = 1
	cfg.HungryThreshold = 50
	cfg.StarvingThreshold = 20
	cfg.StarvationTickInterval = 5
	cfg.SaveInterval = 0
	return cfg
}

func newTestSystem(t *testing.T, cfg config.Balance) (*System, *storage.MemoryStore, *events.Bus) {
	t.Helper()
	store := storage.NewMemoryStore()
	bus := events.NewBus()
	sys, err := NewSystem(cfg, store, bus, logger.NewLogger())
	require.NoError(t, err)
	return sys, store, bus
}

func TestNewSystemRejectsInvalidConfig(t *testing.T) {
	cfg := systemTestConfig()
	cfg.StarvingThreshold = 60 // above hungry

	_, err := NewSystem(cfg, storage.NewMemoryStore(), events.NewBus(), logger.NewLogger())
	assert.Error(t, err)
}

func TestTickDecaysAndClampsAtZero(t *testing.T) {
	sys, _, _ := newTestSystem(t, systemTestConfig())

	sys.Tick(30)
	assert.InDelta(t, 70, sys.Level(), 1e-9)

	sys.Tick(1000)
	assert.Equal(t, 0.0, sys.Level())
	assert.Equal(t, SeverityStarving, sys.CurrentSeverity())

	sys.Tick(10)
	assert.Equal(t, 0.0, sys.Level())
}

func TestTickInvariantsHold(t *testing.T) {
	sys, _, _ := newTestSystem(t, systemTestConfig())
	cfg := systemTestConfig()

	deltas := []float64{0, 0.25, 3, 100, 0, 7.5, 500}
	for _, dt := range deltas {
		sys.Tick(dt)
		assert.GreaterOrEqual(t, sys.Level(), 0.0)
		assert.LessOrEqual(t, sys.Level(), cfg.MaxLevel)
		assert.Equal(t, Classify(sys.Level(), cfg.HungryThreshold, cfg.StarvingThreshold), sys.CurrentSeverity())
	}
}

func TestTickZeroAndNegativeDeltasAreNoOps(t *testing.T) {
	sys, _, bus := newTestSystem(t, systemTestConfig())

	levelEvents := 0
	bus.SubscribeLevelChanged(func(float64) { levelEvents++ })

	before := sys.Level()
	sys.Tick(0)
	sys.Tick(-5)
	assert.Equal(t, before, sys.Level())
	assert.Equal(t, 0, levelEvents)
}

func TestLevelChangedEveryTickSeverityOnlyOnEdge(t *testing.T) {
	sys, _, bus := newTestSystem(t, systemTestConfig())

	levelEvents, severityEvents := 0, 0
	bus.SubscribeLevelChanged(func(float64) { levelEvents++ })
	bus.SubscribeSeverityChanged(func(string) { severityEvents++ })

	// Small deltas that stay inside the Full bucket: level fires every
	// call, severity never.
	for i := 0; i < 10; i++ {
		sys.Tick(1)
	}
	assert.Equal(t, 10, levelEvents)
	assert.Equal(t, 0, severityEvents)

	// Crossing into Hungry fires severity exactly once at the crossing
	// call.
	sys.Tick(40) // 90 -> 50, boundary belongs to Hungry
	assert.Equal(t, 11, levelEvents)
	assert.Equal(t, 1, severityEvents)
	assert.Equal(t, SeverityHungry, sys.CurrentSeverity())

	sys.Tick(1)
	assert.Equal(t, 1, severityEvents)
}

func TestLevelFiresBeforeSeverity(t *testing.T) {
	sys, _, bus := newTestSystem(t, systemTestConfig())

	var order []string
	bus.SubscribeLevelChanged(func(float64) { order = append(order, "level") })
	bus.SubscribeSeverityChanged(func(string) { order = append(order, "severity") })

	sys.Tick(60) // crosses into Hungry

	require.Equal(t, []string{"level", "severity"}, order)
}

func TestAddClampsAtMax(t *testing.T) {
	sys, _, bus := newTestSystem(t, systemTestConfig())

	levelEvents := 0
	bus.SubscribeLevelChanged(func(float64) { levelEvents++ })

	sys.Tick(10) // 90
	sys.Add(50)
	assert.Equal(t, 100.0, sys.Level())

	// Already full: no change, no spurious notification.
	eventsBefore := levelEvents
	sys.Add(50)
	assert.Equal(t, 100.0, sys.Level())
	assert.Equal(t, eventsBefore, levelEvents)
}

func TestAddNegativeIsNoOp(t *testing.T) {
	sys, _, bus := newTestSystem(t, systemTestConfig())

	levelEvents := 0
	bus.SubscribeLevelChanged(func(float64) { levelEvents++ })

	before := sys.Level()
	sys.Add(-25)
	assert.Equal(t, before, sys.Level())
	assert.Equal(t, 0, levelEvents)
}

func TestSetRenotifiesUnconditionally(t *testing.T) {
	sys, _, bus := newTestSystem(t, systemTestConfig())

	levelEvents, severityEvents := 0, 0
	bus.SubscribeLevelChanged(func(float64) { levelEvents++ })
	bus.SubscribeSeverityChanged(func(string) { severityEvents++ })

	// Setting to the current value still notifies: Set is the
	// administrative reset path.
	sys.Set(sys.Level())
	assert.Equal(t, 1, levelEvents)
	assert.Equal(t, 1, severityEvents)
}

func TestResetToFull(t *testing.T) {
	sys, _, _ := newTestSystem(t, systemTestConfig())

	sys.Tick(95)
	require.Equal(t, SeverityStarving, sys.CurrentSeverity())

	sys.ResetToFull()
	assert.Equal(t, 100.0, sys.Level())
	assert.Equal(t, SeverityFull, sys.CurrentSeverity())
}

func TestStarvationTickFiresPerInterval(t *testing.T) {
	sys, _, bus := newTestSystem(t, systemTestConfig())

	ticks := 0
	bus.SubscribeStarvationTick(func() { ticks++ })

	sys.Set(10) // Starving; countdown starts now
	for i := 0; i < 4; i++ {
		sys.Tick(1)
	}
	assert.Equal(t, 0, ticks)

	sys.Tick(1) // 5 simulated seconds in the bucket
	assert.Equal(t, 1, ticks)

	for i := 0; i < 5; i++ {
		sys.Tick(1)
	}
	assert.Equal(t, 2, ticks)
}

func TestStarvationTickStopsOnExit(t *testing.T) {
	sys, _, bus := newTestSystem(t, systemTestConfig())

	ticks := 0
	bus.SubscribeStarvationTick(func() { ticks++ })

	sys.Set(10)
	for i := 0; i < 5; i++ {
		sys.Tick(1)
	}
	require.Equal(t, 1, ticks)

	// Feeding leaves Starving; no further ticks, and re-entering restarts
	// the countdown from zero.
	sys.Add(90)
	require.Equal(t, SeverityFull, sys.CurrentSeverity())
	for i := 0; i < 20; i++ {
		sys.Tick(1)
	}
	assert.Equal(t, 1, ticks)

	sys.Set(10) // back into Starving
	for i := 0; i < 4; i++ {
		sys.Tick(1)
	}
	assert.Equal(t, 1, ticks, "countdown must restart after re-entry")
	sys.Tick(1)
	assert.Equal(t, 2, ticks)
}

func TestStarvationTickStopWinsMidTick(t *testing.T) {
	sys, _, bus := newTestSystem(t, systemTestConfig())

	ticks := 0
	bus.SubscribeStarvationTick(func() {
		ticks++
		// The penalty handler feeds the player. Even though the frame
		// delta spans several intervals, the cancellation wins: no
		// firing after the severity leaves Starving.
		sys.Add(90)
	})

	sys.Set(10)
	sys.Tick(20) // would be 4 intervals if nothing intervened

	assert.Equal(t, 1, ticks)
	assert.NotEqual(t, SeverityStarving, sys.CurrentSeverity())
}

func TestMutationsPersistRecord(t *testing.T) {
	sys, store, _ := newTestSystem(t, systemTestConfig())

	now := time.Unix(1_700_000_123, 0)
	sys.Now = func() time.Time { return now }

	sys.Tick(25)

	raw, err := store.Get(KeyLevel)
	require.NoError(t, err)
	level, err := strconv.ParseFloat(raw, 64)
	require.NoError(t, err)
	assert.InDelta(t, 75, level, 1e-9)

	savedAt, err := store.Get(KeySavedAt)
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatInt(now.Unix(), 10), savedAt)
}

func TestSaveThrottleSkipsFrequentWrites(t *testing.T) {
	cfg := systemTestConfig()
	cfg.SaveInterval = 10
	sys, store, _ := newTestSystem(t, cfg)

	// The reconcile write put 100 in the store. A tick under the throttle
	// window must not touch it.
	sys.Tick(1)
	raw, err := store.Get(KeyLevel)
	require.NoError(t, err)
	assert.Equal(t, "100", raw)

	// Crossing the window persists the fresher value.
	sys.Tick(9.5)
	raw, err = store.Get(KeyLevel)
	require.NoError(t, err)
	level, err := strconv.ParseFloat(raw, 64)
	require.NoError(t, err)
	assert.InDelta(t, 89.5, level, 1e-9)
}

func TestZeroDecayRatePausesDecayButNotStarvationTicks(t *testing.T) {
	cfg := systemTestConfig()
	cfg.DecayRate = 0
	sys, _, bus := newTestSystem(t, cfg)

	ticks := 0
	bus.SubscribeStarvationTick(func() { ticks++ })

	sys.Set(10)
	sys.Tick(5)

	assert.Equal(t, 10.0, sys.Level(), "decay paused")
	assert.Equal(t, 1, ticks, "simulated time still drives the penalty cadence")
}

func TestForceNotifyPublishesCurrentState(t *testing.T) {
	sys, _, bus := newTestSystem(t, systemTestConfig())

	var gotFraction float64
	var gotSeverity string
	bus.SubscribeLevelChanged(func(f float64) { gotFraction = f })
	bus.SubscribeSeverityChanged(func(s string) { gotSeverity = s })

	sys.ForceNotify()

	assert.Equal(t, 1.0, gotFraction)
	assert.Equal(t, "Full", gotSeverity)
}

func TestFillFraction(t *testing.T) {
	sys, _, _ := newTestSystem(t, systemTestConfig())

	assert.Equal(t, 1.0, sys.FillFraction())
	sys.Tick(50)
	assert.InDelta(t, 0.5, sys.FillFraction(), 1e-9)
	sys.Tick(1000)
	assert.Equal(t, 0.0, sys.FillFraction())
}
