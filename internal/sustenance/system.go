package sustenance

import (
	"strconv"
	"time"

	"github.com/hambruna/server/internal/config"
	"github.com/hambruna/server/internal/events"
	"github.com/hambruna/server/internal/platform/logger"
	"github.com/hambruna/server/internal/storage"
)

// System owns the sustenance level and the severity state machine.
// All mutation (Tick, Add, Set) must be serialized by the caller; the
// host engine does this behind one mutex. Notifications are delivered
// synchronously on the mutating call, level before severity.
type System struct {
	cfg   config.Balance
	log   *logger.Logger
	bus   *events.Bus
	store storage.Store

	level    float64
	severity Severity

	// starveAccum counts simulated seconds spent in Starving since the
	// last StarvationTick (or since entering the bucket). Reset to zero
	// the instant severity leaves Starving: stop always wins.
	starveAccum float64

	// sinceSave counts simulated seconds since the last persistence write,
	// for the save throttle.
	sinceSave float64

	// Now is the wall clock used for save timestamps. Overridable in tests.
	Now func() time.Time
}

// NewSystem validates the configuration, reconciles the starting level from
// the store (including offline decay) and returns a ready system. The
// caller should wire subscribers and then call ForceNotify so dependent
// systems see the initial state.
func NewSystem(cfg config.Balance, store storage.Store, bus *events.Bus, log *logger.Logger) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &System{
		cfg:   cfg,
		log:   log,
		bus:   bus,
		store: store,
		Now:   time.Now,
	}
	s.level = Reconcile(store, time.Now(), cfg, log)
	s.severity = Classify(s.level, cfg.HungryThreshold, cfg.StarvingThreshold)
	return s, nil
}

// Tick advances the simulation by dt simulated seconds. Negative deltas are
// rejected at the boundary; zero is a no-op with no spurious notifications.
func (s *System) Tick(dt float64) {
	if dt < 0 {
		s.log.Warn("Tick called with negative delta, ignoring: " + strconv.FormatFloat(dt, 'g', -1, 64))
		return
	}
	if dt == 0 {
		return
	}

	s.sinceSave += dt
	wasStarving := s.severity == SeverityStarving

	if s.cfg.DecayRate > 0 {
		s.apply(s.level-dt*s.cfg.DecayRate, false)
	}

	// The interval countdown only runs across ticks that begin and end in
	// Starving; entering the bucket restarts it, leaving cancels it.
	if wasStarving && s.severity == SeverityStarving {
		s.starveAccum += dt
		for s.starveAccum >= s.cfg.StarvationTickInterval {
			s.starveAccum -= s.cfg.StarvationTickInterval
			s.bus.EmitStarvationTick()
			if s.severity != SeverityStarving {
				// A handler fed the player; pending firings are cancelled.
				s.starveAccum = 0
				break
			}
		}
	}
}

// Add credits amount simulated seconds of sustenance (eating). Negative
// amounts are clamped to a no-op: adding cannot be used to subtract.
func (s *System) Add(amount float64) {
	if amount < 0 {
		s.log.Warn("Add called with negative amount, ignoring: " + strconv.FormatFloat(amount, 'g', -1, 64))
		return
	}
	if amount == 0 {
		return
	}
	s.apply(s.level+amount, false)
}

// Set is the administrative override used for debug and reset. It clamps
// and re-notifies unconditionally, even when the level did not change.
func (s *System) Set(level float64) {
	s.apply(level, true)
	s.persistNow()
}

// ResetToFull restores the resource to max_level.
func (s *System) ResetToFull() {
	s.Set(s.cfg.MaxLevel)
}

// ForceNotify re-emits the current level and severity unconditionally.
// Used once at startup so HUD/audio consumers initialize even though no
// change occurred.
func (s *System) ForceNotify() {
	s.bus.EmitLevelChanged(s.FillFraction())
	s.bus.EmitSeverityChanged(s.severity.String())
}

// apply clamps the target level, emits notifications and persists.
// The invariants hold on every exit path: level in [0, max_level] and
// severity == Classify(level).
func (s *System) apply(target float64, force bool) {
	clamped := clamp(target, 0, s.cfg.MaxLevel)
	changed := clamped != s.level
	s.level = clamped

	if changed || force {
		s.bus.EmitLevelChanged(s.FillFraction())
	}

	old := s.severity
	s.severity = Classify(s.level, s.cfg.HungryThreshold, s.cfg.StarvingThreshold)
	if s.severity != old || force {
		if s.severity != old {
			s.log.Transition(old.String(), s.severity.String(), s.level)
		}
		s.bus.EmitSeverityChanged(s.severity.String())
	}

	if s.severity != SeverityStarving || old != SeverityStarving {
		// Not starving, or freshly starving: the tick countdown restarts.
		s.starveAccum = 0
	}

	if changed {
		s.persist()
	}
}

// persist writes the record, honoring the save throttle.
func (s *System) persist() {
	if s.cfg.SaveInterval > 0 && s.sinceSave < s.cfg.SaveInterval {
		return
	}
	s.persistNow()
}

// persistNow writes the record unconditionally, leaving durability to the
// store's buffering (the host flushes on a cadence and at teardown).
// Failures are logged and non-fatal; the in-memory state remains
// authoritative for the session.
func (s *System) persistNow() {
	if err := s.store.Set(KeyLevel, strconv.FormatFloat(s.level, 'g', -1, 64)); err != nil {
		s.log.Warn("Failed to persist sustenance level: " + err.Error())
	}
	if err := s.store.Set(KeySavedAt, strconv.FormatInt(s.Now().Unix(), 10)); err != nil {
		s.log.Warn("Failed to persist sustenance timestamp: " + err.Error())
	}
	s.sinceSave = 0
}

// Save persists the current record and flushes the store. Called on
// shutdown to honor the "at least once before teardown" contract.
func (s *System) Save() {
	s.persistNow()
	if err := s.store.Flush(); err != nil {
		s.log.Warn("Failed to flush sustenance record: " + err.Error())
	}
}

// Level returns the current resource level in simulated seconds-equivalent.
func (s *System) Level() float64 {
	return s.level
}

// FillFraction returns level / max_level in [0,1].
func (s *System) FillFraction() float64 {
	return s.level / s.cfg.MaxLevel
}

// CurrentSeverity returns the cached severity bucket.
func (s *System) CurrentSeverity() Severity {
	return s.severity
}

// SeverityLabel returns "Full", "Hungry" or "Starving".
func (s *System) SeverityLabel() string {
	return s.severity.String()
}

// MovementMultiplier returns the locomotion multiplier at the current level.
func (s *System) MovementMultiplier() float64 {
	return MovementMultiplier(s.level, s.cfg)
}

// DifficultyMultiplier returns the task difficulty multiplier at the current level.
func (s *System) DifficultyMultiplier() float64 {
	return DifficultyMultiplier(s.level, s.cfg)
}
