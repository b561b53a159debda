package sustenance

import (
	"strconv"
	"time"

	"github.com/hambruna/server/internal/config"
	"github.com/hambruna/server/internal/platform/logger"
	"github.com/hambruna/server/internal/storage"
)

// Stable persistence keys. The record is two fields: the level (float,
// round-trips via strconv 'g' formatting) and an integer Unix-seconds
// timestamp of the last write.
const (
	KeyLevel   = "sustenance.level"
	KeySavedAt = "sustenance.saved_at"
)

// Reconcile computes the starting resource level at process start, applying
// decay for the wall-clock time elapsed while the process was not running.
//
// Cases, evaluated in order:
//  1. No record: first run, start at max_level and persist immediately.
//  2. Stored level <= 0 with no valid timestamp: legacy/corrupt record from
//     before timestamping existed, NOT "player starved". Start at max_level
//     and overwrite the bad record.
//  3. Valid timestamp: saved level minus elapsed*decay_rate, clamped. A huge
//     elapsed legitimately yields 0.
//  4. Level > 0 with no timestamp: back-compat, use the stored level as-is.
//
// Store read failures are recovered locally through the first-run path and
// never propagated. Idempotent: a second call with no elapsed time yields
// the same level.
func Reconcile(store storage.Store, now time.Time, cfg config.Balance, log *logger.Logger) float64 {
	if !store.Has(KeyLevel) {
		log.Info("No sustenance record found. Starting first run at full.")
		persistRecord(store, cfg.MaxLevel, now, log)
		return cfg.MaxLevel
	}

	rawLevel, err := store.Get(KeyLevel)
	if err != nil {
		log.Warn("Sustenance record unreadable, falling back to first run: " + err.Error())
		persistRecord(store, cfg.MaxLevel, now, log)
		return cfg.MaxLevel
	}

	savedLevel, err := strconv.ParseFloat(rawLevel, 64)
	if err != nil {
		log.Warn("Sustenance record corrupt (" + rawLevel + "), falling back to first run.")
		persistRecord(store, cfg.MaxLevel, now, log)
		return cfg.MaxLevel
	}

	savedAt, hasTimestamp := readTimestamp(store)

	if savedLevel <= 0 && !hasTimestamp {
		// Pre-migration save shape. A zero here means "never written
		// properly", not "starved to death".
		log.Warn("Legacy sustenance record without timestamp. Resetting to full.")
		persistRecord(store, cfg.MaxLevel, now, log)
		return cfg.MaxLevel
	}

	if hasTimestamp {
		elapsed := now.Unix() - savedAt
		if elapsed < 0 {
			elapsed = 0 // clock went backwards; do not refund sustenance
		}
		level := clamp(savedLevel-float64(elapsed)*cfg.DecayRate, 0, cfg.MaxLevel)
		log.Info("Resuming sustenance: saved=" + strconv.FormatFloat(savedLevel, 'f', 2, 64) +
			" elapsed=" + strconv.FormatInt(elapsed, 10) + "s" +
			" level=" + strconv.FormatFloat(level, 'f', 2, 64))
		return level
	}

	// Timestampless but positive: trust the stored value.
	return clamp(savedLevel, 0, cfg.MaxLevel)
}

func readTimestamp(store storage.Store) (int64, bool) {
	if !store.Has(KeySavedAt) {
		return 0, false
	}
	raw, err := store.Get(KeySavedAt)
	if err != nil {
		return 0, false
	}
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ts <= 0 {
		return 0, false
	}
	return ts, true
}

// persistRecord writes a fresh record and flushes it. Write failures are
// logged and swallowed; the in-memory state stays authoritative.
func persistRecord(store storage.Store, level float64, now time.Time, log *logger.Logger) {
	if err := store.Set(KeyLevel, strconv.FormatFloat(level, 'g', -1, 64)); err != nil {
		log.Warn("Failed to persist sustenance level: " + err.Error())
		return
	}
	if err := store.Set(KeySavedAt, strconv.FormatInt(now.Unix(), 10)); err != nil {
		log.Warn("Failed to persist sustenance timestamp: " + err.Error())
		return
	}
	if err := store.Flush(); err != nil {
		log.Warn("Failed to flush sustenance record: " + err.Error())
	}
}
