package sustenance

import "github.com/hambruna/server/internal/config"

// MovementMultiplier returns the locomotion speed multiplier for a level.
// Above the hungry threshold movement is unaffected. Between zero and the
// threshold the multiplier interpolates linearly from min_multiplier up to
// 1.0. At exactly zero a harsher fixed floor applies; the discontinuity
// against the interpolated limit is intentional (the "hard wall" when the
// resource is fully depleted).
//
// Pure and total over [0, max_level]; never mutates state.
func MovementMultiplier(level float64, cfg config.Balance) float64 {
	if level > cfg.HungryThreshold {
		return 1.0
	}
	if level <= 0 {
		return cfg.Movement.ZeroFloor
	}
	min := cfg.Movement.MinMultiplier
	return min + (1.0-min)*(level/cfg.HungryThreshold)
}

// DifficultyMultiplier returns the task difficulty multiplier for a level.
// Unaffected above the hungry threshold, pinned at max_multiplier at or
// below the starving threshold, linear in between.
//
// Pure and total over [0, max_level]; never mutates state.
func DifficultyMultiplier(level float64, cfg config.Balance) float64 {
	if level > cfg.HungryThreshold {
		return 1.0
	}
	if level <= cfg.StarvingThreshold {
		return cfg.Difficulty.MaxMultiplier
	}
	span := cfg.HungryThreshold - cfg.StarvingThreshold
	frac := (cfg.HungryThreshold - level) / span
	return 1.0 + (cfg.Difficulty.MaxMultiplier-1.0)*frac
}
