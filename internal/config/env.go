package config

import (
	"os"
	"strconv"
)

// FromEnv overlays environment variables on top of a base configuration.
// Unset or unparsable variables leave the base value untouched.
func FromEnv(base Balance) Balance {
	cfg := base

	if val, ok := getEnvFloat("HAMBRUNA_MAX_LEVEL"); ok {
		cfg.MaxLevel = val
	}
	if val, ok := getEnvFloat("HAMBRUNA_DECAY_RATE"); ok {
		cfg.DecayRate = val
	}
	if val, ok := getEnvFloat("HAMBRUNA_HUNGRY_THRESHOLD"); ok {
		cfg.HungryThreshold = val
	}
	if val, ok := getEnvFloat("HAMBRUNA_STARVING_THRESHOLD"); ok {
		cfg.StarvingThreshold = val
	}
	if val, ok := getEnvFloat("HAMBRUNA_STARVATION_TICK_INTERVAL"); ok {
		cfg.StarvationTickInterval = val
	}
	if val, ok := getEnvFloat("HAMBRUNA_MOVEMENT_MIN_MULTIPLIER"); ok {
		cfg.Movement.MinMultiplier = val
	}
	if val, ok := getEnvFloat("HAMBRUNA_MOVEMENT_ZERO_FLOOR"); ok {
		cfg.Movement.ZeroFloor = val
	}
	if val, ok := getEnvFloat("HAMBRUNA_DIFFICULTY_MAX_MULTIPLIER"); ok {
		cfg.Difficulty.MaxMultiplier = val
	}
	if val, ok := getEnvFloat("HAMBRUNA_SAVE_INTERVAL"); ok {
		cfg.SaveInterval = val
	}

	return cfg
}

func getEnvFloat(key string) (float64, bool) {
	val := os.Getenv(key)
	if val == "" {
		return 0, false
	}
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return num, true
}
