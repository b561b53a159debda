// Package config holds the static tuning surface of the simulation.
// It is loaded once at startup and validated before anything else runs;
// an invalid configuration is a fatal startup error, never a silent clamp.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Balance holds the gameplay balance configuration for the sustenance system.
// Level units are simulated seconds-equivalent of remaining sustenance.
type Balance struct {
	// Resource bounds and decay
	MaxLevel  float64 `yaml:"max_level" json:"max_level"`
	DecayRate float64 `yaml:"decay_rate" json:"decay_rate"` // level lost per simulated second; 0 pauses decay

	// Severity thresholds. Boundary values belong to the worse bucket.
	HungryThreshold   float64 `yaml:"hungry_threshold" json:"hungry_threshold"`
	StarvingThreshold float64 `yaml:"starving_threshold" json:"starving_threshold"`

	// Periodic penalty cadence while starving, in simulated seconds.
	StarvationTickInterval float64 `yaml:"starvation_tick_interval" json:"starvation_tick_interval"`

	Movement   Movement   `yaml:"movement" json:"movement"`
	Difficulty Difficulty `yaml:"difficulty" json:"difficulty"`

	// Minimum simulated seconds between persistence writes. 0 writes after
	// every mutation (the reference behavior).
	SaveInterval float64 `yaml:"save_interval" json:"save_interval"`
}

// Movement tunes the locomotion multiplier curve.
type Movement struct {
	// Floor the interpolated curve approaches as level falls toward zero.
	MinMultiplier float64 `yaml:"min_multiplier" json:"min_multiplier"`
	// Hard penalty applied at exactly zero. Intentionally lower than
	// MinMultiplier; the discontinuity is product-confirmed behavior.
	ZeroFloor float64 `yaml:"zero_floor" json:"zero_floor"`
}

// Difficulty tunes the task difficulty multiplier curve.
type Difficulty struct {
	MaxMultiplier float64 `yaml:"max_multiplier" json:"max_multiplier"`
}

// Default returns the default balance configuration.
func Default() Balance {
	return Balance{
		MaxLevel:               600, // ten minutes of sustenance
		DecayRate:              1,
		HungryThreshold:        300,
		StarvingThreshold:      120,
		StarvationTickInterval: 10,
		Movement: Movement{
			MinMultiplier: 0.75,
			ZeroFloor:     0.25,
		},
		Difficulty: Difficulty{
			MaxMultiplier: 2.0,
		},
		SaveInterval: 0,
	}
}

// LoadFile reads a YAML balance file and overlays it on the defaults.
func LoadFile(path string) (Balance, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration contract:
// 0 <= starving_threshold < hungry_threshold < max_level, decay_rate >= 0.
// Violations are configuration errors reported at startup, not recovered.
func (b Balance) Validate() error {
	if b.MaxLevel <= 0 {
		return fmt.Errorf("config: max_level must be > 0, got %g", b.MaxLevel)
	}
	if b.DecayRate < 0 {
		return fmt.Errorf("config: decay_rate must be >= 0, got %g", b.DecayRate)
	}
	if b.StarvingThreshold < 0 {
		return fmt.Errorf("config: starving_threshold must be >= 0, got %g", b.StarvingThreshold)
	}
	if b.StarvingThreshold >= b.HungryThreshold {
		return fmt.Errorf("config: starving_threshold (%g) must be < hungry_threshold (%g)",
			b.StarvingThreshold, b.HungryThreshold)
	}
	if b.HungryThreshold >= b.MaxLevel {
		return fmt.Errorf("config: hungry_threshold (%g) must be < max_level (%g)",
			b.HungryThreshold, b.MaxLevel)
	}
	if b.StarvationTickInterval <= 0 {
		return fmt.Errorf("config: starvation_tick_interval must be > 0, got %g", b.StarvationTickInterval)
	}
	if b.Movement.MinMultiplier <= 0 || b.Movement.MinMultiplier > 1 {
		return fmt.Errorf("config: movement.min_multiplier must be in (0,1], got %g", b.Movement.MinMultiplier)
	}
	if b.Movement.ZeroFloor <= 0 || b.Movement.ZeroFloor > b.Movement.MinMultiplier {
		return fmt.Errorf("config: movement.zero_floor must be in (0, min_multiplier], got %g", b.Movement.ZeroFloor)
	}
	if b.Difficulty.MaxMultiplier < 1 {
		return fmt.Errorf("config: difficulty.max_multiplier must be >= 1, got %g", b.Difficulty.MaxMultiplier)
	}
	if b.SaveInterval < 0 {
		return fmt.Errorf("config: save_interval must be >= 0, got %g", b.SaveInterval)
	}
	return nil
}
