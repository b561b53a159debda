package sustenance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hambruna/server/internal/config"
)

func derivedTestConfig() config.Balance {
	cfg := config.Default()
	cfg.MaxLevel = 100
	cfg.HungryThreshold = 50
	cfg.StarvingThreshold = 20
	cfg.Movement.MinMultiplier = 0.75
	cfg.Movement.ZeroFloor = 0.25
	cfg.Difficulty.MaxMultiplier = 2.0
	return cfg
}

func TestMovementMultiplierAboveThreshold(t *testing.T) {
	cfg := derivedTestConfig()

	assert.Equal(t, 1.0, MovementMultiplier(100, cfg))
	assert.Equal(t, 1.0, MovementMultiplier(50.01, cfg))
}

func TestMovementMultiplierInterpolates(t *testing.T) {
	cfg := derivedTestConfig()

	// At the threshold the curve starts at 1.0 and falls toward
	// min_multiplier as the level approaches zero.
	assert.InDelta(t, 1.0, MovementMultiplier(50, cfg), 1e-9)
	assert.InDelta(t, 0.875, MovementMultiplier(25, cfg), 1e-9)
	assert.InDelta(t, 0.75, MovementMultiplier(0.0001, cfg), 1e-3)
}

func TestMovementMultiplierZeroDiscontinuity(t *testing.T) {
	cfg := derivedTestConfig()

	// The exact-zero hard wall is deliberately harsher than the
	// interpolated limit.
	atZero := MovementMultiplier(0, cfg)
	nearZero := MovementMultiplier(0.0001, cfg)

	assert.Equal(t, cfg.Movement.ZeroFloor, atZero)
	assert.Less(t, atZero, nearZero)
}

func TestDifficultyMultiplier(t *testing.T) {
	cfg := derivedTestConfig()

	assert.Equal(t, 1.0, DifficultyMultiplier(100, cfg))
	assert.Equal(t, 1.0, DifficultyMultiplier(50.01, cfg))
	assert.InDelta(t, 1.0, DifficultyMultiplier(50, cfg), 1e-9)
	assert.InDelta(t, 1.5, DifficultyMultiplier(35, cfg), 1e-9)
	assert.Equal(t, 2.0, DifficultyMultiplier(20, cfg))
	assert.Equal(t, 2.0, DifficultyMultiplier(0, cfg))
}

func TestDerivedFunctionsTotalOverRange(t *testing.T) {
	cfg := derivedTestConfig()

	for level := 0.0; level <= cfg.MaxLevel; level += 0.25 {
		move := MovementMultiplier(level, cfg)
		diff := DifficultyMultiplier(level, cfg)

		assert.GreaterOrEqual(t, move, cfg.Movement.ZeroFloor)
		assert.LessOrEqual(t, move, 1.0)
		assert.GreaterOrEqual(t, diff, 1.0)
		assert.LessOrEqual(t, diff, cfg.Difficulty.MaxMultiplier)
	}
}
