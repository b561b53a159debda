// Package main - simulator
// Headless fast-forward harness for balance tuning: runs the sustenance
// core with synthetic frame deltas and prints every transition.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hambruna/server/internal/config"
	"github.com/hambruna/server/internal/events"
	"github.com/hambruna/server/internal/platform/logger"
	"github.com/hambruna/server/internal/storage"
	"github.com/hambruna/server/internal/sustenance"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML balance config (optional)")
	total := flag.Float64("seconds", 900, "Total simulated seconds to run")
	step := flag.Float64("step", 0.25, "Simulated seconds per frame")
	eatAt := flag.Float64("eat-at", -1, "Simulated second at which to eat (negative = never)")
	eatAmount := flag.Float64("eat-amount", 120, "Seconds of sustenance credited when eating")
	flag.Parse()

	appLogger := logger.NewLogger()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			appLogger.Error("Failed to load config: " + err.Error())
			os.Exit(1)
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		appLogger.Error(err.Error())
		os.Exit(1)
	}

	bus := events.NewBus()
	store := storage.NewMemoryStore()

	system, err := sustenance.NewSystem(cfg, store, bus, appLogger)
	if err != nil {
		appLogger.Error(err.Error())
		os.Exit(1)
	}

	elapsed := 0.0
	starvationTicks := 0
	bus.SubscribeSeverityChanged(func(severity string) {
		fmt.Printf("t=%8.2fs  severity=%-8s  level=%7.2f  move=%.2f  diff=%.2f\n",
			elapsed, severity, system.Level(), system.MovementMultiplier(), system.DifficultyMultiplier())
	})
	bus.SubscribeStarvationTick(func() {
		starvationTicks++
		fmt.Printf("t=%8.2fs  STARVATION_TICK #%d\n", elapsed, starvationTicks)
	})

	system.ForceNotify()

	ate := false
	for elapsed < *total {
		system.Tick(*step)
		elapsed += *step

		if !ate && *eatAt >= 0 && elapsed >= *eatAt {
			fmt.Printf("t=%8.2fs  EAT +%.0fs\n", elapsed, *eatAmount)
			system.Add(*eatAmount)
			ate = true
		}
	}

	fmt.Println("---------------------------------------------")
	fmt.Printf("final: level=%.2f fraction=%.3f severity=%s starvation_ticks=%d\n",
		system.Level(), system.FillFraction(), system.SeverityLabel(), starvationTicks)
}
