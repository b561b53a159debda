// Package main is the entry point for the Hambruna sustenance server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/hambruna/server/internal/config"
	"github.com/hambruna/server/internal/engine"
	"github.com/hambruna/server/internal/events"
	"github.com/hambruna/server/internal/journal"
	"github.com/hambruna/server/internal/network"
	"github.com/hambruna/server/internal/platform/logger"
	"github.com/hambruna/server/internal/platform/metrics"
	"github.com/hambruna/server/internal/storage"
	"github.com/hambruna/server/internal/sustenance"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML balance config (optional)")
	dbPath := flag.String("db", "hambruna.db", "Path to SQLite save database")
	addr := flag.String("addr", ":8080", "HTTP listen address")
	flag.Parse()

	log.Println("[HAMBRUNA-SERVER] Initializing sustenance server...")

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
	cfg = config.FromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		// Configuration errors are fatal at startup, never clamped.
		appLogger.Error(err.Error())
		os.Exit(1)
	}

	appLogger.Info("Initializing SQLite database '" + *dbPath + "'...")
	db, err := storage.InitSQLite(*dbPath)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: " + err.Error())
		os.Exit(1)
	}
	defer db.Close()

	store := storage.NewSQLiteStore(db)
	bus := events.NewBus()

	appLogger.Info("Reconciling sustenance state...")
	system, err := sustenance.NewSystem(cfg, store, bus, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize sustenance system: " + err.Error())
		os.Exit(1)
	}

	eng := engine.NewEngine(system, store, bus, appLogger)

	// The recorder runs on the simulation goroutine, so it reads the core
	// directly as its Provider rather than the locking engine handle.
	journalRepo := journal.NewSQLiteRepository(db)
	journal.NewRecorder(journalRepo, system, appLogger).Attach(bus)

	hub := network.NewHub(appLogger)
	hub.Attach(bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx)

	ticker := engine.NewTicker(eng, appLogger)
	go ticker.Start(ctx)

	// All subscribers are wired; establish initial HUD/journal state.
	eng.ForceNotify()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		network.ServeWS(hub, eng, w, r)
	})
	mux.HandleFunc("/state", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"level":                 eng.Level(),
			"fraction":              eng.FillFraction(),
			"severity":              eng.SeverityLabel(),
			"movement_multiplier":   eng.MovementMultiplier(),
			"difficulty_multiplier": eng.DifficultyMultiplier(),
		})
	})
	mux.HandleFunc("/eat", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		seconds, err := strconv.ParseFloat(r.URL.Query().Get("seconds"), 64)
		if err != nil || seconds < 0 {
			http.Error(w, "invalid seconds", http.StatusBadRequest)
			return
		}
		eng.AddTime(seconds)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		eng.ResetToFull()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/journal", func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		entries, err := journalRepo.Recent(r.Context(), limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entries)
	})
	mux.HandleFunc("/metrics", metrics.Handler())
	mux.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())

	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		appLogger.Info("HTTP server listening on " + *addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed: " + err.Error())
			cancel()
		}
	}()

	// Graceful shutdown: the save record must land at least once before
	// teardown.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigChan:
		appLogger.Info("Shutdown signal received.")
	case <-ctx.Done():
	}

	cancel()
	eng.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Warn("HTTP shutdown error: " + err.Error())
	}

	appLogger.Info("Server stopped.")
}
