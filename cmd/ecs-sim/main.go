package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/plus3/stagecs/internal/config"
	"github.com/plus3/stagecs/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML configuration file.")
	duration := flag.Duration("duration", 0, "The total duration the simulation should run for.")
	entityCount := flag.Int("entities", -1, "The number of entities to generate when no prototypes are loaded.")
	initialState := flag.String("state", "", "The state to start in: main or idle.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *duration > 0 {
		cfg.Simulation.Duration = *duration
	}
	if *entityCount >= 0 {
		cfg.Simulation.Entities = *entityCount
	}
	if *initialState != "" {
		cfg.Simulation.InitialState = *initialState
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger, *gcPauseMetrics); err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger, gcPauseMetrics bool) error {
	sim, err := newSimulation(cfg, logger)
	if err != nil {
		return err
	}

	report := &Report{
		Duration:       cfg.Simulation.Duration,
		TickRate:       cfg.Simulation.TickRate,
		GCPauseMetrics: gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info("running simulation",
		zap.Duration("duration", cfg.Simulation.Duration),
		zap.String("state", cfg.Simulation.InitialState))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Simulation.Duration)
	defer cancel()

	startTime := time.Now()
	sim.runUntil(ctx, report)
	report.TotalTime = time.Since(startTime)
	runtime.ReadMemStats(&report.MemStatsEnd)

	sim.fill(report)
	logger.Info("simulation finished", zap.Int64("updates", report.TotalUpdates))

	fmt.Println("\n\n--- Simulation Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	fmt.Println("--- End of Report ---")
	return nil
}
