// Package main runs the battle balance simulator.
// Exits non-zero when a scenario's expectation fails.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MRamiBalles/shadowshell/internal/engine"
	"github.com/MRamiBalles/shadowshell/internal/platform/config"
	"github.com/MRamiBalles/shadowshell/internal/platform/logger"
	"github.com/MRamiBalles/shadowshell/internal/platform/metrics"
	"github.com/MRamiBalles/shadowshell/internal/platform/random"
	"github.com/MRamiBalles/shadowshell/internal/sim"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "battle-sim:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.ParseSim(flag.NewFlagSet("battle-sim", flag.ExitOnError), os.Args[1:])
	if err != nil {
		return err
	}

	appLogger := logger.Discard()
	if cfg.Verbose {
		appLogger = logger.NewLogger()
	}

	seed := cfg.Seed
	if seed == 0 {
		if seed, err = random.NewSeed(); err != nil {
			return err
		}
	}

	catalog, enemies, err := engine.LoadContent("", "", appLogger)
	if err != nil {
		return err
	}
	scenarios, err := sim.DefaultScenarios(enemies, catalog, cfg.Level)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("SHADOWSHELL BATTLE SIMULATOR (seed %d, %d battles per scenario)\n", seed, cfg.Battles)
	collector := metrics.New()
	runner := sim.NewRunner(random.NewSource(seed), cfg.Battles, appLogger, collector).WithCatalog(catalog)
	for _, sc := range scenarios {
		fmt.Printf("\nRunning: %s...\n", sc.Name)
		if _, err := runner.Run(ctx, sc); err != nil {
			return err
		}
	}
	fmt.Println()
	runner.Report(os.Stdout)

	if cfg.Metrics != "" {
		if err := writeMetrics(cfg.Metrics, collector); err != nil {
			return err
		}
	}

	if failed := runner.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(scenarios))
	}
	fmt.Println("\nAll scenarios passed.")
	return nil
}

func writeMetrics(path string, c *metrics.Collector) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	defer f.Close()
	return c.WritePrometheus(f)
}
