package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/orbitsim/internal/config"
	"github.com/example/orbitsim/internal/inputs"
	"github.com/example/orbitsim/internal/sim"
	"github.com/example/orbitsim/internal/telemetry"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		log.Fatalf("orbitsim: %v", err)
	}

	source, err := inputs.NewFileSource(cfg.DataDir, cfg.Nsat)
	if err != nil {
		log.Fatalf("orbitsim: loading input source from %s: %v", cfg.DataDir, err)
	}

	reporter := telemetry.NewReporter(cfg.MetricsAddr)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("orbitsim: shutdown signal received, stopping workers after their current step")
		cancel()
	}()

	log.Printf("orbitsim: running %d strategies x %d repetitions over %d steps", len(cfg.Strategies), cfg.Repetitions, cfg.MaxTimeSteps)
	errs := sim.Run(ctx, cfg, source, reporter)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := reporter.Shutdown(shutdownCtx); err != nil {
		log.Printf("orbitsim: metrics server shutdown: %v", err)
	}

	if len(errs) > 0 {
		for _, e := range errs {
			log.Printf("orbitsim: worker error: %v", e)
		}
		os.Exit(1)
	}
}
