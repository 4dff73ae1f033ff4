package sim

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/example/orbitsim/internal/config"
	"github.com/example/orbitsim/internal/inputs"
	"github.com/example/orbitsim/internal/results"
	"github.com/example/orbitsim/internal/strategy"
	"github.com/example/orbitsim/internal/telemetry"
)

// poolSize mirrors the reference system's ProcessPoolExecutor sizing:
// min(61, 4 * strategies * repetitions) concurrent workers. A buffered
// channel semaphore is the idiomatic Go substitute for that bounded process
// pool — each worker is a goroutine, not an OS process, but owns no state
// shared with any other worker.
func poolSize(strategies, repetitions int) int {
	n := 4 * strategies * repetitions
	if n > 61 {
		return 61
	}
	if n < 1 {
		return 1
	}
	return n
}

// Run launches one worker per (strategy, repetition) pair from cfg,
// bounded by poolSize, and waits for all of them to finish. It collects
// every worker's error rather than cancelling siblings on first failure,
// matching the original's executor.submit/as_completed pattern where one
// run's exception never stops the others.
func Run(ctx context.Context, cfg config.Config, source inputs.Source, reporter *telemetry.Reporter) []error {
	sem := make(chan struct{}, poolSize(len(cfg.Strategies), cfg.Repetitions))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error

	for rep := 0; rep < cfg.Repetitions; rep++ {
		for _, name := range cfg.Strategies {
			rep, name := rep, name
			wg.Add(1)
			sem <- struct{}{}
			go func() {
				defer wg.Done()
				defer func() { <-sem }()

				if err := runOne(ctx, cfg, source, reporter, name, rep); err != nil {
					mu.Lock()
					errs = append(errs, fmt.Errorf("strategy %s repetition %d: %w", name, rep, err))
					mu.Unlock()
				}
			}()
		}
	}

	wg.Wait()
	return errs
}

func runOne(ctx context.Context, cfg config.Config, source inputs.Source, reporter *telemetry.Reporter, name string, repetition int) error {
	strat, err := strategy.New(name)
	if err != nil {
		return err
	}

	fileName := results.FileName(name, cfg.GSLFailures, cfg.ISLFailures, cfg.GrowthFactor, repetition)
	writer, err := results.NewWriter(cfg.ResultsDir, fileName)
	if err != nil {
		return err
	}
	defer writer.Close()

	runID := uuid.NewString()
	log.Printf("sim[%s]: starting strategy=%s repetition=%d", runID, name, repetition)

	w := &Worker{
		RunID:      runID,
		Strategy:   strat,
		Repetition: repetition,
		Seed:       cfg.Seed + int64(repetition),
		Cfg:        cfg,
		Source:     source,
		Results:    writer,
		Telemetry:  reporter,
	}

	if err := w.Run(ctx); err != nil {
		log.Printf("sim[%s]: strategy=%s repetition=%d failed: %v", runID, name, repetition, err)
		return err
	}
	log.Printf("sim[%s]: finished strategy=%s repetition=%d", runID, name, repetition)
	return nil
}
