package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"terragen/internal/config"
)

// SeedDir is the output subdirectory a batch uses for seed.
func SeedDir(base string, seed int64) string {
	return filepath.Join(base, fmt.Sprintf("seed-%d", seed))
}

// RunBatch generates one scene per seed on cfg.Batch.Workers goroutines.
// Each seed drives terrain, scatter and camera and writes to SeedDir.
// Results come back in seeds order; failed seeds are left out and their
// errors joined. Repeated seeds run once.
func RunBatch(ctx context.Context, cfg config.Config, seeds []int64, logger *log.Logger) ([]Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seeds = uniqueSeeds(seeds)
	if len(seeds) == 0 {
		return nil, nil
	}
	cat, err := openCatalog(cfg)
	if err != nil {
		return nil, err
	}
	if cat != nil {
		defer cat.Close()
	}

	results := make(chan JobResult, len(seeds))
	pool := NewWorkerPool(ctx, cfg.Batch.Workers, cfg.Batch.QueueSize, func(ctx context.Context, job Job) JobResult {
		prefix := fmt.Sprintf("%sseed=%d ", logger.Prefix(), job.Seed)
		res, err := generate(ctx, job.Config, cat, log.New(logger.Writer(), prefix, logger.Flags()))
		return JobResult{Seed: job.Seed, Result: res, Err: err}
	})

	submitted := 0
	for _, seed := range seeds {
		if !pool.SubmitJobBlocking(Job{Seed: seed, Config: seedConfig(cfg, seed), ResultChan: results}) {
			break
		}
		submitted++
	}
	if submitted < len(seeds) {
		pool.Stop()
	} else {
		pool.Shutdown()
	}
	close(results)

	bySeed := make(map[int64]JobResult, len(seeds))
	for r := range results {
		bySeed[r.Seed] = r
	}

	var out []Result
	var errs []error
	for _, seed := range seeds {
		r, ok := bySeed[seed]
		switch {
		case !ok:
			continue
		case r.Err != nil:
			errs = append(errs, fmt.Errorf("seed %d: %w", seed, r.Err))
		default:
			out = append(out, r.Result)
		}
	}
	if submitted < len(seeds) || len(bySeed) < submitted {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	logger.Printf("batch finished: %d/%d seeds succeeded", len(out), len(seeds))
	return out, errors.Join(errs...)
}

func seedConfig(cfg config.Config, seed int64) config.Config {
	c := cfg
	c.Terrain.Seed = seed
	c.Scatter.Seed = seed
	c.Camera.Seed = seed
	c.Output.Dir = SeedDir(cfg.Output.Dir, seed)
	return c
}

func uniqueSeeds(seeds []int64) []int64 {
	seen := make(map[int64]bool, len(seeds))
	out := make([]int64, 0, len(seeds))
	for _, s := range seeds {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
