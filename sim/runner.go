/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package sim

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/policydebate/swisstab/tab"
)

// Runner fans whole tournaments out across workers. Each worker owns its
// roster and its own seeded generator; per-worker observations merge into
// the shared aggregate only at join time. An optional Progress callback
// fires every ProgressEvery completed tournaments; returning true (or
// cancelling the context) stops the run early with partial aggregates.
type Runner struct {
	Cfg     Config
	Sims    int
	Workers int
	Seed    int64

	Progress      func(completed int) (stop bool)
	ProgressEvery int
}

func (r *Runner) workerCount(sims int) int {
	w := r.Workers
	if w <= 0 {
		w = runtime.NumCPU()
	}
	if w > sims {
		w = sims
	}
	if w < 1 {
		w = 1
	}
	return w
}

func (r *Runner) progressEvery() int {
	if r.ProgressEvery > 0 {
		return r.ProgressEvery
	}
	return 1000
}

// workerSeed spaces worker seeds far apart so adjacent workers do not walk
// overlapping generator sequences.
func (r *Runner) workerSeed(offset int64, idx int) int64 {
	return r.Seed + offset + int64(idx)*2654435769
}

// runHistogram runs sims tournaments and merges per-worker integer
// histograms produced by observe. seedOffset lets adaptive callers run
// successive batches without replaying identical seeds. Returns the merged
// histogram and the number of tournaments actually completed (fewer than
// sims when stopped early).
func (r *Runner) runHistogram(ctx context.Context, seedOffset int64, sims int,
	observe func(final []*tab.Team, hist map[int]int)) (map[int]int, int, error) {

	if err := r.Cfg.validate(); err != nil {
		return nil, 0, err
	}

	workers := r.workerCount(sims)
	batchSize := sims / workers
	remainder := sims % workers

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	merged := make(map[int]int)
	var completed int64

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		idx := i
		g.Go(func() error {
			size := batchSize
			if idx < remainder {
				size++
			}
			rng := NewLCG(r.workerSeed(seedOffset, idx))
			local := make(map[int]int)

			for n := 0; n < size; n++ {
				if gctx.Err() != nil {
					break
				}

				final := RunTournament(r.Cfg, rng)
				observe(final, local)

				done := atomic.AddInt64(&completed, 1)
				if r.Progress != nil && done%int64(r.progressEvery()) == 0 {
					mu.Lock()
					stop := r.Progress(int(done))
					mu.Unlock()
					if stop {
						cancel()
					}
				}
			}

			mu.Lock()
			for k, v := range local {
				merged[k] += v
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return merged, int(completed), err
	}
	return merged, int(completed), nil
}
