/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package sim

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/policydebate/swisstab/tab"
)

// HistogramResult carries a merged integer histogram plus the number of
// tournaments that produced it.
type HistogramResult struct {
	Counts map[int]int
	Sims   int
}

// TopN estimates, per true rank, how often that rank finishes in the top n
// positions. Counts is keyed by true rank.
func (r *Runner) TopN(ctx context.Context, n int) (*HistogramResult, error) {
	if n < 1 || n > r.Cfg.NumTeams {
		return nil, fmt.Errorf("%w: top-n %d outside 1..%d",
			tab.ErrValidation, n, r.Cfg.NumTeams)
	}
	counts, sims, err := r.runHistogram(ctx, 0, r.Sims,
		func(final []*tab.Team, hist map[int]int) {
			for _, t := range final[:n] {
				hist[t.TrueRank]++
			}
		})
	if err != nil {
		return nil, err
	}
	return &HistogramResult{Counts: counts, Sims: sims}, nil
}

// WinDistribution estimates the distribution of final win counts for the
// team with the given true rank. Counts is keyed by win count.
func (r *Runner) WinDistribution(ctx context.Context, trueRank int) (*HistogramResult, error) {
	if trueRank < 1 || trueRank > r.Cfg.NumTeams {
		return nil, fmt.Errorf("%w: true rank %d outside 1..%d",
			tab.ErrValidation, trueRank, r.Cfg.NumTeams)
	}
	counts, sims, err := r.runHistogram(ctx, 0, r.Sims,
		func(final []*tab.Team, hist map[int]int) {
			for _, t := range final {
				if t.TrueRank == trueRank {
					hist[t.Wins]++
					break
				}
			}
		})
	if err != nil {
		return nil, err
	}
	return &HistogramResult{Counts: counts, Sims: sims}, nil
}

// RankDistributionFromWins estimates the true-rank distribution over all
// teams that finish with exactly the given win count. Counts is keyed by
// true rank.
func (r *Runner) RankDistributionFromWins(ctx context.Context, wins int) (*HistogramResult, error) {
	if wins < 0 || wins > r.Cfg.NumRounds {
		return nil, fmt.Errorf("%w: win count %d outside 0..%d",
			tab.ErrValidation, wins, r.Cfg.NumRounds)
	}
	counts, sims, err := r.runHistogram(ctx, 0, r.Sims,
		func(final []*tab.Team, hist map[int]int) {
			for _, t := range final {
				if t.Wins == wins {
					hist[t.TrueRank]++
				}
			}
		})
	if err != nil {
		return nil, err
	}
	return &HistogramResult{Counts: counts, Sims: sims}, nil
}

// RankDistributionFromHistory estimates the true-rank distribution over all
// teams whose win/loss sequence starts with the given prefix (e.g. "WWL").
// Counts is keyed by true rank.
func (r *Runner) RankDistributionFromHistory(ctx context.Context, prefix string) (*HistogramResult, error) {
	prefix, err := NormalizeHistory(prefix, r.Cfg.NumRounds)
	if err != nil {
		return nil, err
	}
	counts, sims, err := r.runHistogram(ctx, 0, r.Sims,
		func(final []*tab.Team, hist map[int]int) {
			for _, t := range final {
				if t.HistoryPrefix(len(prefix)) == prefix {
					hist[t.TrueRank]++
				}
			}
		})
	if err != nil {
		return nil, err
	}
	return &HistogramResult{Counts: counts, Sims: sims}, nil
}

// NormalizeHistory uppercases a win/loss sequence, strips spaces, and
// validates it against the round count.
func NormalizeHistory(h string, numRounds int) (string, error) {
	h = strings.ToUpper(strings.ReplaceAll(h, " ", ""))
	if h == "" {
		return "", fmt.Errorf("%w: empty win/loss history", tab.ErrValidation)
	}
	if len(h) > numRounds {
		return "", fmt.Errorf("%w: history %q longer than %d rounds",
			tab.ErrValidation, h, numRounds)
	}
	for _, c := range h {
		if c != 'W' && c != 'L' {
			return "", fmt.Errorf("%w: history %q contains %q; only W/L allowed",
				tab.ErrValidation, h, string(c))
		}
	}
	return h, nil
}

// H2HResult aggregates observed matchups between two history cohorts.
type H2HResult struct {
	Matchups  int
	WinsA     int
	WinsB     int
	MeanRankA float64
	MeanRankB float64
	Sims      int
}

// h2hTally is the per-worker raw aggregate; rank sums divide out at the end.
type h2hTally struct {
	matchups, winsA, winsB int
	rankSumA, rankSumB     int
}

// HeadToHead estimates the head-to-head win split between a team whose
// history starts with prefix a and one whose history starts with prefix b,
// counting pairs that met in the final round of the prefixes.
// Because matchups between two specific cohorts are rare events, the run is
// adaptive: batches of batchSize tournaments repeat until minMatchups have
// been observed or maxSims tournaments have been played, whichever comes
// first. Partial aggregates are returned either way. Progress, when set, is
// called after every batch with the running total rather than every
// ProgressEvery tournaments.
func (r *Runner) HeadToHead(ctx context.Context, a, b string,
	minMatchups, batchSize, maxSims int) (*H2HResult, error) {

	a, err := NormalizeHistory(a, r.Cfg.NumRounds)
	if err != nil {
		return nil, err
	}
	b, err = NormalizeHistory(b, r.Cfg.NumRounds)
	if err != nil {
		return nil, err
	}
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: history prefixes must have equal length (%q vs %q)",
			tab.ErrValidation, a, b)
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	if maxSims <= 0 {
		maxSims = 50000
	}

	if err := r.Cfg.validate(); err != nil {
		return nil, err
	}

	var total h2hTally
	sims := 0
	for sims < maxSims && total.matchups < minMatchups {
		size := batchSize
		if sims+size > maxSims {
			size = maxSims - sims
		}
		batch, err := r.h2hBatch(ctx, int64(sims), size, a, b)
		if err != nil {
			return nil, err
		}
		total.matchups += batch.matchups
		total.winsA += batch.winsA
		total.winsB += batch.winsB
		total.rankSumA += batch.rankSumA
		total.rankSumB += batch.rankSumB
		sims += size

		if ctx.Err() != nil {
			break
		}
		if r.Progress != nil {
			if stop := r.Progress(sims); stop {
				break
			}
		}
	}

	res := &H2HResult{
		Matchups: total.matchups,
		WinsA:    total.winsA,
		WinsB:    total.winsB,
		Sims:     sims,
	}
	if total.matchups > 0 {
		res.MeanRankA = float64(total.rankSumA) / float64(total.matchups)
		res.MeanRankB = float64(total.rankSumB) / float64(total.matchups)
	}
	return res, nil
}

// h2hBatch plays one batch of tournaments in parallel and tallies cohort
// matchups. The meeting round is the final round of the prefixes: a "WW"
// team and a "WL" team met in round 2, where their records diverged.
func (r *Runner) h2hBatch(ctx context.Context, seedOffset int64, size int,
	a, b string) (*h2hTally, error) {

	workers := r.workerCount(size)
	batchSize := size / workers
	remainder := size % workers
	meetIdx := len(a) - 1

	var mu sync.Mutex
	total := &h2hTally{}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		idx := i
		g.Go(func() error {
			n := batchSize
			if idx < remainder {
				n++
			}
			rng := NewLCG(r.workerSeed(seedOffset*1000003, idx))
			local := h2hTally{}

			for t := 0; t < n; t++ {
				if gctx.Err() != nil {
					break
				}
				final := RunTournament(r.Cfg, rng)
				byID := make(map[int]*tab.Team, len(final))
				for _, tm := range final {
					byID[tm.ID] = tm
				}
				for _, ta := range final {
					if ta.HistoryPrefix(len(a)) != a {
						continue
					}
					if len(ta.Opponents) <= meetIdx {
						continue
					}
					tb := byID[ta.Opponents[meetIdx]]
					if tb == nil || tb.HistoryPrefix(len(b)) != b {
						continue
					}
					local.matchups++
					local.rankSumA += ta.TrueRank
					local.rankSumB += tb.TrueRank
					// Replay the meeting as a fresh draw from the win
					// model rather than trusting a single recorded
					// outcome; the estimate converges on the model
					// probability conditioned on the cohorts that met.
					if rng.Float64() < tab.WinProb(ta, tb, r.Cfg.Model) {
						local.winsA++
					} else {
						local.winsB++
					}
				}
			}

			mu.Lock()
			total.matchups += local.matchups
			total.winsA += local.winsA
			total.winsB += local.winsB
			total.rankSumA += local.rankSumA
			total.rankSumB += local.rankSumB
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return total, err
	}
	return total, nil
}
