/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/policydebate/swisstab/tab"
)

func deterministicRunner(sims int) *Runner {
	return &Runner{
		Cfg: Config{
			NumTeams:    8,
			NumRounds:   3,
			UseBuchholz: true,
			Model:       tab.ModelDeterministic,
		},
		Sims:    sims,
		Workers: 2,
		Seed:    12345,
	}
}

func TestTopNDeterministic(t *testing.T) {
	r := deterministicRunner(50)
	res, err := r.TopN(context.Background(), 2)
	if err != nil {
		t.Fatalf("TopN returned error: %v", err)
	}
	if res.Sims != 50 {
		t.Errorf("completed %d sims; want 50", res.Sims)
	}
	// the best team never loses; at most one other team can also go 3-0
	// (when the random early rounds keep them apart), so rank 1 is always
	// in the top two
	if res.Counts[1] != 50 {
		t.Errorf("rank 1 finished top-2 %d times; want 50 (counts: %v)",
			res.Counts[1], res.Counts)
	}
}

func TestWinDistributionDeterministic(t *testing.T) {
	r := deterministicRunner(20)
	res, err := r.WinDistribution(context.Background(), 1)
	if err != nil {
		t.Fatalf("WinDistribution returned error: %v", err)
	}
	if res.Counts[3] != 20 || len(res.Counts) != 1 {
		t.Errorf("rank 1 win distribution = %v; want all mass at 3", res.Counts)
	}
}

func TestRankDistributionFromWinsDeterministic(t *testing.T) {
	r := deterministicRunner(20)
	res, err := r.RankDistributionFromWins(context.Background(), 3)
	if err != nil {
		t.Fatalf("RankDistributionFromWins returned error: %v", err)
	}
	// rank 1 goes 3-0 every time; other ranks may occasionally join it
	if res.Counts[1] != 20 {
		t.Errorf("3-win rank distribution = %v; want rank 1 counted 20 times",
			res.Counts)
	}
}

func TestRankDistributionFromHistoryDeterministic(t *testing.T) {
	r := deterministicRunner(20)
	res, err := r.RankDistributionFromHistory(context.Background(), "W W W")
	if err != nil {
		t.Fatalf("RankDistributionFromHistory returned error: %v", err)
	}
	if res.Counts[1] != 20 {
		t.Errorf("WWW rank distribution = %v; want rank 1 counted 20 times",
			res.Counts)
	}
}

func TestNormalizeHistory(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		rounds  int
		want    string
		wantErr bool
	}{
		{name: "spaced lowercase", in: "w w l", rounds: 3, want: "WWL"},
		{name: "compact", in: "WWL", rounds: 7, want: "WWL"},
		{name: "too long", in: "WWWW", rounds: 3, wantErr: true},
		{name: "bad token", in: "WXD", rounds: 7, wantErr: true},
		{name: "empty", in: "", rounds: 7, wantErr: true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := NormalizeHistory(c.in, c.rounds)
			if c.wantErr {
				if !errors.Is(err, tab.ErrValidation) {
					t.Errorf("%s: err = %v; want ErrValidation", c.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("%s: unexpected error %v", c.name, err)
			}
			if got != c.want {
				t.Errorf("%s: got %q; want %q", c.name, got, c.want)
			}
		})
	}
}

func TestHeadToHeadAdaptiveStop(t *testing.T) {
	r := &Runner{
		Cfg: Config{
			NumTeams:    128,
			NumRounds:   3,
			UseBuchholz: true,
			Model:       tab.ModelElo,
		},
		Workers: 2,
		Seed:    12345,
	}

	res, err := r.HeadToHead(context.Background(), "WW", "WL", 100, 100, 50000)
	if err != nil {
		t.Fatalf("HeadToHead returned error: %v", err)
	}
	if res.Matchups < 100 && res.Sims < 50000 {
		t.Errorf("stopped at %d matchups after %d sims; want >= 100 matchups or the cap",
			res.Matchups, res.Sims)
	}
	if res.WinsA+res.WinsB != res.Matchups {
		t.Errorf("wins %d+%d disagree with %d matchups",
			res.WinsA, res.WinsB, res.Matchups)
	}
	if res.Matchups > 0 {
		if res.MeanRankA < 1 || res.MeanRankA > 128 ||
			res.MeanRankB < 1 || res.MeanRankB > 128 {
			t.Errorf("mean ranks %v/%v outside 1..128", res.MeanRankA, res.MeanRankB)
		}
	}
	if res.Sims > 50000 {
		t.Errorf("exceeded the hard simulation cap: %d", res.Sims)
	}
}

func TestHeadToHeadValidatesHistories(t *testing.T) {
	r := deterministicRunner(10)
	if _, err := r.HeadToHead(context.Background(), "WW", "L", 10, 10, 100); !errors.Is(err, tab.ErrValidation) {
		t.Errorf("unequal prefixes: err = %v; want ErrValidation", err)
	}
	if _, err := r.HeadToHead(context.Background(), "WQ", "WL", 10, 10, 100); !errors.Is(err, tab.ErrValidation) {
		t.Errorf("bad token: err = %v; want ErrValidation", err)
	}
}

func TestProgressCallbackStopsRun(t *testing.T) {
	r := deterministicRunner(5000)
	r.ProgressEvery = 10
	calls := 0
	r.Progress = func(completed int) bool {
		calls++
		return true
	}

	res, err := r.TopN(context.Background(), 1)
	if err != nil {
		t.Fatalf("TopN returned error: %v", err)
	}
	if calls == 0 {
		t.Fatalf("progress callback never fired")
	}
	if res.Sims >= 5000 {
		t.Errorf("run not stopped early: completed %d", res.Sims)
	}
	if res.Sims == 0 {
		t.Errorf("stop discarded all partial results")
	}
}

func TestContextCancelReturnsPartials(t *testing.T) {
	r := deterministicRunner(100)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := r.TopN(ctx, 1)
	if err != nil {
		t.Fatalf("TopN returned error on cancelled context: %v", err)
	}
	if res.Sims >= 100 {
		t.Errorf("cancelled run completed all %d sims", res.Sims)
	}
}
