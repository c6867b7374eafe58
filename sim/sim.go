/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package sim

import (
	"fmt"
	"sort"

	"github.com/policydebate/swisstab/tab"
)

// Config describes the virtual tournaments the simulator runs.
type Config struct {
	NumTeams    int
	NumRounds   int
	UseBuchholz bool
	Model       tab.WinModel
}

func (c Config) validate() error {
	if c.NumTeams < 2 {
		return fmt.Errorf("%w: at least 2 teams required, got %d",
			tab.ErrConfig, c.NumTeams)
	}
	if c.NumRounds < 1 {
		return fmt.Errorf("%w: at least 1 round required, got %d",
			tab.ErrConfig, c.NumRounds)
	}
	return nil
}

// NewRoster creates a fresh virtual roster where team i carries true rank
// i+1 (rank 1 is the strongest).
func NewRoster(n int) []*tab.Team {
	teams := make([]*tab.Team, n)
	for i := range teams {
		t := tab.NewTeam(i, fmt.Sprintf("Team %d", i+1))
		t.TrueRank = i + 1
		teams[i] = t
	}
	return teams
}

// RunTournament plays one complete tournament: each round is paired by the
// live Swiss core and every outcome is drawn from the win model, then
// committed through the same canonical mutations the live stat rebuild
// uses. The returned roster is sorted into final standings order
// (score, then buchholz).
func RunTournament(cfg Config, rng *LCG) []*tab.Team {
	teams := NewRoster(cfg.NumTeams)

	for r := 1; r <= cfg.NumRounds; r++ {
		pairs, _ := tab.PairRound(teams, r, cfg.UseBuchholz, rng)
		for _, p := range pairs {
			tab.ApplyPairing(p.Aff, p.Neg)
			affWon := rng.Float64() < tab.WinProb(p.Aff, p.Neg, cfg.Model)
			tab.ApplyResult(p.Aff, p.Neg, affWon)
		}
		if cfg.UseBuchholz {
			tab.UpdateBuchholz(teams)
		}
	}

	tab.UpdateBuchholz(teams)
	sort.SliceStable(teams, func(i, j int) bool {
		if teams[i].Score != teams[j].Score {
			return teams[i].Score > teams[j].Score
		}
		return teams[i].Buchholz > teams[j].Buchholz
	})
	return teams
}
