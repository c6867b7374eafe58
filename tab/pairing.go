/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tab

import (
	"sort"
)

// Rand is the source of randomness for pairing decisions. *math/rand.Rand
// satisfies it for live tournaments; simulations supply a seeded
// deterministic generator so runs are reproducible.
type Rand interface {
	Float64() float64
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Pair is one emitted pairing, sides already assigned.
type Pair struct {
	Aff *Team
	Neg *Team
}

// sidePreference scores how strongly a team wants Affirmative next.
// Positive means it wants Aff. The last-side adjustment is ±2 so that
// alternation outweighs a one-match side imbalance but not a two-match
// imbalance.
func sidePreference(t *Team) float64 {
	pref := float64(t.NegCount - t.AffCount)
	if t.LastSide == SideNeg {
		pref += 2.0
	} else if t.LastSide == SideAff {
		pref -= 2.0
	}
	return pref
}

// findBestOpponent scans group in order for the best opponent for t1.
// A fresh opponent always wins; failing that, the first prior opponent
// against whom t1 has not yet argued both sides is acceptable as a
// side-swap rematch. Returns the group index and whether the choice is a
// swappable repeat, or (-1, false) when the group holds no legal opponent.
// The caller performs all removal and emission; this is a pure scan.
func findBestOpponent(t1 *Team, group []*Team) (int, bool) {
	swapIdx := -1
	for i, cand := range group {
		if !t1.HasPlayed(cand.ID) {
			return i, false
		}
		if swapIdx == -1 {
			hist := t1.SideHistory[cand.ID]
			playedAff, playedNeg := false, false
			for _, s := range hist {
				if s == SideAff {
					playedAff = true
				} else if s == SideNeg {
					playedNeg = true
				}
			}
			if !playedAff || !playedNeg {
				swapIdx = i
			}
		}
	}
	if swapIdx != -1 {
		return swapIdx, true
	}
	return -1, false
}

// determineSides decides which team argues Affirmative. For a swappable
// rematch the unused side is forced; otherwise the team with the stronger
// preference takes Aff, with a uniform coin break on ties.
func determineSides(t1, t2 *Team, swappable bool, rng Rand) (*Team, *Team) {
	if swappable {
		hist := t1.SideHistory[t2.ID]
		playedAff, playedNeg := false, false
		for _, s := range hist {
			if s == SideAff {
				playedAff = true
			} else if s == SideNeg {
				playedNeg = true
			}
		}
		if !playedAff && playedNeg {
			return t1, t2
		} else if !playedNeg && playedAff {
			return t2, t1
		}
	}

	p1 := sidePreference(t1)
	p2 := sidePreference(t2)
	if p1 > p2 {
		return t1, t2
	} else if p2 > p1 {
		return t2, t1
	}
	if rng.Float64() < 0.5 {
		return t1, t2
	}
	return t2, t1
}

// UpdateBuchholz recomputes every team's Buchholz score as the sum of its
// current opponents' scores, skipping bye sentinels.
func UpdateBuchholz(teams []*Team) {
	byID := make(map[int]*Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}
	for _, t := range teams {
		sum := 0.0
		for _, oppID := range t.Opponents {
			if oppID == ByeOpponentID {
				continue
			}
			if opp, ok := byID[oppID]; ok {
				sum += opp.Score
			}
		}
		t.Buchholz = sum
	}
}

// PairRound pairs all teams for the given 1-based round using score-group
// Swiss with floating and side constraints. Rounds 1 and 2 pair from a
// single shuffled pool; later rounds group by exact score and sort each
// group by (score, buchholz, id), with buchholz used as a key only when
// useBuchholz is set. Teams that cannot be paired in their
// group float down; leftover floats are paired unconditionally, and an odd
// team out receives a bye (score +1, opponent sentinel -1, no side).
//
// Returns the emitted pairs in order and the bye team, if any. The input
// slice is not reordered.
func PairRound(teams []*Team, roundNum int, useBuchholz bool, rng Rand) ([]Pair, *Team) {
	UpdateBuchholz(teams)

	pool := append([]*Team(nil), teams...)
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	// Rounds 1-2 ignore score entirely so the draw stays random.
	groups := make(map[float64][]*Team)
	if roundNum > 2 {
		for _, t := range pool {
			groups[t.Score] = append(groups[t.Score], t)
		}
	} else {
		groups[0] = pool
	}

	scores := make([]float64, 0, len(groups))
	for s := range groups {
		scores = append(scores, s)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))

	var pairs []Pair
	var floaters []*Team

	for _, score := range scores {
		group := groups[score]
		group = append(group, floaters...)
		floaters = nil

		if roundNum > 2 {
			sort.Slice(group, func(i, j int) bool {
				a, b := group[i], group[j]
				if a.Score != b.Score {
					return a.Score > b.Score
				}
				if useBuchholz && a.Buchholz != b.Buchholz {
					return a.Buchholz > b.Buchholz
				}
				return a.ID < b.ID
			})
		}

		for len(group) > 0 {
			t1 := group[0]
			group = group[1:]

			idx, swappable := findBestOpponent(t1, group)
			if idx == -1 {
				floaters = append(floaters, t1)
				continue
			}
			t2 := group[idx]
			group = append(group[:idx], group[idx+1:]...)
			aff, neg := determineSides(t1, t2, swappable, rng)
			pairs = append(pairs, Pair{Aff: aff, Neg: neg})
		}
	}

	// Drain leftover floats. Repeats are tolerated here; a stuck pairing
	// graph must not stall the tournament.
	for len(floaters) >= 2 {
		t1, t2 := floaters[0], floaters[1]
		floaters = floaters[2:]
		aff, neg := determineSides(t1, t2, false, rng)
		pairs = append(pairs, Pair{Aff: aff, Neg: neg})
	}

	var bye *Team
	if len(floaters) == 1 {
		bye = floaters[0]
		bye.Score += 1.0
		bye.Opponents = append(bye.Opponents, ByeOpponentID)
	}

	return pairs, bye
}
