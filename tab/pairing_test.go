/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tab

import (
	"math/rand"
	"testing"
)

func TestSidePreference(t *testing.T) {
	cases := []struct {
		name string
		team Team
		want float64
	}{
		{
			name: "fresh team",
			team: Team{},
			want: 0,
		},
		{
			name: "balanced but last was neg",
			team: Team{AffCount: 1, NegCount: 1, LastSide: SideNeg},
			want: 2,
		},
		{
			name: "balanced but last was aff",
			team: Team{AffCount: 1, NegCount: 1, LastSide: SideAff},
			want: -2,
		},
		{
			name: "two extra neg cancels alternation",
			team: Team{AffCount: 0, NegCount: 2, LastSide: SideAff},
			want: 0,
		},
		{
			name: "one extra neg loses to alternation",
			team: Team{AffCount: 1, NegCount: 2, LastSide: SideAff},
			want: -1,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := sidePreference(&c.team); got != c.want {
				t.Errorf("%s: sidePreference = %v; want %v", c.name, got, c.want)
			}
		})
	}
}

func TestFindBestOpponent(t *testing.T) {
	t1 := NewTeam(0, "t1")
	fresh := NewTeam(1, "fresh")
	metOnce := NewTeam(2, "met once")
	metBoth := NewTeam(3, "met both sides")

	t1.Opponents = []int{2, 3, 3}
	t1.SideHistory[2] = []Side{SideAff}
	t1.SideHistory[3] = []Side{SideAff, SideNeg}

	// fresh opponent beats an earlier swappable repeat
	idx, swap := findBestOpponent(t1, []*Team{metOnce, fresh})
	if idx != 1 || swap {
		t.Errorf("expected fresh opponent at 1, got idx=%d swap=%v", idx, swap)
	}

	// swappable repeat is the fallback
	idx, swap = findBestOpponent(t1, []*Team{metBoth, metOnce})
	if idx != 1 || !swap {
		t.Errorf("expected swappable repeat at 1, got idx=%d swap=%v", idx, swap)
	}

	// a both-sides repeat is never acceptable
	idx, swap = findBestOpponent(t1, []*Team{metBoth})
	if idx != -1 || swap {
		t.Errorf("expected no opponent, got idx=%d swap=%v", idx, swap)
	}
}

func TestDetermineSides(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	// forced swap: t1 has only argued Aff against t2, so it must take Neg
	t1 := NewTeam(0, "t1")
	t2 := NewTeam(1, "t2")
	t1.SideHistory[1] = []Side{SideAff}
	t2.SideHistory[0] = []Side{SideNeg}
	aff, neg := determineSides(t1, t2, true, rng)
	if aff != t2 || neg != t1 {
		t.Errorf("expected forced swap to give t2 the Aff")
	}

	// preference: the team owing an Aff takes it
	t3 := NewTeam(2, "t3")
	t4 := NewTeam(3, "t4")
	t3.NegCount = 2
	t3.LastSide = SideNeg
	t4.AffCount = 2
	t4.LastSide = SideAff
	aff, neg = determineSides(t3, t4, false, rng)
	if aff != t3 || neg != t4 {
		t.Errorf("expected t3 to take the Aff on preference")
	}
}

func TestPairRoundBye(t *testing.T) {
	teams := make([]*Team, 5)
	for i := range teams {
		teams[i] = NewTeam(i, "")
	}
	rng := rand.New(rand.NewSource(12345))

	pairs, bye := PairRound(teams, 1, true, rng)
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs for 5 teams, got %d", len(pairs))
	}
	if bye == nil {
		t.Fatalf("expected exactly one bye for an odd roster")
	}
	if bye.Score != 1.0 {
		t.Errorf("bye team score = %v; want 1", bye.Score)
	}
	if len(bye.Opponents) != 1 || bye.Opponents[0] != ByeOpponentID {
		t.Errorf("bye team opponents = %v; want [-1]", bye.Opponents)
	}
	if bye.AffCount+bye.NegCount != 0 {
		t.Errorf("bye must not record a side")
	}

	// every team is in exactly one pair or the bye
	seen := make(map[int]int)
	for _, p := range pairs {
		seen[p.Aff.ID]++
		seen[p.Neg.ID]++
	}
	seen[bye.ID]++
	for _, tm := range teams {
		if seen[tm.ID] != 1 {
			t.Errorf("team %d appears %d times", tm.ID, seen[tm.ID])
		}
	}
}

// playRound commits deterministic outcomes the way the simulator does: the
// lower id wins every match.
func playRound(pairs []Pair) {
	for _, p := range pairs {
		ApplyPairing(p.Aff, p.Neg)
		ApplyResult(p.Aff, p.Neg, p.Aff.ID < p.Neg.ID)
	}
}

func TestPairRoundNoRepeats(t *testing.T) {
	teams := make([]*Team, 8)
	for i := range teams {
		teams[i] = NewTeam(i, "")
	}
	rng := rand.New(rand.NewSource(12345))

	for r := 1; r <= 3; r++ {
		pairs, bye := PairRound(teams, r, true, rng)
		if bye != nil {
			t.Fatalf("round %d: unexpected bye with 8 teams", r)
		}
		if len(pairs) != 4 {
			t.Fatalf("round %d: expected 4 pairs, got %d", r, len(pairs))
		}
		for _, p := range pairs {
			if p.Aff.ID == p.Neg.ID {
				t.Errorf("round %d: team %d paired with itself", r, p.Aff.ID)
			}
			// a rematch is tolerated only as a side swap: the Aff team
			// must never have argued Aff against this opponent before
			if p.Aff.HasPlayed(p.Neg.ID) {
				for _, s := range p.Aff.SideHistory[p.Neg.ID] {
					if s == SideAff {
						t.Errorf("round %d: %d repeats the Aff against %d",
							r, p.Aff.ID, p.Neg.ID)
					}
				}
			}
		}
		playRound(pairs)
	}

	// every team played all three rounds
	for _, tm := range teams {
		if len(tm.Opponents) != 3 {
			t.Errorf("team %d played %d rounds; want 3", tm.ID, len(tm.Opponents))
		}
		if tm.AffCount+tm.NegCount != 3 {
			t.Errorf("team %d side counts sum to %d; want 3",
				tm.ID, tm.AffCount+tm.NegCount)
		}
	}
}

func TestUpdateBuchholz(t *testing.T) {
	a := NewTeam(0, "")
	b := NewTeam(1, "")
	c := NewTeam(2, "")
	a.Score, b.Score, c.Score = 2, 1, 0
	a.Opponents = []int{1, 2}
	b.Opponents = []int{0, ByeOpponentID}
	c.Opponents = []int{0}

	UpdateBuchholz([]*Team{a, b, c})
	if a.Buchholz != 1 {
		t.Errorf("a buchholz = %v; want 1", a.Buchholz)
	}
	if b.Buchholz != 2 {
		t.Errorf("b buchholz = %v; want 2 (bye ignored)", b.Buchholz)
	}
	if c.Buchholz != 2 {
		t.Errorf("c buchholz = %v; want 2", c.Buchholz)
	}
}
