/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tab

import (
	"fmt"
	"sort"
)

// Validate cross-checks the textual projections against the structured
// records, the judge relation against match assignments, and the Buchholz
// scores against a recomputation. It runs after every pairing, result and
// judge-assignment change and before every persistence point. A failure here is not a caller mistake: it means
// the in-memory state is damaged and must not be persisted.
func (t *Tournament) Validate() error {
	if err := t.validatePairingLog(); err != nil {
		return err
	}
	if err := t.validateResultLog(); err != nil {
		return err
	}
	if err := t.validateJudges(); err != nil {
		return err
	}
	if err := t.validateBuchholz(); err != nil {
		return err
	}
	if err := t.validateMatches(); err != nil {
		return err
	}
	return nil
}

func (t *Tournament) validateMatches() error {
	seen := make(map[int]bool, len(t.Matches))
	for _, m := range t.Matches {
		if seen[m.MatchID] {
			return fmt.Errorf("%w: duplicate match id %d", ErrConsistency, m.MatchID)
		}
		seen[m.MatchID] = true
		if m.AffID == m.NegID {
			return fmt.Errorf("%w: match %d pairs team %d against itself",
				ErrConsistency, m.MatchID, m.AffID)
		}
		if t.team(m.AffID) == nil {
			return fmt.Errorf("%w: match %d references unknown team %d",
				ErrConsistency, m.MatchID, m.AffID)
		}
		if !m.IsBye() && t.team(m.NegID) == nil {
			return fmt.Errorf("%w: match %d references unknown team %d",
				ErrConsistency, m.MatchID, m.NegID)
		}
	}
	return nil
}

func (t *Tournament) validatePairingLog() error {
	lines, err := ParsePairingLog(t.PairingText)
	if err != nil {
		return fmt.Errorf("%w: pairing log unparseable: %v", ErrConsistency, err)
	}
	if len(lines) != len(t.Matches) {
		return fmt.Errorf("%w: pairing log has %d lines for %d matches",
			ErrConsistency, len(lines), len(t.Matches))
	}
	for i, pl := range lines {
		m := t.Matches[i]
		if pl.Round != m.RoundNum || pl.MatchID != m.MatchID ||
			pl.AffID != m.AffID || pl.NegID != m.NegID {
			return fmt.Errorf("%w: pairing log line %d (%d %d %d %d) disagrees with match %d",
				ErrConsistency, i+1, pl.Round, pl.MatchID, pl.AffID, pl.NegID, m.MatchID)
		}
	}
	return nil
}

func (t *Tournament) validateResultLog() error {
	lines, err := ParseResultLog(t.ResultText)
	if err != nil {
		return fmt.Errorf("%w: result log unparseable: %v", ErrConsistency, err)
	}

	reported := 0
	for _, m := range t.Matches {
		if m.Result != SideNone {
			reported++
		}
	}
	if len(lines) != reported {
		return fmt.Errorf("%w: result log has %d lines for %d reported matches",
			ErrConsistency, len(lines), reported)
	}

	seen := make(map[int]bool, len(lines))
	for _, rl := range lines {
		if seen[rl.MatchID] {
			return fmt.Errorf("%w: result log repeats match %d", ErrConsistency, rl.MatchID)
		}
		seen[rl.MatchID] = true

		m := t.MatchByID(rl.MatchID)
		if m == nil {
			return fmt.Errorf("%w: result log names unknown match %d",
				ErrConsistency, rl.MatchID)
		}
		if rl.Round != m.RoundNum || rl.AffID != m.AffID || rl.NegID != m.NegID {
			return fmt.Errorf("%w: result log pairing fields disagree with match %d",
				ErrConsistency, m.MatchID)
		}
		if rl.Outcome != m.Result {
			return fmt.Errorf("%w: result log outcome %v disagrees with match %d (%v)",
				ErrConsistency, rl.Outcome, m.MatchID, m.Result)
		}
		if rl.JudgeID != m.JudgeID {
			return fmt.Errorf("%w: result log judge %d disagrees with match %d (%d)",
				ErrConsistency, rl.JudgeID, m.MatchID, m.JudgeID)
		}
		if !speakerPointsEqual(rl.Points, m.Points) {
			return fmt.Errorf("%w: result log speaker points disagree with match %d",
				ErrConsistency, m.MatchID)
		}
	}
	return nil
}

func speakerPointsEqual(a, b *SpeakerPoints) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	for i := range a {
		av, bv := a[i], b[i]
		if (av == nil) != (bv == nil) {
			return false
		}
		if av != nil && *av != *bv {
			return false
		}
	}
	return true
}

func (t *Tournament) validateJudges() error {
	for _, j := range t.Judges {
		var want []int
		for _, m := range t.Matches {
			if m.JudgeID == j.ID {
				want = append(want, m.MatchID)
			}
		}
		sort.Ints(want)
		got := append([]int(nil), j.MatchesJudged...)
		sort.Ints(got)
		if len(want) != len(got) {
			return fmt.Errorf("%w: judge %q records %d matches but %d reference them",
				ErrConsistency, j.Name, len(got), len(want))
		}
		for i := range want {
			if want[i] != got[i] {
				return fmt.Errorf("%w: judge %q match list disagrees with match records",
					ErrConsistency, j.Name)
			}
		}
	}
	for _, m := range t.Matches {
		if m.JudgeID != -1 && t.JudgeByID(m.JudgeID) == nil {
			return fmt.Errorf("%w: match %d references unknown judge %d",
				ErrConsistency, m.MatchID, m.JudgeID)
		}
	}
	return nil
}

func (t *Tournament) validateBuchholz() error {
	byID := make(map[int]*Team, len(t.Teams))
	for _, tm := range t.Teams {
		byID[tm.ID] = tm
	}
	for _, tm := range t.Teams {
		want := 0.0
		for _, oppID := range tm.Opponents {
			if oppID == ByeOpponentID {
				continue
			}
			if opp, ok := byID[oppID]; ok {
				want += opp.Score
			}
		}
		if tm.Buchholz != want {
			return fmt.Errorf("%w: team %d buchholz %v, recomputed %v",
				ErrConsistency, tm.ID, tm.Buchholz, want)
		}
	}
	return nil
}
