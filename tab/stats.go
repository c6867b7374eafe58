/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tab

import "sort"

// ApplyPairing records a completed pairing on both teams: side counts,
// opponent lists, last side, and per-opponent side history. This is the
// canonical mutation; the full rebuild and the simulator both commit
// through it so the two always agree on team state.
func ApplyPairing(aff, neg *Team) {
	aff.AffCount++
	neg.NegCount++
	aff.Opponents = append(aff.Opponents, neg.ID)
	neg.Opponents = append(neg.Opponents, aff.ID)
	aff.LastSide = SideAff
	neg.LastSide = SideNeg
	aff.SideHistory[neg.ID] = append(aff.SideHistory[neg.ID], SideAff)
	neg.SideHistory[aff.ID] = append(neg.SideHistory[aff.ID], SideNeg)
}

// ApplyResult records a decided outcome on both teams.
func ApplyResult(aff, neg *Team, affWon bool) {
	if affWon {
		aff.Score += 1.0
		aff.Wins++
		aff.History = append(aff.History, "W")
		neg.History = append(neg.History, "L")
	} else {
		neg.Score += 1.0
		neg.Wins++
		neg.History = append(neg.History, "W")
		aff.History = append(aff.History, "L")
	}
}

// RecomputeStats rebuilds every derived team field from the ordered match
// log. This full replay is the single source of truth: result reports,
// corrections, and clears all funnel through it rather than patching stats
// incrementally, so no mutation order can leave the stats drifted.
func (t *Tournament) RecomputeStats() {
	for _, tm := range t.Teams {
		tm.resetStats()
	}

	matches := append([]*Match(nil), t.Matches...)
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].RoundNum != matches[j].RoundNum {
			return matches[i].RoundNum < matches[j].RoundNum
		}
		return matches[i].MatchID < matches[j].MatchID
	})

	for _, m := range matches {
		if m.IsBye() {
			aff := t.team(m.AffID)
			if aff == nil {
				continue
			}
			aff.Opponents = append(aff.Opponents, ByeOpponentID)
			if m.Result != SideNone {
				aff.Score += 1.0
				aff.Wins++
			}
			continue
		}

		aff, neg := t.team(m.AffID), t.team(m.NegID)
		if aff == nil || neg == nil {
			continue
		}
		ApplyPairing(aff, neg)
		if m.Result != SideNone {
			ApplyResult(aff, neg, m.Result == SideAff)
		}

		if m.Points != nil {
			setRoundSpeakerPoints(aff, m.RoundNum, m.Points[0], m.Points[1])
			setRoundSpeakerPoints(neg, m.RoundNum, m.Points[2], m.Points[3])
		}
	}

	UpdateBuchholz(t.Teams)
	t.CurrentRound = t.completedRoundPrefix()
	t.assignBreakSeeds()
}

// setRoundSpeakerPoints rewrites the team's entry for the round, so a
// corrected report replaces history rather than duplicating it.
func setRoundSpeakerPoints(tm *Team, round int, first, second *float64) {
	for i := range tm.SpeakerHistory {
		if tm.SpeakerHistory[i].Round == round {
			tm.SpeakerHistory[i].Points = [2]*float64{first, second}
			return
		}
	}
	tm.SpeakerHistory = append(tm.SpeakerHistory, RoundSpeakerPoints{
		Round:  round,
		Points: [2]*float64{first, second},
	})
}

// completedRoundPrefix returns the largest round R such that every paired
// round 1..R is fully reported, or 0 when round 1 is incomplete.
func (t *Tournament) completedRoundPrefix() int {
	prefix := 0
	for r := 1; r <= t.Config.NumRounds; r++ {
		found := false
		complete := true
		for _, m := range t.Matches {
			if m.RoundNum != r {
				continue
			}
			found = true
			if m.Result == SideNone {
				complete = false
				break
			}
		}
		if !found || !complete {
			break
		}
		prefix = r
	}
	return prefix
}

// assignBreakSeeds restores each breaking team's seed position. Seeds are
// decided once, when the break is paired, and survive stat rebuilds.
func (t *Tournament) assignBreakSeeds() {
	for id, seed := range t.BreakSeeds {
		if tm := t.team(id); tm != nil {
			tm.BreakSeed = seed
		}
	}
}
