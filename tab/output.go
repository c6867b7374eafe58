/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tab

import (
	"fmt"
	"strings"
)

// BuildPairingsOutput formats the matches of one round as an aligned table.
func BuildPairingsOutput(t *Tournament, round int) string {
	matches := t.RoundMatches(round)
	var sb strings.Builder

	if len(matches) == 0 {
		sb.WriteString(fmt.Sprintf("No pairings generated for round %d\n", round))
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("Round %d Pairings:\n\n", round))

	type row struct{ match, aff, neg, judge string }
	var rows []row
	for _, m := range matches {
		r := row{
			match: fmt.Sprintf("%d.", m.MatchID),
			aff:   m.AffName,
			neg:   m.NegName,
			judge: "-",
		}
		if m.IsBye() {
			r.neg = "BYE"
		}
		if j := t.JudgeByID(m.JudgeID); j != nil {
			r.judge = j.Name
		}
		rows = append(rows, r)
	}

	// Compute column widths
	maxM, maxA, maxN, maxJ := len("Match"), len("Aff"), len("Neg"), len("Judge")
	for _, r := range rows {
		if l := len(r.match); l > maxM {
			maxM = l
		}
		if l := len(r.aff); l > maxA {
			maxA = l
		}
		if l := len(r.neg); l > maxN {
			maxN = l
		}
		if l := len(r.judge); l > maxJ {
			maxJ = l
		}
	}

	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s\n", maxM, "Match",
		maxA, "Aff", maxN, "Neg", maxJ, "Judge"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s\n", maxM, r.match,
			maxA, r.aff, maxN, r.neg, maxJ, r.judge))
	}
	sb.WriteString("\n")

	return sb.String()
}

// BuildStandingsOutput formats the full standings as an aligned table,
// leaving the place blank on ties like a wallchart would.
func BuildStandingsOutput(t *Tournament) string {
	standings := t.Standings()
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Standings after Round %d:\n\n", t.CurrentRound))

	type row struct{ place, name, wins, score, buchholz string }
	var rows []row
	priorScore, priorBuch := -1.0, -1.0
	for idx, tm := range standings {
		var place string
		if idx != 0 && tm.Score == priorScore && tm.Buchholz == priorBuch {
			place = ""
		} else {
			place = fmt.Sprintf("%d.", idx+1)
			priorScore, priorBuch = tm.Score, tm.Buchholz
		}
		rows = append(rows, row{
			place:    place,
			name:     tm.Name,
			wins:     fmt.Sprintf("%d", tm.Wins),
			score:    fmt.Sprintf("%.1f", tm.Score),
			buchholz: fmt.Sprintf("%.1f", tm.Buchholz),
		})
	}

	maxP, maxN := len("Place"), len("Name")
	maxW, maxS, maxB := len("Wins"), len("Score"), len("Buchholz")
	for _, r := range rows {
		if l := len(r.place); l > maxP {
			maxP = l
		}
		if l := len(r.name); l > maxN {
			maxN = l
		}
	}

	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s\n", maxP, "Place",
		maxN, "Name", maxW, "Wins", maxS, "Score", maxB, "Buchholz"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s\n", maxP,
			r.place, maxN, r.name, maxW, r.wins, maxS, r.score, maxB, r.buchholz))
	}
	sb.WriteString("\n")

	return sb.String()
}

// BuildParticipantsOutput formats the individual speaker ranking.
func BuildParticipantsOutput(t *Tournament, method ParticipantMethod) string {
	standings := t.ParticipantStandings(method)
	var sb strings.Builder

	if len(standings) == 0 {
		sb.WriteString("No speaker points recorded yet\n")
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("Speaker Standings (%v):\n\n", method))

	type row struct{ place, name, team, adjusted, total string }
	var rows []row
	for idx, ps := range standings {
		rows = append(rows, row{
			place:    fmt.Sprintf("%d.", idx+1),
			name:     ps.Name,
			team:     ps.TeamName,
			adjusted: fmt.Sprintf("%.1f", ps.Adjusted),
			total:    fmt.Sprintf("%.1f", ps.Total),
		})
	}

	maxP, maxN, maxT := len("Place"), len("Speaker"), len("Team")
	maxA, maxTot := len("Adjusted"), len("Total")
	for _, r := range rows {
		if l := len(r.place); l > maxP {
			maxP = l
		}
		if l := len(r.name); l > maxN {
			maxN = l
		}
		if l := len(r.team); l > maxT {
			maxT = l
		}
	}

	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s\n", maxP, "Place",
		maxN, "Speaker", maxT, "Team", maxA, "Adjusted", maxTot, "Total"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s\n", maxP,
			r.place, maxN, r.name, maxT, r.team, maxA, r.adjusted, maxTot, r.total))
	}
	sb.WriteString("\n")

	return sb.String()
}
