/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tab

import (
	"fmt"
	"strconv"
	"strings"
)

// The tournament keeps two plain-text projections of the match log next to
// the structured records: a pairing log and a result log. They exist so a
// tournament can always be reconstructed (or audited by hand) from flat
// files, and the consistency check compares them field-by-field against the
// records at every persistence point.

const (
	pairingLogHeader = "# Format: Round MatchID AffID NegID\n"
	resultLogHeader  = "# Format: Round MatchID AffID NegID Outcome JudgeID [Aff1 Aff2 Neg1 Neg2]\n"
)

func formatPairingLine(m *Match) string {
	return fmt.Sprintf("%d %d %d %d\n", m.RoundNum, m.MatchID, m.AffID, m.NegID)
}

func formatResultLine(m *Match) string {
	line := fmt.Sprintf("%d %d %d %d %s %d",
		m.RoundNum, m.MatchID, m.AffID, m.NegID, m.Result.Token(), m.JudgeID)
	if m.Points != nil {
		for _, v := range m.Points {
			if v == nil {
				line += " null"
			} else {
				line += " " + strconv.FormatFloat(*v, 'f', 1, 64)
			}
		}
	}
	return line + "\n"
}

// rewriteResultLine comments out every active result-log line for the match
// (preserving it for audit) and appends a fresh line when the match still
// has a decided outcome.
func (t *Tournament) rewriteResultLine(m *Match) {
	lines := strings.Split(t.ResultText, "\n")
	var sb strings.Builder
	for i, line := range lines {
		if i == len(lines)-1 && line == "" {
			break
		}
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			fields := strings.Fields(trimmed)
			if len(fields) >= 2 {
				if id, err := strconv.Atoi(fields[1]); err == nil && id == m.MatchID {
					sb.WriteString("# " + line + "  # Updated\n")
					continue
				}
			}
		}
		sb.WriteString(line + "\n")
	}
	if m.Result != SideNone {
		sb.WriteString(formatResultLine(m))
	}
	t.ResultText = sb.String()
}

// PairingLine is one parsed pairing-log record.
type PairingLine struct {
	Round   int
	MatchID int
	AffID   int
	NegID   int
}

// ResultLine is one parsed result-log record. JudgeID -1 means unassigned;
// Points is nil when the line carried no speaker-point tokens.
type ResultLine struct {
	Round   int
	MatchID int
	AffID   int
	NegID   int
	Outcome Side
	JudgeID int
	Points  *SpeakerPoints
}

// activeLines strips comments and blanks, returning the data lines in order.
func activeLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// ParsePairingLog parses a pairing log. Parsing is total over well-formed
// input: any malformed line is an error, never skipped.
func ParsePairingLog(text string) ([]PairingLine, error) {
	var out []PairingLine
	for _, line := range activeLines(text) {
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, fmt.Errorf("%w: pairing line %q: want 4 fields, got %d",
				ErrValidation, line, len(fields))
		}
		vals := make([]int, 4)
		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("%w: pairing line %q: bad field %q",
					ErrValidation, line, f)
			}
			vals[i] = v
		}
		out = append(out, PairingLine{
			Round: vals[0], MatchID: vals[1], AffID: vals[2], NegID: vals[3],
		})
	}
	return out, nil
}

// ParseResultLog parses a result log.
func ParseResultLog(text string) ([]ResultLine, error) {
	var out []ResultLine
	for _, line := range activeLines(text) {
		fields := strings.Fields(line)
		if len(fields) != 6 && len(fields) != 10 {
			return nil, fmt.Errorf("%w: result line %q: want 6 or 10 fields, got %d",
				ErrValidation, line, len(fields))
		}
		ints := make([]int, 4)
		for i := 0; i < 4; i++ {
			v, err := strconv.Atoi(fields[i])
			if err != nil {
				return nil, fmt.Errorf("%w: result line %q: bad field %q",
					ErrValidation, line, fields[i])
			}
			ints[i] = v
		}
		outcome, ok := SideFromToken(fields[4])
		if !ok {
			return nil, fmt.Errorf("%w: result line %q: bad outcome token %q",
				ErrValidation, line, fields[4])
		}
		judgeID, err := strconv.Atoi(fields[5])
		if err != nil {
			return nil, fmt.Errorf("%w: result line %q: bad judge id %q",
				ErrValidation, line, fields[5])
		}

		rl := ResultLine{
			Round: ints[0], MatchID: ints[1], AffID: ints[2], NegID: ints[3],
			Outcome: outcome, JudgeID: judgeID,
		}
		if len(fields) == 10 {
			var pts SpeakerPoints
			for i := 0; i < 4; i++ {
				tok := fields[6+i]
				if tok == "null" {
					continue
				}
				v, err := strconv.ParseFloat(tok, 64)
				if err != nil {
					return nil, fmt.Errorf("%w: result line %q: bad speaker point %q",
						ErrValidation, line, tok)
				}
				pts[i] = &v
			}
			rl.Points = &pts
		}
		out = append(out, rl)
	}
	return out, nil
}

// ExportPairingLog returns the canonical pairing projection.
func (t *Tournament) ExportPairingLog() string {
	return t.PairingText
}

// ExportResultLog returns the canonical result projection.
func (t *Tournament) ExportResultLog() string {
	return t.ResultText
}

// ImportPairings rebuilds the match log from a pairing-log text. Used by
// reinit: the tournament must be freshly created with a matching config and
// no matches paired yet.
func (t *Tournament) ImportPairings(text string) error {
	if len(t.Matches) != 0 {
		return fmt.Errorf("%w: cannot import pairings into a tournament with existing matches",
			ErrValidation)
	}
	lines, err := ParsePairingLog(text)
	if err != nil {
		return err
	}

	seen := make(map[int]bool)
	for _, pl := range lines {
		if pl.Round < 1 || pl.Round > t.Config.NumRounds {
			return fmt.Errorf("%w: pairing for match %d names round %d outside 1..%d",
				ErrValidation, pl.MatchID, pl.Round, t.Config.NumRounds)
		}
		if seen[pl.MatchID] {
			return fmt.Errorf("%w: duplicate match id %d", ErrValidation, pl.MatchID)
		}
		seen[pl.MatchID] = true

		aff := t.team(pl.AffID)
		if aff == nil {
			return fmt.Errorf("%w: pairing for match %d names unknown team %d",
				ErrValidation, pl.MatchID, pl.AffID)
		}
		m := &Match{
			MatchID:  pl.MatchID,
			RoundNum: pl.Round,
			AffID:    pl.AffID,
			NegID:    pl.NegID,
			AffName:  aff.Name,
			Result:   SideNone,
			JudgeID:  -1,
		}
		if pl.NegID == ByeOpponentID {
			m.NegName = "BYE"
			m.Result = SideAff
		} else {
			neg := t.team(pl.NegID)
			if neg == nil {
				return fmt.Errorf("%w: pairing for match %d names unknown team %d",
					ErrValidation, pl.MatchID, pl.NegID)
			}
			m.NegName = neg.Name
		}
		t.Matches = append(t.Matches, m)
		t.PairingText += formatPairingLine(m)
		if m.Result != SideNone {
			t.ResultText += formatResultLine(m)
		}
		if pl.MatchID >= t.NextMatchID {
			t.NextMatchID = pl.MatchID + 1
		}
	}

	t.RecomputeStats()
	return t.Validate()
}

// ImportResults applies a result-log text to already-paired matches.
// Re-importing a line identical to the recorded state is accepted (so a
// previously exported log can be replayed); a line that conflicts with an
// existing result is rejected.
func (t *Tournament) ImportResults(text string) (int, error) {
	lines, err := ParseResultLog(text)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, rl := range lines {
		m := t.MatchByID(rl.MatchID)
		if m == nil {
			return applied, fmt.Errorf("%w: unknown match id %d", ErrValidation, rl.MatchID)
		}
		if m.RoundNum != rl.Round || m.AffID != rl.AffID || m.NegID != rl.NegID {
			return applied, fmt.Errorf(
				"%w: result for match %d does not match its pairing (round %d, %d vs %d)",
				ErrValidation, rl.MatchID, m.RoundNum, m.AffID, m.NegID)
		}
		if m.Result != SideNone {
			if m.Result == rl.Outcome && m.JudgeID == rl.JudgeID &&
				speakerPointsEqual(m.Points, rl.Points) {
				applied++
				continue
			}
			return applied, fmt.Errorf(
				"%w: match %d already has a conflicting result; use update to overwrite",
				ErrValidation, rl.MatchID)
		}
		if err := rl.Points.Validate(); err != nil {
			return applied, err
		}

		if rl.JudgeID != -1 {
			if err := t.AssignJudge(m.MatchID, rl.JudgeID); err != nil {
				return applied, err
			}
		}
		m.Result = rl.Outcome
		m.Points = rl.Points
		t.ResultText += formatResultLine(m)
		applied++
	}

	t.RecomputeStats()
	return applied, t.Validate()
}
