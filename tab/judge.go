/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tab

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultJudgeInstitution is assigned when a judge registers without one.
const DefaultJudgeInstitution = "Tournament Hire"

// Judge is a registered adjudicator. MatchesJudged mirrors the JudgeID
// field on matches; the two are kept coherent by Assign/Unassign and
// checked by Validate.
type Judge struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Institution   string `json:"institution"`
	MatchesJudged []int  `json:"matches_judged"`
}

// JudgeByID resolves a judge id, or nil when unknown.
func (t *Tournament) JudgeByID(id int) *Judge {
	for _, j := range t.Judges {
		if j.ID == id {
			return j
		}
	}
	return nil
}

// JudgeByName resolves a judge by exact case-insensitive name.
func (t *Tournament) JudgeByName(name string) *Judge {
	for _, j := range t.Judges {
		if strings.EqualFold(j.Name, name) {
			return j
		}
	}
	return nil
}

// AddJudge registers a judge. Names are unique case-insensitively; an empty
// institution defaults to DefaultJudgeInstitution.
func (t *Tournament) AddJudge(name, institution string) (*Judge, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: judge name required", ErrValidation)
	}
	if t.JudgeByName(name) != nil {
		return nil, fmt.Errorf("%w: judge %q already registered", ErrValidation, name)
	}
	if institution == "" {
		institution = DefaultJudgeInstitution
	}

	j := &Judge{
		ID:          t.NextJudgeID,
		Name:        name,
		Institution: institution,
	}
	t.NextJudgeID++
	t.Judges = append(t.Judges, j)
	return j, nil
}

// RemoveJudge deregisters a judge; refused while any match still references
// them.
func (t *Tournament) RemoveJudge(id int) error {
	j := t.JudgeByID(id)
	if j == nil {
		return fmt.Errorf("%w: unknown judge id %d", ErrValidation, id)
	}
	if len(j.MatchesJudged) > 0 {
		return fmt.Errorf("%w: judge %q is still assigned to %d match(es)",
			ErrValidation, j.Name, len(j.MatchesJudged))
	}
	for i, cand := range t.Judges {
		if cand.ID == id {
			t.Judges = append(t.Judges[:i], t.Judges[i+1:]...)
			break
		}
	}
	return nil
}

// AssignJudge puts a judge on a match, replacing any prior assignment and
// cleaning up both sides of the relation.
func (t *Tournament) AssignJudge(matchID, judgeID int) error {
	m := t.MatchByID(matchID)
	if m == nil {
		return fmt.Errorf("%w: unknown match id %d", ErrValidation, matchID)
	}
	j := t.JudgeByID(judgeID)
	if j == nil {
		return fmt.Errorf("%w: unknown judge id %d", ErrValidation, judgeID)
	}
	if m.JudgeID == judgeID {
		return nil
	}

	if prior := t.JudgeByID(m.JudgeID); prior != nil {
		prior.MatchesJudged = removeID(prior.MatchesJudged, matchID)
	}
	m.JudgeID = judgeID
	j.MatchesJudged = append(j.MatchesJudged, matchID)
	sort.Ints(j.MatchesJudged)

	// A reported match already has a result-log line carrying the old
	// judge; rewrite it so the projection stays truthful.
	if m.Result != SideNone {
		t.rewriteResultLine(m)
	}
	return t.Validate()
}

// UnassignJudge clears a match's judge.
func (t *Tournament) UnassignJudge(matchID int) error {
	m := t.MatchByID(matchID)
	if m == nil {
		return fmt.Errorf("%w: unknown match id %d", ErrValidation, matchID)
	}
	if m.JudgeID == -1 {
		return nil
	}
	if prior := t.JudgeByID(m.JudgeID); prior != nil {
		prior.MatchesJudged = removeID(prior.MatchesJudged, matchID)
	}
	m.JudgeID = -1
	if m.Result != SideNone {
		t.rewriteResultLine(m)
	}
	return t.Validate()
}

func removeID(ids []int, id int) []int {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
