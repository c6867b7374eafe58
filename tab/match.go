/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tab

import "fmt"

// SpeakerPoints is the per-match score 4-tuple in speaking order:
// [aff first speaker, aff second, neg first, neg second]. A nil entry means
// the score was not recorded. Non-nil values must fall in [0, 30].
type SpeakerPoints [4]*float64

// Validate checks every recorded value against the allowed range.
func (sp *SpeakerPoints) Validate() error {
	if sp == nil {
		return nil
	}
	for i, v := range sp {
		if v == nil {
			continue
		}
		if *v < 0 || *v > MaxSpeakerPoints {
			return fmt.Errorf("%w: speaker point %.1f (position %d) outside [0, %v]",
				ErrValidation, *v, i, MaxSpeakerPoints)
		}
	}
	return nil
}

const MaxSpeakerPoints = 30.0

// ByeOpponentID is the sentinel used for the missing side of a bye pairing,
// both in match records and in team opponent lists.
const ByeOpponentID = -1

// Match is a pairing decision plus its outcome. AffID/NegID and the frozen
// display names never change after creation; Result, JudgeID and Points may
// be set, corrected, or cleared.
type Match struct {
	MatchID  int    `json:"match_id"`
	RoundNum int    `json:"round_num"`
	AffID    int    `json:"aff_id"`
	NegID    int    `json:"neg_id"`
	AffName  string `json:"aff_name"`
	NegName  string `json:"neg_name"`

	Result  Side           `json:"result"`
	JudgeID int            `json:"judge_id"`
	Points  *SpeakerPoints `json:"speaker_points"`
}

// IsBye reports whether this match is a bye pairing.
func (m *Match) IsBye() bool {
	return m.NegID == ByeOpponentID
}

// WinnerID returns the id of the winning team, or -1 if unreported.
func (m *Match) WinnerID() int {
	switch m.Result {
	case SideAff:
		return m.AffID
	case SideNeg:
		return m.NegID
	}
	return -1
}
