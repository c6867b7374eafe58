/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tab

import (
	"fmt"
	"math/rand"
	"sort"
	"time"
)

// Config holds the fixed shape of a tournament.
type Config struct {
	NumTeams        int       `json:"num_teams"`
	NumPrelimRounds int       `json:"num_prelim_rounds"`
	NumElimRounds   int       `json:"num_elim_rounds"`
	NumRounds       int       `json:"num_rounds"`
	Date            time.Time `json:"date,omitempty"`
}

// TeamDetail is the registration-time description of one team.
type TeamDetail struct {
	Name        string
	Institution string
	Members     [2]string
	Registered  time.Time
}

// Tournament is the top-level aggregate: the roster, the judge registry,
// the ordered match log, and the two textual projections kept alongside
// the structured records.
type Tournament struct {
	Config       Config      `json:"config"`
	CurrentRound int         `json:"current_round"`
	Matches      []*Match    `json:"matches"`
	NextMatchID  int         `json:"next_match_id"`
	NextJudgeID  int         `json:"next_judge_id"`
	Teams        []*Team     `json:"teams"`
	Judges       []*Judge    `json:"judges"`
	BreakSeeds   map[int]int `json:"break_seeds,omitempty"`

	PairingText string `json:"pairing_text"`
	ResultText  string `json:"result_text"`

	rng Rand
}

// New creates a tournament from a config and optional per-team details.
// Missing details are filled with "Team N" placeholders. A nil rng selects
// a time-seeded platform source; tests and simulations pass their own.
func New(cfg Config, details []TeamDetail, rng Rand) (*Tournament, error) {
	if cfg.NumTeams < 2 {
		return nil, fmt.Errorf("%w: at least 2 teams required, got %d",
			ErrConfig, cfg.NumTeams)
	}
	if cfg.NumPrelimRounds < 1 {
		return nil, fmt.Errorf("%w: at least 1 preliminary round required",
			ErrConfig)
	}
	if cfg.NumElimRounds < 0 {
		return nil, fmt.Errorf("%w: negative elimination round count", ErrConfig)
	}
	if cfg.NumElimRounds > 0 && cfg.NumTeams < 1<<cfg.NumElimRounds {
		return nil, fmt.Errorf("%w: %d teams cannot break to %d",
			ErrConfig, cfg.NumTeams, 1<<cfg.NumElimRounds)
	}
	cfg.NumRounds = cfg.NumPrelimRounds + cfg.NumElimRounds

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	t := &Tournament{
		Config:      cfg,
		NextMatchID: 1,
		NextJudgeID: 1,
		BreakSeeds:  make(map[int]int),
		PairingText: pairingLogHeader,
		ResultText:  resultLogHeader,
		rng:         rng,
	}
	for i := 0; i < cfg.NumTeams; i++ {
		tm := NewTeam(i, fmt.Sprintf("Team %d", i+1))
		if i < len(details) {
			d := details[i]
			if d.Name != "" {
				tm.Name = d.Name
			}
			tm.Institution = d.Institution
			tm.Members[0] = Member{Name: d.Members[0], Slot: 0}
			tm.Members[1] = Member{Name: d.Members[1], Slot: 1}
		}
		t.Teams = append(t.Teams, tm)
	}

	return t, nil
}

// SetRand replaces the pairing randomness source. The generator is not
// persisted; Import installs a fresh time-seeded source itself.
func (t *Tournament) SetRand(rng Rand) {
	t.rng = rng
}

func (t *Tournament) team(id int) *Team {
	if id < 0 || id >= len(t.Teams) {
		return nil
	}
	return t.Teams[id]
}

// TeamByID resolves a team id, or nil when out of range.
func (t *Tournament) TeamByID(id int) *Team {
	return t.team(id)
}

// lastPairedRound returns the highest round number any match belongs to.
func (t *Tournament) lastPairedRound() int {
	last := 0
	for _, m := range t.Matches {
		if m.RoundNum > last {
			last = m.RoundNum
		}
	}
	return last
}

// roundFullyReported reports whether round r is paired and every one of its
// matches has a result.
func (t *Tournament) roundFullyReported(r int) bool {
	found := false
	for _, m := range t.Matches {
		if m.RoundNum != r {
			continue
		}
		found = true
		if m.Result == SideNone {
			return false
		}
	}
	return found
}

// RoundMatches returns the matches of round r in creation order.
func (t *Tournament) RoundMatches(r int) []*Match {
	var out []*Match
	for _, m := range t.Matches {
		if m.RoundNum == r {
			out = append(out, m)
		}
	}
	return out
}

// MatchByID resolves a match id, or nil when unknown.
func (t *Tournament) MatchByID(id int) *Match {
	for _, m := range t.Matches {
		if m.MatchID == id {
			return m
		}
	}
	return nil
}

// PairRound generates the pairings for round r. Rounds must be paired in
// sequence; pairing round r > 2 additionally requires every earlier round
// fully reported. Round 2 may be paired before round 1's results arrive —
// the first two rounds draw randomly, so nothing depends on the outcome and
// venues often want both rounds scheduled at once.
func (t *Tournament) PairRound(r int) ([]*Match, error) {
	expected := t.lastPairedRound() + 1
	if r != expected {
		return nil, fmt.Errorf("%w: expected to pair round %d, got %d",
			ErrValidation, expected, r)
	}
	if r > t.Config.NumRounds {
		return nil, fmt.Errorf("%w: round %d exceeds configured %d rounds",
			ErrValidation, r, t.Config.NumRounds)
	}
	if r > 2 {
		for prior := 1; prior < r; prior++ {
			if !t.roundFullyReported(prior) {
				return nil, fmt.Errorf(
					"%w: cannot pair round %d until all results from round %d are reported",
					ErrValidation, r, prior)
			}
		}
	}

	t.RecomputeStats()

	var created []*Match
	var err error
	if r > t.Config.NumPrelimRounds {
		created, err = t.pairElimRound(r)
	} else {
		created, err = t.pairSwissRound(r)
	}
	if err != nil {
		return nil, err
	}

	t.Matches = append(t.Matches, created...)
	for _, m := range created {
		t.PairingText += formatPairingLine(m)
		if m.Result != SideNone {
			t.ResultText += formatResultLine(m)
		}
	}

	t.RecomputeStats()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return created, nil
}

func (t *Tournament) pairSwissRound(r int) ([]*Match, error) {
	pairs, bye := PairRound(t.Teams, r, true, t.rng)

	var created []*Match
	for _, p := range pairs {
		created = append(created, t.newMatch(r, p.Aff, p.Neg))
	}
	if bye != nil {
		m := &Match{
			MatchID:  t.NextMatchID,
			RoundNum: r,
			AffID:    bye.ID,
			NegID:    ByeOpponentID,
			AffName:  bye.Name,
			NegName:  "BYE",
			Result:   SideAff,
			JudgeID:  -1,
		}
		t.NextMatchID++
		created = append(created, m)
	}
	return created, nil
}

func (t *Tournament) pairElimRound(r int) ([]*Match, error) {
	k := r - t.Config.NumPrelimRounds
	breakSize := 1 << t.Config.NumElimRounds

	if k == 1 {
		if t.Config.NumTeams < breakSize {
			return nil, fmt.Errorf("%w: %d teams cannot break to %d",
				ErrConfig, t.Config.NumTeams, breakSize)
		}
		standings := t.PreliminaryStandings()
		bracket := BreakBracket(breakSize)

		t.BreakSeeds = make(map[int]int)
		for seed := 1; seed <= breakSize; seed++ {
			tm := standings[seed-1].Team
			tm.BreakSeed = seed
			t.BreakSeeds[tm.ID] = seed
		}

		var created []*Match
		for _, pr := range bracket {
			hi := standings[pr[0]-1].Team
			lo := standings[pr[1]-1].Team
			aff, neg := determineSides(hi, lo, false, t.rng)
			created = append(created, t.newMatch(r, aff, neg))
		}
		return created, nil
	}

	prior := t.RoundMatches(r - 1)
	var winners []*Team
	for _, m := range prior {
		if m.Result == SideNone {
			return nil, fmt.Errorf(
				"%w: cannot pair round %d until all results from round %d are reported",
				ErrValidation, r, r-1)
		}
		w := t.team(m.WinnerID())
		if w == nil {
			return nil, fmt.Errorf("%w: match %d has no resolvable winner",
				ErrConsistency, m.MatchID)
		}
		winners = append(winners, w)
	}
	if len(winners) < 2 || len(winners)%2 != 0 {
		return nil, fmt.Errorf("%w: round %d produced %d winners; bracket exhausted",
			ErrValidation, r-1, len(winners))
	}

	// The prior round's creation order already encodes the bracket path, so
	// adjacent winners meet without re-sorting.
	var created []*Match
	for i := 0; i+1 < len(winners); i += 2 {
		aff, neg := determineSides(winners[i], winners[i+1], false, t.rng)
		created = append(created, t.newMatch(r, aff, neg))
	}
	return created, nil
}

func (t *Tournament) newMatch(r int, aff, neg *Team) *Match {
	m := &Match{
		MatchID:  t.NextMatchID,
		RoundNum: r,
		AffID:    aff.ID,
		NegID:    neg.ID,
		AffName:  aff.Name,
		NegName:  neg.Name,
		Result:   SideNone,
		JudgeID:  -1,
	}
	t.NextMatchID++
	return m
}

// ReportResult records a first-time outcome for a match. Use UpdateResult
// to overwrite or clear an existing result.
func (t *Tournament) ReportResult(matchID int, outcome Side, pts *SpeakerPoints) error {
	m := t.MatchByID(matchID)
	if m == nil {
		return fmt.Errorf("%w: unknown match id %d", ErrValidation, matchID)
	}
	if outcome != SideAff && outcome != SideNeg {
		return fmt.Errorf("%w: outcome must be Aff or Neg", ErrValidation)
	}
	if m.Result != SideNone {
		return fmt.Errorf("%w: match %d already has a result; use update to overwrite",
			ErrValidation, matchID)
	}
	if err := pts.Validate(); err != nil {
		return err
	}

	m.Result = outcome
	m.Points = pts
	t.ResultText += formatResultLine(m)

	t.RecomputeStats()
	return t.Validate()
}

// UpdateResult corrects or clears a match's outcome and speaker points.
// SideNone clears. The old result-log line is commented out for audit and
// a fresh line appended when the new outcome is decided.
func (t *Tournament) UpdateResult(matchID int, outcome Side, pts *SpeakerPoints) error {
	m := t.MatchByID(matchID)
	if m == nil {
		return fmt.Errorf("%w: unknown match id %d", ErrValidation, matchID)
	}
	if err := pts.Validate(); err != nil {
		return err
	}

	m.Result = outcome
	m.Points = pts
	t.rewriteResultLine(m)

	t.RecomputeStats()
	return t.Validate()
}

// Standings returns all teams ordered by (score, buchholz, wins) with id as
// the final deterministic tiebreak.
func (t *Tournament) Standings() []*Team {
	out := append([]*Team(nil), t.Teams...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Buchholz != b.Buchholz {
			return a.Buchholz > b.Buchholz
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.ID < b.ID
	})
	return out
}

// PrelimStanding is one row of the preliminary-phase ranking; Score,
// Buchholz and Wins are computed over preliminary rounds only, and the
// Buchholz here sums opponents' preliminary wins.
type PrelimStanding struct {
	Team     *Team
	Score    float64
	Buchholz float64
	Wins     int
}

// PreliminaryStandings ranks teams by their preliminary-round record, the
// ordering used to seed the break.
func (t *Tournament) PreliminaryStandings() []PrelimStanding {
	score := make(map[int]float64, len(t.Teams))
	wins := make(map[int]int, len(t.Teams))
	opps := make(map[int][]int, len(t.Teams))

	for _, m := range t.Matches {
		if m.RoundNum > t.Config.NumPrelimRounds {
			continue
		}
		if m.IsBye() {
			if m.Result != SideNone {
				score[m.AffID] += 1.0
				wins[m.AffID]++
			}
			continue
		}
		opps[m.AffID] = append(opps[m.AffID], m.NegID)
		opps[m.NegID] = append(opps[m.NegID], m.AffID)
		if w := m.WinnerID(); w != -1 {
			score[w] += 1.0
			wins[w]++
		}
	}

	out := make([]PrelimStanding, 0, len(t.Teams))
	for _, tm := range t.Teams {
		buch := 0.0
		for _, oppID := range opps[tm.ID] {
			buch += float64(wins[oppID])
		}
		out = append(out, PrelimStanding{
			Team:     tm,
			Score:    score[tm.ID],
			Buchholz: buch,
			Wins:     wins[tm.ID],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Buchholz != b.Buchholz {
			return a.Buchholz > b.Buchholz
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.Team.ID < b.Team.ID
	})
	return out
}
