/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tab

import (
	"testing"
)

func TestAdjustedTotal(t *testing.T) {
	cases := []struct {
		name   string
		points []float64
		method ParticipantMethod
		want   float64
	}{
		{
			name:   "total sums everything",
			points: []float64{24, 27, 30, 25, 26},
			method: MethodTotal,
			want:   132,
		},
		{
			name:   "drop-1 trims one high and one low",
			points: []float64{24, 27, 30, 25, 26},
			method: MethodDrop1,
			want:   78,
		},
		{
			name:   "drop-1 below threshold sums everything",
			points: []float64{24, 27},
			method: MethodDrop1,
			want:   51,
		},
		{
			name:   "drop-2 trims two high and two low",
			points: []float64{24, 27, 30, 25, 26},
			method: MethodDrop2,
			want:   26,
		},
		{
			name:   "drop-2 below threshold sums everything",
			points: []float64{24, 27, 30, 25},
			method: MethodDrop2,
			want:   106,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := adjustedTotal(c.points, c.method); got != c.want {
				t.Errorf("%s: adjustedTotal = %v; want %v", c.name, got, c.want)
			}
		})
	}
}

func TestParticipantStandings(t *testing.T) {
	tourney := &Tournament{
		Config: Config{NumTeams: 2, NumPrelimRounds: 5, NumRounds: 6},
	}
	a := NewTeam(0, "Alpha")
	a.Members[0] = Member{Name: "Avery", Slot: 0}
	a.Members[1] = Member{Name: "Blake", Slot: 1}
	b := NewTeam(1, "Beta")
	b.Members[0] = Member{Name: "Casey", Slot: 0}
	b.Members[1] = Member{Name: "Drew", Slot: 1}
	tourney.Teams = []*Team{a, b}

	for r, pts := range [][2]float64{{24, 20}, {27, 20}, {30, 20}, {25, 20}, {26, 20}} {
		a.SpeakerHistory = append(a.SpeakerHistory, RoundSpeakerPoints{
			Round:  r + 1,
			Points: [2]*float64{f(pts[0]), f(pts[1])},
		})
	}
	// elimination-round points must not count
	a.SpeakerHistory = append(a.SpeakerHistory, RoundSpeakerPoints{
		Round:  6,
		Points: [2]*float64{f(30), f(30)},
	})
	b.SpeakerHistory = append(b.SpeakerHistory, RoundSpeakerPoints{
		Round:  1,
		Points: [2]*float64{f(29), nil},
	})

	standings := tourney.ParticipantStandings(MethodDrop1)
	if len(standings) != 3 {
		t.Fatalf("expected 3 ranked speakers, got %d", len(standings))
	}

	// Avery: total 132, drop-1 78; Casey: single round 29; Blake: 5x20 -> 60
	if standings[0].Name != "Avery" || standings[0].Adjusted != 78 ||
		standings[0].Total != 132 {
		t.Errorf("first = %+v; want Avery adjusted 78 total 132", standings[0])
	}
	if standings[1].Name != "Blake" || standings[1].Adjusted != 60 {
		t.Errorf("second = %+v; want Blake adjusted 60", standings[1])
	}
	if standings[2].Name != "Casey" || standings[2].Adjusted != 29 {
		t.Errorf("third = %+v; want Casey adjusted 29", standings[2])
	}
}

func TestSpeakerPointsValidate(t *testing.T) {
	good := SpeakerPoints{f(0), f(30), nil, f(27.5)}
	if err := good.Validate(); err != nil {
		t.Errorf("valid points rejected: %v", err)
	}
	over := SpeakerPoints{f(30.5), nil, nil, nil}
	if err := over.Validate(); err == nil {
		t.Errorf("points above 30 accepted")
	}
	under := SpeakerPoints{nil, f(-1), nil, nil}
	if err := under.Validate(); err == nil {
		t.Errorf("negative points accepted")
	}
	var nilPts *SpeakerPoints
	if err := nilPts.Validate(); err != nil {
		t.Errorf("nil points rejected: %v", err)
	}
}

func TestSpeakerHistoryRewrittenOnCorrection(t *testing.T) {
	tourney := newTestTournament(t, 4, 3, 0)
	if _, err := tourney.PairRound(1); err != nil {
		t.Fatalf("PairRound: %v", err)
	}
	m := tourney.RoundMatches(1)[0]

	pts := SpeakerPoints{f(24), f(25), f(26), f(27)}
	if err := tourney.ReportResult(m.MatchID, SideAff, &pts); err != nil {
		t.Fatalf("ReportResult: %v", err)
	}

	corrected := SpeakerPoints{f(28), f(25), f(26), f(27)}
	if err := tourney.UpdateResult(m.MatchID, SideAff, &corrected); err != nil {
		t.Fatalf("UpdateResult: %v", err)
	}

	aff := tourney.TeamByID(m.AffID)
	if len(aff.SpeakerHistory) != 1 {
		t.Fatalf("correction duplicated history: %d entries", len(aff.SpeakerHistory))
	}
	if got := aff.SpeakerHistory[0].Points[0]; got == nil || *got != 28 {
		t.Errorf("correction not reflected in history")
	}
}
