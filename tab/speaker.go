/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tab

import (
	"fmt"
	"sort"
)

// ParticipantMethod selects how per-round speaker points aggregate into an
// individual ranking.
type ParticipantMethod int

const (
	// MethodTotal sums every recorded round.
	MethodTotal ParticipantMethod = iota
	// MethodDrop1 drops the single lowest and single highest round when at
	// least 3 rounds are recorded.
	MethodDrop1
	// MethodDrop2 drops the two lowest and two highest rounds when at
	// least 5 rounds are recorded.
	MethodDrop2
)

// ParseParticipantMethod parses a method name as accepted on the command line.
func ParseParticipantMethod(s string) (ParticipantMethod, error) {
	switch s {
	case "total", "":
		return MethodTotal, nil
	case "drop-1":
		return MethodDrop1, nil
	case "drop-2":
		return MethodDrop2, nil
	}
	return MethodTotal, fmt.Errorf("%w: unknown participant method %q", ErrValidation, s)
}

func (m ParticipantMethod) String() string {
	switch m {
	case MethodDrop1:
		return "drop-1"
	case MethodDrop2:
		return "drop-2"
	}
	return "total"
}

// ParticipantStanding is one row of the individual speaker ranking.
type ParticipantStanding struct {
	Name     string
	TeamName string
	Rounds   int
	Total    float64
	Adjusted float64
}

// adjustedTotal applies the method's high/low trim to a member's per-round
// scores.
func adjustedTotal(points []float64, method ParticipantMethod) float64 {
	drop := 0
	switch method {
	case MethodDrop1:
		if len(points) >= 3 {
			drop = 1
		}
	case MethodDrop2:
		if len(points) >= 5 {
			drop = 2
		}
	}

	sorted := append([]float64(nil), points...)
	sort.Float64s(sorted)
	sorted = sorted[drop : len(sorted)-drop]

	sum := 0.0
	for _, p := range sorted {
		sum += p
	}
	return sum
}

// ParticipantStandings ranks individual members by speaker points earned in
// preliminary rounds, ordered by (adjusted, total, name).
func (t *Tournament) ParticipantStandings(method ParticipantMethod) []ParticipantStanding {
	var out []ParticipantStanding
	for _, tm := range t.Teams {
		for slot := 0; slot < 2; slot++ {
			name := tm.Members[slot].Name
			if name == "" {
				name = fmt.Sprintf("%s #%d", tm.Name, slot+1)
			}

			var points []float64
			for _, rp := range tm.SpeakerHistory {
				if rp.Round > t.Config.NumPrelimRounds {
					continue
				}
				if v := rp.Points[slot]; v != nil {
					points = append(points, *v)
				}
			}
			if len(points) == 0 {
				continue
			}

			total := 0.0
			for _, p := range points {
				total += p
			}
			out = append(out, ParticipantStanding{
				Name:     name,
				TeamName: tm.Name,
				Rounds:   len(points),
				Total:    total,
				Adjusted: adjustedTotal(points, method),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Adjusted != b.Adjusted {
			return a.Adjusted > b.Adjusted
		}
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Name < b.Name
	})
	return out
}
