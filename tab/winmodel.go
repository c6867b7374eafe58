/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tab

import (
	"fmt"
	"math"
)

// WinModel selects the probability model used when simulating outcomes.
type WinModel int

const (
	// ModelElo maps true rank to a rating (2000 - 50*rank) and applies the
	// standard logistic expectation. Allows upsets.
	ModelElo WinModel = iota
	// ModelLinear scales probability linearly with the rank difference.
	ModelLinear
	// ModelDeterministic always awards the win to the better rank.
	ModelDeterministic
)

func (m WinModel) String() string {
	switch m {
	case ModelElo:
		return "elo"
	case ModelLinear:
		return "linear"
	case ModelDeterministic:
		return "deterministic"
	}
	return "?"
}

// ParseWinModel parses a model name as accepted on the command line.
func ParseWinModel(s string) (WinModel, error) {
	switch s {
	case "elo", "":
		return ModelElo, nil
	case "linear":
		return ModelLinear, nil
	case "deterministic":
		return ModelDeterministic, nil
	}
	return ModelElo, fmt.Errorf("%w: unknown win model %q", ErrConfig, s)
}

// WinProb returns the probability that team a (by true rank, 1 = best)
// defeats team b under the given model.
func WinProb(a, b *Team, model WinModel) float64 {
	switch model {
	case ModelDeterministic:
		if a.TrueRank < b.TrueRank {
			return 1.0
		}
		return 0.0
	case ModelLinear:
		rankDiff := float64(b.TrueRank - a.TrueRank)
		maxRank := float64(a.TrueRank)
		if b.TrueRank > a.TrueRank {
			maxRank = float64(b.TrueRank)
		}
		p := 0.5 + rankDiff/(2.0*maxRank)
		return math.Max(0.0, math.Min(1.0, p))
	default:
		ratingA := 2000.0 - 50.0*float64(a.TrueRank)
		ratingB := 2000.0 - 50.0*float64(b.TrueRank)
		return 1.0 / (1.0 + math.Pow(10.0, (ratingB-ratingA)/400.0))
	}
}
