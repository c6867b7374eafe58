/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tab

import (
	"errors"
	"math"
	"testing"
)

func TestWinProb(t *testing.T) {
	rank := func(r int) *Team {
		tm := NewTeam(r-1, "")
		tm.TrueRank = r
		return tm
	}

	cases := []struct {
		name  string
		a, b  int
		model WinModel
		want  float64
	}{
		{name: "deterministic better wins", a: 1, b: 2, model: ModelDeterministic, want: 1.0},
		{name: "deterministic worse loses", a: 5, b: 2, model: ModelDeterministic, want: 0.0},
		{name: "elo equal ranks", a: 3, b: 3, model: ModelElo, want: 0.5},
		// 50-point rating gap: 1 / (1 + 10^(-50/400))
		{name: "elo adjacent ranks", a: 1, b: 2, model: ModelElo,
			want: 1.0 / (1.0 + math.Pow(10, -50.0/400.0))},
		{name: "linear equal ranks", a: 4, b: 4, model: ModelLinear, want: 0.5},
		// 0.5 + (64-1)/(2*64)
		{name: "linear big gap", a: 1, b: 64, model: ModelLinear, want: 0.5 + 63.0/128.0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := WinProb(rank(c.a), rank(c.b), c.model)
			if math.Abs(got-c.want) > 1e-12 {
				t.Errorf("%s: WinProb = %v; want %v", c.name, got, c.want)
			}
		})
	}

	// complements must sum to 1
	p := WinProb(rank(3), rank(9), ModelElo)
	q := WinProb(rank(9), rank(3), ModelElo)
	if math.Abs(p+q-1.0) > 1e-12 {
		t.Errorf("elo probabilities not complementary: %v + %v", p, q)
	}

	// linear model clamps to [0, 1]
	lp := WinProb(rank(1), rank(1000), ModelLinear)
	if lp < 0 || lp > 1 {
		t.Errorf("linear probability %v outside [0,1]", lp)
	}
}

func TestParseWinModel(t *testing.T) {
	for _, name := range []string{"elo", "linear", "deterministic", ""} {
		if _, err := ParseWinModel(name); err != nil {
			t.Errorf("ParseWinModel(%q) returned error: %v", name, err)
		}
	}
	if _, err := ParseWinModel("glicko"); !errors.Is(err, ErrConfig) {
		t.Errorf("unknown model: err = %v; want ErrConfig", err)
	}
}
