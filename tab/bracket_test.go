/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tab

import "testing"

func TestBreakBracketVectors(t *testing.T) {
	cases := []struct {
		name string
		size int
		want [][2]int
	}{
		{
			name: "four team break",
			size: 4,
			want: [][2]int{{1, 4}, {2, 3}},
		},
		{
			name: "eight team break",
			size: 8,
			want: [][2]int{{1, 8}, {4, 5}, {3, 6}, {2, 7}},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := BreakBracket(c.size)
			if len(got) != len(c.want) {
				t.Fatalf("%s: got %d pairs, want %d", c.name, len(got), len(c.want))
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Errorf("%s: pair %d = %v; want %v", c.name, i, got[i], c.want[i])
				}
			}
		})
	}
}

func TestBreakBracketProperties(t *testing.T) {
	for _, size := range []int{2, 4, 8, 16, 32} {
		pairs := BreakBracket(size)
		if len(pairs) != size/2 {
			t.Fatalf("size %d: got %d pairs", size, len(pairs))
		}
		if pairs[0][0] != 1 {
			t.Errorf("size %d: seed 1 not in the first pair", size)
		}
		last := pairs[len(pairs)-1]
		if last[0] != 2 && last[1] != 2 {
			t.Errorf("size %d: seed 2 not in the last pair", size)
		}
		seen := make(map[int]bool)
		for _, p := range pairs {
			if p[0]+p[1] != size+1 {
				t.Errorf("size %d: pair %v seeds do not sum to %d", size, p, size+1)
			}
			if p[0] >= p[1] {
				t.Errorf("size %d: pair %v not (higher, lower) seed order", size, p)
			}
			seen[p[0]] = true
			seen[p[1]] = true
		}
		if len(seen) != size {
			t.Errorf("size %d: %d distinct seeds placed", size, len(seen))
		}
	}
}
