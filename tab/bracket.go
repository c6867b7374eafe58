/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tab

// bracketPairs emits the standard single-elimination pairings for a seed
// list (1-based seeds, len a power of two ≥ 2). Seed 1's match is emitted
// first and seed 2's last; at the first round opposing seeds always sum to
// len+1, and top seeds can only meet in later rounds.
func bracketPairs(seeds []int) [][2]int {
	if len(seeds) == 2 {
		return [][2]int{{seeds[0], seeds[1]}}
	}

	// Positions 1 and 4 of every block of four stay in the top half,
	// positions 2 and 3 drop to the bottom half.
	var top, bottom []int
	for i, s := range seeds {
		if i%4 == 0 || i%4 == 3 {
			top = append(top, s)
		} else {
			bottom = append(bottom, s)
		}
	}

	tp := bracketPairs(top)
	bp := bracketPairs(bottom)
	for i, j := 0, len(bp)-1; i < j; i, j = i+1, j-1 {
		bp[i], bp[j] = bp[j], bp[i]
	}
	return append(tp, bp...)
}

// BreakBracket returns the round-one elimination pairings for a break of
// size breakSize as (higher seed, lower seed) tuples in bracket order.
func BreakBracket(breakSize int) [][2]int {
	seeds := make([]int, breakSize)
	for i := range seeds {
		seeds[i] = i + 1
	}
	return bracketPairs(seeds)
}
