/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tab

import "errors"

// Error kinds. Callers classify with errors.Is; errors returned from this
// package wrap at most one of these. Roster fetch errors and snapshot
// (de)serialization errors wrap none.
//
// ErrValidation covers caller mistakes (unknown ids, out-of-sequence rounds,
// duplicate results, bad tokens); state is never mutated when one is
// returned. ErrConsistency means an internal invariant no longer holds — the
// structured records and their textual projections disagree, or a derived
// field was found miscomputed. That indicates a defect or tampering, not a
// recoverable condition; callers should surface it and re-read from the last
// good snapshot. ErrConfig covers impossible tournament configurations.
var (
	ErrValidation  = errors.New("validation error")
	ErrConsistency = errors.New("consistency error")
	ErrConfig      = errors.New("configuration error")
)
