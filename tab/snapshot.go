/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tab

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"
)

// Export serializes the full tournament state, textual projections
// included, as an indented JSON document. The state is validated first so a
// damaged tournament can never reach storage.
func (t *Tournament) Export() ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("unable to serialize tournament: %w", err)
	}
	return data, nil
}

// Import reconstructs a tournament from an Export document and re-validates
// it, including a full stat rebuild cross-checked against the persisted
// derived fields.
func Import(data []byte) (*Tournament, error) {
	t := &Tournament{}
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("unable to parse tournament snapshot: %w", err)
	}
	t.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	if t.BreakSeeds == nil {
		t.BreakSeeds = make(map[int]int)
	}
	for _, tm := range t.Teams {
		if tm.SideHistory == nil {
			tm.SideHistory = make(map[int][]Side)
		}
	}

	// The persisted derived fields must match a fresh rebuild; a snapshot
	// that disagrees with its own match log was tampered with or written by
	// a defective writer.
	persisted := make([]Team, len(t.Teams))
	for i, tm := range t.Teams {
		persisted[i] = *tm
	}
	t.RecomputeStats()
	for i, tm := range t.Teams {
		if persisted[i].Score != tm.Score || persisted[i].Wins != tm.Wins ||
			persisted[i].Buchholz != tm.Buchholz ||
			persisted[i].AffCount != tm.AffCount ||
			persisted[i].NegCount != tm.NegCount {
			return nil, fmt.Errorf(
				"%w: snapshot stats for team %d disagree with its match log",
				ErrConsistency, tm.ID)
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
