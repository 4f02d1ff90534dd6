// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package vehicle

// Separate partitions v into new vehicles along broken links, per §4.3.
// It should be called after one or more BreakLink calls; pieces still
// reachable from v.Root stay in v, and every other connected component
// becomes a new Vehicle rooted at the piece that lost its attachment.
//
// Parts are reassigned whole: a Part moves to a new vehicle only if every
// piece it names ended up in that vehicle's group. A Part whose pieces
// split across groups (a prototype attached partway through a weld chain
// that then breaks mid-part) is left on v and logged — the spec does not
// describe part-splitting semantics, so this is treated as a malformed
// topology rather than guessed at silently. Plumbing and wires are not
// split: pipes and wire edges addressing a machine that moved to a new
// vehicle become stale and are the caller's responsibility to repair,
// since §4.3 only specifies piece partitioning.
func Separate(v *Vehicle) ([]*Vehicle, error) {
	groupIndex := make(map[*Piece]int)
	var seeds []*Piece
	for _, p := range v.Pieces {
		if p != v.Root && p.AttachedTo == nil {
			groupIndex[p] = len(seeds)
			seeds = append(seeds, p)
		}
	}
	if len(seeds) == 0 {
		return nil, nil
	}

	for changed := true; changed; {
		changed = false
		for _, p := range v.Pieces {
			if _, already := groupIndex[p]; already {
				continue
			}
			if p.AttachedTo == nil {
				continue
			}
			if idx, ok := groupIndex[p.AttachedTo]; ok {
				groupIndex[p] = idx
				changed = true
			}
		}
	}

	groups := make([][]*Piece, len(seeds))
	for _, p := range v.Pieces {
		if idx, ok := groupIndex[p]; ok {
			groups[idx] = append(groups[idx], p)
		}
	}

	grouped := make(map[*Piece]bool, len(groupIndex))
	for p := range groupIndex {
		grouped[p] = true
	}
	var remaining []*Piece
	for _, p := range v.Pieces {
		if !grouped[p] {
			remaining = append(remaining, p)
		}
	}

	originalParts := v.Parts
	out := make([]*Vehicle, len(groups))
	for i, g := range groups {
		nv := New(v.Context)
		nv.Root = seeds[i]
		nv.Pieces = g
		nv.GroupNames = v.GroupNames
		nv.Parts = partsWhollyIn(originalParts, g)
		out[i] = nv
	}

	separated := len(v.Pieces) - len(remaining)
	v.Pieces = remaining
	moved := make(map[*Part]bool, len(originalParts))
	for _, nv := range out {
		for _, pt := range nv.Parts {
			moved[pt] = true
		}
	}
	v.Parts = nil
	for _, pt := range originalParts {
		if !moved[pt] {
			v.Parts = append(v.Parts, pt)
		}
	}
	if split := len(v.Parts) - len(partsWhollyIn(v.Parts, remaining)); split > 0 && v.Context != nil {
		v.Context.Log.Warn().Int("parts", split).Msg("vehicle: parts split by separation left on the original vehicle")
	}

	if v.Context != nil && v.Context.Telemetry != nil {
		v.Context.Telemetry.SeparationEventsTotal.Inc()
		v.Context.Telemetry.PiecesSeparatedTotal.Add(float64(separated))
	}
	return out, nil
}

// partsWhollyIn returns the parts from candidates every one of whose
// pieces is present in pieces.
func partsWhollyIn(candidates []*Part, pieces []*Piece) []*Part {
	present := make(map[*Piece]bool, len(pieces))
	for _, p := range pieces {
		present[p] = true
	}

	var out []*Part
	for _, pt := range candidates {
		whole := true
		for _, p := range pt.pieces {
			if !present[p] {
				whole = false
				break
			}
		}
		if whole {
			out = append(out, pt)
		}
	}
	return out
}
