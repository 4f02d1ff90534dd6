// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package machine

// WireSet is a symmetric, duplicate-rejecting signal graph between
// machines, keyed by machine id. Inserting (a, b) also inserts (b, a);
// a second insertion of either direction is a no-op.
type WireSet struct {
	edges map[string]map[string]bool
}

// NewWireSet returns an empty wire set.
func NewWireSet() *WireSet {
	return &WireSet{edges: map[string]map[string]bool{}}
}

// Insert adds the symmetric edge (a, b). It returns true if the edge was
// new, false if it (in either direction) already existed — callers should
// log a warning and treat false as a no-op, per the duplicate-edges error
// handling policy.
func (w *WireSet) Insert(a, b string) bool {
	if w.edges[a][b] {
		return false
	}
	w.link(a, b)
	w.link(b, a)
	return true
}

func (w *WireSet) link(from, to string) {
	if w.edges[from] == nil {
		w.edges[from] = map[string]bool{}
	}
	w.edges[from][to] = true
}

// Connected returns every machine id wired to id, in unspecified order.
func (w *WireSet) Connected(id string) []string {
	peers := w.edges[id]
	out := make([]string, 0, len(peers))
	for peer := range peers {
		out = append(out, peer)
	}
	return out
}

// Len returns the number of distinct undirected edges.
func (w *WireSet) Len() int {
	n := 0
	for from, peers := range w.edges {
		for to := range peers {
			if from <= to {
				n++
			}
		}
	}
	return n
}
