// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package vehicle

import (
	"github.com/galvanizedlogic/vehiclecore/math/lin"
	"github.com/galvanizedlogic/vehiclecore/rigidworld"
)

// WeldedGroup is an ordered, non-empty set of pieces sharing one rigid
// body. It exists only for groups of size ≥ 2; a lone piece owns its
// Body directly and has a nil Group.
type WeldedGroup struct {
	Pieces []*Piece
	Body   rigidworld.Body
}

// pieceSnapshot captures a piece's world transform and velocities at the
// start of a rebuild pass, per §4.2 step 1. Pieces not yet attached to a
// body (freshly loaded, still packed) snapshot to zero velocity.
type pieceSnapshot struct {
	Transform *lin.T
	Linear    *lin.V3
	Angular   *lin.V3
}

// buildGroup is one candidate group computed by a rebuild pass's step 2,
// before it is known whether it survives reconciliation (step 4) or needs
// a fresh body (step 5).
type buildGroup struct{ members []*Piece }

// RebuildWeldedGroups recomputes the vehicle's welded groups from its
// current piece graph, per §4.2's six-step algorithm. It must be invoked
// whenever weld topology changes; it is a no-op to call it again with
// nothing changed (reconciliation finds every existing group still
// matches and recreates nothing).
func RebuildWeldedGroups(v *Vehicle, world rigidworld.World) (err error) {
	defer Recover(&err)

	pieces := v.Pieces
	snapshots := make(map[*Piece]pieceSnapshot, len(pieces))
	for _, p := range pieces {
		snapshots[p] = snapshotPiece(p)
	}

	// Step 2: group by welds. groupOf implements the union-find: every
	// piece joins its attached_to's group when welded, else seeds its own
	// (possibly singleton) group. Pieces are visited in insertion order,
	// which the piece-graph contract (§4.1) guarantees always places a
	// piece's attached_to earlier in the slice.
	groupOf := make(map[*Piece]*buildGroup, len(pieces))
	var order []*buildGroup
	seen := make(map[*buildGroup]bool, len(pieces))
	for _, p := range pieces {
		if p.IsWelded() {
			parent, ok := groupOf[p.AttachedTo]
			if !ok {
				failf("RebuildWeldedGroups", "piece %d is welded to piece %d, which has not been visited yet", p.ID, p.AttachedTo.ID)
			}
			parent.members = append(parent.members, p)
			groupOf[p] = parent
			continue
		}
		g := &buildGroup{members: []*Piece{p}}
		groupOf[p] = g
	}
	for _, p := range pieces {
		g := groupOf[p]
		if !seen[g] {
			seen[g] = true
			order = append(order, g)
		}
	}

	// Step 3: extract singletons, releasing any body a piece that fell out
	// of a group was holding.
	var multi []*buildGroup
	for _, g := range order {
		if len(g.members) >= 2 {
			multi = append(multi, g)
			continue
		}
		lone := g.members[0]
		if lone.Group != nil {
			lone.Body = nil
			lone.Group = nil
			lone.WeldedTform = nil
		}
	}

	// Step 4: reconcile against the existing group list.
	var survivors []*WeldedGroup
	matched := make(map[*buildGroup]bool, len(multi))
	for _, existing := range v.groups {
		bg := findMatchingGroup(existing, multi)
		if bg != nil {
			matched[bg] = true
			survivors = append(survivors, existing)
			continue
		}
		existing.Body.Dispose()
	}

	// Step 5: create new rigid bodies for newly appearing groups.
	groups := make([]*WeldedGroup, 0, len(survivors)+len(multi))
	groups = append(groups, survivors...)
	for _, bg := range multi {
		if matched[bg] {
			continue
		}
		groups = append(groups, createWeldedGroup(bg.members, snapshots, world))
	}

	// Step 6: create lone-piece bodies for singletons that don't have one.
	for _, g := range order {
		if len(g.members) != 1 {
			continue
		}
		p := g.members[0]
		if p.Body == nil {
			p.Body = createLonePieceBody(p, snapshots[p], world)
		}
	}

	v.groups = groups
	if v.Context != nil && v.Context.Telemetry != nil {
		v.Context.Telemetry.WeldedGroupRebuildsTotal.Inc()
		v.Context.Telemetry.WeldedGroupsActive.Set(float64(len(groups)))
	}
	return nil
}

// findMatchingGroup returns the buildGroup whose members are exactly
// existing's pieces (as sets), or nil if none matches, per §4.2 step 4's
// "a pre-existing group survives iff some newly computed group contains
// exactly the same set of pieces".
func findMatchingGroup(existing *WeldedGroup, candidates []*buildGroup) *buildGroup {
	for _, bg := range candidates {
		if sameMembers(existing.Pieces, bg.members) {
			return bg
		}
	}
	return nil
}

func sameMembers(a []*Piece, b []*Piece) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[*Piece]bool, len(a))
	for _, p := range a {
		set[p] = true
	}
	for _, p := range b {
		if !set[p] {
			return false
		}
	}
	return true
}

// createWeldedGroup builds a new WeldedGroup's compound body, per §4.2
// step 5: fold each member's collider at its snapshot transform into a
// principal-axis frame, create the body there, then restore the group's
// aggregate linear and angular velocity.
func createWeldedGroup(members []*Piece, snapshots map[*Piece]pieceSnapshot, world rigidworld.World) *WeldedGroup {
	children := make([]rigidworld.Child, len(members))
	for i, p := range members {
		children[i] = rigidworld.Child{
			Collider: p.Collider,
			Mass:     p.Mass,
			Local:    snapshots[p].Transform,
		}
	}

	axes, err := rigidworld.ComputePrincipalAxes(children)
	if err != nil {
		failf("createWeldedGroup", "computing principal axes: %v", err)
	}
	principalInverse := invertT(axes.Principal)

	localChildren := make([]rigidworld.Child, len(members))
	for i, p := range members {
		localChildren[i] = rigidworld.Child{
			Collider: p.Collider,
			Mass:     p.Mass,
			Local:    composeT(principalInverse, snapshots[p].Transform),
		}
		p.WeldedTform = localChildren[i].Local
	}

	shape := rigidworld.NewCompoundCollider(localChildren, axes)
	body := world.NewBody(shape)
	body.SetWorld(axes.Principal)
	body.SetMaterial(axes.Mass, axes.Inertia)

	impulse := lin.NewV3()
	angular := lin.NewV3()
	for _, p := range members {
		s := snapshots[p]
		impulse.X += p.Mass * s.Linear.X
		impulse.Y += p.Mass * s.Linear.Y
		impulse.Z += p.Mass * s.Linear.Z
		angular.X += s.Angular.X
		angular.Y += s.Angular.Y
		angular.Z += s.Angular.Z
	}
	n := float64(len(members))
	body.Push(impulse.X/axes.Mass, impulse.Y/axes.Mass, impulse.Z/axes.Mass)
	body.SetWhirl(angular.X/n, angular.Y/n, angular.Z/n)

	group := &WeldedGroup{Pieces: members, Body: body}
	for _, p := range members {
		p.Body = body
		p.Group = group
	}
	return group
}

// createLonePieceBody builds a single-piece rigid body directly from the
// piece's own collider, per §4.2 step 6.
func createLonePieceBody(p *Piece, snap pieceSnapshot, world rigidworld.World) rigidworld.Body {
	body := world.NewBody(p.Collider)
	body.SetWorld(snap.Transform)

	inertia := lin.NewV3()
	p.Collider.Inertia(p.Mass, inertia)
	body.SetMaterial(p.Mass, inertia)

	body.Push(snap.Linear.X, snap.Linear.Y, snap.Linear.Z)
	body.SetWhirl(snap.Angular.X, snap.Angular.Y, snap.Angular.Z)
	return body
}

// snapshotPiece captures a piece's current world transform and velocity.
// A piece already in a group shares its body's velocity with every other
// member, consistent with "all pieces in G share the same rigid body".
func snapshotPiece(p *Piece) pieceSnapshot {
	snap := pieceSnapshot{
		Transform: pieceWorldTransform(p),
		Linear:    lin.NewV3(),
		Angular:   lin.NewV3(),
	}
	if p.Body != nil {
		lx, ly, lz := p.Body.Speed()
		snap.Linear.SetS(lx, ly, lz)
		ax, ay, az := p.Body.Whirl()
		snap.Angular.SetS(ax, ay, az)
	}
	return snap
}

// pieceWorldTransform returns p's current transform in world space: its
// body's transform composed with its welded offset when it belongs to a
// group, a lone body's transform directly, or its packed transform chain
// walked up to the vehicle root when the vehicle has no bodies yet.
func pieceWorldTransform(p *Piece) *lin.T {
	switch {
	case p.Group != nil:
		return composeT(p.Body.World(), p.WeldedTform)
	case p.Body != nil:
		return p.Body.World()
	default:
		return globalPackedTransform(p)
	}
}

// globalPackedTransform composes p's packed transform chain from the
// vehicle root down to p.
func globalPackedTransform(p *Piece) *lin.T {
	var chain []*Piece
	for cur := p; cur != nil; cur = cur.AttachedTo {
		chain = append(chain, cur)
	}

	result := lin.NewT().SetI()
	for i := len(chain) - 1; i >= 0; i-- {
		result = composeT(result, chain[i].PackedTform)
	}
	return result
}

// composeT returns a*b, the composite transform that applies b in a's
// local frame: Loc = a.Loc + a.Rot*b.Loc, Rot = a.Rot*b.Rot. The result
// is a fresh transform; a and b are not modified.
func composeT(a, b *lin.T) *lin.T {
	out := lin.NewT()
	out.Loc.Set(a.Loc)
	out.Mult(a, b)
	return out
}

// invertT returns the inverse of transform t.
func invertT(t *lin.T) *lin.T {
	inv := lin.NewT()
	inv.Rot.Inv(t.Rot)
	neg := lin.NewV3().Neg(t.Loc)
	inv.Loc.MultvQ(neg, inv.Rot)
	return inv
}
