// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package vehicle

import (
	"github.com/galvanizedlogic/vehiclecore/math/lin"
	"github.com/galvanizedlogic/vehiclecore/rigidworld"
)

// Link describes a non-weld physical connector's geometry: the attachment
// points in each piece's local frame and their relative rotation. A welded
// piece has no Link; its position comes solely from WeldedTform within its
// group. The connector's behavior (its named Type, e.g. a hinge or a
// piston) is opaque here, the same way a machine's kind is opaque until
// resolved through the machine registry — this package only carries the
// geometry a physics collaborator would need to actually build the joint.
type Link struct {
	Type  string
	PFrom *lin.V3
	PTo   *lin.V3
	Rot   *lin.Q
}

// Piece is the atomic collider and the unit the welded-group builder and
// the separation detector both operate on.
type Piece struct {
	ID   int
	Part *Part

	Proto    string
	Mass     float64
	Collider rigidworld.Collider

	AttachedTo       *Piece
	Welded           bool
	EditorDetachable bool
	Link             *Link

	FromAttachment, ToAttachment string

	// PackedTform is this piece's local transform relative to AttachedTo
	// (or, for the root, relative to the vehicle) while the vehicle is
	// packed. WeldedTform is this piece's offset within its WeldedGroup's
	// principal-axis frame, set by the welded-group builder; it is nil for
	// a lone piece.
	PackedTform *lin.T
	WeldedTform *lin.T

	// Body is the rigid-body handle: shared across every member of Group
	// when Group is non-nil, or owned solely by this piece when Group is
	// nil. Both are nil while the vehicle is packed.
	Body  rigidworld.Body
	Group *WeldedGroup
}

// NewPiece returns a Piece with EditorDetachable defaulting to true, the
// loader's documented default (§6.1).
func NewPiece(id int, proto string, mass float64, collider rigidworld.Collider) *Piece {
	return &Piece{
		ID:               id,
		Proto:            proto,
		Mass:             mass,
		Collider:         collider,
		EditorDetachable: true,
		PackedTform:      lin.NewT().SetI(),
	}
}

// IsWelded reports whether this piece is rigidly fixed to its parent,
// mirroring the original Piece::is_welded.
func (p *Piece) IsWelded() bool { return p.Welded && p.AttachedTo != nil }
