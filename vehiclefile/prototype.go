// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package vehiclefile

import (
	"github.com/galvanizedlogic/vehiclecore/machine"
	"github.com/galvanizedlogic/vehiclecore/rigidworld"
)

// PieceTemplate is a part prototype's node: the collider and mass a piece
// gets when a [[piece]] entry instantiates that node. Grounded on the
// original's AssetHandle<PartPrototype>, which this package deliberately
// does not reimplement — asset loading is out of scope (§1 excludes the
// asset manager/renderer) — so Resolver is the seam a caller plugs a real
// prototype/asset system into.
type PieceTemplate struct {
	Mass     float64
	Collider rigidworld.Collider
}

// MachineTemplate is a machine a part prototype declares by default, keyed
// by its own id within the part.
type MachineTemplate struct {
	Kind string
	ID   string
	Init machine.Init
}

// PartPrototype is everything Load needs from a "proto" string to
// instantiate a part and its pieces: the template for each named node
// (keyed by node, "p_root" marks the part's own root piece) and the
// machines the part declares.
type PartPrototype struct {
	Pieces   map[string]PieceTemplate
	Machines []MachineTemplate
}

// Resolver turns a part's proto string ("package:name") into the
// prototype Load instantiates pieces and machines from.
type Resolver func(proto string) (*PartPrototype, error)
