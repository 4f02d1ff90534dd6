// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package vehiclefile reads and writes the text, table-oriented vehicle
// save format the original implementation parses with cpptoml
// (original_source/src/universe/vehicle/VehicleLoader.cpp). It decodes into
// typed structs with github.com/BurntSushi/toml, validates them with
// github.com/go-playground/validator/v10 before any topology is built, and
// wraps fatal errors with github.com/pkg/errors so a diagnostic carries the
// offending id and a stack frame.
package vehiclefile

// fileRoot is the top-level decoded shape of a vehicle file.
type fileRoot struct {
	PartID     int      `toml:"part_id" validate:"gte=0"`
	PieceID    int      `toml:"piece_id" validate:"gte=0"`
	GroupNames []string `toml:"group_names"`

	Parts  []filePart  `toml:"part" validate:"dive"`
	Pieces []filePiece `toml:"piece" validate:"dive"`
	Wires  []fileWire  `toml:"wire" validate:"dive"`
	Pipes  []filePipe  `toml:"pipe" validate:"dive"`
}

// fileMachineOverride carries a declared machine's editor plumbing layout.
// The original format stores this inline under a top-level key matching
// the machine's own id; a dynamic key set does not decode cleanly into a
// typed Go struct, so this module nests the same data under a
// machine_overrides table map keyed by machine id instead — same fields,
// a shape BurntSushi/toml and validator both handle directly.
type fileMachineOverride struct {
	PlumbingRot  int `toml:"plumbing_rot"`
	PlumbingPosX int `toml:"plumbing_pos_x"`
	PlumbingPosY int `toml:"plumbing_pos_y"`
}

// fileAttachedMachine is one [[part.attached_machine]] entry: a machine
// instantiated at load time rather than declared by the part's prototype.
type fileAttachedMachine struct {
	ID   int            `toml:"__attached_machine_id" validate:"gte=0"`
	Kind string         `toml:"kind" validate:"required"`
	Init map[string]any `toml:"init"`
}

// filePart is one [[part]] entry.
type filePart struct {
	ID      int    `toml:"id" validate:"gte=0"`
	GroupID int    `toml:"group_id"`
	Proto   string `toml:"proto" validate:"required"`

	MachineOverrides map[string]fileMachineOverride `toml:"machine_overrides"`
	AttachedMachine  []fileAttachedMachine          `toml:"attached_machine" validate:"dive"`
}

// fileVec3 is a 3-vector table, used for a link's attachment points.
type fileVec3 struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
	Z float64 `toml:"z"`
}

// fileQuat is a quaternion table, used for a link's relative rotation.
type fileQuat struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
	Z float64 `toml:"z"`
	W float64 `toml:"w"`
}

// fileLink is a piece's optional [piece.link] subtable.
type fileLink struct {
	To               int    `toml:"to"`
	Welded           bool   `toml:"welded"`
	EditorDetachable *bool  `toml:"editor_dettachable"`
	FromAttachment   string `toml:"from_attachment"`
	ToAttachment     string `toml:"to_attachment"`
	Type             string `toml:"type"`

	PFrom *fileVec3 `toml:"pfrom"`
	PTo   *fileVec3 `toml:"pto"`
	Rot   *fileQuat `toml:"rot"`
}

// filePiece is one [[piece]] entry.
type filePiece struct {
	ID        int       `toml:"id" validate:"gte=0"`
	Part      int       `toml:"part" validate:"gte=0"`
	Node      string    `toml:"node" validate:"required"`
	Root      bool      `toml:"root"`
	Transform []float64 `toml:"transform" validate:"len=16"`
	Link      *fileLink `toml:"link"`
}

// fileWire is one [[wire]] entry.
type fileWire struct {
	From     int    `toml:"from" validate:"gte=0"`
	To       int    `toml:"to" validate:"gte=0"`
	FMachine string `toml:"fmachine" validate:"required"`
	TMachine string `toml:"tmachine" validate:"required"`
}

// filePipe is one [[pipe]] entry. Exactly one of FromMachine /
// FromAttachedMachine (and likewise To*) must be set, per §6.1.
type filePipe struct {
	Index int `toml:"index" validate:"gte=0"`

	FromPart            int    `toml:"from_part" validate:"gte=0"`
	FromMachine         string `toml:"from_machine" validate:"required_without=FromAttachedMachine"`
	FromAttachedMachine *int   `toml:"from_attached_machine" validate:"required_without=FromMachine"`
	FromPort            string `toml:"from_port" validate:"required"`

	ToPart            int    `toml:"to_part" validate:"gte=0"`
	ToMachine         string `toml:"to_machine" validate:"required_without=ToAttachedMachine"`
	ToAttachedMachine *int   `toml:"to_attached_machine" validate:"required_without=ToMachine"`
	ToPort            string `toml:"to_port" validate:"required"`

	Waypoints []int `toml:"waypoints"`
}
