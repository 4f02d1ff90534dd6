// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package vehiclefile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/galvanizedlogic/vehiclecore/machine"
	"github.com/galvanizedlogic/vehiclecore/plumbing"
	"github.com/galvanizedlogic/vehiclecore/vehicle"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New()

// fail panics with a *vehicle.FatalError, the same type vehicle's own
// inner loops raise — Load recovers it at its own boundary below, so a
// malformed file surfaces identically whether the defect is caught here
// or later inside the vehicle package itself.
func fail(op string, err error) { panic(&vehicle.FatalError{Op: op, Err: err}) }

func failf(op, format string, args ...any) { fail(op, errors.Errorf(format, args...)) }

// Load reads path, validates it, and builds a packed Vehicle from it.
// resolve supplies the part-prototype data (collider, mass, declared
// machines) the file format itself does not carry — that data comes from
// the asset system, out of scope for this package.
func Load(ctx *vehicle.Context, path string, resolve Resolver) (v *vehicle.Vehicle, err error) {
	defer vehicle.Recover(&err)

	var root fileRoot
	if _, derr := toml.DecodeFile(path, &root); derr != nil {
		return nil, errors.Wrapf(derr, "vehiclefile: decoding %s", path)
	}
	if verr := validate.Struct(&root); verr != nil {
		return nil, errors.Wrapf(verr, "vehiclefile: validating %s", path)
	}

	v = vehicle.New(ctx)
	v.GroupNames = root.GroupNames

	partsByID, protosByID, err := loadParts(v, root, resolve)
	if err != nil {
		return nil, err
	}

	piecesByID, linksByID, rootID, err := loadPieces(v, root, partsByID, protosByID)
	if err != nil {
		return nil, err
	}
	if err := attachPieces(v, piecesByID, linksByID, rootID); err != nil {
		return nil, err
	}

	if err := loadWires(v, ctx, root, partsByID); err != nil {
		return nil, err
	}

	if err := loadPipes(v, root, partsByID); err != nil {
		return nil, err
	}

	return v, nil
}

func loadParts(v *vehicle.Vehicle, root fileRoot, resolve Resolver) (map[int]*vehicle.Part, map[int]*PartPrototype, error) {
	partsByID := make(map[int]*vehicle.Part, len(root.Parts))
	protosByID := make(map[int]*PartPrototype, len(root.Parts))

	for _, fp := range root.Parts {
		if fp.ID > root.PartID {
			failf("Load", "part %d exceeds declared part_id bound %d", fp.ID, root.PartID)
		}
		proto, rerr := resolve(fp.Proto)
		if rerr != nil {
			return nil, nil, errors.Wrapf(rerr, "vehiclefile: resolving part %d prototype %q", fp.ID, fp.Proto)
		}

		part := vehicle.NewPart(fp.ID, fp.Proto)
		part.GroupID = fp.GroupID

		for _, mt := range proto.Machines {
			init := cloneInit(mt.Init)
			if ov, ok := fp.MachineOverrides[mt.ID]; ok {
				init["plumbing_rot"] = ov.PlumbingRot
				init["plumbing_pos_x"] = ov.PlumbingPosX
				init["plumbing_pos_y"] = ov.PlumbingPosY
			}
			m, merr := machine.New(mt.Kind, mt.ID, init)
			if merr != nil {
				return nil, nil, errors.Wrapf(merr, "vehiclefile: part %d declaring machine %q", fp.ID, mt.ID)
			}
			part.DeclareMachine(m)
		}

		for _, am := range fp.AttachedMachine {
			m, merr := machine.New(am.Kind, attachedMachineFileID(am.ID), am.Init)
			if merr != nil {
				return nil, nil, errors.Wrapf(merr, "vehiclefile: part %d attached machine %d", fp.ID, am.ID)
			}
			part.AttachMachine(m)
		}

		partsByID[fp.ID] = part
		protosByID[fp.ID] = proto
		v.Parts = append(v.Parts, part)
	}
	return partsByID, protosByID, nil
}

func attachedMachineFileID(i int) string { return fmt.Sprintf("_attached_%d", i) }

// cloneInit returns a shallow copy so overriding plumbing fields on one
// part's machine instance never mutates the prototype's shared template.
func cloneInit(init machine.Init) machine.Init {
	out := make(machine.Init, len(init))
	for k, v := range init {
		out[k] = v
	}
	return out
}

func loadPieces(v *vehicle.Vehicle, root fileRoot, partsByID map[int]*vehicle.Part, protosByID map[int]*PartPrototype) (map[int]*vehicle.Piece, map[int]*fileLink, int, error) {
	piecesByID := make(map[int]*vehicle.Piece, len(root.Pieces))
	linksByID := make(map[int]*fileLink, len(root.Pieces))
	rootID := -1

	for _, fpc := range root.Pieces {
		if fpc.ID > root.PieceID {
			failf("Load", "piece %d exceeds declared piece_id bound %d", fpc.ID, root.PieceID)
		}
		part, ok := partsByID[fpc.Part]
		if !ok {
			failf("Load", "piece %d references unknown part %d", fpc.ID, fpc.Part)
		}
		proto := protosByID[fpc.Part]
		tmpl, ok := proto.Pieces[fpc.Node]
		if !ok {
			failf("Load", "piece %d: part %d prototype has no node %q", fpc.ID, fpc.Part, fpc.Node)
		}

		piece := vehicle.NewPiece(fpc.ID, fpc.Node, tmpl.Mass, tmpl.Collider)
		if fpc.Transform != nil {
			piece.PackedTform = transformFromMatrix(fpc.Transform)
		}
		part.AddPiece(fpc.Node, piece)
		piecesByID[fpc.ID] = piece

		if fpc.Root {
			if rootID != -1 {
				failf("Load", "multiple root pieces (%d and %d)", rootID, fpc.ID)
			}
			rootID = fpc.ID
		}
		if fpc.Link != nil {
			linksByID[fpc.ID] = fpc.Link
		}
	}
	if rootID == -1 {
		failf("Load", "loaded an empty vehicle: no piece is marked root")
	}
	return piecesByID, linksByID, rootID, nil
}

// attachPieces inserts pieces into v in an order that always satisfies
// vehicle.AddPiece's "attachedTo already in this vehicle" precondition,
// rather than assuming the file lists pieces in attachment order the way
// the original implementation's raw-pointer graph did not need to.
func attachPieces(v *vehicle.Vehicle, piecesByID map[int]*vehicle.Piece, linksByID map[int]*fileLink, rootID int) error {
	if err := v.AddPiece(piecesByID[rootID], nil); err != nil {
		return errors.Wrap(err, "vehiclefile: adding root piece")
	}

	inserted := map[int]bool{rootID: true}
	for len(inserted) < len(piecesByID) {
		progressed := false
		for id, piece := range piecesByID {
			if inserted[id] {
				continue
			}
			link, ok := linksByID[id]
			if !ok {
				failf("Load", "piece %d is not root and has no link", id)
			}
			if !inserted[link.To] {
				continue
			}
			parent, ok := piecesByID[link.To]
			if !ok {
				failf("Load", "piece %d links to unknown piece %d", id, link.To)
			}
			if err := v.AddPiece(piece, parent); err != nil {
				return errors.Wrapf(err, "vehiclefile: attaching piece %d", id)
			}
			applyLink(piece, link)
			inserted[id] = true
			progressed = true
		}
		if !progressed {
			failf("Load", "piece graph has an unresolvable or cyclic attachment chain")
		}
	}
	return nil
}

func applyLink(p *vehicle.Piece, link *fileLink) {
	p.Welded = link.Welded
	p.FromAttachment = link.FromAttachment
	p.ToAttachment = link.ToAttachment
	p.EditorDetachable = true
	if link.EditorDetachable != nil {
		p.EditorDetachable = *link.EditorDetachable
	}
	if link.Type != "" && link.Type != "none" {
		p.Link = &vehicle.Link{
			Type:  link.Type,
			PFrom: vecFromFile(link.PFrom),
			PTo:   vecFromFile(link.PTo),
			Rot:   quatFromFile(link.Rot),
		}
	}
}

func loadWires(v *vehicle.Vehicle, ctx *vehicle.Context, root fileRoot, partsByID map[int]*vehicle.Part) error {
	for _, fw := range root.Wires {
		fromPart, ok := partsByID[fw.From]
		if !ok {
			failf("Load", "wire references unknown part %d", fw.From)
		}
		toPart, ok := partsByID[fw.To]
		if !ok {
			failf("Load", "wire references unknown part %d", fw.To)
		}
		if _, ok := fromPart.GetMachine(fw.FMachine); !ok {
			failf("Load", "wire references part %d machine %q, which does not exist", fw.From, fw.FMachine)
		}
		if _, ok := toPart.GetMachine(fw.TMachine); !ok {
			failf("Load", "wire references part %d machine %q, which does not exist", fw.To, fw.TMachine)
		}

		fromKey := wireKey(fw.From, fw.FMachine)
		toKey := wireKey(fw.To, fw.TMachine)
		if !v.Wires.Insert(fromKey, toKey) {
			if ctx != nil {
				ctx.Log.Warn().
					Int("from_part", fw.From).Str("from_machine", fw.FMachine).
					Int("to_part", fw.To).Str("to_machine", fw.TMachine).
					Msg("duplicate wire ignored")
			}
		}
	}
	return nil
}

func wireKey(partID int, machineID string) string { return fmt.Sprintf("%d:%s", partID, machineID) }

func loadPipes(v *vehicle.Vehicle, root fileRoot, partsByID map[int]*vehicle.Part) error {
	pipes := make([]*plumbing.Pipe, len(root.Pipes))
	for _, fpp := range root.Pipes {
		if fpp.Index < 0 || fpp.Index >= len(pipes) {
			failf("Load", "pipe index %d out of range for %d declared pipes", fpp.Index, len(pipes))
		}
		if pipes[fpp.Index] != nil {
			failf("Load", "duplicate pipe index %d", fpp.Index)
		}
		p := plumbing.NewPipe(fpp.Index)
		p.Waypoints = waypointsFromFlat(fpp.Waypoints)
		p.PendingA = &plumbing.PendingEndpoint{
			MachineKey: endpointKey(fpp.FromPart, fpp.FromMachine, fpp.FromAttachedMachine),
			PortID:     fpp.FromPort,
		}
		p.PendingB = &plumbing.PendingEndpoint{
			MachineKey: endpointKey(fpp.ToPart, fpp.ToMachine, fpp.ToAttachedMachine),
			PortID:     fpp.ToPort,
		}
		pipes[fpp.Index] = p
	}
	for _, p := range pipes {
		if p == nil {
			failf("Load", "pipe array has a gap: a declared index was never populated")
		}
		v.Plumbing.AddPipe(p)
	}

	return v.Plumbing.Init(func(pe plumbing.PendingEndpoint) (*plumbing.FluidPort, error) {
		partID, machineID, err := parseEndpointKey(pe.MachineKey)
		if err != nil {
			return nil, err
		}
		part, ok := partsByID[partID]
		if !ok {
			return nil, fmt.Errorf("vehiclefile: pipe endpoint references unknown part %d", partID)
		}
		m, ok := part.GetMachine(machineID)
		if !ok {
			return nil, fmt.Errorf("vehiclefile: part %d has no machine %q", partID, machineID)
		}
		plumber, ok := m.(machine.Plumber)
		if !ok {
			return nil, fmt.Errorf("vehiclefile: part %d machine %q has no plumbing", partID, machineID)
		}
		port := plumber.Plumbing().PortByID(pe.PortID)
		if port == nil {
			return nil, fmt.Errorf("vehiclefile: part %d machine %q has no port %q", partID, machineID, pe.PortID)
		}
		return port, nil
	})
}

func endpointKey(partID int, machineID string, attachedIdx *int) string {
	if attachedIdx != nil {
		return fmt.Sprintf("%d:%s", partID, attachedMachineFileID(*attachedIdx))
	}
	return fmt.Sprintf("%d:%s", partID, machineID)
}

func parseEndpointKey(key string) (partID int, machineID string, err error) {
	idPart, rest, ok := strings.Cut(key, ":")
	if !ok {
		return 0, "", fmt.Errorf("vehiclefile: malformed endpoint key %q", key)
	}
	id, err := strconv.Atoi(idPart)
	if err != nil {
		return 0, "", fmt.Errorf("vehiclefile: malformed endpoint key %q: %w", key, err)
	}
	return id, rest, nil
}
