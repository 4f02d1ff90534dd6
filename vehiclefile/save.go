// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package vehiclefile

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/galvanizedlogic/vehiclecore/machine"
	"github.com/galvanizedlogic/vehiclecore/plumbing"
	"github.com/galvanizedlogic/vehiclecore/vehicle"
	"github.com/pkg/errors"
)

// idMapper assigns fresh, dense, 1-based ids to parts and pieces at save
// time, per §6.1's saver contract ("assign fresh sequential ids to pieces
// and parts (starting at 1)"). The in-memory Part.ID/Piece.ID fields are
// left untouched — they stay valid keys into structures built during this
// vehicle's lifetime (the wire set, in particular, is keyed by the id a
// part had at load time) — only the serialized form is renumbered.
type idMapper struct {
	parts  map[int]int
	pieces map[int]int
}

func newIDMapper(v *vehicle.Vehicle) *idMapper {
	m := &idMapper{parts: make(map[int]int, len(v.Parts)), pieces: make(map[int]int, len(v.Pieces))}
	for i, p := range v.Parts {
		m.parts[p.ID] = i + 1
	}
	for i, p := range v.Pieces {
		m.pieces[p.ID] = i + 1
	}
	return m
}

// Save writes v to path in the format Load reads. v must be packed
// (Load always returns a packed vehicle; a caller that unpacked it for
// physics must repack before saving), mirroring VehicleSaver's own
// "cannot serialize an unpacked vehicle" check.
func Save(v *vehicle.Vehicle, path string) (err error) {
	defer vehicle.Recover(&err)

	if !v.Packed {
		return errors.New("vehiclefile: cannot save an unpacked vehicle")
	}

	ids := newIDMapper(v)
	root := fileRoot{
		GroupNames: v.GroupNames,
		PartID:     len(v.Parts),
		PieceID:    len(v.Pieces),
	}

	root.Parts = make([]filePart, 0, len(v.Parts))
	for _, p := range v.Parts {
		root.Parts = append(root.Parts, savePart(p, ids))
	}

	root.Pieces = make([]filePiece, 0, len(v.Pieces))
	for _, p := range v.Pieces {
		root.Pieces = append(root.Pieces, savePiece(p, v.Root, ids))
	}

	root.Wires = saveWires(v, ids)
	root.Pipes, err = savePipes(v, ids)
	if err != nil {
		return err
	}

	f, cerr := os.Create(path)
	if cerr != nil {
		return errors.Wrapf(cerr, "vehiclefile: creating %s", path)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if eerr := enc.Encode(root); eerr != nil {
		return errors.Wrapf(eerr, "vehiclefile: encoding %s", path)
	}
	return nil
}

func savePart(p *vehicle.Part, ids *idMapper) filePart {
	fp := filePart{ID: ids.parts[p.ID], GroupID: p.GroupID, Proto: p.Proto}

	for id, m := range p.DeclaredMachines() {
		plumber, ok := m.(machine.Plumber)
		if !ok || !plumber.Plumbing().HasPlumbing() {
			continue
		}
		if fp.MachineOverrides == nil {
			fp.MachineOverrides = map[string]fileMachineOverride{}
		}
		pm := plumber.Plumbing()
		fp.MachineOverrides[id] = fileMachineOverride{
			PlumbingRot:  pm.EditorRotation,
			PlumbingPosX: pm.EditorPositionX,
			PlumbingPosY: pm.EditorPositionY,
		}
	}

	for i, m := range p.AttachedMachines() {
		am := fileAttachedMachine{ID: i, Kind: m.Kind()}
		if d, ok := m.(machine.Describer); ok {
			am.Init = d.Describe()
		}
		fp.AttachedMachine = append(fp.AttachedMachine, am)
	}
	return fp
}

func savePiece(p *vehicle.Piece, root *vehicle.Piece, ids *idMapper) filePiece {
	fpc := filePiece{
		ID:        ids.pieces[p.ID],
		Part:      ids.parts[p.Part.ID],
		Node:      p.Proto,
		Root:      p == root,
		Transform: matrixFromTransform(p.PackedTform),
	}
	if p != root {
		fpc.Link = saveLink(p, ids)
	}
	return fpc
}

func saveLink(p *vehicle.Piece, ids *idMapper) *fileLink {
	editorDetachable := p.EditorDetachable
	link := &fileLink{
		To:               ids.pieces[p.AttachedTo.ID],
		Welded:           p.Welded,
		EditorDetachable: &editorDetachable,
		FromAttachment:   p.FromAttachment,
		ToAttachment:     p.ToAttachment,
		Type:             "none",
	}
	if p.Link != nil {
		link.Type = p.Link.Type
		link.PFrom = fileFromVec(p.Link.PFrom)
		link.PTo = fileFromVec(p.Link.PTo)
		link.Rot = fileFromQuat(p.Link.Rot)
	}
	return link
}

func saveWires(v *vehicle.Vehicle, ids *idMapper) []fileWire {
	seen := map[string]bool{}
	var out []fileWire
	for _, p := range v.Parts {
		for id := range p.GetAllMachines() {
			key := wireKey(p.ID, id)
			for _, peer := range v.Wires.Connected(key) {
				edge := edgeKey(key, peer)
				if seen[edge] {
					continue
				}
				seen[edge] = true
				fromPart, fromMachine, _ := parseEndpointKey(key)
				toPart, toMachine, _ := parseEndpointKey(peer)
				out = append(out, fileWire{
					From: ids.parts[fromPart], To: ids.parts[toPart],
					FMachine: fromMachine, TMachine: toMachine,
				})
			}
		}
	}
	return out
}

func edgeKey(a, b string) string {
	if a < b {
		return a + "|" + b
	}
	return b + "|" + a
}

// portOwner locates the part id and machine id (synthetic "_attached_{i}"
// for an attached machine) that owns a resolved FluidPort, since
// plumbing.FluidPort carries no reverse pointer of its own back to the
// part/machine that declared it.
type portOwner struct {
	partID    int
	machineID string
	attached  *int
}

func buildPortOwners(v *vehicle.Vehicle) map[*plumbing.FluidPort]portOwner {
	owners := map[*plumbing.FluidPort]portOwner{}
	for _, p := range v.Parts {
		for id, m := range p.DeclaredMachines() {
			plumber, ok := m.(machine.Plumber)
			if !ok {
				continue
			}
			for _, port := range plumber.Plumbing().Ports {
				owners[port] = portOwner{partID: p.ID, machineID: id}
			}
		}
		for i, m := range p.AttachedMachines() {
			plumber, ok := m.(machine.Plumber)
			if !ok {
				continue
			}
			idx := i
			for _, port := range plumber.Plumbing().Ports {
				owners[port] = portOwner{partID: p.ID, attached: &idx}
			}
		}
	}
	return owners
}

func savePipes(v *vehicle.Vehicle, ids *idMapper) ([]filePipe, error) {
	owners := buildPortOwners(v)

	out := make([]filePipe, 0, len(v.Plumbing.Pipes))
	for _, pipe := range v.Plumbing.Pipes {
		fromOwner, ok := owners[pipe.A]
		if !ok {
			return nil, errors.Errorf("vehiclefile: pipe %d endpoint A has no known owning machine", pipe.Index)
		}
		toOwner, ok := owners[pipe.B]
		if !ok {
			return nil, errors.Errorf("vehiclefile: pipe %d endpoint B has no known owning machine", pipe.Index)
		}

		fp := filePipe{
			Index:               pipe.Index,
			FromPart:            ids.parts[fromOwner.partID],
			FromMachine:         fromOwner.machineID,
			FromAttachedMachine: fromOwner.attached,
			FromPort:            pipe.A.ID,
			ToPart:              ids.parts[toOwner.partID],
			ToMachine:           toOwner.machineID,
			ToAttachedMachine:   toOwner.attached,
			ToPort:              pipe.B.ID,
			Waypoints:           flatFromWaypoints(pipe.Waypoints),
		}
		out = append(out, fp)
	}
	return out, nil
}
