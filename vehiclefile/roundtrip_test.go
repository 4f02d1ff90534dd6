// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package vehiclefile

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/galvanizedlogic/vehiclecore/machine"
	"github.com/galvanizedlogic/vehiclecore/rigidworld"
	"github.com/galvanizedlogic/vehiclecore/vehicle"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureTOML is a hand-authored vehicle file mirroring scenario S4: a tank
// feeding a valve (attached at load time, not declared by its part's
// prototype) feeding a second tank. Part and piece ids are deliberately
// sparse and out of save order (5, 2, 9 / 100, 50, 77) so a round trip
// through Save exercises §6.1's "fresh sequential ids starting at 1" rule
// rather than trivially reproducing an already-dense numbering.
const fixtureTOML = `
part_id = 9
piece_id = 100
group_names = ["stage1"]

[[part]]
id = 5
group_id = -1
proto = "core:tank"

[[part]]
id = 2
group_id = -1
proto = "core:valve_carrier"

  [[part.attached_machine]]
  __attached_machine_id = 0
  kind = "valve"
    [part.attached_machine.init]
    pressure_drop = 5.0

[[part]]
id = 9
group_id = -1
proto = "core:sink"

[[piece]]
id = 100
part = 5
node = "p_root"
root = true
transform = [1,0,0,0, 0,1,0,0, 0,0,1,0, 0,0,0,1]

[[piece]]
id = 50
part = 2
node = "p_root"
root = false
transform = [1,0,0,0, 0,1,0,0, 0,0,1,0, 1,0,0,1]

  [piece.link]
  to = 100
  welded = false
  type = "rigid"

[[piece]]
id = 77
part = 9
node = "p_root"
root = false
transform = [1,0,0,0, 0,1,0,0, 0,0,1,0, 2,0,0,1]

  [piece.link]
  to = 50
  welded = false
  type = "rigid"

[[wire]]
from = 5
to = 2
fmachine = "tank_m"
tmachine = "_attached_0"

[[pipe]]
index = 0
from_part = 5
from_machine = "tank_m"
from_port = "out"
to_part = 2
to_attached_machine = 0
to_port = "in"

[[pipe]]
index = 1
from_part = 2
from_attached_machine = 0
from_port = "out"
to_part = 9
to_machine = "sink_m"
to_port = "out"
`

func fixtureResolver() Resolver {
	protos := map[string]*PartPrototype{
		"core:tank": {
			Pieces: map[string]PieceTemplate{
				"p_root": {Mass: 10, Collider: rigidworld.NewBox(0.5, 0.5, 0.5)},
			},
			Machines: []MachineTemplate{
				{Kind: "tank", ID: "tank_m", Init: machine.Init{"pressure": 100.0}},
			},
		},
		"core:valve_carrier": {
			Pieces: map[string]PieceTemplate{
				"p_root": {Mass: 1, Collider: rigidworld.NewBox(0.2, 0.2, 0.2)},
			},
		},
		"core:sink": {
			Pieces: map[string]PieceTemplate{
				"p_root": {Mass: 10, Collider: rigidworld.NewBox(0.5, 0.5, 0.5)},
			},
			Machines: []MachineTemplate{
				{Kind: "tank", ID: "sink_m", Init: machine.Init{"pressure": 10.0}},
			},
		},
	}
	return func(proto string) (*PartPrototype, error) {
		p, ok := protos[proto]
		if !ok {
			return nil, fmt.Errorf("unknown proto %q", proto)
		}
		return p, nil
	}
}

func findPartByProto(v *vehicle.Vehicle, proto string) *vehicle.Part {
	for _, p := range v.Parts {
		if p.Proto == proto {
			return p
		}
	}
	return nil
}

func partByID(v *vehicle.Vehicle, id int) *vehicle.Part {
	for _, p := range v.Parts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func childOf(v *vehicle.Vehicle, parent *vehicle.Piece) *vehicle.Piece {
	for _, p := range v.Pieces {
		if p.AttachedTo == parent {
			return p
		}
	}
	return nil
}

// TestLoadSaveRoundTrip covers scenario S6 and testable property 5: loading
// a file, saving it back out, and loading the result again must reproduce
// the same topology up to id renumbering and array-ordering.
func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path1 := filepath.Join(dir, "v1.toml")
	require.NoError(t, os.WriteFile(path1, []byte(fixtureTOML), 0o644))

	ctx := vehicle.NewContext(zerolog.Nop(), nil, nil)
	resolve := fixtureResolver()

	v1, err := Load(ctx, path1, resolve)
	require.NoError(t, err)

	path2 := filepath.Join(dir, "v2.toml")
	require.NoError(t, Save(v1, path2))

	v2, err := Load(ctx, path2, resolve)
	require.NoError(t, err)

	assert.Equal(t, len(v1.Parts), len(v2.Parts))
	assert.Equal(t, len(v1.Pieces), len(v2.Pieces))
	assert.Equal(t, v1.GroupNames, v2.GroupNames)

	// Ids are dense and start at 1 in the re-saved file.
	for _, p := range v2.Parts {
		assert.GreaterOrEqual(t, p.ID, 1)
		assert.LessOrEqual(t, p.ID, len(v2.Parts))
	}
	for _, p := range v2.Pieces {
		assert.GreaterOrEqual(t, p.ID, 1)
		assert.LessOrEqual(t, p.ID, len(v2.Pieces))
	}

	// Attachment chain survives: tank -> valve carrier -> sink, regardless
	// of which numeric ids the pieces ended up with.
	tank2 := findPartByProto(v2, "core:tank")
	valveCarrier2 := findPartByProto(v2, "core:valve_carrier")
	sink2 := findPartByProto(v2, "core:sink")
	require.NotNil(t, tank2)
	require.NotNil(t, valveCarrier2)
	require.NotNil(t, sink2)

	assert.Equal(t, "core:tank", v2.Root.Part.Proto)
	rootChild := childOf(v2, v2.Root)
	require.NotNil(t, rootChild)
	assert.Equal(t, "core:valve_carrier", rootChild.Part.Proto)
	grandchild := childOf(v2, rootChild)
	require.NotNil(t, grandchild)
	assert.Equal(t, "core:sink", grandchild.Part.Proto)

	// The wire between the tank's declared machine and the valve carrier's
	// attached machine survives the round trip (exercises saveWires
	// covering attached, not just declared, machines).
	fromKey2 := wireKey(tank2.ID, "tank_m")
	toKey2 := wireKey(valveCarrier2.ID, "_attached_0")
	assert.Contains(t, v2.Wires.Connected(fromKey2), toKey2)

	// Pipe topology survives in the same order, resolved against each
	// vehicle's own (possibly renumbered) part ids.
	require.Len(t, v2.Plumbing.Pipes, 2)
	owners1 := buildPortOwners(v1)
	owners2 := buildPortOwners(v2)
	for i, p1 := range v1.Plumbing.Pipes {
		p2 := v2.Plumbing.Pipes[i]
		assertSameEndpoint(t, v1, v2, owners1[p1.A], owners2[p2.A])
		assertSameEndpoint(t, v1, v2, owners1[p1.B], owners2[p2.B])
		assert.Equal(t, p1.A.ID, p2.A.ID)
		assert.Equal(t, p1.B.ID, p2.B.ID)
	}
}

// machineOverrideTOML is a single-part fixture exercising the
// [part.machine_overrides] table: a declared tank machine with a nonzero
// editor position and rotation.
const machineOverrideTOML = `
part_id = 1
piece_id = 1

[[part]]
id = 1
group_id = -1
proto = "core:tank"

  [part.machine_overrides.tank_m]
  plumbing_rot = 90
  plumbing_pos_x = 3
  plumbing_pos_y = 7

[[piece]]
id = 1
part = 1
node = "p_root"
root = true
transform = [1,0,0,0, 0,1,0,0, 0,0,1,0, 0,0,0,1]
`

// TestMachineEditorLayoutRoundTrip covers §6.1's round-trip contract for a
// declared machine's editor layout: Load must apply a [part.machine_overrides]
// entry to the constructed machine's PlumbingMachine, and Save must write it
// back out unchanged.
func TestMachineEditorLayoutRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path1 := filepath.Join(dir, "v1.toml")
	require.NoError(t, os.WriteFile(path1, []byte(machineOverrideTOML), 0o644))

	ctx := vehicle.NewContext(zerolog.Nop(), nil, nil)
	resolve := fixtureResolver()

	v1, err := Load(ctx, path1, resolve)
	require.NoError(t, err)

	tank := v1.Parts[0]
	m, ok := tank.GetMachine("tank_m")
	require.True(t, ok)
	plumber, ok := m.(machine.Plumber)
	require.True(t, ok)
	pm := plumber.Plumbing()
	assert.Equal(t, 3, pm.EditorPositionX)
	assert.Equal(t, 7, pm.EditorPositionY)
	assert.Equal(t, 90, pm.EditorRotation)

	path2 := filepath.Join(dir, "v2.toml")
	require.NoError(t, Save(v1, path2))

	v2, err := Load(ctx, path2, resolve)
	require.NoError(t, err)

	m2, ok := v2.Parts[0].GetMachine("tank_m")
	require.True(t, ok)
	plumber2, ok := m2.(machine.Plumber)
	require.True(t, ok)
	pm2 := plumber2.Plumbing()
	assert.Equal(t, 3, pm2.EditorPositionX)
	assert.Equal(t, 7, pm2.EditorPositionY)
	assert.Equal(t, 90, pm2.EditorRotation)
}

// assertSameEndpoint compares two portOwners by the stable identifiers that
// survive renumbering: the owning part's proto string and the machine id
// (declared machines keep their own id; attached machines keep their
// insertion-order slot).
func assertSameEndpoint(t *testing.T, v1, v2 *vehicle.Vehicle, o1, o2 portOwner) {
	t.Helper()
	p1 := partByID(v1, o1.partID)
	p2 := partByID(v2, o2.partID)
	require.NotNil(t, p1)
	require.NotNil(t, p2)
	assert.Equal(t, p1.Proto, p2.Proto)
	assert.Equal(t, o1.machineID, o2.machineID)
	assert.Equal(t, o1.attached == nil, o2.attached == nil)
	if o1.attached != nil && o2.attached != nil {
		assert.Equal(t, *o1.attached, *o2.attached)
	}
}
