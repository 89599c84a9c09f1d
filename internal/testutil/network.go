// Package testutil builds three small reference networks (E1, E2 and E4)
// so every package's tests can share one grounded fixture instead of
// re-deriving a slightly different triangle net each time.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/metrix-scopf/metrix/internal/network"
)

// Triangle is scenario E1: a three-node triangle, all branches admittance
// 1, node A is the zone's balance node, a generator at B and a load at C.
type Triangle struct {
	Net  *network.Network
	Zone network.ZoneHandle
	A, B, C network.NodeHandle
	AB, BC  network.BranchHandle
	Gen     network.GeneratorHandle
	Load    network.LoadHandle
}

// BuildTriangle constructs E1 with a simple cost and bound set: generator
// cost 1 both directions, P0=50, load value 50.
func BuildTriangle(t *testing.T) Triangle {
	t.Helper()
	bld := network.NewBuilder()
	zone, bld := bld.AddZone("Z1")
	a, bld := bld.AddNode("A", zone, true)
	b, bld := bld.AddNode("B", zone, false)
	c, bld := bld.AddNode("C", zone, false)
	ab, bld := bld.AddBranch(network.Branch{
		ID: "AB", Origin: a, Extremity: b, Y: 1, U2Y: 1, Connected: true,
		ThresholdN: 1000, ThresholdNk: 1000,
	})
	bc, bld := bld.AddBranch(network.Branch{
		ID: "BC", Origin: b, Extremity: c, Y: 1, U2Y: 1, Connected: true,
		ThresholdN: 1000, ThresholdNk: 30,
	})
	_, bld = bld.AddBranch(network.Branch{
		ID: "CA", Origin: c, Extremity: a, Y: 1, U2Y: 1, Connected: true,
		ThresholdN: 1000, ThresholdNk: 1000,
	})
	gen, bld := bld.AddGenerator(network.Generator{
		ID: "G1", Host: b, P0: 50, Pmin: 0, Pmax: 100,
		Adjustability: network.AdjustBoth,
		CostUpHR: 1, CostUpAR: 1, CostDownHR: 1, CostDownAR: 1,
	})
	load, bld := bld.AddLoad(network.Load{
		ID: "L1", Host: c, Value: 50, ShedCost: 100, ShedPercentageCap: 0.2,
		CurativeEffacementPercentage: 0.5,
	})
	net, err := bld.Build()
	require.NoError(t, err)
	return Triangle{Net: net, Zone: zone, A: a, B: b, C: c, AB: ab, BC: bc, Gen: gen, Load: load}
}

// TwoZoneHVDC is scenario E2: two synchronous zones joined by a single
// imposed-power HVDC link, one surplus generator and one deficit load.
type TwoZoneHVDC struct {
	Net              *network.Network
	Zone1, Zone2     network.ZoneHandle
	Node1, Node2     network.NodeHandle
	HVDC             network.HVDCHandle
	Gen              network.GeneratorHandle
	Load             network.LoadHandle
}

// BuildTwoZoneHVDC constructs E2: zone 1 has a 100 MW surplus generator,
// zone 2 a 100 MW deficit load, linked by one HVDC at imposed 100 MW.
func BuildTwoZoneHVDC(t *testing.T) TwoZoneHVDC {
	t.Helper()
	bld := network.NewBuilder()
	z1, bld := bld.AddZone("Z1")
	z2, bld := bld.AddZone("Z2")
	n1, bld := bld.AddNode("N1", z1, true)
	n2, bld := bld.AddNode("N2", z2, true)
	hv, bld := bld.AddHVDC(network.HVDCLink{
		ID: "HVDC1", Origin: n1, Extremity: n2,
		Mode: network.HVDCImposedPower, SetPoint: 100, PMin: -200, PMax: 200,
	})
	gen, bld := bld.AddGenerator(network.Generator{
		ID: "G1", Host: n1, P0: 100, Pmin: 0, Pmax: 150,
		Adjustability: network.AdjustBoth, CostUpHR: 5, CostDownHR: 5,
	})
	load, bld := bld.AddLoad(network.Load{ID: "L1", Host: n2, Value: 100, ShedCost: 100})
	net, err := bld.Build()
	require.NoError(t, err)
	return TwoZoneHVDC{Net: net, Zone1: z1, Zone2: z2, Node1: n1, Node2: n2, HVDC: hv, Gen: gen, Load: load}
}

// LostPocket is scenario E4: a contingency disconnects a node (P) hosting
// a generator and a load, isolating a "pocket" from the rest of the grid.
type LostPocket struct {
	Net         *network.Network
	Zone        network.ZoneHandle
	Rest, P     network.NodeHandle
	Link        network.BranchHandle
	PocketGen   network.GeneratorHandle
	PocketLoad  network.LoadHandle
	RestGen     network.GeneratorHandle
}

// BuildLostPocket constructs E4: node P hosts a 30 MW generator and a
// 10 MW load, linked to the rest of the grid by a single branch; the rest
// of the grid carries a participation-eligible generator to absorb the
// pocket's net injection when the link trips.
func BuildLostPocket(t *testing.T) LostPocket {
	t.Helper()
	bld := network.NewBuilder()
	zone, bld := bld.AddZone("Z1")
	rest, bld := bld.AddNode("REST", zone, true)
	p, bld := bld.AddNode("P", zone, false)
	link, bld := bld.AddBranch(network.Branch{
		ID: "LINK", Origin: rest, Extremity: p, Y: 2, U2Y: 2, Connected: true,
		ThresholdN: 1000, ThresholdNk: 1000,
	})
	pocketGen, bld := bld.AddGenerator(network.Generator{
		ID: "GP", Host: p, P0: 30, Pmin: 0, Pmax: 40,
		Adjustability: network.AdjustNone, ParticipationFactor: 0,
	})
	pocketLoad, bld := bld.AddLoad(network.Load{ID: "LP", Host: p, Value: 10})
	restGen, bld := bld.AddGenerator(network.Generator{
		ID: "GR", Host: rest, P0: 0, Pmin: 0, Pmax: 200,
		Adjustability: network.AdjustBoth, ParticipationFactor: 1,
	})
	net, err := bld.Build()
	require.NoError(t, err)
	return LostPocket{Net: net, Zone: zone, Rest: rest, P: p, Link: link, PocketGen: pocketGen, PocketLoad: pocketLoad, RestGen: restGen}
}
