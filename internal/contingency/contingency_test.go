package contingency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metrix-scopf/metrix/internal/network"
)

func buildNet(t *testing.T) *network.Network {
	t.Helper()
	bld := network.NewBuilder()
	zone, bld := bld.AddZone("Z1")
	a, bld := bld.AddNode("A", zone, true)
	b, bld := bld.AddNode("B", zone, false)
	_, bld = bld.AddGenerator(network.Generator{ID: "G1", Host: b, Pmin: 0, Pmax: 40})
	_, bld = bld.AddLoad(network.Load{ID: "L1", Host: b, Value: -20, CurativeEffacementPercentage: 0.5})
	_ = a
	net, err := bld.Build()
	require.NoError(t, err)
	return net
}

func TestApplyCurativeGenerator(t *testing.T) {
	net := buildNet(t)
	bounds, err := ApplyCurative(net, CurativeElement{Kind: CurativeGenerator, Ref: 0}, 10)
	require.NoError(t, err)
	assert.Equal(t, 10.0, bounds.PreventiveValue)
	assert.Equal(t, 0.0, bounds.Pmin)
	assert.Equal(t, 40.0, bounds.Pmax)
}

func TestApplyCurativeLoadEffacementCeiling(t *testing.T) {
	net := buildNet(t)
	bounds, err := ApplyCurative(net, CurativeElement{Kind: CurativeLoad, Ref: 0}, 0)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, bounds.Pmax, 1e-9) // |value|=20 * 0.5
}

func TestApplyCurativeUnknownKind(t *testing.T) {
	net := buildNet(t)
	_, err := ApplyCurative(net, CurativeElement{Kind: CurativeKind(99)}, 0)
	assert.ErrorIs(t, err, ErrUnknownCurativeKind)
}

func TestParadeSharesFatherTrippedSet(t *testing.T) {
	father := &Incident{ID: "C1", TrippedBranches: []network.BranchHandle{0}, Valid: true}
	p := &Parade{ID: "C1-P1", Father: father, ActivationVar: -1}
	father.Parades = append(father.Parades, p)
	assert.Same(t, father, p.Father)
	assert.Len(t, father.Parades, 1)
}
