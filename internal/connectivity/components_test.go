package connectivity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metrix-scopf/metrix/internal/network"
)

func buildLine(t *testing.T) (*network.Network, network.NodeHandle, network.NodeHandle, network.NodeHandle, network.BranchHandle, network.BranchHandle) {
	t.Helper()
	bld := network.NewBuilder()
	zone, bld := bld.AddZone("Z1")
	a, bld := bld.AddNode("A", zone, true)
	b, bld := bld.AddNode("B", zone, false)
	c, bld := bld.AddNode("C", zone, false)
	ab, bld := bld.AddBranch(network.Branch{ID: "AB", Origin: a, Extremity: b, Y: 1, Connected: true})
	bc, bld := bld.AddBranch(network.Branch{ID: "BC", Origin: b, Extremity: c, Y: 1, Connected: true})
	net, err := bld.Build()
	require.NoError(t, err)
	return net, a, b, c, ab, bc
}

func TestReachableFromFullLine(t *testing.T) {
	net, a, _, c, _, _ := buildLine(t)
	reach, err := ReachableFrom(net, a)
	require.NoError(t, err)
	assert.Len(t, reach, 3)
	_ = c
}

func TestDisconnectsDetectsPocket(t *testing.T) {
	net, a, b, c, _, bc := buildLine(t)
	net.SetBranchConnected(bc, false)

	cut, err := Disconnects(net, a, []network.NodeHandle{b, c})
	require.NoError(t, err)
	assert.False(t, cut[b])
	assert.True(t, cut[c])
}

func TestComponentsSplitsOnOutage(t *testing.T) {
	net, _, _, _, _, bc := buildLine(t)
	net.SetBranchConnected(bc, false)
	comps := Components(net)
	assert.Len(t, comps, 2)
}
