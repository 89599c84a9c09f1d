package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metrix-scopf/metrix/internal/network"
)

func buildTestNet(t *testing.T) (*network.Network, network.BranchHandle, network.GeneratorHandle) {
	t.Helper()
	bld := network.NewBuilder()
	zone, bld := bld.AddZone("Z1")
	a, bld := bld.AddNode("A", zone, true)
	b, bld := bld.AddNode("B", zone, false)
	br, bld := bld.AddBranch(network.Branch{ID: "AB", Origin: a, Extremity: b, Y: 1, Connected: true, ThresholdN: 100})
	g, bld := bld.AddGenerator(network.Generator{ID: "G1", Host: b, P0: 10, Pmin: 0, Pmax: 50})
	net, err := bld.Build()
	require.NoError(t, err)
	return net, br, g
}

func TestApplyThenRollbackRestoresState(t *testing.T) {
	net, br, g := buildTestNet(t)

	ov := New("v1")
	ov.Add(BranchOutage{Branch: br, Open: true})
	ov.Add(GeneratorScheduleEdit{Generator: g, P0: 20, Pmin: 5, Pmax: 40})

	require.NoError(t, ov.Apply(net))
	assert.False(t, net.Branch(br).Connected)
	assert.Equal(t, 20.0, net.Generator(g).P0)

	require.NoError(t, ov.Rollback(net))
	assert.True(t, net.Branch(br).Connected)
	assert.Equal(t, 10.0, net.Generator(g).P0)
	assert.Equal(t, 0.0, net.Generator(g).Pmin)
	assert.Equal(t, 50.0, net.Generator(g).Pmax)
}

func TestDoubleApplyRejected(t *testing.T) {
	net, br, _ := buildTestNet(t)
	ov := New("v1")
	ov.Add(BranchOutage{Branch: br, Open: true})
	require.NoError(t, ov.Apply(net))
	assert.ErrorIs(t, ov.Apply(net), ErrAlreadyApplied)
}

func TestRollbackWithoutApplyRejected(t *testing.T) {
	net, _, _ := buildTestNet(t)
	ov := New("v1")
	assert.ErrorIs(t, ov.Rollback(net), ErrNotApplied)
}

func TestOutageOfAlreadyOpenBranchIsIgnored(t *testing.T) {
	net, br, _ := buildTestNet(t)
	net.SetBranchConnected(br, false) // pre-open, outside any overlay

	ov := New("v1")
	ov.Add(BranchOutage{Branch: br, Open: true})
	err := ov.Apply(net)
	assert.ErrorIs(t, err, ErrOutageAlreadyOpen)
	assert.False(t, ov.Applied())
}

func TestThresholdEditRoundTrips(t *testing.T) {
	net, br, _ := buildTestNet(t)
	ov := New("v1")
	ov.Add(ThresholdEdit{Branch: br, ThresholdN: 30, ThresholdNk: 20, ThresholdBeforeCurative: 25, ThresholdITAM: 15})
	require.NoError(t, ov.Apply(net))
	assert.Equal(t, 30.0, net.Branch(br).ThresholdN)
	require.NoError(t, ov.Rollback(net))
	assert.Equal(t, 100.0, net.Branch(br).ThresholdN)
}
