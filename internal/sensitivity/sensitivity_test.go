package sensitivity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metrix-scopf/metrix/internal/network"
)

// buildTriangle mirrors spec.md's E1 scenario: A (balance) -- B -- C,
// all branches admittance 1.
func buildTriangle(t *testing.T) (*network.Network, map[string]network.NodeHandle, map[string]network.BranchHandle) {
	t.Helper()
	bld := network.NewBuilder()
	zone, bld := bld.AddZone("Z1")
	a, bld := bld.AddNode("A", zone, true)
	b, bld := bld.AddNode("B", zone, false)
	c, bld := bld.AddNode("C", zone, false)
	ab, bld := bld.AddBranch(network.Branch{ID: "AB", Origin: a, Extremity: b, Y: 1, U2Y: 1, Connected: true})
	bc, bld := bld.AddBranch(network.Branch{ID: "BC", Origin: b, Extremity: c, Y: 1, U2Y: 1, Connected: true})
	ca, bld := bld.AddBranch(network.Branch{ID: "CA", Origin: c, Extremity: a, Y: 1, U2Y: 1, Connected: true})
	net, err := bld.Build()
	require.NoError(t, err)
	return net, map[string]network.NodeHandle{"A": a, "B": b, "C": c},
		map[string]network.BranchHandle{"AB": ab, "BC": bc, "CA": ca}
}

func TestFactorAndSolveIdentity(t *testing.T) {
	m := NewDense(2)
	m.Set(0, 0, 2)
	m.Set(1, 1, 3)
	fact, err := Factor(m, 1e-9)
	require.NoError(t, err)
	x, err := fact.Solve([]float64{4, 9})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, x[0], 1e-9)
	assert.InDelta(t, 3.0, x[1], 1e-9)
}

func TestFactorRejectsPivotBelowMinimum(t *testing.T) {
	m := NewDense(2)
	m.Set(0, 0, 1e-10)
	m.Set(1, 1, 1)
	_, err := Factor(m, 1e-5)
	assert.ErrorIs(t, err, ErrSingular)
}

func TestBuildBPrimeBalanceRowIsIdentity(t *testing.T) {
	net, ids, _ := buildTriangle(t)
	bp := BuildBPrime(net)
	a := int(ids["A"])
	assert.Equal(t, 1.0, bp.At(a, a))
	for j := 0; j < bp.N(); j++ {
		if j != a {
			assert.Equal(t, 0.0, bp.At(a, j))
		}
	}
}

func TestPTDFZeroedAtBalanceNode(t *testing.T) {
	net, ids, branches := buildTriangle(t)
	eng, err := NewEngine(net, 1e-5)
	require.NoError(t, err)

	v, err := eng.PTDF(branches["BC"])
	require.NoError(t, err)
	assert.Equal(t, 0.0, v[ids["A"]])
}

func TestLODFSingleTriangleOutageNotConnectivityBreaking(t *testing.T) {
	net, _, branches := buildTriangle(t)
	eng, err := NewEngine(net, 1e-5)
	require.NoError(t, err)

	ab := net.Branch(branches["AB"])
	bc := net.Branch(branches["BC"])
	// Outaging AB in this tiny triangle still leaves the graph connected
	// via CA-BC, so this should NOT be connectivity-breaking.
	_, err = eng.LODFSingle(ab, []network.Branch{bc}, 1e-9)
	assert.NoError(t, err)
}

func TestGenerationLossInfluenceZeroWhenNoTripped(t *testing.T) {
	net, _, branches := buildTriangle(t)
	eng, err := NewEngine(net, 1e-5)
	require.NoError(t, err)
	bc := net.Branch(branches["BC"])

	out, err := eng.GenerationLossInfluence(nil, nil, []network.Branch{bc})
	require.NoError(t, err)
	assert.Equal(t, 0.0, out[branches["BC"]])
}

func TestTopologyKeyOrderIndependent(t *testing.T) {
	k1 := TopologyKey([]network.BranchHandle{2, 1}, []network.BranchHandle{5})
	k2 := TopologyKey([]network.BranchHandle{1, 2}, []network.BranchHandle{5})
	assert.Equal(t, k1, k2)
}

func TestFactorPocketPinsPocketNodes(t *testing.T) {
	net, ids, _ := buildTriangle(t)
	pf, err := FactorPocket(net, []network.NodeHandle{ids["C"]}, 1e-5)
	require.NoError(t, err)

	theta, err := pf.SolveTheta(make([]float64, net.NumNodes()))
	require.NoError(t, err)
	assert.True(t, math.Abs(theta[ids["C"]]) < 1e-12)
}
