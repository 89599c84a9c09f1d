package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTriangle constructs the 3-node network used by spec.md's E1 scenario:
// A (balance) -- B -- C, all branches admittance 1.
func buildTriangle(t *testing.T) (*Network, map[string]NodeHandle) {
	t.Helper()
	bld := NewBuilder()
	zone, bld := bld.AddZone("Z1")
	a, bld := bld.AddNode("A", zone, true)
	b, bld := bld.AddNode("B", zone, false)
	c, bld := bld.AddNode("C", zone, false)
	_, bld = bld.AddBranch(Branch{ID: "AB", Origin: a, Extremity: b, Y: 1, U2Y: 1, Connected: true})
	_, bld = bld.AddBranch(Branch{ID: "BC", Origin: b, Extremity: c, Y: 1, U2Y: 1, Connected: true})
	_, bld = bld.AddBranch(Branch{ID: "CA", Origin: c, Extremity: a, Y: 1, U2Y: 1, Connected: true})
	net, err := bld.Build()
	require.NoError(t, err)
	return net, map[string]NodeHandle{"A": a, "B": b, "C": c}
}

func TestBuildTriangleSucceeds(t *testing.T) {
	net, ids := buildTriangle(t)
	assert.Equal(t, 3, net.NumNodes())
	assert.Equal(t, 3, net.NumBranches())
	assert.True(t, net.Node(ids["A"]).IsBalance)
}

func TestBuildRejectsMissingBalanceNode(t *testing.T) {
	bld := NewBuilder()
	zone, bld := bld.AddZone("Z1")
	_, bld = bld.AddNode("A", zone, false)
	_, err := bld.Build()
	assert.ErrorIs(t, err, ErrNoBalanceNode)
}

func TestBuildRejectsTwoBalanceNodes(t *testing.T) {
	bld := NewBuilder()
	zone, bld := bld.AddZone("Z1")
	_, bld = bld.AddNode("A", zone, true)
	_, bld = bld.AddNode("B", zone, true)
	_, err := bld.Build()
	assert.ErrorIs(t, err, ErrMultipleBalanceNodes)
}

func TestBuildRejectsNonPositiveAdmittanceWhenConnected(t *testing.T) {
	bld := NewBuilder()
	zone, bld := bld.AddZone("Z1")
	a, bld := bld.AddNode("A", zone, true)
	b, bld := bld.AddNode("B", zone, false)
	_, bld = bld.AddBranch(Branch{ID: "AB", Origin: a, Extremity: b, Y: 0, Connected: true})
	_, err := bld.Build()
	assert.ErrorIs(t, err, ErrNonPositiveAdmittance)
}

func TestBuildRejectsNodeWithoutZone(t *testing.T) {
	bld := NewBuilder()
	zone, bld := bld.AddZone("Z1")
	a, bld := bld.AddNode("A", zone, true)
	b, bld := bld.AddNode("B", NoHandle, false) // non-isolated once wired below
	_, bld = bld.AddBranch(Branch{ID: "AB", Origin: a, Extremity: b, Y: 1, Connected: true})
	_, err := bld.Build()
	assert.ErrorIs(t, err, ErrNodeWithoutZone)
}

func TestNodeHandleByIDRoundTrips(t *testing.T) {
	net, ids := buildTriangle(t)
	h, err := net.NodeHandleByID("B")
	require.NoError(t, err)
	assert.Equal(t, ids["B"], h)

	_, err = net.NodeHandleByID("Z")
	assert.ErrorIs(t, err, ErrUnknownNode)
}
