package constraints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metrix-scopf/metrix/internal/config"
	"github.com/metrix-scopf/metrix/internal/contingency"
	"github.com/metrix-scopf/metrix/internal/network"
	"github.com/metrix-scopf/metrix/internal/solver"
)

func buildNet(t *testing.T) (*network.Network, network.ZoneHandle, network.GeneratorHandle, network.LoadHandle) {
	t.Helper()
	bld := network.NewBuilder()
	zone, bld := bld.AddZone("Z1")
	a, bld := bld.AddNode("A", zone, true)
	b, bld := bld.AddNode("B", zone, false)
	c, bld := bld.AddNode("C", zone, false)
	_, bld = bld.AddBranch(network.Branch{ID: "AB", Origin: a, Extremity: b, Y: 1, Connected: true})
	_, bld = bld.AddBranch(network.Branch{ID: "BC", Origin: b, Extremity: c, Y: 1, Connected: true})
	gh, bld := bld.AddGenerator(network.Generator{
		ID: "G1", Host: b, P0: 50, Pmin: 0, Pmax: 100,
		Adjustability: network.AdjustBoth, CostUpHR: 10, CostDownHR: 8,
	})
	lh, bld := bld.AddLoad(network.Load{
		ID: "L1", Host: c, Value: 50, ShedCost: 100, ShedPercentageCap: 0.2,
		CurativeEffacementPercentage: 0.5,
	})
	net, err := bld.Build()
	require.NoError(t, err)
	return net, zone, gh, lh
}

func TestAddPreventiveVariablesCreatesGenAndLoadVars(t *testing.T) {
	net, _, gh, lh := buildNet(t)
	g := New(net, config.Default())
	g.AddPreventiveVariables(0, 0)

	up, down := g.GeneratorVars(gh)
	assert.GreaterOrEqual(t, up, 0)
	assert.GreaterOrEqual(t, down, 0)

	prob := g.Problem()
	assert.InDelta(t, 50, prob.Variables[up].Upper, 1e-9) // Pmax-P0 = 50
	assert.InDelta(t, 50, prob.Variables[down].Upper, 1e-9) // P0-Pmin = 50

	shedIdx, ok := g.loadShed[lh]
	require.True(t, ok)
	assert.InDelta(t, 10, prob.Variables[shedIdx].Upper, 1e-9) // 50*0.2
}

func TestZonalBilanRowIncludesGeneratorAndLoadCoefficients(t *testing.T) {
	net, zone, gh, lh := buildNet(t)
	g := New(net, config.Default())
	g.AddPreventiveVariables(0, 0)
	g.ZonalBilan(zone, 0, nil)

	prob := g.Problem()
	require.Len(t, prob.Rows, 1)
	row := prob.Rows[0]
	up, down := g.GeneratorVars(gh)
	assert.Equal(t, 1.0, row.Coeffs[up])
	assert.Equal(t, -1.0, row.Coeffs[down])
	shedIdx := g.loadShed[lh]
	assert.Equal(t, 1.0, row.Coeffs[shedIdx])
	assert.Equal(t, solver.EQ, row.Sense)
}

func TestAddTransitCutDropsSmallCoefficientsAndAppliesAcceptableDiff(t *testing.T) {
	net, _, gh, _ := buildNet(t)
	g := New(net, config.Default())
	g.AddPreventiveVariables(0, 0)
	up, _ := g.GeneratorVars(gh)

	coeffs := map[int]float64{up: 0.5, 999: 1e-9}
	err := g.AddTransitCut("cut1", coeffs, 0, 100, true)
	require.NoError(t, err)

	prob := g.Problem()
	row := prob.Rows[len(prob.Rows)-1]
	_, dropped := row.Coeffs[999]
	assert.False(t, dropped)
	assert.InDelta(t, 100-config.Default().AcceptableDiff, row.RHS, 1e-9)
}

func TestAddCurativeElementCreatesBoundAndTiedRows(t *testing.T) {
	net, _, gh, _ := buildNet(t)
	g := New(net, config.Default())
	g.AddPreventiveVariables(0, 0)

	ce := contingency.CurativeElement{Kind: contingency.CurativeGenerator, Ref: int(gh)}
	bounds, err := contingency.ApplyCurative(net, ce, 50)
	require.NoError(t, err)

	beforeRows := len(g.Problem().Rows)
	key, err := g.AddCurativeElement("C1", ce, bounds, true, 5)
	require.NoError(t, err)

	plus, minus, activation, err := g.CurativeVars(key)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, plus, 0)
	assert.GreaterOrEqual(t, minus, 0)
	assert.GreaterOrEqual(t, activation, 0)

	prob := g.Problem()
	assert.Greater(t, len(prob.Rows), beforeRows)
	assert.Equal(t, solver.Binary, prob.Variables[activation].Kind)
}

func TestEquivalentParadeCutReusesSiblingDelta(t *testing.T) {
	net, _, _, _ := buildNet(t)
	g := New(net, config.Default())

	father := &contingency.Incident{ID: "F1"}
	p1 := &contingency.Parade{ID: "P1", Father: father}
	p2 := &contingency.Parade{ID: "P2", Father: father}
	g.AddParadeActivation(p1, 1, 0.01)
	g.AddParadeActivation(p2, 1, 0.01)

	coeffs := map[int]float64{0: 1.0}
	g.RecordParadeCut(father.ID, p1.ID, coeffs, 42.0)

	sibling, found := g.EquivalentParadeCut(father.ID, map[int]float64{0: 1.0}, 42.0)
	assert.True(t, found)
	assert.Equal(t, p1.ID, sibling)

	_, found2 := g.EquivalentParadeCut(father.ID, map[int]float64{0: 2.0}, 42.0)
	assert.False(t, found2)
}

func TestTopologyExclusivityRequiresKnownParades(t *testing.T) {
	net, _, _, _ := buildNet(t)
	g := New(net, config.Default())
	err := g.TopologyExclusivity("F1", []string{"unknown"})
	assert.ErrorIs(t, err, ErrNoParades)
}

func TestConstraintBudgetExceeded(t *testing.T) {
	net, _, _, _ := buildNet(t)
	opts := config.Default()
	opts.NbMaxConstraints = 1
	g := New(net, opts)

	require.NoError(t, g.AddTransitCut("cut1", map[int]float64{}, 0, 10, true))
	err := g.AddTransitCut("cut2", map[int]float64{}, 0, 10, true)
	assert.ErrorIs(t, err, ErrConstraintBudgetExceeded)
}
