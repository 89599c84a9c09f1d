package scopf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metrix-scopf/metrix/internal/config"
	"github.com/metrix-scopf/metrix/internal/constraints"
	"github.com/metrix-scopf/metrix/internal/diagnostics"
	"github.com/metrix-scopf/metrix/internal/network"
	"github.com/metrix-scopf/metrix/internal/screener"
	"github.com/metrix-scopf/metrix/internal/solver"
	"github.com/metrix-scopf/metrix/internal/solver/reference"
)

func buildSimpleNet(t *testing.T) (*network.Network, network.ZoneHandle, network.GeneratorHandle) {
	t.Helper()
	bld := network.NewBuilder()
	zone, bld := bld.AddZone("Z1")
	a, bld := bld.AddNode("A", zone, true)
	b, bld := bld.AddNode("B", zone, false)
	_, bld = bld.AddBranch(network.Branch{ID: "AB", Origin: a, Extremity: b, Y: 1, Connected: true})
	gh, bld := bld.AddGenerator(network.Generator{
		ID: "G1", Host: b, P0: 10, Pmin: 0, Pmax: 50,
		Adjustability: network.AdjustBoth, CostUpHR: 2, CostDownHR: 1,
	})
	net, err := bld.Build()
	require.NoError(t, err)
	return net, zone, gh
}

func TestRunVariantTerminatesNoProblemWhenScreenerClears(t *testing.T) {
	net, zone, _ := buildSimpleNet(t)
	opts := config.Default()
	gen := constraints.New(net, opts)
	gen.AddPreventiveVariables(0, 0)
	gen.ZonalBilan(zone, 0, nil)

	drv := reference.New()
	defer drv.Release()

	l := New(opts, drv, gen, nil)

	calls := 0
	result, err := l.RunVariant(StepFuncs{
		BuildRHS:   func(sol solver.Solution) []float64 { return make([]float64, net.NumNodes()) },
		SolveTheta: func(rhs []float64) ([]float64, error) { return rhs, nil },
		Screen: func(sol solver.Solution, theta []float64) ([]screener.Violation, error) {
			calls++
			if calls == 1 {
				return []screener.Violation{{Monitor: 0, ContingencyID: "C1", Overload: 5}}, nil
			}
			return nil, nil
		},
		AddCuts: func(violations []screener.Violation) (bool, error) {
			for range violations {
				_ = gen.AddTransitCut("cut", map[int]float64{}, 0, 100, true)
			}
			return false, nil
		},
	})

	require.NoError(t, err)
	assert.Equal(t, diagnostics.NoProblem, result.Status)
	assert.Equal(t, 2, result.MicroIterations)
	assert.Equal(t, 1, result.CutsAdded)
}

func TestRunVariantHitsMicroIterCap(t *testing.T) {
	net, zone, _ := buildSimpleNet(t)
	opts := config.Default()
	opts.NbMaxMicroIterations = 2
	gen := constraints.New(net, opts)
	gen.AddPreventiveVariables(0, 0)
	gen.ZonalBilan(zone, 0, nil)

	drv := reference.New()
	defer drv.Release()

	l := New(opts, drv, gen, nil)

	result, err := l.RunVariant(StepFuncs{
		BuildRHS:   func(sol solver.Solution) []float64 { return make([]float64, net.NumNodes()) },
		SolveTheta: func(rhs []float64) ([]float64, error) { return rhs, nil },
		Screen: func(sol solver.Solution, theta []float64) ([]screener.Violation, error) {
			return []screener.Violation{{Monitor: 0, ContingencyID: "C1", Overload: 5}}, nil
		},
		AddCuts: func(violations []screener.Violation) (bool, error) {
			_ = gen.AddTransitCut("cut", map[int]float64{}, 0, 100, true)
			return false, nil
		},
	})

	require.NoError(t, err)
	assert.Equal(t, diagnostics.MicroIterExceeded, result.Status)
	assert.Equal(t, 2, result.MicroIterations)
}

func TestRunVariantMissingStepFuncsErrors(t *testing.T) {
	net, zone, _ := buildSimpleNet(t)
	opts := config.Default()
	gen := constraints.New(net, opts)
	gen.ZonalBilan(zone, 0, nil)
	drv := reference.New()
	defer drv.Release()

	l := New(opts, drv, gen, nil)
	_, err := l.RunVariant(StepFuncs{})
	assert.ErrorIs(t, err, ErrMissingStepFuncs)
}
