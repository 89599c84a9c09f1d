package reference

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metrix-scopf/metrix/internal/solver"
)

func TestSolveLPSimpleMinimum(t *testing.T) {
	p := solver.Problem{
		Variables: []solver.Variable{
			{Name: "x", Lower: 0, Upper: 10, Cost: 1},
			{Name: "y", Lower: 0, Upper: 10, Cost: 1},
		},
		Rows: []solver.Row{
			{Name: "sum_ge_2", Coeffs: map[int]float64{0: 1, 1: 1}, Sense: solver.GE, RHS: 2},
		},
	}
	drv := New()
	defer drv.Release()

	sol, err := drv.SolveLP(p, nil)
	require.NoError(t, err)
	assert.Equal(t, solver.StatusOptimal, sol.Status)
	assert.InDelta(t, 2.0, sol.ObjectiveVal, 1e-6)
	assert.InDelta(t, 2.0, sol.Primal[0]+sol.Primal[1], 1e-6)
}

func TestSolveLPInfeasible(t *testing.T) {
	p := solver.Problem{
		Variables: []solver.Variable{
			{Name: "x", Lower: 0, Upper: 1, Cost: 1},
		},
		Rows: []solver.Row{
			{Name: "x_ge_5", Coeffs: map[int]float64{0: 1}, Sense: solver.GE, RHS: 5},
		},
	}
	drv := New()
	defer drv.Release()

	sol, err := drv.SolveLP(p, nil)
	require.NoError(t, err)
	assert.Equal(t, solver.StatusInfeasible, sol.Status)
}

func TestSolveMIPForcesBinaryToOne(t *testing.T) {
	p := solver.Problem{
		Variables: []solver.Variable{
			{Name: "a", Lower: 0, Upper: 1, Kind: solver.Binary, Cost: 3},
			{Name: "p", Lower: 0, Upper: 10, Cost: 1},
		},
		Rows: []solver.Row{
			// p <= 4*a: p can reach 4 only when the binary a is 1.
			{Name: "link", Coeffs: map[int]float64{1: 1, 0: -4}, Sense: solver.LE, RHS: 0},
			{Name: "p_ge_4", Coeffs: map[int]float64{1: 1}, Sense: solver.GE, RHS: 4},
		},
	}
	drv := New()
	defer drv.Release()

	sol, err := drv.SolveMIP(p, nil)
	require.NoError(t, err)
	assert.Contains(t, []solver.Status{solver.StatusOptimal, solver.StatusFeasible}, sol.Status)
	assert.True(t, math.Abs(sol.Primal[0]-1) < 1e-6)
}

func TestSolveLPAfterReleaseErrors(t *testing.T) {
	drv := New()
	require.NoError(t, drv.Release())
	_, err := drv.SolveLP(solver.Problem{Variables: []solver.Variable{{Upper: 1}}}, nil)
	assert.ErrorIs(t, err, ErrReleased)
}
