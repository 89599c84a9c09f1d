package collator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metrix-scopf/metrix/internal/solver"
)

func TestComputeMarginVariationsIdentityBasis(t *testing.T) {
	prob := solver.Problem{
		Variables: []solver.Variable{{Name: "x", Upper: 10}, {Name: "y", Upper: 10}},
		Rows: []solver.Row{
			{Name: "r0", Coeffs: map[int]float64{0: 1}, Sense: solver.LE, RHS: 5},
			{Name: "r1", Coeffs: map[int]float64{1: 1}, Sense: solver.LE, RHS: 7},
		},
	}
	sol := solver.Solution{
		Primal: []float64{5, 7},
		Basis: solver.BasisInfo{
			BasicVariables: []int{0, 1},
		},
	}

	c := New(prob, sol)
	mv, err := c.ComputeMarginVariations([]int{0, 1}, []int{0, 1}, 1e-9)
	require.NoError(t, err)
	require.Len(t, mv, 2)

	assert.InDelta(t, 1.0, mv[0].Values[0], 1e-9)
	assert.InDelta(t, 0.0, mv[0].Values[1], 1e-9)
	assert.InDelta(t, 1.0, mv[1].Values[1], 1e-9)
}

func TestComputeMarginVariationsWithSlackColumn(t *testing.T) {
	prob := solver.Problem{
		Variables: []solver.Variable{{Name: "x", Upper: 10}},
		Rows: []solver.Row{
			{Name: "r0", Coeffs: map[int]float64{0: 1}, Sense: solver.LE, RHS: 5},
			{Name: "r1", Coeffs: map[int]float64{0: 2}, Sense: solver.LE, RHS: 20},
		},
	}
	sol := solver.Solution{
		Primal: []float64{5},
		Basis: solver.BasisInfo{
			BasicVariables: []int{0, -1}, // row1's basis slot is its own slack
		},
	}

	c := New(prob, sol)
	mv, err := c.ComputeMarginVariations([]int{0, 1}, []int{0, 1}, 1e-9)
	require.NoError(t, err)
	require.Len(t, mv, 2)
	_, hasSlackKey := mv[1].Values[-2]
	assert.True(t, hasSlackKey)
}
