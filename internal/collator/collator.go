// Package collator is the result collator: given a terminal LP/MIP
// solution and its basis, it forms the square basis submatrix B,
// factorizes it, and solves B·v = e_row for each row of interest to
// attribute that constraint's shadow price across the individual basic
// variables ("variation marginale détaillée").
//
// It reuses the sensitivity engine's dense LU (internal/sensitivity) —
// the same partial-pivoting Doolittle factorization, applied here to a
// basis submatrix instead of a nodal admittance matrix — rather than
// duplicating a second LU implementation, factoring the one matrix
// routine out from under both call sites.
package collator

import (
	"fmt"

	"github.com/metrix-scopf/metrix/internal/sensitivity"
	"github.com/metrix-scopf/metrix/internal/solver"
)

// MarginVariation is one row-of-interest's detailed marginal variation:
// the sensitivity of that constraint's shadow price to each basic
// variable. Values is keyed by variable index for ordinary basic
// variables, and by -(rowIndex+1) for a row whose basis column is a
// slack/surplus rather than a structural variable.
type MarginVariation struct {
	RowIndex  int
	RowName   string
	Values    map[int]float64
}

// Collator computes margin-variation tables from a terminal solution.
type Collator struct {
	opts solver.Problem // the solved problem, kept for row coefficient lookups
	sol  solver.Solution
}

// New binds a Collator to the problem actually submitted to the driver
// and the solution it returned.
func New(prob solver.Problem, sol solver.Solution) *Collator {
	return &Collator{opts: prob, sol: sol}
}

// basisColumn returns column i of the basis submatrix: the coefficients
// of row rows[i]'s basic variable across every row in rows, or (if that
// row's basis slot is a slack) the unit vector with the row's sense sign.
func (c *Collator) basisColumn(rows []int, i int) []float64 {
	col := make([]float64, len(rows))
	basicVar := -1
	if rows[i] < len(c.sol.Basis.BasicVariables) {
		basicVar = c.sol.Basis.BasicVariables[rows[i]]
	}
	if basicVar < 0 {
		sign := 1.0
		if c.opts.Rows[rows[i]].Sense == solver.GE {
			sign = -1.0
		}
		col[i] = sign
		return col
	}
	for k, rowIdx := range rows {
		col[k] = c.opts.Rows[rowIdx].Coeffs[basicVar]
	}
	return col
}

// ComputeMarginVariations solves B·v = e_row for every row index in
// rowsOfInterest, where B's columns are built from allRows (typically
// every row index 0..len(Rows)-1, or a topology-scoped subset). Rows
// whose basis column cannot be resolved (index out of basis range) are
// dropped, so B is always square over the remaining rows; if no row
// remains, ErrBasisSizeMismatch is returned.
func (c *Collator) ComputeMarginVariations(allRows []int, rowsOfInterest []int, minPivot float64) ([]MarginVariation, error) {
	usable := make([]int, 0, len(allRows))
	for _, r := range allRows {
		if r < len(c.sol.Basis.BasicVariables) {
			usable = append(usable, r)
		}
	}
	n := len(usable)
	if n == 0 {
		return nil, ErrBasisSizeMismatch
	}

	b := sensitivity.NewDense(n)
	for col := 0; col < n; col++ {
		values := c.basisColumn(usable, col)
		for row := 0; row < n; row++ {
			b.Set(row, col, values[row])
		}
	}

	fact, err := sensitivity.Factor(b, minPivot)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularBasis, err)
	}

	rowPos := make(map[int]int, n)
	for i, r := range usable {
		rowPos[r] = i
	}

	out := make([]MarginVariation, 0, len(rowsOfInterest))
	for _, r := range rowsOfInterest {
		pos, ok := rowPos[r]
		if !ok {
			continue
		}
		e := make([]float64, n)
		e[pos] = 1
		v, err := fact.Solve(e)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSingularBasis, err)
		}

		values := make(map[int]float64, n)
		for i, rowIdx := range usable {
			basicVar := -1
			if rowIdx < len(c.sol.Basis.BasicVariables) {
				basicVar = c.sol.Basis.BasicVariables[rowIdx]
			}
			key := basicVar
			if key < 0 {
				key = -(rowIdx + 1)
			}
			values[key] = v[i]
		}
		out = append(out, MarginVariation{RowIndex: r, RowName: c.opts.Rows[r].Name, Values: values})
	}
	return out, nil
}
