// Package sensitivity is the sensitivity engine: it builds the reduced
// nodal susceptance matrix B' and factorizes it, then derives PTDFs,
// single- and multi-line LODFs, HVDC and phase-shifter sensitivities,
// generator-loss redistribution, and the lost-pocket machinery.
//
// Factorization uses dense Doolittle elimination with partial pivoting.
// B' is not guaranteed diagonally dominant once topology changes are
// layered on (a contingency can zero a row), so plain unpivoted
// elimination isn't safe here: each step chooses the largest-magnitude
// candidate in its column as the pivot and tracks the row permutation,
// rejecting a pivot below a configurable minimum (diagonal pivoting
// preferred, minimum pivot around 1e-5). The matrix stays small — one
// row/column per node — so a dense factorization is simpler to reason
// about than a sparse one and fast enough for the sizes this engine
// targets.
package sensitivity

import (
	"fmt"
	"math"
)

// Dense is a row-major dense matrix, small enough (one row/col per node) to
// factorize directly; a several-thousand-bus case would want a real sparse
// factorization instead.
type Dense struct {
	n    int
	data []float64
}

// NewDense allocates an n×n zero matrix.
func NewDense(n int) *Dense {
	return &Dense{n: n, data: make([]float64, n*n)}
}

func (m *Dense) N() int { return m.n }

func (m *Dense) At(i, j int) float64 { return m.data[i*m.n+j] }

func (m *Dense) Set(i, j int, v float64) { m.data[i*m.n+j] = v }

func (m *Dense) Add(i, j int, v float64) { m.data[i*m.n+j] += v }

// Factorization is an LU decomposition with partial pivoting:
// P·A = L·U, perm[i] = the original row now in position i.
type Factorization struct {
	n     int
	l, u  *Dense
	perm  []int
	minPivot float64
}

// Factor runs partial-pivoting Doolittle elimination on a working copy
// of a; a itself is left untouched.
// minPivot rejects a pivot whose magnitude falls at or below it, returning
// ErrSingular. Typical thresholds run around 1e-5, down to 1e-6 at the
// extreme.
func Factor(a *Dense, minPivot float64) (*Factorization, error) {
	n := a.n
	work := make([]float64, len(a.data))
	copy(work, a.data)
	at := func(i, j int) float64 { return work[i*n+j] }
	set := func(i, j int, v float64) { work[i*n+j] = v }

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	l := NewDense(n)
	for i := 0; i < n; i++ {
		l.Set(i, i, 1)
	}

	for k := 0; k < n; k++ {
		// partial pivot: largest magnitude in column k at or below row k
		maxRow, maxVal := k, math.Abs(at(k, k))
		for i := k + 1; i < n; i++ {
			if v := math.Abs(at(i, k)); v > maxVal {
				maxRow, maxVal = i, v
			}
		}
		if maxVal <= minPivot {
			return nil, fmt.Errorf("pivot %d: |%.3e| <= %.3e: %w", k, maxVal, minPivot, ErrSingular)
		}
		if maxRow != k {
			for j := 0; j < n; j++ {
				work[k*n+j], work[maxRow*n+j] = work[maxRow*n+j], work[k*n+j]
			}
			perm[k], perm[maxRow] = perm[maxRow], perm[k]
			for j := 0; j < k; j++ {
				l.data[k*n+j], l.data[maxRow*n+j] = l.data[maxRow*n+j], l.data[k*n+j]
			}
		}

		pivot := at(k, k)
		for i := k + 1; i < n; i++ {
			factor := at(i, k) / pivot
			l.Set(i, k, factor)
			for j := k; j < n; j++ {
				set(i, j, at(i, j)-factor*at(k, j))
			}
		}
	}

	u := NewDense(n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			u.Set(i, j, at(i, j))
		}
	}

	return &Factorization{n: n, l: l, u: u, perm: perm, minPivot: minPivot}, nil
}

// Solve returns x such that A·x = rhs, using the cached L/U factors:
// solve L·y = P·rhs by forward substitution, then U·x = y by backward
// substitution.
func (f *Factorization) Solve(rhs []float64) ([]float64, error) {
	if len(rhs) != f.n {
		return nil, fmt.Errorf("rhs has %d entries, want %d: %w", len(rhs), f.n, ErrDimensionMismatch)
	}
	n := f.n
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := rhs[f.perm[i]]
		for j := 0; j < i; j++ {
			sum -= f.l.At(i, j) * y[j]
		}
		y[i] = sum // L has unit diagonal
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := y[i]
		for j := i + 1; j < n; j++ {
			sum -= f.u.At(i, j) * x[j]
		}
		diag := f.u.At(i, i)
		x[i] = sum / diag
	}
	return x, nil
}

// N returns the factorization's dimension.
func (f *Factorization) N() int { return f.n }
