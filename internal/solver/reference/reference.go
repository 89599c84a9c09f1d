// Package reference provides a small in-memory Driver good enough to
// exercise the SCOPF outer loop in tests. It is explicitly NOT the
// production solver: the real LP/MIP engine is meant to be an external
// collaborator reached over its own API, so this package only has to
// behave like one — a bounded-variable Big-M simplex for LP relaxations,
// wrapped in a branch-and-bound capped at maxBBNodes nodes for the binary activation
// variables the constraint generator introduces.
package reference

import (
	"errors"
	"math"

	"github.com/metrix-scopf/metrix/internal/solver"
)

// ErrReleased is returned by any call made after Release.
var ErrReleased = errors.New("reference: driver released")

const (
	bigM        = 1e7
	maxIters    = 20000
	maxBBNodes  = 4000
	feasEpsilon = 1e-7
)

// Reference is a bounded-variable Big-M simplex driver.
type Reference struct {
	released bool
}

// New returns a ready-to-use reference driver.
func New() *Reference { return &Reference{} }

func (r *Reference) Release() error {
	if r.released {
		return ErrReleased
	}
	r.released = true
	return nil
}

// SolveLP relaxes integrality and solves the LP directly.
func (r *Reference) SolveLP(p solver.Problem, _ *solver.Solution) (solver.Solution, error) {
	if r.released {
		return solver.Solution{}, ErrReleased
	}
	if len(p.Variables) == 0 {
		return solver.Solution{}, errors.New("reference: empty problem")
	}
	return simplex(p)
}

// SolveMIP branches on Binary variables around repeated LP relaxations.
func (r *Reference) SolveMIP(p solver.Problem, _ *solver.Solution) (solver.Solution, error) {
	if r.released {
		return solver.Solution{}, ErrReleased
	}
	if len(p.Variables) == 0 {
		return solver.Solution{}, errors.New("reference: empty problem")
	}
	return branchAndBound(p)
}

// branchAndBound performs depth-first branch-and-bound over Binary
// variables, pruning by LP-relaxation bound against the best incumbent.
func branchAndBound(root solver.Problem) (solver.Solution, error) {
	type node struct{ p solver.Problem }
	stack := []node{{p: root}}

	best := solver.Solution{Status: solver.StatusInfeasible}
	haveIncumbent := false
	nodes := 0

	for len(stack) > 0 {
		nodes++
		if nodes > maxBBNodes {
			if haveIncumbent {
				best.Status = solver.StatusFeasible
				return best, nil
			}
			return solver.Solution{Status: solver.StatusTimeout}, nil
		}

		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		sol, err := simplex(cur.p)
		if err != nil {
			continue
		}
		if sol.Status != solver.StatusOptimal && sol.Status != solver.StatusFeasible {
			continue
		}
		if haveIncumbent && sol.ObjectiveVal >= best.ObjectiveVal-1e-9 {
			continue
		}

		fracIdx, fracVal := mostFractionalBinary(cur.p, sol.Primal)
		if fracIdx < 0 {
			best = sol
			best.Status = solver.StatusOptimal
			haveIncumbent = true
			continue
		}
		_ = fracVal

		lo := cloneProblem(cur.p)
		lo.Variables[fracIdx].Upper = 0
		hi := cloneProblem(cur.p)
		hi.Variables[fracIdx].Lower = 1

		stack = append(stack, node{p: lo}, node{p: hi})
	}

	if haveIncumbent {
		return best, nil
	}
	return solver.Solution{Status: solver.StatusInfeasible}, nil
}

func cloneProblem(p solver.Problem) solver.Problem {
	out := solver.Problem{
		Variables: make([]solver.Variable, len(p.Variables)),
		Rows:      p.Rows,
	}
	copy(out.Variables, p.Variables)
	return out
}

func mostFractionalBinary(p solver.Problem, primal []float64) (int, float64) {
	best := -1
	bestDist := feasEpsilon
	for j, v := range p.Variables {
		if v.Kind != solver.Binary {
			continue
		}
		if v.Upper-v.Lower < feasEpsilon {
			continue // already fixed by a prior branch
		}
		frac := primal[j] - math.Floor(primal[j])
		dist := math.Min(frac, 1-frac)
		if dist > bestDist {
			bestDist = dist
			best = j
		}
	}
	return best, bestDist
}

// tableau column bookkeeping.
const (
	colOriginal = iota
	colSlack
	colSurplus
	colArtificial
)

type column struct {
	kind   int
	origJ  int // index into shifted variables, or -1
	rowIdx int // which constructed row this slack/surplus/artificial belongs to, or -1
}

// simplex solves p's LP relaxation (Binary columns treated as continuous
// on [Lower,Upper]) via a Big-M tableau simplex with Bland's rule.
func simplex(p solver.Problem) (solver.Solution, error) {
	n := len(p.Variables)
	lb := make([]float64, n)
	for j, v := range p.Variables {
		lb[j] = v.Lower
	}

	// Build the row set: original rows (RHS shifted by -coeff*lb) plus one
	// bound row per variable with a finite upper bound.
	type built struct {
		coeffs map[int]float64
		sense  solver.RowSense
		rhs    float64
	}
	var rows []built
	for _, row := range p.Rows {
		rhs := row.RHS
		for j, c := range row.Coeffs {
			rhs -= c * lb[j]
		}
		rows = append(rows, built{coeffs: row.Coeffs, sense: row.Sense, rhs: rhs})
	}
	for j, v := range p.Variables {
		if math.IsInf(v.Upper, 1) {
			continue
		}
		rows = append(rows, built{
			coeffs: map[int]float64{j: 1},
			sense:  solver.LE,
			rhs:    v.Upper - lb[j],
		})
	}

	m := len(rows)
	cols := make([]column, 0, n+2*m)
	for j := 0; j < n; j++ {
		cols = append(cols, column{kind: colOriginal, origJ: j, rowIdx: -1})
	}

	// Normalize RHS >= 0 and append slack/surplus/artificial columns.
	artificialRows := make([]int, 0, m)
	colOfRow := make([][]int, m) // extra (non-original) column indices touching row i
	for i := range rows {
		if rows[i].rhs < 0 {
			rows[i].rhs = -rows[i].rhs
			flipped := make(map[int]float64, len(rows[i].coeffs))
			for j, c := range rows[i].coeffs {
				flipped[j] = -c
			}
			rows[i].coeffs = flipped
			switch rows[i].sense {
			case solver.LE:
				rows[i].sense = solver.GE
			case solver.GE:
				rows[i].sense = solver.LE
			}
		}
		switch rows[i].sense {
		case solver.LE:
			cols = append(cols, column{kind: colSlack, origJ: -1, rowIdx: i})
			colOfRow[i] = append(colOfRow[i], len(cols)-1)
		case solver.GE:
			cols = append(cols, column{kind: colSurplus, origJ: -1, rowIdx: i})
			colOfRow[i] = append(colOfRow[i], len(cols)-1)
			cols = append(cols, column{kind: colArtificial, origJ: -1, rowIdx: i})
			colOfRow[i] = append(colOfRow[i], len(cols)-1)
			artificialRows = append(artificialRows, i)
		case solver.EQ:
			cols = append(cols, column{kind: colArtificial, origJ: -1, rowIdx: i})
			colOfRow[i] = append(colOfRow[i], len(cols)-1)
			artificialRows = append(artificialRows, i)
		}
	}

	ncols := len(cols)
	tab := make([][]float64, m+1) // row m+0..m-1 are constraints, row m is objective
	for i := range tab {
		tab[i] = make([]float64, ncols+1)
	}
	for i, row := range rows {
		for j, c := range row.coeffs {
			tab[i][j] += c
		}
		for _, ci := range colOfRow[i] {
			switch cols[ci].kind {
			case colSlack:
				tab[i][ci] = 1
			case colSurplus:
				tab[i][ci] = -1
			case colArtificial:
				tab[i][ci] = 1
			}
		}
		tab[i][ncols] = row.rhs
	}

	basis := make([]int, m)
	for i := range basis {
		found := -1
		for _, ci := range colOfRow[i] {
			if cols[ci].kind == colSlack || cols[ci].kind == colArtificial {
				found = ci
			}
		}
		basis[i] = found
	}

	// Objective row: minimize sum(cost_j * x_j) + M * sum(artificials).
	for j := 0; j < n; j++ {
		tab[m][j] = p.Variables[j].Cost
	}
	for _, ci := range artificialColumns(cols) {
		tab[m][ci] = bigM
	}
	// Price out basic artificials/slacks from the objective row.
	for i, bi := range basis {
		if bi < 0 {
			continue
		}
		coeff := tab[m][bi]
		if coeff == 0 {
			continue
		}
		for j := 0; j <= ncols; j++ {
			tab[m][j] -= coeff * tab[i][j]
		}
	}

	status := solver.StatusOptimal
	iter := 0
	for {
		iter++
		if iter > maxIters {
			status = solver.StatusTimeout
			break
		}
		// Bland's rule: first column with a negative reduced cost.
		enter := -1
		for j := 0; j < ncols; j++ {
			if tab[m][j] < -1e-9 {
				enter = j
				break
			}
		}
		if enter < 0 {
			break // optimal
		}

		leave := -1
		best := math.Inf(1)
		for i := 0; i < m; i++ {
			if tab[i][enter] > 1e-9 {
				ratio := tab[i][ncols] / tab[i][enter]
				if ratio < best-1e-9 || (ratio < best+1e-9 && (leave < 0 || basis[i] < basis[leave])) {
					best = ratio
					leave = i
				}
			}
		}
		if leave < 0 {
			status = solver.StatusInfeasible // unbounded, treated conservatively
			break
		}

		pivot := tab[leave][enter]
		for j := 0; j <= ncols; j++ {
			tab[leave][j] /= pivot
		}
		for i := 0; i <= m; i++ {
			if i == leave {
				continue
			}
			f := tab[i][enter]
			if f == 0 {
				continue
			}
			for j := 0; j <= ncols; j++ {
				tab[i][j] -= f * tab[leave][j]
			}
		}
		basis[leave] = enter
	}

	if status == solver.StatusOptimal {
		for i, bi := range basis {
			if bi >= 0 && cols[bi].kind == colArtificial && tab[i][ncols] > 1e-6 {
				status = solver.StatusInfeasible
				break
			}
		}
	}

	sol := solver.Solution{Status: status}
	if status == solver.StatusInfeasible || status == solver.StatusTimeout {
		return sol, nil
	}

	y := make([]float64, n)
	for i, bi := range basis {
		if bi >= 0 && bi < n {
			y[bi] = tab[i][ncols]
		}
	}
	x := make([]float64, n)
	for j := range x {
		x[j] = y[j] + lb[j]
	}

	obj := 0.0
	for j, v := range p.Variables {
		obj += v.Cost * x[j]
	}

	reduced := make([]float64, n)
	for j := 0; j < n; j++ {
		reduced[j] = tab[m][j]
	}

	duals := make([]float64, len(p.Rows))
	for i := 0; i < len(p.Rows) && i < m; i++ {
		for _, ci := range colOfRow[i] {
			if cols[ci].kind == colSlack || cols[ci].kind == colSurplus {
				sign := 1.0
				if cols[ci].kind == colSurplus {
					sign = -1.0
				}
				duals[i] = sign * tab[m][ci]
			}
		}
	}

	basicVars := make([]int, m)
	varStatus := make([]bool, n)
	for i, bi := range basis {
		basicVars[i] = -1
		if bi >= 0 && bi < n {
			basicVars[i] = bi
			varStatus[bi] = true
		}
	}

	sol.Primal = x
	sol.ObjectiveVal = obj
	sol.ReducedCosts = reduced
	sol.Duals = duals
	sol.Basis = solver.BasisInfo{BasicVariables: basicVars, VariableStatus: varStatus}
	return sol, nil
}

func artificialColumns(cols []column) []int {
	var out []int
	for i, c := range cols {
		if c.kind == colArtificial {
			out = append(out, i)
		}
	}
	return out
}
