package constraints

import (
	"math"

	"github.com/metrix-scopf/metrix/internal/solver"
)

// bigM is the activation-cut relaxation constant.
const bigM = 1e4

// AddTransitCut appends one violated-transit cut: `a·x ≤ T_max −
// partie_fixe` when upper is true, `a·x ≤ −T_min + partie_fixe` when
// upper is false. Coefficients below Options.CoefficientDropThreshold
// are dropped, the RHS is rounded to 1e-10 precision, and
// Options.AcceptableDiff is pre-subtracted so the same violation is not
// immediately re-detected on the next screening pass. Returns
// ErrConstraintBudgetExceeded once the running cut count would exceed
// Options.NbMaxConstraints.
func (g *Generator) AddTransitCut(name string, coeffs map[int]float64, partieFixe, limit float64, upper bool) error {
	if g.cutsAdded >= g.opts.NbMaxConstraints {
		return ErrConstraintBudgetExceeded
	}

	filtered := dropSmallCoefficients(coeffs, g.opts.CoefficientDropThreshold)

	var rhs float64
	if upper {
		rhs = limit - partieFixe
	} else {
		rhs = -limit + partieFixe
	}
	rhs -= g.opts.AcceptableDiff
	rhs = roundTo1e10(rhs)

	g.addRow(name, filtered, solver.LE, rhs)
	g.cutsAdded++
	return nil
}

// AddActivationCut gates a cut by a parade's binary activation δ: the
// standard big-M relaxation a·x ≤ RHS + M·(1−δ), enforced when δ=1 (the
// parade is the chosen remedial action) and relaxed to a no-op
// otherwise. That expands to a·x + M·δ ≤ RHS + M, which is what this
// emits.
func (g *Generator) AddActivationCut(name string, coeffs map[int]float64, rhs float64, delta int) error {
	if g.cutsAdded >= g.opts.NbMaxConstraints {
		return ErrConstraintBudgetExceeded
	}
	combined := make(map[int]float64, len(coeffs)+1)
	for k, v := range coeffs {
		combined[k] = v
	}
	combined[delta] += bigM
	g.addRow(name, combined, solver.LE, rhs+bigM)
	g.cutsAdded++
	return nil
}

// EquivalentParadeCut scans fatherID's already-added parade-cuts for one
// whose RHS and coefficients match the candidate within
// Options.ParadeEquivalenceEps. Every coefficient present in either cut
// is compared, fixed variables included (a coefficient absent from one
// side counts as 0). Returns the sibling parade ID and
// true when a match is found, in which case the caller should reuse that
// parade's δ instead of appending a new cut.
func (g *Generator) EquivalentParadeCut(fatherID string, coeffs map[int]float64, rhs float64) (string, bool) {
	for _, rec := range g.paradeCuts[fatherID] {
		if math.Abs(rec.rhs-rhs) > g.opts.ParadeEquivalenceEps {
			continue
		}
		if coeffsEqual(rec.coeffs, coeffs, g.opts.ParadeEquivalenceEps) {
			return rec.paradeID, true
		}
	}
	return "", false
}

// RecordParadeCut remembers a newly-added parade cut for future
// equivalent-parade comparisons against the same father.
func (g *Generator) RecordParadeCut(fatherID, paradeID string, coeffs map[int]float64, rhs float64) {
	g.paradeCuts[fatherID] = append(g.paradeCuts[fatherID], paradeCutRecord{
		paradeID: paradeID,
		coeffs:   copyCoeffs(coeffs),
		rhs:      rhs,
	})
}

func copyCoeffs(m map[int]float64) map[int]float64 {
	out := make(map[int]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func dropSmallCoefficients(coeffs map[int]float64, threshold float64) map[int]float64 {
	out := make(map[int]float64, len(coeffs))
	for k, v := range coeffs {
		if math.Abs(v) < threshold {
			continue
		}
		out[k] = v
	}
	return out
}

func roundTo1e10(v float64) float64 {
	const scale = 1e10
	return math.Round(v*scale) / scale
}

func coeffsEqual(a, b map[int]float64, eps float64) bool {
	seen := make(map[int]bool, len(a)+len(b))
	for k := range a {
		seen[k] = true
	}
	for k := range b {
		seen[k] = true
	}
	for k := range seen {
		if math.Abs(a[k]-b[k]) > eps {
			return false
		}
	}
	return true
}
