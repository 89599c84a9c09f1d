package constraints

import (
	"fmt"

	"github.com/metrix-scopf/metrix/internal/contingency"
	"github.com/metrix-scopf/metrix/internal/solver"
)

// AddParadeActivation lazily creates one parade's binary activation
// variable δ_p, with an objective coefficient approximating an
// activation-cost hint: cost_parade · P(incident) ·
// (1 + #already-active-cuts-for-this-father), so that among equally
// feasible solutions the solver prefers parades with fewer active cuts.
func (g *Generator) AddParadeActivation(parade *contingency.Parade, costParade, incidentProbability float64) int {
	if idx, ok := g.paradeActivation[parade.ID]; ok {
		return idx
	}
	activeCuts := len(g.paradeCuts[parade.Father.ID])
	hint := costParade * incidentProbability * float64(1+activeCuts)
	idx := g.addVar(fmt.Sprintf("delta[%s]", parade.ID), 0, 1, hint, solver.Binary)
	g.paradeActivation[parade.ID] = idx
	return idx
}

// ParadeActivationVar returns a previously-created parade's δ index, or
// -1 if it has not been introduced yet.
func (g *Generator) ParadeActivationVar(paradeID string) int {
	if idx, ok := g.paradeActivation[paradeID]; ok {
		return idx
	}
	return -1
}

// AddParadeValuation lazily creates a parade's consumption/production
// valuation variable, required only for parades inducing lost pockets.
func (g *Generator) AddParadeValuation(paradeID string, cost float64, upper float64) int {
	if idx, ok := g.paradeValuation[paradeID]; ok {
		return idx
	}
	idx := g.addVar(fmt.Sprintf("valuation[%s]", paradeID), 0, upper, cost, solver.Continuous)
	g.paradeValuation[paradeID] = idx
	return idx
}

// TopologyExclusivity adds "∑δ_p = 1" over one father contingency's
// parades. All named parades must already have an activation variable
// (via AddParadeActivation).
func (g *Generator) TopologyExclusivity(fatherID string, paradeIDs []string) error {
	if len(paradeIDs) == 0 {
		return ErrNoParades
	}
	coeffs := make(map[int]float64, len(paradeIDs))
	for _, pid := range paradeIDs {
		idx, ok := g.paradeActivation[pid]
		if !ok {
			return ErrNoParades
		}
		coeffs[idx] = 1
	}
	g.addRow(fmt.Sprintf("exclusivity[%s]", fatherID), coeffs, solver.EQ, 1)
	return nil
}
