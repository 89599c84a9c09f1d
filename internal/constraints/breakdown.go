package constraints

import "github.com/metrix-scopf/metrix/internal/solver"

// ObjectiveBreakdown decomposes a solved objective into named categories:
// generator cost, load cost, curative cost, slack cost, valuation cost.
type ObjectiveBreakdown struct {
	GeneratorCost float64
	LoadCost      float64
	CurativeCost  float64
	SlackCost     float64
	ValuationCost float64
}

// Total sums every category, for a sanity check against sol.ObjectiveVal.
func (b ObjectiveBreakdown) Total() float64 {
	return b.GeneratorCost + b.LoadCost + b.CurativeCost + b.SlackCost + b.ValuationCost
}

// ObjectiveBreakdown attributes sol's objective value back to the
// variable groups this Generator created.
func (g *Generator) ObjectiveBreakdown(sol solver.Solution) ObjectiveBreakdown {
	var b ObjectiveBreakdown
	contribute := func(idx int) float64 {
		if idx < 0 || idx >= len(sol.Primal) {
			return 0
		}
		return g.prob.Variables[idx].Cost * sol.Primal[idx]
	}

	for _, idx := range g.genUp {
		b.GeneratorCost += contribute(idx)
	}
	for _, idx := range g.genDown {
		b.GeneratorCost += contribute(idx)
	}
	for _, idx := range g.loadShed {
		b.LoadCost += contribute(idx)
	}
	for _, idx := range g.curativePlus {
		b.CurativeCost += contribute(idx)
	}
	for _, idx := range g.curativeMinus {
		b.CurativeCost += contribute(idx)
	}
	for _, idx := range g.curativeActivation {
		b.CurativeCost += contribute(idx)
	}
	for _, idx := range g.slack {
		b.SlackCost += contribute(idx)
	}
	for _, idx := range g.paradeActivation {
		b.CurativeCost += contribute(idx)
	}
	for _, idx := range g.paradeValuation {
		b.ValuationCost += contribute(idx)
	}
	return b
}
