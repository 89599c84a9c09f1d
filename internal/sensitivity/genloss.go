package sensitivity

import "github.com/metrix-scopf/metrix/internal/network"

// AdjustableGenerator is the subset of a generator's state the
// generator-loss redistribution needs: its handle, its node and its
// half-band. A generator whose node hosts a tripped generator is not
// counted as a survivor.
type AdjustableGenerator struct {
	Handle   network.GeneratorHandle
	Node     network.NodeHandle
	HalfBand float64
}

// GenerationLossInfluence computes the generator-loss influence: for a
// contingency that trips `tripped` generators out of
// `adjustable` survivors, the lost output is redistributed over the
// surviving adjustable generators proportional to their half-band (minus
// any half-band lost to the tripped set), and the per-branch sensitivity
// to that redistribution is returned for every branch in `monitored`.
//
// For each tripped generator, a unit injection at its node is solved
// against an inverted unit distributed over the other adjustable nodes
// proportional to their share of the remaining half-band. All tripped
// generators' pairs are summed into one right-hand side and solved once.
func (e *Engine) GenerationLossInfluence(tripped []AdjustableGenerator, adjustable []AdjustableGenerator, monitored []network.Branch) (map[network.BranchHandle]float64, error) {
	n := e.fact.N()

	trippedSet := make(map[network.NodeHandle]bool, len(tripped))
	var trippedHalfBand float64
	for _, g := range tripped {
		trippedSet[g.Node] = true
		trippedHalfBand += g.HalfBand
	}

	survivors := make([]AdjustableGenerator, 0, len(adjustable))
	var survivorHalfBand float64
	for _, g := range adjustable {
		if trippedSet[g.Node] {
			continue
		}
		survivors = append(survivors, g)
		survivorHalfBand += g.HalfBand
	}

	out := make(map[network.BranchHandle]float64, len(monitored))
	if len(tripped) == 0 || survivorHalfBand <= 0 {
		for _, m := range monitored {
			out[indexOfBranch(e.net, m)] = 0
		}
		return out, nil
	}

	rhs := make([]float64, n)
	for _, g := range tripped {
		if !e.net.Node(g.Node).IsBalance {
			rhs[g.Node] += 1
		}
	}
	for _, g := range survivors {
		share := g.HalfBand / survivorHalfBand
		if !e.net.Node(g.Node).IsBalance {
			rhs[g.Node] -= share * float64(len(tripped))
		}
	}

	x, err := e.fact.Solve(rhs)
	if err != nil {
		return nil, err
	}
	ZeroBalanceEntries(e.net, x)

	for _, m := range monitored {
		out[indexOfBranch(e.net, m)] = m.Y * (x[m.Origin] - x[m.Extremity])
	}
	_ = trippedHalfBand
	return out, nil
}
