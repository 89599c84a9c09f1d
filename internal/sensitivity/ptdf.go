package sensitivity

import "github.com/metrix-scopf/metrix/internal/network"

// Engine bundles a factorized B' with the network it was built from, and
// memoizes per-branch PTDF vectors until the next Invalidate.
type Engine struct {
	net  *network.Network
	fact *Factorization

	ptdfCache map[network.BranchHandle][]float64
}

// NewEngine factorizes B' for net's current topology.
func NewEngine(net *network.Network, minPivot float64) (*Engine, error) {
	bp := BuildBPrime(net)
	fact, err := Factor(bp, minPivot)
	if err != nil {
		return nil, err
	}
	return &Engine{net: net, fact: fact, ptdfCache: make(map[network.BranchHandle][]float64)}, nil
}

// Invalidate clears the PTDF memo; call after any topology change, since
// B''s factorization must be rebuilt whenever topology changes.
func (e *Engine) Invalidate() { e.ptdfCache = make(map[network.BranchHandle][]float64) }

// Factorization exposes the underlying B' factorization for callers (the
// SCOPF loop's phase reconstruction, the collator's margin-variation
// decomposition) that need to solve arbitrary right-hand sides, not just
// PTDF/LODF.
func (e *Engine) Factorization() *Factorization { return e.fact }

// PTDF computes (or returns the memoized) sensitivity vector of branch br
// to a unit injection at each node.
func (e *Engine) PTDF(br network.BranchHandle) ([]float64, error) {
	if v, ok := e.ptdfCache[br]; ok {
		return v, nil
	}
	branch := e.net.Branch(br)
	n := e.fact.N()
	rhs := InjectionVector(e.net, branch.Origin, branch.Extremity, branch.Y, n)
	x, err := e.fact.Solve(rhs)
	if err != nil {
		return nil, err
	}
	ZeroBalanceEntries(e.net, x)
	e.ptdfCache[br] = x
	return x, nil
}

// FlowFromAngles returns a branch's DC flow given a full nodal phase
// vector theta: y_ij * (theta[origin] - theta[extremity]).
func (e *Engine) FlowFromAngles(br network.Branch, theta []float64) float64 {
	return br.Y * (theta[br.Origin] - theta[br.Extremity])
}

// SolvePhaseAngles solves B'*theta = rhs for the current factorization —
// the "reconstructs nodal phase angles" step of the SCOPF outer loop.
func (e *Engine) SolvePhaseAngles(rhs []float64) ([]float64, error) {
	return e.fact.Solve(rhs)
}
