package sensitivity

import (
	"math"

	"github.com/metrix-scopf/metrix/internal/network"
)

// LODFSingle computes the line-outage distribution factors for the outage
// of one branch `outaged`, for every branch in `monitored`.
//
// Returns ErrConnectivityBreaking (wrapped) when the outage denominator's
// magnitude falls at or below threshold — the caller must then defer to
// the lost-pocket machinery rather than use these coefficients.
func (e *Engine) LODFSingle(outaged network.Branch, monitored []network.Branch, threshold float64) (map[network.BranchHandle]float64, error) {
	n := e.fact.N()
	rhs := InjectionVector(e.net, outaged.Origin, outaged.Extremity, outaged.Y, n)
	g, err := e.fact.Solve(rhs)
	if err != nil {
		return nil, err
	}

	denom := 1 - outaged.Y*(g[outaged.Origin]-g[outaged.Extremity])
	if math.Abs(denom) <= threshold {
		return nil, ErrConnectivityBreaking
	}

	out := make(map[network.BranchHandle]float64, len(monitored))
	for _, m := range monitored {
		rho := m.Y * (g[m.Origin] - g[m.Extremity]) / denom
		out[indexOfBranch(e.net, m)] = rho
	}
	// the outaged branch's own coefficient is defined to be zero
	out[indexOfBranch(e.net, outaged)] = 0
	return out, nil
}

// indexOfBranch resolves a Branch value back to its handle by scanning the
// network's branch arena; callers in this package always have the branch's
// handle at hand in practice, but LODFSingle's map-keyed-by-handle return
// shape is more convenient for the screener than threading handles through
// every call, hence the lookup here rather than in every caller.
func indexOfBranch(net *network.Network, br network.Branch) network.BranchHandle {
	for i, b := range net.AllBranches() {
		if b.ID == br.ID {
			return network.BranchHandle(i)
		}
	}
	return network.NoHandle
}

// MultiLineOutage computes LODFs for a simultaneous outage of several
// branches via a Woodbury-style rank-k update: G's columns are the
// single-outage injection solves, B = I + D·G is factored independently,
// and a failure there also means connectivity-breaking.
type MultiLineOutage struct {
	Branches []network.Branch
	G        [][]float64 // G[col] = length-n solution vector for branch col
	BFact    *Factorization
	D        *Dense
}

// FactorMultiLine builds and factors the k×k Woodbury system for a set of
// simultaneously-outaged branches.
func (e *Engine) FactorMultiLine(outaged []network.Branch, minPivot float64) (*MultiLineOutage, error) {
	k := len(outaged)
	n := e.fact.N()
	g := make([][]float64, k)
	for i, br := range outaged {
		rhs := InjectionVector(e.net, br.Origin, br.Extremity, br.Y, n)
		x, err := e.fact.Solve(rhs)
		if err != nil {
			return nil, err
		}
		g[i] = x
	}

	d := NewDense(k)
	for j := 0; j < k; j++ {
		for i := 0; i < k; i++ {
			brI := outaged[i]
			val := -brI.Y * (g[j][brI.Origin] - g[j][brI.Extremity])
			if i == j {
				val += 1
			}
			d.Set(j, i, val)
		}
	}

	bfact, err := Factor(d, minPivot)
	if err != nil {
		return nil, ErrConnectivityBreaking
	}

	return &MultiLineOutage{Branches: outaged, G: g, BFact: bfact, D: d}, nil
}

// FlowDelta returns the post-contingency flow change on `target` given base
// phase differences across the outaged lines (deltaTheta0[i] = theta[m_i]
// - theta[k_i] from the pre-contingency base-case solve): y_target *
// (Δθ[origin] - Δθ[extremity]), where Δθ = G·B⁻¹·deltaTheta0.
func (m *MultiLineOutage) FlowDelta(target network.Branch, deltaTheta0 []float64) (float64, error) {
	correction, err := m.BFact.Solve(deltaTheta0)
	if err != nil {
		return 0, err
	}
	deltaThetaOrigin := 0.0
	deltaThetaExtremity := 0.0
	for col := 0; col < len(m.G); col++ {
		deltaThetaOrigin += m.G[col][target.Origin] * correction[col]
		deltaThetaExtremity += m.G[col][target.Extremity] * correction[col]
	}
	return target.Y * (deltaThetaOrigin - deltaThetaExtremity), nil
}
