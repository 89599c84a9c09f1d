package sensitivity

import "github.com/metrix-scopf/metrix/internal/network"

// PocketFactorization is the dedicated B' factorization restricted to the
// surviving subgraph after a lost-pocket contingency.
type PocketFactorization struct {
	engine      *Engine
	pocketNodes map[network.NodeHandle]bool
}

// FactorPocket rebuilds and factors B' for the topology that results from
// removing `pocketNodes` entirely: every branch touching a pocket node is
// treated as disconnected, and the pocket's own nodes are pinned to
// theta=0 (their row/column becomes an identity row), forcing pocket
// nodes to zero phase.
func FactorPocket(net *network.Network, pocketNodes []network.NodeHandle, minPivot float64) (*PocketFactorization, error) {
	pocketSet := make(map[network.NodeHandle]bool, len(pocketNodes))
	for _, h := range pocketNodes {
		pocketSet[h] = true
	}

	n := net.NumNodes()
	b := NewDense(n)
	nodes := net.AllNodes()

	for _, br := range net.AllBranches() {
		if !br.Connected {
			continue
		}
		if pocketSet[br.Origin] || pocketSet[br.Extremity] {
			continue // pocket boundary severed
		}
		i, j := int(br.Origin), int(br.Extremity)
		susceptance := br.U2Y
		iBal, jBal := nodes[i].IsBalance, nodes[j].IsBalance
		if !iBal {
			b.Add(i, i, susceptance)
		}
		if !jBal {
			b.Add(j, j, susceptance)
		}
		if !iBal && !jBal {
			b.Add(i, j, -susceptance)
			b.Add(j, i, -susceptance)
		}
	}

	for i, node := range nodes {
		if pocketSet[network.NodeHandle(i)] || node.IsBalance {
			b.Set(i, i, 1)
			continue
		}
		if b.At(i, i) == 0 {
			b.Set(i, i, 1)
		}
	}

	fact, err := Factor(b, minPivot)
	if err != nil {
		return nil, err
	}
	return &PocketFactorization{engine: &Engine{net: net, fact: fact, ptdfCache: map[network.BranchHandle][]float64{}}, pocketNodes: pocketSet}, nil
}

// CompensatedRHS redistributes a pocket's net imbalance (injection -
// consumption lost) over the surviving generators proportional to Pmax.
func CompensatedRHS(net *network.Network, n int, imbalance float64, survivors []network.GeneratorHandle) []float64 {
	rhs := make([]float64, n)
	var totalPmax float64
	for _, gh := range survivors {
		totalPmax += net.Generator(gh).Pmax
	}
	if totalPmax <= 0 {
		return rhs
	}
	for _, gh := range survivors {
		g := net.Generator(gh)
		share := g.Pmax / totalPmax
		node := g.Host
		if !net.Node(node).IsBalance {
			rhs[node] += share * imbalance
		}
	}
	return rhs
}

// Transit computes, for an external monitored branch (i,j) untouched by the
// pocket, u²y·(θ_pocket[i]-θ_pocket[j]) using the pocket-restricted theta
// solve.
func (pf *PocketFactorization) Transit(br network.Branch, theta []float64) float64 {
	return br.U2Y * (theta[br.Origin] - theta[br.Extremity])
}

// SolveTheta solves the pocket-restricted B' against rhs.
func (pf *PocketFactorization) SolveTheta(rhs []float64) ([]float64, error) {
	return pf.engine.fact.Solve(rhs)
}
