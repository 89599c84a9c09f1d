package sensitivity

import "github.com/metrix-scopf/metrix/internal/network"

// BuildBPrime assembles the reduced nodal susceptance matrix: for a
// connected branch (i,j) of susceptance b = U2Y, each
// non-balance endpoint accumulates +b on its own diagonal; an off-diagonal
// -b is written only when BOTH endpoints are non-balance (a branch
// touching a balance node must not let that node's phase, fixed at the
// zone reference, propagate through the matrix). A balance node's row
// gets a diagonal 1, and so does any otherwise-disconnected row, to keep
// the matrix non-singular at reference/isolated nodes.
func BuildBPrime(net *network.Network) *Dense {
	n := net.NumNodes()
	b := NewDense(n)
	nodes := net.AllNodes()

	for _, br := range net.AllBranches() {
		if !br.Connected {
			continue
		}
		i, j := int(br.Origin), int(br.Extremity)
		susceptance := br.U2Y
		iBalance, jBalance := nodes[i].IsBalance, nodes[j].IsBalance

		if !iBalance {
			b.Add(i, i, susceptance)
		}
		if !jBalance {
			b.Add(j, j, susceptance)
		}
		if !iBalance && !jBalance {
			b.Add(i, j, -susceptance)
			b.Add(j, i, -susceptance)
		}
	}

	for i, node := range nodes {
		if node.IsBalance {
			b.Set(i, i, 1)
			continue
		}
		if b.At(i, i) == 0 {
			b.Set(i, i, 1)
		}
	}
	return b
}

// InjectionVector forms e_mk for a branch with endpoints (m,k) and
// admittance y: +y on the origin, -y on the extremity, both zeroed when
// the respective endpoint is a balance node.
func InjectionVector(net *network.Network, origin, extremity network.NodeHandle, y float64, n int) []float64 {
	e := make([]float64, n)
	if !net.Node(origin).IsBalance {
		e[origin] = y
	}
	if !net.Node(extremity).IsBalance {
		e[extremity] = -y
	}
	return e
}

// ZeroBalanceEntries zeros every entry of x that corresponds to a balance
// node: sensitivities must never be attributed to a reference phase.
func ZeroBalanceEntries(net *network.Network, x []float64) {
	for i, node := range net.AllNodes() {
		if node.IsBalance {
			x[i] = 0
		}
	}
}
