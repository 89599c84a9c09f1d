// Package connectivity adapts a breadth-first traversal onto
// network.Network: it walks only Connected branches and HVDC links,
// which is what's needed to (a) tell whether a contingency breaks the
// network into a main island plus a disconnected "lost pocket", and (b)
// enumerate the pocket's member nodes so the sensitivity engine can
// build its restricted factorization.
package connectivity

import "github.com/metrix-scopf/metrix/internal/network"

// Components partitions every node reachable from net's connected branches
// and HVDC links into connected components. Disconnected (isolated) nodes
// each form their own singleton component.
func Components(net *network.Network) [][]network.NodeHandle {
	n := net.NumNodes()
	visited := make([]bool, n)
	adj := buildAdjacency(net)

	var comps [][]network.NodeHandle
	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		comps = append(comps, bfsFrom(network.NodeHandle(start), visited, adj))
	}
	return comps
}

// ReachableFrom returns every node reachable from start over connected
// branches/HVDCs, start included.
func ReachableFrom(net *network.Network, start network.NodeHandle) ([]network.NodeHandle, error) {
	if int(start) < 0 || int(start) >= net.NumNodes() {
		return nil, ErrUnknownStart
	}
	visited := make([]bool, net.NumNodes())
	adj := buildAdjacency(net)
	return bfsFrom(start, visited, adj), nil
}

// Disconnects reports, for each node in `candidates`, whether it is
// unreachable from balanceNode over the branches currently marked
// Connected in net (and non-off HVDC links) — the signature a lost-pocket
// check needs: a true entry means that candidate is cut off from
// balanceNode.
func Disconnects(net *network.Network, balanceNode network.NodeHandle, candidates []network.NodeHandle) (map[network.NodeHandle]bool, error) {
	reachable, err := ReachableFrom(net, balanceNode)
	if err != nil {
		return nil, err
	}
	reachSet := make(map[network.NodeHandle]bool, len(reachable))
	for _, h := range reachable {
		reachSet[h] = true
	}
	cut := make(map[network.NodeHandle]bool, len(candidates))
	for _, c := range candidates {
		cut[c] = !reachSet[c]
	}
	return cut, nil
}

func buildAdjacency(net *network.Network) map[network.NodeHandle][]network.NodeHandle {
	adj := make(map[network.NodeHandle][]network.NodeHandle, net.NumNodes())
	for _, br := range net.AllBranches() {
		if !br.Connected {
			continue
		}
		adj[br.Origin] = append(adj[br.Origin], br.Extremity)
		adj[br.Extremity] = append(adj[br.Extremity], br.Origin)
	}
	for _, h := range net.AllHVDCs() {
		if h.Mode == network.HVDCOff {
			continue
		}
		adj[h.Origin] = append(adj[h.Origin], h.Extremity)
		adj[h.Extremity] = append(adj[h.Extremity], h.Origin)
	}
	return adj
}

func bfsFrom(start network.NodeHandle, visited []bool, adj map[network.NodeHandle][]network.NodeHandle) []network.NodeHandle {
	queue := []network.NodeHandle{start}
	visited[start] = true
	var out []network.NodeHandle
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		out = append(out, u)
		for _, v := range adj[u] {
			if !visited[v] {
				visited[v] = true
				queue = append(queue, v)
			}
		}
	}
	return out
}
