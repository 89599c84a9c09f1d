package sensitivity

import "github.com/metrix-scopf/metrix/internal/network"

// HVDCSensitivity solves B'·x = e with +1 at the HVDC's origin and -1 at
// its extremity (both zeroed at balance nodes), then returns, for every
// branch in `monitored`, y_branch·(x[origin]-x[extremity]) — the per-branch
// sensitivity to a unit change of that HVDC's set-point.
func (e *Engine) HVDCSensitivity(link network.HVDCLink, monitored []network.Branch) (map[network.BranchHandle]float64, error) {
	n := e.fact.N()
	rhs := InjectionVector(e.net, link.Origin, link.Extremity, 1, n)
	x, err := e.fact.Solve(rhs)
	if err != nil {
		return nil, err
	}
	ZeroBalanceEntries(e.net, x)

	out := make(map[network.BranchHandle]float64, len(monitored))
	for _, m := range monitored {
		out[indexOfBranch(e.net, m)] = m.Y * (x[m.Origin] - x[m.Extremity])
	}
	return out, nil
}

// PSTSensitivity solves a unit impulse at a phase-shifter's host-branch
// endpoints and returns the resulting per-branch sensitivities, for use by
// curative PST dispatch.
func (e *Engine) PSTSensitivity(host network.Branch, monitored []network.Branch) (map[network.BranchHandle]float64, error) {
	n := e.fact.N()
	rhs := InjectionVector(e.net, host.Origin, host.Extremity, host.Y, n)
	x, err := e.fact.Solve(rhs)
	if err != nil {
		return nil, err
	}
	ZeroBalanceEntries(e.net, x)

	out := make(map[network.BranchHandle]float64, len(monitored))
	for _, m := range monitored {
		out[indexOfBranch(e.net, m)] = m.Y * (x[m.Origin] - x[m.Extremity])
	}
	return out, nil
}
