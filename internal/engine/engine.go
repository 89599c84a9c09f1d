// Package engine assembles the sensitivity, constraint, screening and
// outer-loop packages into a single runnable SCOPF pass over one network
// topology: it builds the N-1 contingency catalogue, wires the
// scopf.StepFuncs closures around a sensitivity engine and a constraint
// generator, and drives the result through the solver.
package engine

import (
	"fmt"

	"github.com/metrix-scopf/metrix/internal/config"
	"github.com/metrix-scopf/metrix/internal/constraints"
	"github.com/metrix-scopf/metrix/internal/contingency"
	"github.com/metrix-scopf/metrix/internal/network"
	"github.com/metrix-scopf/metrix/internal/scopf"
	"github.com/metrix-scopf/metrix/internal/screener"
	"github.com/metrix-scopf/metrix/internal/sensitivity"
	"github.com/metrix-scopf/metrix/internal/solver"
	"github.com/metrix-scopf/metrix/internal/telemetry"
)

// SingleBranchContingencies builds one N-1 incident per connected real
// branch: tripping that branch alone; under it, every other monitored
// branch is screened against its own N-k threshold. Phase-shifter and
// HVDC support branches are not independently
// outaged, since they exist only to carry their owning element's flow.
func SingleBranchContingencies(net *network.Network) []contingency.Incident {
	var incidents []contingency.Incident
	for i, br := range net.AllBranches() {
		if br.Kind != network.BranchReal || !br.Connected {
			continue
		}
		incidents = append(incidents, contingency.Incident{
			ID:              br.ID,
			Name:            fmt.Sprintf("outage of %s", br.ID),
			TrippedBranches: []network.BranchHandle{network.BranchHandle(i)},
			Valid:           true,
		})
	}
	return incidents
}

// RunVariant solves one variant's base topology end to end: it factorizes
// B', assembles preventive variables and zonal bilan rows, then drives the
// micro-iteration loop over the base case plus the single-branch-outage
// contingency set, adding transit cuts as violations surface. HVDC
// boundary flows, curative elements and parades are left at their
// identity/zero contribution for this pass; the loop still exercises the
// full sensitivity/constraints/screener/scopf/solver chain on every call.
func RunVariant(net *network.Network, opts config.Options, driver solver.Driver, metrics *telemetry.Metrics) (scopf.Result, error) {
	sensEngine, err := sensitivity.NewEngine(net, opts.MinPivot)
	if err != nil {
		return scopf.Result{}, fmt.Errorf("engine: factorizing base topology: %w", err)
	}

	gen := constraints.New(net, opts)
	gen.AddPreventiveVariables(0, 0)
	for zh := range net.AllZones() {
		gen.ZonalBilan(network.ZoneHandle(zh), 0, nil)
	}

	incidents := SingleBranchContingencies(net)
	scr := screener.New(opts)

	steps := buildStepFuncs(net, sensEngine, gen, scr, incidents, opts)
	loop := scopf.New(opts, driver, gen, metrics)
	result, err := loop.RunVariant(steps)
	if metrics != nil {
		metrics.ObserveOutcome(result.Status)
	}
	return result, err
}

func buildStepFuncs(net *network.Network, sensEngine *sensitivity.Engine, gen *constraints.Generator, scr *screener.Screener, incidents []contingency.Incident, opts config.Options) scopf.StepFuncs {
	var lastSolution solver.Solution

	buildRHS := func(sol solver.Solution) []float64 {
		rhs := make([]float64, net.NumNodes())
		for gh, g := range net.AllGenerators() {
			h := network.GeneratorHandle(gh)
			inj := g.P0
			if up, down := gen.GeneratorVars(h); up >= 0 || down >= 0 {
				if up >= 0 && up < len(sol.Primal) {
					inj += sol.Primal[up]
				}
				if down >= 0 && down < len(sol.Primal) {
					inj -= sol.Primal[down]
				}
			}
			rhs[g.Host] += inj
		}
		for lh, l := range net.AllLoads() {
			h := network.LoadHandle(lh)
			cons := l.Value
			if shed := gen.LoadShedVar(h); shed >= 0 && shed < len(sol.Primal) {
				if l.Value < 0 {
					cons += sol.Primal[shed]
				} else {
					cons -= sol.Primal[shed]
				}
			}
			rhs[l.Host] -= cons
		}
		for i, node := range net.AllNodes() {
			if node.IsBalance {
				rhs[i] = 0
			}
		}
		return rhs
	}

	solveTheta := func(rhs []float64) ([]float64, error) {
		return sensEngine.SolvePhaseAngles(rhs)
	}

	screenFn := func(sol solver.Solution, theta []float64) ([]screener.Violation, error) {
		lastSolution = sol
		var violations []screener.Violation
		for i, br := range net.AllBranches() {
			if br.Kind != network.BranchReal || !br.Connected {
				continue
			}
			mh := network.BranchHandle(i)
			baseFlow := sensEngine.FlowFromAngles(br, theta)
			if v := scr.Evaluate(mh, "", baseFlow, br.ThresholdN, -br.ThresholdN, screener.ThresholdN, nil); v != nil {
				violations = append(violations, *v)
			}

			for _, inc := range incidents {
				if len(inc.TrippedBranches) != 1 || inc.TrippedBranches[0] == mh {
					continue
				}
				outagedBranch := net.Branch(inc.TrippedBranches[0])
				outagedFlow := sensEngine.FlowFromAngles(outagedBranch, theta)
				lodf, err := sensEngine.LODFSingle(outagedBranch, []network.Branch{br}, opts.LodfSingularityThreshold)
				if err != nil {
					continue // connectivity-breaking outage: skipped for this pass
				}
				transit := baseFlow + lodf[mh]*outagedFlow
				if v := scr.Evaluate(mh, inc.ID, transit, br.ThresholdNk, -br.ThresholdNk, screener.ThresholdNk, nil); v != nil {
					violations = append(violations, *v)
				}
			}
		}
		return scr.Finalize(violations), nil
	}

	addCuts := func(violations []screener.Violation) (bool, error) {
		for i, v := range violations {
			coeffs, err := cutCoefficients(net, sensEngine, gen, v)
			if err != nil {
				return false, err
			}
			partieFixe := v.Transit
			for j, c := range coeffs {
				if j < len(lastSolution.Primal) {
					partieFixe -= c * lastSolution.Primal[j]
				}
			}
			limit := v.Max
			if !v.UpperSide {
				limit = v.Min
			}
			name := fmt.Sprintf("transit[%d][%s][%d]", v.Monitor, v.ContingencyID, i)
			if err := gen.AddTransitCut(name, coeffs, partieFixe, limit, v.UpperSide); err != nil {
				return false, err
			}
		}
		return false, nil
	}

	return scopf.StepFuncs{
		BuildRHS: buildRHS,
		SolveTheta: solveTheta,
		Screen:   screenFn,
		AddCuts:  addCuts,
	}
}

// cutCoefficients linearizes one violation's transit around the current
// solution: coeffs[j] is d(transit)/d(x_j) via the monitor's (possibly
// LODF-shifted) PTDF row. The caller (addCuts) then picks partieFixe so
// that coeffs·sol.Primal + partieFixe reproduces v.Transit exactly, making
// the resulting half-space tight at the current point.
func cutCoefficients(net *network.Network, sensEngine *sensitivity.Engine, gen *constraints.Generator, v screener.Violation) (map[int]float64, error) {
	ptdfM, err := sensEngine.PTDF(v.Monitor)
	if err != nil {
		return nil, err
	}
	p := ptdfM
	if v.ContingencyID != "" {
		outagedHandle, err := net.BranchHandleByID(v.ContingencyID)
		if err != nil {
			return nil, err
		}
		lodf, err := sensEngine.LODFSingle(net.Branch(outagedHandle), []network.Branch{net.Branch(v.Monitor)}, 0)
		if err != nil {
			return nil, err
		}
		ptdfK, err := sensEngine.PTDF(outagedHandle)
		if err != nil {
			return nil, err
		}
		rho := lodf[v.Monitor]
		shifted := make([]float64, len(ptdfM))
		for i := range shifted {
			shifted[i] = ptdfM[i] + rho*ptdfK[i]
		}
		p = shifted
	}

	coeffs := make(map[int]float64)
	for gh, g := range net.AllGenerators() {
		h := network.GeneratorHandle(gh)
		coeff := p[g.Host]
		if up, down := gen.GeneratorVars(h); up >= 0 || down >= 0 {
			if up >= 0 {
				coeffs[up] += coeff
			}
			if down >= 0 {
				coeffs[down] -= coeff
			}
		}
	}
	for lh, l := range net.AllLoads() {
		h := network.LoadHandle(lh)
		shed := gen.LoadShedVar(h)
		if shed < 0 {
			continue
		}
		sign := -1.0
		if l.Value < 0 {
			sign = 1.0
		}
		coeffs[shed] += p[l.Host] * sign
	}

	return coeffs, nil
}
