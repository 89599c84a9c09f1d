// Package constraints builds and maintains the LP/MIP matrix the SCOPF
// outer loop solves: variables, bounds, bilan equations, coupling rows,
// curative-bound linkages, and the lazily-added cuts the violation
// screener demands. It builds a dense system incrementally, but here
// the "matrix" is a solver.Problem assembled column-by-column and
// row-by-row rather than factored in place.
package constraints

import (
	"fmt"
	"math"

	"github.com/metrix-scopf/metrix/internal/config"
	"github.com/metrix-scopf/metrix/internal/contingency"
	"github.com/metrix-scopf/metrix/internal/network"
	"github.com/metrix-scopf/metrix/internal/solver"
)

// curativeKey identifies one (contingency, curative-element) pair, the
// granularity at which lazy curative variables are created: two
// non-negative curative variables per contingency/curative-element pair.
type curativeKey struct {
	ContingencyID string
	Kind          contingency.CurativeKind
	Ref           int
}

// slackKey identifies one (monitor, contingency) pair's overload slack,
// created only in the "overload" / "without redispatch" modes.
type slackKey struct {
	Monitor       network.BranchHandle
	ContingencyID string
}

// paradeCutRecord is one cut already attached to a parade, kept so the
// equivalent-parade detector can compare a candidate cut against every
// sibling already on the same father.
type paradeCutRecord struct {
	paradeID string
	coeffs   map[int]float64
	rhs      float64
}

// Generator incrementally builds a solver.Problem for one variant. It is
// not safe for concurrent use; the outer loop drives one Generator per
// variant pass.
type Generator struct {
	net  *network.Network
	opts config.Options
	prob solver.Problem

	genUp, genDown      map[network.GeneratorHandle]int
	loadShed            map[network.LoadHandle]int
	pstPlus, pstMinus   map[network.PSTHandle]int
	hvdcPlus, hvdcMinus map[network.HVDCHandle]int

	curativePlus, curativeMinus map[curativeKey]int
	curativeActivation          map[curativeKey]int

	slack map[slackKey]int

	paradeActivation map[string]int // keyed by Parade.ID
	paradeValuation  map[string]int

	paradeCuts map[string][]paradeCutRecord // keyed by father Incident.ID

	cutsAdded int // running total, checked against Options.NbMaxConstraints
}

// New returns an empty Generator ready to accumulate one variant's LP/MIP.
func New(net *network.Network, opts config.Options) *Generator {
	return &Generator{
		net:                net,
		opts:               opts,
		genUp:              make(map[network.GeneratorHandle]int),
		genDown:            make(map[network.GeneratorHandle]int),
		loadShed:           make(map[network.LoadHandle]int),
		pstPlus:            make(map[network.PSTHandle]int),
		pstMinus:           make(map[network.PSTHandle]int),
		hvdcPlus:           make(map[network.HVDCHandle]int),
		hvdcMinus:          make(map[network.HVDCHandle]int),
		curativePlus:       make(map[curativeKey]int),
		curativeMinus:      make(map[curativeKey]int),
		curativeActivation: make(map[curativeKey]int),
		slack:              make(map[slackKey]int),
		paradeActivation:   make(map[string]int),
		paradeValuation:    make(map[string]int),
		paradeCuts:         make(map[string][]paradeCutRecord),
	}
}

// Problem returns the solver.Problem built so far. Its Variables and Rows
// slices are copies, so further Generator calls append to the Generator's
// own slices, not this snapshot; each Row's Coeffs map is shared with the
// Generator, not copied.
func (g *Generator) Problem() solver.Problem {
	cp := solver.Problem{
		Variables: append([]solver.Variable(nil), g.prob.Variables...),
		Rows:      append([]solver.Row(nil), g.prob.Rows...),
	}
	return cp
}

// CutsAdded is the running lazy-cut count checked against NbMaxConstraints.
func (g *Generator) CutsAdded() int { return g.cutsAdded }

func (g *Generator) addVar(name string, lower, upper, cost float64, kind solver.VarKind) int {
	idx := len(g.prob.Variables)
	g.prob.Variables = append(g.prob.Variables, solver.Variable{
		Name: name, Lower: lower, Upper: upper, Cost: cost, Kind: kind,
	})
	return idx
}

func (g *Generator) addRow(name string, coeffs map[int]float64, sense solver.RowSense, rhs float64) {
	g.prob.Rows = append(g.prob.Rows, solver.Row{Name: name, Coeffs: coeffs, Sense: sense, RHS: rhs})
}

// SetVariableCost overwrites a previously created variable's objective
// coefficient — used by the with-grid pass to swap preventive generator
// variables from HR (horaire, same-hour) to AR (ancillary redispatch)
// costs once the without-grid economic dispatch is frozen.
func (g *Generator) SetVariableCost(idx int, cost float64) {
	g.prob.Variables[idx].Cost = cost
}

// AddPreventiveVariables creates one variant's preventive variable block,
// appended in order: generator ΔP⁺/ΔP⁻, sheddable-load shed variables,
// PST x⁺/x⁻, HVDC variables. noiseCost and offset are a cost floor/offset
// applied uniformly to every generator's up/down cost.
func (g *Generator) AddPreventiveVariables(noiseCost, offset float64) {
	for h, gen := range g.net.AllGenerators() {
		handle := network.GeneratorHandle(h)
		if gen.Adjustability != network.AdjustPreventiveOnly && gen.Adjustability != network.AdjustBoth {
			continue
		}
		upCost := math.Max(gen.CostUpHR, noiseCost) + offset
		downCost := math.Max(gen.CostDownHR, noiseCost) + offset
		g.genUp[handle] = g.addVar(fmt.Sprintf("dPplus[%s]", gen.ID), 0, math.Max(0, gen.Pmax-gen.P0), upCost, solver.Continuous)
		g.genDown[handle] = g.addVar(fmt.Sprintf("dPminus[%s]", gen.ID), 0, math.Max(0, gen.P0-gen.Pmin), downCost, solver.Continuous)
	}

	for h, load := range g.net.AllLoads() {
		handle := network.LoadHandle(h)
		if load.ShedPercentageCap <= 0 {
			continue
		}
		upper := math.Abs(load.Value) * load.ShedPercentageCap
		cost := load.ShedCost
		if load.Value < 0 {
			cost = -cost
		}
		g.loadShed[handle] = g.addVar(fmt.Sprintf("shed[%s]", load.ID), 0, upper, cost, solver.Continuous)
	}

	for h, pst := range g.net.AllPSTs() {
		handle := network.PSTHandle(h)
		if pst.Mode != network.PSTOptimized {
			continue
		}
		upper := math.Max(0, pst.PMax-pst.SetPoint)
		lower := math.Max(0, pst.SetPoint-pst.PMin)
		g.pstPlus[handle] = g.addVar(fmt.Sprintf("xPlus[%s]", pst.ID), 0, upper, 0, solver.Continuous)
		g.pstMinus[handle] = g.addVar(fmt.Sprintf("xMinus[%s]", pst.ID), 0, lower, 0, solver.Continuous)
	}

	for h, link := range g.net.AllHVDCs() {
		handle := network.HVDCHandle(h)
		var upper, lower float64
		if link.Mode == network.HVDCOptimized {
			upper = math.Max(0, link.PMax-link.SetPoint)
			lower = math.Max(0, link.SetPoint-link.PMin)
		}
		// Modes ImposedPower and ACEmulation get zero-bounded variables:
		// the link's flow is fixed, not optimized, in those modes.
		g.hvdcPlus[handle] = g.addVar(fmt.Sprintf("hvdcPlus[%s]", link.ID), 0, upper, 0, solver.Continuous)
		g.hvdcMinus[handle] = g.addVar(fmt.Sprintf("hvdcMinus[%s]", link.ID), 0, lower, 0, solver.Continuous)
	}
}

// GeneratorVars returns the (ΔP⁺, ΔP⁻) variable indices for an adjustable
// generator, or (-1,-1) if it has none.
func (g *Generator) GeneratorVars(h network.GeneratorHandle) (up, down int) {
	up, okUp := g.genUp[h]
	down, okDown := g.genDown[h]
	if !okUp {
		up = -1
	}
	if !okDown {
		down = -1
	}
	return up, down
}

// LoadShedVar returns the shed-variable index for a sheddable load, or -1
// if the load has no shed variable (ShedPercentageCap <= 0).
func (g *Generator) LoadShedVar(h network.LoadHandle) int {
	if idx, ok := g.loadShed[h]; ok {
		return idx
	}
	return -1
}

// ZonalBilan adds the "∑ΔP⁺ − ∑ΔP⁻ + ∑ΔD + signed HVDC boundary flow =
// fixed RHS" row for one synchronous zone. hvdcBoundary gives each
// boundary-crossing HVDC's signed coefficient (+1 exporting from the
// zone, -1 importing), already resolved by the caller from the zone's
// node membership.
func (g *Generator) ZonalBilan(zone network.ZoneHandle, rhs float64, hvdcBoundary map[network.HVDCHandle]float64) {
	z := g.net.Zone(zone)
	coeffs := make(map[int]float64)
	for _, node := range g.net.AllNodes() {
		if node.Zone != zone {
			continue
		}
		for _, gh := range node.Generators {
			if up, ok := g.genUp[gh]; ok {
				coeffs[up] += 1
			}
			if down, ok := g.genDown[gh]; ok {
				coeffs[down] -= 1
			}
		}
		for _, lh := range node.Loads {
			if shed, ok := g.loadShed[lh]; ok {
				sign := 1.0
				if g.net.Load(lh).Value < 0 {
					sign = -1
				}
				coeffs[shed] += sign
			}
		}
	}
	for hvdcH, sign := range hvdcBoundary {
		if plus, ok := g.hvdcPlus[hvdcH]; ok {
			coeffs[plus] += sign
		}
		if minus, ok := g.hvdcMinus[hvdcH]; ok {
			coeffs[minus] -= sign
		}
	}
	g.addRow(fmt.Sprintf("bilan[%s]", z.ID), coeffs, solver.EQ, rhs)
}

// Coupling adds the "ref(0)·P(i) − ref(i)·P(0) = 0" binding row linking
// a follower variable to a reference variable; used for
// participation-factor-linked generators and multi-terminal HVDC legs.
func (g *Generator) Coupling(name string, followerVar int, followerRef float64, refVar int, refRef float64) {
	coeffs := map[int]float64{
		followerVar: refRef,
		refVar:      -followerRef,
	}
	g.addRow(name, coeffs, solver.EQ, 0)
}
