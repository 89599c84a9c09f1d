package constraints

import (
	"fmt"
	"math"

	"github.com/metrix-scopf/metrix/internal/contingency"
	"github.com/metrix-scopf/metrix/internal/network"
	"github.com/metrix-scopf/metrix/internal/solver"
)

// AddCurativeElement lazily creates one curative element's two
// non-negative magnitude variables and, if withActivation is true, its
// binary activation variable gamma, one pair plus an optional gate per
// (contingency, curative element). It then emits the element's curative
// bound row and, when gated, the activation-tied curative row.
//
// bounds comes from contingency.ApplyCurative; activationCost is the
// objective coefficient for gamma when withActivation is true (0 is
// valid — some curative kinds are free to activate).
func (g *Generator) AddCurativeElement(contingencyID string, ce contingency.CurativeElement, bounds contingency.CurativeBounds, withActivation bool, activationCost float64) (curativeKey, error) {
	key := curativeKey{ContingencyID: contingencyID, Kind: ce.Kind, Ref: ce.Ref}
	if _, exists := g.curativePlus[key]; exists {
		return key, nil
	}

	name := fmt.Sprintf("cur[%s/%s/%d]", contingencyID, ce.Kind, ce.Ref)
	plus := g.addVar(name+"+", 0, math.Max(0, bounds.Pmax-bounds.PreventiveValue), 0, solver.Continuous)
	minus := g.addVar(name+"-", 0, math.Max(0, bounds.PreventiveValue-bounds.Pmin), 0, solver.Continuous)
	g.curativePlus[key] = plus
	g.curativeMinus[key] = minus

	if withActivation {
		gamma := g.addVar(name+"/gamma", 0, 1, activationCost, solver.Binary)
		g.curativeActivation[key] = gamma
		g.addActivationTiedCurative(key, bounds)
	}

	g.addCurativeBoundRow(key, ce, bounds)
	return key, nil
}

// CurativeVars returns the (plus, minus, activation) variable indices
// for a previously added curative element; activation is -1 if it was
// added ungated.
func (g *Generator) CurativeVars(key curativeKey) (plus, minus, activation int, err error) {
	p, ok := g.curativePlus[key]
	if !ok {
		return 0, 0, 0, ErrUnknownCurative
	}
	m := g.curativeMinus[key]
	a, ok := g.curativeActivation[key]
	if !ok {
		a = -1
	}
	return p, m, a, nil
}

// addCurativeBoundRow emits the per-type "curative bound" row: P_prev +
// ΔP_prev_plus − ΔP_prev_minus + ΔP_cur_plus ≤ Pmax (and the symmetric
// lower bound), scaled by 1e-3 for PST/HVDC kinds to keep coefficient
// magnitudes comparable, and the load-specific effacement-ceiling form
// for CurativeLoad.
func (g *Generator) addCurativeBoundRow(key curativeKey, ce contingency.CurativeElement, bounds contingency.CurativeBounds) {
	plus := g.curativePlus[key]
	minus := g.curativeMinus[key]

	switch ce.Kind {
	case contingency.CurativeLoad:
		load := g.net.Load(network.LoadHandle(ce.Ref))
		coeffs := map[int]float64{plus: 1, minus: 1}
		if prevPlus, ok := g.loadShed[network.LoadHandle(ce.Ref)]; ok {
			coeffs[prevPlus] = load.CurativeEffacementPercentage
		}
		g.addRow(fmt.Sprintf("curbound[%s/%d]", ce.Kind, ce.Ref), coeffs, solver.LE,
			load.CurativeEffacementPercentage*math.Abs(load.Value))

	case contingency.CurativePST, contingency.CurativePSTFictitious, contingency.CurativeHVDC:
		const scale = 1e-3
		var prevPlus, prevMinus int
		var havePrev bool
		switch ce.Kind {
		case contingency.CurativeHVDC:
			prevPlus, havePrev = g.hvdcPlus[network.HVDCHandle(ce.Ref)]
			prevMinus = g.hvdcMinus[network.HVDCHandle(ce.Ref)]
		default:
			prevPlus, havePrev = g.pstPlus[network.PSTHandle(ce.Ref)]
			prevMinus = g.pstMinus[network.PSTHandle(ce.Ref)]
		}
		coeffs := map[int]float64{plus: scale}
		if havePrev {
			coeffs[prevPlus] = scale
			coeffs[prevMinus] = -scale
		}
		g.addRow(fmt.Sprintf("curbound[%s/%d]", ce.Kind, ce.Ref), coeffs, solver.LE,
			scale*(bounds.Pmax-bounds.PreventiveValue))

	default: // CurativeGenerator
		prevPlus, okUp := g.genUp[network.GeneratorHandle(ce.Ref)]
		prevMinus := g.genDown[network.GeneratorHandle(ce.Ref)]
		coeffs := map[int]float64{plus: 1}
		if okUp {
			coeffs[prevPlus] = 1
			coeffs[prevMinus] = -1
		}
		g.addRow(fmt.Sprintf("curbound[%s/%d]", ce.Kind, ce.Ref), coeffs, solver.LE, bounds.Pmax-bounds.PreventiveValue)

		lowerCoeffs := map[int]float64{minus: 1}
		if okUp {
			lowerCoeffs[prevPlus] = -1
			lowerCoeffs[prevMinus] = 1
		}
		g.addRow(fmt.Sprintf("curbound_lo[%s/%d]", ce.Kind, ce.Ref), lowerCoeffs, solver.LE, bounds.PreventiveValue-bounds.Pmin)
	}
}

// addActivationTiedCurative emits the activation-tied curative row:
// ΔP_cur_plus + ΔP_cur_minus + min(Pmax,|Pmin|)·γ ≤ 0, all scaled by
// 1e-3, so γ=0 forces the curative magnitudes to 0.
func (g *Generator) addActivationTiedCurative(key curativeKey, bounds contingency.CurativeBounds) {
	const scale = 1e-3
	plus := g.curativePlus[key]
	minus := g.curativeMinus[key]
	gamma := g.curativeActivation[key]
	cap := math.Min(bounds.Pmax, math.Abs(bounds.Pmin))
	coeffs := map[int]float64{
		plus:  scale,
		minus: scale,
		gamma: scale * cap,
	}
	g.addRow(fmt.Sprintf("tied[%s/%d]", key.Kind, key.Ref), coeffs, solver.LE, 0)
}

// AddOverloadSlack lazily creates a (monitor, contingency) overload
// slack variable for "overload" / "without redispatch" modes. cost is
// the per-MW slack penalty.
func (g *Generator) AddOverloadSlack(monitor network.BranchHandle, contingencyID string, cost float64) int {
	key := slackKey{Monitor: monitor, ContingencyID: contingencyID}
	if idx, ok := g.slack[key]; ok {
		return idx
	}
	br := g.net.Branch(monitor)
	idx := g.addVar(fmt.Sprintf("slack[%s/%s]", br.ID, contingencyID), 0, math.Inf(1), cost, solver.Continuous)
	g.slack[key] = idx
	return idx
}

// OptionalCurativeCap adds "∑ΔP_cur_minus ≤ user limit" per synchronous
// zone, an optional operator-supplied cap row.
func (g *Generator) OptionalCurativeCap(zoneName string, minusVars []int, limit float64) {
	coeffs := make(map[int]float64, len(minusVars))
	for _, v := range minusVars {
		coeffs[v] += 1
	}
	g.addRow(fmt.Sprintf("curcap[%s]", zoneName), coeffs, solver.LE, limit)
}

// OptionalActionCountCap adds "n_elem·δ + ∑binary_curatives ≤ user cap"
// for one parade.
func (g *Generator) OptionalActionCountCap(paradeID string, nElem float64, binaryCuratives []int, capLimit float64) error {
	delta, ok := g.paradeActivation[paradeID]
	if !ok {
		return ErrNoParades
	}
	coeffs := map[int]float64{delta: nElem}
	for _, v := range binaryCuratives {
		coeffs[v] += 1
	}
	g.addRow(fmt.Sprintf("actioncap[%s]", paradeID), coeffs, solver.LE, capLimit)
	return nil
}
