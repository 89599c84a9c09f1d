package contingency

import (
	"fmt"
	"math"

	"github.com/metrix-scopf/metrix/internal/network"
)

// CurativeBounds is what apply_curative resolves a CurativeElement to: the
// magnitude bounds the constraint generator turns into a curative-bound
// row, expressed around the element's current preventive value.
type CurativeBounds struct {
	PreventiveValue float64
	Pmin, Pmax      float64 // absolute bounds; for loads, Pmax holds the effacement ceiling
	EffacementPct   float64 // loads only
}

// ApplyCurative is the single dispatch routine used instead of per-kind
// dynamic dispatch: one switch over CurativeKind, never a heterogeneous
// vtable. preventive holds the element's current preventive setting
// (P_prev) for PST/HVDC/generator kinds.
func ApplyCurative(net *network.Network, ce CurativeElement, preventive float64) (CurativeBounds, error) {
	switch ce.Kind {
	case CurativePST:
		p := net.PST(network.PSTHandle(ce.Ref))
		return CurativeBounds{PreventiveValue: preventive, Pmin: p.PMin, Pmax: p.PMax}, nil

	case CurativePSTFictitious:
		p := net.PST(network.PSTHandle(ce.Ref))
		if !p.Fictitious {
			return CurativeBounds{}, fmt.Errorf("pst %d is not fictitious", ce.Ref)
		}
		return CurativeBounds{PreventiveValue: preventive, Pmin: p.PMin, Pmax: p.PMax}, nil

	case CurativeHVDC:
		l := net.HVDC(network.HVDCHandle(ce.Ref))
		return CurativeBounds{PreventiveValue: preventive, Pmin: l.PMin, Pmax: l.PMax}, nil

	case CurativeGenerator:
		g := net.Generator(network.GeneratorHandle(ce.Ref))
		return CurativeBounds{PreventiveValue: preventive, Pmin: g.Pmin, Pmax: g.Pmax}, nil

	case CurativeLoad:
		l := net.Load(network.LoadHandle(ce.Ref))
		return CurativeBounds{
			PreventiveValue: preventive,
			Pmin:            0,
			Pmax:            math.Abs(l.Value) * l.CurativeEffacementPercentage,
			EffacementPct:   l.CurativeEffacementPercentage,
		}, nil

	default:
		return CurativeBounds{}, fmt.Errorf("kind %v: %w", ce.Kind, ErrUnknownCurativeKind)
	}
}
