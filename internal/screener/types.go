package screener

import "github.com/metrix-scopf/metrix/internal/network"

// ThresholdKind tags which of a branch's thresholds a transit was
// checked against (the N/Nk/BeforeCurative/ITAM quartet), used both to
// pick the right limit and to prioritize violations during sorting.
type ThresholdKind int

const (
	ThresholdN ThresholdKind = iota
	ThresholdNk
	ThresholdBeforeCurative
	ThresholdITAM
)

func (k ThresholdKind) String() string {
	switch k {
	case ThresholdN:
		return "N"
	case ThresholdNk:
		return "N-k"
	case ThresholdBeforeCurative:
		return "before-curative"
	case ThresholdITAM:
		return "ITAM"
	default:
		return "unknown"
	}
}

// priority orders violation kinds for the final sort: ITAM and
// before-curative overloads (already past a remedial deadline) sort
// ahead of plain N-1/N-k overloads.
func (k ThresholdKind) priority() int {
	switch k {
	case ThresholdITAM:
		return 3
	case ThresholdBeforeCurative:
		return 2
	case ThresholdNk:
		return 1
	default:
		return 0
	}
}

// TransitInputs are the additive components the sensitivity engine
// contributes to one (monitor, contingency) transit.
type TransitInputs struct {
	BaseFlow              float64 // base-case line flow from theta
	GenLossContribution   float64 // Σ ρ·P_lost over tripped generators
	HVDCContribution      float64
	PreventiveContribution float64 // current PST/HVDC preventive variable values
	CurativeContribution  float64 // curative elements under c, gated by γ
	FictitiousPSTImpulse  float64 // zero in base case
}

// Combine sums a TransitInputs into the scalar transit T(m,c).
func Combine(in TransitInputs) float64 {
	return in.BaseFlow + in.GenLossContribution + in.HVDCContribution +
		in.PreventiveContribution + in.CurativeContribution + in.FictitiousPSTImpulse
}

// Violation is one emitted Contrainte record, ready for the constraint
// generator to turn into a transit cut.
type Violation struct {
	Monitor       network.BranchHandle
	ContingencyID string
	Transit       float64
	Max, Min      float64
	Overload      float64
	Kind          ThresholdKind
	UpperSide     bool
}

// ThreatRecord is one (contingency, transit) tuple tracked per monitor
// for max-threat bookkeeping.
type ThreatRecord struct {
	ContingencyID  string
	Transit        float64
	BeforeCurative bool
}
