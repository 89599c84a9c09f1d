// Package contingency models the catalogue of credible contingencies:
// Incident, LostPocket, and Parade, plus a curative-element tagged
// variant used instead of dynamic dispatch over heterogeneous types
// (TD, TD_FICTIF, HVDC, GROUPE, CONSO).
package contingency

import "github.com/metrix-scopf/metrix/internal/network"

// CurativeKind tags the five curative-element shapes.
type CurativeKind int

const (
	CurativePST CurativeKind = iota
	CurativePSTFictitious
	CurativeHVDC
	CurativeGenerator
	CurativeLoad
)

func (k CurativeKind) String() string {
	switch k {
	case CurativePST:
		return "PST"
	case CurativePSTFictitious:
		return "PST_FICTITIOUS"
	case CurativeHVDC:
		return "HVDC"
	case CurativeGenerator:
		return "GENERATOR"
	case CurativeLoad:
		return "LOAD"
	default:
		return "UNKNOWN"
	}
}

// CurativeElement is one curative control usable only after its owning
// contingency (or parade) fires. Ref is interpreted according to Kind:
// a network.PSTHandle, network.HVDCHandle, network.GeneratorHandle or
// network.LoadHandle, stored as a plain int to keep the struct a single
// flat tagged variant rather than a union of typed pointers.
type CurativeElement struct {
	Kind CurativeKind
	Ref  int

	// ActivationVar, when >= 0, is the index of this element's binary
	// activation variable (gamma in the curative-magnitude invariant
	// linking a binary gate to its continuous bound); -1 means the
	// element has no gating integer and its continuous bounds alone
	// govern it.
	ActivationVar int
}

// LostPocket describes a sub-network disconnected by its owning
// contingency.
type LostPocket struct {
	Nodes               []network.NodeHandle
	ContainsGenAndLoad  bool
	// ModifiedContingencyID names a sibling Incident (by ID) used for LODF
	// computation against the post-disconnection topology, when the
	// screener needs a contingency distinct from the father for that
	// purpose.
	ModifiedContingencyID string
}

// Incident is one credible contingency.
type Incident struct {
	ID   string
	Name string

	TrippedBranches   []network.BranchHandle
	ClosedBranches    []network.BranchHandle // for parades recorded directly on the father
	TrippedGenerators []network.GeneratorHandle
	TrippedHVDCs      []network.HVDCHandle

	LostPocket *LostPocket

	Curatives []CurativeElement
	Parades   []*Parade

	Probability *float64
	Valid       bool
}

// Parade is a synthetic child contingency attached to a father Incident:
// it shares the father's tripped set but adds its own opened/closed
// branches, its own curative list, and an activation variable gating
// whether it is the chosen remedial action.
type Parade struct {
	ID     string
	Father *Incident

	OpenBranches  []network.BranchHandle
	CloseBranches []network.BranchHandle
	Curatives     []CurativeElement

	// AuthorizedMonitors, when non-empty, restricts which monitored
	// elements this parade may relieve; empty means "all".
	AuthorizedMonitors []string

	// ActivationVar is the index of this parade's binary activation
	// variable delta_p once it has been introduced into the LP/MIP by the
	// constraint generator; -1 before that happens.
	ActivationVar int
}
