// Package network is the immutable-after-setup graph of nodes, branches,
// phase-shifters, HVDC links, generators, loads and synchronous zones.
// It is built once by Build and then only read, except by the explicit
// per-scenario overlay (internal/variant), which mutates it through this
// package's Set* methods; no such state is hidden in process-wide globals.
//
// Cyclic references (Node ↔ Branch ↔ PST) are avoided by storing every
// element in a flat arena slice and referencing it by a typed integer
// handle.
package network

// NodeHandle, BranchHandle, ... are arena indices into Network's element
// slices, starting at 0 for the first element of each kind; NoHandle marks
// "absent".
type (
	NodeHandle      int
	BranchHandle    int
	PSTHandle       int
	HVDCHandle      int
	GeneratorHandle int
	LoadHandle      int
	ZoneHandle      int
)

// NoHandle marks the absence of an optional reference (e.g. a branch with
// no hosted phase-shifter).
const NoHandle = -1

// BranchKind tags what a Quadripole represents.
type BranchKind int

const (
	BranchReal BranchKind = iota
	BranchPhaseShifterSupport
	BranchHVDCEmulationSupport
)

// PSTMode is a phase-shifter's operating mode.
type PSTMode int

const (
	PSTOff PSTMode = iota
	PSTImposedAngle
	PSTImposedPower
	PSTOptimized
	PSTEmulationFictitious
)

// HVDCMode is an HVDC link's operating mode.
type HVDCMode int

const (
	HVDCOff HVDCMode = iota
	HVDCImposedPower
	HVDCOptimized
	HVDCACEmulation
)

// Adjustability describes when a generator may be moved from its schedule.
type Adjustability int

const (
	AdjustNone Adjustability = iota
	AdjustPreventiveOnly
	AdjustAncillaryOnly
	AdjustBoth
)

// TapTable describes a phase-shifter's discrete tap positions.
type TapTable struct {
	LowTap    int
	NbTaps    int
	StepAngle float64 // degrees per tap
}

// Node is a network bus.
type Node struct {
	ID         string
	Zone       ZoneHandle
	IsBalance  bool
	Branches   []BranchHandle
	PSTs       []PSTHandle
	HVDCs      []HVDCHandle
	Generators []GeneratorHandle
	Loads      []LoadHandle
}

// Branch is a Quadripole: a real line, or a fictitious support branch for a
// phase-shifter or an HVDC-in-AC-emulation link.
type Branch struct {
	ID        string
	Origin    NodeHandle
	Extremity NodeHandle
	Y         float64 // admittance
	U2Y       float64 // squared-nominal-voltage * Y: the DC susceptance used to build B'
	R         float64 // resistance, for loss estimation
	Kind      BranchKind
	Connected bool

	// ThresholdN/ThresholdNk/ThresholdBeforeCurative/ThresholdITAM are the
	// branch's own seasonal thermal limits when it is directly monitored
	// (a monitor may instead reference a weighted combination of branches;
	// see internal/screener.Monitor).
	ThresholdN              float64
	ThresholdNk             float64
	ThresholdBeforeCurative float64
	ThresholdITAM           float64
	// AsymmetricExtremityToOrigin, when true, indicates the thresholds
	// above apply to flow Origin->Extremity, and the mirrored fields hold
	// the Extremity->Origin limits.
	AsymmetricExtremityToOrigin bool
	ThresholdNRev               float64
	ThresholdNkRev               float64
}

// PhaseShifter is a TD: a phase-shifting transformer hosted on a branch.
type PhaseShifter struct {
	ID          string
	Host        BranchHandle
	Mode        PSTMode
	SetPoint    float64
	PMin, PMax  float64
	Taps        TapTable
	// PreventiveActivation, when non-nil, names a binary activation
	// variable gating whether this PST may move preventively; nil means
	// always-available (no gating variable is created).
	PreventiveActivation *int
	Fictitious           bool // true iff this PST represents an HVDC-in-AC-emulation
}

// HVDCLink is a LigneCC.
type HVDCLink struct {
	ID             string
	Origin         NodeHandle
	Extremity      NodeHandle
	Mode           HVDCMode
	SetPoint       float64
	PMin, PMax     float64
	DroopOrigin    float64
	DroopExtremity float64
	LossCoeffOrigin    float64
	LossCoeffExtremity float64
	DCVoltage          float64
	CableResistance    float64

	// FictBranch/FictPST are only set when Mode == HVDCACEmulation: the
	// link then owns a fictitious branch and a fictitious phase-shifter
	// whose angle tracks the endpoint phase difference.
	FictBranch BranchHandle
	FictPST    PSTHandle
}

// Generator is a dispatchable unit.
type Generator struct {
	ID                  string
	Host                NodeHandle
	P0                  float64
	Pmin, Pmax          float64
	HalfBand            float64
	Adjustability       Adjustability
	CostUpHR, CostUpAR   float64
	CostDownHR, CostDownAR float64
	Type                string
	ParticipationFactor float64
}

// Load is a consumption (or, if Value < 0, pumping) point.
type Load struct {
	ID                            string
	Host                          NodeHandle
	Value                         float64 // signed; negative = pumping
	ShedCost                      float64
	ShedPercentageCap             float64 // preventive
	CurativeEffacementPercentage  float64
}

// SynchronousZone groups nodes that must balance together.
type SynchronousZone struct {
	ID          string
	BalanceNode NodeHandle
}
