// Package screener implements the violation screener: for every
// (monitor, contingency) pair it compares the sensitivity engine's
// combined transit against the branch's threshold, tracks a bounded
// max-threat set per monitor, deduplicates near-identical violations,
// and hands the constraint generator a trimmed, priority-sorted cut
// list.
package screener

import (
	"math"
	"sort"

	"github.com/metrix-scopf/metrix/internal/config"
	"github.com/metrix-scopf/metrix/internal/network"
)

// maxThreatsPerMonitor bounds the per-monitor threat set; it is a
// generous constant rather than a user tunable.
const maxThreatsPerMonitor = 16

// Screener accumulates violations and per-monitor threat tracking across
// one micro-iteration's screening pass. Not safe for concurrent use.
type Screener struct {
	opts config.Options

	threats map[network.BranchHandle][]ThreatRecord
}

// New returns an empty Screener.
func New(opts config.Options) *Screener {
	return &Screener{opts: opts, threats: make(map[network.BranchHandle][]ThreatRecord)}
}

// Evaluate checks one (monitor, contingency) transit against its
// threshold. paradeActive is nil for ordinary
// contingencies/base case; for a parade it must be non-nil, and a
// violation is only emitted when *paradeActive is true (δ ≥ 0.5).
// The sign of transit selects the bound: max when transit >= 0, |min|
// otherwise; the returned Violation's UpperSide records which.
func (s *Screener) Evaluate(monitor network.BranchHandle, contingencyID string, transit, max, min float64, kind ThresholdKind, paradeActive *bool) *Violation {
	s.recordThreat(monitor, contingencyID, transit, kind == ThresholdBeforeCurative)

	if paradeActive != nil && !*paradeActive {
		return nil
	}

	var threshold float64
	upperSide := transit >= 0
	if upperSide {
		threshold = max
	} else {
		threshold = math.Abs(min)
	}

	overload := math.Abs(transit) - threshold
	if overload <= s.opts.AcceptableDiff {
		return nil
	}

	return &Violation{
		Monitor:       monitor,
		ContingencyID: contingencyID,
		Transit:       transit,
		Max:           max,
		Min:           min,
		Overload:      overload,
		Kind:          kind,
		UpperSide:     upperSide,
	}
}

func (s *Screener) recordThreat(monitor network.BranchHandle, contingencyID string, transit float64, beforeCurative bool) {
	list := s.threats[monitor]
	list = append(list, ThreatRecord{ContingencyID: contingencyID, Transit: transit, BeforeCurative: beforeCurative})
	sort.Slice(list, func(i, j int) bool {
		return math.Abs(list[i].Transit) > math.Abs(list[j].Transit)
	})
	if len(list) > maxThreatsPerMonitor {
		list = list[:maxThreatsPerMonitor]
	}
	s.threats[monitor] = list
}

// Threats returns the current bounded max-threat set for one monitor,
// ranked by |transit| descending.
func (s *Screener) Threats(monitor network.BranchHandle) []ThreatRecord {
	return append([]ThreatRecord(nil), s.threats[monitor]...)
}

// Finalize deduplicates and sorts violations, then trims to the
// per-iteration cap.
func (s *Screener) Finalize(violations []Violation) []Violation {
	deduped := dedupe(violations, s.opts.DedupRelativeTolerance, s.opts.DedupAbsoluteToleranceMW)

	sort.SliceStable(deduped, func(i, j int) bool {
		if deduped[i].Kind.priority() != deduped[j].Kind.priority() {
			return deduped[i].Kind.priority() > deduped[j].Kind.priority()
		}
		return deduped[i].Overload > deduped[j].Overload
	})

	if len(deduped) > s.opts.NbMaxConstraintsByIteration {
		deduped = deduped[:s.opts.NbMaxConstraintsByIteration]
	}
	return deduped
}
