package variant

import (
	"fmt"

	"github.com/metrix-scopf/metrix/internal/network"
)

// BranchOutage opens (or, for a parade, closes) a branch.
type BranchOutage struct {
	Branch network.BranchHandle
	Open   bool // true = outage (disconnect), false = close (parade recovery)
}

func (d BranchOutage) apply(net *network.Network) (func(*network.Network), error) {
	wantConnected := !d.Open
	prev := net.SetBranchConnected(d.Branch, wantConnected)
	if prev == wantConnected {
		// No-op transitions are allowed (idempotent reapply), but an outage
		// on an already-open branch with no recorded prior state can't be
		// rolled back cleanly, so it's reported instead of silently applied.
		if d.Open && !prev {
			return nil, fmt.Errorf("branch %d: %w", d.Branch, ErrOutageAlreadyOpen)
		}
	}
	return func(net *network.Network) { net.SetBranchConnected(d.Branch, prev) }, nil
}

// ThresholdEdit overwrites a branch's seasonal thresholds.
type ThresholdEdit struct {
	Branch                                       network.BranchHandle
	ThresholdN, ThresholdNk                       float64
	ThresholdBeforeCurative, ThresholdITAM        float64
}

func (d ThresholdEdit) apply(net *network.Network) (func(*network.Network), error) {
	pN, pNk, pBC, pITAM := net.SetBranchThresholds(d.Branch, d.ThresholdN, d.ThresholdNk, d.ThresholdBeforeCurative, d.ThresholdITAM)
	return func(net *network.Network) {
		net.SetBranchThresholds(d.Branch, pN, pNk, pBC, pITAM)
	}, nil
}

// GeneratorScheduleEdit overwrites a generator's schedule/availability.
type GeneratorScheduleEdit struct {
	Generator      network.GeneratorHandle
	P0, Pmin, Pmax float64
}

func (d GeneratorScheduleEdit) apply(net *network.Network) (func(*network.Network), error) {
	p0, pmin, pmax := net.SetGeneratorSchedule(d.Generator, d.P0, d.Pmin, d.Pmax)
	return func(net *network.Network) {
		net.SetGeneratorSchedule(d.Generator, p0, pmin, pmax)
	}, nil
}

// GeneratorCostEdit overwrites a generator's four cost fields.
type GeneratorCostEdit struct {
	Generator                            network.GeneratorHandle
	CostUpHR, CostUpAR, CostDownHR, CostDownAR float64
}

func (d GeneratorCostEdit) apply(net *network.Network) (func(*network.Network), error) {
	upHR, upAR, downHR, downAR := net.SetGeneratorCosts(d.Generator, d.CostUpHR, d.CostUpAR, d.CostDownHR, d.CostDownAR)
	return func(net *network.Network) {
		net.SetGeneratorCosts(d.Generator, upHR, upAR, downHR, downAR)
	}, nil
}

// LoadEdit overwrites a load's value.
type LoadEdit struct {
	Load  network.LoadHandle
	Value float64
}

func (d LoadEdit) apply(net *network.Network) (func(*network.Network), error) {
	prev := net.SetLoadValue(d.Load, d.Value)
	return func(net *network.Network) { net.SetLoadValue(d.Load, prev) }, nil
}

// PSTSetPointEdit overwrites a phase-shifter's mode and set-point.
type PSTSetPointEdit struct {
	PST      network.PSTHandle
	Mode     network.PSTMode
	SetPoint float64
}

func (d PSTSetPointEdit) apply(net *network.Network) (func(*network.Network), error) {
	mode, sp := net.SetPSTSetPoint(d.PST, d.Mode, d.SetPoint)
	return func(net *network.Network) { net.SetPSTSetPoint(d.PST, mode, sp) }, nil
}

// HVDCSetPointEdit overwrites an HVDC link's mode and set-point.
type HVDCSetPointEdit struct {
	HVDC     network.HVDCHandle
	Mode     network.HVDCMode
	SetPoint float64
}

func (d HVDCSetPointEdit) apply(net *network.Network) (func(*network.Network), error) {
	mode, sp := net.SetHVDCSetPoint(d.HVDC, d.Mode, d.SetPoint)
	return func(net *network.Network) { net.SetHVDCSetPoint(d.HVDC, mode, sp) }, nil
}
