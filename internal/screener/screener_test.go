package screener

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/metrix-scopf/metrix/internal/config"
	"github.com/metrix-scopf/metrix/internal/network"
)

func TestEvaluateEmitsViolationOverThreshold(t *testing.T) {
	s := New(config.Default())
	v := s.Evaluate(network.BranchHandle(0), "C1", 50, 30, -30, ThresholdNk, nil)
	if assert.NotNil(t, v) {
		assert.InDelta(t, 20, v.Overload, 1e-9)
		assert.True(t, v.UpperSide)
	}
}

func TestEvaluateSilentWithinAcceptableDiff(t *testing.T) {
	s := New(config.Default())
	v := s.Evaluate(network.BranchHandle(0), "C1", 30.005, 30, -30, ThresholdN, nil)
	assert.Nil(t, v)
}

func TestEvaluateSkipsInactiveParade(t *testing.T) {
	s := New(config.Default())
	inactive := false
	v := s.Evaluate(network.BranchHandle(0), "P1", 100, 30, -30, ThresholdN, &inactive)
	assert.Nil(t, v)
}

func TestThreatsTrackedRankedByMagnitude(t *testing.T) {
	s := New(config.Default())
	s.Evaluate(network.BranchHandle(0), "C1", 10, 100, -100, ThresholdN, nil)
	s.Evaluate(network.BranchHandle(0), "C2", 90, 100, -100, ThresholdN, nil)
	threats := s.Threats(network.BranchHandle(0))
	if assert.Len(t, threats, 2) {
		assert.Equal(t, "C2", threats[0].ContingencyID)
	}
}

func TestFinalizeDropsShadowedByBaseCase(t *testing.T) {
	s := New(config.Default())
	violations := []Violation{
		{Monitor: 0, ContingencyID: BaseCaseID, Transit: 60, Max: 30, Overload: 30, UpperSide: true},
		{Monitor: 0, ContingencyID: "C1", Transit: 50, Max: 30, Overload: 20, UpperSide: true},
	}
	out := s.Finalize(violations)
	assert.Len(t, out, 1)
	assert.Equal(t, BaseCaseID, out[0].ContingencyID)
}

func TestFinalizeDropsNearDuplicates(t *testing.T) {
	s := New(config.Default())
	violations := []Violation{
		{Monitor: 0, ContingencyID: "C1", Transit: 50.0, Max: 30, Overload: 20, UpperSide: true},
		{Monitor: 0, ContingencyID: "C2", Transit: 50.3, Max: 30, Overload: 20.3, UpperSide: true},
	}
	out := s.Finalize(violations)
	assert.Len(t, out, 1)
	assert.Equal(t, "C2", out[0].ContingencyID) // stronger overload kept
}

func TestFinalizeTrimsToPerIterationCap(t *testing.T) {
	opts := config.Default()
	opts.NbMaxConstraintsByIteration = 1
	s := New(opts)
	violations := []Violation{
		{Monitor: 0, ContingencyID: "C1", Transit: 50, Max: 30, Overload: 20, UpperSide: true},
		{Monitor: 1, ContingencyID: "C2", Transit: 80, Max: 30, Overload: 50, UpperSide: true},
	}
	out := s.Finalize(violations)
	assert.Len(t, out, 1)
	assert.Equal(t, "C2", out[0].ContingencyID)
}
