// Package scopf implements the SCOPF outer loop: the without-grid /
// with-grid passes, the bounded micro-iteration loop that alternates
// LP/MIP solves with B' phase-angle reconstruction and violation
// screening, the loss-rebalance loop, and final objective breakdown and
// termination handling.
//
// The loop itself owns the control flow (bounds, cut caps, the LP→MIP
// switch, the loss-rebalance threshold, termination-code mapping); the
// physics of building a nodal RHS, solving B'θ=RHS, screening violations
// and turning them into cuts stay in internal/sensitivity,
// internal/constraints and internal/screener, and are supplied here as
// StepFuncs closures, a task-function-per-unit-of-work split rather than
// hardcoding the unit of work.
package scopf

import (
	"errors"
	"math"

	"github.com/metrix-scopf/metrix/internal/config"
	"github.com/metrix-scopf/metrix/internal/constraints"
	"github.com/metrix-scopf/metrix/internal/diagnostics"
	"github.com/metrix-scopf/metrix/internal/screener"
	"github.com/metrix-scopf/metrix/internal/solver"
	"github.com/metrix-scopf/metrix/internal/telemetry"
)

// StepFuncs are the physics-specific callbacks the loop invokes each
// micro-iteration. All fields are required by RunVariant except
// EstimateLosses/RescaleBilans, which are only consulted when
// opts.MaxRelancePertes > 0.
type StepFuncs struct {
	// BuildRHS derives the nodal injection vector from the current LP
	// solution (generator dispatch, load, HVDC boundary flows).
	BuildRHS func(sol solver.Solution) []float64

	// SolveTheta solves B'·θ = rhs (wrapping sensitivity.Engine, or a
	// pocket-specific factorization for connectivity-breaking
	// contingencies). The loop itself bumps Metrics.LURefactorizations
	// once after every successful SolveTheta call.
	SolveTheta func(rhs []float64) ([]float64, error)

	// Screen runs violation screening over the current solution and
	// phase angles, returning the trimmed, deduplicated violation list
	// for this iteration.
	Screen func(sol solver.Solution, theta []float64) ([]screener.Violation, error)

	// AddCuts turns violations into LP/MIP rows, reporting whether any
	// new binary variable was introduced (which flips subsequent solves
	// from SolveLP to SolveMIP).
	AddCuts func(violations []screener.Violation) (addedBinary bool, err error)

	// EstimateLosses computes quadratic branch + HVDC losses for the
	// current solution; return 0 to skip loss rebalancing.
	EstimateLosses func(sol solver.Solution, theta []float64) float64

	// RescaleBilans updates the zonal bilan RHS rows for a new assumed
	// loss rate before the pass is re-run.
	RescaleBilans func(lossRate float64)
}

// Result is what RunVariant hands to the collator and to the result
// writer.
type Result struct {
	Status             diagnostics.Code
	Solution           solver.Solution
	Theta              []float64
	ObjectiveBreakdown constraints.ObjectiveBreakdown
	MicroIterations    int
	CutsAdded          int
	LossRebalancePasses int
}

// Loop drives one variant's SCOPF solve.
type Loop struct {
	opts    config.Options
	driver  solver.Driver
	gen     *constraints.Generator
	metrics *telemetry.Metrics // nil is valid: metrics become a no-op
}

// New returns a Loop for one variant. gen is the constraint generator
// already populated with the variant's preventive variables and bilan
// rows; metrics may be nil.
func New(opts config.Options, driver solver.Driver, gen *constraints.Generator, metrics *telemetry.Metrics) *Loop {
	return &Loop{opts: opts, driver: driver, gen: gen, metrics: metrics}
}

func (l *Loop) incMicroIter() {
	if l.metrics != nil {
		l.metrics.MicroIterations.Inc()
	}
}

func (l *Loop) incCuts(n int) {
	if l.metrics != nil {
		for i := 0; i < n; i++ {
			l.metrics.CutsAdded.Inc()
		}
	}
}

// RunVariant executes the without-grid pass, the with-grid pass, the
// bounded micro-iteration loop, and the loss-rebalance loop, returning
// the terminal Result.
func (l *Loop) RunVariant(steps StepFuncs) (Result, error) {
	if steps.BuildRHS == nil || steps.SolveTheta == nil || steps.Screen == nil || steps.AddCuts == nil {
		return Result{Status: diagnostics.InternalError}, ErrMissingStepFuncs
	}

	// "Without-grid" pass: solve with no transit cuts present yet, just
	// the bilan/coupling rows built so far.
	withoutGrid, err := l.driver.SolveLP(l.gen.Problem(), nil)
	if err != nil {
		return Result{Status: diagnostics.InternalError}, err
	}
	if withoutGrid.Status == solver.StatusInfeasible {
		return Result{Status: diagnostics.NoSolution, Solution: withoutGrid}, nil
	}

	// "With-grid" pass: callers freeze preventive generator costs to AR
	// via Generator.SetVariableCost before calling RunVariant again for
	// the grid-constrained solve proper; from here the loop treats the
	// current problem as the with-grid problem.
	isMIP := false
	current := withoutGrid
	totalCuts := l.gen.CutsAdded()

	microIter := 0
	for microIter < l.opts.NbMaxMicroIterations {
		microIter++
		l.incMicroIter()

		if microIter > 1 || len(l.gen.Problem().Rows) > 0 {
			var sol solver.Solution
			var solveErr error
			if isMIP {
				sol, solveErr = l.driver.SolveMIP(l.gen.Problem(), &current)
			} else {
				sol, solveErr = l.driver.SolveLP(l.gen.Problem(), &current)
			}
			if solveErr != nil {
				return Result{Status: diagnostics.InternalError, MicroIterations: microIter}, solveErr
			}
			if sol.Status == solver.StatusInfeasible {
				return Result{Status: diagnostics.NoSolution, Solution: sol, MicroIterations: microIter}, nil
			}
			if sol.Status == solver.StatusTimeout {
				return Result{Status: diagnostics.Timeout, Solution: sol, MicroIterations: microIter}, nil
			}
			current = sol
		}

		rhs := steps.BuildRHS(current)
		theta, err := steps.SolveTheta(rhs)
		if err != nil {
			return Result{Status: diagnostics.InternalError, Solution: current, MicroIterations: microIter}, err
		}
		if l.metrics != nil {
			l.metrics.LURefactorizations.Inc()
		}

		violations, err := steps.Screen(current, theta)
		if err != nil {
			return Result{Status: diagnostics.InternalError, Solution: current, Theta: theta, MicroIterations: microIter}, err
		}
		if len(violations) == 0 {
			return l.finish(diagnostics.NoProblem, current, theta, microIter, steps)
		}

		if len(violations) > l.opts.NbMaxConstraintsByIteration {
			violations = violations[:l.opts.NbMaxConstraintsByIteration]
		}

		addedBinary, err := steps.AddCuts(violations)
		if errors.Is(err, constraints.ErrConstraintBudgetExceeded) {
			newTotal := l.gen.CutsAdded()
			l.incCuts(newTotal - totalCuts)
			return Result{Status: diagnostics.MaxConstraintsReached, Solution: current, Theta: theta, MicroIterations: microIter, CutsAdded: newTotal}, nil
		}
		if err != nil {
			return Result{Status: diagnostics.InternalError, Solution: current, Theta: theta, MicroIterations: microIter}, err
		}
		if addedBinary {
			isMIP = true
		}

		newTotal := l.gen.CutsAdded()
		l.incCuts(newTotal - totalCuts)
		totalCuts = newTotal
		if totalCuts > l.opts.NbMaxConstraints {
			return Result{Status: diagnostics.MaxConstraintsReached, Solution: current, Theta: theta, MicroIterations: microIter, CutsAdded: totalCuts}, nil
		}
	}

	return Result{Status: diagnostics.MicroIterExceeded, Solution: current, MicroIterations: microIter, CutsAdded: totalCuts}, nil
}

// finish runs the loss-rebalance loop and computes the final objective
// breakdown.
func (l *Loop) finish(status diagnostics.Code, sol solver.Solution, theta []float64, microIter int, steps StepFuncs) (Result, error) {
	passes := 0
	if steps.EstimateLosses != nil && steps.RescaleBilans != nil {
		assumedRate := 0.0
		for passes < l.opts.MaxRelancePertes {
			losses := steps.EstimateLosses(sol, theta)
			if math.Abs(losses-assumedRate) <= l.opts.ThresholdRelancePertes {
				break
			}
			assumedRate = losses
			steps.RescaleBilans(assumedRate)
			passes++

			resolved, err := l.driver.SolveLP(l.gen.Problem(), &sol)
			if err != nil {
				return Result{Status: diagnostics.InternalError, Solution: sol, MicroIterations: microIter}, err
			}
			if resolved.Status == solver.StatusInfeasible {
				return Result{Status: diagnostics.NoSolution, Solution: resolved, MicroIterations: microIter, LossRebalancePasses: passes}, nil
			}
			sol = resolved

			rhs := steps.BuildRHS(sol)
			newTheta, err := steps.SolveTheta(rhs)
			if err != nil {
				return Result{Status: diagnostics.InternalError, Solution: sol, MicroIterations: microIter, LossRebalancePasses: passes}, err
			}
			theta = newTheta
		}
	}

	return Result{
		Status:              status,
		Solution:            sol,
		Theta:               theta,
		ObjectiveBreakdown:  l.gen.ObjectiveBreakdown(sol),
		MicroIterations:     microIter,
		CutsAdded:           l.gen.CutsAdded(),
		LossRebalancePasses: passes,
	}, nil
}
