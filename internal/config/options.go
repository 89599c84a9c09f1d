package config

import "fmt"

// Options is the derived, typed configuration the rest of the engine
// consumes; it is built once from a KV by FromKV and passed by
// value/pointer into the SCOPF loop and the constraint generator.
type Options struct {
	Mode Mode

	// Loop bounds.
	NbMaxMicroIterations        int
	NbMaxConstraintsByIteration int
	NbMaxConstraints            int
	MaxRelancePertes            int
	ThresholdRelancePertes      float64 // MW
	TimeMaxPne                  float64 // seconds, 0 = unbounded

	// Numerical tolerances.
	AcceptableDiff            float64 // 1e-2
	DedupRelativeTolerance    float64 // 0.01 (1%)
	DedupAbsoluteToleranceMW  float64 // 1.0 MW
	ParadeEquivalenceEps      float64 // 1e-7
	MinPivot                  float64 // 1e-5, extreme 1e-6
	LodfSingularityThreshold  float64 // 1e-9
	CoefficientDropThreshold  float64 // 1e-8

	// Open-question flags.
	DisableReducedProblemSolver bool
	UseItam                     bool

	// Dump/diagnostic flags.
	DumpMPS                bool
	DumpSensitivity        bool
	DumpConstraintMatrix   bool
	ConstraintCheckLevel   int // 0/1/2

	LogLevel int // 0..5
}

// Default returns the Options populated with the engine's stated default
// constants.
func Default() Options {
	return Options{
		Mode:                        ModeOPF,
		NbMaxMicroIterations:        50,
		NbMaxConstraintsByIteration: 200,
		NbMaxConstraints:            5000,
		MaxRelancePertes:            5,
		ThresholdRelancePertes:      1.0,
		TimeMaxPne:                  0,
		AcceptableDiff:              1e-2,
		DedupRelativeTolerance:      0.01,
		DedupAbsoluteToleranceMW:    1.0,
		ParadeEquivalenceEps:        1e-7,
		MinPivot:                    1e-5,
		LodfSingularityThreshold:    1e-9,
		CoefficientDropThreshold:    1e-8,
		DisableReducedProblemSolver: false,
		UseItam:                     true,
		ConstraintCheckLevel:        0,
		LogLevel:                    3,
	}
}

// FromKV overlays any keys present in kv onto Default(), validating mode
// and bucket types as it goes.
func FromKV(kv *KV) (Options, error) {
	o := Default()

	if s, err := kv.String("mode"); err == nil {
		m := Mode(s)
		switch m {
		case ModeLoadFlow, ModeOPF, ModeOPFWithOverload, ModeOPFWithoutRedisp:
			o.Mode = m
		default:
			return o, fmt.Errorf("mode=%q: %w", s, ErrInvalidMode)
		}
	}

	o.NbMaxMicroIterations = kv.IntOr("nbMaxMicroIterations", o.NbMaxMicroIterations)
	o.NbMaxConstraintsByIteration = kv.IntOr("nb_max_contraints_by_iteration", o.NbMaxConstraintsByIteration)
	o.NbMaxConstraints = kv.IntOr("nb_max_constraints", o.NbMaxConstraints)
	o.MaxRelancePertes = kv.IntOr("maxRelancePertes", o.MaxRelancePertes)
	o.ThresholdRelancePertes = kv.FloatOr("thresholdRelancePertes", o.ThresholdRelancePertes)
	o.TimeMaxPne = kv.FloatOr("timeMaxPne", o.TimeMaxPne)

	o.AcceptableDiff = kv.FloatOr("acceptable_diff", o.AcceptableDiff)
	o.DedupRelativeTolerance = kv.FloatOr("dedup_relative_tolerance", o.DedupRelativeTolerance)
	o.DedupAbsoluteToleranceMW = kv.FloatOr("dedup_absolute_tolerance_mw", o.DedupAbsoluteToleranceMW)

	o.DisableReducedProblemSolver = kv.BoolOr("disable_reduced_problem_solver", o.DisableReducedProblemSolver)
	o.UseItam = kv.BoolOr("use_itam", o.UseItam)

	o.DumpMPS = kv.BoolOr("dump_mps", o.DumpMPS)
	o.DumpSensitivity = kv.BoolOr("dump_sensitivity", o.DumpSensitivity)
	o.DumpConstraintMatrix = kv.BoolOr("dump_constraint_matrix", o.DumpConstraintMatrix)
	o.ConstraintCheckLevel = kv.IntOr("constraint_check_level", o.ConstraintCheckLevel)
	o.LogLevel = kv.IntOr("log_level", o.LogLevel)

	return o, nil
}
