package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
# comment
mode = STRING:OPF
nbMaxMicroIterations = INTEGER:30
thresholdRelancePertes = DOUBLE:2.5
disable_reduced_problem_solver = BOOLEAN:false
thresholds = FLOAT:10.0,20.0,30.5
`

func TestParseAndFromKV(t *testing.T) {
	kv, err := Parse(strings.NewReader(sampleConfig))
	require.NoError(t, err)

	opts, err := FromKV(kv)
	require.NoError(t, err)
	assert.Equal(t, ModeOPF, opts.Mode)
	assert.Equal(t, 30, opts.NbMaxMicroIterations)
	assert.InDelta(t, 2.5, opts.ThresholdRelancePertes, 1e-12)
	assert.False(t, opts.DisableReducedProblemSolver)

	arr, err := kv.FloatArray("thresholds")
	require.NoError(t, err)
	assert.Equal(t, []float64{10.0, 20.0, 30.5}, arr)
}

func TestDefaultsAppliedWhenKeysAbsent(t *testing.T) {
	kv, err := Parse(strings.NewReader(""))
	require.NoError(t, err)

	opts, err := FromKV(kv)
	require.NoError(t, err)
	assert.Equal(t, Default(), opts)
}

func TestMissingKeyError(t *testing.T) {
	kv, err := Parse(strings.NewReader(""))
	require.NoError(t, err)

	_, err = kv.Int("nope")
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestBadTypeError(t *testing.T) {
	kv, err := Parse(strings.NewReader("x = STRING:hello"))
	require.NoError(t, err)

	_, err = kv.Int("x")
	assert.ErrorIs(t, err, ErrBadType)
}

func TestInvalidModeRejected(t *testing.T) {
	kv, err := Parse(strings.NewReader("mode = STRING:NOT-A-MODE"))
	require.NoError(t, err)

	_, err = FromKV(kv)
	assert.ErrorIs(t, err, ErrInvalidMode)
}
