package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metrix-scopf/metrix/internal/diagnostics"
)

func TestMetricsExposedOverHTTP(t *testing.T) {
	m := New()
	m.MicroIterations.Add(3)
	m.CutsAdded.Inc()
	m.ObserveOutcome(diagnostics.NoSolution)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	buf := new(strings.Builder)
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	body := buf.String()
	assert.Contains(t, body, "metrix_micro_iterations_total 3")
	assert.Contains(t, body, "metrix_variant_outcomes_total")
	assert.Contains(t, body, `code="NO_SOLUTION"`)
}
