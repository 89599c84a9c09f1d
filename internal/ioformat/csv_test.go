package ioformat

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVVariantReaderParsesKeyValuePairs(t *testing.T) {
	r := NewCSVVariantReader(strings.NewReader("V1,3,mode,OPF,nbMaxMicroIterations,10\n"))
	rec, err := r.ReadVariant()
	require.NoError(t, err)
	assert.Equal(t, "V1", rec.VariantID)
	assert.Equal(t, 3, rec.Index)
	assert.Equal(t, "OPF", rec.Updates["mode"])
	assert.Equal(t, "10", rec.Updates["nbMaxMicroIterations"])
}

func TestCSVParadeReaderSplitsLists(t *testing.T) {
	r := NewCSVParadeReader(strings.NewReader("F1,AB;CD,EF,curG\n"))
	rec, err := r.ReadParade()
	require.NoError(t, err)
	assert.Equal(t, "F1", rec.FatherID)
	assert.Equal(t, []string{"AB", "CD"}, rec.OpenBranches)
	assert.Equal(t, []string{"EF"}, rec.CloseBranches)
	assert.Equal(t, []string{"curG"}, rec.CurativeOverrides)
}

type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }

func TestCSVResultWriterWritesTaggedRows(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewCSVResultWriter(nopCloser{buf})
	require.NoError(t, w.WriteRow(ResultRow{Tag: "R1", Fields: []string{"G1", FormatMW(12.345)}}))
	require.NoError(t, w.Close())
	assert.Contains(t, buf.String(), "R1,G1,12.3")
}

func TestFormatDeltaPrecision(t *testing.T) {
	assert.Equal(t, "0.1235", FormatDelta(0.12345))
}
