package ioformat

import (
	"encoding/csv"
	"io"
	"strconv"
)

// CSVVariantReader reads variant records from a line-based CSV-like
// stream: VariantID, Index, then alternating key/value pairs.
type CSVVariantReader struct {
	r *csv.Reader
}

// NewCSVVariantReader wraps r for variant streaming.
func NewCSVVariantReader(r io.Reader) *CSVVariantReader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	return &CSVVariantReader{r: cr}
}

func (v *CSVVariantReader) ReadVariant() (VariantRecord, error) {
	rec, err := v.r.Read()
	if err != nil {
		return VariantRecord{}, err
	}
	if len(rec) < 2 {
		return VariantRecord{}, io.ErrUnexpectedEOF
	}
	idx, _ := strconv.Atoi(rec[1])
	updates := make(map[string]string)
	for i := 2; i+1 < len(rec); i += 2 {
		updates[rec[i]] = rec[i+1]
	}
	return VariantRecord{VariantID: rec[0], Index: idx, Updates: updates}, nil
}

// CSVParadeReader reads parade records: FatherID, then three
// semicolon-separated list fields and an optional fourth.
type CSVParadeReader struct {
	r *csv.Reader
}

// NewCSVParadeReader wraps r for parade streaming.
func NewCSVParadeReader(r io.Reader) *CSVParadeReader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	return &CSVParadeReader{r: cr}
}

func (p *CSVParadeReader) ReadParade() (ParadeRecord, error) {
	rec, err := p.r.Read()
	if err != nil {
		return ParadeRecord{}, err
	}
	if len(rec) < 4 {
		return ParadeRecord{}, io.ErrUnexpectedEOF
	}
	out := ParadeRecord{
		FatherID:          rec[0],
		OpenBranches:      splitSemicolon(rec[1]),
		CloseBranches:     splitSemicolon(rec[2]),
		CurativeOverrides: splitSemicolon(rec[3]),
	}
	if len(rec) > 4 {
		out.AuthorizedMonitors = splitSemicolon(rec[4])
	}
	return out, nil
}

func splitSemicolon(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ';' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

// CSVResultWriter writes ResultRows as CSV lines, the tag as the first
// field, flushing on Close. No header row is written.
type CSVResultWriter struct {
	w      *csv.Writer
	closer io.Closer
}

// NewCSVResultWriter wraps wc, which CSVResultWriter takes ownership of
// and closes on Close.
func NewCSVResultWriter(wc io.WriteCloser) *CSVResultWriter {
	return &CSVResultWriter{w: csv.NewWriter(wc), closer: wc}
}

func (r *CSVResultWriter) WriteRow(row ResultRow) error {
	return r.w.Write(append([]string{row.Tag}, row.Fields...))
}

func (r *CSVResultWriter) Close() error {
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		r.closer.Close()
		return err
	}
	return r.closer.Close()
}

// FormatMW renders a megawatt value at the result file's 0.1 MW
// precision.
func FormatMW(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// FormatDelta renders a normalized delta at the result file's 1e-4
// precision.
func FormatDelta(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
