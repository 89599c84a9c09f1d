// Package config ingests the METRIX configuration file: a key-value store
// with typed buckets {INTEGER, FLOAT, DOUBLE, STRING, BOOLEAN}, plus the
// derived Options struct the rest of the engine actually consumes.
// Per-element attributes (node IDs, branch thresholds, generator
// schedules, and so on) are represented as one key holding a
// comma-separated, 0..N-1 indexed list rather than N separate keys.
package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Bucket is a configuration value's declared type tag.
type Bucket string

const (
	BucketInteger Bucket = "INTEGER"
	BucketFloat   Bucket = "FLOAT"
	BucketDouble  Bucket = "DOUBLE"
	BucketString  Bucket = "STRING"
	BucketBoolean Bucket = "BOOLEAN"
)

// Mode selects which computation the engine runs: a bare load flow, an
// economic-dispatch OPF, or one of its overload/no-redispatch variants.
type Mode string

const (
	ModeLoadFlow           Mode = "LOAD-FLOW"
	ModeOPF                Mode = "OPF"
	ModeOPFWithOverload    Mode = "OPF-WITH-OVERLOAD"
	ModeOPFWithoutRedisp   Mode = "OPF-WITHOUT-REDISPATCH"
)

// entry is one parsed key-value line: "key = TYPE:raw".
type entry struct {
	bucket Bucket
	raw    string
}

// KV is the raw, untyped-into-Options view of the configuration file: a
// flat map plus accessors that parse on demand. Parallel per-element
// arrays (e.g. branch thresholds indexed 0..N-1) are represented as
// comma-separated values under one key, matching the source format.
type KV struct {
	entries map[string]entry
}

// Parse reads the key=TYPE:value line format from r. Blank lines and lines
// starting with '#' are skipped. Malformed lines are skipped rather than
// aborting the whole parse — a missing key surfaces later, when an
// accessor (Int, Float, String, ...) returns an ErrMissingKey naming it.
func Parse(r io.Reader) (*KV, error) {
	kv := &KV{entries: make(map[string]entry)}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		bucketStr, raw, ok := strings.Cut(val, ":")
		if !ok {
			continue
		}
		kv.entries[key] = entry{bucket: Bucket(strings.TrimSpace(bucketStr)), raw: strings.TrimSpace(raw)}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("config: scan: %w", err)
	}
	return kv, nil
}

func (kv *KV) lookup(key string) (entry, error) {
	e, ok := kv.entries[key]
	if !ok {
		return entry{}, fmt.Errorf("%s: %w", key, ErrMissingKey)
	}
	return e, nil
}

// Int returns the INTEGER-bucket value for key.
func (kv *KV) Int(key string) (int, error) {
	e, err := kv.lookup(key)
	if err != nil {
		return 0, err
	}
	if e.bucket != BucketInteger {
		return 0, fmt.Errorf("%s: expected INTEGER, got %s: %w", key, e.bucket, ErrBadType)
	}
	n, err := strconv.Atoi(e.raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %v", key, ErrBadType, err)
	}
	return n, nil
}

// IntOr returns Int(key), falling back to def if the key is absent.
func (kv *KV) IntOr(key string, def int) int {
	n, err := kv.Int(key)
	if err != nil {
		return def
	}
	return n
}

// Float returns the FLOAT or DOUBLE bucket value for key.
func (kv *KV) Float(key string) (float64, error) {
	e, err := kv.lookup(key)
	if err != nil {
		return 0, err
	}
	if e.bucket != BucketFloat && e.bucket != BucketDouble {
		return 0, fmt.Errorf("%s: expected FLOAT/DOUBLE, got %s: %w", key, e.bucket, ErrBadType)
	}
	f, err := strconv.ParseFloat(e.raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %v", key, ErrBadType, err)
	}
	return f, nil
}

// FloatOr returns Float(key), falling back to def if the key is absent.
func (kv *KV) FloatOr(key string, def float64) float64 {
	f, err := kv.Float(key)
	if err != nil {
		return def
	}
	return f
}

// String returns the STRING bucket value for key.
func (kv *KV) String(key string) (string, error) {
	e, err := kv.lookup(key)
	if err != nil {
		return "", err
	}
	if e.bucket != BucketString {
		return "", fmt.Errorf("%s: expected STRING, got %s: %w", key, e.bucket, ErrBadType)
	}
	return e.raw, nil
}

// StringOr returns String(key), falling back to def if the key is absent.
func (kv *KV) StringOr(key string, def string) string {
	s, err := kv.String(key)
	if err != nil {
		return def
	}
	return s
}

// Bool returns the BOOLEAN bucket value for key.
func (kv *KV) Bool(key string) (bool, error) {
	e, err := kv.lookup(key)
	if err != nil {
		return false, err
	}
	if e.bucket != BucketBoolean {
		return false, fmt.Errorf("%s: expected BOOLEAN, got %s: %w", key, e.bucket, ErrBadType)
	}
	b, err := strconv.ParseBool(e.raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w: %v", key, ErrBadType, err)
	}
	return b, nil
}

// BoolOr returns Bool(key), falling back to def if the key is absent.
func (kv *KV) BoolOr(key string, def bool) bool {
	b, err := kv.Bool(key)
	if err != nil {
		return def
	}
	return b
}

// StringArray parses a comma-separated STRING-bucket value into a 0..N-1
// indexed array, the format this package uses for per-element ID lists
// (node/branch/generator/load/zone identifiers).
func (kv *KV) StringArray(key string) ([]string, error) {
	e, err := kv.lookup(key)
	if err != nil {
		return nil, err
	}
	if e.bucket != BucketString {
		return nil, fmt.Errorf("%s: expected STRING, got %s: %w", key, e.bucket, ErrBadType)
	}
	if e.raw == "" {
		return nil, nil
	}
	parts := strings.Split(e.raw, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out, nil
}

// IntArray parses a comma-separated INTEGER-bucket value into a 0..N-1
// indexed array, the same per-element attribute format StringArray uses.
func (kv *KV) IntArray(key string) ([]int, error) {
	e, err := kv.lookup(key)
	if err != nil {
		return nil, err
	}
	if e.bucket != BucketInteger {
		return nil, fmt.Errorf("%s: expected INTEGER, got %s: %w", key, e.bucket, ErrBadType)
	}
	return parseIntCSV(key, e.raw)
}

// FloatArray parses a comma-separated FLOAT/DOUBLE-bucket value.
func (kv *KV) FloatArray(key string) ([]float64, error) {
	e, err := kv.lookup(key)
	if err != nil {
		return nil, err
	}
	if e.bucket != BucketFloat && e.bucket != BucketDouble {
		return nil, fmt.Errorf("%s: expected FLOAT/DOUBLE, got %s: %w", key, e.bucket, ErrBadType)
	}
	return parseFloatCSV(key, e.raw)
}

func parseIntCSV(key, raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w: %v", key, i, ErrBadType, err)
		}
		out[i] = n
	}
	return out, nil
}

func parseFloatCSV(key, raw string) ([]float64, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w: %v", key, i, ErrBadType, err)
		}
		out[i] = f
	}
	return out, nil
}
