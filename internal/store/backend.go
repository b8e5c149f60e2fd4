// Package store persists chunk records and serves the full-corpus reads the
// ranker scans. The persistence surface is deliberately small: put by key,
// delete by key, scan everything.
package store

import (
	"context"
	"encoding/json"
	"strconv"

	"document-qa/internal/models"
)

// Backend is the key-value-with-scan persistence surface. Records are
// written once and never updated in place; corrections are delete plus
// re-insert.
type Backend interface {
	Put(ctx context.Context, rec models.Record) error
	Delete(ctx context.Context, id string) error
	Scan(ctx context.Context) ([]models.Record, error)
}

// NormalizeMetadata returns a copy of meta with every float converted to a
// decimal-string json.Number, recursing into nested maps and slices. This
// keeps numeric metadata lossless across persistence backends that
// round-trip values through JSON.
func NormalizeMetadata(meta map[string]any) map[string]any {
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case float64:
		return decimal(t)
	case float32:
		return decimal(float64(t))
	case map[string]any:
		return NormalizeMetadata(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}

func decimal(f float64) json.Number {
	return json.Number(strconv.FormatFloat(f, 'g', -1, 64))
}
