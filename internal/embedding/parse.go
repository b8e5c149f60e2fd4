package embedding

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Keys checked, in order, when the backend wraps the vector in an object.
var vectorKeys = []string{"embedding", "embeddings", "vector", "vectors", "value", "values"}

// ParseVector extracts an embedding from a backend response body. Handled
// shapes: a JSON array of numbers, a batch-shaped array of arrays (first
// element taken), an array of numeric strings, an object keyed by one of
// vectorKeys, or a non-JSON delimited list of numbers.
func ParseVector(body []byte) ([]float64, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return parseDelimited(string(body))
	}

	switch v := decoded.(type) {
	case []any:
		if len(v) == 0 {
			return nil, fmt.Errorf("empty embedding array")
		}
		if nested, ok := v[0].([]any); ok {
			return toFloats(nested)
		}
		return toFloats(v)
	case map[string]any:
		for _, key := range vectorKeys {
			if arr, ok := v[key].([]any); ok {
				return toFloats(arr)
			}
		}
	}
	return nil, fmt.Errorf("unrecognized embedding response shape: %s", truncate(body, 200))
}

func toFloats(values []any) ([]float64, error) {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		switch n := v.(type) {
		case float64:
			out = append(out, n)
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				return nil, fmt.Errorf("non-numeric embedding element %q", n)
			}
			out = append(out, f)
		case json.Number:
			f, err := n.Float64()
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		default:
			return nil, fmt.Errorf("non-numeric embedding element of type %T", v)
		}
	}
	return out, nil
}

// parseDelimited handles raw text bodies: an optional enclosing bracket
// pair around comma- or whitespace-separated numbers. Comma wins when
// both separators appear.
func parseDelimited(body string) ([]float64, error) {
	clean := strings.TrimSpace(body)
	if strings.HasPrefix(clean, "[") && strings.HasSuffix(clean, "]") {
		clean = clean[1 : len(clean)-1]
	}

	var parts []string
	if strings.Contains(clean, ",") {
		parts = strings.Split(clean, ",")
	} else {
		parts = strings.Fields(clean)
	}

	var out []float64
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("unparsable embedding value %q", p)
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no embedding values in response")
	}
	return out, nil
}
