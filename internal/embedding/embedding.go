// Package embedding turns text into fixed-length vectors by calling a
// remote embedding backend. Every implementation honors the same contract:
// Embed never fails the caller, falling back to a zero vector of the
// configured dimension when the backend is unreachable or its response is
// unparsable. Fallbacks are counted so data-quality regressions stay visible.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"document-qa/internal/metrics"
)

// Embedder converts a text span into its embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) []float64
}

// Client calls an embedding endpoint speaking the raw inference protocol:
// request body is a JSON-encoded single-element list holding the text,
// response shape varies by model server and is parsed tolerantly.
type Client struct {
	endpoint  string
	dimension int
	httpc     *http.Client
	counters  *metrics.Counters
}

func NewClient(endpoint string, dimension int, counters *metrics.Counters) *Client {
	return &Client{
		endpoint:  endpoint,
		dimension: dimension,
		httpc:     &http.Client{Timeout: 30 * time.Second},
		counters:  counters,
	}
}

// Embed returns the embedding for text, or a zero vector of the configured
// dimension when anything goes wrong. Callers must treat a zero vector as a
// data-quality condition, not an abort.
func (c *Client) Embed(ctx context.Context, text string) []float64 {
	vec, err := c.invoke(ctx, text)
	if err != nil {
		log.Error().Err(err).Msg("embedding failed, falling back to zero vector")
		c.counters.EmbeddingFallbacks.Add(1)
		return make([]float64, c.dimension)
	}
	return vec
}

func (c *Client) invoke(ctx context.Context, text string) ([]float64, error) {
	payload, err := json.Marshal([]string{text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding backend returned %d: %s", resp.StatusCode, truncate(body, 200))
	}
	return ParseVector(body)
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
