package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"document-qa/internal/metrics"
)

func TestParseVectorNumberArray(t *testing.T) {
	vec, err := ParseVector([]byte(`[0.1, 0.2, 0.3]`))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vec)
}

func TestParseVectorBatchShaped(t *testing.T) {
	vec, err := ParseVector([]byte(`[[0.1, 0.2], [0.9, 0.8]]`))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2}, vec)
}

func TestParseVectorStringArray(t *testing.T) {
	vec, err := ParseVector([]byte(`["0.5", "1.5", "-2"]`))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1.5, -2}, vec)
}

func TestParseVectorObjectKeys(t *testing.T) {
	for _, key := range []string{"embedding", "embeddings", "vector", "vectors", "value", "values"} {
		body, err := json.Marshal(map[string]any{key: []float64{1, 2}})
		require.NoError(t, err)
		vec, err := ParseVector(body)
		require.NoError(t, err, "key %s", key)
		assert.Equal(t, []float64{1, 2}, vec)
	}
}

func TestParseVectorObjectPrefersEmbeddingKey(t *testing.T) {
	vec, err := ParseVector([]byte(`{"vectors": [9, 9], "embedding": [1, 2]}`))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, vec)
}

func TestParseVectorCommaSeparated(t *testing.T) {
	vec, err := ParseVector([]byte(`0.25, 0.5, 0.75`))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.5, 0.75}, vec)
}

func TestParseVectorWhitespaceSeparatedBracketed(t *testing.T) {
	// brackets alone do not make it JSON when the values are bare words
	vec, err := ParseVector([]byte(`[0.25 0.5 0.75]`))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.5, 0.75}, vec)
}

func TestParseVectorGarbage(t *testing.T) {
	_, err := ParseVector([]byte(`not an embedding at all`))
	assert.Error(t, err)

	_, err = ParseVector([]byte(`{"status": "ok"}`))
	assert.Error(t, err)

	_, err = ParseVector([]byte(`[]`))
	assert.Error(t, err)
}

func TestClientEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var texts []string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&texts))
		require.Len(t, texts, 1)
		_ = json.NewEncoder(w).Encode([]float64{0.1, 0.2, 0.3})
	}))
	defer srv.Close()

	counters := metrics.New()
	client := NewClient(srv.URL, 3, counters)
	vec := client.Embed(context.Background(), "hello")
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vec)
	assert.EqualValues(t, 0, counters.EmbeddingFallbacks.Value())
}

func TestClientEmbedBackendErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	counters := metrics.New()
	client := NewClient(srv.URL, 4, counters)
	vec := client.Embed(context.Background(), "hello")
	assert.Equal(t, []float64{0, 0, 0, 0}, vec)
	assert.EqualValues(t, 1, counters.EmbeddingFallbacks.Value())
}

func TestClientEmbedTransportErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	counters := metrics.New()
	client := NewClient(srv.URL, 2, counters)
	vec := client.Embed(context.Background(), "hello")
	assert.Equal(t, []float64{0, 0}, vec)
	assert.EqualValues(t, 1, counters.EmbeddingFallbacks.Value())
}

func TestClientEmbedUnparsableBodyFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("internal model error"))
	}))
	defer srv.Close()

	counters := metrics.New()
	client := NewClient(srv.URL, 3, counters)
	vec := client.Embed(context.Background(), "hello")
	assert.Equal(t, make([]float64, 3), vec)
	assert.EqualValues(t, 1, counters.EmbeddingFallbacks.Value())
}
