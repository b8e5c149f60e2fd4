package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"document-qa/internal/metrics"
	"document-qa/internal/models"
	"document-qa/internal/rank"
)

// fixedEmbedder returns the same vector for any text.
type fixedEmbedder struct {
	vec []float64
}

func (f fixedEmbedder) Embed(context.Context, string) []float64 { return f.vec }

// failingBackend rejects every write.
type failingBackend struct{}

func (failingBackend) Put(context.Context, models.Record) error {
	return errors.New("table unavailable")
}

func (failingBackend) Delete(context.Context, string) error { return nil }

func (failingBackend) Scan(context.Context) ([]models.Record, error) { return nil, nil }

func newTestStore(backend Backend) (*Store, *metrics.Counters) {
	counters := metrics.New()
	return New(backend, fixedEmbedder{vec: []float64{1, 0}}, rank.NewBruteForce(), counters), counters
}

func TestNormalizeMetadata(t *testing.T) {
	meta := NormalizeMetadata(map[string]any{
		"source": "report.pdf",
		"pages":  12,
		"score":  0.125,
		"nested": map[string]any{"ratio": 0.5},
		"list":   []any{1.5, "keep"},
	})

	assert.Equal(t, "report.pdf", meta["source"])
	assert.Equal(t, 12, meta["pages"])
	assert.Equal(t, json.Number("0.125"), meta["score"])
	assert.Equal(t, json.Number("0.5"), meta["nested"].(map[string]any)["ratio"])
	assert.Equal(t, json.Number("1.5"), meta["list"].([]any)[0])
	assert.Equal(t, "keep", meta["list"].([]any)[1])
}

func TestMemoryScanKeepsInsertionOrder(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, m.Put(ctx, models.Record{ID: id}))
	}

	records, err := m.Scan(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "c", records[0].ID)
	assert.Equal(t, "a", records[1].ID)
	assert.Equal(t, "b", records[2].ID)
}

func TestMemoryDeleteIdempotent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Put(ctx, models.Record{ID: "x"}))
	require.NoError(t, m.Delete(ctx, "x"))
	require.NoError(t, m.Delete(ctx, "x"))
	require.NoError(t, m.Delete(ctx, "never existed"))

	records, err := m.Scan(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestInsertComputesEmbeddingAndStampsTimestamp(t *testing.T) {
	backend := NewMemory()
	st, _ := newTestStore(backend)
	ctx := context.Background()

	ok := st.Insert(ctx, "doc_chunk_0", "some content", map[string]any{"source": "a.txt"}, nil)
	require.True(t, ok)

	records, err := backend.Scan(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []float64{1, 0}, records[0].Embedding)
	assert.Equal(t, "a.txt", records[0].Metadata["source"])

	ts, isNumber := records[0].Metadata[models.MetaTimestamp].(json.Number)
	require.True(t, isNumber)
	secs, err := ts.Float64()
	require.NoError(t, err)
	assert.Greater(t, secs, 0.0)
}

func TestInsertPrecomputedEmbedding(t *testing.T) {
	backend := NewMemory()
	st, _ := newTestStore(backend)

	require.True(t, st.Insert(context.Background(), "id", "content", nil, []float64{0.5, 0.5}))
	records, _ := backend.Scan(context.Background())
	require.Len(t, records, 1)
	assert.Equal(t, []float64{0.5, 0.5}, records[0].Embedding)
}

func TestInsertFailureReturnsFalse(t *testing.T) {
	st, counters := newTestStore(failingBackend{})

	ok := st.Insert(context.Background(), "id", "content", nil, nil)
	assert.False(t, ok)
	assert.EqualValues(t, 1, counters.InsertFailures.Value())
}

func TestSearchRanksAndTruncates(t *testing.T) {
	backend := NewMemory()
	st, _ := newTestStore(backend)
	ctx := context.Background()

	require.True(t, st.Insert(ctx, "away", "b", nil, []float64{0, 1}))
	require.True(t, st.Insert(ctx, "close", "a", nil, []float64{1, 0.1}))
	require.True(t, st.Insert(ctx, "middle", "c", nil, []float64{1, 1}))

	results, err := st.Search(ctx, []float64{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "close", results[0].ID)
	assert.Equal(t, "middle", results[1].ID)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)
}
