package store

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"document-qa/internal/embedding"
	"document-qa/internal/metrics"
	"document-qa/internal/models"
	"document-qa/internal/rank"
)

// Store is the document store: it embeds content on insert, normalizes
// metadata for the backend, stamps ingestion timestamps, and serves ranked
// similarity searches over the full corpus.
type Store struct {
	backend  Backend
	embedder embedding.Embedder
	ranker   rank.Ranker
	counters *metrics.Counters
	now      func() time.Time
}

func New(backend Backend, embedder embedding.Embedder, ranker rank.Ranker, counters *metrics.Counters) *Store {
	return &Store{
		backend:  backend,
		embedder: embedder,
		ranker:   ranker,
		counters: counters,
		now:      time.Now,
	}
}

// Insert writes one chunk record. A nil embedding is computed from the
// content. Persistence failures are logged and surfaced as false, never as
// an error.
func (s *Store) Insert(ctx context.Context, id, content string, metadata map[string]any, emb []float64) bool {
	if emb == nil {
		emb = s.embedder.Embed(ctx, content)
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	meta := NormalizeMetadata(metadata)
	meta[models.MetaTimestamp] = decimal(float64(s.now().UnixMilli()) / 1000.0)

	rec := models.Record{
		ID:        id,
		Content:   content,
		Embedding: emb,
		Metadata:  meta,
	}
	if err := s.backend.Put(ctx, rec); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to store chunk")
		s.counters.InsertFailures.Add(1)
		return false
	}
	log.Info().Str("id", id).Msg("stored chunk")
	return true
}

// Delete removes a record by id. Deleting an absent id succeeds.
func (s *Store) Delete(ctx context.Context, id string) bool {
	if err := s.backend.Delete(ctx, id); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to delete chunk")
		return false
	}
	log.Info().Str("id", id).Msg("deleted chunk")
	return true
}

// All returns every stored record. Callers own any filtering; this is a
// full-corpus read and scales accordingly.
func (s *Store) All(ctx context.Context) ([]models.Record, error) {
	return s.backend.Scan(ctx)
}

// Search ranks the full corpus against queryVec and returns the topK
// results in descending similarity order.
func (s *Store) Search(ctx context.Context, queryVec []float64, topK int) ([]models.SearchResult, error) {
	records, err := s.backend.Scan(ctx)
	if err != nil {
		return nil, err
	}
	matches := s.ranker.Rank(queryVec, records, topK)
	out := make([]models.SearchResult, 0, len(matches))
	for _, m := range matches {
		out = append(out, models.SearchResult{
			ID:         m.Record.ID,
			Content:    m.Record.Content,
			Metadata:   m.Record.Metadata,
			Similarity: m.Similarity,
		})
	}
	return out, nil
}
