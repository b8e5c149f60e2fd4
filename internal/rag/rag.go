// Package rag composes the embedding client, document store, ranker and
// answer generator into the end-to-end query and ingestion pipelines.
package rag

import (
	"context"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"document-qa/internal/chunker"
	"document-qa/internal/embedding"
	"document-qa/internal/extractor"
	"document-qa/internal/metrics"
	"document-qa/internal/models"
	"document-qa/internal/store"
)

// Generator produces a displayable answer for a (question, context) pair.
type Generator interface {
	Generate(ctx context.Context, question, contextText string) string
}

// Options are the pipeline knobs; zero values take the package defaults.
type Options struct {
	TopK                int
	SimilarityThreshold float64
	ChunkSize           int
	ChunkOverlap        int
}

// Engine is built once at process start and shared across requests. It
// holds no request state; the store and backend clients it carries are
// read-mostly handles.
type Engine struct {
	embedder  embedding.Embedder
	store     *store.Store
	generator Generator
	counters  *metrics.Counters
	opts      Options
}

func NewEngine(embedder embedding.Embedder, st *store.Store, gen Generator, counters *metrics.Counters, opts Options) *Engine {
	if opts.TopK <= 0 {
		opts.TopK = models.DefaultTopK
	}
	if opts.SimilarityThreshold == 0 {
		opts.SimilarityThreshold = models.DefaultThreshold
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = models.DefaultChunkSize
	}
	if opts.ChunkOverlap <= 0 {
		opts.ChunkOverlap = models.DefaultChunkOverlap
	}
	return &Engine{
		embedder:  embedder,
		store:     st,
		generator: gen,
		counters:  counters,
		opts:      opts,
	}
}

// Answer runs the query pipeline: embed, retrieve, filter, generate. It
// never fails visibly; any fault inside the pipeline resolves to a canned
// message.
func (e *Engine) Answer(ctx context.Context, query string) (answer string) {
	start := time.Now()
	e.counters.Queries.Add(1)
	log.Info().Str("query", query).Msg("processing query")

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("panic in rag pipeline")
			answer = models.MsgProcessingError
		}
	}()

	queryVec := e.embedder.Embed(ctx, query)

	candidates, err := e.store.Search(ctx, queryVec, e.opts.TopK)
	if err != nil {
		log.Error().Err(err).Msg("error searching vector store")
		return models.MsgProcessingError
	}
	if len(candidates) == 0 {
		return models.MsgNoRelevantInfo
	}

	relevant := e.filterByRelevance(candidates)
	clean := e.filterByValidity(relevant)
	if len(clean) == 0 {
		return models.MsgUnsupportedFormat
	}
	log.Debug().Int("candidates", len(candidates)).Int("used", len(clean)).Msg("assembled context")

	contextText := prepareContext(clean)
	answer = e.generator.Generate(ctx, query, contextText)

	log.Info().Dur("took", time.Since(start)).Msg("query processed")
	return answer
}

// filterByRelevance keeps candidates scoring above the similarity
// threshold. When none qualify, the single best candidate is kept so the
// pipeline never drops to zero once retrieval found anything.
func (e *Engine) filterByRelevance(candidates []models.SearchResult) []models.SearchResult {
	var relevant []models.SearchResult
	for _, c := range candidates {
		if c.Similarity > e.opts.SimilarityThreshold {
			relevant = append(relevant, c)
		}
	}
	if len(relevant) == 0 {
		relevant = candidates[:1]
	}
	return relevant
}

// filterByValidity drops candidates whose content looks corrupted.
func (e *Engine) filterByValidity(candidates []models.SearchResult) []models.SearchResult {
	var clean []models.SearchResult
	for _, c := range candidates {
		if isValidContent(c.Content) {
			clean = append(clean, c)
		} else {
			e.counters.InvalidChunks.Add(1)
		}
	}
	return clean
}

// prepareContext joins candidate contents with a single space, preserving
// ranked order; the extractive model locates the answer span within it.
func prepareContext(candidates []models.SearchResult) string {
	parts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		parts = append(parts, c.Content)
	}
	return strings.Join(parts, " ")
}

// isValidContent reports whether content looks like real text: at least 5
// runes, at least 80% printable or whitespace, at least 30% alphanumeric.
func isValidContent(content string) bool {
	runes := []rune(content)
	if len(runes) < 5 {
		return false
	}
	var printable, alnum int
	for _, r := range runes {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			printable++
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum++
		}
	}
	total := float64(len(runes))
	if float64(printable)/total < 0.8 {
		return false
	}
	return float64(alnum)/total >= 0.3
}

// Ingest stores each chunk of a document sequentially, one embed-and-store
// round trip per chunk. A failed chunk is logged and counted but does not
// stop the rest; the return value is the number of chunks actually stored.
func (e *Engine) Ingest(ctx context.Context, documentID string, chunks []string, sharedMetadata map[string]any) int {
	stored := 0
	for i, chunk := range chunks {
		meta := make(map[string]any, len(sharedMetadata)+1)
		for k, v := range sharedMetadata {
			meta[k] = v
		}
		meta[models.MetaChunkIndex] = i

		if e.store.Insert(ctx, models.ChunkID(documentID, i), chunk, meta, nil) {
			stored++
		} else {
			log.Error().Int("chunk", i).Str("document_id", documentID).Msg("failed to ingest chunk")
		}
	}
	e.counters.IngestedChunks.Add(int64(stored))
	log.Info().Str("document_id", documentID).Int("chunks", stored).Msg("document ingested")
	return stored
}

// Delete removes a single chunk by id.
func (e *Engine) Delete(ctx context.Context, chunkID string) bool {
	return e.store.Delete(ctx, chunkID)
}

// IngestDocument extracts text from raw document bytes, chunks it, and
// ingests the chunks under a fresh document id. Unsupported formats and
// documents yielding no text are reported to the caller; they are input
// errors, not pipeline faults.
func (e *Engine) IngestDocument(ctx context.Context, data []byte, filename string) (string, int, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	text, err := extractor.Extract(data, ext)
	if err != nil {
		return "", 0, err
	}

	text = chunker.Normalize(text)
	if text == "" {
		return "", 0, ErrNoText
	}

	documentID := uuid.NewString()
	chunks := chunker.Split(text, e.opts.ChunkSize, e.opts.ChunkOverlap)
	log.Info().Str("document_id", documentID).Int("chunks", len(chunks)).Str("source", filename).Msg("document split")

	shared := map[string]any{
		models.MetaSource:     filename,
		models.MetaFileType:   ext,
		models.MetaDocumentID: documentID,
	}
	stored := e.Ingest(ctx, documentID, chunks, shared)
	return documentID, stored, nil
}
