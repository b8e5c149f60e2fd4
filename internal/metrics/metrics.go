// Package metrics exposes counters for the pipeline's silent data-quality
// fallbacks, so zero-vector embeddings and dropped chunks show up somewhere
// other than a log line.
package metrics

import "expvar"

type Counters struct {
	EmbeddingFallbacks *expvar.Int
	InvalidChunks      *expvar.Int
	InsertFailures     *expvar.Int
	Queries            *expvar.Int
	IngestedChunks     *expvar.Int
}

// New creates unpublished counters, suitable for tests.
func New() *Counters {
	return &Counters{
		EmbeddingFallbacks: new(expvar.Int),
		InvalidChunks:      new(expvar.Int),
		InsertFailures:     new(expvar.Int),
		Queries:            new(expvar.Int),
		IngestedChunks:     new(expvar.Int),
	}
}

// Publish registers the counters under the "docqa." prefix. Call at most
// once per process.
func Publish(c *Counters) {
	expvar.Publish("docqa.embedding_fallbacks", c.EmbeddingFallbacks)
	expvar.Publish("docqa.invalid_chunks_dropped", c.InvalidChunks)
	expvar.Publish("docqa.insert_failures", c.InsertFailures)
	expvar.Publish("docqa.queries", c.Queries)
	expvar.Publish("docqa.ingested_chunks", c.IngestedChunks)
}
