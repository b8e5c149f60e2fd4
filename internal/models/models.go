package models

import "fmt"

// Record is the stored unit of retrieval: one chunk of one document,
// together with its embedding and ingestion metadata.
type Record struct {
	ID        string
	Content   string
	Embedding []float64
	Metadata  map[string]any
}

// SearchResult is a ranked chunk produced per query. Not persisted.
type SearchResult struct {
	ID         string
	Content    string
	Metadata   map[string]any
	Similarity float64
}

// ChunkID builds the canonical id for chunk index i of a document.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", documentID, index)
}
