// Package rank scores stored chunks against a query embedding. The brute
// force ranker is an O(n*d) scan over the corpus; it sits behind the Ranker
// interface so an ANN index can replace it without touching the engine.
package rank

import (
	"math"
	"sort"

	"document-qa/internal/models"
)

// Match pairs a stored record with its similarity to the query.
type Match struct {
	Record     models.Record
	Similarity float64
}

type Ranker interface {
	Rank(query []float64, records []models.Record, topK int) []Match
}

// BruteForce computes cosine similarity against every record.
type BruteForce struct{}

func NewBruteForce() *BruteForce { return &BruteForce{} }

// Rank returns at most topK matches in non-increasing similarity order.
// Ties keep store iteration order.
func (BruteForce) Rank(query []float64, records []models.Record, topK int) []Match {
	if topK <= 0 {
		topK = models.DefaultTopK
	}
	matches := make([]Match, 0, len(records))
	for _, rec := range records {
		matches = append(matches, Match{
			Record:     rec,
			Similarity: Cosine(query, rec.Embedding),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if topK > len(matches) {
		topK = len(matches)
	}
	return matches[:topK]
}

// Cosine returns dot(a,b) / (|a|*|b|). A zero-magnitude operand yields 0.0
// rather than an error. Mismatched lengths are truncated to the shorter
// vector, which keeps the result deterministic for corrupt records.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, magA, magB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	for _, v := range a {
		magA += v * v
	}
	for _, v := range b {
		magB += v * v
	}
	if magA == 0 || magB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
