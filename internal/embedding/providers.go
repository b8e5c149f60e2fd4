package embedding

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"document-qa/internal/config"
	"document-qa/internal/metrics"
)

// LangchainEmbedder adapts a langchaingo embedder to the zero-vector
// fallback contract, for deployments backed by an OpenAI-compatible API or
// a local ollama server instead of the raw inference endpoint.
type LangchainEmbedder struct {
	impl      *embeddings.EmbedderImpl
	dimension int
	counters  *metrics.Counters
}

func NewOpenAIEmbedder(cfg config.EmbeddingConfig, counters *metrics.Counters) (*LangchainEmbedder, error) {
	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(strings.TrimPrefix(cfg.APIKey, "Bearer ")),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, err
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, err
	}
	return &LangchainEmbedder{impl: embedder, dimension: cfg.Dimension, counters: counters}, nil
}

func NewOllamaEmbedder(cfg config.EmbeddingConfig, counters *metrics.Counters) (*LangchainEmbedder, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.BaseURL),
		ollama.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, err
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, err
	}
	return &LangchainEmbedder{impl: embedder, dimension: cfg.Dimension, counters: counters}, nil
}

func (e *LangchainEmbedder) Embed(ctx context.Context, text string) []float64 {
	vec, err := e.impl.EmbedQuery(ctx, text)
	if err != nil {
		log.Error().Err(err).Msg("embedding failed, falling back to zero vector")
		e.counters.EmbeddingFallbacks.Add(1)
		return make([]float64, e.dimension)
	}
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = float64(v)
	}
	return out
}
