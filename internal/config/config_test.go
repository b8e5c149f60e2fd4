package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"document-qa/internal/models"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "http", cfg.Embedding.Provider)
	assert.Equal(t, models.DefaultDimension, cfg.Embedding.Dimension)
	assert.Equal(t, models.DefaultMaxRetries, cfg.QA.MaxRetries)
	assert.Equal(t, models.DefaultTopK, cfg.RAG.TopK)
	assert.Equal(t, models.DefaultThreshold, cfg.RAG.SimilarityThreshold)
	assert.Equal(t, models.DefaultChunkSize, cfg.RAG.ChunkSize)
	assert.Equal(t, models.DefaultChunkOverlap, cfg.RAG.ChunkOverlap)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  driver: postgres
  dsn: postgres://localhost:5432/docqa
embedding:
  provider: http
  endpoint: http://localhost:8080/embed
  dimension: 768
qa:
  endpoint: http://localhost:8080/qa
rag:
  top_k: 5
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 768, cfg.Embedding.Dimension)
	assert.Equal(t, 5, cfg.RAG.TopK)
	// unset fields still get defaults
	assert.Equal(t, models.DefaultMaxRetries, cfg.QA.MaxRetries)
	assert.Equal(t, models.DefaultThreshold, cfg.RAG.SimilarityThreshold)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`store: [not: valid`), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
