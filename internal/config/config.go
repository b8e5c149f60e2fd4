package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"

	"document-qa/internal/models"
)

type StoreConfig struct {
	Driver   string `yaml:"driver"` // "memory" or "postgres"
	DSN      string `yaml:"dsn"`
	Password string `yaml:"password"`
	Debug    bool   `yaml:"debug"`
}

type EmbeddingConfig struct {
	Provider  string `yaml:"provider"` // "http", "openai" or "ollama"
	Endpoint  string `yaml:"endpoint"`
	BaseURL   string `yaml:"base_url"`
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
}

type QAConfig struct {
	Endpoint   string `yaml:"endpoint"`
	MaxRetries int    `yaml:"max_retries"`
}

type RAGConfig struct {
	TopK                int     `yaml:"top_k"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	ChunkSize           int     `yaml:"chunk_size"`
	ChunkOverlap        int     `yaml:"chunk_overlap"`
}

type Config struct {
	Store     StoreConfig     `yaml:"store"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	QA        QAConfig        `yaml:"qa"`
	RAG       RAGConfig       `yaml:"rag"`
}

// LoadConfig reads the yaml config at path. A missing file yields defaults
// so the engine can run fully in-memory without any setup. Secrets fall back
// to the environment (STORE_PASSWORD, EMBEDDING_API_KEY).
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := &Config{}
			applyDefaults(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "memory"
	}
	if cfg.Store.Password == "" {
		cfg.Store.Password = os.Getenv("STORE_PASSWORD")
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "http"
	}
	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = os.Getenv("EMBEDDING_API_KEY")
	}
	if cfg.Embedding.Dimension == 0 {
		cfg.Embedding.Dimension = models.DefaultDimension
	}
	if cfg.QA.MaxRetries == 0 {
		cfg.QA.MaxRetries = models.DefaultMaxRetries
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = models.DefaultTopK
	}
	if cfg.RAG.SimilarityThreshold == 0 {
		cfg.RAG.SimilarityThreshold = models.DefaultThreshold
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = models.DefaultChunkSize
	}
	if cfg.RAG.ChunkOverlap == 0 {
		cfg.RAG.ChunkOverlap = models.DefaultChunkOverlap
	}
}
