package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"document-qa/internal/config"
	"document-qa/internal/embedding"
	"document-qa/internal/generator"
	"document-qa/internal/metrics"
	"document-qa/internal/rag"
	"document-qa/internal/rank"
	"document-qa/internal/store"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	_ = godotenv.Load()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	filePath := flag.String("file", "", "Path to a document to ingest")
	query := flag.String("query", "", "Question to answer")
	deleteID := flag.String("delete", "", "Chunk id to delete")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	ctx := context.Background()
	engine, closeFn, err := buildEngine(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error building engine")
	}
	defer closeFn()

	switch {
	case *filePath != "":
		ingestFile(ctx, engine, *filePath)
	case *query != "":
		fmt.Println(engine.Answer(ctx, *query))
	case *deleteID != "":
		if !engine.Delete(ctx, *deleteID) {
			log.Fatal().Str("id", *deleteID).Msg("Error deleting chunk")
		}
	default:
		log.Fatal().Msg("Please provide a document using -file, a question using -query, or a chunk id using -delete")
	}
}

func buildEngine(ctx context.Context, cfg *config.Config) (*rag.Engine, func(), error) {
	counters := metrics.New()
	metrics.Publish(counters)

	var embedder embedding.Embedder
	var err error
	switch cfg.Embedding.Provider {
	case "openai":
		embedder, err = embedding.NewOpenAIEmbedder(cfg.Embedding, counters)
	case "ollama":
		embedder, err = embedding.NewOllamaEmbedder(cfg.Embedding, counters)
	default:
		embedder = embedding.NewClient(cfg.Embedding.Endpoint, cfg.Embedding.Dimension, counters)
	}
	if err != nil {
		return nil, nil, err
	}

	var backend store.Backend
	closeFn := func() {}
	if cfg.Store.Driver == "postgres" {
		pg := store.NewPostgres(store.ConnectDB(cfg.Store.DSN, cfg.Store.Password), cfg.Store.Debug)
		if err := pg.Init(ctx); err != nil {
			return nil, nil, err
		}
		backend = pg
		closeFn = func() {
			if err := pg.Close(); err != nil {
				log.Warn().Err(err).Msg("Error closing store")
			}
		}
	} else {
		backend = store.NewMemory()
	}

	st := store.New(backend, embedder, rank.NewBruteForce(), counters)
	gen := generator.NewClient(cfg.QA.Endpoint, cfg.QA.MaxRetries)

	engine := rag.NewEngine(embedder, st, gen, counters, rag.Options{
		TopK:                cfg.RAG.TopK,
		SimilarityThreshold: cfg.RAG.SimilarityThreshold,
		ChunkSize:           cfg.RAG.ChunkSize,
		ChunkOverlap:        cfg.RAG.ChunkOverlap,
	})
	return engine, closeFn, nil
}

func ingestFile(ctx context.Context, engine *rag.Engine, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Error reading document")
	}

	documentID, stored, err := engine.IngestDocument(ctx, data, path)
	if err != nil {
		log.Fatal().Err(err).Msg("Error ingesting document")
	}
	fmt.Printf("document_id: %s\nchunks_processed: %d\n", documentID, stored)
}
