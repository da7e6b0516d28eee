package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tcgen/internal/config"
	"tcgen/internal/http"
	"tcgen/internal/llm"
	"tcgen/internal/segment"
	"tcgen/internal/service"
	"tcgen/internal/storage"
	"tcgen/internal/vectorstore"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API segments text extracted from PDF and DOCX planning documents into
// overlapping chunks for downstream retrieval.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: tcgen Segmentation API
//   description: |
//     Splits raw text and uploaded PDF/DOCX documents into overlapping chunks.
//     Stored documents can be listed, fetched with their chunks, and deleted.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
//   - multipart/form-data
// produces:
//   - application/json

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	documentRepo := storage.NewDocumentRepo(db)
	chunkRepo := storage.NewChunkRepo(db)

	// Publishing to Qdrant is optional. The interface values stay nil when it
	// is disabled so the pipeline and health check skip it.
	var (
		publisher   segment.Publisher
		vectorStore vectorstore.VectorStore
	)
	if cfg.PublishEnabled() {
		qdrant, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantAPIKey)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
		defer func() {
			_ = qdrant.Close()
		}()

		if err := qdrant.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
			log.Fatalf("Failed to ensure Qdrant collection: %v", err)
		}
		slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

		// Validate embedding client vector size (fail-fast)
		embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
		testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
		if err != nil {
			log.Fatalf("Failed to validate embedding client: %v", err)
		}
		if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.QdrantVectorSize {
			log.Fatalf("Embedding vector size mismatch: expected %d", cfg.QdrantVectorSize)
		}
		slog.Info("Embedding client validated", "model", cfg.EmbeddingModelName, "vector_size", cfg.QdrantVectorSize)

		vectorStore = qdrant
		publisher = segment.NewVectorPublisher(embedder, qdrant, cfg.QdrantCollection)
	} else {
		slog.Info("Publishing disabled (QDRANT_URL not set)")
	}

	pipeline := segment.NewPipeline(documentRepo, chunkRepo, publisher, segment.Config{
		Mode:    cfg.ChunkMode,
		Params:  cfg.ChunkParams(),
		Workers: cfg.Workers,
	})
	mode, params := pipeline.Defaults()
	slog.Info("Segmentation pipeline ready",
		"mode", mode,
		"chunk_size", params.ChunkSize,
		"overlap", params.Overlap,
		"workers", cfg.Workers,
		"publish", pipeline.PublishEnabled(),
	)

	chunkService := service.NewChunkService(pipeline, documentRepo)

	router := http.NewRouter(&http.Deps{
		ChunkService:   chunkService,
		DB:             db,
		VectorStore:    vectorStore,
		Collection:     cfg.QdrantCollection,
		MaxUploadBytes: int64(cfg.MaxUploadMB) << 20,
	})

	server := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Starting API server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatalf("API server failed: %v", err)
		}
	case <-ctx.Done():
		slog.Info("Shutting down API server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
