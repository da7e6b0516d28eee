package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tcgen/internal/handlers"
	"tcgen/internal/service"
	"tcgen/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChunkService service.ChunkService
	DB           handlers.Pinger
	VectorStore  vectorstore.VectorStore // nil when publishing is disabled
	Collection   string
	// MaxUploadBytes limits request bodies of the chunk and upload endpoints.
	MaxUploadBytes int64
	UploadDir      string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	chunkHandler := handlers.NewChunkHandler(deps.ChunkService, deps.MaxUploadBytes)
	documentHandler := handlers.NewDocumentHandler(deps.ChunkService, deps.MaxUploadBytes, deps.UploadDir)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.VectorStore, deps.Collection)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/chunks", chunkHandler)
		r.Method(http.MethodGet, "/health", healthHandler)

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", documentHandler.Upload)
			r.Post("/batch", documentHandler.UploadBatch)
			r.Get("/", documentHandler.List)
			r.Get("/{id}", documentHandler.Get)
			r.Delete("/{id}", documentHandler.Delete)
		})
	})

	return r
}
