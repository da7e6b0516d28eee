package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"tcgen/internal/contextutil"
	"tcgen/internal/service"
)

// ChunkHandler handles HTTP requests for segmenting raw text.
type ChunkHandler struct {
	chunkService service.ChunkService
	maxBodyBytes int64
}

// NewChunkHandler creates a new ChunkHandler. Request bodies larger than
// maxBodyBytes are rejected with 413.
func NewChunkHandler(chunkService service.ChunkService, maxBodyBytes int64) *ChunkHandler {
	return &ChunkHandler{
		chunkService: chunkService,
		maxBodyBytes: maxBodyBytes,
	}
}

// ChunkRequest represents the HTTP request payload for text segmentation.
// Omitted fields fall back to the server defaults.
type ChunkRequest struct {
	Text      string `json:"text"`
	FileName  string `json:"file_name,omitempty"`
	Mode      string `json:"mode,omitempty"`
	ChunkSize *int   `json:"chunk_size,omitempty"`
	Overlap   *int   `json:"overlap,omitempty"`
	Persist   bool   `json:"persist,omitempty"`
}

// ServeHTTP handles HTTP requests for text segmentation.
func (h *ChunkHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	var req ChunkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			handleServiceError(ctx, w, err, "")
			return
		}
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.chunkService.ChunkText(ctx, service.ChunkTextRequest{
		Text:     req.Text,
		FileName: req.FileName,
		Options: service.ChunkOptions{
			Mode:      req.Mode,
			ChunkSize: req.ChunkSize,
			Overlap:   req.Overlap,
		},
		Persist: req.Persist,
	})
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to chunk text")
		return
	}

	status := http.StatusOK
	if req.Persist && !result.Reused {
		status = http.StatusCreated
	}
	writeJSON(ctx, w, status, result)
}
