package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"tcgen/internal/contextutil"
	"tcgen/internal/extract"
	"tcgen/internal/segment"
	"tcgen/internal/service"
)

// multipartMemory is the part of an upload kept in memory before
// mime/multipart spills to disk.
const multipartMemory = 8 << 20

// DocumentHandler handles HTTP requests for uploaded documents.
type DocumentHandler struct {
	chunkService   service.ChunkService
	maxUploadBytes int64
	uploadDir      string // "" uses os.TempDir
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(chunkService service.ChunkService, maxUploadBytes int64, uploadDir string) *DocumentHandler {
	return &DocumentHandler{
		chunkService:   chunkService,
		maxUploadBytes: maxUploadBytes,
		uploadDir:      uploadDir,
	}
}

// DocumentSummary describes a stored document without its chunks.
type DocumentSummary struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	Format     string    `json:"format"`
	Mode       string    `json:"mode"`
	ChunkSize  int       `json:"chunk_size"`
	Overlap    int       `json:"overlap"`
	ChunkCount int       `json:"chunk_count"`
	Published  bool      `json:"published"`
	CreatedAt  time.Time `json:"created_at"`
}

// DocumentListResponse is the response of GET /api/documents.
type DocumentListResponse struct {
	Documents []DocumentSummary `json:"documents"`
	Limit     int               `json:"limit"`
	Offset    int               `json:"offset"`
}

// BatchItem is the outcome for one file of a batch upload.
type BatchItem struct {
	FileName string          `json:"file_name"`
	Status   int             `json:"status"`
	Result   *segment.Result `json:"result,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// BatchResponse is the response of POST /api/documents/batch.
type BatchResponse struct {
	Results []BatchItem `json:"results"`
	Failed  int         `json:"failed"`
}

// Upload handles POST /api/documents with a multipart "file" field. The
// optional form fields mode, chunk_size and overlap override the defaults.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	files, opts, ok := h.parseUpload(w, r, "file")
	if !ok {
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	path, cleanup, err := h.saveUpload(files[0])
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to store upload")
		return
	}
	defer cleanup()

	result, err := h.chunkService.ChunkDocument(ctx, service.ChunkDocumentRequest{
		Path:     path,
		FileName: uploadName(files[0]),
		Options:  opts,
	})
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to chunk document")
		return
	}

	status := http.StatusCreated
	if result.Reused {
		status = http.StatusOK
	}
	writeJSON(ctx, w, status, result)
}

// UploadBatch handles POST /api/documents/batch with one or more multipart
// "files" fields. Files are segmented concurrently; each file reports its
// own status.
func (h *DocumentHandler) UploadBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	files, opts, ok := h.parseUpload(w, r, "files")
	if !ok {
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	reqs := make([]service.ChunkDocumentRequest, 0, len(files))
	for _, fh := range files {
		path, cleanup, err := h.saveUpload(fh)
		if err != nil {
			handleServiceError(ctx, w, err, "Failed to store upload")
			return
		}
		defer cleanup()
		reqs = append(reqs, service.ChunkDocumentRequest{Path: path, FileName: uploadName(fh), Options: opts})
	}

	outcomes, err := h.chunkService.ChunkDocuments(ctx, reqs)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to chunk documents")
		return
	}

	resp := BatchResponse{Results: make([]BatchItem, len(outcomes))}
	for i, o := range outcomes {
		item := BatchItem{FileName: o.FileName, Status: http.StatusCreated, Result: o.Result}
		if o.Err != nil {
			item.Status, item.Error = errorStatus(o.Err, "Failed to chunk document")
			item.Result = nil
			resp.Failed++
		} else if o.Result != nil && o.Result.Reused {
			item.Status = http.StatusOK
		}
		resp.Results[i] = item
	}

	logger.InfoContext(ctx, "batch upload processed", "files", len(files), "failed", resp.Failed)
	writeJSON(ctx, w, http.StatusOK, resp)
}

// List handles GET /api/documents?limit=&offset=.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, err := queryInt(r, "limit")
	if err != nil {
		handleServiceError(ctx, w, err, "")
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		handleServiceError(ctx, w, err, "")
		return
	}

	docs, err := h.chunkService.ListDocuments(ctx, service.ListDocumentsRequest{Limit: limit, Offset: offset})
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list documents")
		return
	}

	resp := DocumentListResponse{
		Documents: make([]DocumentSummary, len(docs)),
		Limit:     limit,
		Offset:    offset,
	}
	if resp.Limit == 0 {
		resp.Limit = service.DefaultListLimit
	}
	resp.Limit = min(resp.Limit, service.MaxListLimit)
	for i, d := range docs {
		resp.Documents[i] = DocumentSummary{
			ID:         d.ID,
			FileName:   d.FileName,
			Format:     d.Format,
			Mode:       d.Mode,
			ChunkSize:  d.ChunkSize,
			Overlap:    d.Overlap,
			ChunkCount: d.ChunkCount,
			Published:  d.Published,
			CreatedAt:  d.CreatedAt,
		}
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// Get handles GET /api/documents/{id}.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.chunkService.GetDocument(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to get document")
		return
	}
	writeJSON(ctx, w, http.StatusOK, result)
}

// Delete handles DELETE /api/documents/{id}.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.chunkService.DeleteDocument(ctx, chi.URLParam(r, "id")); err != nil {
		handleServiceError(ctx, w, err, "Failed to delete document")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseUpload limits and parses the multipart body and returns the files of
// field together with the segmentation overrides. On failure it has already
// written the response.
func (h *DocumentHandler) parseUpload(w http.ResponseWriter, r *http.Request, field string) ([]*multipart.FileHeader, service.ChunkOptions, bool) {
	ctx := r.Context()

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			handleServiceError(ctx, w, err, "")
			return nil, service.ChunkOptions{}, false
		}
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid multipart body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid multipart body")
		return nil, service.ChunkOptions{}, false
	}

	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		_ = r.MultipartForm.RemoveAll()
		handleServiceError(ctx, w, &service.ValidationError{Field: field, Message: "is required"}, "")
		return nil, service.ChunkOptions{}, false
	}

	opts, err := formOptions(r)
	if err != nil {
		_ = r.MultipartForm.RemoveAll()
		handleServiceError(ctx, w, err, "")
		return nil, service.ChunkOptions{}, false
	}
	return files, opts, true
}

// saveUpload copies an uploaded part to a temp file that keeps the original
// extension, which extract.ValidateFile relies on.
func (h *DocumentHandler) saveUpload(fh *multipart.FileHeader) (string, func(), error) {
	src, err := fh.Open()
	if err != nil {
		return "", nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.CreateTemp(h.uploadDir, "upload-*"+extract.FileExtension(fh.Filename))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	cleanup := func() { _ = os.Remove(dst.Name()) }

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to write upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to write upload: %w", err)
	}
	return dst.Name(), cleanup, nil
}

// uploadName returns the base name the client sent for fh.
func uploadName(fh *multipart.FileHeader) string {
	name := filepath.Base(filepath.Clean("/" + fh.Filename))
	if name == "/" || name == "." {
		return "upload"
	}
	return name
}

func formOptions(r *http.Request) (service.ChunkOptions, error) {
	opts := service.ChunkOptions{Mode: r.FormValue("mode")}
	for _, f := range []struct {
		name string
		dst  **int
	}{
		{"chunk_size", &opts.ChunkSize},
		{"overlap", &opts.Overlap},
	} {
		raw := r.FormValue(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return service.ChunkOptions{}, &service.ValidationError{Field: f.name, Message: "must be an integer"}
		}
		*f.dst = &v
	}
	return opts, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &service.ValidationError{Field: name, Message: "must be an integer"}
	}
	return v, nil
}
