package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_segmenter.go -package=mocks tcgen/internal/service Segmenter
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_service.go -package=mocks -mock_names=ChunkService=MockChunkService tcgen/internal/service ChunkService

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tcgen/internal/chunker"
	"tcgen/internal/contextutil"
	"tcgen/internal/extract"
	"tcgen/internal/segment"
	"tcgen/internal/storage"
)

const (
	// DefaultListLimit is used when a list request does not set a limit.
	DefaultListLimit = 50
	// MaxListLimit caps the page size of ListDocuments.
	MaxListLimit = 500
)

// Segmenter is the segmentation pipeline from the service layer's perspective.
type Segmenter interface {
	ProcessText(ctx context.Context, req segment.TextRequest) (*segment.Result, error)
	ProcessFile(ctx context.Context, req segment.FileRequest) (*segment.Result, error)
	ProcessFiles(ctx context.Context, reqs []segment.FileRequest) ([]segment.FileResult, error)
	Get(ctx context.Context, documentID string) (*segment.Result, error)
	Delete(ctx context.Context, documentID string) error
}

// ChunkOptions carries the per-request segmentation overrides.
type ChunkOptions struct {
	Mode      string
	ChunkSize *int
	Overlap   *int
}

// ChunkTextRequest segments raw text.
type ChunkTextRequest struct {
	Text     string
	FileName string
	Options  ChunkOptions
	Persist  bool
}

// ChunkDocumentRequest segments an uploaded PDF or DOCX stored at Path.
type ChunkDocumentRequest struct {
	Path     string
	FileName string
	Options  ChunkOptions
}

// DocumentOutcome is the result of one entry of a batch.
type DocumentOutcome struct {
	FileName string
	Result   *segment.Result
	Err      error
}

// ListDocumentsRequest pages through stored documents.
type ListDocumentsRequest struct {
	Limit  int
	Offset int
}

// ChunkService provides document segmentation.
type ChunkService interface {
	// ChunkText segments text and optionally stores the result.
	ChunkText(ctx context.Context, req ChunkTextRequest) (*segment.Result, error)
	// ChunkDocument extracts, segments and stores a document file.
	ChunkDocument(ctx context.Context, req ChunkDocumentRequest) (*segment.Result, error)
	// ChunkDocuments segments several files concurrently. Per-file failures
	// are reported in the outcomes, not as the returned error.
	ChunkDocuments(ctx context.Context, reqs []ChunkDocumentRequest) ([]DocumentOutcome, error)
	// GetDocument returns a stored document with its chunks.
	GetDocument(ctx context.Context, id string) (*segment.Result, error)
	// ListDocuments returns stored documents, newest first.
	ListDocuments(ctx context.Context, req ListDocumentsRequest) ([]*storage.DocumentRecord, error)
	// DeleteDocument removes a document, its chunks and any published points.
	DeleteDocument(ctx context.Context, id string) error
}

type chunkService struct {
	segmenter Segmenter
	documents storage.DocumentStore
}

// NewChunkService creates a new ChunkService.
func NewChunkService(segmenter Segmenter, documents storage.DocumentStore) ChunkService {
	return &chunkService{
		segmenter: segmenter,
		documents: documents,
	}
}

// ChunkText segments text. Empty text is valid and yields no chunks.
func (s *chunkService) ChunkText(ctx context.Context, req ChunkTextRequest) (*segment.Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	opts, err := validateOptions(req.Options)
	if err != nil {
		logger.WarnContext(ctx, "invalid chunk options", "error", err)
		return nil, err
	}

	result, err := s.segmenter.ProcessText(ctx, segment.TextRequest{
		Text:     req.Text,
		FileName: req.FileName,
		Options:  opts,
		Persist:  req.Persist,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to chunk text", "error", err)
		return nil, mapSegmentError(err, "failed to chunk text")
	}

	logger.InfoContext(ctx, "text chunked",
		"text_length", len(req.Text),
		"chunks", len(result.Chunks),
		"mode", result.Mode,
		"persisted", req.Persist,
	)
	return result, nil
}

// ChunkDocument segments a document file.
func (s *chunkService) ChunkDocument(ctx context.Context, req ChunkDocumentRequest) (*segment.Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(req.Path) == "" {
		return nil, &ValidationError{Field: "file", Message: "is required"}
	}
	opts, err := validateOptions(req.Options)
	if err != nil {
		logger.WarnContext(ctx, "invalid chunk options", "error", err)
		return nil, err
	}

	result, err := s.segmenter.ProcessFile(ctx, segment.FileRequest{
		Path:     req.Path,
		FileName: req.FileName,
		Options:  opts,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to chunk document", "file", req.FileName, "error", err)
		return nil, mapSegmentError(err, "failed to chunk document")
	}

	logger.InfoContext(ctx, "document chunked",
		"document_id", result.DocumentID,
		"file", result.FileName,
		"format", result.Format,
		"chunks", len(result.Chunks),
		"reused", result.Reused,
	)
	return result, nil
}

// ChunkDocuments segments a batch of document files.
func (s *chunkService) ChunkDocuments(ctx context.Context, reqs []ChunkDocumentRequest) ([]DocumentOutcome, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(reqs) == 0 {
		return nil, &ValidationError{Field: "files", Message: "at least one file is required"}
	}

	fileReqs := make([]segment.FileRequest, len(reqs))
	for i, req := range reqs {
		if strings.TrimSpace(req.Path) == "" {
			return nil, &ValidationError{Field: "files", Message: "file path is required"}
		}
		opts, err := validateOptions(req.Options)
		if err != nil {
			return nil, err
		}
		fileReqs[i] = segment.FileRequest{Path: req.Path, FileName: req.FileName, Options: opts}
	}

	results, err := s.segmenter.ProcessFiles(ctx, fileReqs)
	if err != nil {
		logger.ErrorContext(ctx, "batch chunking interrupted", "error", err)
		return nil, WrapError(err, "failed to chunk documents")
	}

	outcomes := make([]DocumentOutcome, len(results))
	for i, r := range results {
		outcomes[i] = DocumentOutcome{FileName: reqs[i].FileName, Result: r.Result}
		if r.Err != nil {
			outcomes[i].Err = mapSegmentError(r.Err, "failed to chunk document")
		}
	}
	return outcomes, nil
}

// GetDocument returns a stored document.
func (s *chunkService) GetDocument(ctx context.Context, id string) (*segment.Result, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &ValidationError{Field: "id", Message: "cannot be empty"}
	}

	result, err := s.segmenter.Get(ctx, id)
	if err != nil {
		return nil, mapSegmentError(err, "failed to get document")
	}
	return result, nil
}

// ListDocuments returns a page of stored documents.
func (s *chunkService) ListDocuments(ctx context.Context, req ListDocumentsRequest) ([]*storage.DocumentRecord, error) {
	if req.Limit < 0 {
		return nil, &ValidationError{Field: "limit", Message: "must not be negative"}
	}
	if req.Offset < 0 {
		return nil, &ValidationError{Field: "offset", Message: "must not be negative"}
	}

	limit := req.Limit
	if limit == 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)

	docs, err := s.documents.List(ctx, limit, req.Offset)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list documents", "error", err)
		return nil, WrapError(err, "failed to list documents")
	}
	return docs, nil
}

// DeleteDocument removes a stored document.
func (s *chunkService) DeleteDocument(ctx context.Context, id string) error {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(id) == "" {
		return &ValidationError{Field: "id", Message: "cannot be empty"}
	}

	if err := s.segmenter.Delete(ctx, id); err != nil {
		logger.ErrorContext(ctx, "failed to delete document", "document_id", id, "error", err)
		return mapSegmentError(err, "failed to delete document")
	}

	logger.InfoContext(ctx, "document deleted", "document_id", id)
	return nil
}

// validateOptions rejects values that cannot be auto-corrected. Sizes that
// are merely inconsistent (chunk size not above overlap) are corrected by
// the chunker and reported back in the result params.
func validateOptions(opts ChunkOptions) (segment.Options, error) {
	var mode chunker.Mode
	if m := strings.TrimSpace(opts.Mode); m != "" {
		parsed, err := chunker.ParseMode(m)
		if err != nil {
			return segment.Options{}, &ValidationError{Field: "mode", Message: err.Error()}
		}
		mode = parsed
	}
	if opts.ChunkSize != nil && *opts.ChunkSize < 1 {
		return segment.Options{}, &ValidationError{Field: "chunk_size", Message: "must be positive"}
	}
	if opts.Overlap != nil && *opts.Overlap < 0 {
		return segment.Options{}, &ValidationError{Field: "overlap", Message: "must not be negative"}
	}
	if opts.Overlap != nil && *opts.Overlap > chunker.MaxOverlap {
		return segment.Options{}, &ValidationError{Field: "overlap", Message: fmt.Sprintf("must not exceed %d", chunker.MaxOverlap)}
	}

	return segment.Options{
		Mode:      mode,
		ChunkSize: opts.ChunkSize,
		Overlap:   opts.Overlap,
	}, nil
}

// mapSegmentError translates pipeline errors into service sentinels.
func mapSegmentError(err error, msg string) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return wrapKind(ErrNotFound, err, msg)
	case errors.Is(err, extract.ErrFileNotFound),
		errors.Is(err, extract.ErrUnsupportedFormat),
		errors.Is(err, extract.ErrFormatMismatch):
		return wrapKind(ErrInvalidInput, err, msg)
	case errors.Is(err, extract.ErrExtractionFailed):
		return wrapKind(ErrUnprocessable, err, msg)
	case errors.Is(err, segment.ErrPublish):
		return wrapKind(ErrExternalService, err, msg)
	default:
		return WrapError(err, msg)
	}
}
