package segment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"tcgen/internal/chunker"
	"tcgen/internal/contextutil"
	"tcgen/internal/extract"
	"tcgen/internal/storage"
)

// DefaultWorkers bounds ProcessFiles concurrency when none is configured.
const DefaultWorkers = 4

// ErrPublish wraps failures of the downstream publisher.
var ErrPublish = errors.New("failed to publish chunks")

// Config holds the pipeline defaults.
type Config struct {
	Mode    chunker.Mode
	Params  chunker.Params
	Workers int
}

// Pipeline extracts, segments, stores and optionally publishes documents.
// It is safe for concurrent use; segmentation goes through the pure chunker
// functions only.
type Pipeline struct {
	documents storage.DocumentStore
	chunks    storage.ChunkStore
	publisher Publisher // nil disables publishing
	mode      chunker.Mode
	params    chunker.Params
	workers   int
}

// NewPipeline creates a new segmentation pipeline. publisher may be nil.
func NewPipeline(documents storage.DocumentStore, chunks storage.ChunkStore, publisher Publisher, cfg Config) *Pipeline {
	mode := cfg.Mode
	if mode == "" {
		mode = chunker.ModeFixed
	}
	params := cfg.Params
	if params == (chunker.Params{}) {
		params = chunker.DefaultParams()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	return &Pipeline{
		documents: documents,
		chunks:    chunks,
		publisher: publisher,
		mode:      mode,
		params:    params,
		workers:   workers,
	}
}

// Defaults returns the mode and parameters used when a request does not override them.
func (p *Pipeline) Defaults() (chunker.Mode, chunker.Params) {
	return p.mode, p.params
}

// PublishEnabled reports whether stored documents are also published.
func (p *Pipeline) PublishEnabled() bool {
	return p.publisher != nil
}

// resolve applies request overrides to the defaults and returns the
// corrected parameters that will be used.
func (p *Pipeline) resolve(opts Options) (chunker.Mode, chunker.Params, error) {
	mode := p.mode
	if opts.Mode != "" {
		parsed, err := chunker.ParseMode(string(opts.Mode))
		if err != nil {
			return "", chunker.Params{}, err
		}
		mode = parsed
	}

	params := p.params
	if opts.ChunkSize != nil {
		params.ChunkSize = *opts.ChunkSize
	}
	if opts.Overlap != nil {
		params.Overlap = *opts.Overlap
	}

	return mode, params.Corrected(), nil
}

// source describes a document before segmentation.
type source struct {
	fileName string
	format   string
	hash     string
	text     func() (string, error)
}

// ProcessText segments already extracted text. When req.Persist is set the
// document and chunks are stored (and published) like a file.
func (p *Pipeline) ProcessText(ctx context.Context, req TextRequest) (*Result, error) {
	mode, params, err := p.resolve(req.Options)
	if err != nil {
		return nil, err
	}

	if !req.Persist {
		return newResult(chunker.Segment(req.Text, mode, params), FormatText, req.FileName, mode, params), nil
	}

	return p.process(ctx, source{
		fileName: req.FileName,
		format:   FormatText,
		hash:     hashBytes([]byte(req.Text)),
		text:     func() (string, error) { return req.Text, nil },
	}, mode, params)
}

// ProcessFile validates, extracts and segments a PDF or DOCX file. If the
// same bytes were already segmented with the same settings, the stored
// chunks are returned and nothing is re-extracted.
func (p *Pipeline) ProcessFile(ctx context.Context, req FileRequest) (*Result, error) {
	mode, params, err := p.resolve(req.Options)
	if err != nil {
		return nil, err
	}

	format, err := extract.ValidateFile(req.Path)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", req.Path, err)
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = filepath.Base(req.Path)
	}

	return p.process(ctx, source{
		fileName: fileName,
		format:   string(format),
		hash:     hashBytes(content),
		text:     func() (string, error) { return extract.ExtractAs(req.Path, format) },
	}, mode, params)
}

// ProcessFiles runs ProcessFile for every request with at most Workers in
// flight. Per-file failures are reported in the matching FileResult; the
// returned error is only set when ctx is cancelled.
func (p *Pipeline) ProcessFiles(ctx context.Context, reqs []FileRequest) ([]FileResult, error) {
	logger := contextutil.LoggerFromContext(ctx)
	results := make([]FileResult, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := p.ProcessFile(gctx, req)
			results[i] = FileResult{Path: req.Path, Result: res, Err: err}
			if err != nil {
				logger.ErrorContext(gctx, "failed to segment file", "path", req.Path, "error", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	logger.InfoContext(ctx, "batch segmentation completed", "files", len(reqs), "errors", failed)

	return results, nil
}

// process segments src, reusing a stored document with the same content
// hash and settings when one exists.
func (p *Pipeline) process(ctx context.Context, src source, mode chunker.Mode, params chunker.Params) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx).With("file_name", src.fileName, "format", src.format)

	key := storage.DocumentKey{
		Hash:      src.hash,
		Mode:      string(mode),
		ChunkSize: params.ChunkSize,
		Overlap:   params.Overlap,
	}

	existing, err := p.documents.GetByHash(ctx, key)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing document: %w", err)
	}
	if existing != nil {
		logger.DebugContext(ctx, "reusing stored segmentation", "document_id", existing.ID, "hash", src.hash)
		return p.reuse(ctx, existing, src.fileName)
	}

	text, err := src.text()
	if err != nil {
		return nil, err
	}

	texts := chunker.Segment(text, mode, params)
	if len(texts) == 0 {
		logger.WarnContext(ctx, "no chunks generated")
	}

	doc := &storage.DocumentRecord{
		ID:         uuid.New().String(),
		FileName:   src.fileName,
		Format:     src.format,
		Hash:       src.hash,
		Mode:       string(mode),
		ChunkSize:  params.ChunkSize,
		Overlap:    params.Overlap,
		ChunkCount: len(texts),
	}
	if err := p.documents.Insert(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to insert document: %w", err)
	}

	records := make([]*storage.ChunkRecord, len(texts))
	for i, t := range texts {
		records[i] = &storage.ChunkRecord{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			ChunkIndex: i,
			Text:       t,
			CharCount:  utf8.RuneCountInString(t),
		}
	}

	if err := p.chunks.InsertBatch(ctx, records); err != nil {
		p.rollback(ctx, doc.ID)
		return nil, fmt.Errorf("failed to insert chunks: %w", err)
	}

	result := newResult(texts, src.format, src.fileName, mode, params)
	result.DocumentID = doc.ID

	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, doc, records); err != nil {
			p.rollback(ctx, doc.ID)
			return nil, fmt.Errorf("%w: %w", ErrPublish, err)
		}
		p.markPublished(ctx, doc.ID)
		result.Published = true
	}

	logger.InfoContext(ctx, "segmented document",
		"document_id", doc.ID,
		"mode", mode,
		"chunk_size", params.ChunkSize,
		"overlap", params.Overlap,
		"chunks", len(texts),
	)
	return result, nil
}

// reuse returns the stored chunks of doc under the requested file name.
// Documents stored while publishing was off (or by the CLI) are published
// now when a publisher is configured.
func (p *Pipeline) reuse(ctx context.Context, doc *storage.DocumentRecord, fileName string) (*Result, error) {
	records, err := p.chunks.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}

	if p.publisher != nil && !doc.Published {
		if err := p.publisher.Publish(ctx, doc, records); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPublish, err)
		}
		p.markPublished(ctx, doc.ID)
		doc.Published = true
	}

	result := storedResult(doc, records)
	if fileName != "" {
		result.FileName = fileName
	}
	result.Reused = true
	return result, nil
}

// markPublished records a successful publish. A failure only means the
// chunks are upserted again on the next reuse, which overwrites the same points.
func (p *Pipeline) markPublished(ctx context.Context, documentID string) {
	if err := p.documents.MarkPublished(ctx, documentID); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to record publish", "document_id", documentID, "error", err)
	}
}

// storedResult rebuilds a Result from a stored document and its chunks.
func storedResult(doc *storage.DocumentRecord, records []*storage.ChunkRecord) *Result {
	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Text
	}

	params := chunker.Params{ChunkSize: doc.ChunkSize, Overlap: doc.Overlap}
	result := newResult(texts, doc.Format, doc.FileName, chunker.Mode(doc.Mode), params)
	result.DocumentID = doc.ID
	result.Published = doc.Published
	return result
}

// Get returns a stored document with its chunks.
func (p *Pipeline) Get(ctx context.Context, documentID string) (*Result, error) {
	doc, err := p.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	records, err := p.chunks.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}
	return storedResult(doc, records), nil
}

// Delete removes a stored document, its chunks and any published vectors.
func (p *Pipeline) Delete(ctx context.Context, documentID string) error {
	if _, err := p.documents.GetByID(ctx, documentID); err != nil {
		return err
	}

	if p.publisher != nil {
		if err := p.publisher.Unpublish(ctx, documentID); err != nil {
			return fmt.Errorf("%w: %w", ErrPublish, err)
		}
	}

	if err := p.chunks.DeleteByDocument(ctx, documentID); err != nil {
		return err
	}
	return p.documents.Delete(ctx, documentID)
}

// rollback removes a partially stored document so the next attempt starts clean.
func (p *Pipeline) rollback(ctx context.Context, documentID string) {
	if err := p.documents.Delete(ctx, documentID); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to roll back document", "document_id", documentID, "error", err)
	}
}

func newResult(texts []string, format, fileName string, mode chunker.Mode, params chunker.Params) *Result {
	chunks := make([]Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = Chunk{Index: i, Text: t, CharCount: utf8.RuneCountInString(t)}
	}
	return &Result{
		FileName: fileName,
		Format:   format,
		Mode:     mode,
		Params:   params,
		Chunks:   chunks,
		Stats:    ComputeStats(texts, params),
	}
}

func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
