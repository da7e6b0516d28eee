package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks tcgen/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// DocumentStore defines the interface for document storage operations.
type DocumentStore interface {
	// Insert inserts a new document. An empty doc.ID is replaced by a new UUID.
	Insert(ctx context.Context, doc *DocumentRecord) error
	// GetByID gets a document by ID. Returns nil and ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*DocumentRecord, error)
	// GetByHash gets the most recent document segmented from the same content
	// with the same settings. Returns nil and ErrNotFound if there is none.
	GetByHash(ctx context.Context, key DocumentKey) (*DocumentRecord, error)
	// List returns documents newest first.
	List(ctx context.Context, limit, offset int) ([]*DocumentRecord, error)
	// MarkPublished records that the document's chunks reached the vector store.
	MarkPublished(ctx context.Context, id string) error
	// Delete removes a document and, through the foreign key, its chunks.
	Delete(ctx context.Context, id string) error
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

const documentColumns = "id, file_name, format, hash, mode, chunk_size, overlap, chunk_count, published, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*DocumentRecord, error) {
	var doc DocumentRecord
	var createdAtStr string
	if err := row.Scan(&doc.ID, &doc.FileName, &doc.Format, &doc.Hash, &doc.Mode,
		&doc.ChunkSize, &doc.Overlap, &doc.ChunkCount, &doc.Published, &createdAtStr); err != nil {
		return nil, err
	}
	createdAt, err := parseTimestamp(createdAtStr)
	if err != nil {
		return nil, err
	}
	doc.CreatedAt = createdAt
	return &doc, nil
}

// Insert inserts a new document. An empty doc.ID is replaced by a new UUID.
func (r *DocumentRepo) Insert(ctx context.Context, doc *DocumentRecord) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, file_name, format, hash, mode, chunk_size, overlap, chunk_count, published, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		doc.ID, doc.FileName, doc.Format, doc.Hash, doc.Mode, doc.ChunkSize, doc.Overlap, doc.ChunkCount, doc.Published,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// GetByID gets a document by ID. Returns nil and ErrNotFound if not found.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*DocumentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = ?",
		id,
	)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return doc, nil
}

// GetByHash gets the most recent document with the same content hash and
// segmentation settings. Returns nil and ErrNotFound if there is none.
func (r *DocumentRepo) GetByHash(ctx context.Context, key DocumentKey) (*DocumentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+` FROM documents
		 WHERE hash = ? AND mode = ? AND chunk_size = ? AND overlap = ?
		 ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		key.Hash, key.Mode, key.ChunkSize, key.Overlap,
	)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document by hash: %w", err)
	}
	return doc, nil
}

// List returns documents newest first. A non-positive limit returns all documents.
func (r *DocumentRepo) List(ctx context.Context, limit, offset int) ([]*DocumentRecord, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+documentColumns+" FROM documents ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	docs := []*DocumentRecord{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return docs, nil
}

// MarkPublished sets the published flag. Returns ErrNotFound if the document does not exist.
func (r *DocumentRepo) MarkPublished(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE documents SET published = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to mark document published: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document and its chunks. Deleting a missing document is not an error.
func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
