package storage

import "time"

// DocumentRecord is a segmented source document. A document row is unique
// per (Hash, Mode, ChunkSize, Overlap) in practice; re-submitting the same
// bytes with the same settings reuses it.
type DocumentRecord struct {
	ID         string // UUID
	FileName   string // Original file name, base only
	Format     string // ".pdf", ".docx" or "text"
	Hash       string // SHA256 hex string of the source bytes
	Mode       string // "fixed" or "sections"
	ChunkSize  int    // Corrected chunk size actually used
	Overlap    int    // Corrected overlap actually used
	ChunkCount int
	Published  bool // Chunks were embedded and upserted to the vector store
	CreatedAt  time.Time
}

// DocumentKey identifies a segmentation result by content and settings.
type DocumentKey struct {
	Hash      string
	Mode      string
	ChunkSize int
	Overlap   int
}

// ChunkRecord is a single chunk belonging to a document.
type ChunkRecord struct {
	ID         string // UUID (same as Qdrant point ID)
	DocumentID string // UUID (foreign key to documents.id)
	ChunkIndex int    // Index within document (starts at 0)
	Text       string
	CharCount  int // Length in characters, not bytes
}
