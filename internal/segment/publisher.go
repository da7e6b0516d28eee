package segment

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_publisher.go -package=mocks tcgen/internal/segment Publisher
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks tcgen/internal/segment Embedder

import (
	"context"
	"fmt"

	"tcgen/internal/contextutil"
	"tcgen/internal/storage"
	"tcgen/internal/vectorstore"
)

// Publisher hands stored chunks to a downstream consumer.
type Publisher interface {
	// Publish makes the chunks of doc available downstream.
	Publish(ctx context.Context, doc *storage.DocumentRecord, chunks []*storage.ChunkRecord) error
	// Unpublish removes everything previously published for a document.
	Unpublish(ctx context.Context, documentID string) error
}

// Embedder turns texts into vectors, one per text in input order.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorPublisher embeds chunks and upserts them into a vector store. Point
// IDs are the chunk IDs, so SQLite and Qdrant can be joined on them.
type VectorPublisher struct {
	embedder   Embedder
	store      vectorstore.VectorStore
	collection string
}

// NewVectorPublisher creates a publisher writing to collection.
func NewVectorPublisher(embedder Embedder, store vectorstore.VectorStore, collection string) *VectorPublisher {
	return &VectorPublisher{
		embedder:   embedder,
		store:      store,
		collection: collection,
	}
}

// Publish embeds every chunk and upserts the vectors with document metadata.
func (p *VectorPublisher) Publish(ctx context.Context, doc *storage.DocumentRecord, chunks []*storage.ChunkRecord) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embeddings, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(embeddings))
	}

	points := make([]vectorstore.Point, len(chunks))
	for i, c := range chunks {
		points[i] = vectorstore.Point{
			ID:  c.ID,
			Vec: embeddings[i],
			Meta: map[string]any{
				vectorstore.DocumentIDField: doc.ID,
				"file_name":                 doc.FileName,
				"chunk_index":               c.ChunkIndex,
				"char_count":                c.CharCount,
				"mode":                      doc.Mode,
			},
		}
	}

	if err := p.store.Upsert(ctx, p.collection, points); err != nil {
		return fmt.Errorf("failed to upsert vectors: %w", err)
	}

	logger.InfoContext(ctx, "published chunks", "document_id", doc.ID, "chunks", len(chunks), "collection", p.collection)
	return nil
}

// Unpublish deletes every point of the document from the collection.
func (p *VectorPublisher) Unpublish(ctx context.Context, documentID string) error {
	if err := p.store.DeleteByDocument(ctx, p.collection, documentID); err != nil {
		return fmt.Errorf("failed to unpublish document: %w", err)
	}
	return nil
}
