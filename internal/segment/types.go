package segment

import "tcgen/internal/chunker"

// FormatText is the format recorded for documents submitted as raw text.
const FormatText = "text"

// Chunk is one segment of a document.
type Chunk struct {
	Index     int    `json:"index"`
	Text      string `json:"text"`
	CharCount int    `json:"char_count"`
}

// Options overrides the pipeline defaults for a single request. Nil or
// empty fields fall back to the configured defaults.
type Options struct {
	Mode      chunker.Mode
	ChunkSize *int
	Overlap   *int
}

// TextRequest segments text that has already been extracted.
type TextRequest struct {
	Text     string
	FileName string // optional label stored with the document
	Options  Options
	// Persist stores the document and its chunks. Raw text is not persisted by default.
	Persist bool
}

// FileRequest segments a PDF or DOCX file on disk.
type FileRequest struct {
	Path string
	// FileName is the name reported to callers; it defaults to the base of Path.
	// Uploads are written to temp files, so the original name is passed here.
	FileName string
	Options  Options
}

// Result is the outcome of segmenting one document.
type Result struct {
	DocumentID string         `json:"document_id,omitempty"`
	FileName   string         `json:"file_name,omitempty"`
	Format     string         `json:"format"`
	Mode       chunker.Mode   `json:"mode"`
	Params     chunker.Params `json:"params"` // corrected parameters actually used
	Chunks     []Chunk        `json:"chunks"`
	Stats      Stats          `json:"stats"`
	// Reused is set when an identical document with identical settings was
	// already stored and its chunks were returned instead of re-segmenting.
	Reused    bool `json:"reused"`
	Published bool `json:"published"`
}

// FileResult pairs a batch entry with its outcome.
type FileResult struct {
	Path   string
	Result *Result
	Err    error
}

// Texts returns the chunk texts in order.
func (r *Result) Texts() []string {
	texts := make([]string, len(r.Chunks))
	for i, c := range r.Chunks {
		texts[i] = c.Text
	}
	return texts
}
