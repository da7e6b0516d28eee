package chunker

// Engine keeps segmentation parameters and the result of the last run.
// It is not safe for concurrent use; concurrent callers should each hold an
// Engine or call Split and SplitBySections directly.
type Engine struct {
	params Params
	chunks []string
}

// NewEngine creates an Engine with the default parameters.
func NewEngine() *Engine {
	return NewEngineWithParams(DefaultParams())
}

// NewEngineWithParams creates an Engine with the given parameters.
func NewEngineWithParams(p Params) *Engine {
	return &Engine{
		params: p,
		chunks: []string{},
	}
}

// SetParameters updates the chunk size and/or overlap. A nil argument
// leaves the current value unchanged.
func (e *Engine) SetParameters(chunkSize, overlap *int) {
	if chunkSize != nil {
		e.params.ChunkSize = *chunkSize
	}
	if overlap != nil {
		e.params.Overlap = *overlap
	}
}

// Params returns the current parameters. After a split call these are the
// corrected values that were actually used.
func (e *Engine) Params() Params {
	return e.params
}

// SplitIntoChunks runs Split with the engine parameters and retains the result.
func (e *Engine) SplitIntoChunks(text string) []string {
	e.params = e.params.Corrected()
	e.chunks = Split(text, e.params)
	return e.Chunks()
}

// SplitBySections runs SplitBySections with the engine parameters and
// retains the result.
func (e *Engine) SplitBySections(text string) []string {
	e.params = e.params.Corrected()
	e.chunks = SplitBySections(text, e.params)
	return e.Chunks()
}

// Chunks returns a copy of the chunks produced by the last split call.
func (e *Engine) Chunks() []string {
	out := make([]string, len(e.chunks))
	copy(out, e.chunks)
	return out
}
