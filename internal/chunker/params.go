package chunker

import "math"

const (
	// DefaultChunkSize is the target chunk length in characters.
	DefaultChunkSize = 4000
	// DefaultOverlap is the number of characters carried from one chunk into the next.
	DefaultOverlap = 200
)

// Params holds the segmentation parameters. Lengths are counted in characters
// (Unicode code points), not bytes.
type Params struct {
	ChunkSize int `json:"chunk_size"`
	Overlap   int `json:"overlap"`
}

// DefaultParams returns the default segmentation parameters (4000/200).
func DefaultParams() Params {
	return Params{
		ChunkSize: DefaultChunkSize,
		Overlap:   DefaultOverlap,
	}
}

// MaxOverlap is the largest overlap whose corrected chunk size (twice the
// overlap) still fits in an int.
const MaxOverlap = math.MaxInt / 2

// Corrected returns the parameters actually used for splitting.
// A negative overlap is treated as zero, and when ChunkSize <= Overlap the
// chunk size is reset to twice the overlap instead of failing. Overlaps above
// MaxOverlap saturate the chunk size at math.MaxInt.
func (p Params) Corrected() Params {
	if p.Overlap < 0 {
		p.Overlap = 0
	}
	if p.ChunkSize <= p.Overlap {
		if p.Overlap > MaxOverlap {
			p.ChunkSize = math.MaxInt
		} else {
			p.ChunkSize = p.Overlap * 2
		}
	}
	return p
}
