package segment

import (
	"math"
	"sort"
	"unicode/utf8"

	"tcgen/internal/chunker"
)

// CharsPerToken is an approximation for token counting (4 chars per token).
const CharsPerToken = 4.0

// Stats summarizes chunk lengths for a segmentation result.
type Stats struct {
	// Chunks is the number of chunks produced.
	Chunks int `json:"chunks"`
	// MinChars is the shortest chunk length in characters.
	MinChars int `json:"min_chars"`
	// MaxChars is the longest chunk length in characters.
	MaxChars int `json:"max_chars"`
	// MeanChars is the mean chunk length, rounded to 2 decimal places.
	MeanChars float64 `json:"mean_chars"`
	// P95Chars is the 95th percentile chunk length.
	P95Chars int `json:"p95_chars"`
	// Oversized counts chunks longer than ChunkSize. Only a single boundary
	// unit that is itself longer than ChunkSize produces one.
	Oversized int `json:"oversized"`
	// EstimatedTokens is the sum of per-chunk token estimates.
	EstimatedTokens int `json:"estimated_tokens"`
}

// ComputeStats computes length statistics for chunks split with p.
func ComputeStats(chunks []string, p chunker.Params) Stats {
	if len(chunks) == 0 {
		return Stats{}
	}

	lengths := make([]int, len(chunks))
	stats := Stats{Chunks: len(chunks)}
	for i, c := range chunks {
		n := utf8.RuneCountInString(c)
		lengths[i] = n
		if n > p.ChunkSize {
			stats.Oversized++
		}
		stats.EstimatedTokens += estimateTokens(n)
	}

	stats.MinChars, stats.MaxChars, stats.MeanChars, stats.P95Chars = distribution(lengths)
	return stats
}

// estimateTokens estimates tokens from a character count (approximation: ~4 chars per token).
func estimateTokens(chars int) int {
	tokens := int(math.Round(float64(chars) / CharsPerToken))
	if tokens < 1 {
		tokens = 1 // Minimum 1 token
	}
	return tokens
}

// distribution computes min, max, mean, and p95 of values.
func distribution(values []int) (minV, maxV int, mean float64, p95 int) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	// Sort for percentile calculation
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	sum := 0
	for _, v := range values {
		sum += v
	}
	mean = float64(sum) / float64(len(values))

	p95Index := int(math.Ceil(float64(len(sorted))*0.95)) - 1
	if p95Index < 0 {
		p95Index = 0
	}

	return sorted[0], sorted[len(sorted)-1], math.Round(mean*100) / 100, sorted[p95Index]
}
