package chunker

import "fmt"

// Mode selects the segmentation strategy.
type Mode string

const (
	// ModeFixed splits at paragraph/sentence boundaries with a size target.
	ModeFixed Mode = "fixed"
	// ModeSections splits at section headers, falling back to ModeFixed for
	// oversized sections.
	ModeSections Mode = "sections"
)

// ParseMode converts a configuration or request value into a Mode.
// The empty string selects ModeFixed.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeFixed:
		return ModeFixed, nil
	case ModeSections:
		return ModeSections, nil
	default:
		return "", fmt.Errorf("unknown chunk mode %q (want %q or %q)", s, ModeFixed, ModeSections)
	}
}

// Segment normalizes raw extracted text and splits it using mode.
// ModeFixed runs Preprocess first, which flattens newlines. ModeSections runs
// PreprocessLines so header lines survive until SplitBySections sees them.
func Segment(text string, mode Mode, p Params) []string {
	if mode == ModeSections {
		return SplitBySections(PreprocessLines(text), p)
	}
	return Split(Preprocess(text), p)
}
