package chunker

import (
	"strings"
	"unicode/utf8"
)

// Split breaks text into chunks of at most p.ChunkSize characters, cutting
// only at paragraph or sentence boundaries. Every chunk after the first
// starts with the last p.Overlap characters of the previous chunk when that
// chunk is longer than the overlap.
//
// A single unit longer than the chunk size is never cut; it becomes an
// oversized chunk on its own. The overlap is a plain character slice and may
// start mid-word.
func Split(text string, p Params) []string {
	chunks := make([]string, 0)
	if text == "" {
		return chunks
	}
	p = p.Corrected()

	var buf strings.Builder
	bufLen := 0

	for _, u := range tokenize(text) {
		if u.empty() {
			continue
		}
		piece := u.String()
		pieceLen := utf8.RuneCountInString(piece)

		if bufLen+pieceLen > p.ChunkSize && bufLen > 0 {
			closed := buf.String()
			chunks = append(chunks, closed)

			buf.Reset()
			bufLen = 0
			if p.Overlap > 0 && utf8.RuneCountInString(closed) > p.Overlap {
				buf.WriteString(tail(closed, p.Overlap))
				bufLen = p.Overlap
			}
		}

		buf.WriteString(piece)
		bufLen += pieceLen
	}

	if bufLen > 0 {
		chunks = append(chunks, buf.String())
	}

	return chunks
}

// SplitBySections cuts text at section headers (see SectionBoundaries) and
// returns one chunk per section. Sections longer than p.ChunkSize are split
// further with Split; their sub-chunks keep document order.
func SplitBySections(text string, p Params) []string {
	chunks := make([]string, 0)
	if text == "" {
		return chunks
	}
	p = p.Corrected()

	bounds := SectionBoundaries(text)
	for i := 0; i < len(bounds)-1; i++ {
		section := text[bounds[i]:bounds[i+1]]
		if utf8.RuneCountInString(section) > p.ChunkSize {
			chunks = append(chunks, Split(section, p)...)
			continue
		}
		chunks = append(chunks, section)
	}

	return chunks
}
