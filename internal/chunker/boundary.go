package chunker

import (
	"regexp"
	"unicode/utf8"
)

var (
	// unitBoundary matches a paragraph break (one or more newlines) or a
	// sentence terminator (a period followed by whitespace).
	unitBoundary = regexp.MustCompile(`\n+|\.` + whitespaceClass + `+`)

	// sectionHeader matches a newline, optional indentation, a numeric label
	// ("1.", "2.3.") or a word label followed by '.', ')' or ':', whitespace,
	// and an uppercase Latin letter or Hangul syllable.
	sectionHeader = regexp.MustCompile(
		`\n` + whitespaceClass + `*(?:\p{Nd}+\.[\p{Nd}.]*|[\p{L}\p{N}_]+[.):])` +
			whitespaceClass + `+[A-Z\x{AC00}-\x{D7A3}]`,
	)
)

// unit is a span of text between two boundaries together with the delimiter
// that ended it. Concatenating text+delim over all units rebuilds the input.
type unit struct {
	text  string
	delim string
}

func (u unit) String() string {
	return u.text + u.delim
}

func (u unit) empty() bool {
	return u.text == "" && u.delim == ""
}

// tokenize splits text into boundary units. The last unit has an empty
// delimiter and may itself be empty when the text ends on a boundary.
func tokenize(text string) []unit {
	locs := unitBoundary.FindAllStringIndex(text, -1)
	units := make([]unit, 0, len(locs)+1)

	prev := 0
	for _, loc := range locs {
		units = append(units, unit{
			text:  text[prev:loc[0]],
			delim: text[loc[0]:loc[1]],
		})
		prev = loc[1]
	}
	units = append(units, unit{text: text[prev:]})

	return units
}

// SectionBoundaries returns the byte offsets where sections start, beginning
// with 0 and ending with len(text). A header match at offset 0 is not a new
// boundary.
func SectionBoundaries(text string) []int {
	bounds := []int{0}
	for _, loc := range sectionHeader.FindAllStringIndex(text, -1) {
		if loc[0] > 0 {
			bounds = append(bounds, loc[0])
		}
	}
	return append(bounds, len(text))
}

// tail returns the last n characters of s. It returns s when s is shorter.
func tail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := len(s)
	for count := 0; count < n && i > 0; count++ {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
	}
	return s[i:]
}
