package chunker

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Go's \s only covers ASCII whitespace, so the Unicode separators and the
// remaining control-range whitespace are listed explicitly.
const (
	whitespaceClass  = `[\s\x{0B}\x{1C}-\x{1F}\x{85}\p{Z}]`
	horizontalClass  = `[\t\f\r \x{0B}\x{1C}-\x{1F}\x{85}\p{Z}]`
	allowedCharClass = `\p{L}\p{N}\p{M}_\s\x{0B}\x{1C}-\x{1F}\x{85}\p{Z}.,:;()\[\]\-'"`
)

var (
	whitespaceRun   = regexp.MustCompile(whitespaceClass + `+`)
	horizontalRun   = regexp.MustCompile(horizontalClass + `+`)
	newlinePadding  = regexp.MustCompile(` ?\n ?`)
	disallowedChars = regexp.MustCompile(`[^` + allowedCharClass + `]`)
	blankLines      = regexp.MustCompile(`\n` + whitespaceClass + `*\n`)
)

// Preprocess cleans extracted text before fixed-size splitting.
// Whitespace runs (newlines included) become a single space, characters
// outside the allow-list (letters, digits, marks, underscore, whitespace and
// . , : ; ( ) [ ] - ' ") are dropped, and blank lines are collapsed.
// The result is lossy; it feeds a paraphrasing stage, not a verbatim store.
func Preprocess(text string) string {
	if text == "" {
		return ""
	}

	out := norm.NFC.String(text)
	out = whitespaceRun.ReplaceAllString(out, " ")
	out = disallowedChars.ReplaceAllString(out, "")
	out = blankLines.ReplaceAllString(out, "\n")
	return out
}

// PreprocessLines is the newline-preserving variant of Preprocess used ahead
// of SplitBySections, which needs line structure to find section headers.
// Horizontal whitespace collapses to one space, spaces around newlines are
// trimmed, symbols are filtered like Preprocess, and blank lines collapse
// into a single newline.
func PreprocessLines(text string) string {
	if text == "" {
		return ""
	}

	out := norm.NFC.String(text)
	out = strings.ReplaceAll(out, "\r\n", "\n")
	out = strings.ReplaceAll(out, "\r", "\n")
	out = horizontalRun.ReplaceAllString(out, " ")
	out = newlinePadding.ReplaceAllString(out, "\n")
	out = disallowedChars.ReplaceAllString(out, "")
	out = blankLines.ReplaceAllString(out, "\n")
	return out
}
