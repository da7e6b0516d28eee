package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"tcgen/internal/contextutil"
)

// Format identifies a supported document format by its file extension.
type Format string

const (
	FormatPDF  Format = ".pdf"
	FormatDOCX Format = ".docx"
)

var (
	// ErrFileNotFound is returned when the document path does not exist.
	ErrFileNotFound = errors.New("file does not exist")
	// ErrUnsupportedFormat is returned for extensions other than .pdf and .docx.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrFormatMismatch is returned when the file content does not match its extension.
	ErrFormatMismatch = errors.New("file content does not match extension")
	// ErrExtractionFailed wraps parser errors for files that passed validation.
	ErrExtractionFailed = errors.New("text extraction failed")
)

// SupportedFormats lists the accepted document extensions.
var SupportedFormats = []Format{FormatPDF, FormatDOCX}

// sniffedParent is the MIME type each format must resolve to (directly or
// through mimetype's parent chain). DOCX files are ZIP containers.
var sniffedParent = map[Format]string{
	FormatPDF:  "application/pdf",
	FormatDOCX: "application/zip",
}

// FileExtension returns the lower-cased extension of path, including the dot.
func FileExtension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// ParseFormat maps a file name to a supported Format.
func ParseFormat(name string) (Format, error) {
	ext := Format(FileExtension(name))
	for _, f := range SupportedFormats {
		if ext == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat, string(ext), supportedList())
}

// ValidateFile checks that path exists, has a supported extension, and that
// its content sniffs as that format.
func ValidateFile(path string) (Format, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
	}

	format, err := ParseFormat(path)
	if err != nil {
		return "", err
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to detect content type of %s: %w", path, err)
	}
	want := sniffedParent[format]
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is(want) {
			return format, nil
		}
	}

	return "", fmt.Errorf("%w: %s is %s, expected %s", ErrFormatMismatch, filepath.Base(path), mtype.String(), want)
}

// Extract validates path and returns its raw text using the extractor for
// its format.
func Extract(path string) (string, error) {
	format, err := ValidateFile(path)
	if err != nil {
		return "", err
	}
	return ExtractAs(path, format)
}

// ExtractAs returns the raw text of an already validated file. Parser
// failures are wrapped with ErrExtractionFailed.
func ExtractAs(path string, format Format) (string, error) {
	var (
		text string
		err  error
	)
	switch format {
	case FormatPDF:
		text, err = ExtractPDF(path)
	case FormatDOCX:
		text, err = ExtractDOCX(path)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrExtractionFailed, filepath.Base(path), err)
	}
	return text, nil
}

// TextOrEmpty extracts text from path and degrades any failure to an empty
// string after logging it. Callers that need the failure reason use Extract.
func TextOrEmpty(ctx context.Context, path string) string {
	text, err := Extract(path)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "text extraction failed", "path", path, "error", err)
		return ""
	}
	return text
}

func supportedList() string {
	names := make([]string, len(SupportedFormats))
	for i, f := range SupportedFormats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
