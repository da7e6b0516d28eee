package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"tcgen/internal/extract"
)

// ScannedFile represents a document found during scanning.
type ScannedFile struct {
	Root    string         // Root the file was found under
	RelPath string         // Relative path from Root with forward slashes (e.g., "plans/q3.docx")
	Folder  string         // Folder part of RelPath, "" for root-level files
	AbsPath string         // Path usable with os.Open
	Format  extract.Format // Format implied by the extension
}

// Scan walks every root and returns the PDF and DOCX files found, sorted by
// path. A root may also be a single file, which is returned as-is when its
// extension is supported. Hidden directories and Office lock files ("~$...")
// are skipped, as are files whose relative path or base name matches one of
// the exclude globs ("**" matches across directories).
func Scan(ctx context.Context, roots []string, exclude []string) ([]ScannedFile, error) {
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	var scannedFiles []ScannedFile
	keep := func(f ScannedFile) {
		if !excluded(f, exclude) {
			scannedFiles = append(scannedFiles, f)
		}
	}

	for _, root := range roots {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to access %s: %w", root, err)
		}
		if !info.IsDir() {
			if f, ok := scannedFile(filepath.Dir(root), root); ok {
				keep(f)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("failed to access path %s: %w", path, err)
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}

			if f, ok := scannedFile(root, path); ok {
				keep(f)
			}
			return nil
		})
		if err != nil {
			return scannedFiles, fmt.Errorf("failed to scan %s: %w", root, err)
		}
	}

	sort.Slice(scannedFiles, func(i, j int) bool {
		return scannedFiles[i].AbsPath < scannedFiles[j].AbsPath
	})
	return scannedFiles, nil
}

func scannedFile(root, path string) (ScannedFile, bool) {
	name := filepath.Base(path)
	if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
		return ScannedFile{}, false
	}
	format, err := extract.ParseFormat(name)
	if err != nil {
		return ScannedFile{}, false
	}

	relPath, err := filepath.Rel(root, path)
	if err != nil {
		relPath = name
	}
	relPath = filepath.ToSlash(relPath)

	folder := filepath.ToSlash(filepath.Dir(relPath))
	if folder == "." {
		folder = ""
	}

	return ScannedFile{
		Root:    root,
		RelPath: relPath,
		Folder:  folder,
		AbsPath: path,
		Format:  format,
	}, true
}

func excluded(f ScannedFile, patterns []string) bool {
	base := filepath.Base(f.AbsPath)
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, f.RelPath); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
