package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DocExt is the file extension recognized by the directory scan.
const DocExt = ".md"

// ErrDocsDirNotFound indicates that no candidate docs directory exists.
// This is fatal: no default directory is fabricated and nothing is retried.
var ErrDocsDirNotFound = errors.New("docs directory not found")

// ResolveDocsDir locates the source document directory by probing a fixed
// list of candidates: ./docs and ../docs relative to the working directory,
// then docs directories relative to the executable's location up to three
// levels up. The first existing directory wins.
func ResolveDocsDir() (string, error) {
	var candidates []string

	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates,
			filepath.Join(wd, "docs"),
			filepath.Join(wd, "..", "docs"),
		)
	}

	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		candidates = append(candidates,
			filepath.Join(dir, "docs"),
			filepath.Join(dir, "..", "docs"),
			filepath.Join(dir, "..", "..", "docs"),
			filepath.Join(dir, "..", "..", "..", "docs"),
		)
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrDocsDirNotFound, strings.Join(candidates, ", "))
}

// ReadDocuments scans dir for *.md files and parses each into a coerced
// Document. The slug is the filename with the extension stripped.
//
// Files that cannot be read are skipped with a warning so a single bad file
// never aborts a seed pass; only the directory read itself is fatal.
func ReadDocuments(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read docs directory %s: %w", dir, err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), DocExt) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping unreadable document %s: %v\n", entry.Name(), err)
			continue
		}

		slug := strings.TrimSuffix(entry.Name(), DocExt)
		meta, body := ParseFrontMatter(string(raw))
		docs = append(docs, Coerce(slug, meta, body))
	}

	return docs, nil
}
