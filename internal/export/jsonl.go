// Package export writes the document cache out as JSONL, one document per
// line, for downstream tooling.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/docdex/docdex/internal/store"
)

// Result contains statistics about an export run.
type Result struct {
	Documents    int
	BytesWritten int64
}

// WriteJSONL streams every cached document to w, one JSON object per line.
// Documents appear in listing order (sort key descending, slug descending).
func WriteJSONL(ctx context.Context, st *store.Store, w io.Writer) (*Result, error) {
	metas, err := st.DocumentsContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	result := &Result{}
	encoder := json.NewEncoder(w)

	for _, meta := range metas {
		doc, err := st.DocumentBySlugContext(ctx, meta.Slug)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch document %s: %w", meta.Slug, err)
		}

		// Encode emits a trailing newline, giving one object per line
		if err := encoder.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to encode document %s: %w", meta.Slug, err)
		}
		result.Documents++
	}

	return result, nil
}

// ExportFile writes the cache to outPath as JSONL. The write is atomic:
// output goes to a temp file first and is renamed into place, so a failed
// export never leaves a partial file behind.
func ExportFile(ctx context.Context, st *store.Store, outPath string) (*Result, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	// #nosec G304 - controlled path from CLI
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	result, err := WriteJSONL(ctx, st, f)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return nil, err
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	if info, err := os.Stat(tmpPath); err == nil {
		result.BytesWritten = info.Size()
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to rename temp file: %w", err)
	}

	return result, nil
}
