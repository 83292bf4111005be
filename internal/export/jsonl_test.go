package export

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/docdex/docdex/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()

	dir := t.TempDir()
	docsDir := filepath.Join(dir, "docs")
	if err := os.MkdirAll(docsDir, 0755); err != nil {
		t.Fatalf("Failed to create docs dir: %v", err)
	}

	docs := map[string]string{
		"alpha.md": "---\nid: doc-2\ntitle: Alpha\n---\nAlpha body\n",
		"beta.md":  "---\nid: doc-1\ntitle: Beta\npoints:\n  - p1\n---\nBeta body\n",
	}
	for name, contents := range docs {
		if err := os.WriteFile(filepath.Join(docsDir, name), []byte(contents), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	st, err := store.Open(filepath.Join(dir, "docdex.db"), docsDir)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// TestWriteJSONL verifies one JSON object per line in listing order.
func TestWriteJSONL(t *testing.T) {
	st := openTestStore(t)

	var buf bytes.Buffer
	result, err := WriteJSONL(context.Background(), st, &buf)
	if err != nil {
		t.Fatalf("WriteJSONL() failed: %v", err)
	}

	if result.Documents != 2 {
		t.Errorf("Documents = %d, want 2", result.Documents)
	}

	scanner := bufio.NewScanner(&buf)
	var slugs []string
	for scanner.Scan() {
		var doc map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &doc); err != nil {
			t.Fatalf("Line is not valid JSON: %v", err)
		}
		slugs = append(slugs, doc["slug"].(string))
	}

	// alpha has sort 2, beta has sort 1
	if len(slugs) != 2 || slugs[0] != "alpha" || slugs[1] != "beta" {
		t.Errorf("slugs = %v, want [alpha beta]", slugs)
	}
}

// TestExportFile verifies the atomic file export.
func TestExportFile(t *testing.T) {
	st := openTestStore(t)

	outPath := filepath.Join(t.TempDir(), "out", "docs.jsonl")
	result, err := ExportFile(context.Background(), st, outPath)
	if err != nil {
		t.Fatalf("ExportFile() failed: %v", err)
	}

	if result.Documents != 2 {
		t.Errorf("Documents = %d, want 2", result.Documents)
	}
	if result.BytesWritten == 0 {
		t.Error("BytesWritten should be non-zero")
	}

	if _, err := os.Stat(outPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temp file should not remain after export")
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	lines := bytes.Count(data, []byte("\n"))
	if lines != 2 {
		t.Errorf("Export has %d lines, want 2", lines)
	}
}
