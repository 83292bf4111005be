package dashboard

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/docdex/docdex/internal/store"
)

// newTestServer builds a seeded store and a running dashboard server on a
// random port.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	docsDir := filepath.Join(dir, "docs")
	if err := os.MkdirAll(docsDir, 0755); err != nil {
		t.Fatalf("Failed to create docs dir: %v", err)
	}
	writeTestDoc(t, docsDir, "alpha.md", "---\nid: doc-2\ntitle: Alpha\ncategory: guide\n---\nAlpha body\n")
	writeTestDoc(t, docsDir, "beta.md", "---\nid: doc-1\ntitle: Beta\ncategory: note\n---\nBeta body\n")

	st, err := store.Open(filepath.Join(dir, "docdex.db"), docsDir)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	config := &Config{
		Port:   0, // Use random available port
		Logger: log.New(os.Stderr, "[test] ", log.LstdFlags),
	}
	server := NewServer(config, st)

	if err := server.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	t.Cleanup(func() { _ = server.Stop() })

	// Give server time to start
	time.Sleep(100 * time.Millisecond)

	return server
}

func writeTestDoc(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func TestServerStartStop(t *testing.T) {
	server := newTestServer(t)

	addr := server.GetAddr()
	if addr == "" {
		t.Fatal("Server address is empty")
	}
}

func TestWebSocketConnection(t *testing.T) {
	server := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws://" + server.GetAddr() + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect WebSocket: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	// Verify client count
	if count := server.ClientCount(); count != 1 {
		t.Errorf("Expected 1 client, got %d", count)
	}

	// Read welcome message
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Failed to read welcome message: %v", err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}

	if msg.Type != MessageTypeStats {
		t.Errorf("Expected welcome message type %s, got %s", MessageTypeStats, msg.Type)
	}

	var stats StatsData
	if err := json.Unmarshal(msg.Data, &stats); err != nil {
		t.Fatalf("Failed to unmarshal stats: %v", err)
	}
	if stats.Total != 2 {
		t.Errorf("Expected 2 documents in welcome stats, got %d", stats.Total)
	}
}

func TestSeedCompleteBroadcast(t *testing.T) {
	server := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws://" + server.GetAddr() + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect WebSocket: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	// Read welcome message
	_, _, err = conn.Read(ctx)
	if err != nil {
		t.Fatalf("Failed to read welcome message: %v", err)
	}

	server.NotifySeedComplete(ctx, 2, 50*time.Millisecond)

	// Read seed complete message
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Failed to read seed complete: %v", err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	if msg.Type != MessageTypeSeedComplete {
		t.Errorf("Expected message type %s, got %s", MessageTypeSeedComplete, msg.Type)
	}

	var seedData SeedCompleteData
	if err := json.Unmarshal(msg.Data, &seedData); err != nil {
		t.Fatalf("Failed to unmarshal seed data: %v", err)
	}
	if seedData.Documents != 2 {
		t.Errorf("Expected 2 documents, got %d", seedData.Documents)
	}

	// Read the stats message that follows
	_, data, err = conn.Read(ctx)
	if err != nil {
		t.Fatalf("Failed to read stats update: %v", err)
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to unmarshal stats message: %v", err)
	}
	if msg.Type != MessageTypeStats {
		t.Errorf("Expected message type %s, got %s", MessageTypeStats, msg.Type)
	}
}

func TestDocumentsEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get("http://" + server.GetAddr() + "/api/documents")
	if err != nil {
		t.Fatalf("GET /api/documents failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var metas []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&metas); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(metas) != 2 {
		t.Fatalf("Expected 2 documents, got %d", len(metas))
	}
	// alpha has sort 2, beta has sort 1
	if metas[0]["slug"] != "alpha" || metas[1]["slug"] != "beta" {
		t.Errorf("Expected [alpha beta], got [%v %v]", metas[0]["slug"], metas[1]["slug"])
	}
}

func TestDocumentBySlugEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get("http://" + server.GetAddr() + "/api/documents/alpha")
	if err != nil {
		t.Fatalf("GET /api/documents/alpha failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var doc map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if doc["title"] != "Alpha" {
		t.Errorf("Expected title 'Alpha', got %v", doc["title"])
	}
	if doc["content"] != "Alpha body\n" {
		t.Errorf("Expected the document body, got %v", doc["content"])
	}
}

func TestDocumentBySlugNotFound(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get("http://" + server.GetAddr() + "/api/documents/missing")
	if err != nil {
		t.Fatalf("GET /api/documents/missing failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}
}

func TestSlugsEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get("http://" + server.GetAddr() + "/api/slugs")
	if err != nil {
		t.Fatalf("GET /api/slugs failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var slugs []string
	if err := json.NewDecoder(resp.Body).Decode(&slugs); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(slugs) != 2 {
		t.Errorf("Expected 2 slugs, got %d", len(slugs))
	}
}

func TestReseedEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post("http://"+server.GetAddr()+"/api/reseed", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/reseed failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["documents"] != float64(2) {
		t.Errorf("Expected 2 documents, got %v", result["documents"])
	}
}

func TestReseedEndpointRejectsGet(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get("http://" + server.GetAddr() + "/api/reseed")
	if err != nil {
		t.Fatalf("GET /api/reseed failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", resp.StatusCode)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get("http://" + server.GetAddr() + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var health map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if health["status"] != "ok" {
		t.Errorf("Expected status 'ok', got %v", health["status"])
	}
}

func TestMultipleClients(t *testing.T) {
	server := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws://" + server.GetAddr() + "/ws"

	numClients := 3
	for i := 0; i < numClients; i++ {
		conn, _, err := websocket.Dial(ctx, wsURL, nil)
		if err != nil {
			t.Fatalf("Failed to connect client %d: %v", i, err)
		}
		defer conn.Close(websocket.StatusNormalClosure, "")

		// Read welcome message
		_, _, err = conn.Read(ctx)
		if err != nil {
			t.Fatalf("Failed to read welcome message for client %d: %v", i, err)
		}
	}

	if count := server.ClientCount(); count != numClients {
		t.Errorf("Expected %d clients, got %d", numClients, count)
	}
}
