// Package dashboard REST handlers expose the document query surface over
// HTTP and feed the broadcast channel with seed events.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/docdex/docdex/internal/store"
)

// handleDocuments returns the ordered metadata listing
func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	metas, err := s.store.DocumentsContext(r.Context())
	if err != nil {
		s.logger.Printf("Failed to list documents: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(metas)
}

// handleDocumentBySlug returns a single document, body included
func (s *Server) handleDocumentBySlug(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	slug := strings.TrimPrefix(r.URL.Path, "/api/documents/")
	if slug == "" || strings.Contains(slug, "/") {
		http.Error(w, "invalid slug", http.StatusBadRequest)
		return
	}

	doc, err := s.store.DocumentBySlugContext(r.Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrDocumentNotFound) {
			http.Error(w, "document not found", http.StatusNotFound)
			return
		}
		s.logger.Printf("Failed to fetch document %s: %v", slug, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(doc)
}

// handleSlugs returns the slug listing
func (s *Server) handleSlugs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	slugs, err := s.store.SlugsContext(r.Context())
	if err != nil {
		s.logger.Printf("Failed to list slugs: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(slugs)
}

// handleReseed runs a full seed pass and broadcasts the result
func (s *Server) handleReseed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if err := s.store.SeedContext(r.Context()); err != nil {
		s.logger.Printf("Reseed failed: %v", err)
		http.Error(w, "reseed failed", http.StatusInternalServerError)
		return
	}

	count, err := s.store.CountContext(r.Context())
	if err != nil {
		s.logger.Printf("Failed to count documents: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.NotifySeedComplete(r.Context(), count, time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"documents": count,
	})
}

// NotifySeedComplete broadcasts a seed completion event followed by fresh
// statistics. Called after any full seed pass, whether triggered over HTTP
// or by the file watcher.
func (s *Server) NotifySeedComplete(ctx context.Context, documents int, duration time.Duration) {
	s.logger.Printf("Seed complete: %d documents in %v", documents, duration)

	data, err := json.Marshal(SeedCompleteData{
		Documents: documents,
		Duration:  duration,
	})
	if err != nil {
		s.logger.Printf("Failed to marshal seed data: %v", err)
		return
	}

	s.Broadcast(Message{
		Type:      MessageTypeSeedComplete,
		Timestamp: time.Now(),
		Data:      data,
	})

	s.broadcastStats(ctx)
}

// collectStats computes collection statistics from the store
func (s *Server) collectStats(ctx context.Context) (StatsData, error) {
	metas, err := s.store.DocumentsContext(ctx)
	if err != nil {
		return StatsData{}, err
	}

	stats := StatsData{
		Total:      len(metas),
		ByCategory: make(map[string]int),
	}
	for _, m := range metas {
		stats.ByCategory[m.Category]++
	}

	return stats, nil
}

// broadcastStats sends current statistics to all clients
func (s *Server) broadcastStats(ctx context.Context) {
	stats, err := s.collectStats(ctx)
	if err != nil {
		s.logger.Printf("Failed to collect stats: %v", err)
		return
	}

	data, err := json.Marshal(stats)
	if err != nil {
		s.logger.Printf("Failed to marshal stats: %v", err)
		return
	}

	s.Broadcast(Message{
		Type:      MessageTypeStats,
		Timestamp: time.Now(),
		Data:      data,
	})
}
