package server

import (
	"net/http"
	"sync"

	"github.com/desertthunder/brain/internal/shared"
)

// PrintHandler serves rendered HTML documents from memory at /print/{id}.
//
// Documents stay available until the process exits so the browser can reload them.
type PrintHandler struct {
	mu     sync.Mutex
	docs   map[string][]byte
	served map[string]bool
	notify chan string
}

// NewPrintHandler creates an empty [PrintHandler].
func NewPrintHandler() *PrintHandler {
	return &PrintHandler{
		docs:   map[string][]byte{},
		served: map[string]bool{},
		notify: make(chan string, 16),
	}
}

// Routes implements [Handler].
func (h *PrintHandler) Routes() []Route {
	return []Route{{Method: http.MethodGet, Path: "/print/{id}", Handler: h}}
}

// Add stores doc under a new random id and returns the id.
func (h *PrintHandler) Add(doc []byte) string {
	id := shared.GenerateID()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.docs[id] = doc
	return id
}

// Path returns the URL path for id.
func (h *PrintHandler) Path(id string) string {
	return "/print/" + id
}

// Served receives each document id the first time it is fetched.
func (h *PrintHandler) Served() <-chan string {
	return h.notify
}

// ServeHTTP writes the stored document or a 404.
func (h *PrintHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !shared.IsUUID(id) {
		http.NotFound(w, r)
		return
	}

	h.mu.Lock()
	doc, ok := h.docs[id]
	first := ok && !h.served[id]
	if first {
		h.served[id] = true
	}
	h.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)

	if first {
		select {
		case h.notify <- id:
		default:
		}
	}
}
