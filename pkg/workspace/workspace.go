// Package workspace holds the page-level state shared between the upload
// and chat widgets: the currently active document.
package workspace

import (
	"log/slog"
	"sync"

	"researchmate/pkg/agentapi"
)

// Workspace owns the active document. Each successful upload replaces it
// wholesale.
type Workspace struct {
	logger *slog.Logger

	mu      sync.RWMutex
	active  agentapi.UploadResult
	present bool
	// generation increases on every change so views can detect updates.
	generation uint64
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Workspace) { w.logger = l }
}

// New returns a workspace with no active document.
func New(opts ...Option) *Workspace {
	w := &Workspace{logger: slog.Default()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SetActive replaces the active document. It matches the upload
// completion callback signature.
func (w *Workspace) SetActive(doc agentapi.UploadResult) {
	w.mu.Lock()
	w.active = doc
	w.present = true
	w.generation++
	w.mu.Unlock()

	w.logger.Info("workspace_active_document", "filename", doc.Filename, "text_length", doc.TextLength)
}

// Active returns the active document, if any.
func (w *Workspace) Active() (agentapi.UploadResult, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.active, w.present
}

// Generation returns a counter bumped by every SetActive and Clear.
func (w *Workspace) Generation() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.generation
}

// Clear forgets the active document.
func (w *Workspace) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = agentapi.UploadResult{}
	w.present = false
	w.generation++
}
