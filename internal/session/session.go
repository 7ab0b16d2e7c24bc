// Package session holds per-session mutable state: provider
// configuration, the current outline, and the breadcrumb stack of
// outlines visited via drill-down. Nothing here survives a restart.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/mindmapd/internal/outline"
	"github.com/dgallion1/mindmapd/internal/provider"
)

// Session tracks one user's state.
type Session struct {
	mu sync.Mutex

	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	cfg      provider.Config
	language string

	current    *outline.Outline
	stack      []*outline.Outline
	selectedID string
	detail     string

	busy bool
}

// ErrBusy is returned when a session already has an LLM call in flight.
var ErrBusy = fmt.Errorf("a request is already in progress for this session")

// TryBegin marks the session busy. It fails if another request is in
// flight: each session issues at most one outstanding provider call.
func (s *Session) TryBegin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	return nil
}

// End clears the busy flag.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

// SetProviderConfig updates the provider configuration and language.
func (s *Session) SetProviderConfig(cfg provider.Config, language string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	if language != "" {
		s.language = language
	}
	s.UpdatedAt = time.Now()
}

// ProviderConfig returns the session's provider configuration and language.
func (s *Session) ProviderConfig() (provider.Config, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg, s.language
}

// SetOutline installs a freshly generated outline as a new top-level
// map: the breadcrumb stack and any selection are cleared.
func (s *Session) SetOutline(o *outline.Outline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = o
	s.stack = nil
	s.selectedID = ""
	s.detail = ""
	s.UpdatedAt = time.Now()
}

// Outline returns the current outline, or nil.
func (s *Session) Outline() *outline.Outline {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// DrillDown replaces the current outline with o, pushing the old one
// onto the breadcrumb stack.
func (s *Session) DrillDown(o *outline.Outline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.stack = append(s.stack, s.current)
	}
	s.current = o
	s.selectedID = ""
	s.detail = ""
	s.UpdatedAt = time.Now()
}

// Back pops the breadcrumb stack, restoring the previous outline.
// It reports false if there is nothing to go back to.
func (s *Session) Back() (*outline.Outline, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.stack) == 0 {
		return nil, false
	}
	s.current = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.selectedID = ""
	s.detail = ""
	s.UpdatedAt = time.Now()
	return s.current, true
}

// Select records the selected node and its fetched explanation.
func (s *Session) Select(nodeID, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = nodeID
	s.detail = detail
	s.UpdatedAt = time.Now()
}

// Reset clears the outline, breadcrumb stack, and selection. The
// provider configuration (including the API key) is kept so the user
// can start over without re-entering it.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.stack = nil
	s.selectedID = ""
	s.detail = ""
	s.UpdatedAt = time.Now()
}

// Path returns the breadcrumb labels: the root label of every stacked
// outline followed by the current root.
func (s *Session) Path() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pathLocked()
}

func (s *Session) pathLocked() []string {
	var path []string
	for _, o := range s.stack {
		if r := o.Root(); r != nil {
			path = append(path, r.Label)
		}
	}
	if s.current != nil {
		if r := s.current.Root(); r != nil {
			path = append(path, r.Label)
		}
	}
	return path
}

// Snapshot is a read-only, JSON-safe copy of session state. The API
// key is deliberately absent.
type Snapshot struct {
	ID             string    `json:"session_id"`
	Provider       string    `json:"provider"`
	Model          string    `json:"model,omitempty"`
	Language       string    `json:"language"`
	Path           []string  `json:"path"`
	HasOutline     bool      `json:"has_outline"`
	NodeCount      int       `json:"node_count"`
	SelectedNodeID string    `json:"selected_node_id,omitempty"`
	Detail         string    `json:"detail,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.pathLocked()
	if path == nil {
		path = []string{}
	}
	nodeCount := 0
	if s.current != nil {
		nodeCount = len(s.current.Nodes)
	}
	return Snapshot{
		ID:             s.ID,
		Provider:       s.cfg.Name,
		Model:          s.cfg.Model,
		Language:       s.language,
		Path:           path,
		HasOutline:     s.current != nil,
		NodeCount:      nodeCount,
		SelectedNodeID: s.selectedID,
		Detail:         s.detail,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
