package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/mindmapd/internal/provider"
	"github.com/dgallion1/mindmapd/internal/session"
)

// sessionConfigRequest is the body for session create/update.
type sessionConfigRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
	Model    string `json:"model"`
	BaseURL  string `json:"base_url"`
	Language string `json:"language"`
}

// resolve fills unset fields from the server defaults.
func (s *Server) resolveConfig(req sessionConfigRequest) (provider.Config, string) {
	name := strings.ToLower(strings.TrimSpace(req.Provider))
	if name == "" {
		name = s.cfg.DefaultProvider
	}
	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = s.cfg.DefaultKeyFor(name)
	}
	model := req.Model
	if model == "" {
		model = s.cfg.DefaultModelFor(name)
	}
	baseURL := req.BaseURL
	if baseURL == "" && name == "openai" {
		baseURL = s.cfg.OpenAIBaseURL
	}
	language := req.Language
	if language == "" {
		language = s.cfg.OutputLanguage
	}
	return provider.Config{Name: name, APIKey: apiKey, Model: model, BaseURL: baseURL}, language
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionConfigRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	pc, language := s.resolveConfig(req)
	if !validProviderName(pc.Name) {
		jsonError(w, "unknown provider: "+pc.Name, http.StatusBadRequest)
		return
	}

	sess := s.sessions.Create(pc, language)
	s.log.Info("session created", "session_id", sess.ID, "provider", pc.Name)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sess.Snapshot())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sess.Snapshot())
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	var req sessionConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Carry over the existing key when the update omits one, so users
	// can switch model or language without re-entering it.
	cur, _ := sess.ProviderConfig()
	if req.Provider == "" {
		req.Provider = cur.Name
	}
	pc, language := s.resolveConfig(req)
	if pc.APIKey == "" && pc.Name == cur.Name {
		pc.APIKey = cur.APIKey
	}
	if !validProviderName(pc.Name) {
		jsonError(w, "unknown provider: "+pc.Name, http.StatusBadRequest)
		return
	}

	sess.SetProviderConfig(pc, language)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sess.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	s.sessions.Delete(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	sess.Reset()
	s.log.Info("session reset", "session_id", sess.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sess.Snapshot())
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	restored, ok := sess.Back()
	if !ok {
		jsonError(w, "no previous mind map to go back to", http.StatusConflict)
		return
	}

	s.writeGraph(w, sess, restored)
}

// session resolves the sessionID URL parameter, writing a 404 on miss.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session.Session {
	sessionID := chi.URLParam(r, "sessionID")
	sess := s.sessions.Get(sessionID)
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return nil
	}
	return sess
}

func validProviderName(name string) bool {
	for _, n := range provider.Names {
		if n == name {
			return true
		}
	}
	return false
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
