package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/mindmapd/internal/graph"
	"github.com/dgallion1/mindmapd/internal/outline"
	"github.com/dgallion1/mindmapd/internal/parser"
	"github.com/dgallion1/mindmapd/internal/session"
	"github.com/dgallion1/mindmapd/internal/textprep"
)

// handleGenerate builds a new top-level mind map from an uploaded file
// or pasted text.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	text, ok := s.readInput(w, r)
	if !ok {
		return
	}

	cleaned := textprep.CleanText(text)
	if cleaned == "" {
		jsonError(w, "no usable text in input", http.StatusBadRequest)
		return
	}
	cleaned = textprep.TruncateToTokens(cleaned, s.cfg.MaxInputTokens)

	if err := sess.TryBegin(); err != nil {
		jsonError(w, err.Error(), http.StatusConflict)
		return
	}
	defer sess.End()

	o, ok := s.generateOutline(w, r, sess, cleaned)
	if !ok {
		return
	}

	sess.SetOutline(o)
	s.writeGraph(w, sess, o)
}

// handleGetMindmap returns the graph for the current outline.
func (s *Server) handleGetMindmap(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	o := sess.Outline()
	if o == nil {
		jsonError(w, "no mind map generated yet", http.StatusNotFound)
		return
	}

	s.writeGraph(w, sess, o)
}

// handleNodeDetail fetches an explanation for one node.
func (s *Server) handleNodeDetail(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	o := sess.Outline()
	if o == nil {
		jsonError(w, "no mind map generated yet", http.StatusNotFound)
		return
	}
	nodeID := chi.URLParam(r, "nodeID")
	node := o.Find(nodeID)
	if node == nil {
		jsonError(w, "node not found in current mind map", http.StatusNotFound)
		return
	}

	if err := sess.TryBegin(); err != nil {
		jsonError(w, err.Error(), http.StatusConflict)
		return
	}
	defer sess.End()

	pc, language := sess.ProviderConfig()
	p, err := s.newProvider(r, pc)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.LLMTimeout)
	defer cancel()

	detail, err := s.svc.ExplainTopic(ctx, p, node.Label, o.Path(nodeID), language)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}

	sess.Select(nodeID, detail)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"node_id": nodeID,
		"label":   node.Label,
		"path":    o.Path(nodeID),
		"detail":  detail,
	})
}

// handleDrillDown regenerates a mind map rooted at the selected node,
// pushing the current one onto the breadcrumb stack.
func (s *Server) handleDrillDown(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	o := sess.Outline()
	if o == nil {
		jsonError(w, "no mind map generated yet", http.StatusNotFound)
		return
	}
	nodeID := chi.URLParam(r, "nodeID")
	node := o.Find(nodeID)
	if node == nil {
		jsonError(w, "node not found in current mind map", http.StatusNotFound)
		return
	}

	if err := sess.TryBegin(); err != nil {
		jsonError(w, err.Error(), http.StatusConflict)
		return
	}
	defer sess.End()

	// On failure the session keeps its current outline untouched.
	newOutline, ok := s.generateOutline(w, r, sess, node.Label)
	if !ok {
		return
	}

	sess.DrillDown(newOutline)
	s.log.Info("drill-down", "session_id", sess.ID, "topic", node.Label)
	s.writeGraph(w, sess, newOutline)
}

// generateOutline runs the outline request with the session's provider,
// writing the error response itself on failure.
func (s *Server) generateOutline(w http.ResponseWriter, r *http.Request, sess *session.Session, text string) (*outline.Outline, bool) {
	pc, language := sess.ProviderConfig()
	p, err := s.newProvider(r, pc)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.LLMTimeout)
	defer cancel()

	o, err := s.svc.GenerateOutline(ctx, p, text, language)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadGateway)
		return nil, false
	}
	return o, true
}

// readInput extracts the input text from either an uploaded file
// (multipart form) or a pasted text body.
func (s *Server) readInput(w http.ResponseWriter, r *http.Request) (string, bool) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
			return "", false
		}
		defer r.MultipartForm.RemoveAll()

		if file, header, err := r.FormFile("file"); err == nil {
			defer file.Close()

			filename := sanitizeFilename(header.Filename)
			if !parser.IsSupportedExtension(filename) {
				jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
				return "", false
			}

			data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
			if err != nil {
				jsonError(w, "failed to read file", http.StatusInternalServerError)
				return "", false
			}
			if int64(len(data)) > s.cfg.MaxUploadBytes {
				jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
				return "", false
			}

			p, err := parser.ForFile(filename)
			if err != nil {
				jsonError(w, err.Error(), http.StatusBadRequest)
				return "", false
			}
			if pdfParser, isPDF := p.(*parser.PDFParser); isPDF {
				pdfParser.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
			}

			doc, err := p.Parse(bytes.NewReader(data), filename)
			if err != nil {
				jsonError(w, "failed to extract text: "+err.Error(), http.StatusBadRequest)
				return "", false
			}
			if doc.Empty() {
				jsonError(w, "no extractable text in file", http.StatusBadRequest)
				return "", false
			}
			return doc.PlainText(), true
		}

		// No file part: fall back to a text form field.
		if text := r.FormValue("text"); strings.TrimSpace(text) != "" {
			return text, true
		}
		jsonError(w, "either a file or text is required", http.StatusBadRequest)
		return "", false
	}

	// JSON body with pasted text.
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, s.cfg.MaxUploadBytes)).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return "", false
	}
	if strings.TrimSpace(req.Text) == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return "", false
	}
	return req.Text, true
}

// writeGraph renders the outline and writes the standard map response.
func (s *Server) writeGraph(w http.ResponseWriter, sess *session.Session, o *outline.Outline) {
	g, err := graph.Render(o)
	if err != nil {
		jsonError(w, "render graph: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"session_id": sess.ID,
		"path":       sess.Path(),
		"root":       o.Root().Label,
		"graph":      g,
	})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
