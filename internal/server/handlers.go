package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/timsueberkrueb/lsp-graph-poc/pkg/buildinfo"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/errors"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/graph"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/layout"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/pipeline"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/render"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/store"
)

// createGraphRequest is the body of POST /api/graphs.
type createGraphRequest struct {
	Name  string      `json:"name"`
	Graph graph.Graph `json:"graph"`
}

// layoutRequest is the optional body of POST /api/graphs/{id}/layout.
type layoutRequest struct {
	SpringLength  float64 `json:"spring_length,omitempty"`
	Threshold     float64 `json:"threshold,omitempty"`
	MaxIterations int     `json:"max_iterations,omitempty"`
}

// graphSummary is the list and create response shape. The full node and
// edge arrays stay behind GET /api/graphs/{id}.
type graphSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	NodeCount int       `json:"node_count"`
	EdgeCount int       `json:"edge_count"`
	HasLayout bool      `json:"has_layout"`
}

func summarize(doc store.Document) graphSummary {
	return graphSummary{
		ID:        doc.ID,
		Name:      doc.Name,
		CreatedAt: doc.CreatedAt,
		NodeCount: len(doc.Graph.Nodes),
		EdgeCount: len(doc.Graph.Edges),
		HasLayout: doc.Layout != nil,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleCreateGraph(w http.ResponseWriter, r *http.Request) {
	var req createGraphRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest,
			errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed request body"))
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest,
			errors.New(errors.ErrCodeInvalidInput, "name is required"))
		return
	}

	// Reject graphs that cannot be rebuilt into a store before
	// persisting them.
	if _, err := graph.ToStore(req.Graph); err != nil {
		writeError(w, http.StatusBadRequest,
			errors.Wrap(errors.ErrCodeInvalidGraph, err, "invalid graph"))
		return
	}

	doc := store.NewDocument(req.Name, req.Graph)
	if err := s.store.Put(r.Context(), doc); err != nil {
		s.internalError(w, r, err)
		return
	}
	s.logger.Info("stored graph", "id", doc.ID, "name", doc.Name, "nodes", len(doc.Graph.Nodes))
	writeJSON(w, http.StatusCreated, summarize(doc))
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.List(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	summaries := make([]graphSummary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, summarize(doc))
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.store.Delete(r.Context(), id)
	if stderrors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound,
			errors.New(errors.ErrCodeGraphNotFound, "no graph with id %q", id))
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleComputeLayout(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var req layoutRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest,
				errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed request body"))
			return
		}
	}

	st, err := graph.ToStore(doc.Graph)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	l, err := s.runner.ComputeLayout(r.Context(), st, pipeline.Options{
		SpringLength:  req.SpringLength,
		Threshold:     req.Threshold,
		MaxIterations: req.MaxIterations,
	})
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	wire := l.Export()
	doc.Layout = &wire
	if err := s.store.Put(r.Context(), doc); err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire)
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if doc.Layout == nil {
		writeError(w, http.StatusNotFound,
			errors.New(errors.ErrCodeNotFound, "no layout computed for graph %q", doc.ID))
		return
	}
	writeJSON(w, http.StatusOK, doc.Layout)
}

func (s *Server) handleGetSVG(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}

	st, err := graph.ToStore(doc.Graph)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	// Compute and persist the layout on first request.
	var l layout.Layout
	if doc.Layout != nil {
		l = layout.Parse(*doc.Layout)
	} else {
		l, err = s.runner.ComputeLayout(r.Context(), st, pipeline.Options{})
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		wire := l.Export()
		doc.Layout = &wire
		if err := s.store.Put(r.Context(), doc); err != nil {
			s.internalError(w, r, err)
			return
		}
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(render.LayoutSVG(st, l))
}

// lookup fetches the document named by the {id} route parameter and
// writes the error response itself on failure.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (store.Document, bool) {
	id := chi.URLParam(r, "id")
	doc, err := s.store.Get(r.Context(), id)
	if stderrors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound,
			errors.New(errors.ErrCodeGraphNotFound, "no graph with id %q", id))
		return store.Document{}, false
	}
	if err != nil {
		s.internalError(w, r, err)
		return store.Document{}, false
	}
	return doc, true
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	writeError(w, http.StatusInternalServerError,
		errors.Wrap(errors.ErrCodeInternal, err, "internal error"))
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Error: errorBody{
		Code:    code,
		Message: errors.UserMessage(err),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
