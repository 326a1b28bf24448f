package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/logger"
)

// AddDocumentRequest is the body of POST /documents.
type AddDocumentRequest struct {
	Content string `json:"content" validate:"required"`
}

// AddDocumentResponse is returned by POST /documents.
type AddDocumentResponse struct {
	Message string            `json:"message"`
	DocID   domain.DocumentID `json:"docId"`
}

// SearchRequest is the body of POST /search. K defaults to the configured
// retrieval.default_k when omitted or zero.
type SearchRequest struct {
	Query string `json:"query" validate:"required"`
	K     int    `json:"k" validate:"gte=0"`
}

// SearchResponse is returned by POST /search.
type SearchResponse struct {
	Query   string         `json:"query"`
	Answer  string         `json:"answer"`
	Matches []domain.Match `json:"matches"`
}

// CountResponse is returned by GET /documents/count.
type CountResponse struct {
	Count int `json:"count"`
}

// DocumentResponse is returned by GET /documents/{id}.
type DocumentResponse struct {
	ID      domain.DocumentID `json:"id"`
	Content string            `json:"content"`
}

// ResyncResponse is returned by POST /admin/resync.
type ResyncResponse struct {
	Indexed int `json:"indexed"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Stage   string `json:"stage,omitempty"`
}

func (s *Server) handleAddDocument(w http.ResponseWriter, r *http.Request) {
	var req AddDocumentRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.ports.Ingestion.Ingest(r.Context(), req.Content)
	if err != nil {
		writeError(w, r, "failed to add document", err)
		return
	}

	if !res.Created {
		writeJSON(w, http.StatusOK, AddDocumentResponse{Message: "document already exists", DocID: res.ID})
		return
	}
	writeJSON(w, http.StatusCreated, AddDocumentResponse{Message: "document added", DocID: res.ID})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.ports.Retrieval.Retrieve(r.Context(), req.Query, req.K)
	if err != nil {
		writeError(w, r, "search failed", err)
		return
	}

	matches := result.Matches
	if matches == nil {
		matches = []domain.Match{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{
		Query:   result.Query,
		Answer:  result.Answer,
		Matches: matches,
	})
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	n, err := s.ports.Document.Count(r.Context())
	if err != nil {
		writeError(w, r, "failed to count documents", err)
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: n})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, r, "invalid document id", fmt.Errorf("%w: %w", domain.ErrValidation, err))
		return
	}

	content, err := s.ports.Document.GetContent(r.Context(), domain.DocumentID(id))
	if err != nil {
		writeError(w, r, "failed to get document", err)
		return
	}
	writeJSON(w, http.StatusOK, DocumentResponse{ID: domain.DocumentID(id), Content: content})
}

func (s *Server) handleResync(w http.ResponseWriter, r *http.Request) {
	n, err := s.ports.Sync.Resync(r.Context())
	if err != nil {
		writeError(w, r, "resync failed", err)
		return
	}
	writeJSON(w, http.StatusOK, ResyncResponse{Indexed: n})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// decode reads and validates a JSON body. It writes a 400 and returns
// false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, r, "invalid request body", fmt.Errorf("%w: %w", domain.ErrValidation, err))
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeError(w, r, "invalid request", fmt.Errorf("%w: %w", domain.ErrValidation, err))
		return false
	}
	return true
}

// statusFor maps an error to an HTTP status: validation failures are the
// caller's fault, everything else is ours.
func statusFor(err error) int {
	switch {
	case domain.IsClientError(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := statusFor(err)
	resp := ErrorResponse{Error: msg, Details: err.Error()}

	var stageErr *domain.StageError
	if errors.As(err, &stageErr) {
		resp.Stage = stageErr.Stage.String()
	}

	if status >= http.StatusInternalServerError {
		logger.Error("%s %s [%s]: %s: %v", r.Method, r.URL.Path, requestID(r.Context()), msg, err)
	} else {
		logger.Debug("%s %s [%s]: %s: %v", r.Method, r.URL.Path, requestID(r.Context()), msg, err)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
