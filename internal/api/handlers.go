package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/virio-ai/quill/internal/openai"
	"github.com/virio-ai/quill/internal/pipeline"
	"github.com/virio-ai/quill/internal/posts"
)

// statusClientClosedRequest mirrors the nginx convention for a request the
// caller abandoned mid-flight.
const statusClientClosedRequest = 499

type analyzeRequest struct {
	Transcript string `json:"transcript"`
}

type generateRequest struct {
	CorrelationID     string `json:"correlationId"`
	PreferenceSummary string `json:"preferenceSummary"`
}

type iterateRequest struct {
	PostID      string `json:"postId,omitempty"`
	CurrentPost string `json:"currentPost"`
	UserMessage string `json:"userMessage"`
}

func (s *Server) analyzeTranscript(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	summary, err := s.pipe.AnalyzeTranscript(r.Context(), req.Transcript)
	if err != nil {
		// Stage 1 passes rate limiting through so callers can back off.
		s.respondError(w, err, true, "Failed to analyze transcript. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

func (s *Server) generatePost(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	postID, post, err := s.pipe.GeneratePost(r.Context(), req.CorrelationID, req.PreferenceSummary)
	if err != nil {
		s.respondError(w, err, false, "Failed to generate post. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"postId": postID,
		"post":   post,
	})
}

func (s *Server) iteratePost(w http.ResponseWriter, r *http.Request) {
	var req iterateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	revised, err := s.pipe.IteratePost(r.Context(), req.PostID, req.CurrentPost, req.UserMessage)
	if err != nil {
		s.respondError(w, err, false, "Failed to revise post. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"revisedPost": revised})
}

func (s *Server) referencePosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts.Reference()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Request body must be valid JSON.")
		return err
	}
	return nil
}

// respondError maps the pipeline's failure taxonomy to a status code and a
// short actionable message. Upstream error bodies are never exposed.
func (s *Server) respondError(w http.ResponseWriter, err error, rateLimitPassthrough bool, fallback string) {
	switch {
	case errors.Is(err, pipeline.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, openai.ErrUnconfigured):
		s.logger.Error("language model credential missing")
		writeError(w, http.StatusInternalServerError, "Server configuration error. Please contact support.")
	case errors.Is(err, openai.ErrRateLimited) && rateLimitPassthrough:
		writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again in a moment.")
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		writeError(w, statusClientClosedRequest, "Request cancelled.")
	default:
		s.logger.Error("pipeline stage failed", "error", errClass(err))
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

// errClass reduces an error to its classification for logging; upstream
// messages may embed user content and are not logged verbatim.
func errClass(err error) string {
	switch {
	case errors.Is(err, openai.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, openai.ErrEmptyCompletion):
		return "empty_completion"
	default:
		return "upstream_error"
	}
}
