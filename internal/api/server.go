// Package api exposes the pipeline over HTTP. The three stage operations are
// independent POST endpoints; /api/summarize is an equivalent direct
// entrypoint to stage 1 kept for clients of the original flow.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/virio-ai/quill/internal/pipeline"
)

type Server struct {
	router *chi.Mux
	pipe   *pipeline.Pipeline
	port   int
	logger *slog.Logger
}

func NewServer(port int, pipe *pipeline.Pipeline, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(corsMiddleware)

	s := &Server{
		router: router,
		pipe:   pipe,
		port:   port,
		logger: logger,
	}

	router.Get("/health", s.health)
	router.Get("/status", s.status)
	router.Get("/api/v1/reference-posts", s.referencePosts)
	router.Post("/api/v1/analyze-transcript", s.analyzeTranscript)
	router.Post("/api/v1/generate-post", s.generatePost)
	router.Post("/api/v1/iterate-post", s.iteratePost)

	// Direct stage 1 entrypoint; chi answers non-POST methods with 405.
	router.Post("/api/summarize", s.analyzeTranscript)

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "quill",
		"status":  "ready",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
