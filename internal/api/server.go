// Package api is the HTTP boundary: request validation, the classifier
// gate, and the four-key record serialization contract. All extraction
// semantics live in internal/extract.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/oncall-labs/triagem/internal/bus"
	"github.com/oncall-labs/triagem/internal/classify"
	"github.com/oncall-labs/triagem/internal/extract"
	"github.com/oncall-labs/triagem/internal/ollama"
	"github.com/oncall-labs/triagem/internal/store"
)

type Server struct {
	router     *chi.Mux
	port       int
	engine     *extract.Engine
	llm        *ollama.Client
	classifier classify.Classifier
	publisher  *bus.Publisher // optional
	archive    *store.Store   // optional
	logger     *slog.Logger
}

func NewServer(port int, apiToken string, engine *extract.Engine, llm *ollama.Client,
	classifier classify.Classifier, publisher *bus.Publisher, archive *store.Store,
	logger *slog.Logger) *Server {

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	s := &Server{
		router:     router,
		port:       port,
		engine:     engine,
		llm:        llm,
		classifier: classifier,
		publisher:  publisher,
		archive:    archive,
		logger:     logger,
	}

	router.Get("/health", s.health)
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiToken))
		r.Post("/parse", s.parse)
		r.Post("/parse/batch", s.parseBatch)
		r.Get("/models", s.models)
		r.Get("/examples", s.examples)
		r.Get("/incidents", s.incidents)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// BearerAuthMiddleware rejects requests without the configured bearer
// token. An empty token disables the check.
func BearerAuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
				respondError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// respondJSON writes indented JSON with Unicode preserved: accented
// characters pass through unescaped, which is part of the record contract.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ollamaStatus := "connected"
	status := "healthy"
	if err := s.llm.Ping(r.Context()); err != nil {
		s.logger.Warn("ollama probe failed", "error", err)
		ollamaStatus = "error"
		status = "unhealthy"
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":        status,
		"message":       "incident parser is running",
		"ollama_status": ollamaStatus,
	})
}
