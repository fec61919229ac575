package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/newsgraph-io/newsgraph/internal/search"
	"github.com/newsgraph-io/newsgraph/internal/types"
)

// Ingester processes one article URL into the store.
type Ingester interface {
	Ingest(ctx context.Context, url string) (*types.Article, error)
}

// Searcher is the slice of the search engine the API exposes.
type Searcher interface {
	ByURL(ctx context.Context, url string) (*types.Article, error)
	ByKeywords(ctx context.Context, keywords string) ([]types.SearchHit, types.MatchKind, error)
	ByFacets(ctx context.Context, f search.Facets) ([]types.SearchHit, types.MatchKind, error)
	All(ctx context.Context) ([]types.SearchHit, error)
	DeleteByURL(ctx context.Context, url string) error
}

// Recommender produces article recommendations from viewed URLs.
type Recommender interface {
	Recommend(ctx context.Context, viewedURLs []string) ([]types.SearchHit, error)
}

// Pinger reports triple-store connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server exposes the article graph over HTTP.
type Server struct {
	mux    *http.ServeMux
	port   int
	logger *slog.Logger

	ingester    Ingester
	searcher    Searcher
	recommender Recommender
	pinger      Pinger
}

// NewServer creates the API server and registers its routes. pinger may be
// nil, in which case health reports process liveness only.
func NewServer(port int, ingester Ingester, searcher Searcher, recommender Recommender, pinger Pinger, logger *slog.Logger) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		port:        port,
		logger:      logger.With("component", "api_server"),
		ingester:    ingester,
		searcher:    searcher,
		recommender: recommender,
		pinger:      pinger,
	}
	s.registerRoutes()
	return s
}

// Handler returns the route mux, mainly for tests.
func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	s.mux.HandleFunc("POST /api/articles", s.handleCreateArticle)
	s.mux.HandleFunc("GET /api/articles", s.handleGetArticle)
	s.mux.HandleFunc("GET /api/articles/all", s.handleAllArticles)
	s.mux.HandleFunc("DELETE /api/articles", s.handleDeleteArticle)

	s.mux.HandleFunc("GET /api/search", s.handleSearch)
	s.mux.HandleFunc("GET /api/search/advanced", s.handleAdvancedSearch)

	s.mux.HandleFunc("POST /api/recommendations", s.handleRecommendations)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			s.logger.Warn("store unreachable", "error", err)
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"store":  "unavailable",
			})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if body.URL == "" {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
		return
	}

	article, err := s.ingester.Ingest(r.Context(), body.URL)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"message": "article created",
		"data":    article,
	})
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
		return
	}

	article, err := s.searcher.ByURL(r.Context(), url)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"data": article})
}

func (s *Server) handleAllArticles(w http.ResponseWriter, r *http.Request) {
	hits, err := s.searcher.All(r.Context())
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if len(hits) == 0 {
		s.jsonResponse(w, http.StatusNotFound, map[string]string{"error": "no articles found"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"data": hits})
}

func (s *Server) handleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
		return
	}

	if err := s.searcher.DeleteByURL(r.Context(), url); err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "article deleted"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	keywords := r.URL.Query().Get("keywords")
	if keywords == "" {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "keywords are required"})
		return
	}

	hits, match, err := s.searcher.ByKeywords(r.Context(), keywords)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if len(hits) == 0 {
		s.jsonResponse(w, http.StatusNotFound, map[string]string{"error": "no articles found"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"data": hits, "match": match})
}

func (s *Server) handleAdvancedSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	facets := search.Facets{
		Keywords:          q.Get("keywords"),
		InLanguage:        q.Get("inLanguage"),
		AuthorName:        q.Get("author"),
		AuthorNationality: q.Get("nationality"),
		Publisher:         q.Get("publisher"),
		WordCountMin:      atoiParam(q.Get("wordcount_min")),
		WordCountMax:      atoiParam(q.Get("wordcount_max")),
		DatePublishedMin:  q.Get("datePublished_min"),
		DatePublishedMax:  q.Get("datePublished_max"),
	}
	// Single-value criteria apply only when no range was given.
	if facets.WordCountMin == 0 && facets.WordCountMax == 0 {
		facets.WordCount = atoiParam(q.Get("wordcount"))
	}
	if facets.DatePublishedMin == "" && facets.DatePublishedMax == "" {
		facets.DatePublished = q.Get("datePublished")
	}

	hits, match, err := s.searcher.ByFacets(r.Context(), facets)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if len(hits) == 0 {
		s.jsonResponse(w, http.StatusNotFound, map[string]string{"error": "no articles found"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"data": hits, "match": match})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var body struct {
		History []string `json:"history"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	hits, err := s.recommender.Recommend(r.Context(), body.History)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"data": hits})
}

// errorResponse maps the error taxonomy onto status codes: invalid input
// is the caller's fault, not-found is a normal empty signal, and anything
// else surfaces as an upstream failure with its cause string.
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrInvalidURL), errors.Is(err, types.ErrNoCriteria):
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, types.ErrNotFound), errors.Is(err, types.ErrNoStructured), errors.Is(err, types.ErrNoHeadline):
		s.jsonResponse(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		s.logger.Error("request failed", "error", err)
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func atoiParam(v string) int {
	n, _ := strconv.Atoi(v)
	return n
}
