// Package webapp is the optional HTTP front end for the search engine,
// wrapping the same query.Evaluator the console REPL uses behind a
// small chi-routed API.
package webapp

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mnohosten/spimi-index/pkg/config"
	"github.com/mnohosten/spimi-index/pkg/query"
)

// Server is the search engine's HTTP front end.
type Server struct {
	cfg       *config.WebappConfig
	evaluator *query.Evaluator
	router    *chi.Mux
	httpSrv   *http.Server
}

// New builds a Server around an already-open Evaluator.
func New(cfg *config.WebappConfig, evaluator *query.Evaluator) *Server {
	s := &Server{
		cfg:       cfg,
		evaluator: evaluator,
		router:    chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()
	if cfg.EnableGraphQL {
		if err := s.setupGraphQLRoutes(); err != nil {
			fmt.Printf("warning: GraphQL API disabled: %v\n", err)
		}
	}

	s.httpSrv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Logger)
}

// timedRoutes returns a router scoped to the request/response routes
// that should give up after 10s. /ws/search is registered directly on
// s.router instead, since its connection is meant to stay open for the
// life of a live-search session.
func (s *Server) timedRoutes() chi.Router {
	return s.router.With(middleware.Timeout(10 * time.Second))
}

func (s *Server) setupRoutes() {
	timed := s.timedRoutes()
	timed.Get("/_health", s.handleHealth)
	timed.Get("/", s.handleSearch)
	timed.Get("/search", s.handleSearch)
	s.router.HandleFunc("/ws/search", s.handleSearchWS)
}

func (s *Server) setupGraphQLRoutes() error {
	handler, err := newGraphQLHandler(s.evaluator)
	if err != nil {
		return err
	}
	timed := s.timedRoutes()
	timed.Post("/graphql", handler.ServeHTTP)
	timed.Get("/graphiql", graphiQLHandler())
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type searchResponse struct {
	Query              string         `json:"query"`
	Results            []query.Result `json:"results"`
	SearchTimeMillisec float64        `json:"search_time_milliseconds"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		s.writeSearchPage(w, "", nil, 0)
		return
	}

	start := time.Now()
	results, err := s.evaluator.Search(q)
	elapsed := time.Since(start)
	if err != nil {
		s.writeSearchPage(w, q, nil, 0)
		return
	}

	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(searchResponse{
			Query:              q,
			Results:            results,
			SearchTimeMillisec: float64(elapsed.Microseconds()) / 1000.0,
		})
		return
	}

	s.writeSearchPage(w, q, results, elapsed)
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return accept == "application/json" || r.URL.Query().Get("format") == "json"
}

var searchPageTemplate = template.Must(template.New("search").Parse(`<!DOCTYPE html>
<html><head><title>Search</title></head><body>
<form action="/search" method="get">
<input type="text" name="q" value="{{.Query}}" autofocus>
<button type="submit">Search</button>
</form>
{{if .Query}}<p>{{len .Results}} result(s) in {{.ElapsedMillisec}}ms</p>
<ol>
{{range .Results}}<li><a href="{{.URL}}">{{.URL}}</a> ({{printf "%.4f" .Score}})</li>
{{end}}
</ol>{{end}}
</body></html>`))

func (s *Server) writeSearchPage(w http.ResponseWriter, q string, results []query.Result, elapsed time.Duration) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	searchPageTemplate.Execute(w, struct {
		Query           string
		Results         []query.Result
		ElapsedMillisec float64
	}{
		Query:           q,
		Results:         results,
		ElapsedMillisec: float64(elapsed.Microseconds()) / 1000.0,
	})
}

// Start runs the HTTP server until an unrecoverable error occurs or an
// interrupt/termination signal is received, at which point it shuts down
// gracefully.
func (s *Server) Start() error {
	fmt.Printf("search engine listening on %s\n", s.cfg.Addr)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		return s.Shutdown()
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}
