// Package server exposes search and directory listing to a host UI over
// HTTP with JSON bodies.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/TFMV/burrow/internal/metrics"
	"github.com/TFMV/burrow/internal/pool"
	"github.com/TFMV/burrow/internal/record"
	"github.com/TFMV/burrow/internal/search"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Error kinds reported in ErrorBody.Kind.
const (
	KindBadRequest  = "bad_request"
	KindEnumeration = "enumeration"
	KindTraversal   = "traversal"
	KindPool        = "pool"
	KindInternal    = "internal"
)

// ErrorBody describes one failure.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// RecordsResponse is the body of a successful search or listing. Errors
// lists branches that could not be searched; their siblings are present.
type RecordsResponse struct {
	Records []record.Record `json:"records"`
	Errors  []ErrorBody     `json:"errors,omitempty"`
}

// Server routes host commands to the search package.
type Server struct {
	opts   search.Options
	logger *zap.Logger
	router *mux.Router
}

// New creates a Server that runs every request with opts.
func New(opts search.Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = search.NewLogger(opts.LogLevel)
		opts.Logger = logger
	}

	s := &Server{opts: opts, logger: logger, router: mux.NewRouter()}

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/search", s.handleSearch).Methods("GET")
	api.HandleFunc("/list", s.handleList).Methods("GET")
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	s.router.Handle("/metrics", metrics.Handler()).Methods("GET")
	s.router.Use(s.instrument)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	root := q.Get("path")
	if root == "" {
		s.writeError(w, http.StatusBadRequest, ErrorBody{Kind: KindBadRequest, Message: "missing path"})
		return
	}
	strategy, err := search.ParseStrategy(q.Get("strategy"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, ErrorBody{Kind: KindBadRequest, Message: err.Error()})
		return
	}

	records, err := search.Run(r.Context(), strategy, q.Get("q"), root, s.opts)
	s.writeRecords(w, records, err)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	dir := r.URL.Query().Get("path")
	if dir == "" {
		s.writeError(w, http.StatusBadRequest, ErrorBody{Kind: KindBadRequest, Message: "missing path"})
		return
	}

	records, err := search.ListDirectory(r.Context(), dir, s.opts)
	s.writeRecords(w, records, err)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeRecords writes records, attaching branch failures, or the error
// that prevented any result.
func (s *Server) writeRecords(w http.ResponseWriter, records []record.Record, err error) {
	if err == nil {
		s.writeJSON(w, http.StatusOK, RecordsResponse{Records: records})
		return
	}

	var partial *search.PartialError
	if errors.As(err, &partial) {
		resp := RecordsResponse{Records: records}
		for _, failure := range partial.Failures {
			resp.Errors = append(resp.Errors, describe(failure))
		}
		s.writeJSON(w, http.StatusOK, resp)
		return
	}

	s.writeError(w, statusFor(err), describe(err))
}

// describe converts an error into its wire form.
func describe(err error) ErrorBody {
	var enum *search.EnumerationError
	var trav *search.TraversalError
	switch {
	case errors.As(err, &enum):
		return ErrorBody{Kind: KindEnumeration, Path: enum.Path, Message: enum.Err.Error()}
	case errors.As(err, &trav):
		return ErrorBody{Kind: KindTraversal, Path: trav.Path, Message: trav.Err.Error()}
	case errors.Is(err, pool.ErrInvalidSize), errors.Is(err, pool.ErrStopped):
		return ErrorBody{Kind: KindPool, Message: err.Error()}
	default:
		return ErrorBody{Kind: KindInternal, Message: err.Error()}
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, fs.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	var enum *search.EnumerationError
	if errors.As(err, &enum) {
		// Typically "not a directory".
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, status int, body ErrorBody) {
	s.logger.Debug("request failed",
		zap.Int("status", status),
		zap.String("kind", body.Kind),
		zap.String("path", body.Path),
		zap.String("message", body.Message),
	)
	s.writeJSON(w, status, ErrorResponse{Error: body})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument records request metrics under the matched route template.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				path = tmpl
			}
		}
		metrics.RecordHTTPRequest(r.Method, path, rec.status, time.Since(start))
	})
}
