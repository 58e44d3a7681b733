package devserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/five82/bookshelf/internal/books"
)

const (
	defaultAddr     = "127.0.0.1:8080"
	shutdownTimeout = 5 * time.Second
)

// Option configures a Server.
type Option func(*Server)

// WithLogger attaches a logger for request and lifecycle logs.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBooks preloads the catalog. Ids are reassigned in order.
func WithBooks(list ...books.BookRequest) Option {
	return func(s *Server) {
		s.seed = append(s.seed, list...)
	}
}

// Server is an in-memory implementation of the book REST API for local
// development and tests.
type Server struct {
	repo   *repository
	logger *zap.Logger
	seed   []books.BookRequest
}

// New returns a Server with an empty or seeded catalog.
func New(opts ...Option) *Server {
	s := &Server{repo: newRepository(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	for _, req := range s.seed {
		if _, err := s.repo.create(req); err != nil {
			s.logger.Warn("skip seed book", zap.String("isbn", req.ISBN), zap.Error(err))
		}
	}
	s.seed = nil
	return s
}

// ListenAndServe serves the API on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = defaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("dev server listening", zap.String("addr", addr))

	var err error
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err = <-errCh
	case err = <-errCh:
	}
	s.logger.Info("dev server stopped", zap.String("addr", addr))

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// SampleBooks returns a small catalog for `bookshelf serve --seed`.
func SampleBooks() []books.BookRequest {
	date := func(s string) *string { return &s }
	return []books.BookRequest{
		{
			Title:         "The Go Programming Language",
			Author:        "Alan A. A. Donovan",
			ISBN:          "9780134190440",
			Price:         38000,
			PublishDate:   date("2015-10-26"),
			DetailRequest: books.DetailRequest{Publisher: "Addison-Wesley"},
		},
		{
			Title:         "Concurrency in Go",
			Author:        "Katherine Cox-Buday",
			ISBN:          "9781491941195",
			Price:         29000,
			PublishDate:   date("2017-07-19"),
			DetailRequest: books.DetailRequest{Publisher: "O'Reilly"},
		},
		{
			Title:  "Learning Go",
			Author: "Jon Bodner",
			ISBN:   "1492077216",
			Price:  33000,
		},
	}
}
