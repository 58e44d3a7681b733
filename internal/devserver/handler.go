package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/five82/bookshelf/internal/books"
	"github.com/five82/bookshelf/internal/validate"
)

const maxBodyBytes = 1 << 20

type handler struct {
	repo   *repository
	logger *zap.Logger
}

// Router builds the REST routes served under /api/books.
func (s *Server) Router() chi.Router {
	h := &handler{repo: s.repo, logger: s.logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.accessLog)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ALIVE"))
	})

	r.Route("/api/books", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.get)
			r.Put("/", h.update)
			r.Delete("/", h.delete)
		})
	})
	return r
}

func (h *handler) list(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.repo.list())
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	b, err := h.repo.get(id)
	if err != nil {
		h.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	b, err := h.repo.create(req)
	if err != nil {
		h.writeRepoError(w, err)
		return
	}
	h.logger.Info("book created", zap.Int64("id", b.ID), zap.String("isbn", b.ISBN))
	writeJSON(w, http.StatusCreated, b)
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	b, err := h.repo.update(id, req)
	if err != nil {
		h.writeRepoError(w, err)
		return
	}
	h.logger.Info("book updated", zap.Int64("id", id))
	writeJSON(w, http.StatusOK, b)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	if err := h.repo.delete(id); err != nil {
		h.writeRepoError(w, err)
		return
	}
	h.logger.Info("book deleted", zap.Int64("id", id))
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(started)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (h *handler) writeRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errDuplicateISBN):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("repository failure", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func bookID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "book id must be a positive integer")
		return 0, false
	}
	return id, true
}

// decodeRequest parses and validates a BookRequest, writing a 400 on failure.
func decodeRequest(w http.ResponseWriter, r *http.Request) (books.BookRequest, bool) {
	var req books.BookRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be a JSON book")
		return req, false
	}
	fields := &validate.Fields{
		Title:  req.Title,
		Author: req.Author,
		ISBN:   req.ISBN,
		Price:  strconv.FormatInt(req.Price, 10),
	}
	if req.PublishDate != nil {
		fields.PublishDate = *req.PublishDate
	}
	if res := validate.Book(fields); !res.Valid {
		writeError(w, http.StatusBadRequest, res.Message)
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
