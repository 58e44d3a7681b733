package books

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookAPI defines the catalog operations backed by the REST API.
// This interface is implemented by *Client and can be used for testing.
type BookAPI interface {
	ListBooks(ctx context.Context) ([]Book, error)
	GetBook(ctx context.Context, id int64) (*Book, error)
	CreateBook(ctx context.Context, req *BookRequest) (*Book, error)
	UpdateBook(ctx context.Context, id int64, req *BookRequest) (*Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

// Ensure Client implements BookAPI at compile time.
var _ BookAPI = (*Client)(nil)

// Client talks to the book catalog HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *zap.Logger
}

const (
	defaultBaseURL   = "http://localhost:8080"
	defaultUserAgent = "bookshelf/0.1"
	defaultTimeout   = 5 * time.Second
	booksPath        = "/api/books"

	// errorBodyLimit caps how much of an error response is read.
	errorBodyLimit = 64 << 10
)

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		userAgent: defaultUserAgent,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListBooks retrieves every book in the catalog.
func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Book
	if err := c.do(ctx, http.MethodGet, booksPath, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetBook retrieves a single book.
func (c *Client) GetBook(ctx context.Context, id int64) (*Book, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return nil, ErrIDRequired
	}
	var payload Book
	if err := c.do(ctx, http.MethodGet, bookPath(id), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CreateBook registers a new book and returns the stored record.
func (c *Client) CreateBook(ctx context.Context, req *BookRequest) (*Book, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if req == nil {
		return nil, ErrDataRequired
	}
	var payload Book
	if err := c.do(ctx, http.MethodPost, booksPath, req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateBook replaces the book with the given id.
func (c *Client) UpdateBook(ctx context.Context, id int64, req *BookRequest) (*Book, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return nil, ErrIDRequired
	}
	if req == nil {
		return nil, ErrDataRequired
	}
	var payload Book
	if err := c.do(ctx, http.MethodPut, bookPath(id), req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteBook removes the book with the given id.
func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return ErrIDRequired
	}
	return c.do(ctx, http.MethodDelete, bookPath(id), nil, nil)
}

func bookPath(id int64) string {
	return booksPath + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	log := c.logger.With(
		zap.String("method", method),
		zap.String("url", reqURL.String()),
		zap.String("request_id", requestID),
	)
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			log.Debug("api request cancelled", zap.Error(ctxErr))
			return ctxErr
		}
		log.Warn("api request failed", zap.Error(err), zap.Duration("elapsed", time.Since(started)))
		return &NetworkError{Method: method, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	log.Debug("api request",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode >= 400 {
		apiErr := &APIError{
			StatusCode:    resp.StatusCode,
			ServerMessage: readServerMessage(resp.Body),
			Method:        method,
			Path:          path,
		}
		log.Warn("api returned error",
			zap.Int("status", apiErr.StatusCode),
			zap.String("server_message", apiErr.ServerMessage),
		)
		return apiErr
	}
	if dest == nil || method == http.MethodDelete {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func readServerMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, errorBodyLimit))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = ""
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
