package books

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultBaseURL {
		t.Fatalf("url = %q, want %q", u.String(), defaultBaseURL)
	}

	u, err = parseBaseURL("  books.local:9090 ")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "books.local:9090" {
		t.Fatalf("url = %q, want http://books.local:9090", u.String())
	}

	u, err = parseBaseURL("https://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL(http://) returned nil error, want missing host error")
	}
}

func TestClient_CRUDRequestsAndHeaders(t *testing.T) {
	t.Parallel()

	type seen struct {
		method    string
		path      string
		body      string
		userAgent string
		requestID string
		ctype     string
	}
	var (
		mu    sync.Mutex
		calls []seen
	)

	stored := Book{
		ID:          7,
		Title:       "Go in Practice",
		Author:      "Butcher",
		ISBN:        "9781633430075",
		Price:       35000,
		PublishDate: "2016-10-01",
		Detail:      &BookDetail{Publisher: "Manning"},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, seen{
			method:    r.Method,
			path:      r.URL.Path,
			body:      string(body),
			userAgent: r.Header.Get("User-Agent"),
			requestID: r.Header.Get("X-Request-ID"),
			ctype:     r.Header.Get("Content-Type"),
		})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/books":
			_ = json.NewEncoder(w).Encode([]Book{stored})
		case r.Method == http.MethodGet && r.URL.Path == "/api/books/7":
			_ = json.NewEncoder(w).Encode(stored)
		case r.Method == http.MethodPost && r.URL.Path == "/api/books":
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(stored)
		case r.Method == http.MethodPut && r.URL.Path == "/api/books/7":
			_ = json.NewEncoder(w).Encode(stored)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/books/7":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	list, err := c.ListBooks(ctx)
	if err != nil {
		t.Fatalf("ListBooks returned error: %v", err)
	}
	if diff := cmp.Diff([]Book{stored}, list); diff != "" {
		t.Fatalf("ListBooks mismatch (-want +got):\n%s", diff)
	}

	got, err := c.GetBook(ctx, 7)
	if err != nil {
		t.Fatalf("GetBook returned error: %v", err)
	}
	if got.Publisher() != "Manning" {
		t.Fatalf("GetBook publisher = %q, want Manning", got.Publisher())
	}

	date := "2016-10-01"
	req := &BookRequest{
		Title:         "Go in Practice",
		Author:        "Butcher",
		ISBN:          "9781633430075",
		Price:         35000,
		PublishDate:   &date,
		DetailRequest: DetailRequest{Publisher: "Manning"},
	}
	if _, err := c.CreateBook(ctx, req); err != nil {
		t.Fatalf("CreateBook returned error: %v", err)
	}
	if _, err := c.UpdateBook(ctx, 7, req); err != nil {
		t.Fatalf("UpdateBook returned error: %v", err)
	}
	if err := c.DeleteBook(ctx, 7); err != nil {
		t.Fatalf("DeleteBook returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 5 {
		t.Fatalf("server saw %d calls, want 5", len(calls))
	}
	post := calls[2]
	if post.method != http.MethodPost || post.ctype != "application/json" {
		t.Fatalf("create call = %+v, want POST with json content type", post)
	}
	var sent map[string]any
	if err := json.Unmarshal([]byte(post.body), &sent); err != nil {
		t.Fatalf("create body is not json: %v", err)
	}
	detail, _ := sent["detailRequest"].(map[string]any)
	if sent["publishDate"] != "2016-10-01" || detail["publisher"] != "Manning" || sent["price"] != float64(35000) {
		t.Fatalf("create body = %s, want publishDate, price and detailRequest.publisher", post.body)
	}
	if calls[3].method != http.MethodPut || calls[3].path != "/api/books/7" {
		t.Fatalf("update call = %+v, want PUT /api/books/7", calls[3])
	}
	if calls[4].method != http.MethodDelete || calls[4].body != "" {
		t.Fatalf("delete call = %+v, want DELETE with empty body", calls[4])
	}

	ids := map[string]bool{}
	for _, call := range calls {
		if !strings.HasPrefix(call.userAgent, "bookshelf/") {
			t.Fatalf("User-Agent = %q, want bookshelf/*", call.userAgent)
		}
		if call.requestID == "" || ids[call.requestID] {
			t.Fatalf("X-Request-ID = %q, want unique non-empty id", call.requestID)
		}
		ids[call.requestID] = true
	}
}

func TestClient_NullPublishDateIsSent(t *testing.T) {
	t.Parallel()

	bodies := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		bodies <- string(data)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.CreateBook(context.Background(), &BookRequest{Title: "T"}); err != nil {
		t.Fatalf("CreateBook returned error: %v", err)
	}
	if body := <-bodies; !strings.Contains(body, `"publishDate":null`) {
		t.Fatalf("body = %s, want publishDate null", body)
	}
}

func TestClient_ErrorStatusesMapToMessages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"bad request", 400, `{"message":"title is blank"}`, "Invalid input: title is blank"},
		{"not found", 404, `{"message":"book 9 missing"}`, "Not found: book 9 missing"},
		{"conflict", 409, `{"message":"isbn exists"}`, "Duplicate: isbn exists"},
		{"server error", 500, `{"message":"db down"}`, "Server error: db down"},
		{"other status", 418, `{"message":"teapot"}`, "Error (418): teapot"},
		{"missing message", 400, `{}`, "Invalid input: An unknown error occurred."},
		{"non json body", 500, `<html>oops</html>`, "Server error: An unknown error occurred."},
		{"empty body", 503, ``, "Error (503): An unknown error occurred."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			c, err := NewClient(server.URL)
			if err != nil {
				t.Fatalf("NewClient returned error: %v", err)
			}
			_, err = c.GetBook(context.Background(), 9)
			if err == nil {
				t.Fatalf("GetBook returned nil error, want status %d", tc.status)
			}
			if err.Error() != tc.want {
				t.Fatalf("error = %q, want %q", err.Error(), tc.want)
			}
			if StatusCode(err) != tc.status {
				t.Fatalf("StatusCode = %d, want %d", StatusCode(err), tc.status)
			}
		})
	}
}

func TestClient_RequiresIDAndData(t *testing.T) {
	c, err := NewClient("127.0.0.1:1")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	if _, err := c.GetBook(ctx, 0); !errors.Is(err, ErrIDRequired) {
		t.Fatalf("GetBook(0) error = %v, want ErrIDRequired", err)
	}
	if _, err := c.CreateBook(ctx, nil); !errors.Is(err, ErrDataRequired) {
		t.Fatalf("CreateBook(nil) error = %v, want ErrDataRequired", err)
	}
	if _, err := c.UpdateBook(ctx, 0, &BookRequest{}); !errors.Is(err, ErrIDRequired) {
		t.Fatalf("UpdateBook(0) error = %v, want ErrIDRequired", err)
	}
	if _, err := c.UpdateBook(ctx, 3, nil); !errors.Is(err, ErrDataRequired) {
		t.Fatalf("UpdateBook(nil) error = %v, want ErrDataRequired", err)
	}
	if err := c.DeleteBook(ctx, -1); !errors.Is(err, ErrIDRequired) {
		t.Fatalf("DeleteBook(-1) error = %v, want ErrIDRequired", err)
	}
}

func TestClient_NetworkErrorIsFriendly(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	c, err := NewClient(addr, WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.ListBooks(context.Background())
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("ListBooks error = %v (%T), want *NetworkError", err, err)
	}
	if err.Error() != "Check your network connection." {
		t.Fatalf("error = %q, want network message", err.Error())
	}
	if netErr.Unwrap() == nil {
		t.Fatalf("NetworkError should wrap the transport error")
	}
}

func TestClient_CancelledContextReturnedUnchanged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.ListBooks(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("ListBooks error = %v, want context.Canceled", err)
	}
}

func TestClient_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not-json"))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.ListBooks(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("ListBooks error = %v, want decode response error", err)
	}
}

func TestBook_ParsedPublishDate(t *testing.T) {
	b := Book{PublishDate: "2024-03-05"}
	got := b.ParsedPublishDate()
	if got.Year() != 2024 || got.Month() != time.March || got.Day() != 5 {
		t.Fatalf("ParsedPublishDate = %v, want 2024-03-05", got)
	}
	if !(Book{PublishDate: "soon"}).ParsedPublishDate().IsZero() {
		t.Fatalf("invalid date should parse to zero time")
	}
	if (Book{}).Publisher() != "" {
		t.Fatalf("Publisher without detail should be empty")
	}
}
