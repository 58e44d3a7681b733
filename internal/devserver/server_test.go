package devserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/bookshelf/internal/books"
	"github.com/five82/bookshelf/internal/catalog"
)

func newTestClient(t *testing.T, opts ...Option) *books.Client {
	t.Helper()
	srv := httptest.NewServer(New(opts...).Router())
	t.Cleanup(srv.Close)

	client, err := books.NewClient(srv.URL)
	require.NoError(t, err)
	return client
}

func sampleRequest(isbn string) *books.BookRequest {
	date := "2020-02-02"
	return &books.BookRequest{
		Title:         "Sample",
		Author:        "Writer",
		ISBN:          isbn,
		Price:         12000,
		PublishDate:   &date,
		DetailRequest: books.DetailRequest{Publisher: "Press"},
	}
}

func TestCRUDRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	list, err := client.ListBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	created, err := client.CreateBook(ctx, sampleRequest("1234567890"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Press", created.Publisher())
	assert.Equal(t, "2020-02-02", created.PublishDate)

	got, err := client.GetBook(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	upd := sampleRequest("1234567890")
	upd.Title = "Sample, Revised"
	upd.PublishDate = nil
	updated, err := client.UpdateBook(ctx, created.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, "Sample, Revised", updated.Title)
	assert.Empty(t, updated.PublishDate)

	require.NoError(t, client.DeleteBook(ctx, created.ID))

	_, err = client.GetBook(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, books.IsNotFound(err))
	assert.Equal(t, "Not found: book not found", err.Error())
}

func TestCreate_ValidationError(t *testing.T) {
	client := newTestClient(t)

	req := sampleRequest("12345")
	_, err := client.CreateBook(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, books.StatusCode(err))
	assert.Equal(t, "Invalid input: ISBN must be 10 or 13 digits.", err.Error())
}

func TestCreate_NegativePriceRejected(t *testing.T) {
	client := newTestClient(t)

	req := sampleRequest("1234567890")
	req.Price = -5
	_, err := client.CreateBook(context.Background(), req)
	assert.Equal(t, http.StatusBadRequest, books.StatusCode(err))
}

func TestCreate_DuplicateISBN(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	_, err := client.CreateBook(ctx, sampleRequest("1234567890"))
	require.NoError(t, err)

	_, err = client.CreateBook(ctx, sampleRequest("1234567890"))
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, books.StatusCode(err))
	assert.True(t, strings.HasPrefix(err.Error(), "Duplicate: "))
}

func TestUpdate_DuplicateISBNOfOtherBook(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	_, err := client.CreateBook(ctx, sampleRequest("1111111111"))
	require.NoError(t, err)
	second, err := client.CreateBook(ctx, sampleRequest("2222222222"))
	require.NoError(t, err)

	_, err = client.UpdateBook(ctx, second.ID, sampleRequest("1111111111"))
	assert.Equal(t, http.StatusConflict, books.StatusCode(err))

	_, err = client.UpdateBook(ctx, second.ID, sampleRequest("2222222222"))
	assert.NoError(t, err)
}

func TestUnknownIDs(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	_, err := client.UpdateBook(ctx, 99, sampleRequest("1234567890"))
	assert.Equal(t, http.StatusNotFound, books.StatusCode(err))

	err = client.DeleteBook(ctx, 99)
	assert.Equal(t, http.StatusNotFound, books.StatusCode(err))
}

func TestRawErrors(t *testing.T) {
	srv := httptest.NewServer(New().Router())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/books/abc")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/books", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSeededServerAndController(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, WithBooks(SampleBooks()...))
	ctrl := catalog.NewController(client, nil, nil)

	require.NoError(t, ctrl.Reload(ctx))
	snap := ctrl.Store().Snapshot()
	require.Len(t, snap.Books, len(SampleBooks()))

	form, err := ctrl.BeginEdit(ctx, snap.Books[0].ID)
	require.NoError(t, err)
	form.Price = "40000"
	out := ctrl.Submit(ctx, form)
	require.False(t, out.Failed(), out.Message)

	got, err := client.GetBook(ctx, snap.Books[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40000), got.Price)

	out = ctrl.Submit(ctx, catalog.Form{
		Title:  "Dup",
		Author: "Someone",
		ISBN:   SampleBooks()[1].ISBN,
		Price:  "1",
	})
	assert.True(t, out.Failed())
	assert.True(t, strings.HasPrefix(out.Message, "Duplicate: "))
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New().ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()
	assert.NoError(t, <-done)
}
