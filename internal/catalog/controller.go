package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/five82/bookshelf/internal/books"
	"github.com/five82/bookshelf/internal/state"
	"github.com/five82/bookshelf/internal/validate"
)

// Level classifies an Outcome for display.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// User-facing messages.
const (
	MsgCreated   = "Book registered successfully!"
	MsgUpdated   = "Book updated successfully!"
	MsgDeleted   = "Book deleted successfully!"
	MsgCancelled = "Request cancelled."
	MsgTimeout   = "Request timed out."
	MsgLoadError = "Error: could not load data."
	MsgEmpty     = "No books registered."
)

// Submit button labels.
const (
	LabelCreate   = "Register book"
	LabelUpdate   = "Update book"
	LabelCreating = "Registering..."
	LabelUpdating = "Updating..."
)

// Outcome reports the result of a user action.
type Outcome struct {
	Level     Level
	Field     string // failing form field, empty unless validation failed
	Message   string
	ResetForm bool
}

// Failed reports whether the outcome is an error.
func (o Outcome) Failed() bool { return o.Level == LevelError }

// Controller coordinates the form, validator, API client and store. Its only
// mutable state is the id of the book being edited; zero means create mode.
type Controller struct {
	api    books.BookAPI
	store  *state.Store
	logger *zap.Logger

	mu        sync.Mutex
	editingID int64
}

// NewController wires a controller. A nil store or logger is replaced with an
// empty store or a no-op logger.
func NewController(api books.BookAPI, store *state.Store, logger *zap.Logger) *Controller {
	if store == nil {
		store = &state.Store{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{api: api, store: store, logger: logger}
}

// Store returns the snapshot store the controller writes to.
func (c *Controller) Store() *state.Store { return c.store }

// Editing returns the id of the book being edited, or zero.
func (c *Controller) Editing() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editingID
}

// Cancel leaves edit mode.
func (c *Controller) Cancel() {
	c.mu.Lock()
	c.editingID = 0
	c.mu.Unlock()
}

// SubmitLabel returns the text for the submit button.
func (c *Controller) SubmitLabel(busy bool) string {
	editing := c.Editing() != 0
	switch {
	case editing && busy:
		return LabelUpdating
	case editing:
		return LabelUpdate
	case busy:
		return LabelCreating
	default:
		return LabelCreate
	}
}

// DeletePrompt returns the confirmation question for deleting a book.
func DeletePrompt(title string) string {
	return fmt.Sprintf("Delete the book %q?", strings.TrimSpace(title))
}

// Submit validates the form and creates or updates the book depending on the
// edit mode. Nothing is sent when validation fails.
func (c *Controller) Submit(ctx context.Context, form Form) Outcome {
	form = form.Trimmed()
	if res := validate.Book(form.Fields()); !res.Valid {
		return Outcome{Level: LevelError, Field: res.Field, Message: res.Message}
	}
	req, err := form.Request()
	if err != nil {
		return Outcome{Level: LevelError, Field: validate.FieldPrice, Message: validate.MsgPriceFormat}
	}

	id := c.Editing()
	if id == 0 {
		created, err := c.api.CreateBook(ctx, req)
		if err != nil {
			c.logger.Warn("create book failed", zap.Error(err))
			return errorOutcome(err)
		}
		if created != nil {
			c.logger.Info("book created", zap.Int64("id", created.ID), zap.String("title", created.Title))
		}
		c.reloadQuietly(ctx)
		return Outcome{Level: LevelSuccess, Message: MsgCreated, ResetForm: true}
	}

	if _, err := c.api.UpdateBook(ctx, id, req); err != nil {
		c.logger.Warn("update book failed", zap.Int64("id", id), zap.Error(err))
		return errorOutcome(err)
	}
	c.logger.Info("book updated", zap.Int64("id", id))
	c.mu.Lock()
	if c.editingID == id {
		c.editingID = 0
	}
	c.mu.Unlock()
	c.reloadQuietly(ctx)
	return Outcome{Level: LevelSuccess, Message: MsgUpdated, ResetForm: true}
}

// BeginEdit fetches the book and enters edit mode. On failure the current
// mode is left untouched.
func (c *Controller) BeginEdit(ctx context.Context, id int64) (Form, error) {
	book, err := c.api.GetBook(ctx, id)
	if err != nil {
		c.logger.Warn("load book for edit failed", zap.Int64("id", id), zap.Error(err))
		return Form{}, err
	}
	c.mu.Lock()
	c.editingID = id
	c.mu.Unlock()
	return FormFromBook(*book), nil
}

// Delete removes the book and reloads the list. Deleting the book being
// edited also leaves edit mode.
func (c *Controller) Delete(ctx context.Context, id int64) Outcome {
	if err := c.api.DeleteBook(ctx, id); err != nil {
		c.logger.Warn("delete book failed", zap.Int64("id", id), zap.Error(err))
		return errorOutcome(err)
	}
	c.logger.Info("book deleted", zap.Int64("id", id))

	reset := false
	c.mu.Lock()
	if c.editingID == id {
		c.editingID = 0
		reset = true
	}
	c.mu.Unlock()

	c.reloadQuietly(ctx)
	return Outcome{Level: LevelSuccess, Message: MsgDeleted, ResetForm: reset}
}

// Reload fetches the list into the store. On failure the previous rows are
// kept and the error is recorded on the store.
func (c *Controller) Reload(ctx context.Context) error {
	list, err := c.api.ListBooks(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		c.store.Update(nil, err)
		c.logger.Warn("list books failed", zap.Error(err))
		return err
	}
	c.store.Update(list, nil)
	c.logger.Debug("books loaded", zap.Int("count", len(list)))
	return nil
}

func (c *Controller) reloadQuietly(ctx context.Context) {
	_ = c.Reload(ctx)
}

// Message returns the user-facing text for an error returned by the API client.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return MsgTimeout
	}
	if errors.Is(err, context.Canceled) {
		return MsgCancelled
	}
	var apiErr *books.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	var netErr *books.NetworkError
	if errors.As(err, &netErr) {
		return netErr.Error()
	}
	return err.Error()
}

func errorOutcome(err error) Outcome {
	return Outcome{Level: LevelError, Message: Message(err)}
}
