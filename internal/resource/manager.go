// Package resource keeps a local copy of one REST collection in sync with
// the server: load, save, remove, search and paginate.
package resource

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"admin-dashboard/internal/api"
	"admin-dashboard/internal/client"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var (
	// ErrRemoveCancelled is returned when the user declines a delete
	ErrRemoveCancelled = errors.New("remove cancelled")

	// ErrMissingID is returned when the server answers a save with a
	// record that has no identifier
	ErrMissingID = errors.New("server returned a record without an id")
)

// Record is one item of a managed collection
type Record interface {
	RecordID() string
	SearchText() []string
}

// Requester is the REST surface the manager needs; *client.Client
// implements it
type Requester interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// Confirmer asks the user to approve a destructive action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm approves every prompt
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeError
)

func (k NoticeKind) String() string {
	if k == NoticeError {
		return "error"
	}
	return "success"
}

// Notice is a transient message for the user
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Notifier shows notices to the user
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(n Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// ValidationError lists the fields that failed the schema; nothing was sent
type ValidationError struct {
	Fields []api.ValidationError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Schema describes one managed resource
type Schema[T Record] struct {
	// Name is the singular display name, e.g. "product"
	Name      string
	Endpoints api.Endpoints
	Client    Requester
	Confirmer Confirmer
	Notifier  Notifier
	PageSize  int
	Logger    *zap.Logger
}

// Manager owns the local copy of one collection. Its lock is never held
// across a network call.
type Manager[T Record] struct {
	schema   Schema[T]
	validate *validator.Validate

	mu      sync.Mutex
	items   []T
	term    string
	page    int
	loading bool
}

// NewManager builds a manager. Missing collaborators get defaults: every
// delete is confirmed, notices are dropped and the page size is
// DefaultPageSize.
func NewManager[T Record](schema Schema[T]) *Manager[T] {
	if schema.Confirmer == nil {
		schema.Confirmer = AlwaysConfirm
	}
	if schema.Notifier == nil {
		schema.Notifier = NotifierFunc(func(Notice) {})
	}
	if schema.PageSize <= 0 {
		schema.PageSize = DefaultPageSize
	}
	if schema.Logger == nil {
		schema.Logger = zap.NewNop()
	}

	return &Manager[T]{
		schema:   schema,
		validate: api.NewValidator(),
		page:     1,
	}
}

func (m *Manager[T]) Name() string { return m.schema.Name }

// Load fetches the whole collection and replaces local state. On failure
// the previous state is kept.
func (m *Manager[T]) Load(ctx context.Context) error {
	m.setLoading(true)
	defer m.setLoading(false)

	var items []T
	if err := m.schema.Client.Get(ctx, m.schema.Endpoints.List, &items); err != nil {
		m.fail("Failed to load "+m.schema.Name+"s", err)
		return err
	}

	m.mu.Lock()
	m.items = items
	m.mu.Unlock()

	m.schema.Logger.Debug("collection loaded",
		zap.String("resource", m.schema.Name),
		zap.Int("count", len(items)),
	)
	return nil
}

// Save creates rec when it has no identifier and updates it otherwise. The
// stored record from the response is merged into local state and returned.
func (m *Manager[T]) Save(ctx context.Context, rec T) (T, error) {
	var zero T

	if err := m.validate.Struct(rec); err != nil {
		fields := api.FormatValidationErrors(err)
		if len(fields) == 0 {
			return zero, fmt.Errorf("validate %s: %w", m.schema.Name, err)
		}
		verr := &ValidationError{Fields: fields}
		m.fail("Invalid "+m.schema.Name, verr)
		return zero, verr
	}

	saved, err := m.send(ctx, rec)
	if err != nil {
		m.fail("Failed to save "+m.schema.Name, err)
		return zero, err
	}

	if saved.RecordID() == "" {
		m.fail("Failed to save "+m.schema.Name, ErrMissingID)
		return zero, ErrMissingID
	}

	m.merge(saved)
	m.schema.Notifier.Notify(Notice{Kind: NoticeSuccess, Message: capitalize(m.schema.Name) + " saved"})
	return saved, nil
}

func (m *Manager[T]) send(ctx context.Context, rec T) (T, error) {
	var saved T
	endpoints := m.schema.Endpoints

	id := rec.RecordID()
	if id == "" {
		err := m.schema.Client.Post(ctx, endpoints.Create, rec, &saved)
		return saved, err
	}

	path := api.Expand(endpoints.Update, id)
	if endpoints.UpdateEnveloped {
		var envelope api.DataResponse[T]
		err := m.schema.Client.Put(ctx, path, rec, &envelope)
		return envelope.Data, err
	}

	err := m.schema.Client.Put(ctx, path, rec, &saved)
	return saved, err
}

// merge replaces the record with the same identifier or appends it
func (m *Manager[T]) merge(saved T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := saved.RecordID()
	for i, item := range m.items {
		if item.RecordID() == id {
			m.items[i] = saved
			return
		}
	}
	m.items = append(m.items, saved)
}

// Remove deletes the record after the Confirmer approves
func (m *Manager[T]) Remove(ctx context.Context, id string) error {
	ok, err := m.schema.Confirmer.Confirm(ctx, fmt.Sprintf("Delete %s %s?", m.schema.Name, id))
	if err != nil {
		return fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		return ErrRemoveCancelled
	}

	if err := m.schema.Client.Delete(ctx, api.Expand(m.schema.Endpoints.Delete, id), nil); err != nil {
		m.fail("Failed to delete "+m.schema.Name, err)
		return err
	}

	m.mu.Lock()
	m.items = slices.DeleteFunc(m.items, func(item T) bool { return item.RecordID() == id })
	m.clampPage()
	m.mu.Unlock()

	m.schema.Notifier.Notify(Notice{Kind: NoticeSuccess, Message: capitalize(m.schema.Name) + " deleted"})
	return nil
}

// Search sets the filter term and goes back to page 1
func (m *Manager[T]) Search(term string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.term = term
	m.page = 1
}

// Paginate moves to page and returns it
func (m *Manager[T]) Paginate(page int) (Page[T], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := PageOf(Filter(m.items, m.term), page, m.schema.PageSize)
	if err != nil {
		return p, err
	}
	m.page = page
	return p, nil
}

// Current returns the page the manager is on. When the collection shrank
// below it, that is the last page that still exists.
func (m *Manager[T]) Current() (Page[T], error) {
	m.mu.Lock()
	m.clampPage()
	page := m.page
	m.mu.Unlock()

	return m.Paginate(page)
}

// clampPage keeps page within [1, pages]; the caller holds mu
func (m *Manager[T]) clampPage() {
	pages := PageCount(len(Filter(m.items, m.term)), m.schema.PageSize)
	m.page = max(1, min(m.page, pages))
}

// Items returns a copy of the loaded collection
func (m *Manager[T]) Items() []T {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.items)
}

// Find returns the loaded record with id
func (m *Manager[T]) Find(id string) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, item := range m.items {
		if item.RecordID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (m *Manager[T]) Term() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.term
}

func (m *Manager[T]) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

func (m *Manager[T]) setLoading(loading bool) {
	m.mu.Lock()
	m.loading = loading
	m.mu.Unlock()
}

// fail notifies the user. Server messages win over the generic prefix.
func (m *Manager[T]) fail(prefix string, err error) {
	message := prefix
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		message = prefix + ": " + strings.TrimPrefix(verr.Error(), "validation failed: ")
	case errors.Is(err, client.ErrTransport):
		message = prefix + ": server unreachable"
	default:
		if detail := client.MessageOf(err, ""); detail != "" {
			message = prefix + ": " + detail
		}
	}

	m.schema.Logger.Debug("resource operation failed",
		zap.String("resource", m.schema.Name),
		zap.Error(err),
	)
	m.schema.Notifier.Notify(Notice{Kind: NoticeError, Message: message})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
