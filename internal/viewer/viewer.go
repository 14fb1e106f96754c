// Package viewer fetches a single record for the detail view
package viewer

import (
	"context"
	"sync"

	"admin-dashboard/internal/api"

	"go.uber.org/zap"
)

// Getter is the read side of the REST client
type Getter interface {
	Get(ctx context.Context, path string, out any) error
}

// Viewer loads one record by id. Failures are logged and returned as is.
type Viewer[T any] struct {
	client   Getter
	template string
	logger   *zap.Logger

	mu      sync.Mutex
	loading bool
	record  *T
}

// New builds a viewer over the Get template of endpoints
func New[T any](c Getter, endpoints api.Endpoints, logger *zap.Logger) *Viewer[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Viewer[T]{client: c, template: endpoints.Get, logger: logger, loading: true}
}

// LoadOne fetches the record with id
func (v *Viewer[T]) LoadOne(ctx context.Context, id string) (*T, error) {
	v.mu.Lock()
	v.loading = true
	v.mu.Unlock()

	path := api.Expand(v.template, id)

	var record T
	err := v.client.Get(ctx, path, &record)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false

	if err != nil {
		v.logger.Error("Failed to load record", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	v.record = &record
	return &record, nil
}

// Loading is true until the first LoadOne resolves
func (v *Viewer[T]) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Record is the last record loaded, or nil
func (v *Viewer[T]) Record() *T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.record
}
