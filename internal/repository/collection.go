package repository

import (
	"context"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/spec-kit/feedback-portal/internal/persistence"
	apperrors "github.com/spec-kit/feedback-portal/pkg/util/errorutil"
)

// Collection is an ordered list of records persisted as a single document.
// Reads share the lock; Update holds it exclusively for the whole
// read-modify-write so concurrent writers cannot lose each other's changes.
type Collection[T any] struct {
	name  string
	store persistence.DocumentStore
	mu    sync.RWMutex
}

// NewCollection binds a collection name to a document store.
func NewCollection[T any](name string, store persistence.DocumentStore) *Collection[T] {
	return &Collection[T]{name: name, store: store}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

// LoadAll returns every record in insertion order.
func (c *Collection[T]) LoadAll(ctx context.Context) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.load(ctx)
}

// ReplaceAll overwrites the collection with items.
func (c *Collection[T]) ReplaceAll(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx, items)
}

// View runs fn on a snapshot while holding the read lock, keeping writers out
// until fn returns.
func (c *Collection[T]) View(ctx context.Context, fn func([]T) error) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items, err := c.load(ctx)
	if err != nil {
		return err
	}
	return fn(items)
}

// Update loads the collection, lets fn produce the replacement and saves it,
// all under the write lock. Nothing is written when fn fails.
func (c *Collection[T]) Update(ctx context.Context, fn func([]T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, err := c.load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(items)
	if err != nil {
		return err
	}
	return c.save(ctx, next)
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	data, err := c.store.Load(ctx, c.name)
	if err != nil {
		return nil, apperrors.NewStorageFault(fmt.Errorf("load %s: %w", c.name, err))
	}
	items := []T{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, apperrors.NewStorageFault(fmt.Errorf("decode %s: %w", c.name, err))
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *Collection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return apperrors.NewStorageFault(fmt.Errorf("encode %s: %w", c.name, err))
	}
	if err := c.store.Save(ctx, c.name, data); err != nil {
		return apperrors.NewStorageFault(fmt.Errorf("save %s: %w", c.name, err))
	}
	return nil
}
