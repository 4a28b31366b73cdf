package store

import (
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"tour-booking/internal/apperrors"
	"tour-booking/internal/models"
)

// Collection holds records of one entity type keyed by id. Records go in
// and come out through clone, so callers never share slices with the stored
// copy. Every mutation happens under the collection lock so an Update
// callback observes and writes a consistent record.
type Collection[T any] struct {
	mu     sync.RWMutex
	kind   string
	prefix string
	meta   func(*T) *models.Entity
	clone  func(T) T
	now    func() time.Time
	items  map[string]T
	order  []string
}

func NewCollection[T any](kind, prefix string, meta func(*T) *models.Entity) *Collection[T] {
	return &Collection[T]{
		kind:   kind,
		prefix: prefix,
		meta:   meta,
		clone:  func(record T) T { return record },
		now:    time.Now,
		items:  make(map[string]T),
	}
}

// WithClone sets the deep copy used on every read and write. Types holding
// slices or maps need one.
func (c *Collection[T]) WithClone(clone func(T) T) *Collection[T] {
	c.clone = clone
	return c
}

// NewID returns a fresh identifier. Ids are random, so concurrent creates
// within the same clock tick never collide.
func (c *Collection[T]) NewID() string {
	return fmt.Sprintf("%s-%s", c.prefix, uuid.NewString())
}

// Create stores record and returns the stored copy. An empty id is filled
// with NewID; a preset id must not already exist.
func (c *Collection[T]) Create(record T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	record = c.clone(record)
	m := c.meta(&record)
	if m.ID == "" {
		m.ID = c.NewID()
	}
	if _, exists := c.items[m.ID]; exists {
		var zero T
		return zero, fmt.Errorf("%s %s already exists: %w", c.kind, m.ID, apperrors.ErrConflict)
	}

	now := c.now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	c.items[m.ID] = record
	c.order = append(c.order, m.ID)
	return c.clone(record), nil
}

func (c *Collection[T]) GetByID(id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	record, ok := c.items[id]
	if !ok {
		var zero T
		return zero, apperrors.NotFound(c.kind, id)
	}
	return c.clone(record), nil
}

// Update applies a partial change to the record with the given id. apply
// runs on a copy while the collection is locked; if it returns an error the
// stored record is left untouched. Identity and creation time cannot be
// changed by apply.
func (c *Collection[T]) Update(id string, apply func(*T) error) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	current, ok := c.items[id]
	if !ok {
		return zero, apperrors.NotFound(c.kind, id)
	}

	next := c.clone(current)
	if err := apply(&next); err != nil {
		return zero, err
	}

	prev := c.meta(&current)
	m := c.meta(&next)
	m.ID = prev.ID
	m.CreatedAt = prev.CreatedAt
	m.UpdatedAt = c.now().UTC()

	c.items[id] = c.clone(next)
	return next, nil
}

// Delete removes the record and reports whether anything was removed.
// Dependents referencing the id are not touched.
func (c *Collection[T]) Delete(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	c.order = slices.DeleteFunc(c.order, func(existing string) bool { return existing == id })
	return true
}

// Query yields the records matching match (all records when match is nil)
// in creation order. Each iteration takes a fresh snapshot, so the sequence
// can be ranged over repeatedly and callers may use the collection while
// iterating.
func (c *Collection[T]) Query(match func(T) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, record := range c.snapshot() {
			if match != nil && !match(record) {
				continue
			}
			if !yield(record) {
				return
			}
		}
	}
}

func (c *Collection[T]) List() []T {
	return c.snapshot()
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Collection[T]) snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	records := make([]T, 0, len(c.order))
	for _, id := range c.order {
		records = append(records, c.clone(c.items[id]))
	}
	return records
}
