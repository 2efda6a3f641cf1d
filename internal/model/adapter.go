// Package model implements the per-entity adapters: a uniform
// create/read/update/delete surface over a schemaless document collection,
// independent of which physical store is behind it.
package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-backend/internal/docstore"
	"storefront-backend/internal/domain"
)

// UpdateOptions tunes Update. The zero value returns the updated entity.
type UpdateOptions struct {
	// SkipReturn suppresses re-decoding the written document.
	SkipReturn bool
}

// Adapter exposes the uniform query/update contract for one entity type,
// parameterized by collection name, queryable-field set, and codec.
type Adapter[T any] struct {
	store      docstore.Store
	collection string
	queryable  map[string]bool
	uniqueBy   string
	encode     func(*T) map[string]interface{}
	decode     func(docstore.Document) *T
	entityID   func(*T) string
	setID      func(*T, string)
	prepare    func(*T, time.Time) error

	now func() time.Time
}

func (a *Adapter[T]) coll() docstore.Collection {
	return a.store.Collection(a.collection)
}

// Create validates the entity, enforces uniqueness by query-before-write,
// assigns a fresh id, and persists. The uniqueness check races with
// concurrent writers targeting the same key; the store holds no
// constraint of its own.
func (a *Adapter[T]) Create(ctx context.Context, entity *T) (*T, error) {
	now := a.now()
	if err := a.prepare(entity, now); err != nil {
		return nil, err
	}

	fields := a.encode(entity)
	if a.uniqueBy != "" {
		existing, err := a.coll().Where(ctx, a.uniqueBy, fields[a.uniqueBy], 1)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			return nil, fmt.Errorf("%s %q %w", a.uniqueBy, fields[a.uniqueBy], domain.ErrAlreadyExists)
		}
	}

	id, err := a.coll().Add(ctx, fields)
	if err != nil {
		return nil, err
	}
	a.setID(entity, id)
	return entity, nil
}

// FindOne returns the first match or (nil, nil) when nothing matches.
func (a *Adapter[T]) FindOne(ctx context.Context, f Filter) (*T, error) {
	doc, err := a.findDoc(ctx, f)
	if err != nil || doc == nil {
		return nil, err
	}
	return a.decode(*doc), nil
}

// Find returns all matches; an empty filter scans the whole collection.
// Result order is the backing store's default and is not guaranteed
// stable across calls.
func (a *Adapter[T]) Find(ctx context.Context, f Filter) ([]T, error) {
	var docs []docstore.Document
	var err error
	switch {
	case f.scan:
		docs, err = a.coll().All(ctx)
	case f.id != "":
		doc, getErr := a.coll().Get(ctx, f.id)
		if getErr != nil {
			if errors.Is(getErr, domain.ErrNotFound) {
				return nil, nil
			}
			return nil, getErr
		}
		docs = []docstore.Document{doc}
	case f.field != "":
		if !a.queryable[f.field] {
			return nil, fmt.Errorf("%w: field %q", domain.ErrUnsupportedQuery, f.field)
		}
		docs, err = a.coll().Where(ctx, f.field, f.value, 0)
	default:
		return nil, domain.ErrUnsupportedQuery
	}
	if err != nil {
		return nil, err
	}

	result := make([]T, 0, len(docs))
	for _, doc := range docs {
		result = append(result, *a.decode(doc))
	}
	return result, nil
}

// Update reads the full matching document, applies the command in memory,
// and writes the whole document back. There is no partial-field atomic
// update and no concurrency token: two concurrent updates to the same
// entity can silently lose one writer's change.
func (a *Adapter[T]) Update(ctx context.Context, f Filter, u Update, opts UpdateOptions) (*T, error) {
	doc, err := a.findDoc(ctx, f)
	if err != nil || doc == nil {
		return nil, err
	}

	u.apply(doc.Data)
	doc.Data["updatedAt"] = a.now().UTC()

	if err := a.coll().Set(ctx, doc.ID, doc.Data, false); err != nil {
		return nil, err
	}
	if opts.SkipReturn {
		return nil, nil
	}
	return a.decode(*doc), nil
}

// Delete removes the matching document by id only and returns how many
// documents were removed. A zero count is not an error.
func (a *Adapter[T]) Delete(ctx context.Context, f Filter) (int64, error) {
	if f.id == "" {
		return 0, fmt.Errorf("%w: delete requires an id filter", domain.ErrUnsupportedQuery)
	}
	return a.coll().Delete(ctx, f.id)
}

// Save is create-or-replace: with an id it merge-writes, preserving
// stored fields the entity does not carry; without one it creates.
func (a *Adapter[T]) Save(ctx context.Context, entity *T) (*T, error) {
	id := a.entityID(entity)
	if id == "" {
		return a.Create(ctx, entity)
	}
	if err := a.prepare(entity, a.now()); err != nil {
		return nil, err
	}
	if err := a.coll().Set(ctx, id, a.encode(entity), true); err != nil {
		return nil, err
	}
	return entity, nil
}

func (a *Adapter[T]) findDoc(ctx context.Context, f Filter) (*docstore.Document, error) {
	switch {
	case f.id != "":
		doc, err := a.coll().Get(ctx, f.id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return &doc, nil
	case f.field != "":
		if !a.queryable[f.field] {
			return nil, fmt.Errorf("%w: field %q", domain.ErrUnsupportedQuery, f.field)
		}
		docs, err := a.coll().Where(ctx, f.field, f.value, 1)
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, nil
		}
		return &docs[0], nil
	default:
		return nil, domain.ErrUnsupportedQuery
	}
}
