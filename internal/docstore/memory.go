package docstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"storefront-backend/internal/domain"
)

// Memory is an in-process Store. It backs tests and local runs without a
// database; it is not durable.
type Memory struct {
	mu          sync.Mutex
	collections map[string]map[string]map[string]interface{}
	seq         map[string]map[string]int
	nextSeq     int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string]map[string]interface{}),
		seq:         make(map[string]map[string]int),
	}
}

func (m *Memory) Collection(name string) Collection {
	return &memoryCollection{store: m, name: name}
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() {}

type memoryCollection struct {
	store *Memory
	name  string
}

func (c *memoryCollection) docs() map[string]map[string]interface{} {
	docs, ok := c.store.collections[c.name]
	if !ok {
		docs = make(map[string]map[string]interface{})
		c.store.collections[c.name] = docs
		c.store.seq[c.name] = make(map[string]int)
	}
	return docs
}

func (c *memoryCollection) Get(_ context.Context, id string) (Document, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	data, ok := c.docs()[id]
	if !ok {
		return Document{}, domain.ErrNotFound
	}
	return Document{ID: id, Data: cloneMap(data)}, nil
}

func (c *memoryCollection) Add(_ context.Context, fields map[string]interface{}) (string, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	id := uuid.NewString()
	c.docs()[id] = cloneMap(fields)
	c.store.nextSeq++
	c.store.seq[c.name][id] = c.store.nextSeq
	return id, nil
}

func (c *memoryCollection) Set(_ context.Context, id string, fields map[string]interface{}, merge bool) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	docs := c.docs()
	existing, ok := docs[id]
	if merge && ok {
		for k, v := range fields {
			existing[k] = cloneValue(v)
		}
		return nil
	}
	docs[id] = cloneMap(fields)
	if !ok {
		c.store.nextSeq++
		c.store.seq[c.name][id] = c.store.nextSeq
	}
	return nil
}

func (c *memoryCollection) Delete(_ context.Context, id string) (int64, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	docs := c.docs()
	if _, ok := docs[id]; !ok {
		return 0, nil
	}
	delete(docs, id)
	delete(c.store.seq[c.name], id)
	return 1, nil
}

func (c *memoryCollection) Where(_ context.Context, field string, value interface{}, limit int) ([]Document, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	var result []Document
	for _, id := range c.sortedIDs() {
		if c.docs()[id][field] == value {
			result = append(result, Document{ID: id, Data: cloneMap(c.docs()[id])})
			if limit > 0 && len(result) == limit {
				break
			}
		}
	}
	return result, nil
}

func (c *memoryCollection) All(_ context.Context) ([]Document, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	var result []Document
	for _, id := range c.sortedIDs() {
		result = append(result, Document{ID: id, Data: cloneMap(c.docs()[id])})
	}
	return result, nil
}

// sortedIDs orders by insertion so scans behave like the real backends'
// natural order. Callers must hold the store lock.
func (c *memoryCollection) sortedIDs() []string {
	docs := c.docs()
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	seq := c.store.seq[c.name]
	sort.Slice(ids, func(i, j int) bool { return seq[ids[i]] < seq[ids[j]] })
	return ids
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return cloneMap(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
