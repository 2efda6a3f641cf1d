// Package docstore provides a minimal document-store client: named
// collections of schemaless documents supporting get/add/set/delete and
// field-equality queries. Backends exist for Postgres (documents kept as
// jsonb), MongoDB, and an in-process map used as a test double.
package docstore

import "context"

// Document is one stored record: an opaque id plus its fields.
type Document struct {
	ID   string
	Data map[string]interface{}
}

// Store is a handle to a document database.
type Store interface {
	// Collection returns a handle to the named collection. Collections
	// spring into existence on first write.
	Collection(name string) Collection
	// Ping verifies connectivity.
	Ping(ctx context.Context) error
	// Close releases the underlying client.
	Close()
}

// Collection addresses documents within one collection.
type Collection interface {
	// Get fetches a document by id, domain.ErrNotFound when absent.
	Get(ctx context.Context, id string) (Document, error)
	// Add stores fields under a newly generated id and returns the id.
	Add(ctx context.Context, fields map[string]interface{}) (string, error)
	// Set writes fields under id. With merge, existing fields not present
	// in the input are preserved; otherwise the document is replaced.
	Set(ctx context.Context, id string, fields map[string]interface{}, merge bool) error
	// Delete removes the document by id and reports how many documents
	// were removed (0 or 1). A missing document is not an error.
	Delete(ctx context.Context, id string) (int64, error)
	// Where returns documents whose field equals value, up to limit
	// (limit <= 0 means no limit). Result order is the backend's default
	// scan order and is not guaranteed stable across calls.
	Where(ctx context.Context, field string, value interface{}, limit int) ([]Document, error)
	// All returns every document in the collection.
	All(ctx context.Context) ([]Document, error)
}
