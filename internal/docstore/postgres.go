package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-backend/internal/domain"
)

// Postgres keeps documents in a single jsonb-backed table created by the
// migrations (see internal/migrate).
type Postgres struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// ConnectPostgres opens a pgx pool, verifies connectivity with a ping, and
// wraps it as a Store.
func ConnectPostgres(ctx context.Context, dsn string, logger *log.Logger) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	return NewPostgres(pool, logger), nil
}

// NewPostgres wraps an existing pool.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) *Postgres {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Postgres{pool: pool, logger: logger}
}

// Pool exposes the underlying pool for migrations and readiness checks.
func (p *Postgres) Pool() *pgxpool.Pool { return p.pool }

func (p *Postgres) Collection(name string) Collection {
	return &postgresCollection{store: p, name: name}
}

func (p *Postgres) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (p *Postgres) Close() { p.pool.Close() }

type postgresCollection struct {
	store *Postgres
	name  string
}

func (c *postgresCollection) Get(ctx context.Context, id string) (Document, error) {
	const q = `
SELECT doc
FROM documents
WHERE collection = $1 AND id = $2
`
	var data map[string]interface{}
	err := c.store.pool.QueryRow(ctx, q, c.name, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, domain.ErrNotFound
		}
		c.store.logger.Printf("docstore: get %s/%s error=%v", c.name, id, err)
		return Document{}, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return Document{ID: id, Data: data}, nil
}

func (c *postgresCollection) Add(ctx context.Context, fields map[string]interface{}) (string, error) {
	const q = `
INSERT INTO documents (collection, id, doc)
VALUES ($1, $2, $3)
`
	id := uuid.NewString()
	if _, err := c.store.pool.Exec(ctx, q, c.name, id, fields); err != nil {
		c.store.logger.Printf("docstore: add %s error=%v", c.name, err)
		return "", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return id, nil
}

func (c *postgresCollection) Set(ctx context.Context, id string, fields map[string]interface{}, merge bool) error {
	const replaceQ = `
INSERT INTO documents (collection, id, doc)
VALUES ($1, $2, $3)
ON CONFLICT (collection, id) DO UPDATE SET doc = EXCLUDED.doc
`
	const mergeQ = `
INSERT INTO documents (collection, id, doc)
VALUES ($1, $2, $3)
ON CONFLICT (collection, id) DO UPDATE SET doc = documents.doc || EXCLUDED.doc
`
	q := replaceQ
	if merge {
		q = mergeQ
	}
	if _, err := c.store.pool.Exec(ctx, q, c.name, id, fields); err != nil {
		c.store.logger.Printf("docstore: set %s/%s error=%v", c.name, id, err)
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (c *postgresCollection) Delete(ctx context.Context, id string) (int64, error) {
	const q = `
DELETE FROM documents
WHERE collection = $1 AND id = $2
`
	tag, err := c.store.pool.Exec(ctx, q, c.name, id)
	if err != nil {
		c.store.logger.Printf("docstore: delete %s/%s error=%v", c.name, id, err)
		return 0, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return tag.RowsAffected(), nil
}

func (c *postgresCollection) Where(ctx context.Context, field string, value interface{}, limit int) ([]Document, error) {
	const q = `
SELECT id::text, doc
FROM documents
WHERE collection = $1 AND doc->$2 = $3::jsonb
ORDER BY created_at
`
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode query value: %w", err)
	}
	query := q
	if limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", q, limit)
	}
	rows, err := c.store.pool.Query(ctx, query, c.name, field, string(encoded))
	if err != nil {
		c.store.logger.Printf("docstore: where %s.%s error=%v", c.name, field, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func (c *postgresCollection) All(ctx context.Context) ([]Document, error) {
	const q = `
SELECT id::text, doc
FROM documents
WHERE collection = $1
ORDER BY created_at
`
	rows, err := c.store.pool.Query(ctx, q, c.name)
	if err != nil {
		c.store.logger.Printf("docstore: scan %s error=%v", c.name, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func scanDocuments(rows pgx.Rows) ([]Document, error) {
	var result []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Data); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
		}
		result = append(result, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return result, nil
}
