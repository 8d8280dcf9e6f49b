package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"univote/pkg/platform/sentinel"
)

// Postgres stores each document as a JSONB row keyed by its primary key.
// A bigserial sequence preserves insertion order for List.
type Postgres struct {
	db    *sql.DB
	table string
}

// NewPostgres constructs a PostgreSQL-backed collection over the given table.
// The table name must come from the fixed collection constants, never from
// request input.
func NewPostgres(db *sql.DB, table string) *Postgres {
	return &Postgres{db: db, table: table}
}

// EnsureSchema creates the collection table when it does not exist yet.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id  TEXT PRIMARY KEY,
			doc JSONB NOT NULL,
			seq BIGSERIAL
		)`, p.table))
	if err != nil {
		return fmt.Errorf("ensure schema for %s: %w", p.table, err)
	}
	return nil
}

func (p *Postgres) List(ctx context.Context) ([][]byte, error) {
	rows, err := p.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT doc FROM %s ORDER BY seq`, p.table))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", p.table, err)
	}
	defer rows.Close()

	var docs [][]byte
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan %s: %w", p.table, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", p.table, err)
	}
	return docs, nil
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	var doc []byte
	err := p.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, p.table), key).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", p.table, key, err)
	}
	return doc, nil
}

func (p *Postgres) Put(ctx context.Context, key string, doc []byte) error {
	_, err := p.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, doc) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`, p.table), key, doc)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", p.table, key, err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	res, err := p.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, p.table), key)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", p.table, key, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", p.table, key, err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
