package store

import (
	"context"
	"encoding/json"
	"fmt"

	"univote/internal/election/models"
	"univote/internal/storage"
)

// Documents adapts any storage.Collection into the typed election store. The
// same implementation serves the memory, PostgreSQL, and Redis backends.
type Documents struct {
	col storage.Collection
}

// NewDocuments constructs an election store over a document collection.
func NewDocuments(col storage.Collection) *Documents {
	return &Documents{col: col}
}

// List returns every election document in creation order.
func (d *Documents) List(ctx context.Context) ([]models.Election, error) {
	docs, err := d.col.List(ctx)
	if err != nil {
		return nil, err
	}
	elections := make([]models.Election, 0, len(docs))
	for _, doc := range docs {
		var e models.Election
		if err := json.Unmarshal(doc, &e); err != nil {
			return nil, fmt.Errorf("decode election document: %w", err)
		}
		elections = append(elections, e)
	}
	return elections, nil
}

// Put inserts or wholesale-replaces the election keyed by election code.
func (d *Documents) Put(ctx context.Context, e models.Election) error {
	doc, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode election document: %w", err)
	}
	return d.col.Put(ctx, e.ElectionCode, doc)
}

// Delete removes the election stored under code, or sentinel.ErrNotFound.
func (d *Documents) Delete(ctx context.Context, code string) error {
	return d.col.Delete(ctx, code)
}
