package store

import (
	"context"
	"encoding/json"
	"fmt"

	"univote/internal/storage"
	"univote/internal/voter/models"
)

// Documents adapts any storage.Collection into the typed voter store. The
// same implementation serves the memory, PostgreSQL, and Redis backends.
type Documents struct {
	col storage.Collection
}

// NewDocuments constructs a voter store over a document collection.
func NewDocuments(col storage.Collection) *Documents {
	return &Documents{col: col}
}

// List returns every voter record in registration order.
func (d *Documents) List(ctx context.Context) ([]models.Voter, error) {
	docs, err := d.col.List(ctx)
	if err != nil {
		return nil, err
	}
	voters := make([]models.Voter, 0, len(docs))
	for _, doc := range docs {
		var v models.Voter
		if err := json.Unmarshal(doc, &v); err != nil {
			return nil, fmt.Errorf("decode voter document: %w", err)
		}
		voters = append(voters, v)
	}
	return voters, nil
}

// Get returns the voter stored under studentID, or sentinel.ErrNotFound.
func (d *Documents) Get(ctx context.Context, studentID string) (models.Voter, error) {
	doc, err := d.col.Get(ctx, studentID)
	if err != nil {
		return models.Voter{}, err
	}
	var v models.Voter
	if err := json.Unmarshal(doc, &v); err != nil {
		return models.Voter{}, fmt.Errorf("decode voter document: %w", err)
	}
	return v, nil
}

// Put inserts or wholesale-replaces the voter keyed by student id.
func (d *Documents) Put(ctx context.Context, v models.Voter) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode voter document: %w", err)
	}
	return d.col.Put(ctx, v.StudentID, doc)
}
