package storage

import "context"

// Collection is the document-store contract the registries rely on: an
// ordered fetch-all plus get/replace/delete by primary key. Documents are
// opaque JSON blobs; typed stores marshal on the way in and out.
//
// Backends are interface-driven to keep the domain logic testable and to
// allow swapping in-memory, PostgreSQL, or Redis persistence without
// rewiring business code. Every backend preserves insertion order in List.
type Collection interface {
	// List returns every document in insertion order.
	List(ctx context.Context) ([][]byte, error)
	// Get returns the document stored under key, or sentinel.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put inserts or wholesale-replaces the document under key.
	Put(ctx context.Context, key string, doc []byte) error
	// Delete removes the document under key, or sentinel.ErrNotFound.
	Delete(ctx context.Context, key string) error
}

// Collection names shared by all backends.
const (
	VotersCollection    = "voters"
	ElectionsCollection = "elections"
)
