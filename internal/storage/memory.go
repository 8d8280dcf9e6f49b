package storage

import (
	"context"
	"slices"
	"sync"

	"univote/pkg/platform/sentinel"
)

// Memory keeps the default deployment lightweight and doubles as the test
// backend. It intentionally favors clarity over performance.
type Memory struct {
	mu    sync.RWMutex
	docs  map[string][]byte
	order []string
}

// NewMemory constructs an empty in-memory collection.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

func (m *Memory) List(_ context.Context) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([][]byte, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, slices.Clone(m.docs[key]))
	}
	return out, nil
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return slices.Clone(doc), nil
}

func (m *Memory) Put(_ context.Context, key string, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[key]; !ok {
		m.order = append(m.order, key)
	}
	m.docs[key] = slices.Clone(doc)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[key]; !ok {
		return sentinel.ErrNotFound
	}
	delete(m.docs, key)
	m.order = slices.DeleteFunc(m.order, func(k string) bool { return k == key })
	return nil
}
