package repository

import (
	"context"
	"sync"

	"github.com/gogotex/data-service/internal/document"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an in-memory repository used for local runs
// (STORAGE_BACKEND=memory) and unit tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	store []document.Document
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (m *MemoryRepo) Insert(_ context.Context, d document.Document) error {
	stored := make(document.Document, len(d)+1)
	for k, v := range d {
		stored[k] = v
	}
	if _, ok := stored[document.IDField]; !ok {
		stored[document.IDField] = primitive.NewObjectID()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = append(m.store, stored)
	return nil
}

func (m *MemoryRepo) List(_ context.Context) ([]document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]document.Document, 0, len(m.store))
	for _, d := range m.store {
		out = append(out, d.WithoutID())
	}
	return out, nil
}

// Len reports how many documents are stored.
func (m *MemoryRepo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store)
}
