package repository

import (
	"context"

	"github.com/gogotex/data-service/internal/document"
)

// Repository persists documents in the data collection.
type Repository interface {
	// Insert stores d; the store assigns the identifier.
	Insert(ctx context.Context, d document.Document) error
	// List returns every stored document without its identifier.
	List(ctx context.Context) ([]document.Document, error)
}
