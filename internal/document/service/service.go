package service

import (
	"context"

	"github.com/gogotex/data-service/internal/document"
	"github.com/gogotex/data-service/internal/document/repository"
	"github.com/gogotex/data-service/pkg/metrics"
	"go.mongodb.org/mongo-driver/mongo"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the document operations used by the handler layer.
type Service interface {
	Insert(ctx context.Context, d document.Document) error
	List(ctx context.Context) ([]document.Document, error)
}

// NewService returns a Service over the given repository.
func NewService(repo repository.Repository) Service {
	return &documentService{repo: repo}
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() Service {
	return NewService(repository.NewMemoryRepo())
}

// NewMongoService returns a Service backed by a MongoDB collection.
// Caller owns the client behind col.
func NewMongoService(col *mongo.Collection) Service {
	return NewService(repository.NewMongoRepo(col))
}

type documentService struct {
	repo repository.Repository
}

func (s *documentService) Insert(ctx context.Context, d document.Document) error {
	if err := s.repo.Insert(ctx, d); err != nil {
		metrics.StoreErrors.WithLabelValues("insert").Inc()
		return err
	}
	metrics.DocumentsInserted.Inc()
	return nil
}

// List never returns a nil slice and never exposes the identifier, whatever
// the repository hands back.
func (s *documentService) List(ctx context.Context) ([]document.Document, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("list").Inc()
		return nil, err
	}
	out := make([]document.Document, 0, len(list))
	for _, d := range list {
		if _, ok := d[document.IDField]; ok {
			d = d.WithoutID()
		}
		out = append(out, d)
	}
	return out, nil
}
