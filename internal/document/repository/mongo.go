package repository

import (
	"context"
	"fmt"

	"github.com/gogotex/data-service/internal/document"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements a MongoDB-backed repository for documents.
// Documents are stored as-is; MongoDB assigns _id.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Insert(ctx context.Context, d document.Document) error {
	if _, err := m.col.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (m *MongoRepo) List(ctx context.Context) ([]document.Document, error) {
	opts := options.Find().SetProjection(bson.D{{Key: document.IDField, Value: 0}})
	cur, err := m.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find documents: %w", err)
	}
	defer cur.Close(ctx)
	out := []document.Document{}
	for cur.Next(ctx) {
		var d document.Document
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		out = append(out, d)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}
