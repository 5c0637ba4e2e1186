package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gogotex/data-service/internal/document"
)

// ObjectStore is the subset of MinIOStorage the snapshotter needs.
type ObjectStore interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Lister yields the documents to export.
type Lister interface {
	List(ctx context.Context) ([]document.Document, error)
}

// Snapshot describes an uploaded export.
type Snapshot struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Documents int       `json:"documents"`
	Bytes     int       `json:"bytes"`
	TakenAt   time.Time `json:"takenAt"`
}

// Snapshotter exports the whole collection as one JSON array object.
type Snapshotter struct {
	store  ObjectStore
	source Lister
	expiry time.Duration
	now    func() time.Time
}

func NewSnapshotter(store ObjectStore, source Lister, urlExpiry time.Duration) *Snapshotter {
	if urlExpiry <= 0 {
		urlExpiry = time.Hour
	}
	return &Snapshotter{store: store, source: source, expiry: urlExpiry, now: time.Now}
}

// SnapshotKey names the object for a snapshot taken at t.
func SnapshotKey(t time.Time) string {
	return "snapshots/data-" + t.UTC().Format("20060102T150405.000Z") + ".json"
}

// Take lists every document, uploads the JSON array and presigns a download URL.
func (s *Snapshotter) Take(ctx context.Context) (*Snapshot, error) {
	docs, err := s.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if docs == nil {
		docs = []document.Document{}
	}
	b, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	taken := s.now()
	key := SnapshotKey(taken)
	if err := s.store.UploadFile(ctx, key, bytes.NewReader(b), int64(len(b)), "application/json"); err != nil {
		return nil, fmt.Errorf("upload snapshot: %w", err)
	}
	url, err := s.store.GetPresignedURL(ctx, key, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("presign snapshot: %w", err)
	}
	return &Snapshot{Key: key, URL: url, Documents: len(docs), Bytes: len(b), TakenAt: taken}, nil
}
