package mock

import (
	"context"

	"github.com/fwojciec/docsync"
)

var _ docsync.IndexStore = (*IndexStore)(nil)

// IndexStore is a mock implementation of docsync.IndexStore.
type IndexStore struct {
	UploadFn func(ctx context.Context, key string, body []byte) (string, error)
	DeleteFn func(ctx context.Context, remoteID string) error
}

func (s *IndexStore) Upload(ctx context.Context, key string, body []byte) (string, error) {
	return s.UploadFn(ctx, key, body)
}

func (s *IndexStore) Delete(ctx context.Context, remoteID string) error {
	return s.DeleteFn(ctx, remoteID)
}

var _ docsync.IndexProvisioner = (*IndexProvisioner)(nil)

// IndexProvisioner is a mock implementation of docsync.IndexProvisioner.
type IndexProvisioner struct {
	CreateIndexFn func(ctx context.Context, name string, chunkSize, chunkOverlap int) (string, error)
}

func (p *IndexProvisioner) CreateIndex(ctx context.Context, name string, chunkSize, chunkOverlap int) (string, error) {
	return p.CreateIndexFn(ctx, name, chunkSize, chunkOverlap)
}
