package service

import (
	"context"

	"github.com/deppfellow/shopbuilder/internal/model"
	"github.com/deppfellow/shopbuilder/internal/repository"
	"github.com/deppfellow/shopbuilder/internal/server"
)

type StoreService struct {
	server *server.Server
	docs   repository.Documents
}

func NewStoreService(s *server.Server, docs repository.Documents) *StoreService {
	return &StoreService{
		server: s,
		docs:   docs,
	}
}

// CreateStore persists a validated store payload with defaults applied and
// returns the stored document.
func (s *StoreService) CreateStore(ctx context.Context, payload *model.CreateStorePayload) (map[string]any, error) {
	return insertAndRead(ctx, s.server.Logger, s.docs, model.StoreCollection, payload.ToRecord())
}

// ListStores returns every store. The order is whatever the store returns;
// callers must not rely on it.
func (s *StoreService) ListStores(ctx context.Context) ([]map[string]any, error) {
	return listAll(ctx, s.docs, model.StoreCollection, nil)
}
