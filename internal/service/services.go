package service

import (
	"github.com/deppfellow/shopbuilder/internal/repository"
	"github.com/deppfellow/shopbuilder/internal/server"
)

type Services struct {
	Store       *StoreService
	Product     *ProductService
	Diagnostics *DiagnosticsService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Store:       NewStoreService(s, repos.Documents),
		Product:     NewProductService(s, repos.Documents),
		Diagnostics: NewDiagnosticsService(s, repos.Documents),
	}, nil
}
