package service

import (
	"context"

	"github.com/deppfellow/shopbuilder/internal/dberr"
	"github.com/deppfellow/shopbuilder/internal/errs"
	"github.com/deppfellow/shopbuilder/internal/identifier"
	"github.com/deppfellow/shopbuilder/internal/model"
	"github.com/deppfellow/shopbuilder/internal/repository"
	"github.com/deppfellow/shopbuilder/internal/server"
)

var storeNotFoundCode = "STORE_NOT_FOUND"

type ProductService struct {
	server *server.Server
	docs   repository.Documents
}

func NewProductService(s *server.Server, docs repository.Documents) *ProductService {
	return &ProductService{
		server: s,
		docs:   docs,
	}
}

// InvalidStoreIDError is returned for a store_id that isn't a well-formed identifier.
func InvalidStoreIDError() *errs.HTTPError {
	return errs.NewBadRequestError("Invalid store_id", true, nil, []errs.FieldError{{
		Field: "store_id",
		Error: "must be a 24-character hex identifier",
	}}, nil)
}

// CreateProduct checks that the owning store exists before inserting.
//
// The check and the insert are separate operations: a store deleted in
// between leaves an orphan product. Nothing deletes stores today.
func (s *ProductService) CreateProduct(ctx context.Context, payload *model.CreateProductPayload) (map[string]any, error) {
	record := payload.ToRecord()

	storeID, err := identifier.Parse(record.StoreID)
	if err != nil {
		return nil, InvalidStoreIDError()
	}

	_, found, err := s.docs.FindOne(ctx, model.StoreCollection, storeID)
	if err != nil {
		return nil, dberr.HandleError(err)
	}
	if !found {
		return nil, errs.NewNotFoundError("Store not found", true, &storeNotFoundCode)
	}

	// Stored in canonical form so listing by either case finds it.
	record.StoreID = identifier.String(storeID)

	return insertAndRead(ctx, s.server.Logger, s.docs, model.ProductCollection, record)
}

// ListProductsForStore returns the products of the given store. The id is
// matched in its canonical lower-case form, so the returned store_id may
// differ in case from what the caller sent. The store itself isn't looked
// up, so an unknown store yields [].
func (s *ProductService) ListProductsForStore(ctx context.Context, storeID string) ([]map[string]any, error) {
	id, err := identifier.Parse(storeID)
	if err != nil {
		return nil, InvalidStoreIDError()
	}

	return listAll(ctx, s.docs, model.ProductCollection, repository.Filter{
		"store_id": identifier.String(id),
	})
}
