// Package service contains the business logic.
//
// It sits between the handler and repository layers and hands serialized
// documents back. Every error it returns is already an *errs.HTTPError.
package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/shopbuilder/internal/dberr"
	"github.com/deppfellow/shopbuilder/internal/errs"
	"github.com/deppfellow/shopbuilder/internal/repository"
	"github.com/deppfellow/shopbuilder/internal/serializer"
	"github.com/rs/zerolog"
)

// insertAndRead stores record, reads it back by its new id and serializes
// it, so the client sees exactly what was persisted.
func insertAndRead(ctx context.Context, logger *zerolog.Logger, docs repository.Documents, collection string, record any) (map[string]any, error) {
	id, err := docs.Insert(ctx, collection, record)
	if err != nil {
		return nil, dberr.HandleError(err)
	}

	doc, found, err := docs.FindOne(ctx, collection, id)
	if err != nil {
		return nil, dberr.HandleError(err)
	}
	if !found {
		logger.Error().
			Str("collection", collection).
			Str("id", id.Hex()).
			Msg("inserted document missing on read back")
		return nil, errs.NewInternalServerError()
	}

	return serializer.Document(doc), nil
}

func listAll(ctx context.Context, docs repository.Documents, collection string, filter repository.Filter) ([]map[string]any, error) {
	raws, err := docs.QueryAll(ctx, collection, filter)
	if err != nil {
		return nil, dberr.HandleError(fmt.Errorf("list %s: %w", collection, err))
	}
	return serializer.Documents(raws), nil
}
