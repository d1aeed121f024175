// Package repository handles all interactions with the document store.
//
// Documents is a generic, collection-keyed accessor: it stores validated
// records and hands back raw documents. It knows nothing about stores or
// products; services decide which collection and filter to use.
package repository

import (
	"context"

	"github.com/deppfellow/shopbuilder/internal/identifier"
	"go.mongodb.org/mongo-driver/bson"
)

// Filter is an equality match on top-level fields. Nil or empty matches all.
type Filter map[string]any

// Documents is the document accessor used by services.
//
// Every error returned has passed through dberr.Wrap, so callers can test
// for dberr.ErrStorageUnavailable.
type Documents interface {
	// Insert stores record in collection, stamping created_at and
	// updated_at, and returns the new identifier.
	Insert(ctx context.Context, collection string, record any) (identifier.ID, error)

	// QueryAll returns every document matching filter. The slice is never nil.
	QueryAll(ctx context.Context, collection string, filter Filter) ([]bson.M, error)

	// FindOne returns the document with id. found is false when none exists;
	// that is not an error.
	FindOne(ctx context.Context, collection string, id identifier.ID) (doc bson.M, found bool, err error)

	// Collections lists the collection names in the database.
	Collections(ctx context.Context) ([]string, error)
}
