// Package identifier converts between the document store's native
// 12-byte ObjectID and the 24-character hex text used at every API boundary.
//
// Every identifier that enters or leaves the service goes through this
// package; raw text and native ids never mix.
package identifier

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ID is the storage-native primary key.
type ID = primitive.ObjectID

// ErrInvalidIdentifier is returned when text is not a well-formed ObjectID.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// Nil is the zero identifier. It never refers to a stored document.
var Nil = primitive.NilObjectID

// Parse decodes the 24-character hex form.
func Parse(text string) (ID, error) {
	id, err := primitive.ObjectIDFromHex(text)
	if err != nil {
		return Nil, ErrInvalidIdentifier
	}
	return id, nil
}

// String returns the canonical lower-case hex form.
func String(id ID) string {
	return id.Hex()
}

// IsValid reports whether text parses. Handlers call it first so a bad id
// becomes a client error rather than an internal one.
func IsValid(text string) bool {
	return primitive.IsValidObjectID(text)
}

// New allocates a fresh identifier.
func New() ID {
	return primitive.NewObjectID()
}
