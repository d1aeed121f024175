// Package dberr classifies document store driver errors and converts them
// into API errors.
//
// Repositories wrap every driver error with Wrap so callers can test for
// ErrStorageUnavailable without importing the driver. HandleError is the
// last step before an error reaches the client.
package dberr

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

// ErrStorageUnavailable is matched by any error caused by the document store
// being unreachable or too slow to answer.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Code is a coarse category for a driver error.
type Code int

const (
	Other Code = iota
	Unavailable
	NotFound
	DuplicateKey
)

func (c Code) String() string {
	switch c {
	case Unavailable:
		return "unavailable"
	case NotFound:
		return "not_found"
	case DuplicateKey:
		return "duplicate_key"
	default:
		return "other"
	}
}

// Error records which operation on which collection failed.
type Error struct {
	Op         string
	Collection string
	Code       Code
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrStorageUnavailable) match unavailable errors.
func (e *Error) Is(target error) bool {
	return target == ErrStorageUnavailable && e.Code == Unavailable
}

// Wrap classifies err and attaches the operation and collection.
// It returns nil for a nil err.
func Wrap(op, collection string, err error) error {
	if err == nil {
		return nil
	}

	var existing *Error
	if errors.As(err, &existing) {
		return err
	}

	return &Error{
		Op:         op,
		Collection: collection,
		Code:       Classify(err),
		Err:        err,
	}
}

// Classify maps a raw driver error onto a Code.
func Classify(err error) Code {
	var selectionErr topology.ServerSelectionError

	switch {
	case err == nil:
		return Other
	case errors.Is(err, mongo.ErrNoDocuments):
		return NotFound
	case mongo.IsDuplicateKeyError(err):
		return DuplicateKey
	case mongo.IsTimeout(err),
		mongo.IsNetworkError(err),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, mongo.ErrClientDisconnected),
		errors.As(err, &selectionErr):
		return Unavailable
	default:
		return Other
	}
}

// ErrCode reports the Code carried by err, or Other when err was never wrapped.
func ErrCode(err error) Code {
	var dbErr *Error
	if errors.As(err, &dbErr) {
		return dbErr.Code
	}
	return Other
}
