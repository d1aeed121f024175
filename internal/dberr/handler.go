package dberr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/shopbuilder/internal/errs"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HandleError converts a storage error into an application-level error.
//
// Output:
//   - *errs.HTTPError: returned unchanged
//   - unavailable storage: 503
//   - not found: 404 "<Entity> not found"
//   - duplicate key: 409 with code <ENTITY>_ALREADY_EXISTS
//   - anything else: 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	if errors.Is(err, ErrStorageUnavailable) {
		return errs.NewServiceUnavailableError("Storage unavailable, try again later")
	}

	var dbErr *Error
	collection := ""
	code := Classify(err)
	if errors.As(err, &dbErr) {
		collection = dbErr.Collection
		code = dbErr.Code
	}

	entityName := getEntityName(collection)

	switch code {
	case NotFound:
		return errs.NewNotFoundError(fmt.Sprintf("%s not found", entityName), true, nil)

	case DuplicateKey:
		errorCode := generateErrorCode(collection, code)
		return errs.NewConflictError(
			fmt.Sprintf("A %s with this identifier already exists", strings.ToLower(entityName)),
			true, &errorCode,
		)

	case Unavailable:
		return errs.NewServiceUnavailableError("Storage unavailable, try again later")
	}

	return errs.NewInternalServerError()
}

// generateErrorCode builds a machine-friendly code such as STORE_ALREADY_EXISTS.
func generateErrorCode(collection string, code Code) string {
	domain := strings.ToUpper(collection)
	if domain == "" {
		domain = "RECORD"
	}

	action := "ERROR"
	switch code {
	case NotFound:
		action = "NOT_FOUND"
	case DuplicateKey:
		action = "ALREADY_EXISTS"
	case Unavailable:
		action = "UNAVAILABLE"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

func getEntityName(collection string) string {
	if collection == "" {
		return "Record"
	}
	return humanizeText(collection)
}

// humanizeText turns "product_variant" into "Product Variant".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}
