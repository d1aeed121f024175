// Package validation binds request payloads and checks them against their
// struct tags.
//
// Failures come back as a 422 *errs.HTTPError carrying one FieldError per
// offending field, named the way the client sent it (the json tag).
package validation

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/deppfellow/shopbuilder/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
//   - Define a request struct with validator tags (`validate:"required,gte=0"`)
//   - Implement Validate() error that calls validation.Struct(req)
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue that can't be
// expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// NullFields reports each of fields that data, a JSON object, sets to an
// explicit null. Absent fields are not reported, so callers can still
// default them. Anything that isn't an object yields nil.
func NullFields(data []byte, fields ...string) CustomValidationErrors {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	var nulls CustomValidationErrors
	for _, field := range fields {
		if value, ok := raw[field]; ok && string(value) == "null" {
			nulls = append(nulls, CustomValidationError{
				Field:   field,
				Message: "must not be null",
			})
		}
	}
	return nulls
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names ("store_id") instead of Go names ("StoreID").
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Struct validates s against its `validate` tags using the shared validator.
func Struct(s any) error {
	return validate.Struct(s)
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. c.Bind(payload) populates the struct from path params and the JSON body.
//  2. payload.Validate() applies validation rules.
//  3. Either failure returns a 422 *errs.HTTPError with field-level errors.
//
// payload must be a pointer.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return bindError(err)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewUnprocessableEntityError(msg, true, fieldErrors)
	}

	return nil
}

// bindError turns an echo bind failure into a 422. Type mismatches name the
// field; anything else (malformed JSON, wrong content type) reports the body.
func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return errs.NewUnprocessableEntityError("Validation failed", true, []errs.FieldError{{
			Field: field,
			Error: fmt.Sprintf("must be of type %s", typeErr.Type.String()),
		}})
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return errs.NewUnprocessableEntityError("Validation failed", true, []errs.FieldError{{
			Field: "body",
			Error: fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset),
		}})
	}

	message := "Invalid request body"
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if text, ok := echoErr.Message.(string); ok {
			message = text
		}
	}

	return errs.NewUnprocessableEntityError("Validation failed", true, []errs.FieldError{{
		Field: "body",
		Error: message,
	}})
}

func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

// FieldErrors converts an error returned from Validate into client field errors.
// It returns nil when err carries no field detail.
func FieldErrors(err error) []errs.FieldError {
	_, fieldErrors := extractValidationError(err)
	return fieldErrors
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var customErrors CustomValidationErrors
	if errors.As(err, &customErrors) {
		for _, e := range customErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: e.Field,
				Error: e.Message,
			})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Validation failed", []errs.FieldError{{Field: "body", Error: err.Error()}}
	}

	for _, e := range validationErrors {
		field := e.Field()
		var msg string

		switch e.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if e.Kind() == reflect.String {
				if e.Param() == "1" {
					msg = "must not be empty"
				} else {
					msg = fmt.Sprintf("must be at least %s characters", e.Param())
				}
			} else {
				msg = fmt.Sprintf("must be at least %s", e.Param())
			}

		case "max":
			if e.Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", e.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", e.Param())
			}

		case "gte":
			msg = fmt.Sprintf("must be greater than or equal to %s", e.Param())

		case "lte":
			msg = fmt.Sprintf("must be less than or equal to %s", e.Param())

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", e.Param())

		case "email":
			msg = "must be a valid email address"

		case "url":
			msg = "must be a valid URL"

		case "dive":
			msg = "some items are invalid"

		default:
			if e.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, e.Tag(), e.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, e.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}
