package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/shopbuilder/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemPayload struct {
	SKU      *string  `json:"sku" validate:"required,min=1"`
	Quantity *int     `json:"quantity" validate:"omitempty,gte=0,lte=10"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
}

func (p *itemPayload) Validate() error {
	return Struct(p)
}

func bind(t *testing.T, body string) (*itemPayload, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	payload := &itemPayload{}
	return payload, BindAndValidate(c, payload)
}

func requireUnprocessable(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Status)
	return httpErr
}

func TestBindAndValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		payload, err := bind(t, `{"sku":"A1","price":0,"extra":"ignored"}`)
		require.NoError(t, err)
		assert.Equal(t, "A1", *payload.SKU)
		assert.Equal(t, 0.0, *payload.Price)
	})

	t.Run("FieldNamesFromJSONTags", func(t *testing.T) {
		_, err := bind(t, `{"quantity":11}`)
		httpErr := requireUnprocessable(t, err)

		fields := map[string]string{}
		for _, fe := range httpErr.Errors {
			fields[fe.Field] = fe.Error
		}
		assert.Equal(t, "is required", fields["sku"])
		assert.Equal(t, "is required", fields["price"])
		assert.Equal(t, "must be less than or equal to 10", fields["quantity"])
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		_, err := bind(t, `{"sku":"A1","price":"cheap"}`)
		httpErr := requireUnprocessable(t, err)
		require.Len(t, httpErr.Errors, 1)
		assert.Equal(t, "price", httpErr.Errors[0].Field)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		_, err := bind(t, `{"sku":`)
		httpErr := requireUnprocessable(t, err)
		require.Len(t, httpErr.Errors, 1)
		assert.Equal(t, "body", httpErr.Errors[0].Field)
	})
}

func TestCustomValidationErrors(t *testing.T) {
	err := CustomValidationErrors{{Field: "store_id", Message: "must reference a store"}}

	fieldErrors := FieldErrors(err)
	require.Len(t, fieldErrors, 1)
	assert.Equal(t, "store_id", fieldErrors[0].Field)
	assert.Equal(t, "must reference a store", fieldErrors[0].Error)
}

func TestNullFields(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"absent", `{"sku":"a"}`, nil},
		{"set", `{"sku":"a","quantity":2}`, nil},
		{"null", `{"sku":"a","quantity":null}`, []string{"quantity"}},
		{"null with spaces", `{"quantity" :  null }`, []string{"quantity"}},
		{"unchecked null", `{"price":null}`, nil},
		{"two nulls", `{"sku":null,"quantity":null}`, []string{"sku", "quantity"}},
		{"not an object", `[1]`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nulls := NullFields([]byte(tt.body), "sku", "quantity")

			var got []string
			for _, n := range nulls {
				got = append(got, n.Field)
				assert.Equal(t, "must not be null", n.Message)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
