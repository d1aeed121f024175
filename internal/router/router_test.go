package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/shopbuilder/internal/config"
	"github.com/deppfellow/shopbuilder/internal/errs"
	"github.com/deppfellow/shopbuilder/internal/handler"
	"github.com/deppfellow/shopbuilder/internal/identifier"
	"github.com/deppfellow/shopbuilder/internal/model"
	"github.com/deppfellow/shopbuilder/internal/repository"
	"github.com/deppfellow/shopbuilder/internal/server"
	"github.com/deppfellow/shopbuilder/internal/service"
	"github.com/deppfellow/shopbuilder/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

type testApp struct {
	router *echo.Echo
	docs   *testutil.Documents
}

func newTestApp(t *testing.T, mutate func(cfg *config.Config)) *testApp {
	t.Helper()

	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "8000",
			CORSAllowedOrigins: []string{"*"},
		},
		Database: config.DatabaseConfig{Name: "shopbuilder"},
	}
	if mutate != nil {
		mutate(cfg)
	}

	logger := zerolog.Nop()
	s := &server.Server{Config: cfg, Logger: &logger}

	docs := testutil.NewDocuments()
	services, err := service.NewService(s, &repository.Repositories{Documents: docs})
	require.NoError(t, err)

	return &testApp{
		router: NewRouter(s, handler.NewHandlers(s, services)),
		docs:   docs,
	}
}

func (a *testApp) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestStoreAndProductFlow(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodPost, "/api/stores", `{"name":"Acme","subdomain":"acme"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	store := decode[map[string]any](t, rec)
	storeID, ok := store["id"].(string)
	require.True(t, ok)
	assert.True(t, identifier.IsValid(storeID))
	assert.Equal(t, "Acme", store["name"])
	assert.Equal(t, "acme", store["subdomain"])
	assert.Equal(t, "default", store["theme"])
	assert.Equal(t, false, store["is_published"])
	assert.NotContains(t, store, "_id")

	rec = app.do(t, http.MethodPost, "/api/products", `{"store_id":"`+storeID+`","title":"Mug","price":12.5,"compare_at_price":15}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	product := decode[map[string]any](t, rec)
	assert.Equal(t, storeID, product["store_id"])
	assert.Equal(t, "Mug", product["title"])
	assert.Equal(t, 12.5, product["price"])
	assert.Equal(t, "USD", product["currency"])
	assert.Equal(t, true, product["in_stock"])
	assert.Equal(t, []any{}, product["image_urls"])

	rec = app.do(t, http.MethodGet, "/api/stores/"+storeID+"/products", "")
	require.Equal(t, http.StatusOK, rec.Code)

	products := decode[[]map[string]any](t, rec)
	require.Len(t, products, 1)
	assert.Equal(t, product["id"], products[0]["id"])

	rec = app.do(t, http.MethodGet, "/api/stores", "")
	require.Equal(t, http.StatusOK, rec.Code)

	stores := decode[[]map[string]any](t, rec)
	require.Len(t, stores, 1)
	assert.Equal(t, storeID, stores[0]["id"])
}

func TestListsStartEmpty(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodGet, "/api/stores", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/api/stores/"+identifier.String(identifier.New())+"/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestProductsAreScopedToTheirStore(t *testing.T) {
	app := newTestApp(t, nil)

	var ids []string
	for _, name := range []string{"First", "Second"} {
		rec := app.do(t, http.MethodPost, "/api/stores", `{"name":"`+name+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		ids = append(ids, decode[map[string]any](t, rec)["id"].(string))
	}

	rec := app.do(t, http.MethodPost, "/api/products", `{"store_id":"`+ids[0]+`","title":"Only here","price":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	first := decode[[]map[string]any](t, app.do(t, http.MethodGet, "/api/stores/"+ids[0]+"/products", ""))
	second := decode[[]map[string]any](t, app.do(t, http.MethodGet, "/api/stores/"+ids[1]+"/products", ""))

	assert.Len(t, first, 1)
	assert.Empty(t, second)

	again := decode[[]map[string]any](t, app.do(t, http.MethodGet, "/api/stores/"+ids[0]+"/products", ""))
	assert.Equal(t, first, again)
}

func TestCreateProductErrors(t *testing.T) {
	app := newTestApp(t, nil)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed store id", `{"store_id":"abc","title":"Mug","price":1}`, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown store", `{"store_id":"` + identifier.String(identifier.New()) + `","title":"Mug","price":1}`, http.StatusNotFound, "STORE_NOT_FOUND"},
		{"missing title", `{"store_id":"` + identifier.String(identifier.New()) + `","price":1}`, http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY"},
		{"negative price", `{"store_id":"` + identifier.String(identifier.New()) + `","title":"Mug","price":-1}`, http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY"},
		{"price as string", `{"store_id":"` + identifier.String(identifier.New()) + `","title":"Mug","price":"free"}`, http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(t, http.MethodPost, "/api/products", tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			body := decode[errs.HTTPError](t, rec)
			assert.Equal(t, tt.code, body.Code)
		})
	}

	assert.Zero(t, app.docs.Count(model.ProductCollection))
}

func TestCreateStoreValidation(t *testing.T) {
	app := newTestApp(t, nil)

	for _, body := range []string{``, `{}`, `{"name":""}`, `{"name":`} {
		rec := app.do(t, http.MethodPost, "/api/stores", body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, body)
	}

	assert.Zero(t, app.docs.Count(model.StoreCollection))
}

func TestListProductsInvalidStoreID(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodGet, "/api/stores/nope/products", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid store_id", decode[errs.HTTPError](t, rec).Message)
}

func TestStorageUnavailable(t *testing.T) {
	app := newTestApp(t, nil)
	app.docs.Err = mongo.ErrClientDisconnected

	rec := app.do(t, http.MethodGet, "/api/stores", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSystemRoutes(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"E-commerce Builder API running"}`, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/api/hello", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Hello from the backend API!"}`, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/test", "")
	require.Equal(t, http.StatusOK, rec.Code)
	diag := decode[service.Diagnostic](t, rec)
	assert.Equal(t, "✅ Running", diag.Backend)
	assert.Equal(t, "✅ Connected & Working", diag.Database)

	rec = app.do(t, http.MethodGet, "/docs", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/openapi.json", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decode[errs.HTTPError](t, rec).Message)
}

func TestRateLimit(t *testing.T) {
	app := newTestApp(t, func(cfg *config.Config) {
		cfg.Server.RateLimit = 1
		cfg.Server.RateBurst = 1
	})

	first := app.do(t, http.MethodGet, "/api/hello", "")
	assert.Equal(t, http.StatusOK, first.Code)

	second := app.do(t, http.MethodGet, "/api/hello", "")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestNullForNonNullableFields(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodPost, "/api/stores", `{"name":"Acme"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	storeID := decode[map[string]any](t, rec)["id"].(string)

	product := func(extra string) string {
		return `{"store_id":"` + storeID + `","title":"Widget","price":9.99,` + extra + `}`
	}

	tests := []struct {
		name   string
		target string
		body   string
		fields []string
	}{
		{"currency", "/api/products", product(`"currency":null`), []string{"currency"}},
		{"in stock", "/api/products", product(`"in_stock":null`), []string{"in_stock"}},
		{"image urls", "/api/products", product(`"image_urls":null`), []string{"image_urls"}},
		{"image url element", "/api/products", product(`"image_urls":[null]`), []string{"image_urls[0]"}},
		{"all at once", "/api/products", product(`"in_stock":null,"currency":null,"image_urls":null`), []string{"currency", "in_stock", "image_urls"}},
		{"is published", "/api/stores", `{"name":"Other","is_published":null}`, []string{"is_published"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(t, http.MethodPost, tt.target, tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

			var fields []string
			for _, fe := range decode[errs.HTTPError](t, rec).Errors {
				fields = append(fields, fe.Field)
			}
			assert.ElementsMatch(t, tt.fields, fields)
		})
	}

	assert.Zero(t, app.docs.Count(model.ProductCollection))
	assert.Equal(t, 1, app.docs.Count(model.StoreCollection))

	rec = app.do(t, http.MethodPost, "/api/stores", `{"name":"Nullable theme","theme":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "default", decode[map[string]any](t, rec)["theme"])

	rec = app.do(t, http.MethodPost, "/api/products", product(`"image_urls":["a.png"],"description":null`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"a.png"}, decode[map[string]any](t, rec)["image_urls"])
}

func TestStoreIDIsCanonicalised(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodPost, "/api/stores", `{"name":"Acme"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	storeID := decode[map[string]any](t, rec)["id"].(string)
	upper := strings.ToUpper(storeID)

	rec = app.do(t, http.MethodPost, "/api/products", `{"store_id":"`+upper+`","title":"Mug","price":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, storeID, decode[map[string]any](t, rec)["store_id"])

	products := decode[[]map[string]any](t, app.do(t, http.MethodGet, "/api/stores/"+upper+"/products", ""))
	require.Len(t, products, 1)
	assert.Equal(t, storeID, products[0]["store_id"])
}
