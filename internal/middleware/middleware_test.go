package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/shopbuilder/internal/config"
	"github.com/deppfellow/shopbuilder/internal/dberr"
	"github.com/deppfellow/shopbuilder/internal/errs"
	"github.com/deppfellow/shopbuilder/internal/server"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"
)

func newTestServer(buf *bytes.Buffer, serverCfg config.ServerConfig) *server.Server {
	logger := zerolog.New(buf)
	return &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			Server:  serverCfg,
		},
		Logger: &logger,
	}
}

func newEcho(s *server.Server) *echo.Echo {
	mws := NewMiddlewares(s)

	e := echo.New()
	e.HTTPErrorHandler = mws.Global.GlobalErrorHandler
	e.Use(
		RequestID(),
		mws.Tracing.NewRelicMiddleware(),
		mws.Tracing.EnhanceTracing(),
		mws.ContextEnhancer.EnhanceContext(),
		mws.RateLimit.Limit(),
		mws.Global.Recover(),
	)
	return e
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRequestID(t *testing.T) {
	var buf bytes.Buffer
	e := newEcho(newTestServer(&buf, config.ServerConfig{}))

	var seen string
	e.GET("/ping", func(c echo.Context) error {
		seen = GetRequestID(c)
		GetLogger(c).Info().Msg("inside")
		return c.NoContent(http.StatusNoContent)
	})

	t.Run("Generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
		assert.Contains(t, buf.String(), `"request_id":"`+seen+`"`)
	})

	t.Run("Propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})

	for _, bad := range []string{"has space", "tab\there", strings.Repeat("x", maxRequestIDLength+1), "caf\u00e9"} {
		t.Run("Replaced "+bad[:3], func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set(RequestIDHeader, bad)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.NotEqual(t, bad, seen)
			assert.Len(t, seen, 36)
			assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
		})
	}
}

func TestRequestAttributes(t *testing.T) {
	var buf bytes.Buffer
	e := newEcho(newTestServer(&buf, config.ServerConfig{}))

	var attrs map[string]string
	capture := func(c echo.Context) error {
		attrs = requestAttributes(c)
		return c.NoContent(http.StatusNoContent)
	}
	e.GET("/api/stores/:store_id/products", capture)
	e.GET("/api/stores", capture)

	req := httptest.NewRequest(http.MethodGet, "/api/stores/65A1F0C2E4B0A1B2C3D4E5F6/products", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	req.Header.Set("User-Agent", "storefront/1.0")
	e.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "/api/stores/:store_id/products", attrs["http.route"])
	assert.Equal(t, "65a1f0c2e4b0a1b2c3d4e5f6", attrs["store.id"])
	assert.Equal(t, "req-1", attrs["request.id"])
	assert.Equal(t, "storefront/1.0", attrs["http.user_agent"])
	assert.NotEmpty(t, attrs["http.real_ip"])

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/stores", nil))
	assert.NotContains(t, attrs, "store.id")
	assert.Equal(t, "/api/stores", attrs["http.route"])
}

func TestGetLoggerFallback(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.NotNil(t, GetLogger(c))
	assert.NotNil(t, LoggerFromContext(c.Request().Context()))
}

func TestGlobalErrorHandler(t *testing.T) {
	var buf bytes.Buffer
	e := newEcho(newTestServer(&buf, config.ServerConfig{}))

	e.GET("/bad", func(c echo.Context) error {
		return errs.NewBadRequestError("Invalid store_id", true, nil, nil, nil)
	})
	e.GET("/down", func(c echo.Context) error {
		return dberr.Wrap("query", "store", mongo.ErrClientDisconnected)
	})
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("boom")
	})
	e.GET("/panic", func(c echo.Context) error {
		panic("kaboom")
	})

	tests := []struct {
		name    string
		method  string
		path    string
		status  int
		message string
	}{
		{"http error", http.MethodGet, "/bad", http.StatusBadRequest, "Invalid store_id"},
		{"storage down", http.MethodGet, "/down", http.StatusServiceUnavailable, ""},
		{"untyped", http.MethodGet, "/boom", http.StatusInternalServerError, "Internal Server Error"},
		{"panic", http.MethodGet, "/panic", http.StatusInternalServerError, "Internal Server Error"},
		{"unknown route", http.MethodGet, "/nope", http.StatusNotFound, "Route not found"},
		{"wrong method", http.MethodDelete, "/bad", http.StatusMethodNotAllowed, "Method not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.status, body.Status)
			if tt.message != "" {
				assert.Equal(t, tt.message, body.Message)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	var buf bytes.Buffer
	e := newEcho(newTestServer(&buf, config.ServerConfig{RateLimit: 1, RateBurst: 1}))
	e.GET("/ping", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, first.Code)

	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", decodeError(t, second).Code)
}

func TestRateLimitDisabled(t *testing.T) {
	var buf bytes.Buffer
	e := newEcho(newTestServer(&buf, config.ServerConfig{}))
	e.GET("/ping", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestRedisRateLimiterStoreFallsBack(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	fallback := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:  rate.Limit(1),
		Burst: 1,
	})
	logger := zerolog.Nop()
	store := NewRedisRateLimiterStore(client, 10, fallback, &logger)

	allowed, err := store.Allow("10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = store.Allow("10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestWindowLimit(t *testing.T) {
	assert.Equal(t, int64(40), windowLimit(20, 40))
	assert.Equal(t, int64(3), windowLimit(2.5, 0))
	assert.Equal(t, int64(5), windowLimit(5, 5))
}
