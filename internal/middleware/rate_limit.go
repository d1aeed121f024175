package middleware

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/deppfellow/shopbuilder/internal/errs"
	"github.com/deppfellow/shopbuilder/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	redisWindow    = time.Second
	redisOpTimeout = 100 * time.Millisecond
	redisKeyPrefix = "shopbuilder:ratelimit:"
)

// RateLimitMiddleware enforces a per-IP request budget. With Redis the
// budget is shared by every instance; otherwise each process counts alone.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit returns the rate limiting middleware. A zero rate disables it.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	cfg := r.server.Config.Server
	if cfg.RateLimit <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: r.store(),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())
			GetLogger(c).Warn().
				Str("client", identifier).
				Msg("rate limit exceeded")
			return errs.NewTooManyRequestsError("Too many requests, slow down")
		},
	})
}

func (r *RateLimitMiddleware) store() middleware.RateLimiterStore {
	cfg := r.server.Config.Server

	memory := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(cfg.RateLimit),
		Burst:     cfg.RateBurst,
		ExpiresIn: 3 * time.Minute,
	})

	if r.server.Redis == nil {
		return memory
	}

	return NewRedisRateLimiterStore(r.server.Redis, windowLimit(cfg.RateLimit, cfg.RateBurst), memory, r.server.Logger)
}

// windowLimit is the number of requests one second may hold: the burst,
// but never less than the sustained rate.
func windowLimit(perSecond float64, burst int) int64 {
	limit := int64(math.Ceil(perSecond))
	if int64(burst) > limit {
		limit = int64(burst)
	}
	return limit
}

// RecordRateLimitHit sends a RateLimitHit custom event to New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}

var _ middleware.RateLimiterStore = (*RedisRateLimiterStore)(nil)

// RedisRateLimiterStore counts requests in fixed one-second windows with
// INCR and EXPIRE. When Redis fails it asks fallback instead, so an outage
// degrades to per-process limits rather than rejecting traffic.
type RedisRateLimiterStore struct {
	client   *redis.Client
	limit    int64
	fallback middleware.RateLimiterStore
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewRedisRateLimiterStore(client *redis.Client, limit int64, fallback middleware.RateLimiterStore, logger *zerolog.Logger) *RedisRateLimiterStore {
	return &RedisRateLimiterStore{
		client:   client,
		limit:    limit,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *RedisRateLimiterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	key := fmt.Sprintf("%s%s:%d", redisKeyPrefix, identifier, s.now().Unix())

	pipe := s.client.TxPipeline()
	count := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 2*redisWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("redis rate limiter unavailable, using in-memory limiter")
		return s.fallback.Allow(identifier)
	}

	return count.Val() <= s.limit, nil
}
