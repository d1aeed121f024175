// Package middleware holds the cross-cutting request handling: request ids,
// the request-scoped logger, New Relic tracing, CORS, request logging,
// rate limiting, panic recovery and the global error handler.
package middleware
