// Package errs defines the error shapes the API sends to clients.
//
// Services and handlers return *HTTPError for anything the client caused
// or should know about; the global error handler renders it as JSON.
// Everything else becomes a generic 500.
package errs
