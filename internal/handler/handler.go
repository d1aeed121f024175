// Package handler is the HTTP layer between the router and the services.
//
// Handlers bind and validate through Handle, then call the matching
// service. Errors go back to the global error handler untouched.
package handler
