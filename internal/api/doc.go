// Package api adapts HTTP to the application services: routing, request
// decoding and validation, authentication extraction, and sanitized
// response and error formatting.
package api
