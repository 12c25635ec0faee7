// Package history exposes the sync journal over HTTP.
//
// # HTTP Endpoints
//
//   - GET /history : recent sync steps, newest first (supports ?limit= up to 500 and ?kind=).
package history
