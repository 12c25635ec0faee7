// Package server builds the HTTP surface of the serve command.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key checked by the auth
// middleware, and the lifetime of the remote listing cache behind the plan
// endpoints.
//
// # Middleware order
//
//  1. rayid: tags the request and every log line.
//  2. request logging.
//  3. /health and /metrics, served without a key.
//  4. auth: every feature route requires X-API-Key when a key is configured.
package server
