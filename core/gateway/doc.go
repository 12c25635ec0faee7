// Package gateway is the remote side of synchronization: the operation contract the
// reconciliation engine calls, and its two backends.
//
// # Contract
//
// Gateway exposes Create, Update, Get, List and Delete per resource kind and
// environment. List returns only metadata (remote ID and display name), which is all
// a pull needs to classify resources. Errors are always *faults.Error.
//
// # HTTP backend
//
// HTTPGateway speaks the remote REST API. Each kind has its own route table entry
// (base path, create path, update verb, id field, body envelope). Credentials and base
// URL resolve per environment from REMOTE_API_KEY_<ENV> / REMOTE_BASE_URL_<ENV>, with
// the configured values as fallback. Every request carries an X-Request-ID header.
//
// Calls are throttled client-side with a token bucket (golang.org/x/time/rate) and
// network or rate-limited failures are retried with exponential backoff
// (cenkalti/backoff). Status mapping:
//
//	401, 403  unauthorized
//	404       not_found
//	429       rate_limited
//	5xx       network
//	other     unknown
//
// # Object-storage backend
//
// ObjectStoreGateway mirrors resources in an S3-compatible bucket through
// core/storage. Keys are "<prefix>/<env>/<kind>s/<id>.json" with uuid identifiers and
// the display name kept in object metadata so listings stay metadata-only.
package gateway
