// Package status exposes a project's sync state over HTTP.
//
// Every endpoint is read-only: nothing here creates, updates or deletes remote
// resources or local files. Plans are the same objects the CLI prints for --dry-run.
//
// # HTTP Endpoints
//
//   - GET /status/:kind : hash state of every manifest entry (supports ?env=).
//   - GET /plans/:kind/push : dry-run push plan (supports ?env= and ?policy=).
//   - GET /plans/:kind/pull : dry-run pull plan (supports ?mode=, ?env=, ?search=, ?id=).
//
// :kind is agents, tools or tests. Errors are returned as {"error": "..."} with a
// status derived from the error category: 404 not found, 409 ambiguous selector,
// 422 configuration, 502 remote failure, 503 rate limited.
package status
