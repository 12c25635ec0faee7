// Package middleware contains HTTP middleware for the serve command's Fiber app.
//
// # Components
//
//   - auth: API key validation (X-API-Key header or api_key query parameter).
//     Disabled when no key is configured; selected paths such as /metrics can
//     bypass it.
//   - rayid: tags every request with a unique ray id, stored in Locals("ray_id")
//     for logger.WithRayID and echoed in the X-Ray-ID response header.
//
// rayid is registered first so even rejected requests are traceable.
package middleware
