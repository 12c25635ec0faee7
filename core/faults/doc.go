// Package faults defines the error taxonomy shared by the local store, the remote
// gateway and the reconciliation engine.
//
// Every error that crosses a package boundary and that a caller may want to react to
// is wrapped in an *Error carrying a Category. Callers inspect it with Is or
// CategoryOf instead of matching strings:
//
//	if faults.Is(err, faults.NotFound) {
//	    // remote resource already gone
//	}
//
// Network and RateLimited failures are considered transient (see Retryable); the HTTP
// gateway retries them before surfacing the error to the engine, which then treats the
// failure like any other per-entry error.
package faults
