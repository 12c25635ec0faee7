// Package loader provides the feature loading system used by the serve command.
//
// Each feature implements the Feature interface, which reports whether it is enabled
// and registers its routes.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
// The Manager holds the registered features. Register() adds one; LoadAll() loads
// every enabled feature in registration order and stops at the first error.
//
// Features such as 'status' and 'history' are developed and tested in isolation and
// only meet in cmd/serve.go.
package loader
