// Package document models resource configuration files as generic JSON objects.
//
// A configuration is treated as opaque data except for the display name. The package
// provides three things on top of the Document type:
//
// # Canonical hashing
//
// Hash produces an order-independent sha256 fingerprint. Object keys are sorted at
// every depth, array order is preserved and numbers are normalised, so two files that
// differ only in key order or in number spelling ("1" vs "1.0") hash identically while
// any leaf change (including whitespace inside a string) changes the digest.
//
// # Key casing
//
// The remote API speaks snake_case while local files may be kept in camelCase. A
// Normalizer rewrites keys recursively and consults an OpaquePredicate to leave
// free-form dictionaries alone: header maps keep "Content-Type" verbatim. Values are
// never rewritten, so arrays of {name, value} header descriptors are safe by
// construction.
//
// # Usage
//
//	doc, err := document.Decode(raw)
//	snake := document.DefaultNormalizer.Apply(document.Snake, doc)
//	fingerprint := document.Hash(snake)
package document
