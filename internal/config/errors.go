package config

import "errors"

// ErrInvalidConfig indicates that the merged configuration violates an
// application invariant (for example, a non-positive lockout threshold).
// Returned wrapped with a description of the offending field.
var ErrInvalidConfig = errors.New("invalid configuration")
