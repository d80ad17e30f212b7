package healthmodel

import "errors"

// Fatal configuration errors. The pipeline never substitutes a default
// score when one of these occurs; the request is aborted and the cause
// surfaced.
var (
	ErrModelUnavailable = errors.New("scoring model unavailable")
	ErrSchemaMismatch   = errors.New("scoring model schema mismatch")
)
