package store

import "errors"

// ErrNotFound is returned by table accessors when the requested key has
// no entry.
var ErrNotFound = errors.New("store: not found")
