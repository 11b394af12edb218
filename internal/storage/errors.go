package storage

import "errors"

// ErrNotFound is returned when a submission does not exist.
var ErrNotFound = errors.New("submission not found")
