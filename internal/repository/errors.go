package repository

import "errors"

// ErrNotFound is returned when a requested record or file does not exist.
var ErrNotFound = errors.New("not found")
