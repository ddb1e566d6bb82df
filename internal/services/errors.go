package services

import "errors"

// ErrValidation marks caller mistakes; handlers translate it to 400.
var ErrValidation = errors.New("validation failed")

// ErrNotFound covers both missing and foreign-owned resources; handlers
// translate it to 404.
var ErrNotFound = errors.New("not found")
