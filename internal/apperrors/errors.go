package apperrors

import "errors"

// ErrNotFound indicates that a requested record could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrSourceUnavailable indicates that one external source attempt failed
// (timeout, non-2xx, unusable payload). It is transient per series code:
// callers try the next code in the chain.
var ErrSourceUnavailable = errors.New("source unavailable")

// ErrStorageUnavailable indicates the database could not be reached at all.
// Unlike per-record write failures this one is fatal for the whole run.
var ErrStorageUnavailable = errors.New("storage unavailable")
