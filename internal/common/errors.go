// Package common defines the sentinel errors shared by the Ark server layers
// and the single classification of failures into kinds. Callers should use
// errors.Is to match the sentinels and KindOf to classify wrapped errors.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")

	// Request validation errors.
	ErrorInvalidInput = errors.New("invalid input")
	ErrorTooLarge     = errors.New("request body too large")

	// Dependency and generic failures.
	ErrorUpstream     = errors.New("upstream failure")
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
)
