// Package services implements the conversation core: session lifecycle,
// topic filtering, structured-action dispatch, affirmative-reply resolution,
// and the per-message orchestrator tying them together.
//
// This file centralizes common service-level error values so that they can
// be consistently returned by service methods and checked by callers.
package services

import "errors"

var (
	// ErrBackendUnavailable wraps model-backend failures so callers can
	// distinguish them from persistence errors.
	ErrBackendUnavailable = errors.New("model backend unavailable")
)
