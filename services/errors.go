package services

import "errors"

// Sentinel errors for the engine. Handlers map these onto HTTP statuses; all
// of them are terminal for the request (no retry).
var (
	ErrValidation         = errors.New("invalid request")
	ErrNotFound           = errors.New("not found")
	ErrQuotaExceeded      = errors.New("daily game limit reached")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrDuplicateReferral  = errors.New("referral already credited")
	ErrInvalidReferral    = errors.New("invalid referral")
)

// errVersionConflict signals that a concurrent writer bumped the profile
// version first; the whole read-modify-write is retried.
var errVersionConflict = errors.New("profile version conflict")
