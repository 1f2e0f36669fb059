package service

import "errors"

// Typed outcomes the request layer maps to presentation. Validation failures
// carry their own message via validation.Error; everything else unclassified
// propagates wrapped as a generic storage failure.
var (
	ErrNameInUse          = errors.New("username already in use")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("not the review owner")
	ErrReviewNotFound     = errors.New("review not found")
	ErrCSRF               = errors.New("missing or invalid csrf token")
)
