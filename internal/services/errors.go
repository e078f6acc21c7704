package services

import "errors"

var (
	// ErrInvalidTransition is returned when a manual operation is attempted
	// from a stay status that does not permit it and force was not set.
	ErrInvalidTransition = errors.New("invalid stay transition")

	// ErrStayNotFound covers both a missing stay and a stay outside the
	// caller's tenant scope.
	ErrStayNotFound = errors.New("stay not found")

	ErrRoomNotFound = errors.New("room not found")

	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrGuestLinkInvalid = errors.New("guest link invalid or expired")

	// ErrStayOverlap is returned at booking creation when another active
	// stay already claims part of the requested range.
	ErrStayOverlap = errors.New("stay overlaps an existing booking")
)
