package domain

import "errors"

var (
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrPassengerRequired   = errors.New("passenger name is required")
	ErrInvalidSortOrder    = errors.New("invalid sort order")
)
