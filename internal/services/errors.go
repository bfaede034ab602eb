package services

import "errors"

var (
	// ErrInvalidPassword is returned by Signup for an empty or over-long password.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrForbidden is returned when a user acts on something they may not touch.
	ErrForbidden = errors.New("action not permitted")
)
