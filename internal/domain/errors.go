package domain

import "errors"

var (
	// ErrNotFound is returned when a product or review does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicateID is returned when creating a record whose id is already taken
	ErrDuplicateID = errors.New("duplicate id")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal is returned when an internal error occurs
	ErrInternal = errors.New("internal error")
)
