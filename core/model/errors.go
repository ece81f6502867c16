package model

import "errors"

var (
	// ErrInvalidInput is returned when a request carries a negative,
	// non-finite or unknown value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMultipleActiveFuels is returned when a fuel configuration enables
	// more than one fuel.
	ErrMultipleActiveFuels = errors.New("more than one fuel enabled")
	// ErrInvalidVehicle is returned by Vehicle.Validate.
	ErrInvalidVehicle = errors.New("invalid vehicle")
)
