package role

import "errors"

// Validation errors for role inputs.
var (
	// ErrInvalidLevel is returned when a custom role level falls outside [1,89].
	ErrInvalidLevel = errors.New("role.invalid_level")

	// ErrInvalidName is returned when a role name is empty or exceeds 100 characters.
	ErrInvalidName = errors.New("role.invalid_name")

	// ErrInvalidDescription is returned when a description exceeds 500 characters.
	ErrInvalidDescription = errors.New("role.invalid_description")
)
