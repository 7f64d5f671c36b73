package locomotion

import "errors"

var (
	ErrMissingAnimation = errors.New("animation driver is required")
	ErrMissingInput     = errors.New("input source is required")
	ErrMissingPhysics   = errors.New("physics query is required")
	ErrMissingCamera    = errors.New("camera provider is required")
	ErrAlreadyActive    = errors.New("controller is already active")
)
