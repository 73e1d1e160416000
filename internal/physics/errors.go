package physics

import "errors"

var (
	// ErrUnknownBody is returned when a handle does not name a live body.
	ErrUnknownBody = errors.New("physics: unknown body handle")

	// ErrInvalidShape is returned for shapes with non-positive dimensions.
	ErrInvalidShape = errors.New("physics: invalid collider shape")

	// ErrSelfJoint is returned when a joint connects a body to itself.
	ErrSelfJoint = errors.New("physics: joint connects a body to itself")
)
