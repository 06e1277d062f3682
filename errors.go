package pfx

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/oriumgames/pfx/shape"
)

var (
	// ErrInvalidArgument is returned synchronously by any call that violates
	// its contract: a negative dt, an invalid particle field, a bad trait.
	// It is the same error value as shape.ErrInvalidArgument.
	ErrInvalidArgument = shape.ErrInvalidArgument

	// ErrConstruction is returned when a value cannot be built from the given
	// fields. It wraps ErrInvalidArgument.
	ErrConstruction = shape.ErrConstruction

	// ErrSinkFailure wraps errors returned by a Sink.
	ErrSinkFailure = errors.New("render sink failure")

	// ErrClosed is returned by operations on a closed System.
	ErrClosed = errors.New("system closed")

	// ErrConcurrentTick is returned when Tick is called while another tick
	// of the same system is still running.
	ErrConcurrentTick = errors.New("tick already in progress")
)

// RenderError reports a failure while rendering one object.
// It is passed to the system's error handler and never returned from Tick.
type RenderError struct {
	Object   uuid.UUID
	Renderer string
	Tick     uint64
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("pfx: renderer %s failed for object %s on tick %d: %v", e.Renderer, e.Object, e.Tick, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// UpdateError reports a failure of an updater for one object.
type UpdateError struct {
	Object  uuid.UUID
	Updater string
	Tick    uint64
	Err     error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("pfx: updater %s failed for object %s on tick %d: %v", e.Updater, e.Object, e.Tick, e.Err)
}

func (e *UpdateError) Unwrap() error {
	return e.Err
}
