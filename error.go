package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Plan modification and invocation errors. All preconditions fail with
// one of these sentinels, synchronously, before any state changes and
// before any handler runs.
var (
	// ErrNilContext is returned when a handler is invoked with an
	// absent execution context.
	ErrNilContext = errors.New("nil context")

	// ErrNilHandler is returned when an operation requires a handler
	// argument and none was given.
	ErrNilHandler = errors.New("nil handler")

	// ErrIndexOutOfBounds is returned when a structural index falls
	// outside the valid range for the operation.
	ErrIndexOutOfBounds = errors.New("index out of bounds")

	// ErrHandlerNotFound is returned when a referenced handler is not a
	// current member of the plan.
	ErrHandlerNotFound = errors.New("handler not found")

	// ErrDuplicateHandler is returned when inserting a handler that
	// already belongs to a plan, this one or another.
	ErrDuplicateHandler = errors.New("handler already belongs to a plan")

	// ErrEmptyPlan is returned when execution is attempted with zero
	// handlers.
	ErrEmptyPlan = errors.New("plan is empty")
)

// Error provides context about a traversal failure. It wraps the
// handler's underlying error with the plan name, the identity of the
// execution context that was being carried, the original input, and
// timing information.
//
// Precondition failures (the sentinel errors above) are returned bare;
// only errors surfaced while the chain was running are wrapped.
type Error[In any] struct {
	InputData In
	Timestamp time.Time
	Err       error
	Plan      Name
	ContextID uuid.UUID
	Duration  time.Duration
}

// Error implements the error interface, providing a detailed message.
func (e *Error[In]) Error() string {
	return fmt.Sprintf("plan %q failed after %v: %v", e.Plan, e.Duration, e.Err)
}

// Unwrap returns the underlying error, supporting errors.Is and
// errors.As.
func (e *Error[In]) Unwrap() error {
	return e.Err
}
