package pipeline

import (
	"time"

	"github.com/google/uuid"
)

// Context carries one input/output pair across a single plan traversal.
// The input is fixed at construction and never mutated; the output is a
// plain mutable field that handlers overwrite in place. A Context has no
// identity beyond the traversal it was created for: the Plan builds a
// fresh one per Execute/ExecuteAsync call and discards it when the call
// returns.
//
// Handlers that derive their result from the original input should read
// Input, not Output. Output holds whatever the most recent handler set.
type Context[In, Out any] struct {
	id        uuid.UUID
	createdAt time.Time
	input     In
	output    Out
}

// NewContext creates a Context carrying the given input. The output
// starts as the zero value of Out.
func NewContext[In, Out any](input In) *Context[In, Out] {
	return &Context[In, Out]{
		id:        uuid.New(),
		createdAt: time.Now().UTC(),
		input:     input,
	}
}

// ID returns the unique identity of this traversal. It appears in
// spans, completion events, and traversal errors.
func (c *Context[In, Out]) ID() uuid.UUID {
	return c.id
}

// CreatedAt returns when the context was constructed, in UTC.
func (c *Context[In, Out]) CreatedAt() time.Time {
	return c.createdAt
}

// Input returns the value the traversal was started with.
// There is no setter; the input is immutable after construction.
func (c *Context[In, Out]) Input() In {
	return c.input
}

// Output returns the current output value.
func (c *Context[In, Out]) Output() Out {
	return c.output
}

// SetOutput replaces the output value. No validation is performed.
func (c *Context[In, Out]) SetOutput(output Out) {
	c.output = output
}
