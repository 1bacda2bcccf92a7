package pipeline

import "context"

// Step is the basic concrete handler created by the adapter functions
// Transform and Apply. It runs its wrapped function against the context
// and then forwards to the next handler, so work always happens before
// delegation. Handlers that need to forward first (or not at all) can
// embed Node directly and write their own Invoke.
type Step[In, Out any] struct {
	Node[In, Out]
	fn func(context.Context, *Context[In, Out]) error
}

// Invoke runs the step's work, then forwards on success.
func (s *Step[In, Out]) Invoke(ec *Context[In, Out]) error {
	if ec == nil {
		return ErrNilContext
	}
	if err := s.fn(context.Background(), ec); err != nil {
		return err
	}
	return s.Forward(ec)
}

// InvokeAsync runs the step's work on the asynchronous path. The
// successor's asynchronous invocation is awaited in turn; no work runs
// in parallel.
func (s *Step[In, Out]) InvokeAsync(ctx context.Context, ec *Context[In, Out]) error {
	if ec == nil {
		return ErrNilContext
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.fn(ctx, ec); err != nil {
		return err
	}
	return s.ForwardAsync(ctx, ec)
}

// Transform creates a handler that applies a pure function to the
// traversal input and stores the result as the output. Transform is the
// simplest handler - use it when the work always succeeds and depends
// only on the original input.
//
// Note the function receives the input, not the current output: a later
// Transform in a chain overwrites what earlier handlers produced.
//
// Example:
//
//	shout := pipeline.Transform("shout", func(_ context.Context, s string) string {
//	    return strings.ToUpper(s)
//	})
func Transform[In, Out any](name Name, fn func(context.Context, In) Out) *Step[In, Out] {
	return &Step[In, Out]{
		Node: Node[In, Out]{name: name},
		fn: func(ctx context.Context, ec *Context[In, Out]) error {
			ec.SetOutput(fn(ctx, ec.Input()))
			return nil
		},
	}
}

// Apply creates a handler from a function that can fail. The function
// receives the full execution context and may read the input, read the
// current output, and set a new output. On error the chain stops and the
// error propagates to the caller; the next handler is never invoked.
//
// Example:
//
//	parse := pipeline.Apply("parse", func(_ context.Context, ec *pipeline.Context[string, Config]) error {
//	    cfg, err := parseConfig(ec.Input())
//	    if err != nil {
//	        return err
//	    }
//	    ec.SetOutput(cfg)
//	    return nil
//	})
func Apply[In, Out any](name Name, fn func(context.Context, *Context[In, Out]) error) *Step[In, Out] {
	return &Step[In, Out]{
		Node: Node[In, Out]{name: name},
		fn:   fn,
	}
}
