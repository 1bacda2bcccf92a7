package pipeline

import "context"

// Handler defines the capability every pipeline handler exposes: a unit
// of work that can be invoked against an execution context, plus a
// mutable reference to the handler that runs after it.
//
// Execution follows the handlers' own next links, not the plan's list.
// A handler performs its work against the context (typically by setting
// the output) and then forwards to its successor. Whether a handler
// forwards before or after its own work is the handler's choice; the
// base Node behavior only validates the context and forwards.
//
// Key design principles:
//   - Type safety through generics (no interface{})
//   - Explicit error propagation, fail-fast on the first failure
//   - Named handlers for debugging and event reporting
//   - The asynchronous path carries a context.Context for tracing;
//     cancellation is not consulted mid-chain
//
// The interface contains an unexported method, so concrete handlers
// must embed Node to satisfy it. This is what lets a Plan enforce
// single-plan membership rather than merely assume it.
type Handler[In, Out any] interface {
	// Invoke runs the handler's work synchronously.
	Invoke(*Context[In, Out]) error

	// InvokeAsync runs the handler's work on the asynchronous path.
	// Handler i+1 does not begin until handler i's invocation settles.
	InvokeAsync(context.Context, *Context[In, Out]) error

	// Next returns the handler invoked after this one, or nil for a
	// terminal handler.
	Next() Handler[In, Out]

	// SetNext replaces the forward reference. No cycle validation is
	// performed; pointing a handler at itself is external misuse.
	SetNext(Handler[In, Out])

	// Name returns the handler's name for debugging and error reporting.
	Name() Name

	// node exposes the embedded Node so a Plan can manage linkage and
	// membership. Satisfiable only by embedding Node.
	node() *Node[In, Out]
}

// Name is a type alias for handler and plan names.
// Using this type encourages storing names as constants rather than
// using inline strings throughout your code.
//
// Example:
//
//	const (
//	    GreetPlanName     Name = "greet"
//	    AppendBangName    Name = "append-bang"
//	    AppendQueryName   Name = "append-query"
//	)
type Name = string
