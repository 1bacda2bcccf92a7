// Package pipeline provides a minimal, type-safe chain-of-responsibility
// library: an ordered, runtime-mutable plan of handlers that carry a
// shared execution context from one to the next.
//
// # Overview
//
// A Plan owns an ordered sequence of handlers. Each handler holds a
// reference to the handler after it; execution starts at the first
// handler and follows those links, with each handler doing its work
// against the traversal's Context and then forwarding to its successor.
// The plan's job is structural: indexed insertion and removal,
// membership enforcement, and keeping the forward links consistent with
// the visible order whenever handlers are inserted.
//
// # Core Concepts
//
// The library is built around a single capability:
//
//	type Handler[In, Out any] interface {
//	    Invoke(*Context[In, Out]) error
//	    InvokeAsync(context.Context, *Context[In, Out]) error
//	    Next() Handler[In, Out]
//	    SetNext(Handler[In, Out])
//	    Name() Name
//	}
//
// Key components:
//   - Context: the per-traversal carrier of one immutable input and one
//     mutable output
//   - Node: the base handler providing linkage, plan membership, and the
//     default validate-and-forward behavior
//   - Transform/Apply: adapters that wrap plain functions into handlers
//   - Plan: the owning structure with indexed mutation and execution
//
// Handlers embed Node; custom handlers override Invoke and InvokeAsync
// and forward explicitly via Forward/ForwardAsync when their own work is
// done.
//
// # Quick Start
//
//	plan := pipeline.NewPlan[string, string]("greet")
//	_ = plan.Push(pipeline.Transform("exclaim", func(_ context.Context, s string) string {
//	    return s + "!"
//	}))
//	_ = plan.Push(pipeline.Transform("question", func(_ context.Context, s string) string {
//	    return s + "?"
//	}))
//
//	out, err := plan.Execute("Hello")
//	// out == "Hello?" - each Transform reads the original input,
//	// and the last handler to run owns the output.
//
// # Removal Hazard
//
// Insertion operations re-link the neighbors around the new handler.
// Removal operations do not: RemoveAt, Remove, and Clear shrink the
// plan's sequence but leave every handler's next reference exactly as it
// was. After removing a middle handler its former predecessor still
// forwards to it, so execution diverges from the visible handler list
// until the caller re-links with SetNext. Callers that mutate mid-chain
// own that re-linking.
//
// # Concurrency
//
// One traversal is one logical thread of control: the asynchronous path
// carries a context.Context through the chain but never runs handlers in
// parallel, and cancellation is not consulted once a traversal starts.
// Structural mutation is unsynchronized; serialize it externally.
// Concurrent Execute calls are safe when handlers keep no shared mutable
// state, since every call gets its own Context.
package pipeline
