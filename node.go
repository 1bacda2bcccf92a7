package pipeline

import "context"

// Node is the base pipeline handler. On its own it is a pass-through:
// Invoke validates the context and forwards to the next handler if one
// is linked. Concrete handlers embed Node to pick up linkage and plan
// membership, override Invoke/InvokeAsync with their own work, and call
// Forward/ForwardAsync explicitly when they are ready to delegate.
//
// A Node is constructed standalone and may be pre-linked to a successor
// before it is ever inserted into a Plan. It can belong to at most one
// Plan at a time; the Plan stamps and releases membership as the node is
// inserted and removed.
type Node[In, Out any] struct {
	name  Name
	next  Handler[In, Out]
	owner *Plan[In, Out]
}

// NewNode creates a standalone terminal Node with the given name.
func NewNode[In, Out any](name Name) *Node[In, Out] {
	return &Node[In, Out]{name: name}
}

// Name returns the handler's name for debugging and error reporting.
func (n *Node[In, Out]) Name() Name {
	return n.name
}

// Next returns the linked successor, or nil for a terminal handler.
func (n *Node[In, Out]) Next() Handler[In, Out] {
	return n.next
}

// SetNext replaces the forward reference. Setting does not validate
// against cycles; a handler pointed at itself will recurse until the
// stack runs out.
func (n *Node[In, Out]) SetNext(next Handler[In, Out]) {
	n.next = next
}

// Invoke performs the base handler behavior: fail on an absent context,
// otherwise forward to the next handler. A terminal node returns nil
// without action.
func (n *Node[In, Out]) Invoke(ec *Context[In, Out]) error {
	if ec == nil {
		return ErrNilContext
	}
	return n.Forward(ec)
}

// InvokeAsync is the asynchronous counterpart of Invoke. The context
// precondition is checked before any work happens downstream.
func (n *Node[In, Out]) InvokeAsync(ctx context.Context, ec *Context[In, Out]) error {
	if ec == nil {
		return ErrNilContext
	}
	return n.ForwardAsync(ctx, ec)
}

// Forward delegates to the next handler, or returns nil when this node
// is terminal. Concrete handlers call this from their own Invoke once
// their work is done.
func (n *Node[In, Out]) Forward(ec *Context[In, Out]) error {
	if n.next == nil {
		return nil
	}
	return n.next.Invoke(ec)
}

// ForwardAsync delegates to the next handler's asynchronous invocation.
// The successor does not begin until this call is made, and this call
// does not return until the rest of the chain has settled.
func (n *Node[In, Out]) ForwardAsync(ctx context.Context, ec *Context[In, Out]) error {
	if n.next == nil {
		return nil
	}
	return n.next.InvokeAsync(ctx, ec)
}

func (n *Node[In, Out]) node() *Node[In, Out] {
	return n
}
