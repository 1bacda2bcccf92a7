package pipeline

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability constants for the Plan.
const (
	// Metrics.
	PlanExecutionsTotal = metricz.Key("plan.executions.total")
	PlanSuccessesTotal  = metricz.Key("plan.successes.total")
	PlanFailuresTotal   = metricz.Key("plan.failures.total")
	PlanHandlersTotal   = metricz.Key("plan.handlers.total")
	PlanDurationMs      = metricz.Key("plan.duration.ms")

	// Spans.
	PlanExecuteSpan = tracez.Key("plan.execute")

	// Tags.
	PlanTagHandlerCount = tracez.Tag("plan.handler_count")
	PlanTagContextID    = tracez.Tag("plan.context_id")
	PlanTagAsync        = tracez.Tag("plan.async")
	PlanTagSuccess      = tracez.Tag("plan.success")
	PlanTagError        = tracez.Tag("plan.error")

	// Hook event keys.
	PlanEventComplete = hookz.Key("plan.complete")
)

// PlanEvent represents the completion of one plan traversal.
// It is emitted via hookz after every Execute/ExecuteAsync call that got
// past its preconditions, whether the chain succeeded or failed.
type PlanEvent struct {
	Name         Name          // Plan name
	ContextID    uuid.UUID     // Identity of the traversal's context
	HandlerCount int           // Number of handlers in the plan's sequence
	Async        bool          // Whether the asynchronous path was used
	Success      bool          // Whether the chain settled without error
	Error        error         // Error if the chain failed
	Duration     time.Duration // How long the traversal took
	Timestamp    time.Time     // When the event occurred
}

// Plan owns an ordered collection of handlers and drives end-to-end
// execution by invoking the first one. It keeps two structures in step:
// its own ordered sequence (for indexed mutation, membership checks, and
// enumeration) and the handlers' next links (which is what execution
// actually follows). Every insertion re-links the affected neighbors so
// both agree.
//
// Removal operations (RemoveAt, Remove, Clear) deliberately do NOT
// re-link: they only shrink the sequence. After removing a middle
// handler, its former predecessor still forwards to it, so direct
// traversal no longer matches the visible handler list until the caller
// re-links. This is a documented hazard, not a defect; see the method
// docs.
//
// A Plan's sequence is not safe for concurrent structural mutation; no
// locking is provided and callers must serialize mutations externally.
// Concurrent Execute calls are safe to the extent the handlers
// themselves are: each call gets its own Context.
//
// # Observability
//
// Metrics:
//   - plan.executions.total: Counter of traversals started
//   - plan.successes.total: Counter of traversals that settled cleanly
//   - plan.failures.total: Counter of traversals that failed
//   - plan.handlers.total: Gauge of handlers at traversal time
//   - plan.duration.ms: Gauge of last traversal duration
//
// Traces:
//   - plan.execute: One span per traversal, tagged with the context id
//
// Events (via hooks):
//   - plan.complete: Fired after every traversal
//
// Example:
//
//	const GreetPlanName = pipeline.Name("greet")
//	plan := pipeline.NewPlan[string, string](GreetPlanName)
//	_ = plan.Push(pipeline.Transform("shout", func(_ context.Context, s string) string {
//	    return strings.ToUpper(s)
//	}))
//
//	plan.OnComplete(func(ctx context.Context, event pipeline.PlanEvent) error {
//	    log.Printf("traversal %s: %d handlers in %v",
//	        event.ContextID, event.HandlerCount, event.Duration)
//	    return nil
//	})
type Plan[In, Out any] struct {
	name     Name
	handlers []Handler[In, Out]
	clock    clockz.Clock
	metrics  *metricz.Registry
	tracer   *tracez.Tracer
	hooks    *hookz.Hooks[PlanEvent]
}

// NewPlan creates an empty Plan. Handlers are added with Push, Unshift,
// InsertAt, After, and Before.
func NewPlan[In, Out any](name Name) *Plan[In, Out] {
	// Initialize observability
	metrics := metricz.New()
	metrics.Counter(PlanExecutionsTotal)
	metrics.Counter(PlanSuccessesTotal)
	metrics.Counter(PlanFailuresTotal)
	metrics.Gauge(PlanHandlersTotal)
	metrics.Gauge(PlanDurationMs)

	return &Plan[In, Out]{
		name:     name,
		handlers: make([]Handler[In, Out], 0),
		metrics:  metrics,
		tracer:   tracez.New(),
		hooks:    hookz.New[PlanEvent](),
	}
}

// Name returns the name of this plan.
func (p *Plan[In, Out]) Name() Name {
	return p.name
}

// Len returns the number of handlers in the plan's sequence.
func (p *Plan[In, Out]) Len() int {
	return len(p.handlers)
}

// Handlers returns a copy of the plan's ordered handler sequence.
// Mutating the returned slice does not affect the plan.
func (p *Plan[In, Out]) Handlers() []Handler[In, Out] {
	return slices.Clone(p.handlers)
}

// Names returns the names of all handlers in sequence order.
func (p *Plan[In, Out]) Names() []Name {
	names := make([]Name, len(p.handlers))
	for i, h := range p.handlers {
		names[i] = h.Name()
	}
	return names
}

// InsertAt splices the handler into the sequence at the given position
// and establishes the forward links around it: the predecessor (if any)
// now forwards to the new handler, and the new handler forwards to the
// handler that previously occupied the slot (if inserting before the
// tail). Inserting at the tail leaves the handler's pre-existing next
// reference untouched.
//
// Fails with ErrIndexOutOfBounds unless 0 <= index <= Len(), with
// ErrNilHandler for an absent handler, and with ErrDuplicateHandler if
// the handler already belongs to a plan. A rejected call changes
// nothing.
func (p *Plan[In, Out]) InsertAt(index int, handler Handler[In, Out]) error {
	if index < 0 || index > len(p.handlers) {
		return ErrIndexOutOfBounds
	}
	if handler == nil {
		return ErrNilHandler
	}
	if handler.node().owner != nil {
		return ErrDuplicateHandler
	}

	if index > 0 {
		p.handlers[index-1].SetNext(handler)
	}
	if index < len(p.handlers) {
		handler.SetNext(p.handlers[index])
	}
	p.handlers = slices.Insert(p.handlers, index, handler)
	handler.node().owner = p
	return nil
}

// Push adds a handler to the back of the sequence (runs last).
// Equivalent to InsertAt(Len(), handler).
func (p *Plan[In, Out]) Push(handler Handler[In, Out]) error {
	return p.InsertAt(len(p.handlers), handler)
}

// Unshift adds a handler to the front of the sequence (runs first).
// Equivalent to InsertAt(0, handler).
func (p *Plan[In, Out]) Unshift(handler Handler[In, Out]) error {
	return p.InsertAt(0, handler)
}

// After inserts a handler immediately after an existing member.
// Fails with ErrNilHandler if either argument is absent, and with
// ErrHandlerNotFound if existing is not a current member, regardless of
// whether the new handler is valid.
func (p *Plan[In, Out]) After(existing, handler Handler[In, Out]) error {
	if existing == nil || handler == nil {
		return ErrNilHandler
	}
	index := p.indexOf(existing)
	if index < 0 {
		return ErrHandlerNotFound
	}
	return p.InsertAt(index+1, handler)
}

// Before inserts a handler at an existing member's position, shifting
// the existing handler and everything after it one slot right.
// Argument checks match After.
func (p *Plan[In, Out]) Before(existing, handler Handler[In, Out]) error {
	if existing == nil || handler == nil {
		return ErrNilHandler
	}
	index := p.indexOf(existing)
	if index < 0 {
		return ErrHandlerNotFound
	}
	return p.InsertAt(index, handler)
}

// RemoveAt removes the handler at the given position from the sequence
// and releases its plan membership. Fails with ErrIndexOutOfBounds
// unless 0 <= index < Len().
//
// RemoveAt does not re-link the former neighbors: the predecessor keeps
// forwarding to the removed handler until the caller re-links it. The
// removed handler's own next reference is also left intact.
func (p *Plan[In, Out]) RemoveAt(index int) error {
	if index < 0 || index >= len(p.handlers) {
		return ErrIndexOutOfBounds
	}
	p.handlers[index].node().owner = nil
	p.handlers = slices.Delete(p.handlers, index, index+1)
	return nil
}

// Remove removes the given handler from the sequence. Fails with
// ErrNilHandler for an absent argument and ErrHandlerNotFound if the
// handler is not a current member. Shares RemoveAt's no-re-link hazard.
func (p *Plan[In, Out]) Remove(handler Handler[In, Out]) error {
	if handler == nil {
		return ErrNilHandler
	}
	index := p.indexOf(handler)
	if index < 0 {
		return ErrHandlerNotFound
	}
	return p.RemoveAt(index)
}

// Clear resets the sequence to empty and releases every handler's plan
// membership. No handler's next reference is unlinked: chains formed
// among the previously held handlers remain intact externally.
func (p *Plan[In, Out]) Clear() {
	for _, h := range p.handlers {
		h.node().owner = nil
	}
	p.handlers = p.handlers[:0]
}

// Execute constructs a fresh Context from the input, synchronously
// invokes the first handler, and returns the context's output once the
// chain returns. Fails with ErrEmptyPlan when the plan has no handlers.
//
// End-to-end traversal correctness depends entirely on the forward links
// established by the insertion operations: each handler forwards to its
// own successor, the plan does not iterate the sequence itself.
func (p *Plan[In, Out]) Execute(input In) (Out, error) {
	return p.run(context.Background(), input, false)
}

// ExecuteAsync is the asynchronous counterpart of Execute. The returned
// value is available only after the full chain has settled; handlers are
// still invoked strictly in order. The context is carried for tracing
// and hooks but is not polled between handlers - once started, a
// traversal runs to completion or failure.
func (p *Plan[In, Out]) ExecuteAsync(ctx context.Context, input In) (Out, error) {
	return p.run(ctx, input, true)
}

func (p *Plan[In, Out]) run(ctx context.Context, input In, async bool) (Out, error) {
	var zero Out
	if len(p.handlers) == 0 {
		return zero, ErrEmptyPlan
	}

	// Handle nil context
	if ctx == nil {
		ctx = context.Background()
	}

	clock := p.getClock()
	ec := NewContext[In, Out](input)

	p.metrics.Counter(PlanExecutionsTotal).Inc()
	p.metrics.Gauge(PlanHandlersTotal).Set(float64(len(p.handlers)))
	start := clock.Now()

	ctx, span := p.tracer.StartSpan(ctx, PlanExecuteSpan)
	span.SetTag(PlanTagHandlerCount, fmt.Sprintf("%d", len(p.handlers)))
	span.SetTag(PlanTagContextID, ec.ID().String())
	span.SetTag(PlanTagAsync, fmt.Sprintf("%t", async))

	var err error
	if async {
		err = p.handlers[0].InvokeAsync(ctx, ec)
	} else {
		err = p.handlers[0].Invoke(ec)
	}
	elapsed := clock.Now().Sub(start)

	p.metrics.Gauge(PlanDurationMs).Set(float64(elapsed.Milliseconds()))
	if err == nil {
		span.SetTag(PlanTagSuccess, "true")
		p.metrics.Counter(PlanSuccessesTotal).Inc()
	} else {
		span.SetTag(PlanTagSuccess, "false")
		span.SetTag(PlanTagError, err.Error())
		p.metrics.Counter(PlanFailuresTotal).Inc()
	}
	span.Finish()

	_ = p.hooks.Emit(ctx, PlanEventComplete, PlanEvent{ //nolint:errcheck
		Name:         p.name,
		ContextID:    ec.ID(),
		HandlerCount: len(p.handlers),
		Async:        async,
		Success:      err == nil,
		Error:        err,
		Duration:     elapsed,
		Timestamp:    clock.Now(),
	})

	if err != nil {
		return ec.Output(), &Error[In]{
			Plan:      p.name,
			ContextID: ec.ID(),
			InputData: input,
			Err:       err,
			Duration:  elapsed,
			Timestamp: clock.Now(),
		}
	}
	return ec.Output(), nil
}

// indexOf returns the position of the handler in the sequence, or -1.
// Membership is by instance identity, not by name.
func (p *Plan[In, Out]) indexOf(handler Handler[In, Out]) int {
	for i, h := range p.handlers {
		if h == handler {
			return i
		}
	}
	return -1
}

// WithClock sets a custom clock for testing.
func (p *Plan[In, Out]) WithClock(clock clockz.Clock) *Plan[In, Out] {
	p.clock = clock
	return p
}

// getClock returns the clock to use.
func (p *Plan[In, Out]) getClock() clockz.Clock {
	if p.clock == nil {
		return clockz.RealClock
	}
	return p.clock
}

// Metrics returns the metrics registry for this plan.
func (p *Plan[In, Out]) Metrics() *metricz.Registry {
	return p.metrics
}

// Tracer returns the tracer for this plan.
func (p *Plan[In, Out]) Tracer() *tracez.Tracer {
	return p.tracer
}

// OnComplete registers a handler for traversal completion events.
// The handler is called asynchronously after every Execute/ExecuteAsync
// call that got past its preconditions.
func (p *Plan[In, Out]) OnComplete(handler func(context.Context, PlanEvent) error) error {
	_, err := p.hooks.Hook(PlanEventComplete, handler)
	return err
}

// Close gracefully shuts down observability components.
func (p *Plan[In, Out]) Close() error {
	if p.tracer != nil {
		p.tracer.Close()
	}
	p.hooks.Close()
	return nil
}
