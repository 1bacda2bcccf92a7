package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestTransform(t *testing.T) {
	t.Run("Sets Output From Input", func(t *testing.T) {
		shout := Transform("shout", func(_ context.Context, s string) string {
			return strings.ToUpper(s)
		})

		ec := NewContext[string, string]("hello")
		if err := shout.Invoke(ec); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ec.Output() != "HELLO" {
			t.Errorf("expected %q, got %q", "HELLO", ec.Output())
		}
	})

	t.Run("Later Transform Overwrites", func(t *testing.T) {
		// Both read the original input, so the last handler to run
		// owns the output.
		exclaim := Transform("exclaim", func(_ context.Context, s string) string {
			return s + "!"
		})
		question := Transform("question", func(_ context.Context, s string) string {
			return s + "?"
		})
		exclaim.SetNext(question)

		ec := NewContext[string, string]("Hello")
		if err := exclaim.Invoke(ec); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ec.Output() != "Hello?" {
			t.Errorf("expected %q, got %q", "Hello?", ec.Output())
		}
	})

	t.Run("Nil Context Fails", func(t *testing.T) {
		shout := Transform("shout", func(_ context.Context, s string) string {
			return strings.ToUpper(s)
		})

		if err := shout.Invoke(nil); !errors.Is(err, ErrNilContext) {
			t.Errorf("expected ErrNilContext, got %v", err)
		}
	})
}

func TestApply(t *testing.T) {
	t.Run("Full Context Access", func(t *testing.T) {
		sum := Apply("sum", func(_ context.Context, ec *Context[int, int]) error {
			ec.SetOutput(ec.Output() + ec.Input())
			return nil
		})

		ec := NewContext[int, int](5)
		ec.SetOutput(10)
		if err := sum.Invoke(ec); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ec.Output() != 15 {
			t.Errorf("expected 15, got %d", ec.Output())
		}
	})

	t.Run("Error Stops Forwarding", func(t *testing.T) {
		boom := errors.New("boom")
		forwarded := false

		failing := Apply("failing", func(_ context.Context, _ *Context[string, string]) error {
			return boom
		})
		failing.SetNext(Apply("after", func(_ context.Context, _ *Context[string, string]) error {
			forwarded = true
			return nil
		}))

		err := failing.Invoke(NewContext[string, string]("in"))
		if !errors.Is(err, boom) {
			t.Fatalf("expected handler error, got %v", err)
		}
		if forwarded {
			t.Error("failed handler must not forward")
		}
	})

	t.Run("Success Forwards", func(t *testing.T) {
		var order []Name

		first := Apply("first", func(_ context.Context, _ *Context[string, string]) error {
			order = append(order, "first")
			return nil
		})
		first.SetNext(Apply("second", func(_ context.Context, _ *Context[string, string]) error {
			order = append(order, "second")
			return nil
		}))

		if err := first.Invoke(NewContext[string, string]("in")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(order) != 2 || order[0] != "first" || order[1] != "second" {
			t.Errorf("expected [first second], got %v", order)
		}
	})
}

func TestStepInvokeAsync(t *testing.T) {
	t.Run("Context Reaches The Function", func(t *testing.T) {
		type ctxKey struct{}
		var seen any

		step := Apply("probe", func(ctx context.Context, _ *Context[string, string]) error {
			seen = ctx.Value(ctxKey{})
			return nil
		})

		ctx := context.WithValue(context.Background(), ctxKey{}, "marker")
		if err := step.InvokeAsync(ctx, NewContext[string, string]("in")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen != "marker" {
			t.Errorf("expected context value to reach the function, got %v", seen)
		}
	})

	t.Run("Nil Go Context Tolerated", func(t *testing.T) {
		step := Transform("shout", func(_ context.Context, s string) string {
			return strings.ToUpper(s)
		})

		ec := NewContext[string, string]("hi")
		if err := step.InvokeAsync(nil, ec); err != nil { //nolint:staticcheck
			t.Fatalf("unexpected error: %v", err)
		}
		if ec.Output() != "HI" {
			t.Errorf("expected %q, got %q", "HI", ec.Output())
		}
	})

	t.Run("Nil Execution Context Fails", func(t *testing.T) {
		step := Apply("noop", func(_ context.Context, _ *Context[string, string]) error {
			return nil
		})

		if err := step.InvokeAsync(context.Background(), nil); !errors.Is(err, ErrNilContext) {
			t.Errorf("expected ErrNilContext, got %v", err)
		}
	})

	t.Run("Forwards Asynchronously In Order", func(t *testing.T) {
		var order []Name

		a := Apply("a", func(_ context.Context, _ *Context[string, string]) error {
			order = append(order, "a")
			return nil
		})
		b := Apply("b", func(_ context.Context, _ *Context[string, string]) error {
			order = append(order, "b")
			return nil
		})
		a.SetNext(b)

		if err := a.InvokeAsync(context.Background(), NewContext[string, string]("in")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(order) != 2 || order[0] != "a" || order[1] != "b" {
			t.Errorf("expected [a b], got %v", order)
		}
	})
}
