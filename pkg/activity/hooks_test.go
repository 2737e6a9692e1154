package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNormalizeEvent(t *testing.T) {
	metadata := map[string]any{"actor": "test"}
	event := Event{
		Verb:     "  config.set  ",
		Keys:     []string{"zeta.b", "alpha.a"},
		Metadata: metadata,
	}
	normalized := NormalizeEvent(event)

	if normalized.Verb != "config.set" {
		t.Fatalf("verb = %q, want trimmed", normalized.Verb)
	}
	if normalized.Keys[0] != "alpha.a" || normalized.Keys[1] != "zeta.b" {
		t.Fatalf("keys = %v, want sorted", normalized.Keys)
	}
	normalized.Keys[0] = "mutated"
	if event.Keys[1] == "mutated" {
		t.Fatalf("normalization shares the caller's key slice")
	}
	normalized.Metadata["actor"] = "other"
	if metadata["actor"] != "test" {
		t.Fatalf("normalization shares the caller's metadata map")
	}
	if normalized.OccurredAt.IsZero() {
		t.Fatalf("timestamp not defaulted")
	}

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	keep := NormalizeEvent(Event{Verb: "config.reset", OccurredAt: at})
	if !keep.OccurredAt.Equal(at) {
		t.Fatalf("explicit timestamp replaced: %v", keep.OccurredAt)
	}
	if keep.Keys != nil {
		t.Fatalf("empty key list should normalize to nil")
	}
}

func TestHooksNotifyJoinsErrors(t *testing.T) {
	errA := errors.New("sink a down")
	errB := errors.New("sink b down")
	delivered := 0
	hooks := Hooks{
		HookFunc(func(context.Context, Event) error { return errA }),
		nil,
		HookFunc(func(context.Context, Event) error {
			delivered++
			return nil
		}),
		HookFunc(func(context.Context, Event) error { return errB }),
	}

	err := hooks.Notify(context.Background(), Event{Verb: VerbUpdate})
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("err = %v, want both sink errors", err)
	}
	if delivered != 1 {
		t.Fatalf("healthy hook notified %d times, want 1", delivered)
	}
}

func TestHooksNotifyDropsEmptyVerb(t *testing.T) {
	called := false
	hooks := Hooks{HookFunc(func(context.Context, Event) error {
		called = true
		return nil
	})}
	if err := hooks.Notify(context.Background(), Event{Verb: "   "}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if called {
		t.Fatalf("hook notified for verbless event")
	}
}

func TestHooksNotifyNilContext(t *testing.T) {
	hooks := Hooks{HookFunc(func(ctx context.Context, _ Event) error {
		if ctx == nil {
			return errors.New("nil context")
		}
		return nil
	})}
	if err := hooks.Notify(nil, Event{Verb: VerbSet}); err != nil { //nolint:staticcheck
		t.Fatalf("Notify: %v", err)
	}
}

func TestNilHookFunc(t *testing.T) {
	var fn HookFunc
	if err := fn.Notify(context.Background(), Event{Verb: VerbSet}); err != nil {
		t.Fatalf("nil HookFunc must be a no-op, got %v", err)
	}
}

func TestEmptyHooks(t *testing.T) {
	var hooks Hooks
	if hooks.Enabled() {
		t.Fatalf("empty hooks reported enabled")
	}
	if err := hooks.Notify(context.Background(), Event{Verb: VerbSet}); err != nil {
		t.Fatalf("Notify on empty hooks: %v", err)
	}
}
