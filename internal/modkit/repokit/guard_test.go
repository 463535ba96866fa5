package repokit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// scriptedGuard returns a preset error and keeps the ctx it saw
type scriptedGuard struct {
	err     error
	lastCtx context.Context
}

func (g *scriptedGuard) Guard(ctx context.Context) error {
	g.lastCtx = ctx
	return g.err
}

func TestMustGuard_QuietWhenHealthy(t *testing.T) {
	t.Parallel()

	g := &scriptedGuard{}
	MustGuard(context.Background(), g) // must not panic

	// background ctx has no deadline, so MustGuard supplies one near +5s
	dl, ok := g.lastCtx.Deadline()
	if !ok {
		t.Fatal("Guard should run under a deadline")
	}
	if until := time.Until(dl); until <= 0 || until > 6*time.Second {
		t.Fatalf("deadline %v out of the expected window", until)
	}
}

func TestMustGuard_KeepsCallerDeadline(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	g := &scriptedGuard{}
	MustGuard(parent, g)

	want, _ := parent.Deadline()
	got, ok := g.lastCtx.Deadline()
	if !ok || !got.Equal(want) {
		t.Fatalf("caller deadline %v replaced with %v", want, got)
	}
}

func TestMustGuard_PanicsOnSickBackend(t *testing.T) {
	t.Parallel()

	g := &scriptedGuard{err: errors.New("pg: pool exhausted")}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected MustGuard to panic")
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("panic value %v is not an error", r)
		}
		if !strings.Contains(err.Error(), "dependency guard failed: pg: pool exhausted") {
			t.Fatalf("panic message %q", err.Error())
		}
	}()
	MustGuard(context.Background(), g)
}
