// Package prompt asks the user to confirm an action. A false answer aborts
// the action with no side effects.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

type Confirmer interface {
	Confirm(ctx context.Context, message string) bool
}

// Func adapts a function to Confirmer.
type Func func(ctx context.Context, message string) bool

func (f Func) Confirm(ctx context.Context, message string) bool { return f(ctx, message) }

// Always answers yes.
func Always(yes bool) Confirmer {
	return Func(func(context.Context, string) bool { return yes })
}

type decisionKey struct{}

// WithDecision carries the user's answer on the request, for clients that
// ask before they call.
func WithDecision(ctx context.Context, yes bool) context.Context {
	return context.WithValue(ctx, decisionKey{}, yes)
}

// FromContext confirms only when the request carried a yes.
func FromContext() Confirmer {
	return Func(func(ctx context.Context, _ string) bool {
		yes, _ := ctx.Value(decisionKey{}).(bool)
		return yes
	})
}

type terminal struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal asks "message [y/N]" on out and reads the answer from in. Only
// y or yes, in any case, confirms.
func NewTerminal(in io.Reader, out io.Writer) Confirmer {
	return &terminal{in: bufio.NewReader(in), out: out}
}

func (t *terminal) Confirm(ctx context.Context, message string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ctx.Err() != nil {
		return false
	}
	fmt.Fprintf(t.out, "%s [y/N] ", message)
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// Recorder wraps a Confirmer and remembers every question asked.
type Recorder struct {
	mu       sync.Mutex
	next     Confirmer
	Messages []string
}

func NewRecorder(next Confirmer) *Recorder { return &Recorder{next: next} }

func (r *Recorder) Confirm(ctx context.Context, message string) bool {
	r.mu.Lock()
	r.Messages = append(r.Messages, message)
	r.mu.Unlock()
	return r.next.Confirm(ctx, message)
}

// Last is the most recent question, or "".
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[len(r.Messages)-1]
}
