// Package binding adapts accessor calls to the three-state result a view
// renders: Loading, then exactly one of Ready or Failed.
//
// A Binding belongs to one view field. Every Run supersedes the previous one:
// the earlier call is canceled and its result, if it still arrives, is
// discarded. After Detach no result is published at all.
package binding

import (
	"context"
	"sync"
)

type State int

const (
	Idle State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Snapshot is the observable state of a Binding. Generation identifies the
// Run that produced it.
type Snapshot[T any] struct {
	State      State
	Value      T
	Err        error
	Generation uint64
}

// Binding tracks the latest invocation of a fetch for one view field.
type Binding[T any] struct {
	mu       sync.Mutex
	gen      uint64
	cancel   context.CancelFunc
	detached bool
	snap     Snapshot[T]
	onChange func(Snapshot[T])
}

// New returns an idle Binding. onChange, if non-nil, receives every published
// snapshot in order. It runs with the binding locked and must not call back
// into it.
func New[T any](onChange func(Snapshot[T])) *Binding[T] {
	return &Binding[T]{onChange: onChange}
}

// Run moves the binding to Loading before returning and starts fetch in the
// background. The returned channel is closed once fetch has returned, whether
// or not its result was published.
func (b *Binding[T]) Run(ctx context.Context, fetch func(context.Context) (T, error)) <-chan struct{} {
	done := make(chan struct{})

	b.mu.Lock()
	if b.detached {
		b.mu.Unlock()
		close(done)
		return done
	}
	if b.cancel != nil {
		b.cancel()
	}
	b.gen++
	gen := b.gen
	runCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.publish(Snapshot[T]{State: Loading, Generation: gen})
	b.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()
		v, err := fetch(runCtx)
		b.complete(gen, v, err)
	}()
	return done
}

// Detach cancels the in-flight call and stops all further publication.
func (b *Binding[T]) Detach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.detached = true
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

func (b *Binding[T]) Snapshot() Snapshot[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snap
}

func (b *Binding[T]) complete(gen uint64, v T, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.detached || gen != b.gen {
		return
	}
	b.cancel = nil
	if err != nil {
		b.publish(Snapshot[T]{State: Failed, Err: err, Generation: gen})
		return
	}
	b.publish(Snapshot[T]{State: Ready, Value: v, Generation: gen})
}

func (b *Binding[T]) publish(s Snapshot[T]) {
	b.snap = s
	if b.onChange != nil {
		b.onChange(s)
	}
}
