// Package waiter implements edge-triggered event notification used for
// in-kernel waits: a child exiting, a clock tick arriving.
package waiter

import (
	"context"
	"sync"

	"github.com/Oyami-Srk/ark-kernel/pkg/ilist"
)

type EventType uint64

type Waiter struct {
	mu sync.RWMutex

	count   int
	waiters ilist.List
}

type Event struct {
	ilist.Entry

	Mask     EventType
	Context  interface{}
	Callback func(e *Event)
}

func (w *Waiter) Register(e *Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.count++

	w.waiters.PushBack(e)
}

func triggerChan(e *Event) {
	c := e.Context.(chan struct{})

	select {
	case c <- struct{}{}:
	default:
	}
}

func (w *Waiter) RegisterChannel(mask EventType, c chan struct{}) *Event {
	e := &Event{
		Callback: triggerChan,
		Context:  c,
		Mask:     mask,
	}

	w.Register(e)

	return e
}

func (w *Waiter) Unregister(e *Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.count--

	w.waiters.Remove(e)
}

func (w *Waiter) Pending() int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.count
}

func (w *Waiter) Notify(mask EventType) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for it := w.waiters.Front(); it != nil; it = it.Next() {
		e := it.(*Event)
		if mask&e.Mask != 0 {
			e.Callback(e)
		}
	}
}

// Wait blocks until an event matching mask fires or the context is done.
func (w *Waiter) Wait(ctx context.Context, mask EventType) error {
	c := make(chan struct{}, 1)

	e := w.RegisterChannel(mask, c)
	defer w.Unregister(e)

	select {
	case <-c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
