package kernel

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Oyami-Srk/ark-kernel/pkg/waiter"
)

// TicksPerSecond is the kernel tick rate the timer device is programmed
// for. ark_sleep_ticks counts in these units.
const TicksPerSecond = 100

const (
	_ waiter.EventType = iota
	TickElapsed
)

// Clock counts kernel ticks. On real hardware the timer interrupt calls
// Tick; the host-backed shim runs an internal ticker instead.
type Clock struct {
	ticks uint64

	events waiter.Waiter

	stop chan struct{}
}

func NewClock() *Clock {
	return &Clock{}
}

func (c *Clock) Ticks() uint64 {
	return atomic.LoadUint64(&c.ticks)
}

// Tick advances the clock by one tick and wakes sleepers.
func (c *Clock) Tick() {
	atomic.AddUint64(&c.ticks, 1)
	c.events.Notify(TickElapsed)
}

// Start drives Tick from a host timer until Stop is called.
func (c *Clock) Start() {
	if c.stop != nil {
		return
	}

	c.stop = make(chan struct{})

	go func(stop chan struct{}) {
		t := time.NewTicker(time.Second / TicksPerSecond)
		defer t.Stop()

		for {
			select {
			case <-t.C:
				c.Tick()
			case <-stop:
				return
			}
		}
	}(c.stop)
}

func (c *Clock) Stop() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

// SleepTicks blocks until at least n ticks have elapsed, then reports
// the current tick count. The wait is bounded by the context.
func (c *Clock) SleepTicks(ctx context.Context, n uint64) (uint64, error) {
	start := c.Ticks()

	for c.Ticks()-start < n {
		if err := c.events.Wait(ctx, TickElapsed); err != nil {
			return c.Ticks(), err
		}
	}

	return c.Ticks(), nil
}
