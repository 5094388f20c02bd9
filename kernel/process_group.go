package kernel

import (
	"sync"

	"github.com/Oyami-Srk/ark-kernel/pkg/ilist"
	"github.com/Oyami-Srk/ark-kernel/pkg/waiter"
)

const (
	_ waiter.EventType = iota
	ProcessExited
)

type ProcessGroup struct {
	mu sync.Mutex

	processCount int
	processes    ilist.List

	events waiter.Waiter
}

func NewProcessGroup() *ProcessGroup {
	return &ProcessGroup{}
}

func (pg *ProcessGroup) Add(p *Process) {
	pg.mu.Lock()
	defer pg.mu.Unlock()

	pg.processCount++
	pg.processes.PushBack(p)
}

func (pg *ProcessGroup) Remove(p *Process) {
	pg.mu.Lock()
	defer pg.mu.Unlock()

	pg.processCount--
	pg.processes.Remove(p)
}

func (pg *ProcessGroup) Count() int {
	pg.mu.Lock()
	defer pg.mu.Unlock()

	return pg.processCount
}

func (pg *ProcessGroup) NotifyExit() {
	pg.events.Notify(ProcessExited)
}

// hasChildOf reports whether parent still has a child in the group.
func (pg *ProcessGroup) hasChildOf(parent *Process) bool {
	pg.mu.Lock()
	defer pg.mu.Unlock()

	for it := pg.processes.Front(); it != nil; it = it.Next() {
		if it.(*Process).parent == parent {
			return true
		}
	}

	return false
}

// reapChildOf removes and returns one dead child of parent, or nil.
func (pg *ProcessGroup) reapChildOf(parent *Process) *Process {
	pg.mu.Lock()
	defer pg.mu.Unlock()

	for it := pg.processes.Front(); it != nil; it = it.Next() {
		p := it.(*Process)
		if p.parent == parent && p.Status() == Dead {
			pg.processCount--
			pg.processes.Remove(p)
			return p
		}
	}

	return nil
}
