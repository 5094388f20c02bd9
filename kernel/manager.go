package kernel

import "sync"

// ProcessManager hands out pids and tracks live processes.
type ProcessManager struct {
	mu sync.Mutex

	nextPid int
	procs   map[int]*Process
}

func NewProcessManager() *ProcessManager {
	return &ProcessManager{
		nextPid: 1,
		procs:   make(map[int]*Process),
	}
}

func (pm *ProcessManager) AssignPid(p *Process) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	p.Pid = pm.nextPid
	pm.nextPid++

	pm.procs[p.Pid] = p
}

func (pm *ProcessManager) Get(pid int) (*Process, bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	p, ok := pm.procs[pid]

	return p, ok
}

func (pm *ProcessManager) Release(p *Process) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	delete(pm.procs, p.Pid)
}
