package kernel

import (
	"sync"

	"github.com/pkg/errors"
)

const PageSize = 4096

var (
	ErrBadAddress = errors.New("address outside process memory")
	ErrNoRegion   = errors.New("no mapped region at address")
)

// AddressSpace is the flat user memory image of one process. Real paging
// lives in the architecture layer; this tracks the brk and mmap regions
// the memory syscalls operate on and backs user reads/writes for the
// host-backed shim.
type AddressSpace struct {
	mu sync.Mutex

	data []byte

	brkBase uint64
	brk     uint64

	mmapBase uint64
	mmapNext uint64
	regions  map[uint64]uint64
}

func NewAddressSpace(size int) *AddressSpace {
	base := uint64(size) / 4

	return &AddressSpace{
		data:     make([]byte, size),
		brkBase:  base,
		brk:      base,
		mmapBase: base * 2,
		mmapNext: base * 2,
		regions:  make(map[uint64]uint64),
	}
}

func (m *AddressSpace) Size() int {
	return len(m.data)
}

func (m *AddressSpace) ReadAt(b []byte, off int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if off < 0 || off+int64(len(b)) > int64(len(m.data)) {
		return 0, ErrBadAddress
	}

	return copy(b, m.data[off:]), nil
}

func (m *AddressSpace) WriteAt(b []byte, off int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if off < 0 || off+int64(len(b)) > int64(len(m.data)) {
		return 0, ErrBadAddress
	}

	return copy(m.data[off:], b), nil
}

// ReadCString reads a NUL-terminated string starting at addr, without
// the terminator.
func (m *AddressSpace) ReadCString(addr uint64) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if addr >= uint64(len(m.data)) {
		return nil, ErrBadAddress
	}

	for i := addr; i < uint64(len(m.data)); i++ {
		if m.data[i] == 0 {
			out := make([]byte, i-addr)
			copy(out, m.data[addr:i])
			return out, nil
		}
	}

	return nil, ErrBadAddress
}

// Brk implements the Linux contract: addr 0 queries the current break,
// anything else moves it. Moves outside the heap range answer with the
// current value instead of failing.
func (m *AddressSpace) Brk(addr uint64) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if addr >= m.brkBase && addr < m.mmapBase {
		m.brk = addr
	}

	return m.brk
}

func (m *AddressSpace) Mmap(addr, length uint64) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if length == 0 {
		return 0, errors.Wrap(ErrBadAddress, "zero length mapping")
	}

	length = (length + PageSize - 1) &^ uint64(PageSize-1)

	if addr == 0 {
		addr = m.mmapNext
	}

	if addr+length > uint64(len(m.data)) {
		return 0, errors.Wrap(ErrBadAddress, "mapping exceeds address space")
	}

	m.regions[addr] = length

	if addr+length > m.mmapNext {
		m.mmapNext = addr + length
	}

	return addr, nil
}

func (m *AddressSpace) Munmap(addr, length uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.regions[addr]; !ok {
		return ErrNoRegion
	}

	delete(m.regions, addr)

	return nil
}

// Clone copies the full image, brk, and region accounting for fork.
func (m *AddressSpace) Clone() *AddressSpace {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := &AddressSpace{
		data:     make([]byte, len(m.data)),
		brkBase:  m.brkBase,
		brk:      m.brk,
		mmapBase: m.mmapBase,
		mmapNext: m.mmapNext,
		regions:  make(map[uint64]uint64, len(m.regions)),
	}

	copy(c.data, m.data)

	for start, length := range m.regions {
		c.regions[start] = length
	}

	return c
}
