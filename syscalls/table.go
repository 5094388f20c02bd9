package syscalls

import "sort"

type Category int

const (
	FileSystem Category = iota
	Process
	Memory
	CustomExtension
	Miscellaneous
)

func (c Category) String() string {
	switch c {
	case FileSystem:
		return "filesystem"
	case Process:
		return "process"
	case Memory:
		return "memory"
	case CustomExtension:
		return "custom"
	default:
		return "misc"
	}
}

// Readiness states how far along a syscall is. Only Implemented and Stub
// change what a caller sees; Planned and LowPriority are development
// bookkeeping and dispatch exactly like an unknown number.
type Readiness int

const (
	Implemented Readiness = iota
	Stub
	Planned
	LowPriority
)

func (r Readiness) String() string {
	switch r {
	case Implemented:
		return "implemented"
	case Stub:
		return "stub"
	case Planned:
		return "planned"
	default:
		return "low-priority"
	}
}

type Descriptor struct {
	ID        int64
	Name      string
	Category  Category
	Readiness Readiness

	// StubValue is the fixed success value a Stub descriptor answers
	// with. Meaningless for other readiness states.
	StubValue int64

	// Handler is bound by the Registry for Implemented descriptors.
	Handler Handler
}

// Table is the frozen syscall table. It is built once during boot by a
// Registry and never mutated afterward, so concurrent lookups need no
// locking. The number space is sparse (numbers run from the teens up to
// the tens of millions for extensions), hence a map and never a dense
// array.
type Table struct {
	desc map[int64]*Descriptor
}

// Lookup is total: any integer, including negative or absurdly large
// ones, answers with either a descriptor or false.
func (t *Table) Lookup(id int64) (*Descriptor, bool) {
	d, ok := t.desc[id]

	return d, ok
}

func (t *Table) Len() int {
	return len(t.desc)
}

// Descriptors returns the table sorted by number, for diagnostics.
func (t *Table) Descriptors() []*Descriptor {
	out := make([]*Descriptor, 0, len(t.desc))
	for _, d := range t.desc {
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// Name resolves a syscall number for diagnostics.
func (t *Table) Name(id int64) string {
	if d, ok := t.desc[id]; ok {
		return d.Name
	}

	return "unknown"
}
