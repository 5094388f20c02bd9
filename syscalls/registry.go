package syscalls

import "github.com/pkg/errors"

// Registry binds handlers to the declared syscall numbers during
// single-threaded boot, then freezes into an immutable Table. Every
// misuse here is a programming error that must abort boot: an
// inconsistent table must never serve dispatch requests. That is why
// Register panics instead of returning errors.
type Registry struct {
	desc   map[int64]*Descriptor
	frozen bool
}

// NewRegistry seeds a registry with the declared number table.
func NewRegistry() *Registry {
	r := &Registry{
		desc: make(map[int64]*Descriptor, len(linuxTable)),
	}

	for i := range linuxTable {
		d := linuxTable[i]

		if _, ok := r.desc[d.ID]; ok {
			panic(errors.Errorf("syscall table declares %d (%s) twice", d.ID, d.Name))
		}

		r.desc[d.ID] = &d
	}

	return r
}

// Register binds h to id. The id must be declared Implemented and not
// yet bound.
func (r *Registry) Register(id int64, h Handler) {
	if r.frozen {
		panic(errors.Errorf("registration of syscall %d after table freeze", id))
	}

	if h == nil {
		panic(errors.Errorf("nil handler for syscall %d", id))
	}

	d, ok := r.desc[id]
	if !ok {
		panic(errors.Errorf("registration for undeclared syscall %d", id))
	}

	if d.Readiness != Implemented {
		panic(errors.Errorf("syscall %d (%s) is declared %s, not implemented", id, d.Name, d.Readiness))
	}

	if d.Handler != nil {
		panic(errors.Errorf("duplicate registration for syscall %d (%s)", id, d.Name))
	}

	d.Handler = h
}

// Freeze produces the immutable table. Descriptors may legitimately
// remain unbound (Planned, LowPriority, or not-yet-built Implemented
// entries); they dispatch as ENOSYS.
func (r *Registry) Freeze() *Table {
	r.frozen = true

	return &Table{desc: r.desc}
}
