package kernel

import (
	"io"
	"sync"

	"github.com/Oyami-Srk/ark-kernel/pkg/waiter"
	"github.com/pkg/errors"
)

var ErrPipeClosed = errors.New("pipe read end closed")

// PipeBufferSize bounds the in-flight bytes of one pipe.
const PipeBufferSize = 512

const (
	_ waiter.EventType = iota
	pipeReadable
	pipeWritable
)

// Pipe is a bounded byte queue between two open file descriptions.
// Writes up to the buffer size complete without a reader on the other
// end; past that the writer blocks until a reader drains the ring.
type Pipe struct {
	mu sync.Mutex

	buf   [PipeBufferSize]byte
	start int
	count int

	readClosed  bool
	writeClosed bool

	events waiter.Waiter
}

func (p *Pipe) read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}

	c := make(chan struct{}, 1)

	e := p.events.RegisterChannel(pipeReadable, c)
	defer p.events.Unregister(e)

	p.mu.Lock()

	for {
		if p.count > 0 {
			var n int

			for n < len(b) && p.count > 0 {
				b[n] = p.buf[p.start]
				p.start = (p.start + 1) % PipeBufferSize
				p.count--
				n++
			}

			p.mu.Unlock()
			p.events.Notify(pipeWritable)

			return n, nil
		}

		if p.writeClosed {
			p.mu.Unlock()
			return 0, io.EOF
		}

		p.mu.Unlock()
		<-c
		p.mu.Lock()
	}
}

func (p *Pipe) write(b []byte) (int, error) {
	c := make(chan struct{}, 1)

	e := p.events.RegisterChannel(pipeWritable, c)
	defer p.events.Unregister(e)

	var written int

	p.mu.Lock()

	for {
		if p.readClosed {
			p.mu.Unlock()
			return written, ErrPipeClosed
		}

		progress := false

		for written < len(b) && p.count < PipeBufferSize {
			p.buf[(p.start+p.count)%PipeBufferSize] = b[written]
			p.count++
			written++
			progress = true
		}

		done := written == len(b)

		p.mu.Unlock()

		if progress {
			p.events.Notify(pipeReadable)
		}

		if done {
			return written, nil
		}

		<-c
		p.mu.Lock()
	}
}

func (p *Pipe) closeRead() error {
	p.mu.Lock()
	p.readClosed = true
	p.mu.Unlock()

	p.events.Notify(pipeWritable)

	return nil
}

func (p *Pipe) closeWrite() error {
	p.mu.Lock()
	p.writeClosed = true
	p.mu.Unlock()

	p.events.Notify(pipeReadable)

	return nil
}

type pipeReadEnd struct{ p *Pipe }

func (r pipeReadEnd) Read(b []byte) (int, error) { return r.p.read(b) }
func (r pipeReadEnd) Close() error               { return r.p.closeRead() }

type pipeWriteEnd struct{ p *Pipe }

func (w pipeWriteEnd) Write(b []byte) (int, error) { return w.p.write(b) }
func (w pipeWriteEnd) Close() error                { return w.p.closeWrite() }

// NewPipe returns the read and write ends of an in-kernel pipe as two
// open file descriptions.
func NewPipe() (*File, *File) {
	p := &Pipe{}

	return NewStreamFile(pipeReadEnd{p}, nil), NewStreamFile(nil, pipeWriteEnd{p})
}
