package kernel

import (
	"golang.org/x/sys/unix"
)

// consoleReader and consoleWriter adapt raw host descriptors to the File
// layer. They stand in for the UART the real console device drives.
type consoleReader struct {
	fd int
}

func (c consoleReader) Read(b []byte) (int, error) {
	return unix.Read(c.fd, b)
}

func (c consoleReader) Close() error {
	return nil
}

type consoleWriter struct {
	fd int
}

func (c consoleWriter) Write(b []byte) (int, error) {
	return unix.Write(c.fd, b)
}

func (c consoleWriter) Close() error {
	return nil
}

// NewConsoleFiles returns the three standard descriptors wired to the
// host console.
func NewConsoleFiles() (*File, *File, *File) {
	stdin := NewStreamFile(consoleReader{fd: 0}, nil)
	stdout := NewStreamFile(nil, consoleWriter{fd: 1})
	stderr := NewStreamFile(nil, consoleWriter{fd: 2})

	return stdin, stdout, stderr
}
