package testsupport

import (
	"errors"
	"io"
	"sync"
	"time"
)

// ErrPortClosed is returned by FakePort.Read after Close.
var ErrPortClosed = errors.New("fake port closed")

// FakePort is an in-memory serial port. Reads block for at most the
// configured timeout and then return (0, nil), like a real port with a read
// timeout set.
type FakePort struct {
	timeout time.Duration
	data    chan []byte
	failure chan error
	rest    []byte

	closeOnce sync.Once
	closed    chan struct{}
}

// NewFakePort returns a port whose reads time out after timeout.
func NewFakePort(timeout time.Duration) *FakePort {
	if timeout <= 0 {
		timeout = 10 * time.Millisecond
	}
	return &FakePort{
		timeout: timeout,
		data:    make(chan []byte, 64),
		failure: make(chan error, 1),
		closed:  make(chan struct{}),
	}
}

// WriteLine queues line followed by a newline.
func (p *FakePort) WriteLine(line string) {
	p.data <- []byte(line + "\n")
}

// Write queues raw bytes.
func (p *FakePort) Write(b []byte) {
	p.data <- append([]byte(nil), b...)
}

// Fail makes the next read return err once queued data is consumed.
func (p *FakePort) Fail(err error) {
	if err == nil {
		err = io.EOF
	}
	p.failure <- err
}

// Read implements io.Reader. It must not be called concurrently.
func (p *FakePort) Read(b []byte) (int, error) {
	select {
	case <-p.closed:
		return 0, ErrPortClosed
	default:
	}
	if len(p.rest) > 0 {
		return p.serve(b, p.rest), nil
	}
	select {
	case chunk := <-p.data:
		return p.serve(b, chunk), nil
	default:
	}

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()
	select {
	case chunk := <-p.data:
		return p.serve(b, chunk), nil
	case err := <-p.failure:
		return 0, err
	case <-p.closed:
		return 0, ErrPortClosed
	case <-timer.C:
		return 0, nil
	}
}

func (p *FakePort) serve(b, chunk []byte) int {
	n := copy(b, chunk)
	p.rest = chunk[n:]
	return n
}

// Close implements io.Closer. It is safe to call more than once.
func (p *FakePort) Close() error {
	p.closeOnce.Do(func() { close(p.closed) })
	return nil
}

// Closed reports whether Close has been called.
func (p *FakePort) Closed() bool {
	select {
	case <-p.closed:
		return true
	default:
		return false
	}
}
