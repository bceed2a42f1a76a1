package transport

import (
	"errors"
	"time"
)

// Sentinel conditions shared by all transport variants.
var (
	// ErrTimeout signals that no line terminator arrived within the
	// supplied window. It is a normal, expected outcome, not a failure.
	ErrTimeout = errors.New("transport: read timed out")

	// ErrClosed signals an operation against a transport that is not open.
	ErrClosed = errors.New("transport: not open")
)

// Transport is a duplex line channel to the device. The loopback and serial
// variants produce byte-identical line formats so session logic never
// branches on the backend; the variant is selected once at construction.
type Transport interface {
	Open() error
	Close() error
	WriteLine(line string) error
	// ReadLine blocks up to timeout for one newline-terminated line and
	// returns it without the terminator. ErrTimeout when none arrives.
	ReadLine(timeout time.Duration) (string, error)
	IsOpen() bool
}
