package transport

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/tarm/serial"
)

// pollTimeout bounds each physical read so ReadLine can honor its caller's
// deadline without blocking on a silent link.
const pollTimeout = 50 * time.Millisecond

// SerialConfig selects the physical port for the serial variant.
type SerialConfig struct {
	Port string // e.g. /dev/ttyACM0 or COM3
	Baud int
}

// serialPort is the surface of tarm's *serial.Port this transport uses.
// Tests substitute an in-memory port.
type serialPort interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// Serial drives a physical duplex link. Lines are ASCII, newline-terminated,
// byte-identical to the loopback variant's.
type Serial struct {
	cfg  SerialConfig
	mu   sync.Mutex
	port serialPort
	buf  []byte // residual bytes past the last returned terminator
}

// NewSerial returns a closed serial transport for the given port.
func NewSerial(cfg SerialConfig) *Serial {
	return &Serial{cfg: cfg}
}

// Open opens the physical port. A no-op if already open.
func (s *Serial) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port != nil {
		return nil
	}
	p, err := serial.OpenPort(&serial.Config{
		Name:        s.cfg.Port,
		Baud:        s.cfg.Baud,
		ReadTimeout: pollTimeout,
	})
	if err != nil {
		return fmt.Errorf("open serial port %s: %w", s.cfg.Port, err)
	}
	s.port = p
	s.buf = nil
	return nil
}

func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	s.buf = nil
	if err != nil {
		return fmt.Errorf("close serial port %s: %w", s.cfg.Port, err)
	}
	return nil
}

func (s *Serial) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port != nil
}

func (s *Serial) WriteLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return ErrClosed
	}
	if _, err := s.port.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("write to %s: %w", s.cfg.Port, err)
	}
	return nil
}

// ReadLine accumulates bytes until a newline or the deadline. Each physical
// read is bounded by the port's poll timeout; an empty poll is not an error.
// Crossing the deadline yields ErrTimeout, the expected outcome on a quiet
// link.
func (s *Serial) ReadLine(timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	chunk := make([]byte, 256)
	for {
		if line, ok := s.takeLine(); ok {
			return line, nil
		}
		if !time.Now().Before(deadline) {
			return "", ErrTimeout
		}

		s.mu.Lock()
		port := s.port
		s.mu.Unlock()
		if port == nil {
			return "", ErrClosed
		}

		n, err := port.Read(chunk)
		if n > 0 {
			s.mu.Lock()
			s.buf = append(s.buf, chunk[:n]...)
			s.mu.Unlock()
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read from %s: %w", s.cfg.Port, err)
		}
		// Zero-byte poll: no data arrived within the port timeout.
	}
}

// takeLine removes and returns the first complete line from the buffer.
func (s *Serial) takeLine() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.buf {
		if b == '\n' {
			line := string(s.buf[:i])
			s.buf = append(s.buf[:0:0], s.buf[i+1:]...)
			if n := len(line); n > 0 && line[n-1] == '\r' {
				line = line[:n-1]
			}
			return line, true
		}
	}
	return "", false
}

// AvailablePorts lists serial device nodes likely to host a pacing device.
// Candidate patterns cover Linux ACM/USB adapters and classic UARTs.
func AvailablePorts() []string {
	var out []string
	for _, pattern := range []string{"/dev/ttyACM*", "/dev/ttyUSB*", "/dev/tty.usb*"} {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		out = append(out, matches...)
	}
	sort.Strings(out)
	return out
}
