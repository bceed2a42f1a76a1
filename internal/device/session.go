package device

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"pacemaker_dcm/internal/logger"
	"pacemaker_dcm/internal/models"
	"pacemaker_dcm/internal/protocol"
	"pacemaker_dcm/internal/transport"
)

// Communication error taxonomy. Every condition is recoverable and returned
// to the caller; nothing here is fatal to the process.
var (
	// ErrNoResponse: the device did not acknowledge within the timeout.
	ErrNoResponse = errors.New("device: no response within timeout")
	// ErrUnexpected: a reply arrived but its command tag or mode does not
	// match the request. Never coerced into success.
	ErrUnexpected = errors.New("device: unexpected reply")
	// ErrBusy: another exchange or telemetry stream is already in flight.
	ErrBusy = errors.New("device: session busy")
	// ErrLinkClosed: the transport is not open. Recoverable after reconnect.
	ErrLinkClosed = errors.New("device: link not open")
)

const (
	defaultResponseTimeout = 2 * time.Second
	defaultTelemetryPoll   = 50 * time.Millisecond
)

// Config tunes session timing. Zero fields fall back to defaults.
type Config struct {
	// ResponseTimeout bounds the single blocking read of an exchange.
	ResponseTimeout time.Duration
	// TelemetryPoll bounds each telemetry read and the cancellation latency
	// of a running stream.
	TelemetryPoll time.Duration
}

// Session enforces request/response discipline over one Transport.
//
// The line protocol has no request identifiers, so at most one exchange may
// be outstanding at a time. Two locks split that discipline: exch admits one
// outstanding exchange (a second caller fails fast with ErrBusy), while gate
// serializes raw transport access between the winning exchange and the
// telemetry loop. Exchanges take priority over telemetry: the loop checks
// pendingExchanges before re-acquiring the gate and yields for one poll, so
// an exchange waits at most one telemetry read before the gate frees up.
type Session struct {
	tr  transport.Transport
	cfg Config
	log *logger.Logger

	// exch admits at most one in-flight exchange.
	exch sync.Mutex
	// gate is held for the whole of each write-then-read exchange, and
	// per-poll by the telemetry loop.
	gate sync.Mutex
	// pendingExchanges counts callers waiting on gate so the telemetry loop
	// can yield instead of re-acquiring.
	pendingExchanges atomic.Int32

	streamMu sync.Mutex
	stream   *TelemetryStream
}

// NewSession wraps a transport. The logger may be nil.
func NewSession(tr transport.Transport, cfg Config, log *logger.Logger) *Session {
	if cfg.ResponseTimeout <= 0 {
		cfg.ResponseTimeout = defaultResponseTimeout
	}
	if cfg.TelemetryPoll <= 0 {
		cfg.TelemetryPoll = defaultTelemetryPoll
	}
	return &Session{tr: tr, cfg: cfg, log: log}
}

// Connect opens the transport. A no-op if already open.
func (s *Session) Connect() error {
	if s.tr.IsOpen() {
		return nil
	}
	if err := s.tr.Open(); err != nil {
		return err
	}
	if s.log != nil {
		s.log.Infow("device_connected")
	}
	return nil
}

// Disconnect stops any active telemetry stream and releases the transport.
// Idempotent.
func (s *Session) Disconnect() error {
	s.stopStream()
	if !s.tr.IsOpen() {
		return nil
	}
	if err := s.tr.Close(); err != nil {
		return err
	}
	if s.log != nil {
		s.log.Infow("device_disconnected")
	}
	return nil
}

// Connected reports whether the underlying transport is open.
func (s *Session) Connected() bool {
	return s.tr.IsOpen()
}

// SetParameters transmits a PSET and awaits the matching PACK. Success only
// when the acknowledge carries the request's mode.
func (s *Session) SetParameters(p models.ParameterSet) error {
	line, err := protocol.EncodeParams(protocol.CmdSet, p)
	if err != nil {
		return err
	}
	_, err = s.exchange(line, p.Mode)
	return err
}

// ReadParameters requests and decodes the device's stored set for a mode.
func (s *Session) ReadParameters(mode string) (models.ParameterSet, error) {
	line, err := protocol.EncodeGet(mode)
	if err != nil {
		return models.ParameterSet{}, err
	}
	return s.exchange(line, mode)
}

// Verify reads back the device's copy for the local set's mode and compares
// every field in wire order. An empty list means the device matches.
func (s *Session) Verify(local models.ParameterSet) ([]protocol.FieldMismatch, error) {
	remote, err := s.ReadParameters(local.Mode)
	if err != nil {
		return nil, err
	}
	return protocol.Diff(local, remote), nil
}

// exchange performs one write-then-read under the gate: exactly one blocking
// read awaiting the acknowledge. A concurrent exchange fails fast with
// ErrBusy rather than interleaving replies it could not tell apart; a
// running telemetry stream only delays the exchange by up to one poll.
func (s *Session) exchange(reqLine, wantMode string) (models.ParameterSet, error) {
	if !s.tr.IsOpen() {
		return models.ParameterSet{}, ErrLinkClosed
	}
	if !s.exch.TryLock() {
		return models.ParameterSet{}, ErrBusy
	}
	defer s.exch.Unlock()

	s.pendingExchanges.Add(1)
	s.gate.Lock()
	s.pendingExchanges.Add(-1)
	defer s.gate.Unlock()

	if s.log != nil {
		s.log.Debugw("tx", "line", reqLine)
	}
	if err := s.tr.WriteLine(reqLine); err != nil {
		if errors.Is(err, transport.ErrClosed) {
			return models.ParameterSet{}, ErrLinkClosed
		}
		return models.ParameterSet{}, err
	}

	reply, err := s.tr.ReadLine(s.cfg.ResponseTimeout)
	if err != nil {
		switch {
		case errors.Is(err, transport.ErrTimeout):
			return models.ParameterSet{}, ErrNoResponse
		case errors.Is(err, transport.ErrClosed):
			return models.ParameterSet{}, ErrLinkClosed
		default:
			return models.ParameterSet{}, err
		}
	}
	if s.log != nil {
		s.log.Debugw("rx", "line", reply)
	}

	cmd, ps, err := protocol.DecodeParams(reply)
	if err != nil {
		return models.ParameterSet{}, fmt.Errorf("%w: %v", ErrUnexpected, err)
	}
	if cmd != protocol.CmdAck || ps.Mode != wantMode {
		return models.ParameterSet{}, fmt.Errorf("%w: got %s for mode %s, want %s for mode %s",
			ErrUnexpected, cmd, ps.Mode, protocol.CmdAck, wantMode)
	}
	return ps, nil
}

// stopStream stops the active telemetry stream, if any.
func (s *Session) stopStream() {
	s.streamMu.Lock()
	stream := s.stream
	s.streamMu.Unlock()
	if stream != nil {
		stream.Stop()
	}
}

func (s *Session) clearStream(ts *TelemetryStream) {
	s.streamMu.Lock()
	if s.stream == ts {
		s.stream = nil
	}
	s.streamMu.Unlock()
}
