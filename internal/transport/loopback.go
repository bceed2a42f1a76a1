package transport

import (
	"sync"
	"time"

	"pacemaker_dcm/internal/models"
	"pacemaker_dcm/internal/protocol"
)

// defaultEgramInterval is the nominal spacing between synthetic telemetry
// samples per chamber.
const defaultEgramInterval = 10 * time.Millisecond

// Waveform shapes for synthetic electrograms, one nominal cardiac cycle per
// table. Values in mV; bounded and pseudo-periodic, which is all the
// plotting side needs.
var (
	atrialWave      = []float64{0.05, 0.2, 0.6, 0.3, 0.1, -0.05, -0.15, -0.05}
	ventricularWave = []float64{0.1, 0.4, 2.8, -1.2, 0.3, 0.1, -0.1, 0}
)

// Loopback is the in-memory device stand-in. Each instance owns its own
// parameter store keyed by mode; there is no process-wide device state.
//
// A PSET line stores the decoded set and queues the matching PACK. A PGET
// queues a PACK carrying the stored set, or the mode's defaults if never
// set. With no response queued, ReadLine synthesizes the next telemetry
// sample, alternating chambers on a monotonic millisecond clock.
type Loopback struct {
	mu      sync.Mutex
	open    bool
	store   map[string]models.ParameterSet
	pending []string

	egramInterval time.Duration
	nextVentricle bool
	sampleIdx     map[string]int64
}

// NewLoopback returns a closed loopback transport with the nominal
// telemetry interval.
func NewLoopback() *Loopback {
	return NewLoopbackWithInterval(defaultEgramInterval)
}

// NewLoopbackWithInterval is NewLoopback with an explicit sample interval;
// tests use a short interval to keep telemetry cases fast.
func NewLoopbackWithInterval(interval time.Duration) *Loopback {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return &Loopback{
		store:         make(map[string]models.ParameterSet),
		sampleIdx:     make(map[string]int64),
		egramInterval: interval,
	}
}

func (l *Loopback) Open() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.open = true
	return nil
}

func (l *Loopback) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.open = false
	l.pending = nil
	return nil
}

func (l *Loopback) IsOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.open
}

// WriteLine accepts a request line and queues the device's reply. Malformed
// requests are rejected without mutating the store.
func (l *Loopback) WriteLine(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open {
		return ErrClosed
	}

	switch protocol.Command(line) {
	case protocol.CmdSet:
		_, ps, err := protocol.DecodeParams(line)
		if err != nil {
			return err
		}
		l.store[ps.Mode] = ps
		ack, err := protocol.EncodeParams(protocol.CmdAck, ps)
		if err != nil {
			return err
		}
		l.pending = append(l.pending, ack)
		return nil

	case protocol.CmdGet:
		mode, err := protocol.DecodeGet(line)
		if err != nil {
			return err
		}
		ps, ok := l.store[mode]
		if !ok {
			ps = models.DefaultParameterSet(mode)
		}
		ack, err := protocol.EncodeParams(protocol.CmdAck, ps)
		if err != nil {
			return err
		}
		l.pending = append(l.pending, ack)
		return nil

	default:
		return &protocol.MalformedLineError{Line: line, Reason: "loopback device does not accept this command"}
	}
}

// ReadLine returns a queued reply if one exists, otherwise the next
// synthetic telemetry sample after the nominal interval elapses.
func (l *Loopback) ReadLine(timeout time.Duration) (string, error) {
	if line, err, done := l.popPending(); done {
		return line, err
	}

	if l.egramInterval >= timeout {
		time.Sleep(timeout)
		// A reply may have been queued while sleeping; prefer it.
		if line, err, done := l.popPending(); done {
			return line, err
		}
		return "", ErrTimeout
	}
	time.Sleep(l.egramInterval)
	if line, err, done := l.popPending(); done {
		return line, err
	}
	return l.nextSample()
}

func (l *Loopback) popPending() (string, error, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open {
		return "", ErrClosed, true
	}
	if len(l.pending) == 0 {
		return "", nil, false
	}
	line := l.pending[0]
	l.pending = l.pending[1:]
	return line, nil, true
}

func (l *Loopback) nextSample() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open {
		return "", ErrClosed
	}

	chamber := models.ChamberAtrium
	wave := atrialWave
	if l.nextVentricle {
		chamber = models.ChamberVentricle
		wave = ventricularWave
	}
	l.nextVentricle = !l.nextVentricle

	idx := l.sampleIdx[chamber]
	l.sampleIdx[chamber] = idx + 1

	stepMS := l.egramInterval.Milliseconds()
	if stepMS < 1 {
		stepMS = 1
	}
	sample := models.EgramSample{
		Chamber:     chamber,
		TimestampMS: idx * stepMS,
		ValueMV:     wave[idx%int64(len(wave))],
	}
	return protocol.EncodeSample(sample)
}
