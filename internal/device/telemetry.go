package device

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"pacemaker_dcm/internal/models"
	"pacemaker_dcm/internal/protocol"
	"pacemaker_dcm/internal/transport"
)

// Chamber filters for a telemetry stream.
const (
	FilterAtrium    = models.ChamberAtrium
	FilterVentricle = models.ChamberVentricle
	FilterBoth      = "BOTH"
)

// TelemetryStream delivers live electrogram samples into a bounded sink
// without blocking the caller's control flow.
//
// Backpressure policy: when the sink is full the producer drops the oldest
// unread sample rather than blocking, since telemetry favors recency over
// completeness. Drops are counted, not errors.
type TelemetryStream struct {
	sess   *Session
	filter string
	sink   chan models.EgramSample

	cancel  context.CancelFunc
	done    chan struct{}
	dropped atomic.Uint64
}

// StartTelemetry begins a background sample feed into sink. filter selects
// FilterAtrium, FilterVentricle or FilterBoth. At most one stream per
// session: a second Start fails with ErrBusy; a closed link with
// ErrLinkClosed.
func (s *Session) StartTelemetry(filter string, sink chan models.EgramSample) (*TelemetryStream, error) {
	switch filter {
	case FilterAtrium, FilterVentricle, FilterBoth:
	default:
		return nil, errors.New("device: unknown chamber filter " + filter)
	}
	if !s.tr.IsOpen() {
		return nil, ErrLinkClosed
	}

	s.streamMu.Lock()
	defer s.streamMu.Unlock()
	if s.stream != nil {
		return nil, ErrBusy
	}

	ctx, cancel := context.WithCancel(context.Background())
	ts := &TelemetryStream{
		sess:   s,
		filter: filter,
		sink:   sink,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.stream = ts
	go ts.run(ctx)
	if s.log != nil {
		s.log.Infow("telemetry_started", "filter", filter)
	}
	return ts, nil
}

// Stop cancels the stream and waits for the producer to exit; the loop
// observes cancellation within one polling interval. No sample is enqueued
// after Stop returns, though samples already in the sink remain drainable.
func (ts *TelemetryStream) Stop() {
	ts.cancel()
	<-ts.done
	ts.sess.clearStream(ts)
	if ts.sess.log != nil {
		ts.sess.log.Infow("telemetry_stopped", "dropped", ts.Dropped())
	}
}

// Dropped returns how many samples were discarded due to a full sink.
func (ts *TelemetryStream) Dropped() uint64 {
	return ts.dropped.Load()
}

// run is the producer loop. Each iteration takes the session's transport
// gate before touching the transport, so a pending acknowledge line is
// never consumed here. When the gate is held, or an exchange is waiting for
// it, the loop backs off for one poll interval so exchanges are never
// starved by the stream's re-acquire cadence.
func (ts *TelemetryStream) run(ctx context.Context) {
	defer close(ts.done)
	poll := ts.sess.cfg.TelemetryPoll

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if ts.sess.pendingExchanges.Load() > 0 || !ts.sess.gate.TryLock() {
			ts.sleep(ctx, poll)
			continue
		}
		line, err := ts.sess.tr.ReadLine(poll)
		ts.sess.gate.Unlock()

		if err != nil {
			if errors.Is(err, transport.ErrTimeout) {
				continue
			}
			// Closed or failed link ends the stream; Disconnect and Stop
			// remain responsible for cleanup.
			if ts.sess.log != nil && !errors.Is(err, transport.ErrClosed) {
				ts.sess.log.Errorw("telemetry_read_failed", "err", err)
			}
			ts.sess.clearStream(ts)
			return
		}

		sample, err := protocol.DecodeSample(line)
		if err != nil {
			// Malformed or stray non-telemetry line: discard, never let it
			// corrupt the stream.
			continue
		}
		if ts.filter != FilterBoth && sample.Chamber != ts.filter {
			continue
		}
		ts.enqueue(sample)
	}
}

// enqueue delivers a sample, evicting the oldest unread one when the sink
// is full so the newest data always becomes visible.
func (ts *TelemetryStream) enqueue(sample models.EgramSample) {
	for {
		select {
		case ts.sink <- sample:
			return
		default:
		}
		select {
		case <-ts.sink:
			ts.dropped.Add(1)
		default:
		}
	}
}

func (ts *TelemetryStream) sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
