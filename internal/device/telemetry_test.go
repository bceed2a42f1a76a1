package device

import (
	"errors"
	"testing"
	"time"

	"pacemaker_dcm/internal/models"
	"pacemaker_dcm/internal/transport"
)

func newLoopbackSession(t *testing.T) *Session {
	t.Helper()
	lb := transport.NewLoopbackWithInterval(time.Millisecond)
	sess := NewSession(lb, Config{ResponseTimeout: time.Second, TelemetryPoll: 5 * time.Millisecond}, nil)
	if err := sess.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = sess.Disconnect() })
	return sess
}

func collect(t *testing.T, sink <-chan models.EgramSample, n int) []models.EgramSample {
	t.Helper()
	out := make([]models.EgramSample, 0, n)
	deadline := time.After(2 * time.Second)
	for len(out) < n {
		select {
		case s := <-sink:
			out = append(out, s)
		case <-deadline:
			t.Fatalf("collected %d of %d samples before deadline", len(out), n)
		}
	}
	return out
}

func TestTelemetry_StreamsBothChambers(t *testing.T) {
	sess := newLoopbackSession(t)
	sink := make(chan models.EgramSample, 64)

	stream, err := sess.StartTelemetry(FilterBoth, sink)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer stream.Stop()

	samples := collect(t, sink, 10)

	seen := map[string]bool{}
	last := map[string]int64{}
	for _, s := range samples {
		seen[s.Chamber] = true
		if ts, ok := last[s.Chamber]; ok && s.TimestampMS <= ts {
			t.Fatalf("per-chamber timestamps must increase: %d then %d", ts, s.TimestampMS)
		}
		last[s.Chamber] = s.TimestampMS
	}
	if !seen[models.ChamberAtrium] || !seen[models.ChamberVentricle] {
		t.Fatalf("expected both chambers, saw %v", seen)
	}
}

func TestTelemetry_ChamberFilter(t *testing.T) {
	sess := newLoopbackSession(t)
	sink := make(chan models.EgramSample, 64)

	stream, err := sess.StartTelemetry(FilterVentricle, sink)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer stream.Stop()

	for _, s := range collect(t, sink, 6) {
		if s.Chamber != models.ChamberVentricle {
			t.Fatalf("filter leaked chamber %q", s.Chamber)
		}
	}
}

func TestTelemetry_StopHaltsProducer(t *testing.T) {
	sess := newLoopbackSession(t)
	sink := make(chan models.EgramSample, 64)

	stream, err := sess.StartTelemetry(FilterBoth, sink)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	collect(t, sink, 2)
	stream.Stop()

	// Drain anything enqueued before Stop returned, then confirm silence.
	for {
		select {
		case <-sink:
			continue
		default:
		}
		break
	}
	select {
	case s := <-sink:
		t.Fatalf("sample enqueued after Stop: %+v", s)
	case <-time.After(50 * time.Millisecond):
	}

	// The session is free for a new stream.
	stream2, err := sess.StartTelemetry(FilterAtrium, sink)
	if err != nil {
		t.Fatalf("restart after stop: %v", err)
	}
	stream2.Stop()
}

func TestTelemetry_SecondStartBusy(t *testing.T) {
	sess := newLoopbackSession(t)
	sink := make(chan models.EgramSample, 8)

	stream, err := sess.StartTelemetry(FilterBoth, sink)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer stream.Stop()

	if _, err := sess.StartTelemetry(FilterBoth, sink); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func TestTelemetry_StartRequiresOpenLink(t *testing.T) {
	lb := transport.NewLoopbackWithInterval(time.Millisecond)
	sess := NewSession(lb, Config{}, nil)
	if _, err := sess.StartTelemetry(FilterBoth, make(chan models.EgramSample, 1)); !errors.Is(err, ErrLinkClosed) {
		t.Fatalf("expected ErrLinkClosed, got %v", err)
	}
}

func TestTelemetry_UnknownFilterRejected(t *testing.T) {
	sess := newLoopbackSession(t)
	if _, err := sess.StartTelemetry("LEFT", make(chan models.EgramSample, 1)); err == nil {
		t.Fatal("expected error for unknown filter")
	}
}

func TestTelemetry_OverflowDropsOldest(t *testing.T) {
	sess := newLoopbackSession(t)
	sink := make(chan models.EgramSample, 2)

	stream, err := sess.StartTelemetry(FilterBoth, sink)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	// Let the producer overrun the unread sink.
	time.Sleep(200 * time.Millisecond)
	stream.Stop()

	if stream.Dropped() == 0 {
		t.Fatal("expected drops on an unread sink")
	}

	// The retained samples are the newest ones.
	var newest models.EgramSample
	var got int
	for {
		select {
		case s := <-sink:
			newest = s
			got++
			continue
		default:
		}
		break
	}
	if got == 0 {
		t.Fatal("sink empty after overflow")
	}
	if newest.TimestampMS == 0 {
		t.Fatalf("expected a late sample to survive, got %+v", newest)
	}
}

func TestTelemetry_ExchangeDuringStream(t *testing.T) {
	sess := newLoopbackSession(t)
	sink := make(chan models.EgramSample, 64)

	stream, err := sess.StartTelemetry(FilterBoth, sink)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer stream.Stop()

	// The telemetry loop must never consume a pending acknowledge, and a
	// running stream must not reject exchanges.
	p := models.DefaultParameterSet(models.ModeVVIR)
	p.ResponseFactor = 10
	for i := 0; i < 5; i++ {
		if err := sess.SetParameters(p); err != nil {
			t.Fatalf("set during stream: %v", err)
		}
	}

	got, err := sess.ReadParameters(models.ModeVVIR)
	if err != nil {
		t.Fatalf("read during stream: %v", err)
	}
	if got.ResponseFactor != 10 {
		t.Fatalf("unexpected read-back: %+v", got)
	}
}

func TestTelemetry_ExchangeNotStarvedAtDefaults(t *testing.T) {
	// Production timings: default poll and response timeout, default egram
	// pacing. The stream holds the transport for a full poll per read, so
	// an exchange must get the gate between polls instead of failing Busy
	// until the stream stops.
	sess := NewSession(transport.NewLoopback(), Config{}, nil)
	if err := sess.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = sess.Disconnect() })

	sink := make(chan models.EgramSample, 8)
	stream, err := sess.StartTelemetry(FilterBoth, sink)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer stream.Stop()

	p := models.DefaultParameterSet(models.ModeVVI)
	p.LowerRateLimit = 70

	start := time.Now()
	if err := sess.SetParameters(p); err != nil {
		t.Fatalf("set during stream: %v", err)
	}
	got, err := sess.ReadParameters(models.ModeVVI)
	if err != nil {
		t.Fatalf("read during stream: %v", err)
	}
	if got.LowerRateLimit != 70 {
		t.Fatalf("unexpected read-back: %+v", got)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("exchanges took %v with a stream running", elapsed)
	}
}
