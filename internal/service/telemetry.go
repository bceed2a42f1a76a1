package service

import (
	"context"
	"sync"
	"time"

	"pacemaker_dcm/internal/device"
	"pacemaker_dcm/internal/models"
	"pacemaker_dcm/internal/repository"

	"github.com/google/uuid"
)

const defaultTelemetryBuffer = 256

// TelemetryService owns the shared sample sink and the lifecycle of the
// session's telemetry stream.
type TelemetryService struct {
	sess      *device.Session
	eventRepo repository.EventRepo
	sink      chan models.EgramSample

	mu      sync.Mutex
	stream  *device.TelemetryStream
	chamber string
}

func NewTelemetryService(sess *device.Session, eventRepo repository.EventRepo, buffer int) *TelemetryService {
	if buffer <= 0 {
		buffer = defaultTelemetryBuffer
	}
	return &TelemetryService{
		sess:      sess,
		eventRepo: eventRepo,
		sink:      make(chan models.EgramSample, buffer),
	}
}

// Start begins streaming for the given chamber filter (A, V or BOTH;
// empty defaults to BOTH). device.ErrBusy when a stream is running.
func (s *TelemetryService) Start(ctx context.Context, chamber string) error {
	if chamber == "" {
		chamber = device.FilterBoth
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stream, err := s.sess.StartTelemetry(chamber, s.sink)
	if err != nil {
		return err
	}
	s.stream = stream
	s.chamber = chamber

	_ = s.eventRepo.Append(ctx, models.CommEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        EventTelemetry,
		Description: "Egram stream started",
		Metadata:    map[string]any{"chamber": chamber},
	})
	return nil
}

// Stop cancels the running stream; a no-op when none is active.
func (s *TelemetryService) Stop(ctx context.Context) error {
	s.mu.Lock()
	stream := s.stream
	s.stream = nil
	s.chamber = ""
	s.mu.Unlock()

	if stream == nil {
		return nil
	}
	stream.Stop()

	_ = s.eventRepo.Append(ctx, models.CommEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        EventTelemetry,
		Description: "Egram stream stopped",
		Metadata:    map[string]any{"dropped": stream.Dropped()},
	})
	return nil
}

// Samples is the shared consumer queue; readers drain it independently of
// the producer.
func (s *TelemetryService) Samples() <-chan models.EgramSample {
	return s.sink
}

func (s *TelemetryService) Status() TelemetryStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := TelemetryStatus{}
	if s.stream != nil {
		st.Active = true
		st.Chamber = s.chamber
		st.Dropped = s.stream.Dropped()
	}
	return st
}
