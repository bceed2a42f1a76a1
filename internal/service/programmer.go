package service

import (
	"context"
	"strings"
	"time"

	"pacemaker_dcm/internal/logger"
	"pacemaker_dcm/internal/models"
	"pacemaker_dcm/internal/protocol"
	"pacemaker_dcm/internal/repository"
	"pacemaker_dcm/internal/validation"

	"github.com/google/uuid"
)

// Comm event types.
const (
	EventConnect    = "CONNECT"
	EventDisconnect = "DISCONNECT"
	EventPSet       = "PSET"
	EventVerify     = "VERIFY"
	EventTelemetry  = "TELEMETRY"
	EventError      = "ERROR"
)

// DeviceLink is the slice of the device session the programmer needs.
type DeviceLink interface {
	Connect() error
	Disconnect() error
	Connected() bool
	SetParameters(p models.ParameterSet) error
	ReadParameters(mode string) (models.ParameterSet, error)
	Verify(local models.ParameterSet) ([]protocol.FieldMismatch, error)
}

// ValidationError carries the ordered violation list for a rejected set.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "parameter validation failed: " + strings.Join(e.Violations, "; ")
}

type ProgrammerService struct {
	link         DeviceLink
	settingsRepo repository.SettingsRepo
	eventRepo    repository.EventRepo
	log          *logger.Logger
}

func NewProgrammerService(link DeviceLink, settingsRepo repository.SettingsRepo, eventRepo repository.EventRepo, log *logger.Logger) *ProgrammerService {
	return &ProgrammerService{
		link:         link,
		settingsRepo: settingsRepo,
		eventRepo:    eventRepo,
		log:          log,
	}
}

func (s *ProgrammerService) Connect(ctx context.Context) error {
	if err := s.link.Connect(); err != nil {
		return err
	}
	return s.appendEvent(ctx, EventConnect, "Device link opened", nil)
}

func (s *ProgrammerService) Disconnect(ctx context.Context) error {
	if err := s.link.Disconnect(); err != nil {
		return err
	}
	return s.appendEvent(ctx, EventDisconnect, "Device link released", nil)
}

func (s *ProgrammerService) Connected() bool {
	return s.link.Connected()
}

// Apply rejects locally on validation failure, transmits on success, then
// persists the set as the owner's last-programmed copy for that mode.
func (s *ProgrammerService) Apply(ctx context.Context, owner string, p models.ParameterSet) error {
	if ok, violations := validation.Validate(p); !ok {
		return &ValidationError{Violations: violations}
	}

	if err := s.link.SetParameters(p); err != nil {
		_ = s.appendEvent(ctx, EventError, "Parameter transmit failed: "+err.Error(), map[string]any{
			"mode": p.Mode,
		})
		return err
	}

	if err := s.settingsRepo.Save(ctx, owner, p); err != nil {
		// Device accepted the set; a persistence failure must still surface.
		return err
	}

	return s.appendEvent(ctx, EventPSet, "Parameters programmed for "+p.Mode, map[string]any{
		"mode":  p.Mode,
		"owner": owner,
	})
}

func (s *ProgrammerService) ReadBack(ctx context.Context, mode string) (models.ParameterSet, error) {
	return s.link.ReadParameters(mode)
}

// Verify compares the given local set against the device's copy and logs
// the outcome.
func (s *ProgrammerService) Verify(ctx context.Context, p models.ParameterSet) ([]protocol.FieldMismatch, error) {
	mismatches, err := s.link.Verify(p)
	if err != nil {
		return nil, err
	}
	_ = s.appendEvent(ctx, EventVerify, "Verification completed for "+p.Mode, map[string]any{
		"mode":       p.Mode,
		"mismatches": len(mismatches),
	})
	return mismatches, nil
}

func (s *ProgrammerService) Stored(ctx context.Context, owner, mode string) (models.ParameterSet, error) {
	if !models.IsSupportedMode(mode) {
		return models.ParameterSet{}, &ValidationError{Violations: []string{"Mode \"" + mode + "\" is not a supported pacing mode."}}
	}
	p, ok, err := s.settingsRepo.Load(ctx, owner, mode)
	if err != nil {
		return models.ParameterSet{}, err
	}
	if !ok {
		return models.DefaultParameterSet(mode), nil
	}
	return p, nil
}

// appendEvent records a comm event; log failures are reported but never
// override the primary result.
func (s *ProgrammerService) appendEvent(ctx context.Context, typ, desc string, meta map[string]any) error {
	err := s.eventRepo.Append(ctx, models.CommEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	})
	if err != nil && s.log != nil {
		s.log.Errorw("comm_event_append_failed", "type", typ, "err", err)
	}
	return err
}
