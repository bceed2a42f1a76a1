package service

import (
	"context"

	"pacemaker_dcm/internal/device"
	"pacemaker_dcm/internal/logger"
	"pacemaker_dcm/internal/models"
	"pacemaker_dcm/internal/protocol"
	"pacemaker_dcm/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Programmer exposes device programming: connection lifecycle, parameter
// apply/read-back and verification against the device's copy.
type Programmer interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Connected() bool
	// Apply validates, transmits and persists a parameter set. Validation
	// failures never reach the wire.
	Apply(ctx context.Context, owner string, p models.ParameterSet) error
	ReadBack(ctx context.Context, mode string) (models.ParameterSet, error)
	Verify(ctx context.Context, p models.ParameterSet) ([]protocol.FieldMismatch, error)
	// Stored returns the owner's locally persisted set for a mode, or the
	// documented defaults if none was saved yet.
	Stored(ctx context.Context, owner, mode string) (models.ParameterSet, error)
}

// Telemetry manages the live electrogram feed shared by WebSocket clients.
type Telemetry interface {
	Start(ctx context.Context, chamber string) error
	Stop(ctx context.Context) error
	Samples() <-chan models.EgramSample
	Status() TelemetryStatus
}

// EventLog exposes the append-only comm log with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.CommEvent, error)
}

// Service aggregates all sub-services.
type Service struct {
	Programmer
	Telemetry
	EventLog
	Authorization
}

// NewService wires the repository layer and the device session into
// concrete services.
func NewService(repos *repository.Repository, sess *device.Session, telemetryBuffer int, authCfg AuthConfig, log *logger.Logger) *Service {
	return &Service{
		Programmer:    NewProgrammerService(sess, repos.Settings, repos.Events, log),
		Telemetry:     NewTelemetryService(sess, repos.Events, telemetryBuffer),
		EventLog:      NewEventLogService(repos.Events),
		Authorization: NewAuthService(repos.Auth, authCfg),
	}
}
