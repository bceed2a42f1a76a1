package repository

import (
	"context"
	"database/sql"
	"time"

	"pacemaker_dcm/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// SettingsRepo persists per-owner, per-mode parameter sets. This is the
// opaque persistence collaborator: the device session never touches it.
type SettingsRepo interface {
	Save(ctx context.Context, owner string, p models.ParameterSet) error
	// Load returns the stored set and true, or ok=false if never saved.
	Load(ctx context.Context, owner, mode string) (models.ParameterSet, bool, error)
}

// EventRepo is the append-only device-communication log.
type EventRepo interface {
	Append(ctx context.Context, e models.CommEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.CommEvent, error)
}

type Repository struct {
	Settings SettingsRepo
	Events   EventRepo
	Auth     Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Settings: NewSettingsSQLite(db),
		Events:   NewEventSQLite(db),
		Auth:     NewUserRepository(db),
	}
}
