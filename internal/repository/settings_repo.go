package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pacemaker_dcm/internal/models"
)

type SettingsSQLite struct {
	db *sql.DB
}

func NewSettingsSQLite(db *sql.DB) *SettingsSQLite {
	return &SettingsSQLite{db: db}
}

var _ SettingsRepo = (*SettingsSQLite)(nil)

const (
	upsertSettingsSQL = `
		INSERT INTO device_settings (owner, mode, params, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(owner, mode) DO UPDATE SET
			params=excluded.params,
			updated_at=excluded.updated_at
	`

	selectSettingsSQL = `
		SELECT params FROM device_settings WHERE owner=? AND mode=?
	`
)

// Save upserts the owner's parameter set for its mode. The full set is
// stored as one JSON document; the schema is flat and always complete, so
// per-field columns buy nothing.
func (r *SettingsSQLite) Save(ctx context.Context, owner string, p models.ParameterSet) error {
	blob, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal parameter set: %w", err)
	}
	_, err = r.db.ExecContext(ctx, upsertSettingsSQL,
		owner,
		p.Mode,
		string(blob),
		time.Now().UTC(),
	)
	return err
}

// Load fetches the stored set for (owner, mode); ok=false when absent.
func (r *SettingsSQLite) Load(ctx context.Context, owner, mode string) (models.ParameterSet, bool, error) {
	var blob string
	err := r.db.QueryRowContext(ctx, selectSettingsSQL, owner, mode).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ParameterSet{}, false, nil
		}
		return models.ParameterSet{}, false, err
	}
	var p models.ParameterSet
	if err := json.Unmarshal([]byte(blob), &p); err != nil {
		return models.ParameterSet{}, false, fmt.Errorf("unmarshal parameter set: %w", err)
	}
	return p, true, nil
}
