package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// SettingsRepository stores the single row of triage policy settings.
type SettingsRepository interface {
	// Get returns the stored settings, or the defaults when nothing has
	// been stored yet.
	Get(ctx context.Context) (domain.TriageSettings, error)
	Upsert(ctx context.Context, settings domain.TriageSettings) error
}

type settingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository instantiates repository.
func NewSettingsRepository(pool *pgxpool.Pool) SettingsRepository {
	return &settingsRepository{pool: pool}
}

func (r *settingsRepository) Get(ctx context.Context) (domain.TriageSettings, error) {
	const query = `
        SELECT auto_close_enabled, confidence_threshold, sla_hours
        FROM triage_settings WHERE id=1`
	var settings domain.TriageSettings
	err := r.pool.QueryRow(ctx, query).Scan(
		&settings.AutoCloseEnabled,
		&settings.ConfidenceThreshold,
		&settings.SLAHours,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.DefaultTriageSettings(), nil
	}
	if err != nil {
		return domain.TriageSettings{}, err
	}
	return settings, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, settings domain.TriageSettings) error {
	const query = `
        INSERT INTO triage_settings (id, auto_close_enabled, confidence_threshold, sla_hours)
        VALUES (1, $1, $2, $3)
        ON CONFLICT (id) DO UPDATE SET
            auto_close_enabled=EXCLUDED.auto_close_enabled,
            confidence_threshold=EXCLUDED.confidence_threshold,
            sla_hours=EXCLUDED.sla_hours,
            updated_at=NOW()`
	_, err := r.pool.Exec(ctx, query,
		settings.AutoCloseEnabled,
		settings.ConfidenceThreshold,
		settings.SLAHours,
	)
	return err
}
