package service

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// SettingsService reads and updates triage policy settings.
type SettingsService struct {
	settings repository.SettingsRepository
}

// NewSettingsService constructs the service.
func NewSettingsService(settings repository.SettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

// Get returns current settings, falling back to defaults when unset.
func (s *SettingsService) Get(ctx context.Context) (domain.TriageSettings, error) {
	return s.settings.Get(ctx)
}

// Update validates and stores new settings.
func (s *SettingsService) Update(ctx context.Context, settings domain.TriageSettings) (domain.TriageSettings, error) {
	if settings.ConfidenceThreshold < 0 || settings.ConfidenceThreshold > 1 {
		return domain.TriageSettings{}, errorutil.NewValidationError("confidence_threshold must be in [0,1]", nil)
	}
	if settings.SLAHours < 1 {
		return domain.TriageSettings{}, errorutil.NewValidationError("sla_hours must be at least 1", nil)
	}
	if err := s.settings.Upsert(ctx, settings); err != nil {
		return domain.TriageSettings{}, err
	}
	return settings, nil
}
