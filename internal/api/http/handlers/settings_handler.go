package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// SettingsHandler manages triage policy endpoints.
type SettingsHandler struct {
	service *service.SettingsService
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: settingsService}
}

// Get GET /config.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	settings, err := h.service.Get(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SettingsFromDomain(settings)})
}

// Update PUT /config.
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var req dto.SettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	settings, err := h.service.Update(c.Context(), domain.TriageSettings{
		AutoCloseEnabled:    req.AutoCloseEnabled,
		ConfidenceThreshold: req.ConfidenceThreshold,
		SLAHours:            req.SLAHours,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SettingsFromDomain(settings)})
}
