package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// KBHandler manages knowledge-base endpoints.
type KBHandler struct {
	service *service.KBService
}

// NewKBHandler constructs handler.
func NewKBHandler(kbService *service.KBService) *KBHandler {
	return &KBHandler{service: kbService}
}

// Search GET /kb.
func (h *KBHandler) Search(c *fiber.Ctx) error {
	articles, err := h.service.Search(c.Context(), c.Query("query"), parseInt(c.Query("limit"), 10))
	if err != nil {
		return err
	}
	items := make([]dto.ArticleResponse, 0, len(articles))
	for i := range articles {
		items = append(items, dto.ArticleFromDomain(&articles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /kb/:id. Published articles only; used by citation links.
func (h *KBHandler) Get(c *fiber.Ctx) error {
	article, err := h.service.GetPublished(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ArticleFromDomain(article)})
}

// Create POST /kb.
func (h *KBHandler) Create(c *fiber.Ctx) error {
	input, err := parseArticleRequest(c)
	if err != nil {
		return err
	}
	article, err := h.service.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.ArticleFromDomain(article)})
}

// Update PUT /kb/:id.
func (h *KBHandler) Update(c *fiber.Ctx) error {
	input, err := parseArticleRequest(c)
	if err != nil {
		return err
	}
	article, err := h.service.Update(c.Context(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ArticleFromDomain(article)})
}

// Delete DELETE /kb/:id.
func (h *KBHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseArticleRequest(c *fiber.Ctx) (service.ArticleInput, error) {
	var req dto.ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return service.ArticleInput{}, errorutil.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Body) == "" {
		return service.ArticleInput{}, errorutil.NewValidationError("title and body required", nil)
	}
	return service.ArticleInput{
		Title:  req.Title,
		Body:   req.Body,
		Tags:   req.Tags,
		Status: req.Status,
	}, nil
}
