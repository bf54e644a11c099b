package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/issue-service/internal/api/dto"
	"github.com/civicdesk/issue-service/internal/service"
	apperrors "github.com/civicdesk/issue-service/pkg/util/errorutil"
)

// ClassifyHandler exposes the classifier without storing anything.
type ClassifyHandler struct {
	service *service.ReportService
}

// NewClassifyHandler constructs handler.
func NewClassifyHandler(reportService *service.ReportService) *ClassifyHandler {
	return &ClassifyHandler{service: reportService}
}

// Classify POST /classify.
func (h *ClassifyHandler) Classify(c *fiber.Ctx) error {
	var req dto.ClassifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Description) == "" {
		return apperrors.NewValidationError("description required", nil)
	}
	result := h.service.Classify(req.Description)
	return c.JSON(fiber.Map{"data": dto.ClassifyResponse{
		Category:       result.Category,
		Urgency:        result.Urgency,
		MatchedKeyword: result.MatchedKeyword,
		Fallback:       result.Fallback,
	}})
}

// Rules GET /classify/rules.
func (h *ClassifyHandler) Rules(c *fiber.Ctx) error {
	rules := h.service.Rules()
	items := make([]dto.ClassifierRuleResponse, 0, len(rules))
	for i, rule := range rules {
		items = append(items, dto.ClassifierRuleResponse{Order: i + 1, Category: rule.Category, Keywords: rule.Keywords})
	}
	return c.JSON(fiber.Map{"data": items})
}
