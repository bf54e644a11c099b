package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/issue-service/internal/api/dto"
	"github.com/civicdesk/issue-service/internal/auth"
	"github.com/civicdesk/issue-service/internal/service"
	apperrors "github.com/civicdesk/issue-service/pkg/util/errorutil"
)

// AdminHandler manages triage endpoints.
type AdminHandler struct {
	service *service.ReportService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(reportService *service.ReportService) *AdminHandler {
	return &AdminHandler{service: reportService}
}

// GetReport GET /admin/reports/:id.
func (h *AdminHandler) GetReport(c *fiber.Ctx) error {
	report, err := h.service.GetReport(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportAdminView(report)})
}

// UpdateStatus PATCH /admin/reports/:id/status.
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}
	report, err := h.service.UpdateStatus(c.UserContext(), principal, c.Params("id"), service.StatusUpdateInput{
		Status:     req.Status,
		Notes:      req.ResolutionNotes,
		Department: req.AssignedDepartment,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportAdminView(report)})
}

// UpdateCategory PATCH /admin/reports/:id/category.
func (h *AdminHandler) UpdateCategory(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	report, err := h.service.OverrideCategory(c.UserContext(), principal, c.Params("id"), req.Category)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportAdminView(report)})
}

// DeleteReport DELETE /admin/reports/:id.
func (h *AdminHandler) DeleteReport(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.service.DeleteReport(c.UserContext(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// History GET /admin/reports/:id/history.
func (h *AdminHandler) History(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	entries, err := h.service.ListHistory(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": historyResponses(entries)})
}
