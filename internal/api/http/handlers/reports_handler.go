package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/issue-service/internal/api/dto"
	"github.com/civicdesk/issue-service/internal/auth"
	"github.com/civicdesk/issue-service/internal/domain"
	"github.com/civicdesk/issue-service/internal/service"
	apperrors "github.com/civicdesk/issue-service/pkg/util/errorutil"
)

// ReportsHandler manages citizen-facing report endpoints.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// CreateReport POST /reports. Works with or without a citizen token.
func (h *ReportsHandler) CreateReport(c *fiber.Ctx) error {
	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Lat == nil || req.Long == nil {
		return apperrors.NewValidationError("lat and long required", nil)
	}

	input := service.ReportCreateInput{
		ReporterName:   req.UserName,
		ReporterMobile: req.UserMobile,
		ReporterEmail:  req.Email,
		IssueType:      req.IssueType,
		Title:          req.Title,
		Description:    req.Description,
		Latitude:       *req.Lat,
		Longitude:      *req.Long,
		Address:        req.Address,
		ImageURLs:      req.Images,
		VoiceNoteURL:   req.VoiceNote,
		ClientKey:      c.IP(),
	}
	created, err := h.service.CreateReport(c.UserContext(), optionalPrincipal(c), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.CreateReportResponse{
		Report:       reportSummary(created.Report),
		TrackingCode: created.TrackingCode,
	}})
}

// ListReports GET /reports.
func (h *ReportsHandler) ListReports(c *fiber.Ctx) error {
	reports, err := h.service.ListReports(c.UserContext(), parseReportListQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportSummaries(reports)})
}

// ListMyReports GET /me/reports.
func (h *ReportsHandler) ListMyReports(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	reports, err := h.service.ListReporterReports(c.UserContext(), principal, parseReportListQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportSummaries(reports)})
}

// Nearby GET /reports/nearby?lat=&long=&radius_km=&limit=.
func (h *ReportsHandler) Nearby(c *fiber.Ctx) error {
	lat, err := requiredFloat(c, "lat")
	if err != nil {
		return err
	}
	long, err := requiredFloat(c, "long")
	if err != nil {
		return err
	}
	radius, err := requiredFloat(c, "radius_km")
	if err != nil {
		return err
	}

	matches, err := h.service.FindNearby(c.UserContext(), service.NearbyQuery{
		Latitude:  lat,
		Longitude: long,
		RadiusKm:  radius,
		Limit:     parseInt(c.Query("limit"), 0),
	})
	if err != nil {
		return err
	}
	items := make([]dto.NearbyReport, 0, len(matches))
	for i := range matches {
		items = append(items, dto.NearbyReport{
			ReportSummary: reportSummary(&matches[i].Record),
			DistanceKm:    matches[i].DistanceKm,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetReport GET /reports/:id. Accepts the id or the CIV- key.
func (h *ReportsHandler) GetReport(c *fiber.Ctx) error {
	report, err := h.service.GetReport(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportSummary(report)})
}

// WithdrawReport POST /reports/:id/withdraw.
func (h *ReportsHandler) WithdrawReport(c *fiber.Ctx) error {
	var req dto.WithdrawReportRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	report, err := h.service.WithdrawReport(c.UserContext(), optionalPrincipal(c), c.Params("id"), req.TrackingCode)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportSummary(report)})
}

func optionalPrincipal(c *fiber.Ctx) *domain.Principal {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil
	}
	return principal
}
