package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/issue-service/internal/api/dto"
	"github.com/civicdesk/issue-service/internal/domain"
	"github.com/civicdesk/issue-service/internal/service"
	apperrors "github.com/civicdesk/issue-service/pkg/util/errorutil"
)

const maxPageSize = 100

func parseReportListQuery(c *fiber.Ctx) service.ReportListFilter {
	filter := service.ReportListFilter{}
	for _, part := range splitQuery(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, domain.ReportStatus(strings.ToUpper(part)))
	}
	for _, part := range splitQuery(c.Query("category")) {
		filter.Categories = append(filter.Categories, domain.Category(part))
	}
	for _, part := range splitQuery(c.Query("urgency")) {
		filter.Urgencies = append(filter.Urgencies, domain.Urgency(part))
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		filter.SearchTerm = &q
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func splitQuery(val string) []string {
	if val == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func requiredFloat(c *fiber.Ctx, name string) (float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, apperrors.NewValidationError(name+" required", map[string]any{name: "is required"})
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.NewValidationError(name+" must be a number", map[string]any{name: raw})
	}
	return v, nil
}

func reportSummary(report *domain.Report) dto.ReportSummary {
	images := report.ImageURLs
	if images == nil {
		images = []string{}
	}
	return dto.ReportSummary{
		ID:                 report.ID,
		ExternalKey:        report.ExternalKey,
		IssueType:          report.IssueType,
		Title:              report.Title,
		Description:        report.Description,
		Lat:                report.Latitude,
		Long:               report.Longitude,
		Address:            report.Address,
		Images:             images,
		VoiceNote:          report.VoiceNoteURL,
		Category:           report.Category,
		Urgency:            report.Urgency,
		Status:             report.Status,
		AssignedDepartment: report.AssignedDepartment,
		ResolutionNotes:    report.ResolutionNotes,
		CreatedAt:          report.CreatedAt,
		UpdatedAt:          report.UpdatedAt,
		ClosedAt:           report.ClosedAt,
	}
}

func reportSummaries(reports []domain.Report) []dto.ReportSummary {
	items := make([]dto.ReportSummary, 0, len(reports))
	for i := range reports {
		items = append(items, reportSummary(&reports[i]))
	}
	return items
}

func reportAdminView(report *domain.Report) dto.ReportAdminView {
	return dto.ReportAdminView{
		ReportSummary:  reportSummary(report),
		ReporterID:     report.ReporterID,
		ReporterName:   report.ReporterName,
		ReporterMobile: report.ReporterMobile,
		ReporterEmail:  report.ReporterEmail,
		ResolvedBy:     report.ResolvedBy,
	}
}

func historyResponses(entries []domain.ReportHistory) []dto.ReportHistoryResponse {
	resp := make([]dto.ReportHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.ReportHistoryResponse{
			ID:            entry.ID,
			ChangeType:    entry.ChangeType,
			ChangedByType: entry.ChangedByType,
			ChangedByID:   entry.ChangedByID,
			OldValue:      entry.OldValue,
			NewValue:      entry.NewValue,
			CreatedAt:     entry.CreatedAt,
		})
	}
	return resp
}
