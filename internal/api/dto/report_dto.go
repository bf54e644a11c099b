package dto

import (
	"time"

	"github.com/civicdesk/issue-service/internal/domain"
)

// CreateReportRequest payload. Coordinates are pointers so a missing value is not read as 0.
type CreateReportRequest struct {
	UserName    string   `json:"user_name"`
	UserMobile  string   `json:"user_mobile"`
	Email       *string  `json:"email"`
	IssueType   string   `json:"issue_type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Lat         *float64 `json:"lat"`
	Long        *float64 `json:"long"`
	Address     *string  `json:"address"`
	Images      []string `json:"images"`
	VoiceNote   *string  `json:"voice_note"`
}

// ReportSummary is the public view of a report. Reporter contact details are never included.
type ReportSummary struct {
	ID                 string              `json:"id"`
	ExternalKey        string              `json:"external_key"`
	IssueType          string              `json:"issue_type"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Lat                float64             `json:"lat"`
	Long               float64             `json:"long"`
	Address            *string             `json:"address"`
	Images             []string            `json:"images"`
	VoiceNote          *string             `json:"voice_note"`
	Category           domain.Category     `json:"category"`
	Urgency            domain.Urgency      `json:"urgency_level"`
	Status             domain.ReportStatus `json:"status"`
	AssignedDepartment *string             `json:"assigned_department"`
	ResolutionNotes    *string             `json:"resolution_notes"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
	ClosedAt           *time.Time          `json:"closed_at"`
}

// ReportAdminView adds reporter details for triage staff.
type ReportAdminView struct {
	ReportSummary
	ReporterID     *string `json:"reporter_id"`
	ReporterName   string  `json:"user_name"`
	ReporterMobile string  `json:"user_mobile"`
	ReporterEmail  *string `json:"email"`
	ResolvedBy     *string `json:"resolved_by"`
}

// CreateReportResponse is returned once. The tracking code cannot be recovered later.
type CreateReportResponse struct {
	Report       ReportSummary `json:"report"`
	TrackingCode string        `json:"tracking_code,omitempty"`
}

// NearbyReport is a report with its distance from the query point.
type NearbyReport struct {
	ReportSummary
	DistanceKm float64 `json:"distance_km"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status             domain.ReportStatus `json:"status"`
	ResolutionNotes    *string             `json:"resolution_notes"`
	AssignedDepartment *string             `json:"assigned_department"`
}

// UpdateCategoryRequest payload.
type UpdateCategoryRequest struct {
	Category domain.Category `json:"category"`
}

// WithdrawReportRequest payload.
type WithdrawReportRequest struct {
	TrackingCode string `json:"tracking_code"`
}

// ReportHistoryResponse item.
type ReportHistoryResponse struct {
	ID            string                  `json:"id"`
	ChangeType    domain.ReportChangeType `json:"change_type"`
	ChangedByType domain.SubjectType      `json:"changed_by_type"`
	ChangedByID   *string                 `json:"changed_by_id"`
	OldValue      map[string]any          `json:"old_value"`
	NewValue      map[string]any          `json:"new_value"`
	CreatedAt     time.Time               `json:"created_at"`
}
