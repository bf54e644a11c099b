package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/civicdesk/issue-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReportCreated         EventType = "report_created"
	EventReportStatusChanged   EventType = "report_status_changed"
	EventReportCategoryChanged EventType = "report_category_changed"
	EventReportAssigned        EventType = "report_assigned"
	EventReportDeleted         EventType = "report_deleted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type domain.SubjectType `json:"type"`
	ID   *string            `json:"id,omitempty"`
}

// ActorFor describes the principal behind a change. A nil principal is an anonymous reporter.
func ActorFor(principal *domain.Principal) Actor {
	if principal == nil {
		return Actor{Type: domain.SubjectTypeAnonymous}
	}
	id := principal.SubjectID
	return Actor{Type: principal.Subject, ID: &id}
}

// SystemActor is used by background jobs.
var SystemActor = Actor{Type: domain.SubjectTypeSystem}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ReportID  string      `json:"report_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, reportID string, actor Actor, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ReportID:  reportID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// ReportCreatedPayload payload.
type ReportCreatedPayload struct {
	ExternalKey string          `json:"external_key"`
	Category    domain.Category `json:"category"`
	Urgency     domain.Urgency  `json:"urgency"`
	Title       string          `json:"title"`
	Latitude    float64         `json:"lat"`
	Longitude   float64         `json:"long"`
}

// ReportStatusChangedPayload payload.
type ReportStatusChangedPayload struct {
	OldStatus domain.ReportStatus `json:"old_status"`
	NewStatus domain.ReportStatus `json:"new_status"`
	Notes     string              `json:"notes,omitempty"`
}

// ReportCategoryChangedPayload payload.
type ReportCategoryChangedPayload struct {
	OldCategory domain.Category `json:"old_category"`
	NewCategory domain.Category `json:"new_category"`
}

// ReportAssignedPayload payload. Empty strings mean no department.
type ReportAssignedPayload struct {
	OldDepartment string `json:"old_department,omitempty"`
	NewDepartment string `json:"new_department"`
}
