package domain

import (
	"time"

	"github.com/civicdesk/issue-service/internal/geo"
)

// ReportStatus enumerates lifecycle states for issue reports.
type ReportStatus string

const (
	ReportStatusReported   ReportStatus = "REPORTED"
	ReportStatusInProgress ReportStatus = "IN_PROGRESS"
	ReportStatusResolved   ReportStatus = "RESOLVED"
	ReportStatusClosed     ReportStatus = "CLOSED"
)

var allowedTransitions = map[ReportStatus][]ReportStatus{
	ReportStatusReported:   {ReportStatusInProgress, ReportStatusClosed},
	ReportStatusInProgress: {ReportStatusResolved, ReportStatusClosed},
	ReportStatusResolved:   {ReportStatusClosed, ReportStatusInProgress},
	ReportStatusClosed:     {},
}

// Valid reports whether s is a known status.
func (s ReportStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s ReportStatus) CanTransitionTo(next ReportStatus) bool {
	for _, candidate := range allowedTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Report is a citizen-submitted issue. Description and location never change after creation.
type Report struct {
	ID                 string
	ExternalKey        string
	ReporterID         *string
	ReporterName       string
	ReporterMobile     string
	ReporterEmail      *string
	TrackingHash       *string
	IssueType          string
	Title              string
	Description        string
	Latitude           float64
	Longitude          float64
	Address            *string
	ImageURLs          []string
	VoiceNoteURL       *string
	Category           Category
	Urgency            Urgency
	Status             ReportStatus
	AssignedDepartment *string
	ResolutionNotes    *string
	ResolvedBy         *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ClosedAt           *time.Time
}

// Location returns the reported position.
func (r Report) Location() geo.Point {
	return geo.Point{Lat: r.Latitude, Long: r.Longitude}
}
