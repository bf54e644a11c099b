package domain

import "time"

// ReportChangeType captures what changed in a history entry.
type ReportChangeType string

const (
	ChangeTypeStatus     ReportChangeType = "STATUS_CHANGE"
	ChangeTypeCategory   ReportChangeType = "CATEGORY_CHANGE"
	ChangeTypeDepartment ReportChangeType = "DEPARTMENT_CHANGE"
)

// ReportHistory is an immutable audit trail entry.
type ReportHistory struct {
	ID            string
	ReportID      string
	ChangedByType SubjectType
	ChangedByID   *string
	ChangeType    ReportChangeType
	OldValue      map[string]any
	NewValue      map[string]any
	CreatedAt     time.Time
}
