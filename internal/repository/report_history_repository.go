package repository

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/civicdesk/issue-service/internal/domain"
)

// ReportHistoryRepository stores audit entries.
type ReportHistoryRepository interface {
	Create(ctx context.Context, history *domain.ReportHistory) error
	ListByReport(ctx context.Context, reportID string) ([]domain.ReportHistory, error)
}

type reportHistoryRepository struct {
	db DBTX
}

// NewReportHistoryRepository builds repository.
func NewReportHistoryRepository(db DBTX) ReportHistoryRepository {
	return &reportHistoryRepository{db: db}
}

func (r *reportHistoryRepository) Create(ctx context.Context, history *domain.ReportHistory) error {
	const query = `
        INSERT INTO report_history (report_id, changed_by_type, changed_by_id, change_type, old_value, new_value)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		history.ReportID,
		history.ChangedByType,
		history.ChangedByID,
		history.ChangeType,
		history.OldValue,
		history.NewValue,
	).Scan(&history.ID, &history.CreatedAt)
	if err != nil {
		return eris.Wrapf(err, "repository: insert history for report %s", history.ReportID)
	}
	return nil
}

func (r *reportHistoryRepository) ListByReport(ctx context.Context, reportID string) ([]domain.ReportHistory, error) {
	const query = `
        SELECT id, report_id, changed_by_type, changed_by_id, change_type, old_value, new_value, created_at
        FROM report_history WHERE report_id=$1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, reportID)
	if err != nil {
		return nil, eris.Wrap(err, "repository: query report history")
	}
	defer rows.Close()

	var result []domain.ReportHistory
	for rows.Next() {
		var history domain.ReportHistory
		if err := rows.Scan(
			&history.ID,
			&history.ReportID,
			&history.ChangedByType,
			&history.ChangedByID,
			&history.ChangeType,
			&history.OldValue,
			&history.NewValue,
			&history.CreatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "repository: scan report history")
		}
		result = append(result, history)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "repository: iterate report history")
	}
	return result, nil
}
