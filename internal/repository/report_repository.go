package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/civicdesk/issue-service/internal/domain"
	"github.com/civicdesk/issue-service/internal/geo"
)

// ErrStatusChanged is returned by Update when the stored status no longer matches the
// status the caller read before modifying the report.
var ErrStatusChanged = errors.New("repository: report status changed concurrently")

// ReportFilter captures listing parameters.
type ReportFilter struct {
	ReporterID *string
	Statuses   []domain.ReportStatus
	Categories []domain.Category
	Urgencies  []domain.Urgency
	SearchTerm *string
	Limit      int
	Offset     int
}

// ReportRepository encapsulates report persistence.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	Update(ctx context.Context, report *domain.Report, expected domain.ReportStatus) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	GetByExternalKey(ctx context.Context, key string) (*domain.Report, error)
	Delete(ctx context.Context, id string) error
	ListWithFilter(ctx context.Context, filter ReportFilter) ([]domain.Report, error)
	ListInEnvelopes(ctx context.Context, center geo.Point, envelopes []*geom.Bounds, limit int) ([]domain.Report, error)
	ListResolvedBefore(ctx context.Context, cutoff time.Time) ([]domain.Report, error)
}

const reportColumns = `id, external_key, reporter_id, reporter_name, reporter_mobile, reporter_email, tracking_hash,
               issue_type, title, description, latitude, longitude, address, image_urls, voice_note_url,
               category, urgency, status, assigned_department, resolution_notes, resolved_by,
               created_at, updated_at, closed_at`

type reportRepository struct {
	db DBTX
}

// NewReportRepository instantiates repository.
func NewReportRepository(db DBTX) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	const query = `
        INSERT INTO reports (external_key, reporter_id, reporter_name, reporter_mobile, reporter_email, tracking_hash,
            issue_type, title, description, latitude, longitude, address, image_urls, voice_note_url,
            category, urgency, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
        RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		report.ExternalKey,
		report.ReporterID,
		report.ReporterName,
		report.ReporterMobile,
		report.ReporterEmail,
		report.TrackingHash,
		report.IssueType,
		report.Title,
		report.Description,
		report.Latitude,
		report.Longitude,
		report.Address,
		report.ImageURLs,
		report.VoiceNoteURL,
		report.Category,
		report.Urgency,
		report.Status,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		return eris.Wrap(err, "repository: insert report")
	}
	return nil
}

// Update persists triage fields. Description and location are never rewritten.
// The write only applies while the stored status still equals expected.
func (r *reportRepository) Update(ctx context.Context, report *domain.Report, expected domain.ReportStatus) error {
	const query = `
        UPDATE reports SET category=$1, urgency=$2, status=$3, assigned_department=$4, resolution_notes=$5,
            resolved_by=$6, closed_at=$7, updated_at=NOW()
        WHERE id=$8 AND status=$9`
	cmd, err := r.db.Exec(ctx, query,
		report.Category,
		report.Urgency,
		report.Status,
		report.AssignedDepartment,
		report.ResolutionNotes,
		report.ResolvedBy,
		report.ClosedAt,
		report.ID,
		expected,
	)
	if err != nil {
		return eris.Wrapf(err, "repository: update report %s", report.ID)
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}

	var current domain.ReportStatus
	if err := r.db.QueryRow(ctx, `SELECT status FROM reports WHERE id=$1`, report.ID).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		return eris.Wrapf(err, "repository: recheck report %s", report.ID)
	}
	return ErrStatusChanged
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *reportRepository) GetByExternalKey(ctx context.Context, key string) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE external_key=$1`
	return r.fetchSingle(ctx, query, key)
}

func (r *reportRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Report, error) {
	report, err := scanReport(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "repository: fetch report")
	}
	return report, nil
}

func (r *reportRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM reports WHERE id=$1`, id)
	if err != nil {
		return eris.Wrapf(err, "repository: delete report %s", id)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reportRepository) ListWithFilter(ctx context.Context, filter ReportFilter) ([]domain.Report, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ReporterID != nil {
		args = append(args, *filter.ReporterID)
		clauses = append(clauses, fmt.Sprintf("reporter_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Categories) > 0 {
		placeholders := make([]string, len(filter.Categories))
		for i, category := range filter.Categories {
			args = append(args, category)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("category IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Urgencies) > 0 {
		placeholders := make([]string, len(filter.Urgencies))
		for i, urgency := range filter.Urgencies {
			args = append(args, urgency)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("urgency IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM reports WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		reportColumns, strings.Join(clauses, " AND "), limit, offset)
	return r.list(ctx, query, args...)
}

// ListInEnvelopes returns reports whose coordinates fall inside any of the envelopes.
// Envelopes are XY bounds: X is longitude, Y is latitude. Rows come back closest to center
// first by an equirectangular approximation, so the limit drops the farthest candidates.
func (r *reportRepository) ListInEnvelopes(ctx context.Context, center geo.Point, envelopes []*geom.Bounds, limit int) ([]domain.Report, error) {
	if len(envelopes) == 0 {
		return nil, nil
	}
	args := []any{}
	boxes := make([]string, 0, len(envelopes))
	for _, env := range envelopes {
		args = append(args, env.Min(1), env.Max(1), env.Min(0), env.Max(0))
		n := len(args)
		boxes = append(boxes, fmt.Sprintf("(latitude BETWEEN $%d AND $%d AND longitude BETWEEN $%d AND $%d)", n-3, n-2, n-1, n))
	}
	if limit <= 0 {
		limit = 500
	}

	args = append(args, center.Lat, center.Long, math.Cos(center.Lat*math.Pi/180))
	n := len(args)
	// Longitude gap wraps at the antimeridian; it is scaled by cos(lat) of the center.
	order := fmt.Sprintf("POWER(latitude - $%d, 2) + POWER(LEAST(ABS(longitude - $%d), 360 - ABS(longitude - $%d)) * $%d, 2)",
		n-2, n-1, n-1, n)
	query := fmt.Sprintf(`SELECT %s FROM reports WHERE %s ORDER BY %s ASC, created_at DESC LIMIT %d`,
		reportColumns, strings.Join(boxes, " OR "), order, limit)
	return r.list(ctx, query, args...)
}

func (r *reportRepository) ListResolvedBefore(ctx context.Context, cutoff time.Time) ([]domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE status=$1 AND updated_at < $2 ORDER BY updated_at ASC`
	return r.list(ctx, query, domain.ReportStatusResolved, cutoff)
}

func (r *reportRepository) list(ctx context.Context, query string, args ...any) ([]domain.Report, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "repository: query reports")
	}
	defer rows.Close()

	var result []domain.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, eris.Wrap(err, "repository: scan report")
		}
		result = append(result, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "repository: iterate reports")
	}
	return result, nil
}

func scanReport(row pgx.Row) (*domain.Report, error) {
	var report domain.Report
	if err := row.Scan(
		&report.ID,
		&report.ExternalKey,
		&report.ReporterID,
		&report.ReporterName,
		&report.ReporterMobile,
		&report.ReporterEmail,
		&report.TrackingHash,
		&report.IssueType,
		&report.Title,
		&report.Description,
		&report.Latitude,
		&report.Longitude,
		&report.Address,
		&report.ImageURLs,
		&report.VoiceNoteURL,
		&report.Category,
		&report.Urgency,
		&report.Status,
		&report.AssignedDepartment,
		&report.ResolutionNotes,
		&report.ResolvedBy,
		&report.CreatedAt,
		&report.UpdatedAt,
		&report.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &report, nil
}
