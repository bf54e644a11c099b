package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/twpayne/go-geom"

	"github.com/civicdesk/issue-service/internal/domain"
	"github.com/civicdesk/issue-service/internal/events"
	"github.com/civicdesk/issue-service/internal/geo"
	"github.com/civicdesk/issue-service/internal/ratelimit"
	"github.com/civicdesk/issue-service/internal/repository"
)

type memReportRepo struct {
	mu          sync.Mutex
	reports     map[string]domain.Report
	envelopes   [][]*geom.Bounds
	failUpdates map[string]bool
	// beforeUpdate runs under the lock ahead of the status check.
	beforeUpdate func(stored *domain.Report)
}

func newMemReportRepo(seed ...domain.Report) *memReportRepo {
	r := &memReportRepo{reports: map[string]domain.Report{}, failUpdates: map[string]bool{}}
	for _, report := range seed {
		if report.ID == "" {
			report.ID = uuid.NewString()
		}
		r.reports[report.ID] = report
	}
	return r
}

func (r *memReportRepo) Create(_ context.Context, report *domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	report.ID = uuid.NewString()
	report.CreatedAt = time.Now()
	report.UpdatedAt = report.CreatedAt
	r.reports[report.ID] = *report
	return nil
}

func (r *memReportRepo) Update(_ context.Context, report *domain.Report, expected domain.ReportStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdates[report.ID] {
		return errors.New("update failed")
	}
	stored, ok := r.reports[report.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if r.beforeUpdate != nil {
		r.beforeUpdate(&stored)
		r.reports[report.ID] = stored
	}
	if stored.Status != expected {
		return repository.ErrStatusChanged
	}
	report.UpdatedAt = time.Now()
	r.reports[report.ID] = *report
	return nil
}

func (r *memReportRepo) GetByID(_ context.Context, id string) (*domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &report, nil
}

func (r *memReportRepo) GetByExternalKey(_ context.Context, key string) (*domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, report := range r.reports {
		if report.ExternalKey == key {
			found := report
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memReportRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reports[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.reports, id)
	return nil
}

func (r *memReportRepo) ListWithFilter(_ context.Context, filter repository.ReportFilter) ([]domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Report
	for _, report := range r.reports {
		if filter.ReporterID != nil && (report.ReporterID == nil || *report.ReporterID != *filter.ReporterID) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsValue(filter.Statuses, report.Status) {
			continue
		}
		if len(filter.Categories) > 0 && !containsValue(filter.Categories, report.Category) {
			continue
		}
		if len(filter.Urgencies) > 0 && !containsValue(filter.Urgencies, report.Urgency) {
			continue
		}
		out = append(out, report)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memReportRepo) ListInEnvelopes(_ context.Context, center geo.Point, envelopes []*geom.Bounds, limit int) ([]domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.envelopes = append(r.envelopes, envelopes)
	var out []domain.Report
	for _, report := range r.reports {
		for _, env := range envelopes {
			if report.Latitude >= env.Min(1) && report.Latitude <= env.Max(1) &&
				report.Longitude >= env.Min(0) && report.Longitude <= env.Max(0) {
				out = append(out, report)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di := geo.HaversineKm(center, out[i].Location())
		dj := geo.HaversineKm(center, out[j].Location())
		if di != dj {
			return di < dj
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memReportRepo) ListResolvedBefore(_ context.Context, cutoff time.Time) ([]domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Report
	for _, report := range r.reports {
		if report.Status == domain.ReportStatusResolved && report.UpdatedAt.Before(cutoff) {
			out = append(out, report)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func containsValue[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

type memHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.ReportHistory
}

func (r *memHistoryRepo) Create(_ context.Context, history *domain.ReportHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	history.ID = uuid.NewString()
	history.CreatedAt = time.Now()
	r.entries = append(r.entries, *history)
	return nil
}

func (r *memHistoryRepo) ListByReport(_ context.Context, reportID string) ([]domain.ReportHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ReportHistory
	for _, entry := range r.entries {
		if entry.ReportID == reportID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type recordingDispatcher struct {
	mu        sync.Mutex
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, len(d.published))
	for i, e := range d.published {
		out[i] = e.Type
	}
	return out
}

type stubLimiter struct {
	decision ratelimit.Decision
	err      error
	keys     []string
}

func (l *stubLimiter) Allow(_ context.Context, key string) (ratelimit.Decision, error) {
	l.keys = append(l.keys, key)
	return l.decision, l.err
}
