package service

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/civicdesk/issue-service/internal/auth"
	"github.com/civicdesk/issue-service/internal/classifier"
	"github.com/civicdesk/issue-service/internal/config"
	"github.com/civicdesk/issue-service/internal/domain"
	"github.com/civicdesk/issue-service/internal/events"
	"github.com/civicdesk/issue-service/internal/geo"
	"github.com/civicdesk/issue-service/internal/observability"
	"github.com/civicdesk/issue-service/internal/ratelimit"
	"github.com/civicdesk/issue-service/internal/repository"
	apperrors "github.com/civicdesk/issue-service/pkg/util/errorutil"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 5000
	maxImages            = 10
	externalKeyPrefix    = "CIV-"
)

var mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)

// ReportService coordinates report workflows.
type ReportService struct {
	reports      repository.ReportRepository
	history      repository.ReportHistoryRepository
	classifier   *classifier.Classifier
	limiter      ratelimit.Limiter
	dispatcher   events.Dispatcher
	metrics      *observability.Metrics
	logger       *zap.Logger
	geo          config.GeoConfig
	trackingCost int
	now          func() time.Time
}

// ReportDependencies bundles collaborators for the report service.
type ReportDependencies struct {
	ReportRepo   repository.ReportRepository
	HistoryRepo  repository.ReportHistoryRepository
	Classifier   *classifier.Classifier
	Limiter      ratelimit.Limiter
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
	Geo          config.GeoConfig
	TrackingCost int
	Now          func() time.Time
}

// ReportCreateInput describes a citizen submission.
type ReportCreateInput struct {
	ReporterName   string
	ReporterMobile string
	ReporterEmail  *string
	IssueType      string
	Title          string
	Description    string
	Latitude       float64
	Longitude      float64
	Address        *string
	ImageURLs      []string
	VoiceNoteURL   *string
	// ClientKey identifies anonymous submitters for rate limiting, usually the client IP.
	ClientKey string
}

// CreatedReport is returned once on submission. TrackingCode is only set for anonymous reporters.
type CreatedReport struct {
	Report       *domain.Report
	TrackingCode string
}

// ReportListFilter describes listing filters.
type ReportListFilter struct {
	Statuses   []domain.ReportStatus
	Categories []domain.Category
	Urgencies  []domain.Urgency
	SearchTerm *string
	Limit      int
	Offset     int
}

// NearbyQuery describes a proximity search.
type NearbyQuery struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
	Limit     int
}

// StatusUpdateInput describes an admin status change.
type StatusUpdateInput struct {
	Status     domain.ReportStatus
	Notes      *string
	Department *string
}

// Classification is a preview of what a submission would be filed under.
type Classification struct {
	Category       domain.Category
	Urgency        domain.Urgency
	MatchedKeyword string
	Fallback       bool
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	svc := &ReportService{
		reports:      deps.ReportRepo,
		history:      deps.HistoryRepo,
		classifier:   deps.Classifier,
		limiter:      deps.Limiter,
		dispatcher:   deps.Dispatcher,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
		geo:          deps.Geo,
		trackingCost: deps.TrackingCost,
		now:          deps.Now,
	}
	if svc.classifier == nil {
		svc.classifier = classifier.Default()
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.trackingCost <= 0 {
		svc.trackingCost = 10
	}
	return svc
}

// Classify previews the category and urgency for a description.
func (s *ReportService) Classify(description string) Classification {
	decision := s.classifier.Explain(description)
	return Classification{
		Category:       decision.Category,
		Urgency:        s.classifier.AssessUrgency(description),
		MatchedKeyword: decision.MatchedKeyword,
		Fallback:       decision.Fallback,
	}
}

// Rules exposes the classifier rule order.
func (s *ReportService) Rules() []classifier.Rule {
	return s.classifier.Rules()
}

// CreateReport validates, classifies and stores a submission. principal is nil for anonymous reporters.
func (s *ReportService) CreateReport(ctx context.Context, principal *domain.Principal, input ReportCreateInput) (*CreatedReport, error) {
	input = normalizeCreateInput(principal, input)
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}
	if err := s.checkRateLimit(ctx, principal, input.ClientKey); err != nil {
		return nil, err
	}

	report := &domain.Report{
		ExternalKey:    generateReportKey(),
		ReporterName:   input.ReporterName,
		ReporterMobile: input.ReporterMobile,
		ReporterEmail:  input.ReporterEmail,
		IssueType:      input.IssueType,
		Title:          input.Title,
		Description:    input.Description,
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		Address:        input.Address,
		ImageURLs:      input.ImageURLs,
		VoiceNoteURL:   input.VoiceNoteURL,
		Category:       s.classifier.Classify(input.Description),
		Urgency:        s.classifier.AssessUrgency(input.Description),
		Status:         domain.ReportStatusReported,
	}
	if report.ImageURLs == nil {
		report.ImageURLs = []string{}
	}

	var trackingCode string
	if principal != nil {
		id := principal.SubjectID
		report.ReporterID = &id
	} else {
		trackingCode = auth.NewTrackingCode()
		hashed, err := auth.HashTrackingCode(trackingCode, s.trackingCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		report.TrackingHash = &hashed
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.metrics.RecordClassification(string(report.Category))
	s.metrics.RecordReportCreated()

	s.publishEvent(ctx, events.NewEvent(events.EventReportCreated, report.ID, events.ActorFor(principal),
		events.ReportCreatedPayload{
			ExternalKey: report.ExternalKey,
			Category:    report.Category,
			Urgency:     report.Urgency,
			Title:       report.Title,
			Latitude:    report.Latitude,
			Longitude:   report.Longitude,
		}))
	return &CreatedReport{Report: report, TrackingCode: trackingCode}, nil
}

// GetReport fetches a report by id or by its CIV- key.
func (s *ReportService) GetReport(ctx context.Context, idOrKey string) (*domain.Report, error) {
	idOrKey = strings.TrimSpace(idOrKey)
	var (
		report *domain.Report
		err    error
	)
	switch {
	case strings.HasPrefix(strings.ToUpper(idOrKey), externalKeyPrefix):
		report, err = s.reports.GetByExternalKey(ctx, strings.ToUpper(idOrKey))
	case isUUID(idOrKey):
		report, err = s.reports.GetByID(ctx, idOrKey)
	default:
		return nil, apperrors.NewNotFound("report", map[string]any{"id": idOrKey})
	}
	if err != nil {
		return nil, mapRepoError(err, idOrKey)
	}
	return report, nil
}

// ListReports returns the public listing.
func (s *ReportService) ListReports(ctx context.Context, filter ReportListFilter) ([]domain.Report, error) {
	repoFilter, err := buildRepoFilter(filter)
	if err != nil {
		return nil, err
	}
	reports, err := s.reports.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return reports, nil
}

// ListReporterReports returns the caller's own reports.
func (s *ReportService) ListReporterReports(ctx context.Context, principal *domain.Principal, filter ReportListFilter) ([]domain.Report, error) {
	if principal == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	repoFilter, err := buildRepoFilter(filter)
	if err != nil {
		return nil, err
	}
	id := principal.SubjectID
	repoFilter.ReporterID = &id
	reports, err := s.reports.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return reports, nil
}

// FindNearby returns reports within radius of the point, nearest first.
// Storage narrows candidates by bounding box; exact distances are computed here.
func (s *ReportService) FindNearby(ctx context.Context, query NearbyQuery) ([]geo.Match[domain.Report], error) {
	center := geo.Point{Lat: query.Latitude, Long: query.Longitude}
	if err := center.Validate(); err != nil {
		return nil, validationFromGeo(err)
	}
	if err := geo.ValidateRadius(query.RadiusKm); err != nil {
		return nil, validationFromGeo(err)
	}
	if s.geo.MaxRadiusKm > 0 && query.RadiusKm > s.geo.MaxRadiusKm {
		return nil, apperrors.NewValidationError("radius too large", map[string]any{
			"radius_km": query.RadiusKm,
			"max":       s.geo.MaxRadiusKm,
		})
	}

	box := geo.BoundingBoxAround(center, query.RadiusKm)
	candidates, err := s.reports.ListInEnvelopes(ctx, center, box.Envelopes(), s.geo.NearbyLimit)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if s.geo.NearbyLimit > 0 && len(candidates) >= s.geo.NearbyLimit {
		s.logger.Warn("nearby candidates hit the limit; farthest reports in the box were skipped",
			zap.Int("limit", s.geo.NearbyLimit), zap.Float64("radius_km", query.RadiusKm))
	}

	matches, err := geo.FindNearby(center, query.RadiusKm, candidates)
	if err != nil {
		return nil, validationFromGeo(err)
	}
	if query.Limit > 0 && len(matches) > query.Limit {
		matches = matches[:query.Limit]
	}
	return matches, nil
}

// UpdateStatus moves a report through its lifecycle on behalf of an admin.
func (s *ReportService) UpdateStatus(ctx context.Context, admin *domain.Principal, reportID string, input StatusUpdateInput) (*domain.Report, error) {
	if !admin.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}
	if !input.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": input.Status})
	}
	report, err := s.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}

	oldStatus := report.Status
	oldDepartment := report.AssignedDepartment
	statusChanged := input.Status != oldStatus
	if statusChanged && !oldStatus.CanTransitionTo(input.Status) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": oldStatus,
			"to":   input.Status,
		})
	}
	departmentChanged := input.Department != nil && !equalStringPtr(oldDepartment, input.Department)
	if !statusChanged && !departmentChanged && input.Notes == nil {
		return report, nil
	}

	now := s.now()
	report.Status = input.Status
	if input.Notes != nil {
		notes := strings.TrimSpace(*input.Notes)
		report.ResolutionNotes = &notes
	}
	if departmentChanged {
		dept := strings.TrimSpace(*input.Department)
		report.AssignedDepartment = &dept
	}
	switch input.Status {
	case domain.ReportStatusResolved:
		if statusChanged {
			by := admin.SubjectID
			report.ResolvedBy = &by
		}
	case domain.ReportStatusClosed:
		if report.ClosedAt == nil {
			report.ClosedAt = &now
		}
	case domain.ReportStatusInProgress:
		report.ResolvedBy = nil
	}

	if err := s.reports.Update(ctx, report, oldStatus); err != nil {
		return nil, mapRepoError(err, reportID)
	}

	actorID := admin.SubjectID
	if statusChanged {
		s.recordHistory(ctx, domain.ReportHistory{
			ReportID:      report.ID,
			ChangedByType: domain.SubjectTypeAdmin,
			ChangedByID:   &actorID,
			ChangeType:    domain.ChangeTypeStatus,
			OldValue:      map[string]any{"status": oldStatus},
			NewValue:      map[string]any{"status": report.Status},
		})
		notes := ""
		if report.ResolutionNotes != nil {
			notes = *report.ResolutionNotes
		}
		s.publishEvent(ctx, events.NewEvent(events.EventReportStatusChanged, report.ID, events.ActorFor(admin),
			events.ReportStatusChangedPayload{OldStatus: oldStatus, NewStatus: report.Status, Notes: notes}))
	}
	if departmentChanged {
		s.recordHistory(ctx, domain.ReportHistory{
			ReportID:      report.ID,
			ChangedByType: domain.SubjectTypeAdmin,
			ChangedByID:   &actorID,
			ChangeType:    domain.ChangeTypeDepartment,
			OldValue:      map[string]any{"department": derefOrEmpty(oldDepartment)},
			NewValue:      map[string]any{"department": derefOrEmpty(report.AssignedDepartment)},
		})
		s.publishEvent(ctx, events.NewEvent(events.EventReportAssigned, report.ID, events.ActorFor(admin),
			events.ReportAssignedPayload{
				OldDepartment: derefOrEmpty(oldDepartment),
				NewDepartment: derefOrEmpty(report.AssignedDepartment),
			}))
	}
	return report, nil
}

// OverrideCategory replaces the classifier's decision after triage.
func (s *ReportService) OverrideCategory(ctx context.Context, admin *domain.Principal, reportID string, category domain.Category) (*domain.Report, error) {
	if !admin.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}
	if !category.Valid() {
		return nil, apperrors.NewValidationError("invalid category", map[string]any{"category": category})
	}
	report, err := s.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Category == category {
		return report, nil
	}

	old := report.Category
	report.Category = category
	if err := s.reports.Update(ctx, report, report.Status); err != nil {
		return nil, mapRepoError(err, reportID)
	}

	actorID := admin.SubjectID
	s.recordHistory(ctx, domain.ReportHistory{
		ReportID:      report.ID,
		ChangedByType: domain.SubjectTypeAdmin,
		ChangedByID:   &actorID,
		ChangeType:    domain.ChangeTypeCategory,
		OldValue:      map[string]any{"category": old},
		NewValue:      map[string]any{"category": category},
	})
	s.publishEvent(ctx, events.NewEvent(events.EventReportCategoryChanged, report.ID, events.ActorFor(admin),
		events.ReportCategoryChangedPayload{OldCategory: old, NewCategory: category}))
	return report, nil
}

// DeleteReport removes a report and its history.
func (s *ReportService) DeleteReport(ctx context.Context, admin *domain.Principal, reportID string) error {
	if !admin.IsAdmin() {
		return apperrors.NewForbidden("admin role required")
	}
	report, err := s.GetReport(ctx, reportID)
	if err != nil {
		return err
	}
	if err := s.reports.Delete(ctx, report.ID); err != nil {
		return mapRepoError(err, reportID)
	}
	s.publishEvent(ctx, events.NewEvent(events.EventReportDeleted, report.ID, events.ActorFor(admin), nil))
	return nil
}

// ListHistory returns the audit trail of a report.
func (s *ReportService) ListHistory(ctx context.Context, admin *domain.Principal, reportID string) ([]domain.ReportHistory, error) {
	if !admin.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}
	report, err := s.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	entries, err := s.history.ListByReport(ctx, report.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return entries, nil
}

// WithdrawReport closes an unresolved report for its reporter. Authenticated owners need no
// code; anonymous reporters present the tracking code they got on submission.
func (s *ReportService) WithdrawReport(ctx context.Context, principal *domain.Principal, reportID, trackingCode string) (*domain.Report, error) {
	report, err := s.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !s.canWithdraw(principal, report, trackingCode) {
		return nil, apperrors.NewForbidden("only the reporter can withdraw this report")
	}
	if report.Status != domain.ReportStatusReported && report.Status != domain.ReportStatusInProgress {
		return nil, apperrors.NewConflict("report can no longer be withdrawn", map[string]any{"status": report.Status})
	}

	old := report.Status
	now := s.now()
	report.Status = domain.ReportStatusClosed
	report.ClosedAt = &now
	if err := s.reports.Update(ctx, report, old); err != nil {
		return nil, mapRepoError(err, reportID)
	}

	actor := events.ActorFor(principal)
	s.recordHistory(ctx, domain.ReportHistory{
		ReportID:      report.ID,
		ChangedByType: actor.Type,
		ChangedByID:   actor.ID,
		ChangeType:    domain.ChangeTypeStatus,
		OldValue:      map[string]any{"status": old},
		NewValue:      map[string]any{"status": report.Status, "reason": "withdrawn"},
	})
	s.publishEvent(ctx, events.NewEvent(events.EventReportStatusChanged, report.ID, actor,
		events.ReportStatusChangedPayload{OldStatus: old, NewStatus: report.Status, Notes: "withdrawn by reporter"}))
	return report, nil
}

// CloseStaleResolved closes reports that have stayed RESOLVED longer than olderThan.
// Reports reopened or removed after the listing are left alone. It keeps going past
// individual failures and returns how many were closed.
func (s *ReportService) CloseStaleResolved(ctx context.Context, olderThan time.Duration) (int, error) {
	now := s.now()
	stale, err := s.reports.ListResolvedBefore(ctx, now.Add(-olderThan))
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}

	closed := 0
	var errs []error
	for i := range stale {
		report := &stale[i]
		report.Status = domain.ReportStatusClosed
		report.ClosedAt = &now
		err := s.reports.Update(ctx, report, domain.ReportStatusResolved)
		if errors.Is(err, repository.ErrStatusChanged) || errors.Is(err, pgx.ErrNoRows) {
			s.logger.Info("auto-close skipped; report changed since the sweep started", zap.String("report_id", report.ID))
			continue
		}
		if err != nil {
			errs = append(errs, err)
			s.logger.Warn("auto-close failed", zap.String("report_id", report.ID), zap.Error(err))
			continue
		}
		closed++
		s.recordHistory(ctx, domain.ReportHistory{
			ReportID:      report.ID,
			ChangedByType: domain.SubjectTypeSystem,
			ChangeType:    domain.ChangeTypeStatus,
			OldValue:      map[string]any{"status": domain.ReportStatusResolved},
			NewValue:      map[string]any{"status": domain.ReportStatusClosed, "reason": "auto_close"},
		})
		s.publishEvent(ctx, events.NewEvent(events.EventReportStatusChanged, report.ID, events.SystemActor,
			events.ReportStatusChangedPayload{OldStatus: domain.ReportStatusResolved, NewStatus: domain.ReportStatusClosed}))
	}
	s.metrics.RecordAutoClosed(closed)
	return closed, errors.Join(errs...)
}

func (s *ReportService) canWithdraw(principal *domain.Principal, report *domain.Report, trackingCode string) bool {
	if principal != nil && report.ReporterID != nil && *report.ReporterID == principal.SubjectID {
		return true
	}
	if strings.TrimSpace(trackingCode) == "" || report.TrackingHash == nil {
		return false
	}
	return auth.CompareTrackingCode(*report.TrackingHash, trackingCode) == nil
}

func (s *ReportService) checkRateLimit(ctx context.Context, principal *domain.Principal, clientKey string) error {
	if s.limiter == nil {
		return nil
	}
	key := "anon:" + clientKey
	if principal != nil {
		key = "subject:" + principal.SubjectID
	}
	decision, err := s.limiter.Allow(ctx, key)
	if err != nil {
		s.logger.Warn("rate limiter unavailable; allowing submission", zap.Error(err))
		return nil
	}
	if !decision.Allowed {
		return apperrors.NewRateLimited(decision.RetryAfter.Seconds())
	}
	return nil
}

func (s *ReportService) recordHistory(ctx context.Context, entry domain.ReportHistory) {
	if s.history == nil {
		return
	}
	if err := s.history.Create(ctx, &entry); err != nil {
		s.logger.Warn("failed to record report history", zap.String("report_id", entry.ReportID), zap.Error(err))
	}
}

func (s *ReportService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func normalizeCreateInput(principal *domain.Principal, input ReportCreateInput) ReportCreateInput {
	input.ReporterName = strings.TrimSpace(input.ReporterName)
	if input.ReporterName == "" && principal != nil {
		input.ReporterName = strings.TrimSpace(principal.Name)
	}
	input.ReporterMobile = strings.TrimSpace(input.ReporterMobile)
	input.IssueType = strings.TrimSpace(input.IssueType)
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.ReporterEmail = trimmedOrNil(input.ReporterEmail)
	input.Address = trimmedOrNil(input.Address)
	input.VoiceNoteURL = trimmedOrNil(input.VoiceNoteURL)

	images := make([]string, 0, len(input.ImageURLs))
	for _, u := range input.ImageURLs {
		if u = strings.TrimSpace(u); u != "" {
			images = append(images, u)
		}
	}
	input.ImageURLs = images
	return input
}

func validateCreateInput(input ReportCreateInput) error {
	details := map[string]any{}
	if input.Title == "" {
		details["title"] = "is required"
	} else if len(input.Title) > maxTitleLength {
		details["title"] = "is too long"
	}
	if input.Description == "" {
		details["description"] = "is required"
	} else if len(input.Description) > maxDescriptionLength {
		details["description"] = "is too long"
	}
	if input.ReporterName == "" {
		details["user_name"] = "is required"
	}
	if !mobilePattern.MatchString(input.ReporterMobile) {
		details["user_mobile"] = "must be exactly 10 digits"
	}
	if input.ReporterEmail != nil {
		if _, err := mail.ParseAddress(*input.ReporterEmail); err != nil {
			details["email"] = "is not a valid address"
		}
	}
	if len(input.ImageURLs) > maxImages {
		details["images"] = "too many images"
	}
	var inputErr *geo.InputError
	if err := (geo.Point{Lat: input.Latitude, Long: input.Longitude}).Validate(); errors.As(err, &inputErr) {
		details[inputErr.Field] = inputErr.Reason
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid report", details)
	}
	return nil
}

func buildRepoFilter(filter ReportListFilter) (repository.ReportFilter, error) {
	for _, status := range filter.Statuses {
		if !status.Valid() {
			return repository.ReportFilter{}, apperrors.NewValidationError("invalid status filter", map[string]any{"status": status})
		}
	}
	for _, category := range filter.Categories {
		if !category.Valid() {
			return repository.ReportFilter{}, apperrors.NewValidationError("invalid category filter", map[string]any{"category": category})
		}
	}
	for _, urgency := range filter.Urgencies {
		if !urgency.Valid() {
			return repository.ReportFilter{}, apperrors.NewValidationError("invalid urgency filter", map[string]any{"urgency": urgency})
		}
	}
	return repository.ReportFilter{
		Statuses:   filter.Statuses,
		Categories: filter.Categories,
		Urgencies:  filter.Urgencies,
		SearchTerm: filter.SearchTerm,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

func validationFromGeo(err error) error {
	var inputErr *geo.InputError
	if errors.As(err, &inputErr) {
		return apperrors.NewValidationError(inputErr.Error(), map[string]any{inputErr.Field: inputErr.Reason})
	}
	return apperrors.NewValidationError(err.Error(), nil)
}

func mapRepoError(err error, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("report", map[string]any{"id": id})
	}
	if errors.Is(err, repository.ErrStatusChanged) {
		return apperrors.NewConflict("report was modified concurrently; reload and retry", map[string]any{"id": id})
	}
	return apperrors.NewInternalError(err)
}

func generateReportKey() string {
	return externalKeyPrefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return strings.TrimSpace(*a) == strings.TrimSpace(*b)
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
