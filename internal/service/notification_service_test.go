package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/civicdesk/issue-service/internal/config"
	"github.com/civicdesk/issue-service/internal/domain"
	"github.com/civicdesk/issue-service/internal/events"
	"github.com/civicdesk/issue-service/internal/observability"
)

type webhookRecorder struct {
	mu       sync.Mutex
	received []Notification
	status   int
}

func newWebhook(t *testing.T, status int) (*httptest.Server, *webhookRecorder) {
	t.Helper()
	rec := &webhookRecorder{status: status}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var n Notification
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&n)) {
			rec.mu.Lock()
			rec.received = append(rec.received, n)
			rec.mu.Unlock()
		}
		w.WriteHeader(rec.status)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func (r *webhookRecorder) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.received...)
}

func TestNotificationService_ReporterAndDepartment(t *testing.T) {
	srv, hook := newWebhook(t, http.StatusAccepted)
	repo := newMemReportRepo()
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, repo, zap.NewNop(), config.NotificationConfig{
		EmailFrom:  "noreply@civic.example",
		WebhookURL: srv.URL,
	}).RegisterHandlers()
	svc := NewReportService(ReportDependencies{
		ReportRepo:   repo,
		HistoryRepo:  &memHistoryRepo{},
		Dispatcher:   dispatcher,
		Metrics:      observability.NewMetrics(),
		Geo:          config.GeoConfig{MaxRadiusKm: 50, NearbyLimit: 500},
		TrackingCost: bcrypt.MinCost,
		Now:          func() time.Time { return fixedAt },
	})
	ctx := context.Background()

	created, err := svc.CreateReport(ctx, nil, validInput())
	require.NoError(t, err)
	id := created.Report.ID

	dept := "Roads & Drains"
	_, err = svc.UpdateStatus(ctx, admin, id, StatusUpdateInput{Status: domain.ReportStatusInProgress, Department: &dept})
	require.NoError(t, err)
	_, err = svc.OverrideCategory(ctx, admin, id, domain.CategoryUtilities)
	require.NoError(t, err)

	sent := hook.all()
	require.Len(t, sent, 4)

	assert.Equal(t, events.EventReportCreated, sent[0].Event)
	assert.Equal(t, AudienceReporter, sent[0].Audience)
	assert.Equal(t, "9876543210", sent[0].To.Mobile)
	assert.Equal(t, "Asha Rao", sent[0].To.Name)
	assert.Equal(t, "noreply@civic.example", sent[0].From)
	assert.Equal(t, created.Report.ExternalKey, sent[0].ExternalKey)

	assert.Equal(t, events.EventReportStatusChanged, sent[1].Event)
	assert.Equal(t, AudienceReporter, sent[1].Audience)
	assert.Equal(t, domain.ReportStatusInProgress, sent[1].Status)
	assert.Contains(t, sent[1].Message, "from REPORTED to IN_PROGRESS")

	assert.Equal(t, events.EventReportAssigned, sent[2].Event)
	assert.Equal(t, AudienceDepartment, sent[2].Audience)
	assert.Equal(t, Recipient{Department: "Roads & Drains"}, sent[2].To)
	assert.Contains(t, sent[2].Message, "assigned to Roads & Drains")

	assert.Equal(t, events.EventReportCategoryChanged, sent[3].Event)
	assert.Equal(t, AudienceDepartment, sent[3].Audience)
	assert.Equal(t, domain.CategoryUtilities, sent[3].Category)
	assert.Equal(t, id, sent[3].ReportID)
}

func TestNotificationService_SkipsWithoutRecipient(t *testing.T) {
	srv, hook := newWebhook(t, http.StatusOK)
	seed := seededReport("8f2a6d0e-1b7c-4e3a-9c9d-5a6b7c8d9e0f", 1, 1)
	repo := newMemReportRepo(seed)
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, repo, zap.NewNop(), config.NotificationConfig{WebhookURL: srv.URL}).RegisterHandlers()
	ctx := context.Background()

	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventReportCreated, seed.ID, events.SystemActor, nil)))
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventReportCategoryChanged, seed.ID, events.SystemActor,
		events.ReportCategoryChangedPayload{OldCategory: domain.CategoryGeneral, NewCategory: domain.CategorySanitation})))
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventReportStatusChanged, "missing", events.SystemActor,
		events.ReportStatusChangedPayload{OldStatus: domain.ReportStatusReported, NewStatus: domain.ReportStatusClosed})))

	assert.Empty(t, hook.all())
}

func TestNotificationService_WebhookFailure(t *testing.T) {
	srv, hook := newWebhook(t, http.StatusBadGateway)
	seed := seededReport("9a3b7e1f-2c8d-4f4b-8d0e-6b7c8d9e0f1a", 1, 1)
	seed.ReporterMobile = "9876543210"
	repo := newMemReportRepo(seed)
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, repo, zap.NewNop(), config.NotificationConfig{WebhookURL: srv.URL}).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.NewEvent(events.EventReportCreated, seed.ID, events.SystemActor, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook answered 502")
	assert.Len(t, hook.all(), 1)
}

func TestNotificationService_NoWebhookConfigured(t *testing.T) {
	seed := seededReport("0b4c8f2a-3d9e-4a5c-9e1f-7c8d9e0f1a2b", 1, 1)
	seed.ReporterMobile = "9876543210"
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, newMemReportRepo(seed), nil, config.NotificationConfig{}).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.NewEvent(events.EventReportCreated, seed.ID, events.SystemActor, nil))
	assert.NoError(t, err)
}
