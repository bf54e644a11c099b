package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/civicdesk/issue-service/internal/config"
	"github.com/civicdesk/issue-service/internal/domain"
	"github.com/civicdesk/issue-service/internal/events"
)

// Audience says who a notification is meant for.
type Audience string

const (
	AudienceReporter   Audience = "reporter"
	AudienceDepartment Audience = "department"
)

// ReportLookup loads the report an event refers to. ReportRepository satisfies it.
type ReportLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Report, error)
}

// Recipient is where the relay should deliver a notification.
type Recipient struct {
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Mobile     string `json:"mobile,omitempty"`
	Department string `json:"department,omitempty"`
}

// Notification is the JSON body posted to the webhook relay, which owns email and SMS delivery.
type Notification struct {
	Event       events.EventType    `json:"event"`
	Audience    Audience            `json:"audience"`
	From        string              `json:"from,omitempty"`
	To          Recipient           `json:"to"`
	ReportID    string              `json:"report_id"`
	ExternalKey string              `json:"external_key"`
	Title       string              `json:"title"`
	Status      domain.ReportStatus `json:"status"`
	Category    domain.Category     `json:"category"`
	Message     string              `json:"message"`
	OccurredAt  time.Time           `json:"occurred_at"`
}

// NotificationService tells reporters about progress on their reports and departments
// about work routed to them.
type NotificationService struct {
	dispatcher events.Dispatcher
	reports    ReportLookup
	logger     *zap.Logger
	cfg        config.NotificationConfig
	client     *http.Client
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, reports ReportLookup, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		reports:    reports,
		logger:     logger,
		cfg:        cfg,
		client:     &http.Client{Timeout: cfg.Timeout()},
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventReportCreated, n.handleReportCreated)
	n.dispatcher.Subscribe(events.EventReportStatusChanged, n.handleReportStatusChanged)
	n.dispatcher.Subscribe(events.EventReportAssigned, n.handleReportAssigned)
	n.dispatcher.Subscribe(events.EventReportCategoryChanged, n.handleReportCategoryChanged)
}

func (n *NotificationService) handleReportCreated(ctx context.Context, event events.Event) error {
	report, ok := n.load(ctx, event)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("Your report %s was received and filed under %s.", report.ExternalKey, report.Category)
	return n.notifyReporter(ctx, event, report, message)
}

func (n *NotificationService) handleReportStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ReportStatusChangedPayload)
	if !ok {
		return nil
	}
	report, ok := n.load(ctx, event)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("Your report %s moved from %s to %s.", report.ExternalKey, payload.OldStatus, payload.NewStatus)
	if payload.Notes != "" {
		message += " Notes: " + payload.Notes
	}
	return n.notifyReporter(ctx, event, report, message)
}

func (n *NotificationService) handleReportAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ReportAssignedPayload)
	if !ok || payload.NewDepartment == "" {
		return nil
	}
	report, ok := n.load(ctx, event)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("Report %s (%s, %s urgency) was assigned to %s.",
		report.ExternalKey, report.Category, report.Urgency, payload.NewDepartment)
	return n.send(ctx, n.build(event, report, AudienceDepartment, Recipient{Department: payload.NewDepartment}, message))
}

func (n *NotificationService) handleReportCategoryChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ReportCategoryChangedPayload)
	if !ok {
		return nil
	}
	report, ok := n.load(ctx, event)
	if !ok || report.AssignedDepartment == nil || *report.AssignedDepartment == "" {
		return nil
	}
	message := fmt.Sprintf("Report %s was recategorised from %s to %s.", report.ExternalKey, payload.OldCategory, payload.NewCategory)
	return n.send(ctx, n.build(event, report, AudienceDepartment, Recipient{Department: *report.AssignedDepartment}, message))
}

func (n *NotificationService) load(ctx context.Context, event events.Event) (*domain.Report, bool) {
	if n.reports == nil {
		return nil, false
	}
	report, err := n.reports.GetByID(ctx, event.ReportID)
	if err != nil {
		n.logger.Warn("notification skipped; report not loaded",
			zap.String("report_id", event.ReportID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return nil, false
	}
	return report, true
}

func (n *NotificationService) notifyReporter(ctx context.Context, event events.Event, report *domain.Report, message string) error {
	to := Recipient{Name: report.ReporterName, Mobile: report.ReporterMobile}
	if report.ReporterEmail != nil {
		to.Email = *report.ReporterEmail
	}
	if to.Email == "" && to.Mobile == "" {
		return nil
	}
	return n.send(ctx, n.build(event, report, AudienceReporter, to, message))
}

func (n *NotificationService) build(event events.Event, report *domain.Report, audience Audience, to Recipient, message string) Notification {
	return Notification{
		Event:       event.Type,
		Audience:    audience,
		From:        strings.TrimSpace(n.cfg.EmailFrom),
		To:          to,
		ReportID:    report.ID,
		ExternalKey: report.ExternalKey,
		Title:       report.Title,
		Status:      report.Status,
		Category:    report.Category,
		Message:     message,
		OccurredAt:  event.Timestamp,
	}
}

func (n *NotificationService) send(ctx context.Context, notification Notification) error {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	if url == "" {
		n.logger.Debug("notification dropped; no webhook configured",
			zap.String("report_id", notification.ReportID),
			zap.String("audience", string(notification.Audience)))
		return nil
	}

	body, err := json.Marshal(notification)
	if err != nil {
		return eris.Wrap(err, "notification: encode")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "notification: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return eris.Wrapf(err, "notification: post %s", notification.Event)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusMultipleChoices {
		return eris.Errorf("notification: webhook answered %d for %s", resp.StatusCode, notification.Event)
	}

	n.logger.Info("notification sent",
		zap.String("report_id", notification.ReportID),
		zap.String("event_type", string(notification.Event)),
		zap.String("audience", string(notification.Audience)))
	return nil
}
