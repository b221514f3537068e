package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-adp-api/internal/models"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
	"github.com/noah-isme/college-adp-api/pkg/jobs"
)

type notificationStore interface {
	CreateBatch(ctx context.Context, notifications []models.Notification) error
	ListByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
}

// NotificationRequest sends an in-app message to one or more users.
type NotificationRequest struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1,dive,required"`
	Title   string   `json:"title" validate:"required,max=200"`
	Message string   `json:"message" validate:"required"`
}

// NotificationService serves the in-app inbox.
type NotificationService struct {
	repo      notificationStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNotificationService constructs the notification service.
func NewNotificationService(repo notificationStore, validate *validator.Validate, logger *zap.Logger) *NotificationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, validator: validate, logger: logger}
}

// Inbox returns the user's notifications and marks them read. The returned
// items keep the read flag they had before the call.
func (s *NotificationService) Inbox(ctx context.Context, userID string) ([]models.Notification, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notifications read")
	}
	return items, nil
}

// Send stores a general notification for each recipient.
func (s *NotificationService) Send(ctx context.Context, req NotificationRequest) ([]models.Notification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notification payload")
	}
	title := strings.TrimSpace(req.Title)
	batch := make([]models.Notification, 0, len(req.UserIDs))
	seen := make(map[string]struct{}, len(req.UserIDs))
	for _, userID := range req.UserIDs {
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}
		batch = append(batch, models.Notification{UserID: userID, Title: title, Message: req.Message, Type: models.NotificationGeneral})
	}
	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to send notifications")
	}
	s.logger.Info("notifications sent", zap.Int("recipients", len(batch)))
	return batch, nil
}

type hallTicketNotice struct {
	Exam    models.Exam
	Tickets []models.HallTicket
}

type ticketStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
}

// HallTicketDispatcher fans freshly issued hall tickets out to the students'
// inboxes on a background queue.
type HallTicketDispatcher struct {
	store    notificationStore
	students ticketStudentReader
	queue    *jobs.Queue[hallTicketNotice]
	logger   *zap.Logger
}

// NewHallTicketDispatcher builds a dispatcher. Call Start before allocating.
func NewHallTicketDispatcher(store notificationStore, students ticketStudentReader, cfg jobs.Config) *HallTicketDispatcher {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	d := &HallTicketDispatcher{store: store, students: students, logger: cfg.Logger}
	d.queue = jobs.New("hall-ticket-notifications", d.deliver, cfg)
	return d
}

// Start launches the queue workers.
func (d *HallTicketDispatcher) Start(ctx context.Context) { d.queue.Start(ctx) }

// Stop drains the queue workers.
func (d *HallTicketDispatcher) Stop() { d.queue.Stop() }

// HallTicketsIssued enqueues the notices. Enqueue failures are only logged.
func (d *HallTicketDispatcher) HallTicketsIssued(_ context.Context, exam models.Exam, tickets []models.HallTicket) {
	if len(tickets) == 0 {
		return
	}
	jobID, err := d.queue.Enqueue(hallTicketNotice{Exam: exam, Tickets: tickets})
	if err != nil {
		d.logger.Warn("failed to enqueue hall ticket notices", zap.String("exam_id", exam.ID), zap.Error(err))
		return
	}
	d.logger.Debug("hall ticket notices queued", zap.String("exam_id", exam.ID), zap.String("job_id", jobID))
}

func (d *HallTicketDispatcher) deliver(ctx context.Context, job jobs.Job[hallTicketNotice]) error {
	notice := job.Payload
	batch := make([]models.Notification, 0, len(notice.Tickets))
	for _, ticket := range notice.Tickets {
		student, err := d.students.FindByID(ctx, ticket.StudentID)
		if err != nil {
			return fmt.Errorf("load student %s: %w", ticket.StudentID, err)
		}
		batch = append(batch, models.Notification{
			UserID: student.UserID,
			Title:  "Hall Ticket Issued",
			Message: fmt.Sprintf("Your hall ticket %s for %s has been issued. Seat %s, bench %s.",
				ticket.HallTicketNumber, notice.Exam.Name, ticket.SeatNumber, ticket.BenchNumber),
			Type: models.NotificationGeneral,
		})
	}
	if err := d.store.CreateBatch(ctx, batch); err != nil {
		return err
	}
	d.logger.Info("hall ticket notices delivered", zap.String("exam_id", notice.Exam.ID), zap.Int("count", len(batch)))
	return nil
}
