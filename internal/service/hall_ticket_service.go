package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/college-adp-api/internal/models"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
	"github.com/noah-isme/college-adp-api/pkg/export"
)

type hallTicketRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, ticket *models.HallTicket) error
	NextSequence(ctx context.Context, exec sqlx.ExtContext, prefix string) (int64, error)
	CountByExam(ctx context.Context, examID string) (int, error)
	ListByExam(ctx context.Context, examID string) ([]models.HallTicketDetail, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.HallTicketDetail, error)
	FindByID(ctx context.Context, id string) (*models.HallTicketDetail, error)
	Delete(ctx context.Context, id string) error
}

type allocationExamReader interface {
	FindByID(ctx context.Context, id string) (*models.Exam, error)
	ListSubjects(ctx context.Context, examID string) ([]models.ExamSubject, error)
}

type allocationHallReader interface {
	FindByID(ctx context.Context, id string) (*models.ExamHall, error)
}

type allocationCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type allocationStudentReader interface {
	ListIDsByCourse(ctx context.Context, courseID string) ([]string, error)
	FindByUserID(ctx context.Context, userID string) (*models.StudentDetail, error)
}

type hallTicketRenderer interface {
	Render(doc export.HallTicketDocument) ([]byte, error)
}

// HallTicketNotifier is told about freshly issued tickets.
type HallTicketNotifier interface {
	HallTicketsIssued(ctx context.Context, exam models.Exam, tickets []models.HallTicket)
}

// HallTicketConfig carries numbering and print settings.
type HallTicketConfig struct {
	Prefix       string
	Institution  string
	Instructions []string
}

var defaultHallTicketInstructions = []string{
	"Report to the exam hall 30 minutes before the exam starts.",
	"Carry this hall ticket and a valid college ID card.",
	"Electronic devices are not allowed inside the hall.",
}

// HallTicketService allocates seats and manages issued hall tickets.
type HallTicketService struct {
	tickets  hallTicketRepository
	exams    allocationExamReader
	halls    allocationHallReader
	courses  allocationCourseReader
	students allocationStudentReader
	tx       txProvider
	renderer hallTicketRenderer
	notifier HallTicketNotifier
	metrics  *MetricsService
	logger   *zap.Logger
	cfg      HallTicketConfig
	now      func() time.Time
}

// NewHallTicketService wires the hall ticket service.
func NewHallTicketService(
	tickets hallTicketRepository,
	exams allocationExamReader,
	halls allocationHallReader,
	courses allocationCourseReader,
	students allocationStudentReader,
	tx txProvider,
	renderer hallTicketRenderer,
	notifier HallTicketNotifier,
	metrics *MetricsService,
	logger *zap.Logger,
	cfg HallTicketConfig,
) *HallTicketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderer == nil {
		renderer = export.NewHallTicketRenderer()
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "HT"
	}
	if len(cfg.Instructions) == 0 {
		cfg.Instructions = defaultHallTicketInstructions
	}
	return &HallTicketService{
		tickets:  tickets,
		exams:    exams,
		halls:    halls,
		courses:  courses,
		students: students,
		tx:       tx,
		renderer: renderer,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Allocate seats every student of the exam's course and issues one hall
// ticket each inside a single transaction. It does not check for tickets
// already issued for the exam; see Generate.
func (s *HallTicketService) Allocate(ctx context.Context, examID string) (tickets []models.HallTicket, err error) {
	exam, err := s.exams.FindByID(ctx, examID)
	if err != nil {
		return nil, notFoundOr(err, "exam not found", "failed to load exam")
	}
	hall, err := s.halls.FindByID(ctx, exam.HallID)
	if err != nil {
		return nil, notFoundOr(err, "exam hall not found", "failed to load exam hall")
	}
	if _, err := s.courses.FindByID(ctx, exam.CourseID); err != nil {
		return nil, notFoundOr(err, "course not found", "failed to load course")
	}
	studentIDs, err := s.students.ListIDsByCourse(ctx, exam.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list course students")
	}

	plan, err := PlanSeats(studentIDs, *hall)
	if err != nil {
		s.metrics.RecordAllocationFailure("capacity")
		s.logger.Warn("hall capacity exceeded",
			zap.String("exam_id", exam.ID),
			zap.String("hall_id", hall.ID),
			zap.Int("students", len(studentIDs)),
			zap.Int("seats", hall.Seats()),
		)
		return nil, err
	}
	if len(plan) == 0 {
		return []models.HallTicket{}, nil
	}

	started := time.Now()
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		s.metrics.RecordAllocationFailure("database")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			s.metrics.RecordAllocationFailure("database")
		}
	}()

	now := s.now().UTC()
	stem := HallTicketPrefix(s.cfg.Prefix, now.Year())
	tickets = make([]models.HallTicket, 0, len(plan))
	for _, seat := range plan {
		seq, seqErr := s.tickets.NextSequence(ctx, tx, stem)
		if seqErr != nil {
			err = appErrors.Wrap(seqErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reserve hall ticket number")
			return nil, err
		}
		ticket := models.HallTicket{
			StudentID:        seat.StudentID,
			ExamID:           exam.ID,
			HallTicketNumber: FormatHallTicketNumber(s.cfg.Prefix, now.Year(), seq),
			SeatNumber:       seat.SeatNumber,
			BenchNumber:      seat.BenchNumber,
			IsActive:         true,
		}
		if createErr := s.tickets.Create(ctx, tx, &ticket); createErr != nil {
			err = appErrors.Wrap(createErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create hall ticket")
			return nil, err
		}
		tickets = append(tickets, ticket)
	}

	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit hall tickets")
	}

	s.metrics.ObserveDBQuery("hall_ticket_allocation", time.Since(started))
	s.metrics.RecordAllocation(len(tickets))
	s.logger.Info("hall tickets allocated",
		zap.String("exam_id", exam.ID),
		zap.String("hall_id", hall.ID),
		zap.Int("tickets", len(tickets)),
		zap.String("first", tickets[0].HallTicketNumber),
		zap.String("last", tickets[len(tickets)-1].HallTicketNumber),
	)
	if s.notifier != nil {
		s.notifier.HallTicketsIssued(ctx, *exam, tickets)
	}
	return tickets, nil
}

// Generate allocates hall tickets for an exam that has none yet.
func (s *HallTicketService) Generate(ctx context.Context, examID string) ([]models.HallTicket, error) {
	count, err := s.tickets.CountByExam(ctx, examID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing hall tickets")
	}
	if count > 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "hall tickets already generated for this exam")
	}
	return s.Allocate(ctx, examID)
}

// ListByExam returns every ticket of an exam in seat order.
func (s *HallTicketService) ListByExam(ctx context.Context, examID string) ([]models.HallTicketDetail, error) {
	if _, err := s.exams.FindByID(ctx, examID); err != nil {
		return nil, notFoundOr(err, "exam not found", "failed to load exam")
	}
	tickets, err := s.tickets.ListByExam(ctx, examID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list hall tickets")
	}
	return tickets, nil
}

// ListForStudent returns the tickets of the student behind a user account.
func (s *HallTicketService) ListForStudent(ctx context.Context, userID string) ([]models.HallTicketDetail, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "student profile not found", "failed to load student")
	}
	tickets, err := s.tickets.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list hall tickets")
	}
	return tickets, nil
}

// Get returns a ticket. Students may only read their own.
func (s *HallTicketService) Get(ctx context.Context, id string, claims *models.JWTClaims) (*models.HallTicketDetail, error) {
	ticket, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "hall ticket not found", "failed to load hall ticket")
	}
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if claims.Role == models.RoleStudent && ticket.StudentUserID != claims.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "hall ticket belongs to another student")
	}
	return ticket, nil
}

// RenderPDF prints a hall ticket together with the exam timetable.
func (s *HallTicketService) RenderPDF(ctx context.Context, id string, claims *models.JWTClaims) ([]byte, string, error) {
	ticket, err := s.Get(ctx, id, claims)
	if err != nil {
		return nil, "", err
	}
	subjects, err := s.exams.ListSubjects(ctx, ticket.ExamID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam subjects")
	}

	doc := export.HallTicketDocument{
		Institution:  s.cfg.Institution,
		ExamName:     ticket.ExamName,
		TicketNumber: ticket.HallTicketNumber,
		StudentName:  ticket.StudentName,
		StudentEmail: ticket.StudentEmail,
		HallName:     ticket.HallName,
		SeatNumber:   ticket.SeatNumber,
		BenchNumber:  ticket.BenchNumber,
		Instructions: s.cfg.Instructions,
	}
	if ticket.CourseName != nil {
		doc.CourseName = *ticket.CourseName
	}
	for _, subject := range subjects {
		row := export.HallTicketSubject{Name: subject.SubjectName}
		if subject.Date != nil {
			row.Date = subject.Date.Format("2006-01-02")
		}
		if subject.StartTime != nil {
			row.StartTime = *subject.StartTime
		}
		if subject.EndTime != nil {
			row.EndTime = *subject.EndTime
		}
		doc.Subjects = append(doc.Subjects, row)
	}

	body, err := s.renderer.Render(doc)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render hall ticket")
	}
	return body, fmt.Sprintf("hall_ticket_%s.pdf", ticket.HallTicketNumber), nil
}

// Delete removes a single hall ticket.
func (s *HallTicketService) Delete(ctx context.Context, id string) error {
	if _, err := s.tickets.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "hall ticket not found", "failed to load hall ticket")
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete hall ticket")
	}
	return nil
}

func notFoundOr(err error, notFound, internal string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internal)
}
