package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/college-adp-api/internal/models"
	"github.com/noah-isme/college-adp-api/pkg/database"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
)

const attendanceDateLayout = "2006-01-02"

type attendanceRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, attendance *models.Attendance) error
	FindByID(ctx context.Context, id string) (*models.Attendance, error)
	ListBySubject(ctx context.Context, subjectID, sessionID string) ([]models.Attendance, error)
	ListStatuses(ctx context.Context, attendanceID string) ([]models.AttendanceStudentStatus, error)
	UpsertReport(ctx context.Context, exec sqlx.ExtContext, report *models.AttendanceReport) error
}

type attendanceSubjectReader interface {
	FindByID(ctx context.Context, id string) (*models.SubjectDetail, error)
}

type attendanceStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
}

// AttendanceMark is one student's presence in a roll call.
type AttendanceMark struct {
	StudentID string `json:"student_id" validate:"required"`
	Status    bool   `json:"status"`
}

// TakeAttendanceRequest records a roll call for a subject on a date.
type TakeAttendanceRequest struct {
	SubjectID string           `json:"subject_id" validate:"required"`
	Date      string           `json:"date" validate:"required"`
	Students  []AttendanceMark `json:"students" validate:"required,min=1,dive"`
}

// UpdateAttendanceRequest changes statuses of an existing roll call.
type UpdateAttendanceRequest struct {
	Students []AttendanceMark `json:"students" validate:"required,min=1,dive"`
}

// AttendanceService records and reports subject attendance.
type AttendanceService struct {
	repo      attendanceRepository
	subjects  attendanceSubjectReader
	students  attendanceStudentReader
	staff     staffLookup
	tx        txProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(
	repo attendanceRepository,
	subjects attendanceSubjectReader,
	students attendanceStudentReader,
	staff staffLookup,
	tx txProvider,
	validate *validator.Validate,
	logger *zap.Logger,
) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, subjects: subjects, students: students, staff: staff, tx: tx, validator: validate, logger: logger}
}

// Take stores a roll call and one report per student. The session is the
// first listed student's session.
func (s *AttendanceService) Take(ctx context.Context, req TakeAttendanceRequest, claims *models.JWTClaims) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	date, err := time.Parse(attendanceDateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	subject, err := s.subjects.FindByID(ctx, req.SubjectID)
	if err != nil {
		return nil, notFoundOr(err, "subject not found", "failed to load subject")
	}
	if err := ensureSubjectAccess(ctx, s.staff, subject, claims); err != nil {
		return nil, err
	}

	first, err := s.students.FindByID(ctx, req.Students[0].StudentID)
	if err != nil {
		return nil, notFoundOr(err, "student not found", "failed to load student")
	}
	if first.SessionID == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student has no session assigned")
	}

	attendance := &models.Attendance{SessionID: *first.SessionID, SubjectID: subject.ID, Date: date}
	err = runInTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		if err := s.repo.Create(ctx, tx, attendance); err != nil {
			if database.IsUniqueViolation(err) {
				return appErrors.Clone(appErrors.ErrConflict, "attendance already taken for this date")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create attendance")
		}
		return s.writeReports(ctx, tx, attendance.ID, req.Students)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("attendance taken",
		zap.String("attendance_id", attendance.ID),
		zap.String("subject_id", subject.ID),
		zap.Int("students", len(req.Students)),
	)
	return attendance, nil
}

// Dates lists roll calls of a subject, newest first. sessionID is optional.
func (s *AttendanceService) Dates(ctx context.Context, subjectID, sessionID string) ([]models.Attendance, error) {
	if subjectID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subjectId is required")
	}
	if _, err := s.subjects.FindByID(ctx, subjectID); err != nil {
		return nil, notFoundOr(err, "subject not found", "failed to load subject")
	}
	rows, err := s.repo.ListBySubject(ctx, subjectID, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	return rows, nil
}

// Statuses returns every student's status for one roll call.
func (s *AttendanceService) Statuses(ctx context.Context, attendanceID string) ([]models.AttendanceStudentStatus, error) {
	if _, err := s.repo.FindByID(ctx, attendanceID); err != nil {
		return nil, notFoundOr(err, "attendance not found", "failed to load attendance")
	}
	rows, err := s.repo.ListStatuses(ctx, attendanceID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance statuses")
	}
	return rows, nil
}

// Update rewrites statuses of a roll call, creating reports that are missing.
func (s *AttendanceService) Update(ctx context.Context, attendanceID string, req UpdateAttendanceRequest, claims *models.JWTClaims) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	attendance, err := s.repo.FindByID(ctx, attendanceID)
	if err != nil {
		return 0, notFoundOr(err, "attendance not found", "failed to load attendance")
	}
	subject, err := s.subjects.FindByID(ctx, attendance.SubjectID)
	if err != nil {
		return 0, notFoundOr(err, "subject not found", "failed to load subject")
	}
	if err := ensureSubjectAccess(ctx, s.staff, subject, claims); err != nil {
		return 0, err
	}

	err = runInTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		return s.writeReports(ctx, tx, attendance.ID, req.Students)
	})
	if err != nil {
		return 0, err
	}
	return len(req.Students), nil
}

func (s *AttendanceService) writeReports(ctx context.Context, exec sqlx.ExtContext, attendanceID string, marks []AttendanceMark) error {
	for _, mark := range marks {
		report := &models.AttendanceReport{StudentID: mark.StudentID, AttendanceID: attendanceID, Status: mark.Status}
		if err := s.repo.UpsertReport(ctx, exec, report); err != nil {
			if database.IsForeignKeyViolation(err) {
				return appErrors.Clone(appErrors.ErrValidation, "unknown student "+mark.StudentID)
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save attendance report")
		}
	}
	return nil
}
