package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/college-adp-api/internal/models"
	"github.com/noah-isme/college-adp-api/pkg/database"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
)

type applicationRepository interface {
	CreateKT(ctx context.Context, app *models.KTApplication) error
	CreateRevaluation(ctx context.Context, app *models.RevaluationApplication) error
	Exists(ctx context.Context, kind models.ApplicationKind, studentID, subjectID, semester string) (bool, error)
	Find(ctx context.Context, kind models.ApplicationKind, id string) (*models.ApplicationView, error)
	List(ctx context.Context, kind models.ApplicationKind, filter models.ApplicationFilter) ([]models.ApplicationView, error)
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, kind models.ApplicationKind, id string, status models.ApplicationStatus, remarks *string) error
}

type applicationResultStore interface {
	FindLatest(ctx context.Context, studentID, subjectID string) (*models.StudentResult, error)
	FindForSemester(ctx context.Context, studentID, subjectID, semester string) (*models.StudentResult, error)
	UpdateMarks(ctx context.Context, exec sqlx.ExtContext, result *models.StudentResult) error
}

type notificationWriter interface {
	Create(ctx context.Context, exec sqlx.ExtContext, n *models.Notification) error
}

// ApplyRequest is a student's KT or revaluation request. Semester defaults to
// the semester of the latest result for the subject.
type ApplyRequest struct {
	SubjectID string `json:"subject_id" validate:"required"`
	Semester  string `json:"semester" validate:"omitempty,max=10"`
}

// ReviewRequest records a staff decision. Marks are only read when a
// revaluation is approved.
type ReviewRequest struct {
	Status         models.ApplicationStatus `json:"status" validate:"required,oneof=approved rejected"`
	Remarks        string                   `json:"remarks" validate:"max=1000"`
	InternalMarks  *float64                 `json:"internal_marks" validate:"omitempty,gte=0"`
	ExternalMarks  *float64                 `json:"external_marks" validate:"omitempty,gte=0"`
	PracticalMarks *float64                 `json:"practical_marks" validate:"omitempty,gte=0"`
}

// ApplicationService runs the KT and revaluation workflows.
type ApplicationService struct {
	repo          applicationRepository
	results       applicationResultStore
	subjects      attendanceSubjectReader
	students      resultStudentReader
	staff         staffLookup
	notifications notificationWriter
	tx            txProvider
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewApplicationService constructs the application service.
func NewApplicationService(
	repo applicationRepository,
	results applicationResultStore,
	subjects attendanceSubjectReader,
	students resultStudentReader,
	staff staffLookup,
	notifications notificationWriter,
	tx txProvider,
	validate *validator.Validate,
	logger *zap.Logger,
) *ApplicationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{
		repo:          repo,
		results:       results,
		subjects:      subjects,
		students:      students,
		staff:         staff,
		notifications: notifications,
		tx:            tx,
		validator:     validate,
		logger:        logger,
	}
}

// ApplyKT files a KT application. A student may apply once per subject.
func (s *ApplicationService) ApplyKT(ctx context.Context, userID string, req ApplyRequest) (*models.KTApplication, error) {
	student, subject, err := s.prepareApplication(ctx, models.ApplicationKindKT, userID, req)
	if err != nil {
		return nil, err
	}
	semester := strings.TrimSpace(req.Semester)
	if semester == "" {
		result, err := s.results.FindLatest(ctx, student.ID, subject.ID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "semester is required when the subject has no result")
		}
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load result")
		}
		semester = result.Semester
	}

	app := &models.KTApplication{StudentID: student.ID, SubjectID: subject.ID, Semester: semester, Status: models.ApplicationPending}
	if err := s.repo.CreateKT(ctx, app); err != nil {
		return nil, applicationWriteError(err, "failed to create kt application")
	}
	s.logger.Info("kt application filed", zap.String("application_id", app.ID), zap.String("subject_id", subject.ID))
	return app, nil
}

// ApplyRevaluation files a revaluation request against an existing result.
func (s *ApplicationService) ApplyRevaluation(ctx context.Context, userID string, req ApplyRequest) (*models.RevaluationApplication, error) {
	student, subject, err := s.prepareApplication(ctx, models.ApplicationKindRevaluation, userID, req)
	if err != nil {
		return nil, err
	}
	var result *models.StudentResult
	if semester := strings.TrimSpace(req.Semester); semester != "" {
		result, err = s.results.FindForSemester(ctx, student.ID, subject.ID, semester)
	} else {
		result, err = s.results.FindLatest(ctx, student.ID, subject.ID)
	}
	if err != nil {
		return nil, notFoundOr(err, "no result to revaluate", "failed to load result")
	}

	app := &models.RevaluationApplication{
		StudentID:    student.ID,
		SubjectID:    subject.ID,
		Semester:     result.Semester,
		CurrentMarks: result.InternalMarks + result.ExternalMarks + result.PracticalMarks,
		Status:       models.ApplicationPending,
	}
	if err := s.repo.CreateRevaluation(ctx, app); err != nil {
		return nil, applicationWriteError(err, "failed to create revaluation application")
	}
	s.logger.Info("revaluation application filed", zap.String("application_id", app.ID), zap.String("subject_id", subject.ID))
	return app, nil
}

// Mine lists the caller's own applications of one kind.
func (s *ApplicationService) Mine(ctx context.Context, kind models.ApplicationKind, userID string) ([]models.ApplicationView, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "student profile not found", "failed to load student")
	}
	return s.list(ctx, kind, models.ApplicationFilter{StudentID: student.ID})
}

// List returns applications for review. Staff see the subjects they teach,
// the HOD sees everything.
func (s *ApplicationService) List(ctx context.Context, kind models.ApplicationKind, status models.ApplicationStatus, claims *models.JWTClaims) ([]models.ApplicationView, error) {
	if status != "" && !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown application status")
	}
	filter := models.ApplicationFilter{Status: status}
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	switch claims.Role {
	case models.RoleHOD:
	case models.RoleStaff:
		member, err := s.staff.FindByUserID(ctx, claims.UserID)
		if err != nil {
			return nil, notFoundOr(err, "staff profile not found", "failed to load staff")
		}
		filter.StaffID = member.ID
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "insufficient role")
	}
	return s.list(ctx, kind, filter)
}

// Review approves or rejects an application and notifies the student in the
// same transaction. Approving a revaluation with marks rewrites the result.
func (s *ApplicationService) Review(ctx context.Context, kind models.ApplicationKind, id string, req ReviewRequest, claims *models.JWTClaims) (*models.ApplicationView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}
	app, err := s.repo.Find(ctx, kind, id)
	if err != nil {
		return nil, notFoundOr(err, "application not found", "failed to load application")
	}
	subject, err := s.subjects.FindByID(ctx, app.SubjectID)
	if err != nil {
		return nil, notFoundOr(err, "subject not found", "failed to load subject")
	}
	if err := ensureSubjectAccess(ctx, s.staff, subject, claims); err != nil {
		return nil, err
	}

	remarks := strings.TrimSpace(req.Remarks)
	var remarksPtr *string
	if remarks != "" {
		remarksPtr = &remarks
	}
	notice := &models.Notification{UserID: app.StudentUserID}

	var rescored *models.StudentResult
	if kind == models.ApplicationKindRevaluation && req.Status == models.ApplicationApproved && req.hasMarks() {
		rescored, err = s.results.FindForSemester(ctx, app.StudentID, app.SubjectID, app.Semester)
		if err != nil {
			return nil, notFoundOr(err, "result not found for revaluation", "failed to load result")
		}
		rescored.InternalMarks = valueOr(req.InternalMarks, rescored.InternalMarks)
		rescored.ExternalMarks = valueOr(req.ExternalMarks, rescored.ExternalMarks)
		rescored.PracticalMarks = valueOr(req.PracticalMarks, rescored.PracticalMarks)
		rescored.TotalMarks = rescored.InternalMarks + rescored.ExternalMarks + rescored.PracticalMarks
		rescored.Grade = GradeFor(rescored.TotalMarks)
	}

	switch kind {
	case models.ApplicationKindKT:
		notice.Type = models.NotificationKT
		notice.Title = "KT Application Update"
		notice.Message = fmt.Sprintf("Your KT application for %s has been %s.", app.SubjectName, req.Status)
	default:
		notice.Type = models.NotificationRevaluation
		notice.Title = "Revaluation Application Update"
		notice.Message = fmt.Sprintf("Your revaluation application for %s has been %s.", app.SubjectName, req.Status)
		if rescored != nil {
			notice.Title = "Revaluation Result Update"
			notice.Message += fmt.Sprintf(" New total marks: %.2f. Grade: %s.", rescored.TotalMarks, rescored.Grade)
		}
	}
	if remarks != "" {
		notice.Message += " Remarks: " + remarks
	}

	err = runInTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		if err := s.repo.UpdateStatus(ctx, tx, kind, id, req.Status, remarksPtr); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update application status")
		}
		if rescored != nil {
			if err := s.results.UpdateMarks(ctx, tx, rescored); err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update result marks")
			}
		}
		if err := s.notifications.Create(ctx, tx, notice); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to notify student")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	app.Status = req.Status
	app.Remarks = remarksPtr
	if rescored != nil {
		total := rescored.TotalMarks
		app.CurrentMarks = &total
	}
	s.logger.Info("application reviewed",
		zap.String("kind", string(kind)),
		zap.String("application_id", id),
		zap.String("status", string(req.Status)),
		zap.Bool("rescored", rescored != nil),
	)
	return app, nil
}

func (s *ApplicationService) prepareApplication(ctx context.Context, kind models.ApplicationKind, userID string, req ApplyRequest) (*models.StudentDetail, *models.SubjectDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		return nil, nil, notFoundOr(err, "student profile not found", "failed to load student")
	}
	subject, err := s.subjects.FindByID(ctx, req.SubjectID)
	if err != nil {
		return nil, nil, notFoundOr(err, "subject not found", "failed to load subject")
	}
	if student.CourseID == nil || *student.CourseID != subject.CourseID {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "subject is not part of the student's course")
	}
	exists, err := s.repo.Exists(ctx, kind, student.ID, subject.ID, "")
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing application")
	}
	if exists {
		return nil, nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("already applied for %s in %s", kind, subject.Name))
	}
	return student, subject, nil
}

func (s *ApplicationService) list(ctx context.Context, kind models.ApplicationKind, filter models.ApplicationFilter) ([]models.ApplicationView, error) {
	apps, err := s.repo.List(ctx, kind, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	return apps, nil
}

func (r ReviewRequest) hasMarks() bool {
	return r.InternalMarks != nil || r.ExternalMarks != nil || r.PracticalMarks != nil
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func applicationWriteError(err error, msg string) error {
	if database.IsUniqueViolation(err) {
		return appErrors.Clone(appErrors.ErrConflict, "application already exists")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, msg)
}
