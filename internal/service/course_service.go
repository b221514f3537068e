package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-adp-api/internal/models"
	"github.com/noah-isme/college-adp-api/pkg/database"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
)

const sessionDateLayout = "2006-01-02"

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

type sessionRepository interface {
	List(ctx context.Context) ([]models.Session, error)
	FindByID(ctx context.Context, id string) (*models.Session, error)
	Create(ctx context.Context, session *models.Session) error
	Update(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error
}

// CourseRequest holds the course payload.
type CourseRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

// SessionRequest holds the academic session payload as YYYY-MM-DD dates.
type SessionRequest struct {
	StartYear string `json:"start_year" validate:"required"`
	EndYear   string `json:"end_year" validate:"required"`
}

// CourseService manages courses and academic sessions.
type CourseService struct {
	courses   courseRepository
	sessions  sessionRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(courses courseRepository, sessions sessionRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{courses: courses, sessions: sessions, validator: validate, logger: logger}
}

// ListCourses returns every course.
func (s *CourseService) ListCourses(ctx context.Context) ([]models.Course, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// GetCourse returns one course.
func (s *CourseService) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "course not found", "failed to load course")
	}
	return course, nil
}

// CreateCourse adds a course.
func (s *CourseService) CreateCourse(ctx context.Context, req CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course := &models.Course{Name: strings.TrimSpace(req.Name)}
	if err := s.courses.Create(ctx, course); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "course already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// UpdateCourse renames a course.
func (s *CourseService) UpdateCourse(ctx context.Context, id string, req CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course, err := s.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Name = strings.TrimSpace(req.Name)
	if err := s.courses.Update(ctx, course); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "course already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return course, nil
}

// DeleteCourse removes a course that nothing references any more.
func (s *CourseService) DeleteCourse(ctx context.Context, id string) error {
	if _, err := s.GetCourse(ctx, id); err != nil {
		return err
	}
	if err := s.courses.Delete(ctx, id); err != nil {
		if database.IsForeignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "course is still in use")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.logger.Info("course deleted", zap.String("course_id", id))
	return nil
}

// ListSessions returns academic sessions, newest first.
func (s *CourseService) ListSessions(ctx context.Context) ([]models.Session, error) {
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return sessions, nil
}

// GetSession returns one session.
func (s *CourseService) GetSession(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "session not found", "failed to load session")
	}
	return session, nil
}

// CreateSession adds an academic session.
func (s *CourseService) CreateSession(ctx context.Context, req SessionRequest) (*models.Session, error) {
	start, end, err := s.parseSession(req)
	if err != nil {
		return nil, err
	}
	session := &models.Session{StartYear: start, EndYear: end}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}
	return session, nil
}

// UpdateSession changes the bounds of a session.
func (s *CourseService) UpdateSession(ctx context.Context, id string, req SessionRequest) (*models.Session, error) {
	start, end, err := s.parseSession(req)
	if err != nil {
		return nil, err
	}
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	session.StartYear = start
	session.EndYear = end
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session")
	}
	return session, nil
}

// DeleteSession removes a session that nothing references any more.
func (s *CourseService) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.GetSession(ctx, id); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		if database.IsForeignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "session is still in use")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session")
	}
	return nil
}

func (s *CourseService) parseSession(req SessionRequest) (time.Time, time.Time, error) {
	if err := s.validator.Struct(req); err != nil {
		return time.Time{}, time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	start, err := time.Parse(sessionDateLayout, req.StartYear)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "start_year must be YYYY-MM-DD")
	}
	end, err := time.Parse(sessionDateLayout, req.EndYear)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "end_year must be YYYY-MM-DD")
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "end_year must be after start_year")
	}
	return start, end, nil
}
