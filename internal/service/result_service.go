package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-adp-api/internal/models"
	"github.com/noah-isme/college-adp-api/pkg/database"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
	"github.com/noah-isme/college-adp-api/pkg/export"
)

// ResultFormat selects the result sheet download format.
type ResultFormat string

const (
	ResultFormatPDF ResultFormat = "pdf"
	ResultFormatCSV ResultFormat = "csv"
)

var resultSheetHeaders = []string{"Email", "Student", "Internal", "External", "Practical", "Total", "Grade"}

var studentResultHeaders = []string{"Subject", "Semester", "Academic Year", "Internal", "External", "Practical", "Total", "Grade"}

type resultRepository interface {
	Create(ctx context.Context, result *models.StudentResult) error
	Upsert(ctx context.Context, result *models.StudentResult) error
	FindLatest(ctx context.Context, studentID, subjectID string) (*models.StudentResult, error)
	ListSheet(ctx context.Context, filter models.ResultSheetFilter) ([]models.ResultSheetRow, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.ResultSheetRow, error)
}

type resultStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	FindByUserID(ctx context.Context, userID string) (*models.StudentDetail, error)
}

type pdfTableRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type csvTableRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ResultRequest carries the marks of one student in one subject.
type ResultRequest struct {
	StudentID      string  `json:"student_id" validate:"required"`
	SubjectID      string  `json:"subject_id" validate:"required"`
	Semester       string  `json:"semester" validate:"required,max=10"`
	AcademicYear   string  `json:"academic_year" validate:"required,max=20"`
	InternalMarks  float64 `json:"internal_marks" validate:"gte=0"`
	ExternalMarks  float64 `json:"external_marks" validate:"gte=0"`
	PracticalMarks float64 `json:"practical_marks" validate:"gte=0"`
}

// StudentResultFilter optionally narrows a student's results to one term.
type StudentResultFilter struct {
	Semester     string `form:"semester"`
	AcademicYear string `form:"academicYear"`
}

// ResultService records marks and produces result sheets.
type ResultService struct {
	repo      resultRepository
	subjects  attendanceSubjectReader
	students  resultStudentReader
	staff     staffLookup
	pdf       pdfTableRenderer
	csv       csvTableRenderer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewResultService constructs the result service.
func NewResultService(
	repo resultRepository,
	subjects attendanceSubjectReader,
	students resultStudentReader,
	staff staffLookup,
	pdf pdfTableRenderer,
	csv csvTableRenderer,
	validate *validator.Validate,
	logger *zap.Logger,
) *ResultService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	return &ResultService{repo: repo, subjects: subjects, students: students, staff: staff, pdf: pdf, csv: csv, validator: validate, logger: logger}
}

// GradeFor maps total marks onto the letter grade scale.
func GradeFor(total float64) string {
	switch {
	case total >= 90:
		return "A+"
	case total >= 80:
		return "A"
	case total >= 70:
		return "B+"
	case total >= 60:
		return "B"
	case total >= 50:
		return "C"
	default:
		return "F"
	}
}

// Add stores a new result. An existing result for the same term is a conflict.
func (s *ResultService) Add(ctx context.Context, req ResultRequest, claims *models.JWTClaims) (*models.StudentResult, error) {
	result, err := s.prepare(ctx, req, claims)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, result); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "result already exists for this student in this subject")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save result")
	}
	s.logger.Info("result added",
		zap.String("result_id", result.ID),
		zap.String("student_id", result.StudentID),
		zap.String("subject_id", result.SubjectID),
	)
	return result, nil
}

// Edit creates the result or replaces the marks of the existing one.
func (s *ResultService) Edit(ctx context.Context, req ResultRequest, claims *models.JWTClaims) (*models.StudentResult, error) {
	result, err := s.prepare(ctx, req, claims)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update result")
	}
	return result, nil
}

// Lookup returns the most recent result of a student in a subject.
func (s *ResultService) Lookup(ctx context.Context, studentID, subjectID string, claims *models.JWTClaims) (*models.StudentResult, error) {
	if studentID == "" || subjectID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "studentId and subjectId are required")
	}
	if _, err := s.subjectFor(ctx, subjectID, claims); err != nil {
		return nil, err
	}
	result, err := s.repo.FindLatest(ctx, studentID, subjectID)
	if err != nil {
		return nil, notFoundOr(err, "no result found for this student in this subject", "failed to load result")
	}
	return result, nil
}

// Sheet returns one subject's results for a term ordered by student email.
func (s *ResultService) Sheet(ctx context.Context, filter models.ResultSheetFilter, claims *models.JWTClaims) (*models.SubjectDetail, []models.ResultSheetRow, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "subjectId, semester and academicYear are required")
	}
	subject, err := s.subjectFor(ctx, filter.SubjectID, claims)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.repo.ListSheet(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load result sheet")
	}
	return subject, rows, nil
}

// SheetFile renders the result sheet as a PDF or CSV download.
func (s *ResultService) SheetFile(ctx context.Context, filter models.ResultSheetFilter, format ResultFormat, claims *models.JWTClaims) ([]byte, string, error) {
	subject, rows, err := s.Sheet(ctx, filter, claims)
	if err != nil {
		return nil, "", err
	}
	if len(rows) == 0 {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no results found for %s in semester %s, %s", subject.Name, filter.Semester, filter.AcademicYear))
	}
	data := export.Dataset{Headers: resultSheetHeaders}
	for _, row := range rows {
		data.Rows = append(data.Rows, map[string]string{
			"Email":     row.StudentEmail,
			"Student":   row.StudentName,
			"Internal":  formatMarks(row.InternalMarks),
			"External":  formatMarks(row.ExternalMarks),
			"Practical": formatMarks(row.PracticalMarks),
			"Total":     formatMarks(row.TotalMarks),
			"Grade":     row.Grade,
		})
	}
	base := fmt.Sprintf("result_sheet_%s_sem%s_%s", slug(subject.Name), filter.Semester, filter.AcademicYear)
	title := fmt.Sprintf("Result Sheet - %s (Semester %s, %s)", subject.Name, filter.Semester, filter.AcademicYear)
	return s.render(data, format, title, base)
}

// ForStudent returns the logged in student's results, optionally for one term.
func (s *ResultService) ForStudent(ctx context.Context, userID string, filter StudentResultFilter) (*models.StudentDetail, []models.ResultSheetRow, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		return nil, nil, notFoundOr(err, "student profile not found", "failed to load student")
	}
	rows, err := s.repo.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load results")
	}
	if filter.Semester != "" && filter.AcademicYear != "" {
		filtered := make([]models.ResultSheetRow, 0, len(rows))
		for _, row := range rows {
			if row.Semester == filter.Semester && row.AcademicYear == filter.AcademicYear {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}
	return student, rows, nil
}

// StudentCard renders the logged in student's results as a PDF.
func (s *ResultService) StudentCard(ctx context.Context, userID string, filter StudentResultFilter) ([]byte, string, error) {
	student, rows, err := s.ForStudent(ctx, userID, filter)
	if err != nil {
		return nil, "", err
	}
	data := export.Dataset{Headers: studentResultHeaders}
	for _, row := range rows {
		data.Rows = append(data.Rows, map[string]string{
			"Subject":       row.SubjectName,
			"Semester":      row.Semester,
			"Academic Year": row.AcademicYear,
			"Internal":      formatMarks(row.InternalMarks),
			"External":      formatMarks(row.ExternalMarks),
			"Practical":     formatMarks(row.PracticalMarks),
			"Total":         formatMarks(row.TotalMarks),
			"Grade":         row.Grade,
		})
	}
	username := strings.SplitN(student.Email, "@", 2)[0]
	return s.render(data, ResultFormatPDF, "Result Card - "+student.FullName, "result_card_"+slug(username))
}

func (s *ResultService) prepare(ctx context.Context, req ResultRequest, claims *models.JWTClaims) (*models.StudentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid result payload")
	}
	if _, err := s.subjectFor(ctx, req.SubjectID, claims); err != nil {
		return nil, err
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		return nil, notFoundOr(err, "student not found", "failed to load student")
	}
	total := req.InternalMarks + req.ExternalMarks + req.PracticalMarks
	return &models.StudentResult{
		StudentID:      req.StudentID,
		SubjectID:      req.SubjectID,
		Semester:       strings.TrimSpace(req.Semester),
		AcademicYear:   strings.TrimSpace(req.AcademicYear),
		InternalMarks:  req.InternalMarks,
		ExternalMarks:  req.ExternalMarks,
		PracticalMarks: req.PracticalMarks,
		TotalMarks:     total,
		Grade:          GradeFor(total),
	}, nil
}

func (s *ResultService) subjectFor(ctx context.Context, subjectID string, claims *models.JWTClaims) (*models.SubjectDetail, error) {
	subject, err := s.subjects.FindByID(ctx, subjectID)
	if err != nil {
		return nil, notFoundOr(err, "subject not found", "failed to load subject")
	}
	if err := ensureSubjectAccess(ctx, s.staff, subject, claims); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *ResultService) render(data export.Dataset, format ResultFormat, title, base string) ([]byte, string, error) {
	var (
		body []byte
		err  error
		name string
	)
	switch format {
	case ResultFormatCSV:
		body, err = s.csv.Render(data)
		name = base + ".csv"
	case ResultFormatPDF, "":
		body, err = s.pdf.Render(data, title)
		name = base + ".pdf"
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "format must be pdf or csv")
	}
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render results")
	}
	return body, name, nil
}

func formatMarks(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func slug(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '_'
		}
	}, value)
}
