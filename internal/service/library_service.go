package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-adp-api/internal/models"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
)

const (
	// LoanPeriodDays is how long a book may be kept before fines accrue.
	LoanPeriodDays = 14
	// FinePerDay is charged for every day past the loan period.
	FinePerDay = 5
)

type libraryRepository interface {
	CreateBook(ctx context.Context, book *models.Book) error
	FindBookByISBN(ctx context.Context, isbn string) (*models.Book, error)
	ListBooks(ctx context.Context) ([]models.Book, error)
	CreateIssue(ctx context.Context, issue *models.IssuedBook) error
	ListIssues(ctx context.Context, studentID string) ([]models.IssuedBookDetail, error)
}

type libraryStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	FindByUserID(ctx context.Context, userID string) (*models.StudentDetail, error)
}

// BookRequest adds a title to the catalogue.
type BookRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Author   string `json:"author" validate:"required,max=200"`
	ISBN     string `json:"isbn" validate:"required,numeric,max=13"`
	Category string `json:"category" validate:"required,max=50"`
}

// IssueRequest lends a book to a student.
type IssueRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	ISBN      string `json:"isbn" validate:"required,numeric,max=13"`
}

// LibraryService manages the book catalogue and loans.
type LibraryService struct {
	repo      libraryRepository
	students  libraryStudentReader
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewLibraryService constructs the library service.
func NewLibraryService(repo libraryRepository, students libraryStudentReader, validate *validator.Validate, logger *zap.Logger) *LibraryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LibraryService{repo: repo, students: students, validator: validate, logger: logger, now: time.Now}
}

// AddBook stores a new title. ISBNs are unique.
func (s *LibraryService) AddBook(ctx context.Context, req BookRequest) (*models.Book, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid book payload")
	}
	if _, err := s.repo.FindBookByISBN(ctx, req.ISBN); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a book with this isbn already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check isbn")
	}
	book := &models.Book{
		Name:     strings.TrimSpace(req.Name),
		Author:   strings.TrimSpace(req.Author),
		ISBN:     req.ISBN,
		Category: strings.TrimSpace(req.Category),
	}
	if err := s.repo.CreateBook(ctx, book); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create book")
	}
	s.logger.Info("book added", zap.String("isbn", book.ISBN))
	return book, nil
}

// ListBooks returns the catalogue.
func (s *LibraryService) ListBooks(ctx context.Context) ([]models.Book, error) {
	books, err := s.repo.ListBooks(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list books")
	}
	return books, nil
}

// Issue lends a catalogued book to a student for the loan period.
func (s *LibraryService) Issue(ctx context.Context, req IssueRequest) (*models.IssuedBook, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid issue payload")
	}
	if _, err := s.repo.FindBookByISBN(ctx, req.ISBN); err != nil {
		return nil, notFoundOr(err, "book not found", "failed to load book")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		return nil, notFoundOr(err, "student not found", "failed to load student")
	}
	issued := startOfDay(s.now())
	issue := &models.IssuedBook{
		StudentID:  req.StudentID,
		ISBN:       req.ISBN,
		IssuedDate: issued,
		ExpiryDate: issued.AddDate(0, 0, LoanPeriodDays),
	}
	if err := s.repo.CreateIssue(ctx, issue); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue book")
	}
	s.logger.Info("book issued", zap.String("isbn", issue.ISBN), zap.String("student_id", issue.StudentID))
	return issue, nil
}

// ListIssues returns every loan with the fine accrued as of today.
func (s *LibraryService) ListIssues(ctx context.Context) ([]models.IssuedBookDetail, error) {
	return s.issues(ctx, "")
}

// MyIssues returns the calling student's loans.
func (s *LibraryService) MyIssues(ctx context.Context, userID string) ([]models.IssuedBookDetail, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "student profile not found", "failed to load student")
	}
	return s.issues(ctx, student.ID)
}

func (s *LibraryService) issues(ctx context.Context, studentID string) ([]models.IssuedBookDetail, error) {
	rows, err := s.repo.ListIssues(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list issued books")
	}
	today := startOfDay(s.now())
	for i := range rows {
		rows[i].DaysOut, rows[i].Fine = overdueFine(rows[i].IssuedDate, today)
	}
	return rows, nil
}

// overdueFine charges FinePerDay for each whole day beyond the loan period.
func overdueFine(issued, today time.Time) (days, fine int) {
	days = int(today.Sub(startOfDay(issued)).Hours() / 24)
	if days > LoanPeriodDays {
		fine = (days - LoanPeriodDays) * FinePerDay
	}
	return days, fine
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
