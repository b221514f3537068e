package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-adp-api/internal/models"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
)

type libraryRepoFake struct {
	books       map[string]models.Book
	issues      []models.IssuedBookDetail
	lastStudent string
}

func (f *libraryRepoFake) CreateBook(ctx context.Context, book *models.Book) error {
	book.ID = "book-" + book.ISBN
	f.books[book.ISBN] = *book
	return nil
}

func (f *libraryRepoFake) FindBookByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	if b, ok := f.books[isbn]; ok {
		return &b, nil
	}
	return nil, sql.ErrNoRows
}

func (f *libraryRepoFake) ListBooks(ctx context.Context) ([]models.Book, error) {
	out := make([]models.Book, 0, len(f.books))
	for _, b := range f.books {
		out = append(out, b)
	}
	return out, nil
}

func (f *libraryRepoFake) CreateIssue(ctx context.Context, issue *models.IssuedBook) error {
	issue.ID = "issue-new"
	f.issues = append(f.issues, models.IssuedBookDetail{IssuedBook: *issue})
	return nil
}

func (f *libraryRepoFake) ListIssues(ctx context.Context, studentID string) ([]models.IssuedBookDetail, error) {
	f.lastStudent = studentID
	var out []models.IssuedBookDetail
	for _, i := range f.issues {
		if studentID == "" || i.StudentID == studentID {
			out = append(out, i)
		}
	}
	return out, nil
}

func newLibraryService(now time.Time) (*LibraryService, *libraryRepoFake) {
	repo := &libraryRepoFake{books: map[string]models.Book{
		"9781118063330": {ID: "book-1", Name: "Operating Systems", ISBN: "9781118063330"},
	}}
	students := &mockStudentRepo{students: map[string]models.StudentDetail{
		"s1": {Student: models.Student{ID: "s1", UserID: "user-s1"}},
	}}
	svc := NewLibraryService(repo, students, nil, nil)
	svc.now = func() time.Time { return now }
	return svc, repo
}

func TestLibraryAddBook(t *testing.T) {
	svc, _ := newLibraryService(time.Now())

	book, err := svc.AddBook(context.Background(), BookRequest{Name: " Compilers ", Author: "Aho", ISBN: "9780321486813", Category: "cs"})
	require.NoError(t, err)
	assert.Equal(t, "Compilers", book.Name)

	_, err = svc.AddBook(context.Background(), BookRequest{Name: "Again", Author: "Aho", ISBN: "9780321486813", Category: "cs"})
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	_, err = svc.AddBook(context.Background(), BookRequest{Name: "Bad", Author: "X", ISBN: "97-80", Category: "cs"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLibraryIssueSetsExpiry(t *testing.T) {
	svc, _ := newLibraryService(time.Date(2024, 5, 1, 16, 30, 0, 0, time.UTC))

	issue, err := svc.Issue(context.Background(), IssueRequest{StudentID: "s1", ISBN: "9781118063330"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), issue.IssuedDate)
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), issue.ExpiryDate)

	_, err = svc.Issue(context.Background(), IssueRequest{StudentID: "s1", ISBN: "1111"})
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.Issue(context.Background(), IssueRequest{StudentID: "ghost", ISBN: "9781118063330"})
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestLibraryFineStartsAfterLoanPeriod(t *testing.T) {
	issued := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		daysOut int
		fine    int
	}{
		{"same day", 0, 0},
		{"last free day", 14, 0},
		{"first overdue day", 15, 5},
		{"ten days late", 24, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo := newLibraryService(issued.AddDate(0, 0, tc.daysOut).Add(9 * time.Hour))
			repo.issues = []models.IssuedBookDetail{{IssuedBook: models.IssuedBook{ID: "ib1", StudentID: "s1", IssuedDate: issued}}}

			rows, err := svc.ListIssues(context.Background())
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, tc.daysOut, rows[0].DaysOut)
			assert.Equal(t, tc.fine, rows[0].Fine)
		})
	}
}

func TestLibraryMyIssuesScopesToStudent(t *testing.T) {
	svc, repo := newLibraryService(time.Now())

	_, err := svc.MyIssues(context.Background(), "user-s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", repo.lastStudent)

	_, err = svc.MyIssues(context.Background(), "user-unknown")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
