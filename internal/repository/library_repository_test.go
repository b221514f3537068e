package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-adp-api/internal/models"
)

func TestLibraryCreateBookAssignsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO books")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	book := &models.Book{Name: "Operating Systems", Author: "Galvin", ISBN: "9781118063330", Category: "cs"}
	require.NoError(t, NewLibraryRepository(db).CreateBook(context.Background(), book))
	assert.NotEmpty(t, book.ID)
	assert.False(t, book.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLibraryFindBookByISBNNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("FROM books WHERE isbn = $1")).
		WithArgs("123").
		WillReturnError(sql.ErrNoRows)

	_, err := NewLibraryRepository(db).FindBookByISBN(context.Background(), "123")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLibraryListIssuesForStudent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	issued := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("(?s)"+regexp.QuoteMeta("FROM issued_books ib")+".*"+regexp.QuoteMeta("WHERE ib.student_id = $1 ORDER BY ib.issued_date ASC")).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "isbn", "issued_date", "expiry_date", "created_at", "book_name", "student_name"}).
			AddRow("ib1", "s1", "9781118063330", issued, issued.AddDate(0, 0, 14), issued, "Operating Systems", "Asha Rao"))

	rows, err := NewLibraryRepository(db).ListIssues(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Operating Systems", rows[0].BookName)
	assert.Equal(t, "s1", rows[0].StudentID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLibraryCreateIssue(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO issued_books")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	issue := &models.IssuedBook{StudentID: "s1", ISBN: "9781118063330"}
	require.NoError(t, NewLibraryRepository(db).CreateIssue(context.Background(), issue))
	assert.NotEmpty(t, issue.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
