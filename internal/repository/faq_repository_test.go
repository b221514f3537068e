package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-adp-api/internal/models"
)

func TestFAQListOrdersByPosition(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFAQRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM chatbot_entries ORDER BY position ASC, created_at ASC, id ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "question", "answer", "category", "position", "created_at", "updated_at"}).
			AddRow("a", "What is KT?", "Keep term.", "academic", 1, now, now).
			AddRow("b", "Library timings?", "9 to 5.", "library", 2, now, now))

	entries, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.FAQCategoryAcademic, entries[0].Category)
	assert.Equal(t, 2, entries[1].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFAQCreateAppendsPosition(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFAQRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("(SELECT COALESCE(MAX(position), 0) + 1 FROM chatbot_entries)")).
		WithArgs(sqlmock.AnyArg(), "Where is the canteen?", "Block C.", "general", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"position"}).AddRow(34))

	entry := &models.FAQEntry{Question: "Where is the canteen?", Answer: "Block C.", Category: models.FAQCategoryGeneral}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.Equal(t, 34, entry.Position)
	assert.NotEmpty(t, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFAQReplaceAll(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFAQRepository(db)

	entries := []models.FAQEntry{
		{Question: "q1", Answer: "a1", Category: models.FAQCategoryGeneral, Position: 1},
		{Question: "q2", Answer: "a2", Category: models.FAQCategoryFees, Position: 2},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM chatbot_entries")).WillReturnResult(sqlmock.NewResult(0, 33))
	mock.ExpectExec("INSERT INTO chatbot_entries").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO chatbot_entries").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceAll(context.Background(), tx, entries))
	require.NoError(t, tx.Commit())
	assert.NotEmpty(t, entries[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFAQReplaceAllStopsOnInsertError(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFAQRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM chatbot_entries")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO chatbot_entries").WillReturnError(errors.New("check violation"))

	err := repo.ReplaceAll(context.Background(), db, []models.FAQEntry{{Question: "q", Answer: "a", Category: "bogus", Position: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert chatbot entry 1")
}
