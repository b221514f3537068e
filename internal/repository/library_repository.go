package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/college-adp-api/internal/models"
)

const issuedBookSelect = `SELECT ib.id, ib.student_id, ib.isbn, ib.issued_date, ib.expiry_date, ib.created_at,
        COALESCE(b.name, '') AS book_name, COALESCE(u.full_name, '') AS student_name
        FROM issued_books ib
        LEFT JOIN books b ON b.isbn = ib.isbn
        LEFT JOIN students s ON s.id = ib.student_id
        LEFT JOIN users u ON u.id = s.user_id`

// LibraryRepository persists library books and loans.
type LibraryRepository struct {
	db *sqlx.DB
}

// NewLibraryRepository constructs the repository.
func NewLibraryRepository(db *sqlx.DB) *LibraryRepository {
	return &LibraryRepository{db: db}
}

// CreateBook stores a new book.
func (r *LibraryRepository) CreateBook(ctx context.Context, book *models.Book) error {
	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	book.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO books (id, name, author, isbn, category, created_at)
        VALUES (:id, :name, :author, :isbn, :category, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, book); err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

// FindBookByISBN returns the book with the given ISBN.
func (r *LibraryRepository) FindBookByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	const query = `SELECT id, name, author, isbn, category, created_at FROM books WHERE isbn = $1`
	var book models.Book
	if err := r.db.GetContext(ctx, &book, query, isbn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return &book, nil
}

// ListBooks returns the catalogue ordered by name.
func (r *LibraryRepository) ListBooks(ctx context.Context) ([]models.Book, error) {
	const query = `SELECT id, name, author, isbn, category, created_at FROM books ORDER BY name ASC, isbn ASC`
	var books []models.Book
	if err := r.db.SelectContext(ctx, &books, query); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// CreateIssue records a loan.
func (r *LibraryRepository) CreateIssue(ctx context.Context, issue *models.IssuedBook) error {
	if issue.ID == "" {
		issue.ID = uuid.NewString()
	}
	issue.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO issued_books (id, student_id, isbn, issued_date, expiry_date, created_at)
        VALUES (:id, :student_id, :isbn, :issued_date, :expiry_date, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, issue); err != nil {
		return fmt.Errorf("create issued book: %w", err)
	}
	return nil
}

// ListIssues returns loans, oldest first. An empty studentID lists every loan.
func (r *LibraryRepository) ListIssues(ctx context.Context, studentID string) ([]models.IssuedBookDetail, error) {
	query := issuedBookSelect
	var args []interface{}
	if studentID != "" {
		query += ` WHERE ib.student_id = $1`
		args = append(args, studentID)
	}
	query += ` ORDER BY ib.issued_date ASC, ib.id ASC`
	var rows []models.IssuedBookDetail
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list issued books: %w", err)
	}
	return rows, nil
}
