package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/college-adp-api/internal/models"
)

const studentDetailSelect = `SELECT s.id, s.user_id, s.course_id, s.session_id, s.created_at, s.updated_at,
        u.full_name, u.email, u.gender, c.name AS course_name
        FROM students s
        JOIN users u ON u.id = s.user_id
        LEFT JOIN courses c ON c.id = s.course_id`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.ListFilter) ([]models.StudentDetail, int, error) {
	filter.Normalize()
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("s.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(u.full_name) LIKE $%d OR LOWER(u.email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	query := fmt.Sprintf("%s%s ORDER BY u.full_name ASC, s.id ASC LIMIT %d OFFSET %d", studentDetailSelect, where, filter.PageSize, filter.Offset())
	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := "SELECT COUNT(*) FROM students s JOIN users u ON u.id = s.user_id" + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// ListByCourse returns every student of a course ordered by name.
func (r *StudentRepository) ListByCourse(ctx context.Context, courseID string) ([]models.StudentDetail, error) {
	query := studentDetailSelect + ` WHERE s.course_id = $1 ORDER BY u.full_name ASC, s.id ASC`
	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, courseID); err != nil {
		return nil, fmt.Errorf("list students by course: %w", err)
	}
	return students, nil
}

// ListIDsByCourse returns student ids of a course in enrolment order. The
// order is the order seats are handed out in.
func (r *StudentRepository) ListIDsByCourse(ctx context.Context, courseID string) ([]string, error) {
	const query = `SELECT id FROM students WHERE course_id = $1 ORDER BY created_at ASC, id ASC`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, courseID); err != nil {
		return nil, fmt.Errorf("list student ids by course: %w", err)
	}
	return ids, nil
}

// FindByID fetches a student detail by id.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	return r.findOne(ctx, "s.id", id)
}

// FindByUserID fetches the student profile owned by a user account.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID string) (*models.StudentDetail, error) {
	return r.findOne(ctx, "s.user_id", userID)
}

func (r *StudentRepository) findOne(ctx context.Context, column, value string) (*models.StudentDetail, error) {
	query := studentDetailSelect + ` WHERE ` + column + ` = $1`
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &detail, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, user_id, course_id, session_id, created_at, updated_at)
        VALUES (:id, :user_id, :course_id, :session_id, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update moves a student to another course or session.
func (r *StudentRepository) Update(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET course_id = :course_id, session_id = :session_id, updated_at = :updated_at WHERE id = :id`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}
