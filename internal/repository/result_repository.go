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

const resultColumns = `r.id, r.student_id, r.subject_id, r.semester, r.academic_year, r.internal_marks, r.external_marks, r.practical_marks, r.total_marks, r.grade, r.created_at, r.updated_at`

const resultSheetSelect = `SELECT ` + resultColumns + `,
        u.full_name AS student_name, u.email AS student_email, sb.name AS subject_name
        FROM student_results r
        JOIN students s ON s.id = r.student_id
        JOIN users u ON u.id = s.user_id
        JOIN subjects sb ON sb.id = r.subject_id`

// ResultRepository persists student marks.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository constructs the repository.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Create inserts a result. A duplicate (student, subject, semester,
// academic_year) surfaces as a unique violation.
func (r *ResultRepository) Create(ctx context.Context, result *models.StudentResult) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	result.CreatedAt = now
	result.UpdatedAt = now
	const query = `INSERT INTO student_results (id, student_id, subject_id, semester, academic_year, internal_marks, external_marks, practical_marks, total_marks, grade, created_at, updated_at)
        VALUES (:id, :student_id, :subject_id, :semester, :academic_year, :internal_marks, :external_marks, :practical_marks, :total_marks, :grade, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("create result: %w", err)
	}
	return nil
}

// Upsert writes a result, replacing marks when the key already exists.
func (r *ResultRepository) Upsert(ctx context.Context, result *models.StudentResult) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if result.CreatedAt.IsZero() {
		result.CreatedAt = now
	}
	result.UpdatedAt = now
	const query = `INSERT INTO student_results (id, student_id, subject_id, semester, academic_year, internal_marks, external_marks, practical_marks, total_marks, grade, created_at, updated_at)
        VALUES (:id, :student_id, :subject_id, :semester, :academic_year, :internal_marks, :external_marks, :practical_marks, :total_marks, :grade, :created_at, :updated_at)
        ON CONFLICT (student_id, subject_id, semester, academic_year) DO UPDATE SET
        internal_marks = EXCLUDED.internal_marks, external_marks = EXCLUDED.external_marks,
        practical_marks = EXCLUDED.practical_marks, total_marks = EXCLUDED.total_marks,
        grade = EXCLUDED.grade, updated_at = EXCLUDED.updated_at
        RETURNING id`
	rows, err := sqlx.NamedQueryContext(ctx, r.db, query, result)
	if err != nil {
		return fmt.Errorf("upsert result: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&result.ID); err != nil {
			return fmt.Errorf("scan result id: %w", err)
		}
	}
	return rows.Err()
}

// UpdateMarks rewrites the marks of an existing result.
func (r *ResultRepository) UpdateMarks(ctx context.Context, exec sqlx.ExtContext, result *models.StudentResult) error {
	result.UpdatedAt = time.Now().UTC()
	const query = `UPDATE student_results SET internal_marks = :internal_marks, external_marks = :external_marks, practical_marks = :practical_marks,
        total_marks = :total_marks, grade = :grade, updated_at = :updated_at WHERE id = :id`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, result); err != nil {
		return fmt.Errorf("update result marks: %w", err)
	}
	return nil
}

// FindLatest returns the most recent result of a student in a subject.
func (r *ResultRepository) FindLatest(ctx context.Context, studentID, subjectID string) (*models.StudentResult, error) {
	query := `SELECT ` + resultColumns + ` FROM student_results r WHERE r.student_id = $1 AND r.subject_id = $2 ORDER BY r.academic_year DESC, r.semester DESC, r.updated_at DESC LIMIT 1`
	var result models.StudentResult
	if err := r.db.GetContext(ctx, &result, query, studentID, subjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find result: %w", err)
	}
	return &result, nil
}

// FindForSemester returns the result for one semester.
func (r *ResultRepository) FindForSemester(ctx context.Context, studentID, subjectID, semester string) (*models.StudentResult, error) {
	query := `SELECT ` + resultColumns + ` FROM student_results r WHERE r.student_id = $1 AND r.subject_id = $2 AND r.semester = $3 ORDER BY r.academic_year DESC LIMIT 1`
	var result models.StudentResult
	if err := r.db.GetContext(ctx, &result, query, studentID, subjectID, semester); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find semester result: %w", err)
	}
	return &result, nil
}

// ListSheet returns one subject's results for a semester ordered by student email.
func (r *ResultRepository) ListSheet(ctx context.Context, filter models.ResultSheetFilter) ([]models.ResultSheetRow, error) {
	query := resultSheetSelect + ` WHERE r.subject_id = $1 AND r.semester = $2 AND r.academic_year = $3 ORDER BY u.email ASC`
	var rows []models.ResultSheetRow
	if err := r.db.SelectContext(ctx, &rows, query, filter.SubjectID, filter.Semester, filter.AcademicYear); err != nil {
		return nil, fmt.Errorf("list result sheet: %w", err)
	}
	return rows, nil
}

// ListByStudent returns every result of a student.
func (r *ResultRepository) ListByStudent(ctx context.Context, studentID string) ([]models.ResultSheetRow, error) {
	query := resultSheetSelect + ` WHERE r.student_id = $1 ORDER BY r.academic_year DESC, r.semester DESC, sb.name ASC`
	var rows []models.ResultSheetRow
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list student results: %w", err)
	}
	return rows, nil
}
