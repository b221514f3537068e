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

// ExamHallRepository persists exam halls.
type ExamHallRepository struct {
	db *sqlx.DB
}

// NewExamHallRepository constructs the repository.
func NewExamHallRepository(db *sqlx.DB) *ExamHallRepository {
	return &ExamHallRepository{db: db}
}

// List returns halls ordered by name.
func (r *ExamHallRepository) List(ctx context.Context) ([]models.ExamHall, error) {
	const query = `SELECT id, name, capacity, rows, columns, created_at, updated_at FROM exam_halls ORDER BY name ASC`
	var halls []models.ExamHall
	if err := r.db.SelectContext(ctx, &halls, query); err != nil {
		return nil, fmt.Errorf("list exam halls: %w", err)
	}
	return halls, nil
}

// FindByID returns a hall.
func (r *ExamHallRepository) FindByID(ctx context.Context, id string) (*models.ExamHall, error) {
	const query = `SELECT id, name, capacity, rows, columns, created_at, updated_at FROM exam_halls WHERE id = $1`
	var hall models.ExamHall
	if err := r.db.GetContext(ctx, &hall, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find exam hall: %w", err)
	}
	return &hall, nil
}

// Create inserts a hall.
func (r *ExamHallRepository) Create(ctx context.Context, hall *models.ExamHall) error {
	if hall.ID == "" {
		hall.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	hall.CreatedAt = now
	hall.UpdatedAt = now
	const query = `INSERT INTO exam_halls (id, name, capacity, rows, columns, created_at, updated_at) VALUES (:id, :name, :capacity, :rows, :columns, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, hall); err != nil {
		return fmt.Errorf("create exam hall: %w", err)
	}
	return nil
}

// ExamRepository persists exams and their subject papers.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository constructs the repository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

// List returns exams, optionally for one course, newest first.
func (r *ExamRepository) List(ctx context.Context, courseID string) ([]models.Exam, error) {
	query := `SELECT id, name, course_id, hall_id, created_at, updated_at FROM exams`
	var args []interface{}
	if courseID != "" {
		query += ` WHERE course_id = $1`
		args = append(args, courseID)
	}
	query += ` ORDER BY created_at DESC, id ASC`
	var exams []models.Exam
	if err := r.db.SelectContext(ctx, &exams, query, args...); err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return exams, nil
}

// FindByID returns an exam without its subjects.
func (r *ExamRepository) FindByID(ctx context.Context, id string) (*models.Exam, error) {
	const query = `SELECT id, name, course_id, hall_id, created_at, updated_at FROM exams WHERE id = $1`
	var exam models.Exam
	if err := r.db.GetContext(ctx, &exam, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find exam: %w", err)
	}
	return &exam, nil
}

// ListSubjects returns the papers of an exam in timetable order.
func (r *ExamRepository) ListSubjects(ctx context.Context, examID string) ([]models.ExamSubject, error) {
	const query = `SELECT es.id, es.exam_id, es.subject_id, sb.name AS subject_name, es.date, es.start_time, es.end_time, es.created_at, es.updated_at
        FROM exam_subjects es
        JOIN subjects sb ON sb.id = es.subject_id
        WHERE es.exam_id = $1
        ORDER BY es.date ASC NULLS LAST, es.start_time ASC NULLS LAST, sb.name ASC`
	var subjects []models.ExamSubject
	if err := r.db.SelectContext(ctx, &subjects, query, examID); err != nil {
		return nil, fmt.Errorf("list exam subjects: %w", err)
	}
	return subjects, nil
}

// Create inserts an exam.
func (r *ExamRepository) Create(ctx context.Context, exec sqlx.ExtContext, exam *models.Exam) error {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	exam.CreatedAt = now
	exam.UpdatedAt = now
	const query = `INSERT INTO exams (id, name, course_id, hall_id, created_at, updated_at) VALUES (:id, :name, :course_id, :hall_id, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, exam); err != nil {
		return fmt.Errorf("create exam: %w", err)
	}
	return nil
}

// CreateSubject schedules one paper of an exam.
func (r *ExamRepository) CreateSubject(ctx context.Context, exec sqlx.ExtContext, subject *models.ExamSubject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	subject.CreatedAt = now
	subject.UpdatedAt = now
	const query = `INSERT INTO exam_subjects (id, exam_id, subject_id, date, start_time, end_time, created_at, updated_at)
        VALUES (:id, :exam_id, :subject_id, :date, :start_time, :end_time, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, subject); err != nil {
		return fmt.Errorf("create exam subject: %w", err)
	}
	return nil
}

// Delete removes an exam with its papers and issued hall tickets.
func (r *ExamRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	statements := []struct {
		label string
		query string
	}{
		{"delete exam hall tickets", `DELETE FROM hall_tickets WHERE exam_id = $1`},
		{"delete exam subjects", `DELETE FROM exam_subjects WHERE exam_id = $1`},
		{"delete exam", `DELETE FROM exams WHERE id = $1`},
	}
	for _, stmt := range statements {
		if _, err := exec.ExecContext(ctx, stmt.query, id); err != nil {
			return fmt.Errorf("%s: %w", stmt.label, err)
		}
	}
	return nil
}
