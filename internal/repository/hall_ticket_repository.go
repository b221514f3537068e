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

const hallTicketDetailSelect = `SELECT ht.id, ht.student_id, ht.exam_id, ht.hall_ticket_number, ht.seat_number, ht.bench_number, ht.is_active, ht.created_at, ht.updated_at,
        s.user_id AS student_user_id, u.full_name AS student_name, u.email AS student_email,
        e.name AS exam_name, h.name AS hall_name, c.name AS course_name
        FROM hall_tickets ht
        JOIN students s ON s.id = ht.student_id
        JOIN users u ON u.id = s.user_id
        JOIN exams e ON e.id = ht.exam_id
        JOIN exam_halls h ON h.id = e.hall_id
        LEFT JOIN courses c ON c.id = e.course_id`

// nextSequenceQuery bumps the per-prefix counter in one statement. The first
// use of a prefix seeds the counter from the highest ticket already issued
// with it so numbering survives data loaded outside the counter.
const nextSequenceQuery = `INSERT INTO hall_ticket_sequences (prefix, last_value)
        VALUES ($1, COALESCE((
            SELECT MAX(CAST(SUBSTRING(hall_ticket_number FROM char_length($1) + 1) AS BIGINT))
            FROM hall_tickets
            WHERE hall_ticket_number LIKE $1 || '%' AND SUBSTRING(hall_ticket_number FROM char_length($1) + 1) ~ '^[0-9]+$'
        ), 0) + 1)
        ON CONFLICT (prefix) DO UPDATE SET last_value = hall_ticket_sequences.last_value + 1
        RETURNING last_value`

// HallTicketRepository persists issued hall tickets.
type HallTicketRepository struct {
	db *sqlx.DB
}

// NewHallTicketRepository constructs the repository.
func NewHallTicketRepository(db *sqlx.DB) *HallTicketRepository {
	return &HallTicketRepository{db: db}
}

// NextSequence reserves the next ticket sequence number for prefix.
func (r *HallTicketRepository) NextSequence(ctx context.Context, exec sqlx.ExtContext, prefix string) (int64, error) {
	var next int64
	if err := sqlx.GetContext(ctx, exec, &next, nextSequenceQuery, prefix); err != nil {
		return 0, fmt.Errorf("next hall ticket sequence: %w", err)
	}
	return next, nil
}

// Create inserts a ticket.
func (r *HallTicketRepository) Create(ctx context.Context, exec sqlx.ExtContext, ticket *models.HallTicket) error {
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	const query = `INSERT INTO hall_tickets (id, student_id, exam_id, hall_ticket_number, seat_number, bench_number, is_active, created_at, updated_at)
        VALUES (:id, :student_id, :exam_id, :hall_ticket_number, :seat_number, :bench_number, :is_active, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, ticket); err != nil {
		return fmt.Errorf("create hall ticket: %w", err)
	}
	return nil
}

// CountByExam returns how many tickets an exam has.
func (r *HallTicketRepository) CountByExam(ctx context.Context, examID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM hall_tickets WHERE exam_id = $1`, examID); err != nil {
		return 0, fmt.Errorf("count hall tickets: %w", err)
	}
	return count, nil
}

// ListByExam returns an exam's tickets in seat order.
func (r *HallTicketRepository) ListByExam(ctx context.Context, examID string) ([]models.HallTicketDetail, error) {
	query := hallTicketDetailSelect + ` WHERE ht.exam_id = $1 ORDER BY ht.seat_number ASC, ht.hall_ticket_number ASC`
	var tickets []models.HallTicketDetail
	if err := r.db.SelectContext(ctx, &tickets, query, examID); err != nil {
		return nil, fmt.Errorf("list hall tickets by exam: %w", err)
	}
	return tickets, nil
}

// ListByStudent returns a student's tickets, newest first.
func (r *HallTicketRepository) ListByStudent(ctx context.Context, studentID string) ([]models.HallTicketDetail, error) {
	query := hallTicketDetailSelect + ` WHERE ht.student_id = $1 ORDER BY ht.created_at DESC, ht.hall_ticket_number ASC`
	var tickets []models.HallTicketDetail
	if err := r.db.SelectContext(ctx, &tickets, query, studentID); err != nil {
		return nil, fmt.Errorf("list hall tickets by student: %w", err)
	}
	return tickets, nil
}

// FindByID returns one ticket with its printable details.
func (r *HallTicketRepository) FindByID(ctx context.Context, id string) (*models.HallTicketDetail, error) {
	query := hallTicketDetailSelect + ` WHERE ht.id = $1`
	var ticket models.HallTicketDetail
	if err := r.db.GetContext(ctx, &ticket, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find hall ticket: %w", err)
	}
	return &ticket, nil
}

// Delete removes a ticket. A missing row yields sql.ErrNoRows.
func (r *HallTicketRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM hall_tickets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete hall ticket: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete hall ticket: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
