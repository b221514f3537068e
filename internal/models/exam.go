package models

import "time"

// ExamHall is a room laid out as a grid of benches.
type ExamHall struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Capacity  int       `db:"capacity" json:"capacity"`
	Rows      int       `db:"rows" json:"rows"`
	Columns   int       `db:"columns" json:"columns"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Seats returns the number of grid positions in the hall.
func (h ExamHall) Seats() int {
	return h.Rows * h.Columns
}

// Exam is sat by every student of a course in one hall.
type Exam struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CourseID  string    `db:"course_id" json:"course_id"`
	HallID    string    `db:"hall_id" json:"hall_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Subjects []ExamSubject `db:"-" json:"subjects,omitempty"`
}

// ExamSubject schedules one subject paper of an exam.
type ExamSubject struct {
	ID          string     `db:"id" json:"id"`
	ExamID      string     `db:"exam_id" json:"exam_id"`
	SubjectID   string     `db:"subject_id" json:"subject_id"`
	SubjectName string     `db:"subject_name" json:"subject_name,omitempty"`
	Date        *time.Time `db:"date" json:"date,omitempty"`
	StartTime   *string    `db:"start_time" json:"start_time,omitempty"`
	EndTime     *string    `db:"end_time" json:"end_time,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// HallTicket admits one student to one exam at a fixed seat.
type HallTicket struct {
	ID               string    `db:"id" json:"id"`
	StudentID        string    `db:"student_id" json:"student_id"`
	ExamID           string    `db:"exam_id" json:"exam_id"`
	HallTicketNumber string    `db:"hall_ticket_number" json:"hall_ticket_number"`
	SeatNumber       string    `db:"seat_number" json:"seat_number"`
	BenchNumber      string    `db:"bench_number" json:"bench_number"`
	IsActive         bool      `db:"is_active" json:"is_active"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// HallTicketDetail is a ticket joined with the names printed on it.
type HallTicketDetail struct {
	HallTicket
	StudentUserID string  `db:"student_user_id" json:"-"`
	StudentName   string  `db:"student_name" json:"student_name"`
	StudentEmail  string  `db:"student_email" json:"student_email"`
	ExamName      string  `db:"exam_name" json:"exam_name"`
	HallName      string  `db:"hall_name" json:"hall_name"`
	CourseName    *string `db:"course_name" json:"course_name,omitempty"`
}
