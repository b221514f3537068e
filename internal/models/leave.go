package models

import "time"

// RequesterType distinguishes student and staff submissions.
type RequesterType string

const (
	RequesterStudent RequesterType = "student"
	RequesterStaff   RequesterType = "staff"
)

// LeaveStatus values mirror the review outcome.
const (
	LeavePending  = 0
	LeaveApproved = 1
	LeaveRejected = -1
)

// LeaveReport is a leave request from a student or staff member.
type LeaveReport struct {
	ID            string        `db:"id" json:"id"`
	RequesterType RequesterType `db:"requester_type" json:"requester_type"`
	RequesterID   string        `db:"requester_id" json:"requester_id"`
	Date          string        `db:"date" json:"date"`
	Message       string        `db:"message" json:"message"`
	Status        int           `db:"status" json:"status"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// Feedback is a free-text message to the HOD with an optional reply.
type Feedback struct {
	ID            string        `db:"id" json:"id"`
	RequesterType RequesterType `db:"requester_type" json:"requester_type"`
	RequesterID   string        `db:"requester_id" json:"requester_id"`
	Feedback      string        `db:"feedback" json:"feedback"`
	Reply         string        `db:"reply" json:"reply"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}
