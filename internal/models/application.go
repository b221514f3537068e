package models

import "time"

// ApplicationStatus is the review state of a KT or revaluation request.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

// ApplicationKind selects between KT and revaluation requests.
type ApplicationKind string

const (
	ApplicationKindKT          ApplicationKind = "kt"
	ApplicationKindRevaluation ApplicationKind = "revaluation"
)

// KTApplication asks to keep term with a failed subject.
type KTApplication struct {
	ID              string            `db:"id" json:"id"`
	StudentID       string            `db:"student_id" json:"student_id"`
	SubjectID       string            `db:"subject_id" json:"subject_id"`
	Semester        string            `db:"semester" json:"semester"`
	ApplicationDate time.Time         `db:"application_date" json:"application_date"`
	Status          ApplicationStatus `db:"status" json:"status"`
	Remarks         *string           `db:"remarks" json:"remarks,omitempty"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// RevaluationApplication asks for a result to be re-scored.
type RevaluationApplication struct {
	ID              string            `db:"id" json:"id"`
	StudentID       string            `db:"student_id" json:"student_id"`
	SubjectID       string            `db:"subject_id" json:"subject_id"`
	Semester        string            `db:"semester" json:"semester"`
	CurrentMarks    float64           `db:"current_marks" json:"current_marks"`
	ApplicationDate time.Time         `db:"application_date" json:"application_date"`
	Status          ApplicationStatus `db:"status" json:"status"`
	Remarks         *string           `db:"remarks" json:"remarks,omitempty"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// ApplicationView is the listing shape shared by both application kinds.
type ApplicationView struct {
	ID              string            `db:"id" json:"id"`
	StudentID       string            `db:"student_id" json:"student_id"`
	StudentUserID   string            `db:"student_user_id" json:"-"`
	StudentName     string            `db:"student_name" json:"student_name"`
	SubjectID       string            `db:"subject_id" json:"subject_id"`
	SubjectName     string            `db:"subject_name" json:"subject_name"`
	Semester        string            `db:"semester" json:"semester"`
	CurrentMarks    *float64          `db:"current_marks" json:"current_marks,omitempty"`
	ApplicationDate time.Time         `db:"application_date" json:"application_date"`
	Status          ApplicationStatus `db:"status" json:"status"`
	Remarks         *string           `db:"remarks" json:"remarks,omitempty"`
}

// ApplicationFilter narrows application listings. Empty fields match all.
type ApplicationFilter struct {
	StudentID string
	StaffID   string
	Status    ApplicationStatus
}
