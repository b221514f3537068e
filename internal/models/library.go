package models

import "time"

// Book is a title held by the college library, keyed by ISBN.
type Book struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Author    string    `db:"author" json:"author"`
	ISBN      string    `db:"isbn" json:"isbn"`
	Category  string    `db:"category" json:"category"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// IssuedBook records a book lent to a student.
type IssuedBook struct {
	ID         string    `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	ISBN       string    `db:"isbn" json:"isbn"`
	IssuedDate time.Time `db:"issued_date" json:"issued_date"`
	ExpiryDate time.Time `db:"expiry_date" json:"expiry_date"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// IssuedBookDetail adds the book name and the fine accrued so far.
type IssuedBookDetail struct {
	IssuedBook
	BookName    string `db:"book_name" json:"book_name"`
	StudentName string `db:"student_name" json:"student_name"`
	DaysOut     int    `db:"-" json:"days_out"`
	Fine        int    `db:"-" json:"fine"`
}
