package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// HallTicketDocument carries everything printed on a hall ticket.
type HallTicketDocument struct {
	Institution  string
	ExamName     string
	TicketNumber string
	StudentName  string
	StudentEmail string
	CourseName   string
	HallName     string
	SeatNumber   string
	BenchNumber  string
	Subjects     []HallTicketSubject
	Instructions []string
}

// HallTicketSubject is one row of the exam timetable block.
type HallTicketSubject struct {
	Name      string
	Date      string
	StartTime string
	EndTime   string
}

// HallTicketRenderer produces printable hall tickets.
type HallTicketRenderer struct{}

// NewHallTicketRenderer constructs a renderer.
func NewHallTicketRenderer() *HallTicketRenderer {
	return &HallTicketRenderer{}
}

// Render lays out a single hall ticket on an A4 page.
func (r *HallTicketRenderer) Render(doc HallTicketDocument) ([]byte, error) {
	if doc.TicketNumber == "" {
		return nil, fmt.Errorf("hall ticket number is required")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle(doc.TicketNumber, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	if doc.Institution != "" {
		pdf.CellFormat(0, 9, doc.Institution, "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, "HALL TICKET", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, doc.ExamName, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	fields := [][2]string{
		{"Hall Ticket No.", doc.TicketNumber},
		{"Student", doc.StudentName},
		{"Email", doc.StudentEmail},
		{"Course", doc.CourseName},
		{"Exam Hall", doc.HallName},
		{"Seat", doc.SeatNumber},
		{"Bench", doc.BenchNumber},
	}
	for _, f := range fields {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(45, 8, f[0], "1", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 8, f[1], "1", 1, "", false, 0, "")
	}

	if len(doc.Subjects) > 0 {
		pdf.Ln(5)
		pdf.SetFont("Arial", "B", 10)
		widths := []float64{80, 35, 32.5, 32.5}
		for i, h := range []string{"Subject", "Date", "Start", "End"} {
			pdf.CellFormat(widths[i], 8, h, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		for _, s := range doc.Subjects {
			pdf.CellFormat(widths[0], 7, s.Name, "1", 0, "", false, 0, "")
			pdf.CellFormat(widths[1], 7, s.Date, "1", 0, "C", false, 0, "")
			pdf.CellFormat(widths[2], 7, s.StartTime, "1", 0, "C", false, 0, "")
			pdf.CellFormat(widths[3], 7, s.EndTime, "1", 1, "C", false, 0, "")
		}
	}

	if len(doc.Instructions) > 0 {
		pdf.Ln(5)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 7, "Instructions", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for i, line := range doc.Instructions {
			pdf.MultiCell(0, 5, fmt.Sprintf("%d. %s", i+1, line), "", "", false)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render hall ticket: %w", err)
	}
	return buf.Bytes(), nil
}
