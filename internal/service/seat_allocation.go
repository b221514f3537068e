package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/college-adp-api/internal/models"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
)

// SeatAssignment places one student at a grid position of a hall.
type SeatAssignment struct {
	StudentID   string
	Row         int
	Column      int
	SeatNumber  string
	BenchNumber string
}

// PlanSeats assigns seats in row-major order starting at (1,1): the column
// advances first and wraps to the next row after hall.Columns. It fails with
// ErrCapacityExceeded when the students do not fit in the rows x columns grid,
// in which case no assignment is returned.
func PlanSeats(studentIDs []string, hall models.ExamHall) ([]SeatAssignment, error) {
	if len(studentIDs) == 0 {
		return []SeatAssignment{}, nil
	}
	if hall.Rows <= 0 || hall.Columns <= 0 {
		return nil, appErrors.Clone(appErrors.ErrCapacityExceeded,
			fmt.Sprintf("hall %s has no seats", hall.Name))
	}
	if len(studentIDs) > hall.Seats() {
		return nil, appErrors.Clone(appErrors.ErrCapacityExceeded,
			fmt.Sprintf("hall %s seats %d students, %d enrolled", hall.Name, hall.Seats(), len(studentIDs)))
	}

	plan := make([]SeatAssignment, 0, len(studentIDs))
	row, col := 1, 1
	for _, id := range studentIDs {
		plan = append(plan, SeatAssignment{
			StudentID:   id,
			Row:         row,
			Column:      col,
			SeatNumber:  FormatSeatNumber(row, col),
			BenchNumber: FormatBenchNumber(row),
		})
		col++
		if col > hall.Columns {
			col = 1
			row++
		}
	}
	return plan, nil
}

// FormatSeatNumber renders a seat as zero padded "RR-CC".
func FormatSeatNumber(row, col int) string {
	return fmt.Sprintf("%02d-%02d", row, col)
}

// FormatBenchNumber renders a bench as "Brr".
func FormatBenchNumber(row int) string {
	return fmt.Sprintf("B%02d", row)
}

// HallTicketPrefix returns the "<prefix>-<year>-" stem shared by a year's tickets.
func HallTicketPrefix(prefix string, year int) string {
	return fmt.Sprintf("%s-%d-", prefix, year)
}

// FormatHallTicketNumber renders "<prefix>-<year>-<5 digit sequence>".
func FormatHallTicketNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s%05d", HallTicketPrefix(prefix, year), seq)
}

// ParseHallTicketSequence extracts the trailing sequence of a ticket number.
func ParseHallTicketSequence(number string) (int64, bool) {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0, false
	}
	seq, err := strconv.ParseInt(number[idx+1:], 10, 64)
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}
