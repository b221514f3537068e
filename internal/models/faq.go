package models

import "time"

// FAQCategory groups chatbot entries.
type FAQCategory string

const (
	FAQCategoryGeneral     FAQCategory = "general"
	FAQCategoryAcademic    FAQCategory = "academic"
	FAQCategoryAttendance  FAQCategory = "attendance"
	FAQCategoryExams       FAQCategory = "exams"
	FAQCategoryFees        FAQCategory = "fees"
	FAQCategoryLibrary     FAQCategory = "library"
	FAQCategoryHostel      FAQCategory = "hostel"
	FAQCategoryTechnical   FAQCategory = "technical"
	FAQCategoryLogical     FAQCategory = "logical"
	FAQCategoryMathematics FAQCategory = "mathematics"
	FAQCategoryOther       FAQCategory = "other"
)

// FAQCategories lists every accepted category.
var FAQCategories = []FAQCategory{
	FAQCategoryGeneral,
	FAQCategoryAcademic,
	FAQCategoryAttendance,
	FAQCategoryExams,
	FAQCategoryFees,
	FAQCategoryLibrary,
	FAQCategoryHostel,
	FAQCategoryTechnical,
	FAQCategoryLogical,
	FAQCategoryMathematics,
	FAQCategoryOther,
}

// Valid reports whether c belongs to the fixed enumeration.
func (c FAQCategory) Valid() bool {
	for _, known := range FAQCategories {
		if c == known {
			return true
		}
	}
	return false
}

// FAQEntry is a stored chatbot question and answer. Position keeps the
// storage order stable across reloads.
type FAQEntry struct {
	ID        string      `db:"id" json:"id"`
	Question  string      `db:"question" json:"question"`
	Answer    string      `db:"answer" json:"answer"`
	Category  FAQCategory `db:"category" json:"category"`
	Position  int         `db:"position" json:"position"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

// ChatbotStatus reports how a reply was produced.
type ChatbotStatus string

const (
	ChatbotStatusGreeting ChatbotStatus = "greeting"
	ChatbotStatusFarewell ChatbotStatus = "farewell"
	ChatbotStatusMatched  ChatbotStatus = "matched"
	ChatbotStatusFallback ChatbotStatus = "fallback"
)

// ChatbotQuery is the payload of the public chatbot endpoint.
type ChatbotQuery struct {
	Message string `json:"message" validate:"required,max=1000"`
}

// ChatbotReply is the structured matcher result.
type ChatbotReply struct {
	Status   ChatbotStatus `json:"status"`
	Answer   string        `json:"answer"`
	Category FAQCategory   `json:"category"`
	EntryID  string        `json:"entry_id,omitempty"`
	Score    float64       `json:"score,omitempty"`
}
