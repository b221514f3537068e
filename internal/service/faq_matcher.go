package service

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/noah-isme/college-adp-api/internal/models"
)

// FollowUpRule appends a suggestion when any trigger occurs in the query.
type FollowUpRule struct {
	Triggers   []string
	Suggestion string
}

// TopicRule names a broad topic recognised in unanswered queries.
type TopicRule struct {
	Topic    string
	Keywords []string
}

// MatcherConfig holds the static tables and weights used by Matcher.
type MatcherConfig struct {
	Threshold     float64
	MaxRelated    int
	OrderWeight   float64
	KeywordWeight float64
	PartialWeight float64
	ContextBonus  float64

	Greetings     []string
	Farewells     []string
	GreetingReply string
	FarewellReply string

	CategoryKeywords map[models.FAQCategory][]string
	FollowUps        []FollowUpRule
	Topics           []TopicRule
	FallbackPrompts  []string
}

// DefaultMatcherConfig returns the tables the college assistant ships with.
func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		Threshold:     0.3,
		MaxRelated:    3,
		OrderWeight:   0.2,
		KeywordWeight: 0.1,
		PartialWeight: 0.05,
		ContextBonus:  0.2,

		Greetings:     []string{"hi", "hello", "hey", "good morning", "good afternoon", "good evening"},
		Farewells:     []string{"bye", "goodbye", "see you", "thank you", "thanks"},
		GreetingReply: "Hello! I'm your college assistant. How can I help you today?",
		FarewellReply: "Goodbye! Feel free to ask if you need any more help.",

		CategoryKeywords: map[models.FAQCategory][]string{
			models.FAQCategoryAcademic: {
				"cgpa", "attendance", "kt", "atkt", "leave", "internal", "grade", "result",
				"marks", "score", "study", "exam", "test", "assignment", "project", "semester",
				"course", "subject", "class", "lecture", "teacher", "professor", "faculty",
			},
			models.FAQCategoryLibrary: {
				"book", "library", "borrow", "fine", "return", "study", "read", "textbook",
				"reference", "journal", "magazine", "research", "paper", "publication",
				"digital", "online", "database", "catalog", "shelf", "librarian",
			},
			models.FAQCategoryExams: {
				"exam", "hall ticket", "grade", "result", "paper", "question", "test",
				"midterm", "final", "semester", "schedule", "date", "time", "venue",
				"room", "hall", "seat", "admit card", "marksheet", "answer sheet",
			},
			models.FAQCategoryFees: {
				"fee", "payment", "money", "pay", "receipt", "scholarship", "tuition",
				"cost", "expense", "charge", "due", "installment", "refund", "discount",
				"concession", "financial", "bank", "transaction", "online payment",
			},
			models.FAQCategoryHostel: {
				"hostel", "room", "mess", "food", "stay", "accommodation", "boarding",
				"lodging", "residence", "dormitory", "meal", "dining", "laundry",
				"facility", "amenity", "furniture", "maintenance", "security",
			},
			models.FAQCategoryTechnical: {
				"portal", "password", "login", "access", "website", "app", "system",
				"computer", "internet", "network", "email", "account", "profile",
				"settings", "update", "download", "upload", "file", "document",
			},
			models.FAQCategoryGeneral: {
				"support", "help", "contact", "profile", "id card", "document",
				"information", "guide", "assistance", "service", "office", "department",
				"staff", "admin", "head", "principal", "campus", "facility",
			},
		},

		FollowUps: []FollowUpRule{
			{
				Triggers:   []string{"fee", "payment"},
				Suggestion: "\nWould you like to know about:\n- How to pay fees online?\n- Fee structure details?\n- Scholarship opportunities?",
			},
			{
				Triggers:   []string{"exam", "test"},
				Suggestion: "\nWould you like to know about:\n- Exam schedule?\n- Hall ticket download?\n- Result checking?",
			},
			{
				Triggers:   []string{"attendance"},
				Suggestion: "\nWould you like to know about:\n- Minimum attendance requirements?\n- Leave application process?\n- Attendance calculation?",
			},
		},

		Topics: []TopicRule{
			{Topic: "academic", Keywords: []string{"study", "class", "course", "subject"}},
			{Topic: "administrative", Keywords: []string{"form", "application", "document", "certificate"}},
			{Topic: "facilities", Keywords: []string{"campus", "building", "room", "hall"}},
			{Topic: "events", Keywords: []string{"festival", "program", "competition", "activity"}},
		},

		FallbackPrompts: []string{
			"How do I check my attendance?",
			"What is the fee structure?",
			"How do I apply for leave?",
			"What are the library timings?",
			"How do I get my hall ticket?",
		},
	}
}

// Matcher scores free-text questions against stored FAQ entries. It holds no
// mutable state and is safe for concurrent use.
type Matcher struct {
	cfg MatcherConfig
}

// NewMatcher builds a matcher. Zero weights fall back to the defaults.
func NewMatcher(cfg MatcherConfig) *Matcher {
	def := DefaultMatcherConfig()
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}
	if cfg.MaxRelated <= 0 {
		cfg.MaxRelated = def.MaxRelated
	}
	if cfg.OrderWeight == 0 {
		cfg.OrderWeight = def.OrderWeight
	}
	if cfg.KeywordWeight == 0 {
		cfg.KeywordWeight = def.KeywordWeight
	}
	if cfg.PartialWeight == 0 {
		cfg.PartialWeight = def.PartialWeight
	}
	if cfg.ContextBonus == 0 {
		cfg.ContextBonus = def.ContextBonus
	}
	return &Matcher{cfg: cfg}
}

// Config exposes the tables in use.
func (m *Matcher) Config() MatcherConfig {
	return m.cfg
}

// Greet answers greetings and farewells without looking at any entry.
func (m *Matcher) Greet(query string) (models.ChatbotReply, bool) {
	q := normalizeQuery(query)
	if q == "" {
		return models.ChatbotReply{}, false
	}
	if containsPhrase(q, m.cfg.Greetings) {
		return models.ChatbotReply{Status: models.ChatbotStatusGreeting, Answer: m.cfg.GreetingReply, Category: models.FAQCategoryGeneral}, true
	}
	if containsPhrase(q, m.cfg.Farewells) {
		return models.ChatbotReply{Status: models.ChatbotStatusFarewell, Answer: m.cfg.FarewellReply, Category: models.FAQCategoryGeneral}, true
	}
	return models.ChatbotReply{}, false
}

// Match returns the reply for query. Ties keep the earliest entry.
func (m *Matcher) Match(query string, entries []models.FAQEntry) models.ChatbotReply {
	if reply, ok := m.Greet(query); ok {
		return reply
	}
	q := normalizeQuery(query)

	best := -1
	bestScore := 0.0
	if q != "" {
		for i := range entries {
			score := m.Score(q, entries[i])
			if score > bestScore {
				bestScore = score
				best = i
			}
		}
	}

	if best < 0 || bestScore <= m.cfg.Threshold {
		return models.ChatbotReply{Status: models.ChatbotStatusFallback, Answer: m.fallback(q), Category: models.FAQCategoryGeneral}
	}

	entry := entries[best]
	return models.ChatbotReply{
		Status:   models.ChatbotStatusMatched,
		Answer:   m.compose(q, entry, entries),
		Category: entry.Category,
		EntryID:  entry.ID,
		Score:    bestScore,
	}
}

// Score combines question similarity with the category and context bonuses.
// query must already be normalised.
func (m *Matcher) Score(query string, entry models.FAQEntry) float64 {
	question := strings.ToLower(entry.Question)
	score := m.similarity(query, question)
	score += m.categoryScore(query, entry.Category)
	for _, word := range strings.Fields(question) {
		if strings.Contains(query, word) {
			score += m.cfg.ContextBonus
			break
		}
	}
	return score
}

func (m *Matcher) similarity(a, b string) float64 {
	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)

	setA := make(map[string]struct{}, len(wordsA))
	for _, w := range wordsA {
		setA[w] = struct{}{}
	}
	union := make(map[string]struct{}, len(wordsA)+len(wordsB))
	for w := range setA {
		union[w] = struct{}{}
	}
	intersection := 0
	seenB := make(map[string]struct{}, len(wordsB))
	for _, w := range wordsB {
		if _, dup := seenB[w]; dup {
			continue
		}
		seenB[w] = struct{}{}
		if _, ok := setA[w]; ok {
			intersection++
		}
		union[w] = struct{}{}
	}
	if len(union) == 0 {
		return 0
	}

	if strings.Contains(b, a) || strings.Contains(a, b) {
		return 1.0
	}

	shorter, longer := len(wordsA), len(wordsB)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	same := 0
	for i := 0; i < shorter; i++ {
		if wordsA[i] == wordsB[i] {
			same++
		}
	}
	order := float64(same) / float64(longer)

	return float64(intersection)/float64(len(union)) + order*m.cfg.OrderWeight
}

func (m *Matcher) categoryScore(query string, category models.FAQCategory) float64 {
	keywords := m.cfg.CategoryKeywords[category]
	if len(keywords) == 0 {
		return 0
	}
	score := 0.0
	for _, kw := range keywords {
		if strings.Contains(query, kw) {
			score += m.cfg.KeywordWeight
		}
	}
	for _, word := range strings.Fields(query) {
		for _, kw := range keywords {
			if strings.Contains(kw, word) || strings.Contains(word, kw) {
				score += m.cfg.PartialWeight
			}
		}
	}
	return score
}

func (m *Matcher) compose(query string, best models.FAQEntry, entries []models.FAQEntry) string {
	var b strings.Builder
	b.WriteString(best.Answer)

	related := make([]string, 0, m.cfg.MaxRelated)
	for _, e := range entries {
		if len(related) == m.cfg.MaxRelated {
			break
		}
		if e.Category == best.Category && e.ID != best.ID {
			related = append(related, e.Question)
		}
	}
	if len(related) > 0 {
		b.WriteString("\n\nRelated questions you might want to ask:\n")
		for _, q := range related {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}

	for _, rule := range m.cfg.FollowUps {
		if containsAny(query, rule.Triggers) {
			b.WriteString(rule.Suggestion)
			break
		}
	}
	return b.String()
}

func (m *Matcher) fallback(query string) string {
	var b strings.Builder
	topic := ""
	for _, rule := range m.cfg.Topics {
		if containsAny(query, rule.Keywords) {
			topic = rule.Topic
			break
		}
	}
	if topic != "" {
		fmt.Fprintf(&b, "I understand you're asking about %s related matters. ", topic)
	} else {
		b.WriteString("I'm not sure about that. ")
	}
	b.WriteString("Here are some common questions you can ask:\n\n")
	for i, prompt := range m.cfg.FallbackPrompts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, prompt)
	}
	b.WriteString("\nTry asking any of these questions or rephrase your question.")
	return b.String()
}

func normalizeQuery(query string) string {
	return strings.TrimSpace(strings.ToLower(query))
}

// containsPhrase matches whole words only, so "this" does not greet.
func containsPhrase(query string, phrases []string) bool {
	words := strings.FieldsFunc(query, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	padded := " " + strings.Join(words, " ") + " "
	for _, p := range phrases {
		if strings.Contains(padded, " "+p+" ") {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
