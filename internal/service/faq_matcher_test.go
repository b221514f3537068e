package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-adp-api/internal/models"
)

func seededEntries() []models.FAQEntry {
	entries := DefaultFAQEntries()
	for i := range entries {
		entries[i].ID = fmt.Sprintf("faq-%02d", i+1)
	}
	return entries
}

func findEntry(t *testing.T, entries []models.FAQEntry, question string) models.FAQEntry {
	t.Helper()
	for _, e := range entries {
		if e.Question == question {
			return e
		}
	}
	t.Fatalf("entry %q not seeded", question)
	return models.FAQEntry{}
}

func TestMatcherFindsATKT(t *testing.T) {
	entries := seededEntries()
	atkt := findEntry(t, entries, "What is ATKT?")
	m := NewMatcher(DefaultMatcherConfig())

	reply := m.Match("what is atkt", entries)
	assert.Equal(t, models.ChatbotStatusMatched, reply.Status)
	assert.Equal(t, atkt.ID, reply.EntryID)
	assert.Equal(t, models.FAQCategoryAcademic, reply.Category)
	assert.Greater(t, reply.Score, 0.3)
	assert.True(t, strings.HasPrefix(reply.Answer, atkt.Answer))
}

func TestMatcherGreetingBypassesScoring(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig())

	for _, q := range []string{"hi", "  Hello!  ", "good morning there"} {
		reply := m.Match(q, seededEntries())
		assert.Equal(t, models.ChatbotStatusGreeting, reply.Status, q)
		assert.Equal(t, "Hello! I'm your college assistant. How can I help you today?", reply.Answer)
		assert.Equal(t, models.FAQCategoryGeneral, reply.Category)
		assert.Empty(t, reply.EntryID)
	}

	reply := m.Match("hi", nil)
	assert.Equal(t, models.ChatbotStatusGreeting, reply.Status)
}

func TestMatcherFarewell(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig())
	reply := m.Match("Thanks a lot", seededEntries())
	assert.Equal(t, models.ChatbotStatusFarewell, reply.Status)
	assert.Equal(t, "Goodbye! Feel free to ask if you need any more help.", reply.Answer)
	assert.Equal(t, models.FAQCategoryGeneral, reply.Category)
}

func TestMatcherGreetingNeedsWholeWord(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig())
	for _, query := range []string{"what is this", "which exam is next", "this semester fee"} {
		reply := m.Match(query, seededEntries())
		assert.NotEqual(t, models.ChatbotStatusGreeting, reply.Status, query)
	}

	reply := m.Match("which exam is next", seededEntries())
	assert.Equal(t, models.ChatbotStatusMatched, reply.Status)
	assert.Equal(t, models.FAQCategoryExams, reply.Category)

	reply = m.Match("hi, which exam is next", seededEntries())
	assert.Equal(t, models.ChatbotStatusGreeting, reply.Status)
}

func TestMatcherBlankQueryFallsBack(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig())
	reply := m.Match("   ", seededEntries())
	assert.Equal(t, models.ChatbotStatusFallback, reply.Status)
	assert.Empty(t, reply.EntryID)
}

func TestMatcherUnrelatedQueryFallsBack(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig())
	entries := seededEntries()
	for _, e := range entries {
		assert.LessOrEqual(t, m.Score("purple elephant spaceship", e), 0.3, e.Question)
	}

	reply := m.Match("purple elephant spaceship", entries)
	assert.Equal(t, models.ChatbotStatusFallback, reply.Status)
	assert.Equal(t, models.FAQCategoryGeneral, reply.Category)
	assert.Equal(t, "I'm not sure about that. Here are some common questions you can ask:\n\n"+
		"1. How do I check my attendance?\n"+
		"2. What is the fee structure?\n"+
		"3. How do I apply for leave?\n"+
		"4. What are the library timings?\n"+
		"5. How do I get my hall ticket?\n\n"+
		"Try asking any of these questions or rephrase your question.", reply.Answer)
}

func TestMatcherFallbackAcknowledgesTopic(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig())
	reply := m.Match("dance competition", seededEntries())
	assert.Equal(t, models.ChatbotStatusFallback, reply.Status)
	assert.True(t, strings.HasPrefix(reply.Answer, "I understand you're asking about events related matters. "))
}

func TestMatcherComposesRelatedAndFollowUp(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig())
	entries := seededEntries()
	pay := findEntry(t, entries, "How do I pay my fees?")

	reply := m.Match("How do I pay my fees", entries)
	require.Equal(t, pay.ID, reply.EntryID)
	want := pay.Answer +
		"\n\nRelated questions you might want to ask:\n" +
		"- What is the complete fee structure and payment process?\n" +
		"- What is the fee structure?\n" +
		"- How do I get a fee receipt?\n" +
		"\nWould you like to know about:\n- How to pay fees online?\n- Fee structure details?\n- Scholarship opportunities?"
	assert.Equal(t, want, reply.Answer)
	assert.Equal(t, models.FAQCategoryFees, reply.Category)
}

func TestMatcherFollowUpIndependentOfCategory(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig())
	entries := []models.FAQEntry{
		{ID: "a", Question: "What is the attendance test policy?", Answer: "Policy.", Category: models.FAQCategoryOther},
	}
	reply := m.Match("what is the attendance test policy", entries)
	require.Equal(t, models.ChatbotStatusMatched, reply.Status)
	assert.Equal(t, "Policy.\nWould you like to know about:\n- Exam schedule?\n- Hall ticket download?\n- Result checking?", reply.Answer)
}

func TestMatcherRelatedCappedAndOrdered(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig())
	entries := []models.FAQEntry{
		{ID: "1", Question: "Where is the canteen?", Answer: "Block C.", Category: models.FAQCategoryOther},
		{ID: "2", Question: "q two", Category: models.FAQCategoryOther},
		{ID: "3", Question: "q three", Category: models.FAQCategoryLibrary},
		{ID: "4", Question: "q four", Category: models.FAQCategoryOther},
		{ID: "5", Question: "q five", Category: models.FAQCategoryOther},
		{ID: "6", Question: "q six", Category: models.FAQCategoryOther},
	}
	reply := m.Match("where is the canteen", entries)
	require.Equal(t, "1", reply.EntryID)
	assert.Equal(t, "Block C.\n\nRelated questions you might want to ask:\n- q two\n- q four\n- q five\n", reply.Answer)
}

func TestMatcherTiesKeepFirstEntry(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig())
	entries := []models.FAQEntry{
		{ID: "first", Question: "Where is the canteen?", Answer: "A", Category: models.FAQCategoryOther},
		{ID: "second", Question: "Where is the canteen?", Answer: "B", Category: models.FAQCategoryLogical},
	}
	reply := m.Match("where is the canteen", entries)
	assert.Equal(t, "first", reply.EntryID)
}

func TestMatcherIsIdempotent(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig())
	entries := seededEntries()
	for _, q := range []string{"what is atkt", "hi", "purple elephant spaceship", "library timings"} {
		assert.Equal(t, m.Match(q, entries), m.Match(q, entries), q)
	}
}

func TestMatcherEmptyQueryFallsBack(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig())
	reply := m.Match("   ", seededEntries())
	assert.Equal(t, models.ChatbotStatusFallback, reply.Status)
}

func TestSimilarityScoring(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig())
	assert.Equal(t, 1.0, m.similarity("what is kt", "what is kt?"))
	assert.Equal(t, 0.0, m.similarity("", ""))
	// 2 shared of 4 distinct words, 2 of 3 positions equal
	assert.InDelta(t, 0.5+(2.0/3.0)*0.2, m.similarity("what is atkt", "what is kt?"), 1e-9)
	// "kt" and "atkt" literally present, atkt contains both as partial matches
	assert.InDelta(t, 0.3, m.categoryScore("what is atkt", models.FAQCategoryAcademic), 1e-9)
	assert.Zero(t, m.categoryScore("what is atkt", models.FAQCategoryLogical))
}

func TestDefaultFAQEntriesAreValid(t *testing.T) {
	entries := DefaultFAQEntries()
	require.Len(t, entries, 33)
	for i, e := range entries {
		assert.True(t, e.Category.Valid(), e.Question)
		assert.NotEmpty(t, e.Answer)
		assert.Equal(t, i+1, e.Position)
	}
}
