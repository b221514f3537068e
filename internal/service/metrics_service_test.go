package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceExposesDomainCounters(t *testing.T) {
	m := NewMetricsService()
	m.RecordAllocation(3)
	m.RecordAllocationFailure("capacity")
	m.RecordChatbotReply("matched", "exams")
	m.ObserveDBQuery("hall_ticket_allocation", 5*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/exams", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "hall_tickets_allocated_total 3")
	assert.Contains(t, body, `hall_ticket_allocation_failures_total{reason="capacity"} 1`)
	assert.Contains(t, body, `chatbot_replies_total{category="exams",status="matched"} 1`)
	assert.Contains(t, body, `db_query_duration_seconds_count{query="hall_ticket_allocation"} 1`)
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	assert.NotPanics(t, func() {
		m.RecordAllocation(1)
		m.RecordChatbotReply("fallback", "general")
		m.ObserveDBQuery("q", time.Millisecond)
	})
	assert.Zero(t, m.CacheHitRatio())
}
