package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-adp-api/internal/models"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
	"github.com/noah-isme/college-adp-api/pkg/jobs"
)

type notificationStoreFake struct {
	mu       sync.Mutex
	items    map[string][]models.Notification
	batches  int
	batchErr error
}

func newNotificationStoreFake() *notificationStoreFake {
	return &notificationStoreFake{items: map[string][]models.Notification{}}
}

func (f *notificationStoreFake) CreateBatch(ctx context.Context, notifications []models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.batchErr != nil {
		err := f.batchErr
		f.batchErr = nil
		return err
	}
	f.batches++
	for _, n := range notifications {
		f.items[n.UserID] = append(f.items[n.UserID], n)
	}
	return nil
}

func (f *notificationStoreFake) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Notification, len(f.items[userID]))
	copy(out, f.items[userID])
	return out, nil
}

func (f *notificationStoreFake) MarkAllRead(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items[userID] {
		f.items[userID][i].IsRead = true
	}
	return nil
}

func (f *notificationStoreFake) count(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items[userID])
}

func TestNotificationInboxMarksRead(t *testing.T) {
	store := newNotificationStoreFake()
	store.items["user-1"] = []models.Notification{{ID: "n1", UserID: "user-1", Title: "Hello"}}
	svc := NewNotificationService(store, nil, nil)

	items, err := svc.Inbox(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].IsRead)

	items, err = svc.Inbox(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, items[0].IsRead)
}

func TestNotificationSendDeduplicatesRecipients(t *testing.T) {
	store := newNotificationStoreFake()
	svc := NewNotificationService(store, nil, nil)

	sent, err := svc.Send(context.Background(), NotificationRequest{UserIDs: []string{"u1", "u2", "u1"}, Title: " Holiday ", Message: "College closed Friday"})
	require.NoError(t, err)
	assert.Len(t, sent, 2)
	assert.Equal(t, "Holiday", sent[0].Title)
	assert.Equal(t, models.NotificationGeneral, sent[0].Type)
	assert.Equal(t, 1, store.count("u1"))

	_, err = svc.Send(context.Background(), NotificationRequest{Title: "x", Message: "y"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestHallTicketDispatcherDeliversNotices(t *testing.T) {
	store := newNotificationStoreFake()
	store.batchErr = errors.New("connection reset")
	students := &mockStudentRepo{students: map[string]models.StudentDetail{
		"s1": {Student: models.Student{ID: "s1", UserID: "user-s1"}},
		"s2": {Student: models.Student{ID: "s2", UserID: "user-s2"}},
	}}
	d := NewHallTicketDispatcher(store, students, jobs.Config{MaxRetries: 2, RetryDelay: time.Millisecond})
	d.Start(context.Background())
	defer d.Stop()

	d.HallTicketsIssued(context.Background(), models.Exam{ID: "exam-1", Name: "Midterm"}, []models.HallTicket{
		{StudentID: "s1", HallTicketNumber: "HT-2024-0001", SeatNumber: "A1", BenchNumber: "B1"},
		{StudentID: "s2", HallTicketNumber: "HT-2024-0002", SeatNumber: "A2", BenchNumber: "B1"},
	})

	assert.Eventually(t, func() bool { return store.count("user-s2") == 1 }, time.Second, 5*time.Millisecond)
	items, err := store.ListByUser(context.Background(), "user-s1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Your hall ticket HT-2024-0001 for Midterm has been issued. Seat A1, bench B1.", items[0].Message)
}

func TestHallTicketDispatcherIgnoresWhenStopped(t *testing.T) {
	store := newNotificationStoreFake()
	d := NewHallTicketDispatcher(store, &mockStudentRepo{students: map[string]models.StudentDetail{}}, jobs.Config{})

	d.HallTicketsIssued(context.Background(), models.Exam{ID: "exam-1"}, []models.HallTicket{{StudentID: "s1"}})
	assert.Zero(t, store.batches)
}
