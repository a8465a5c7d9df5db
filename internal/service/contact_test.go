package service

import (
	"context"
	"errors"
	"testing"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/mailer"
	"portfolio-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubNotifier records calls and returns a configurable result.
type stubNotifier struct {
	calls  int
	result mailer.SendResult
}

func (n *stubNotifier) NotifyNewMessage(_ context.Context, _ *domain.ContactMessage, _ string) mailer.SendResult {
	n.calls++
	return n.result
}

func validSubmission() *ContactSubmission {
	return &ContactSubmission{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Subject: "Project inquiry",
		Message: "I would like to discuss a project.",
	}
}

func TestContact_SubmitStoresMessage(t *testing.T) {
	store := memory.New()
	notifier := &stubNotifier{}
	svc := NewContactService(store, notifier, "My Portfolio", zap.NewNop())

	sub := validSubmission()
	sub.ClientIP = "203.0.113.9"
	sub.UserAgent = "test-agent"

	msg, err := svc.Submit(context.Background(), sub)
	require.NoError(t, err)
	require.NotNil(t, msg)

	assert.NotZero(t, msg.ID)
	assert.Equal(t, "Jane Doe", msg.Name)
	assert.Equal(t, domain.PriorityMedium, msg.Priority)
	assert.Equal(t, "203.0.113.9", msg.ClientIP)
	assert.Equal(t, "test-agent", msg.UserAgent)
	assert.False(t, msg.Read)
	assert.Equal(t, 1, notifier.calls)

	count, err := store.CountMessages(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestContact_SubmitTrimsWhitespace(t *testing.T) {
	store := memory.New()
	svc := NewContactService(store, &stubNotifier{}, "My Portfolio", zap.NewNop())

	sub := validSubmission()
	sub.Name = "  Jane Doe  "
	sub.Subject = " Project inquiry "

	msg, err := svc.Submit(context.Background(), sub)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", msg.Name)
	assert.Equal(t, "Project inquiry", msg.Subject)
}

func TestContact_ValidationRejectsWithoutStoring(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ContactSubmission)
		field  string
	}{
		{"missing name", func(s *ContactSubmission) { s.Name = "" }, "name"},
		{"missing email", func(s *ContactSubmission) { s.Email = "" }, "email"},
		{"invalid email", func(s *ContactSubmission) { s.Email = "not-an-address" }, "email"},
		{"missing subject", func(s *ContactSubmission) { s.Subject = "   " }, "subject"},
		{"missing message", func(s *ContactSubmission) { s.Message = "" }, "message"},
		{"unknown priority", func(s *ContactSubmission) { s.Priority = "asap" }, "priority"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := memory.New()
			notifier := &stubNotifier{}
			svc := NewContactService(store, notifier, "My Portfolio", zap.NewNop())

			sub := validSubmission()
			tc.mutate(sub)

			msg, err := svc.Submit(context.Background(), sub)
			require.Error(t, err)
			assert.Nil(t, msg)

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Contains(t, verrs, tc.field)

			count, err := store.CountMessages(context.Background())
			require.NoError(t, err)
			assert.EqualValues(t, 0, count, "rejected submission must not be stored")
			assert.Equal(t, 0, notifier.calls)
		})
	}
}

func TestContact_ExplicitPriorityKept(t *testing.T) {
	store := memory.New()
	svc := NewContactService(store, &stubNotifier{}, "My Portfolio", zap.NewNop())

	sub := validSubmission()
	sub.Priority = domain.PriorityUrgent

	msg, err := svc.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityUrgent, msg.Priority)
}

func TestContact_NotificationFailureDoesNotFailSubmission(t *testing.T) {
	store := memory.New()
	notifier := &stubNotifier{result: mailer.SendResult{AdminErr: errors.New("smtp down")}}
	svc := NewContactService(store, notifier, "My Portfolio", zap.NewNop())

	msg, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	require.NotNil(t, msg)

	count, err := store.CountMessages(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
