package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/mailer"
	"portfolio-backend/internal/repository"

	"go.uber.org/zap"
)

// ValidationErrors maps a field name to its validation message. It is
// returned instead of a stored message when the submission is rejected;
// no row is created in that case.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

// ContactSubmission carries the contact-form fields plus the request
// metadata captured alongside them.
type ContactSubmission struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Company  string `json:"company,omitempty"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Priority string `json:"priority,omitempty"`
	Budget   string `json:"budget,omitempty"`

	ClientIP  string `json:"-"`
	UserAgent string `json:"-"`
}

// ContactService validates and stores contact submissions and triggers
// best-effort notification emails.
type ContactService struct {
	storage  repository.Storage
	notifier mailer.Notifier
	siteName string
	log      *zap.Logger
}

// NewContactService creates a contact intake service.
func NewContactService(storage repository.Storage, notifier mailer.Notifier, siteName string, log *zap.Logger) *ContactService {
	return &ContactService{
		storage:  storage,
		notifier: notifier,
		siteName: siteName,
		log:      log,
	}
}

// Submit validates the submission and persists it. On validation failure
// it returns ValidationErrors and creates no row. Notification failures
// are logged and never surfaced to the submitter.
func (s *ContactService) Submit(ctx context.Context, sub *ContactSubmission) (*domain.ContactMessage, error) {
	if errs := s.validate(sub); len(errs) > 0 {
		return nil, errs
	}

	priority := sub.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	msg := &domain.ContactMessage{
		Name:      strings.TrimSpace(sub.Name),
		Email:     strings.TrimSpace(sub.Email),
		Phone:     strings.TrimSpace(sub.Phone),
		Company:   strings.TrimSpace(sub.Company),
		Subject:   strings.TrimSpace(sub.Subject),
		Message:   strings.TrimSpace(sub.Message),
		Priority:  priority,
		Budget:    strings.TrimSpace(sub.Budget),
		ClientIP:  sub.ClientIP,
		UserAgent: sub.UserAgent,
	}

	if err := s.storage.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store contact message: %w", err)
	}

	// Best-effort notifications: the submission already succeeded.
	if result := s.notifier.NotifyNewMessage(ctx, msg, s.siteName); result.Failed() {
		s.log.Warn("contact notification delivery failed",
			zap.Int64("message_id", msg.ID),
			zap.NamedError("admin_err", result.AdminErr),
			zap.NamedError("confirm_err", result.ConfirmErr))
	}

	return msg, nil
}

func (s *ContactService) validate(sub *ContactSubmission) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(sub.Name) == "" {
		errs["name"] = "name is required"
	}

	email := strings.TrimSpace(sub.Email)
	if email == "" {
		errs["email"] = "email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "email is not a valid address"
	}

	if strings.TrimSpace(sub.Subject) == "" {
		errs["subject"] = "subject is required"
	}
	if strings.TrimSpace(sub.Message) == "" {
		errs["message"] = "message is required"
	}
	if sub.Priority != "" && !domain.IsValidPriority(sub.Priority) {
		errs["priority"] = "priority must be one of: low, medium, high, urgent"
	}

	return errs
}
