package mailer

import (
	"context"
	"fmt"

	"portfolio-backend/internal/config"
	"portfolio-backend/internal/domain"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// SendResult reports the outcome of the two best-effort notification
// sends. Callers may ignore it; failures are never fatal to the contact
// submission itself.
type SendResult struct {
	AdminErr   error // notification to the site operator
	ConfirmErr error // confirmation to the submitter
}

// Failed reports whether any send failed.
func (r SendResult) Failed() bool {
	return r.AdminErr != nil || r.ConfirmErr != nil
}

// Notifier sends contact-form notification emails.
type Notifier interface {
	NotifyNewMessage(ctx context.Context, msg *domain.ContactMessage, siteName string) SendResult
}

// Mailer is the SMTP-backed Notifier. With an empty host it is disabled
// and every send is a silent no-op.
type Mailer struct {
	cfg *config.SMTP
	log *zap.Logger
}

// New creates a mailer from SMTP configuration.
func New(cfg *config.SMTP, log *zap.Logger) *Mailer {
	if cfg.Host == "" {
		log.Info("SMTP host not configured, contact notifications disabled")
	}
	return &Mailer{
		cfg: cfg,
		log: log,
	}
}

// NotifyNewMessage sends the operator notification and the submitter
// confirmation for a freshly stored contact message.
func (m *Mailer) NotifyNewMessage(ctx context.Context, msg *domain.ContactMessage, siteName string) SendResult {
	if m.cfg.Host == "" {
		return SendResult{}
	}

	var result SendResult

	adminBody := fmt.Sprintf(
		"New message received on your portfolio:\n\n"+
			"Name: %s\nEmail: %s\nPhone: %s\nCompany: %s\n"+
			"Subject: %s\nPriority: %s\nBudget: %s\n\n"+
			"Message:\n%s\n\n---\nSent at: %s\nIP: %s\n",
		msg.Name, msg.Email, orDash(msg.Phone), orDash(msg.Company),
		msg.Subject, msg.Priority, orDash(msg.Budget),
		msg.Message,
		msg.CreatedAt.Format("02/01/2006 15:04"), orDash(msg.ClientIP),
	)
	result.AdminErr = m.send(ctx, m.cfg.AdminEmail, "New message - "+msg.Subject, adminBody)

	confirmBody := fmt.Sprintf(
		"Hello %s,\n\n"+
			"We received your message about %q.\n\n"+
			"Your message:\n%s\n\n"+
			"We will get back to you as soon as possible.\n\n"+
			"Regards,\n%s\n",
		msg.Name, msg.Subject, msg.Message, siteName,
	)
	result.ConfirmErr = m.send(ctx, msg.Email, "We received your message - "+msg.Subject, confirmBody)

	return result
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	message := mail.NewMsg()
	if err := message.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := message.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	message.Subject(subject)
	message.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}

	m.log.Debug("sent notification email", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
