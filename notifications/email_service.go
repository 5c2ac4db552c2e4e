package notifications

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	config "github.com/anjiri1684/digital_tests/configs"
	"gopkg.in/gomail.v2"
)

type Email struct {
	To      string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// SMTPMailer delivers mail through an authenticated SMTP server. Port 465 uses implicit TLS.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   username,
	}
}

func (s *SMTPMailer) Send(ctx context.Context, email Email) error {
	if email.To == "" || !strings.Contains(email.To, "@") {
		return fmt.Errorf("invalid recipient email: %q", email.To)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/html", email.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via smtp: %w", err)
	}
	log.Printf("✅ Email sent successfully to %s", email.To)
	return nil
}

// LogMailer only logs outgoing mail. It is used when SMTP is not configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, email Email) error {
	log.Printf("📧 (smtp not configured) email to %s: %s", email.To, email.Subject)
	return nil
}

// RecordingMailer keeps every email it is asked to send.
type RecordingMailer struct {
	mu   sync.Mutex
	Sent []Email
	Err  error
}

func (r *RecordingMailer) Send(_ context.Context, email Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Sent = append(r.Sent, email)
	return nil
}

func (r *RecordingMailer) Last() (Email, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Sent) == 0 {
		return Email{}, false
	}
	return r.Sent[len(r.Sent)-1], true
}

// NewMailer picks SMTP when credentials are present and falls back to logging.
func NewMailer(settings config.Settings) Mailer {
	if !settings.SMTPConfigured() {
		log.Println("⚠️ Email service not configured. Missing SMTP username or password.")
		return LogMailer{}
	}
	log.Printf("✅ Email service initialized (%s:%d)", settings.SMTPHost, settings.SMTPPort)
	return NewSMTPMailer(settings.SMTPHost, settings.SMTPPort, settings.SMTPUsername, settings.SMTPPassword)
}

// Deliver renders a template and sends it. Callers decide whether a failure matters.
func Deliver(ctx context.Context, mailer Mailer, to, subject string, id TemplateID, locale string, vars Vars) error {
	if to == "" {
		return nil
	}
	html, err := Render(id, locale, vars)
	if err != nil {
		return err
	}
	return mailer.Send(ctx, Email{To: to, Subject: subject, HTML: html})
}
