package managers

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/matcornic/hermes/v2"
	log "github.com/sirupsen/logrus"

	"work-planner/internal/config"
	"work-planner/internal/utils"
)

// MailMgr is an interface that outlines the contract for email management.
// It includes methods for sending verification and due-date reminder emails.
// Errors are returned, never panicked; retry policy belongs to the caller.
type MailMgr interface {
	SendVerificationMail(email, token string) error
	SendReminderMail(email, title string, dueDate time.Time) error
}

// mailTransport performs a single delivery attempt of a rendered message.
type mailTransport interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// MailManager is a concrete implementation of the MailMgr interface.
type MailManager struct {
	Hermes      *hermes.Hermes
	transport   mailTransport
	from        string
	appURL      string
	environment string
}

// smtpTransport delivers through the configured SMTP relay. A fresh
// connection is made per send; nothing is held globally.
type smtpTransport struct {
	host string
	port int
	user string
	pass string
	from string
}

func (t *smtpTransport) Send(_ context.Context, to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", t.host, t.port)
	auth := smtp.PlainAuth("", t.user, t.pass, t.host)
	msg := []byte("From: " + t.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" + htmlBody + "\r\n")
	return smtp.SendMail(addr, auth, t.from, []string{to}, msg)
}

// mailgunTransport delivers through the Mailgun API when credentials are configured.
type mailgunTransport struct {
	client *mailgun.MailgunImpl
	from   string
}

func (t *mailgunTransport) Send(ctx context.Context, to, subject, htmlBody string) error {
	ctx, cancel := context.WithDeadline(ctx, time.Now().Add(10*time.Second))
	defer cancel()

	message := t.client.NewMessage(t.from, subject, "", to)
	message.SetHtml(htmlBody)
	_, _, err := t.client.Send(ctx, message)
	return err
}

// SendVerificationMail sends a mail with a deep link that verifies the
// recipient's email address. The link expires after 24 hours.
func (mm *MailManager) SendVerificationMail(email, token string) error {
	if mm.environment != "production" {
		log.Info("Skipping verification mail in development mode")
		return nil
	}

	verificationURL := mm.appURL + "/verify-email?token=" + token
	mailBody := hermes.Email{
		Body: hermes.Body{
			Intros: []string{
				"Thank you for registering with Work Planner!",
				"Please confirm your email address to activate your account.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "Click the button below to verify your email address:",
					Button: hermes.Button{
						Color: "#3b82f6",
						Text:  "Verify Email",
						Link:  verificationURL,
					},
				},
			},
			Outros: []string{
				"This link will expire in 24 hours.",
			},
		},
	}

	emailBody, err := mm.Hermes.GenerateHTML(mailBody)
	if err != nil {
		return err
	}

	if err := mm.transport.Send(context.Background(), email, "Verify Your Email - Work Planner", emailBody); err != nil {
		log.Warning("Error sending verification mail: " + err.Error())
		return err
	}
	log.Debug("Verification mail sent to ", email)

	return nil
}

// SendReminderMail sends an urgent reminder that the given task is due soon,
// with a deep link back to the dashboard.
func (mm *MailManager) SendReminderMail(email, title string, dueDate time.Time) error {
	if mm.environment != "production" {
		log.Info("Skipping reminder mail in development mode")
		return nil
	}

	mailBody := hermes.Email{
		Body: hermes.Body{
			Intros: []string{
				fmt.Sprintf("Your task %q is due soon!", title),
				"Due: " + utils.FormatLongDate(dueDate),
			},
			Actions: []hermes.Action{
				{
					Instructions: "Don't forget to complete this task before it's overdue:",
					Button: hermes.Button{
						Color: "#ef4444",
						Text:  "Complete Task Now",
						Link:  mm.appURL + "/dashboard",
					},
				},
			},
		},
	}

	emailBody, err := mm.Hermes.GenerateHTML(mailBody)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Urgent: Task %q is Due Soon!", title)
	if err := mm.transport.Send(context.Background(), email, subject, emailBody); err != nil {
		log.Warning("Error sending reminder mail: " + err.Error())
		return err
	}
	log.Debug("Reminder mail sent to ", email)

	return nil
}

// NewMailManager initializes a MailManager with the configured transport and
// Hermes settings. Outside production the manager renders but skips delivery.
func NewMailManager(cfg *config.Config) MailMgr {
	log.Info("Initializing mail manager")

	if cfg.Environment != "production" {
		log.Println("Running in development mode, email will not be sent to users")
	}

	from := "Work Planner <" + cfg.EmailUser + ">"

	var transport mailTransport
	if cfg.MailgunAPIKey != "" && cfg.MailgunDomain != "" {
		log.Info("Using Mailgun mail transport")
		transport = &mailgunTransport{
			client: mailgun.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey),
			from:   from,
		}
	} else {
		log.Info("Using SMTP mail transport")
		transport = &smtpTransport{
			host: cfg.EmailHost,
			port: cfg.EmailPort,
			user: cfg.EmailUser,
			pass: cfg.EmailPass,
			from: from,
		}
	}

	mm := &MailManager{
		Hermes: &hermes.Hermes{
			Theme:         new(hermes.Default),
			TextDirection: hermes.TDLeftToRight,
			Product: hermes.Product{
				Name:        "Work Planner",
				Link:        cfg.AppURL,
				Copyright:   "© Work Planner",
				TroubleText: "If you’re having trouble with the button '{ACTION}', copy and paste the URL below into your web browser.",
			},
		},
		transport:   transport,
		from:        from,
		appURL:      cfg.AppURL,
		environment: cfg.Environment,
	}
	log.Info("Initialized mail manager")
	return mm
}
