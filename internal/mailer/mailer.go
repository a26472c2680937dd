package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/artistritesh/Job-Alerts/internal/logging"
	"github.com/artistritesh/Job-Alerts/internal/models"
)

const (
	SecuritySSL      = "ssl"
	SecurityStartTLS = "starttls"
)

var ErrNoRecipients = errors.New("no recipients")

type Config struct {
	Server      string
	Port        int
	Security    string
	Username    string
	Password    string
	SenderEmail string
	SenderName  string
}

// PDFRenderer produces an optional PDF copy of the digest.
type PDFRenderer interface {
	Render(ctx context.Context, d models.Digest) ([]byte, error)
}

// sendFunc is swapped out in tests.
type sendFunc func(ctx context.Context, cfg Config, from string, to []string, msg []byte) error

// Mailer delivers digests over SMTP, implicit TLS or STARTTLS.
type Mailer struct {
	cfg    Config
	pdf    PDFRenderer
	send   sendFunc
	logger *slog.Logger
}

type Option func(*Mailer)

func WithPDF(r PDFRenderer) Option {
	return func(m *Mailer) { m.pdf = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Mailer) { m.logger = l }
}

func New(cfg Config, opts ...Option) *Mailer {
	if cfg.Security == "" {
		cfg.Security = SecurityFor(cfg.Port)
	}
	m := &Mailer{cfg: cfg, send: smtpSend, logger: logging.Discard()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Mailer) Name() string {
	return "email"
}

// SecurityFor picks the transport the port conventionally uses.
func SecurityFor(port int) string {
	if port == 587 || port == 25 {
		return SecurityStartTLS
	}
	return SecuritySSL
}

func (m *Mailer) Deliver(ctx context.Context, d models.Digest, recipients []string) error {
	to, err := ParseRecipients(recipients)
	if err != nil {
		return err
	}
	if len(to) == 0 {
		return ErrNoRecipients
	}

	from := &mail.Address{Name: m.cfg.SenderName, Address: m.cfg.SenderEmail}

	var attachments []Attachment
	if m.pdf != nil {
		pdfBytes, perr := m.pdf.Render(ctx, d)
		if perr != nil {
			m.logger.Warn("pdf render failed, sending without attachment", "error", perr)
		} else {
			attachments = append(attachments, Attachment{
				Filename:    fmt.Sprintf("job-alerts-%s.pdf", d.GeneratedAt.Format("2006-01-02")),
				ContentType: "application/pdf",
				Data:        pdfBytes,
			})
		}
	}

	msg, err := BuildMessage(from, to, d, attachments...)
	if err != nil {
		return fmt.Errorf("build message: %w", err)
	}

	rcpt := make([]string, len(to))
	for i, a := range to {
		rcpt[i] = a.Address
	}
	if err := m.send(ctx, m.cfg, m.cfg.SenderEmail, rcpt, msg); err != nil {
		return fmt.Errorf("smtp send via %s: %w", m.cfg.Server, err)
	}
	m.logger.Info("email sent", "subject", d.Subject, "recipients", len(rcpt), "jobs", len(d.Jobs))
	return nil
}

func smtpSend(ctx context.Context, cfg Config, from string, to []string, msg []byte) error {
	addr := net.JoinHostPort(cfg.Server, strconv.Itoa(cfg.Port))
	tlsConfig := &tls.Config{ServerName: cfg.Server}

	var (
		c   *smtp.Client
		err error
	)
	switch strings.ToLower(cfg.Security) {
	case SecurityStartTLS:
		c, err = smtp.DialStartTLS(addr, tlsConfig)
	default:
		c, err = smtp.DialTLS(addr, tlsConfig)
	}
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer c.Close()

	// the smtp client has no context support; stop early if already canceled
	if err := ctx.Err(); err != nil {
		return err
	}

	if cfg.Username != "" {
		if err := c.Auth(sasl.NewPlainClient("", cfg.Username, cfg.Password)); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}
	if err := c.SendMail(from, to, bytes.NewReader(msg)); err != nil {
		return err
	}
	return c.Quit()
}
