package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"mime"
	"net/smtp"
	"strings"

	"hoa-server/confs"
	"hoa-server/entities"

	"github.com/yuin/goldmark"
)

// SMTPMailer sends notification emails as HTML rendered from markdown.
type SMTPMailer struct {
	cfg confs.MailConfig
}

func NewSMTPMailer(cfg confs.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(_ context.Context, n entities.Notification) error {
	if n.To == "" {
		return nil
	}
	msg, err := buildMessage(m.cfg.From, n)
	if err != nil {
		return err
	}
	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	}
	addr := fmt.Sprintf("%s:%s", m.cfg.SMTPHost, m.cfg.SMTPPort)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{n.To}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", n.To, err)
	}
	return nil
}

func buildMessage(from string, n entities.Notification) ([]byte, error) {
	var html bytes.Buffer
	if err := goldmark.Convert([]byte(n.Body), &html); err != nil {
		return nil, fmt.Errorf("render mail body: %w", err)
	}
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", headerValue(from))
	fmt.Fprintf(&msg, "To: %s\r\n", headerValue(n.To))
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", headerValue(n.Subject)))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.Write(html.Bytes())
	return []byte(msg.String()), nil
}

// headerValue folds line breaks into spaces so user supplied text cannot
// start a new header.
func headerValue(v string) string {
	return strings.Join(strings.FieldsFunc(v, func(r rune) bool { return r == '\r' || r == '\n' }), " ")
}

// LogMailer stands in for SMTP when it is not configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, n entities.Notification) error {
	log.Printf("[mail] To: %s; Subject: %s; Body: %s", n.To, n.Subject, n.Body)
	return nil
}

// NewMailer picks SMTP delivery when a host is configured.
func NewMailer(cfg confs.MailConfig) Sender {
	if cfg.SMTPEnabled() {
		return NewSMTPMailer(cfg)
	}
	log.Println("SMTP not configured, emails will be logged")
	return LogMailer{}
}
