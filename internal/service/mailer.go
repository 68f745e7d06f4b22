package service

import (
	"context"

	mail "github.com/go-mail/mail"
	"github.com/rs/zerolog"

	"github.com/iliyamo/site-builder-auth/internal/config"
	"github.com/iliyamo/site-builder-auth/internal/queue"
)

// Mailer delivers password-reset tokens out of band. The token handed to it
// is the raw opaque string, the only copy that ever leaves the process;
// the stores keep hashes.
type Mailer interface {
	SendResetEmail(ctx context.Context, to, token string) error
}

// LogMailer is the development fallback: it records that a mail would have
// been sent. The token itself is kept out of the logs.
type LogMailer struct{ Log zerolog.Logger }

func (m *LogMailer) SendResetEmail(_ context.Context, to, _ string) error {
	m.Log.Info().Str("to", to).Msg("password reset email (log mailer, not sent)")
	return nil
}

// SMTPMailer sends the reset email synchronously over SMTP.
type SMTPMailer struct{ cfg config.SMTPConfig }

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer { return &SMTPMailer{cfg: cfg} }

func (m *SMTPMailer) SendResetEmail(_ context.Context, to, token string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Reset your password")
	msg.SetBody("text/plain",
		"Use this token to reset your password: "+token+"\n\n"+
			"It expires in one hour. If you did not request a reset you can ignore this email.")
	d := mail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Pass)
	return d.DialAndSend(msg)
}

// QueueMailer hands delivery off to the message broker so the auth request
// never waits on an SMTP round trip. A consumer drains the queue and sends
// through an SMTPMailer.
type QueueMailer struct{}

func NewQueueMailer() *QueueMailer { return &QueueMailer{} }

func (m *QueueMailer) SendResetEmail(ctx context.Context, to, token string) error {
	return queue.PublishResetEmail(ctx, queue.NewPasswordResetEmailEvent(to, token))
}
