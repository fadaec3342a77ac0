package mail

//go:generate go run go.uber.org/mock/mockgen -source=./mail.go -destination=./mocks/mail_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"kumbam/config"
	"time"

	"github.com/rs/zerolog/log"
	goMail "github.com/wneessen/go-mail"
)

const sendTimeout = 15 * time.Second

var ErrNoRecipient = errors.New("mail recipient is required")

type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, message Message) error
}

type smtpMailer struct {
	config *config.Config
}

type logMailer struct{}

// New returns an SMTP mailer. When no SMTP host is configured messages are only
// logged, which keeps local development free of a mail server.
func New(config *config.Config) Mailer {
	if config.SMTP.Host == "" {
		log.Warn().Msg("SMTP host not configured, outgoing mail will be logged only")

		return &logMailer{}
	}

	return &smtpMailer{config: config}
}

func (l *logMailer) Send(_ context.Context, message Message) error {
	if message.To == "" {
		return ErrNoRecipient
	}

	log.Info().Str("to", message.To).Str("subject", message.Subject).Msg("Mail not sent, SMTP disabled")

	return nil
}

func (s *smtpMailer) Send(ctx context.Context, message Message) error {
	msg, err := newMsg(s.config.SMTP.From, message)
	if err != nil {
		return err
	}

	client, err := goMail.NewClient(s.config.SMTP.Host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err = client.DialAndSendWithContext(ctx, msg); err != nil {
		log.Error().Err(err).Str("to", message.To).Str("subject", message.Subject).Msg("Failed to send mail")

		return fmt.Errorf("failed to send mail: %w", err)
	}

	log.Info().Str("to", message.To).Str("subject", message.Subject).Msg("Mail sent")

	return nil
}

func (s *smtpMailer) clientOptions() []goMail.Option {
	smtp := s.config.SMTP

	opts := []goMail.Option{
		goMail.WithTimeout(sendTimeout),
	}

	if smtp.Port != 0 {
		opts = append(opts, goMail.WithPort(smtp.Port))
	}

	if smtp.TLS {
		opts = append(opts, goMail.WithSSL())
	} else {
		opts = append(opts, goMail.WithTLSPortPolicy(goMail.TLSOpportunistic))
	}

	if smtp.Username != "" {
		opts = append(opts,
			goMail.WithSMTPAuth(goMail.SMTPAuthPlain),
			goMail.WithUsername(smtp.Username),
			goMail.WithPassword(smtp.Password),
		)
	}

	return opts
}

func newMsg(from string, message Message) (*goMail.Msg, error) {
	if message.To == "" {
		return nil, ErrNoRecipient
	}

	msg := goMail.NewMsg()

	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}

	if err := msg.To(message.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}

	msg.Subject(message.Subject)
	msg.SetBodyString(goMail.TypeTextPlain, message.Body)

	return msg, nil
}
