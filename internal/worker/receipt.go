// Package worker holds the background consumers that run in cmd/worker.
package worker

import (
	"context"
	"fmt"
	"kumbam/config"
	"kumbam/infras/kafka"
	"kumbam/infras/mail"
	"kumbam/infras/otel"
	"kumbam/infras/s3"
	"kumbam/internal/domains/payment/model"
	"kumbam/shared/constant"
	"kumbam/shared/timezone"
	"strings"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

const (
	receiptSubject     = "Payment Receipt - Kumbam"
	receiptContentType = "text/plain; charset=utf-8"
)

// Receipt archives and mails a receipt for every completed payment event.
type Receipt struct {
	kafka  kafka.Client
	mailer mail.Mailer
	store  s3.S3
	cfg    *config.Config
	otel   otel.Otel
}

func NewReceipt(kafka kafka.Client, mailer mail.Mailer, store s3.S3, cfg *config.Config, otel otel.Otel) *Receipt {
	return &Receipt{
		kafka:  kafka,
		mailer: mailer,
		store:  store,
		cfg:    cfg,
		otel:   otel,
	}
}

// ReceiptKey is the object key a receipt is archived under.
func ReceiptKey(event model.Event) string {
	return fmt.Sprintf("receipts/%s/%s.txt", event.BookingID, event.TransactionID)
}

// Run blocks until ctx is cancelled.
func (r *Receipt) Run(ctx context.Context) error {
	log.Info().Str("topic", r.cfg.Kafka.PaymentTopic).Msg("Receipt worker started")

	return r.kafka.Consume(ctx, r.cfg.Kafka.ConsumerGroup, r.cfg.Kafka.PaymentTopic, r.Handle) //nolint:wrapcheck
}

// Handle processes one payment event. Failed payments and unknown event types
// are acknowledged without mail.
func (r *Receipt) Handle(ctx context.Context, message kafkaGo.Message) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".PaymentReceipt")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	event, err := kafka.Decode[model.Event](message)
	if err != nil {
		log.Error().Err(err).Str("key", string(message.Key)).Msg("skipping undecodable payment event")

		return nil
	}

	scope.SetAttributes(map[string]any{
		"payment.transaction_id": event.TransactionID,
		"payment.event":          event.Type,
	})

	if event.Type != model.EventCompleted {
		log.Info().Str("transaction_id", event.TransactionID).Str("event", event.Type).Msg("no receipt for event")

		return nil
	}

	body := ReceiptBody(event)

	// archiving is best-effort
	url, err := r.store.Put(ctx, ReceiptKey(event), receiptContentType, []byte(body))
	if err != nil {
		log.Warn().Err(err).Str("transaction_id", event.TransactionID).Msg("failed to archive receipt")
	} else if url != constant.Empty {
		body += fmt.Sprintf("\nA copy of this receipt is kept at %s\n", url)
	}

	if event.Email == constant.Empty {
		log.Warn().Str("transaction_id", event.TransactionID).Msg("completed payment has no email, receipt not mailed")

		return nil
	}

	if err = r.mailer.Send(ctx, mail.Message{
		To:      event.Email,
		Subject: receiptSubject,
		Body:    body,
	}); err != nil {
		return fmt.Errorf("failed to send receipt: %w", err)
	}

	log.Info().Str("transaction_id", event.TransactionID).Msg("payment receipt sent")

	return nil
}

func ReceiptBody(event model.Event) string {
	var body strings.Builder

	body.WriteString("Thank you for your payment.\n\n")
	fmt.Fprintf(&body, "Transaction ID: %s\n", event.TransactionID)
	fmt.Fprintf(&body, "Booking ID: %s\n", event.BookingID)
	fmt.Fprintf(&body, "Amount: Rs. %d\n", event.Amount)
	fmt.Fprintf(&body, "Paid on: %s\n", event.OccurredAt.In(timezone.GetLocation()).Format(constant.DateFormat))

	return body.String()
}
