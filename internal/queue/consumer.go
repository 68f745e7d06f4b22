package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Mailer is the delivery side of the consumer; service.SMTPMailer and
// service.LogMailer both satisfy it. Declared here so the queue package
// does not depend on the service layer.
type Mailer interface {
	SendResetEmail(ctx context.Context, to, token string) error
}

// StartResetEmailConsumer connects to RabbitMQ, declares the durable
// auth.password_reset queue and delivers each event through the mailer. It
// runs a reconnect loop with capped backoff and keeps going across broker
// restarts; a message whose delivery fails is nacked back onto the queue.
func StartResetEmailConsumer(m Mailer, log zerolog.Logger) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("reset-email consumer: broker dial failed")
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, m, log); err != nil {
			log.Warn().Err(err).Msg("reset-email consumer: consume loop ended, reconnecting")
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, m Mailer, log zerolog.Logger) error {
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		log.Warn().Err(err).Msg("reset-email consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(resetEmailQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(resetEmailQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		var event PasswordResetEmailEvent
		if err := json.Unmarshal(d.Body, &event); err != nil {
			log.Error().Err(err).Msg("reset-email consumer: malformed event dropped")
			_ = d.Nack(false, false) // unparseable, requeueing won't help
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := m.SendResetEmail(ctx, event.Email, event.Token)
		cancel()
		if err != nil {
			log.Error().Err(err).Str("event_id", event.ID).Msg("reset-email consumer: delivery failed, requeueing")
			_ = d.Nack(false, true)
			continue
		}
		log.Info().Str("event_id", event.ID).Msg("reset email delivered")
		_ = d.Ack(false)
	}
	return fmt.Errorf("delivery channel closed")
}
