// Package queue contains the RabbitMQ plumbing for asynchronous email
// delivery: the event type, the publisher and the background consumer.
package queue

import (
	"time"

	"github.com/google/uuid"
)

const resetEmailQueueName = "auth.password_reset"

// PasswordResetEmailEvent asks the consumer to deliver a reset token. The
// event carries the raw token; the queue is internal infrastructure and the
// broker is treated like the SMTP pipe it feeds.
type PasswordResetEmailEvent struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Token       string    `json:"token"`
	RequestedAt time.Time `json:"requested_at"`
}

func NewPasswordResetEmailEvent(email, token string) PasswordResetEmailEvent {
	return PasswordResetEmailEvent{
		ID:          uuid.NewString(),
		Email:       email,
		Token:       token,
		RequestedAt: time.Now().UTC(),
	}
}
