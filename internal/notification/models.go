// Package notification turns resolved recipient sets into outbound messages
// on the broker's notification topics. Messages are ephemeral: constructed,
// published, and discarded. Delivery is best-effort: a failed publish is
// reported but never rolls back state committed before dispatch.
package notification

import (
	"context"

	id "campusevents/pkg/domain"
)

// Broker topics. Topic names and payload shapes are the compatibility
// surface shared with the delivery workers; changing either breaks them.
const (
	// TopicNotify carries per-user in-app notifications.
	TopicNotify = "notify"

	// TopicSMS carries per-phone text messages.
	TopicSMS = "sms"

	// TopicMassMail carries batched invitation mail (up to the configured
	// batch size of addresses per message).
	TopicMassMail = "mass_mail"

	// TopicAlert carries single-recipient mail (booking updates, task
	// assignments, feedback confirmations).
	TopicAlert = "alert"

	// TopicLog carries activity records persisted by the logging consumer.
	TopicLog = "log"
)

// NotifyPayload is the notify topic schema.
type NotifyPayload struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// SMSPayload is the sms topic schema.
type SMSPayload struct {
	Phone string `json:"phone"`
	Text  string `json:"text"`
}

// MassMailPayload is the mass_mail topic schema. Email holds one chunk of
// recipient addresses.
type MassMailPayload struct {
	Email   []string `json:"email"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// AlertPayload is the alert topic schema.
type AlertPayload struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// LogPayload is the log topic schema.
type LogPayload struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

// Publisher is the broker capability the dispatcher publishes through.
// cmd/server injects the Kafka producer; tests inject fakes.
type Publisher interface {
	Publish(ctx context.Context, topic string, value []byte) error
}

// Recipient is the dispatch-facing contact view of an invited user. Email
// and Phone may be empty; the corresponding channel is then skipped for
// that recipient.
type Recipient struct {
	UserID id.UserID
	Name   string
	Email  string
	Phone  string
}
