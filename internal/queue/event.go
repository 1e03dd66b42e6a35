// Package queue defines message payloads exchanged over the message broker
// plus the publisher and consumer that move them.
package queue

// EmailQueueName is the durable queue notification emails travel through.
const EmailQueueName = "notification.email"

// EmailRequested is published whenever the application wants a mail sent.
// It carries the full message so the consumer needs no database access.
type EmailRequested struct {
	EventID     string `json:"event_id"`
	To          string `json:"to"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	RequestedAt string `json:"requested_at"`
}
