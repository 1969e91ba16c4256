package notify

import (
	"context"
	"log"
)

// Message is a single HTML document addressed to the configured recipient.
type Message struct {
	Subject string
	HTML    string
	// RefID identifies the run that produced the message.
	RefID string
}

// Notifier delivers a message. Implementations do not retry.
type Notifier interface {
	Publish(ctx context.Context, msg Message) error
}

// LogNotifier only logs what would have been sent. Used when no email
// provider is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Publish(ctx context.Context, msg Message) error {
	log.Printf("📧 [Dev Mode] Would send %q (%d bytes, ref %s)", msg.Subject, len(msg.HTML), msg.RefID)
	return nil
}
