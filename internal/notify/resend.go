package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/resend/resend-go/v2"
)

// ResendNotifier sends messages as email through Resend.
type ResendNotifier struct {
	client *resend.Client
	from   string
	to     []string
}

func NewResendNotifier(apiKey, from string, to ...string) (*ResendNotifier, error) {
	if apiKey == "" {
		return nil, errors.New("resend api key is required")
	}
	var recipients []string
	for _, addr := range to {
		if addr = strings.TrimSpace(addr); addr != "" {
			recipients = append(recipients, addr)
		}
	}
	if strings.TrimSpace(from) == "" || len(recipients) == 0 {
		return nil, errors.New("sender and at least one recipient are required")
	}
	return &ResendNotifier{client: resend.NewClient(apiKey), from: from, to: recipients}, nil
}

func (n *ResendNotifier) Publish(ctx context.Context, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      n.to,
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	if msg.RefID != "" {
		params.Headers = map[string]string{"X-Entity-Ref-ID": msg.RefID}
	}

	sent, err := n.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	log.Printf("📧 Email sent successfully (ID: %s) to %v", sent.Id, n.to)
	return nil
}
