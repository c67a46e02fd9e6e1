package pipeline

import (
	"context"
	"fmt"

	"github.com/Philanthropists/newsletter-digest/internal/config"
	"github.com/Philanthropists/newsletter-digest/internal/logger"
	"github.com/Philanthropists/newsletter-digest/internal/twilio"
)

// SMSNotifier texts a short run summary through Twilio.
type SMSNotifier struct {
	Client twilio.Client
	From   string
	To     string
}

func NewSMSNotifier(cfg config.Twilio) (*SMSNotifier, error) {
	client, err := twilio.NewClient(cfg.AccountSid, cfg.AuthToken)
	if err != nil {
		return nil, fmt.Errorf("could not instantiate twilio client: %w", err)
	}

	return &SMSNotifier{
		Client: client,
		From:   cfg.FromNumber,
		To:     cfg.ToNumber,
	}, nil
}

func (n *SMSNotifier) Notify(_ context.Context, report Report) error {
	msg := fmt.Sprintf("Newsletter digest sent to %s: %d newsletters, %d bytes",
		report.Recipient, report.Messages, report.DigestBytes)

	sid, err := n.Client.SendSms(n.From, n.To, msg)
	if err != nil {
		return fmt.Errorf("an error ocurred when sending notification sms: %w", err)
	}

	logger.GetLogger().Debugw("Sent notification sms",
		"sid", sid,
	)
	return nil
}
