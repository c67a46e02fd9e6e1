package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/Philanthropists/newsletter-digest/internal/auth"
	"github.com/Philanthropists/newsletter-digest/internal/config"
	"github.com/Philanthropists/newsletter-digest/internal/logger"
	"github.com/Philanthropists/newsletter-digest/internal/mail/gmail"
	"github.com/Philanthropists/newsletter-digest/internal/summarize"
)

// Run authenticates against Gmail, wires the production components and
// executes one digest run.
func Run(ctx context.Context, cfg *config.Config, granter auth.InteractiveGranter, out io.Writer) (State, error) {
	log := logger.GetLogger()
	defer log.Sync()

	provider := auth.NewProvider(
		auth.NewOAuthConfig(cfg.ClientID, cfg.ClientSecret),
		cfg.RefreshToken,
		granter,
		out,
	)
	cred, err := provider.Obtain(ctx)
	if err != nil {
		log.Errorw("Could not authenticate",
			"error", err,
		)
		return Start, fmt.Errorf("digest run stopped after %s: %w", Start, err)
	}

	mailClient, err := gmail.NewClient(ctx, cred.HTTPClient(ctx))
	if err != nil {
		return Authenticated, fmt.Errorf("digest run stopped after %s: %w", Authenticated, err)
	}

	p := &Pipeline{
		Reader:     mailClient,
		Summarizer: summarize.New(cfg.OpenAIAPIKey, summarize.WithModel(cfg.Model)),
		Sender:     mailClient,
		Label:      cfg.Label,
		Recipient:  cfg.Recipient,
		Subject:    cfg.Subject,
	}

	if cfg.Twilio.Enabled() {
		notifier, err := NewSMSNotifier(cfg.Twilio)
		if err != nil {
			log.Errorw("Notifications disabled",
				"error", err,
			)
		} else {
			p.Notifier = notifier
		}
	}

	return p.Execute(ctx)
}

// PrintVersion logs the build commit, when one was stamped in.
func PrintVersion(commit string) {
	if commit == "" {
		commit = "unknown"
	}
	logger.GetLogger().Infow("newsletter-digest",
		"commit", commit,
	)
}
