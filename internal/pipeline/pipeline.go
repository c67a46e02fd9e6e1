package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Philanthropists/newsletter-digest/internal/logger"
	"github.com/Philanthropists/newsletter-digest/internal/mail/types"
)

type State int

const (
	Start State = iota
	Authenticated
	Listed
	Aggregated
	Summarized
	Sent
	MarkedRead
	Done
)

func (s State) String() string {
	switch s {
	case Start:
		return "start"
	case Authenticated:
		return "authenticated"
	case Listed:
		return "listed"
	case Aggregated:
		return "aggregated"
	case Summarized:
		return "summarized"
	case Sent:
		return "sent"
	case MarkedRead:
		return "marked read"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

type Reader interface {
	ListRecent(ctx context.Context, label string, since time.Time) ([]types.Reference, error)
	FetchBody(ctx context.Context, ref types.Reference) (string, error)
	MarkRead(ctx context.Context, refs []types.Reference) error
}

type Summarizer interface {
	Summarize(ctx context.Context, content string) (string, error)
}

type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type Notifier interface {
	Notify(ctx context.Context, report Report) error
}

// Report describes a completed run.
type Report struct {
	Messages    int
	DigestBytes int
	Recipient   string
}

// Pipeline runs everything after authentication. Notifier and Now are
// optional.
type Pipeline struct {
	Reader     Reader
	Summarizer Summarizer
	Sender     Sender
	Notifier   Notifier

	Label     string
	Recipient string
	Subject   string

	Now func() time.Time
}

// Execute lists, aggregates, summarizes, sends and marks read, stopping at the
// first failure. It returns the last state reached.
func (p *Pipeline) Execute(ctx context.Context) (State, error) {
	log := logger.GetLogger()
	state := Authenticated

	fail := func(err error) (State, error) {
		log.Errorw("Digest run failed",
			"state", state.String(),
			"error", err,
		)
		return state, fmt.Errorf("digest run stopped after %s: %w", state, err)
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	refs, err := p.Reader.ListRecent(ctx, p.Label, types.Since(now()))
	if err != nil {
		return fail(err)
	}
	state = Listed
	log.Infow("Listed newsletters",
		"label", p.Label,
		"count", len(refs),
	)

	contents := make([]string, 0, len(refs))
	for _, ref := range refs {
		content, err := p.Reader.FetchBody(ctx, ref)
		if err != nil {
			return fail(err)
		}
		contents = append(contents, content)
	}
	aggregated := Aggregate(contents)
	state = Aggregated

	digest, err := p.Summarizer.Summarize(ctx, aggregated)
	if err != nil {
		return fail(err)
	}
	state = Summarized

	if err := p.Sender.Send(ctx, p.Recipient, p.Subject, digest); err != nil {
		return fail(err)
	}
	state = Sent

	if err := p.Reader.MarkRead(ctx, refs); err != nil {
		return fail(err)
	}
	state = MarkedRead

	report := Report{
		Messages:    len(refs),
		DigestBytes: len(digest),
		Recipient:   p.Recipient,
	}
	log.Infow("Digest run finished",
		"messages", report.Messages,
		"digestBytes", report.DigestBytes,
		"recipient", report.Recipient,
	)

	if p.Notifier != nil {
		// the digest is already delivered, a failed notification does not fail the run
		if err := p.Notifier.Notify(ctx, report); err != nil {
			log.Errorw("could not send run notification",
				"error", err,
			)
		}
	}

	return Done, nil
}

// Aggregate joins message contents in list order, separated by a blank line.
func Aggregate(contents []string) string {
	return strings.Join(contents, "\n\n")
}
