package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Philanthropists/newsletter-digest/internal/apperr"
	"github.com/Philanthropists/newsletter-digest/internal/logger"
	"github.com/Philanthropists/newsletter-digest/internal/mail/types"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const (
	user        = "me"
	msgFormat   = "full"
	unreadLabel = "UNREAD"
)

// Client reads newsletters from and sends digests through the Gmail API as
// the authenticated user.
type Client struct {
	srv *gmail.Service
}

// NewClient builds a Client on top of an already authorized HTTP client.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	srv, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create gmail service: %w", err)
	}
	return &Client{srv: srv}, nil
}

// ListRecent returns the messages carrying label received on or after the
// calendar day of since, in the order Gmail returns them.
func (c *Client) ListRecent(ctx context.Context, label string, since time.Time) ([]types.Reference, error) {
	log := logger.GetLogger()
	query := types.ConcatFilters([]types.Filter{
		types.Label(label),
		types.After(since),
	})

	var refs []types.Reference
	var nextPageToken string
	for {
		call := c.srv.Users.Messages.List(user).Q(query).Context(ctx)
		if nextPageToken != "" {
			call = call.PageToken(nextPageToken)
		}
		msgs, err := call.Do()
		if err != nil {
			return nil, apperr.New(apperr.KindMailAPI, "list messages", err)
		}

		for _, msg := range msgs.Messages {
			refs = append(refs, types.Reference(msg.Id))
		}

		nextPageToken = msgs.NextPageToken
		if nextPageToken == "" {
			break
		}
	}

	log.Infow("Listed newsletter messages",
		"query", query,
		"count", len(refs),
	)

	return refs, nil
}

// FetchBody returns the decoded text of the message's first part, or of the
// top-level body when the message is not multipart.
func (c *Client) FetchBody(ctx context.Context, ref types.Reference) (string, error) {
	msg, err := c.srv.Users.Messages.Get(user, string(ref)).Format(msgFormat).Context(ctx).Do()
	if err != nil {
		return "", apperr.New(apperr.KindMailAPI, "get message "+string(ref), err)
	}

	data, err := primaryBodyData(msg)
	if err != nil {
		return "", apperr.New(apperr.KindContentDecode, "message "+string(ref), err)
	}

	text, err := DecodeBody(data)
	if err != nil {
		return "", apperr.New(apperr.KindContentDecode, "message "+string(ref), err)
	}

	return text, nil
}

// MarkRead removes the UNREAD label one message at a time. It stops at the
// first failure; messages before it stay marked read.
func (c *Client) MarkRead(ctx context.Context, refs []types.Reference) error {
	log := logger.GetLogger()

	for i, ref := range refs {
		req := &gmail.ModifyMessageRequest{RemoveLabelIds: []string{unreadLabel}}
		if _, err := c.srv.Users.Messages.Modify(user, string(ref), req).Context(ctx).Do(); err != nil {
			log.Errorw("Could not mark message read",
				"msgId", ref,
				"alreadyMarked", i,
				"error", err,
			)
			return apperr.New(apperr.KindMailAPI, "mark read "+string(ref), err)
		}
	}

	return nil
}

func primaryBodyData(msg *gmail.Message) (string, error) {
	if msg.Payload == nil {
		return "", errors.New("message has no payload")
	}

	body := msg.Payload.Body
	if len(msg.Payload.Parts) > 0 {
		first := msg.Payload.Parts[0]
		if first == nil {
			return "", errors.New("first part is empty")
		}
		body = first.Body
	}

	if body == nil || body.Data == "" {
		return "", errors.New("no inline body data")
	}
	return body.Data, nil
}

var urlSafeToStd = strings.NewReplacer("-", "+", "_", "/")

// DecodeBody turns Gmail's URL-safe Base64 body data into text. Padding is
// optional. The decoded bytes must be valid UTF-8.
func DecodeBody(data string) (string, error) {
	std := strings.TrimRight(urlSafeToStd.Replace(data), "=")
	decoded, err := base64.RawStdEncoding.DecodeString(std)
	if err != nil {
		return "", fmt.Errorf("decode base64 body: %w", err)
	}
	if !utf8.Valid(decoded) {
		return "", errors.New("body is not valid UTF-8 text")
	}
	return string(decoded), nil
}
