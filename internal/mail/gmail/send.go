package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	"github.com/Philanthropists/newsletter-digest/internal/apperr"
	"github.com/Philanthropists/newsletter-digest/internal/logger"
	"github.com/emersion/go-message/mail"
	"google.golang.org/api/gmail/v1"
)

// Send delivers an HTML email from the authenticated account.
func (c *Client) Send(ctx context.Context, to, subject, htmlBody string) error {
	raw, err := composeMessage(to, subject, htmlBody, time.Now())
	if err != nil {
		return apperr.New(apperr.KindSend, "compose message", err)
	}

	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString(raw)}
	sent, err := c.srv.Users.Messages.Send(user, msg).Context(ctx).Do()
	if err != nil {
		return apperr.New(apperr.KindSend, "send message", err)
	}

	logger.GetLogger().Infow("Sent digest",
		"to", to,
		"msgId", sent.Id,
	)
	return nil
}

// composeMessage builds a multipart/alternative message with one HTML part.
func composeMessage(to, subject, htmlBody string, date time.Time) ([]byte, error) {
	rcpt, err := mail.ParseAddressList(to)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}

	var h mail.Header
	h.Set("MIME-Version", "1.0")
	h.SetDate(date)
	h.SetAddressList("To", rcpt)
	h.SetSubject(subject)

	var buf bytes.Buffer
	w, err := mail.CreateInlineWriter(&buf, h)
	if err != nil {
		return nil, err
	}

	var ph mail.InlineHeader
	ph.SetContentType("text/html", map[string]string{"charset": "utf-8"})
	ph.Set("Content-Transfer-Encoding", "quoted-printable")
	pw, err := w.CreatePart(ph)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(pw, htmlBody); err != nil {
		return nil, err
	}
	if err := pw.Close(); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
