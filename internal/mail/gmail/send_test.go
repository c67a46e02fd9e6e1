package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Philanthropists/newsletter-digest/internal/apperr"
	"github.com/emersion/go-message/mail"
	"github.com/nalgeon/be"
)

func readHTMLPart(t *testing.T, raw []byte) (*mail.Reader, string) {
	t.Helper()
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("parse message: %v", err)
	}
	p, err := mr.NextPart()
	if err != nil {
		t.Fatalf("first part: %v", err)
	}
	h, ok := p.Header.(*mail.InlineHeader)
	be.True(t, ok)
	ct, params, err := h.ContentType()
	be.Err(t, err, nil)
	be.Equal(t, ct, "text/html")
	be.Equal(t, params["charset"], "utf-8")

	body, err := io.ReadAll(p.Body)
	be.Err(t, err, nil)

	_, err = mr.NextPart()
	be.Err(t, err, io.EOF)
	return mr, string(body)
}

func TestComposeMessage(t *testing.T) {
	html := "<html><body><h1>Café AI</h1><p>Story A</p></body></html>"
	date := time.Date(2024, time.June, 10, 7, 0, 0, 0, time.UTC)

	raw, err := composeMessage("reader@example.com", "Tech and AI News Digest", html, date)
	be.Err(t, err, nil)

	mr, body := readHTMLPart(t, raw)
	be.Equal(t, body, html)

	ct, _, err := mr.Header.ContentType()
	be.Err(t, err, nil)
	be.Equal(t, ct, "multipart/alternative")

	subject, err := mr.Header.Subject()
	be.Err(t, err, nil)
	be.Equal(t, subject, "Tech and AI News Digest")

	to, err := mr.Header.AddressList("To")
	be.Err(t, err, nil)
	be.Equal(t, len(to), 1)
	be.Equal(t, to[0].Address, "reader@example.com")
	be.True(t, mr.Header.Get("From") == "")
}

func TestComposeMessageInvalidRecipient(t *testing.T) {
	_, err := composeMessage("not an address", "s", "<p></p>", time.Now())
	be.Err(t, err, "invalid recipient")
}

func TestSendSubmitsURLSafeRaw(t *testing.T) {
	fake := newFakeGmail()
	c := newTestClient(t, fake)

	err := c.Send(context.Background(), "reader@example.com", "Digest", "<p>Story A</p><p>Story B</p>")
	be.Err(t, err, nil)
	be.Equal(t, len(fake.sent), 1)

	rawB64 := fake.sent[0].Raw
	be.True(t, !strings.ContainsAny(rawB64, "+/"))
	raw, err := base64.URLEncoding.DecodeString(rawB64)
	be.Err(t, err, nil)

	_, body := readHTMLPart(t, raw)
	be.Equal(t, body, "<p>Story A</p><p>Story B</p>")
}

func TestSendFailureIsSendError(t *testing.T) {
	fake := newFakeGmail()
	fake.failing["send"] = true
	c := newTestClient(t, fake)

	err := c.Send(context.Background(), "reader@example.com", "Digest", "<p></p>")
	be.Err(t, err, apperr.ErrSend)
}

func TestSendInvalidRecipientIsSendError(t *testing.T) {
	fake := newFakeGmail()
	c := newTestClient(t, fake)

	err := c.Send(context.Background(), "nobody", "Digest", "<p></p>")
	be.Err(t, err, apperr.ErrSend)
	be.Equal(t, len(fake.sent), 0)
}
