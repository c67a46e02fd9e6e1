package auth

import (
	"net/http"
	"time"

	"github.com/Philanthropists/newsletter-digest/internal/logger"
)

// loggingTransport records method, URL, status and latency of every Google
// API call at debug level. Bodies are never logged: they carry mail content
// and tokens.
type loggingTransport struct {
	base http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	log := logger.GetLogger()
	start := time.Now()

	rt := t.base
	if rt == nil {
		rt = http.DefaultTransport
	}

	resp, err := rt.RoundTrip(req)
	if err != nil {
		log.Debugw("google api request failed",
			"method", req.Method,
			"url", req.URL.Redacted(),
			"elapsed", time.Since(start),
			"error", err,
		)
		return resp, err
	}

	log.Debugw("google api request",
		"method", req.Method,
		"url", req.URL.Redacted(),
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)
	return resp, nil
}
