package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Philanthropists/newsletter-digest/internal/apperr"
	"github.com/Philanthropists/newsletter-digest/internal/logger"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

// Scopes needed to read newsletters, send the digest and mark messages read.
var Scopes = []string{
	gmail.GmailReadonlyScope,
	gmail.GmailSendScope,
	gmail.GmailModifyScope,
}

const refreshTokenEnv = "GOOGLE_REFRESH_TOKEN"

func NewOAuthConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       Scopes,
	}
}

// Credential is the OAuth client identity together with its token pair.
type Credential struct {
	Config *oauth2.Config
	Token  *oauth2.Token
}

// HTTPClient returns a client that authorizes requests with the credential,
// refreshing the access token when it expires.
func (c *Credential) HTTPClient(ctx context.Context) *http.Client {
	base := &http.Client{Transport: &loggingTransport{base: http.DefaultTransport}}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	return c.Config.Client(ctx, c.Token)
}

// InteractiveGranter drives a human through the provider's consent screen.
type InteractiveGranter interface {
	Grant(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error)
}

type Provider struct {
	config       *oauth2.Config
	refreshToken string
	granter      InteractiveGranter
	out          io.Writer
}

// NewProvider returns a Provider. out receives the refresh token produced by
// an interactive grant so the operator can store it.
func NewProvider(config *oauth2.Config, refreshToken string, granter InteractiveGranter, out io.Writer) *Provider {
	if granter == nil {
		granter = NoInteractiveGranter{}
	}
	if out == nil {
		out = io.Discard
	}
	return &Provider{
		config:       config,
		refreshToken: refreshToken,
		granter:      granter,
		out:          out,
	}
}

// Obtain returns a credential holding a valid access token.
func (p *Provider) Obtain(ctx context.Context) (*Credential, error) {
	log := logger.GetLogger()

	var tok *oauth2.Token
	if p.refreshToken != "" {
		tok = &oauth2.Token{RefreshToken: p.refreshToken}
	} else {
		log.Info("no refresh token configured, starting interactive authorization")
		granted, err := p.granter.Grant(ctx, p.config)
		if err != nil {
			if errors.Is(err, apperr.ErrAuth) {
				return nil, err
			}
			return nil, apperr.New(apperr.KindAuth, "interactive grant", err)
		}
		if granted == nil {
			return nil, apperr.Errorf(apperr.KindAuth, "interactive grant", "no token returned")
		}
		p.announce(granted)
		tok = granted
	}

	if !tok.Valid() {
		if tok.RefreshToken == "" {
			return nil, apperr.Errorf(apperr.KindAuth, "refresh token", "access token is not valid and no refresh token is available")
		}
		refreshed, err := p.config.TokenSource(ctx, tok).Token()
		if err != nil {
			return nil, apperr.New(apperr.KindAuth, "refresh token", err)
		}
		tok = refreshed
		log.Debugw("access token refreshed", "expiry", tok.Expiry)
	}

	return &Credential{Config: p.config, Token: tok}, nil
}

func (p *Provider) announce(tok *oauth2.Token) {
	if tok.RefreshToken == "" {
		logger.GetLogger().Warn("authorization did not return a refresh token, the next run will prompt again")
		return
	}
	fmt.Fprintf(p.out, "Refresh token: %s\n", tok.RefreshToken)
	fmt.Fprintf(p.out, "Please save this refresh token as an environment variable named %s\n", refreshTokenEnv)
}

// NoInteractiveGranter refuses to prompt. Used where no human is around.
type NoInteractiveGranter struct{}

func (NoInteractiveGranter) Grant(context.Context, *oauth2.Config) (*oauth2.Token, error) {
	return nil, apperr.Errorf(apperr.KindAuth, "interactive grant", "%s is not set and interactive authorization is unavailable", refreshTokenEnv)
}
