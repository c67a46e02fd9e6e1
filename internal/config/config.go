package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultModel   = "gpt-4o"
	DefaultSubject = "Tech and AI News Digest"
)

type Twilio struct {
	AccountSid string `mapstructure:"twilio_account_sid"`
	AuthToken  string `mapstructure:"twilio_auth_token"`
	FromNumber string `mapstructure:"twilio_from_number"`
	ToNumber   string `mapstructure:"twilio_to_number"`
}

// Enabled reports whether run notifications should be sent.
func (t Twilio) Enabled() bool {
	return t.AccountSid != ""
}

// Config is built once at startup and handed to every component.
type Config struct {
	ClientID     string `mapstructure:"google_client_id"`
	ClientSecret string `mapstructure:"google_client_secret"`
	RefreshToken string `mapstructure:"google_refresh_token"`

	Label     string `mapstructure:"newsletter_gmail_label"`
	Recipient string `mapstructure:"sender_email"`
	Subject   string `mapstructure:"newsletter_digest_subject"`

	OpenAIAPIKey string `mapstructure:"newsletter_digest_openai_api_key"`
	Model        string `mapstructure:"newsletter_digest_model"`

	LogLevel string `mapstructure:"log_level"`

	Twilio Twilio `mapstructure:",squash"`
}

var keys = []string{
	"GOOGLE_CLIENT_ID",
	"GOOGLE_CLIENT_SECRET",
	"GOOGLE_REFRESH_TOKEN",
	"NEWSLETTER_GMAIL_LABEL",
	"SENDER_EMAIL",
	"NEWSLETTER_DIGEST_SUBJECT",
	"NEWSLETTER_DIGEST_OPENAI_API_KEY",
	"NEWSLETTER_DIGEST_MODEL",
	"LOG_LEVEL",
	"TWILIO_ACCOUNT_SID",
	"TWILIO_AUTH_TOKEN",
	"TWILIO_FROM_NUMBER",
	"TWILIO_TO_NUMBER",
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("NEWSLETTER_DIGEST_MODEL", DefaultModel)
	v.SetDefault("NEWSLETTER_DIGEST_SUBJECT", DefaultSubject)
	v.SetDefault("LOG_LEVEL", "info")
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.trim()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) trim() {
	for _, s := range []*string{
		&c.ClientID, &c.ClientSecret, &c.RefreshToken, &c.Label, &c.Recipient,
		&c.OpenAIAPIKey, &c.Model, &c.LogLevel,
	} {
		*s = strings.TrimSpace(*s)
	}
}

// Validate checks that every required setting is present.
func (c *Config) Validate() error {
	var missing []string
	required := []struct {
		key   string
		value string
	}{
		{"GOOGLE_CLIENT_ID", c.ClientID},
		{"GOOGLE_CLIENT_SECRET", c.ClientSecret},
		{"NEWSLETTER_GMAIL_LABEL", c.Label},
		{"SENDER_EMAIL", c.Recipient},
		{"NEWSLETTER_DIGEST_OPENAI_API_KEY", c.OpenAIAPIKey},
	}
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.Twilio.Enabled() {
		if c.Twilio.AuthToken == "" || c.Twilio.FromNumber == "" || c.Twilio.ToNumber == "" {
			return errors.New("TWILIO_ACCOUNT_SID is set but TWILIO_AUTH_TOKEN, TWILIO_FROM_NUMBER or TWILIO_TO_NUMBER is missing")
		}
	}

	return nil
}
