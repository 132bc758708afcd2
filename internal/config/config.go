package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/caarlos0/env/v11"
	apperrors "github.com/jrsteele09/go-decap-oauth/internal/errors"
	"github.com/rs/zerolog"
)

// AuthStyle selects how client credentials are sent to the token endpoint.
type AuthStyle string

const (
	AuthStyleHeader AuthStyle = "header"
	AuthStyleParams AuthStyle = "params"
)

const devEnv = "DEV"

var providerNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Config is read once at start-up and never mutated.
type Config struct {
	ClientID string
	Secret   string
	Origins  AllowedOrigins

	Provider      string
	Hostname      string
	AuthorizePath string
	TokenPath     string
	Scopes        []string
	RedirectURL   string
	AuthStyle     AuthStyle
	TokenTimeout  time.Duration

	StateSecret  string
	StateTTL     time.Duration
	RequireState bool

	Port     int
	AppName  string
	Env      string
	LogLevel zerolog.Level
}

// oauthEnv holds raw env values.
type oauthEnv struct {
	ClientID      string        `env:"OAUTH_CLIENT_ID,required,notEmpty"`
	Secret        string        `env:"OAUTH_SECRET,required,notEmpty"`
	Origins       []string      `env:"OAUTH_ORIGINS,required,notEmpty" envSeparator:","`
	Provider      string        `env:"OAUTH_PROVIDER"                  envDefault:"github"`
	Hostname      string        `env:"OAUTH_HOSTNAME"`
	TokenPath     string        `env:"OAUTH_TOKEN_PATH"`
	AuthorizePath string        `env:"OAUTH_AUTHORIZE_PATH"`
	Scopes        string        `env:"OAUTH_SCOPES"`
	RedirectURL   string        `env:"OAUTH_REDIRECT_URL"`
	AuthStyle     string        `env:"OAUTH_AUTH_STYLE"                envDefault:"header"`
	TokenTimeout  time.Duration `env:"OAUTH_TOKEN_TIMEOUT"             envDefault:"10s"`
	StateSecret   string        `env:"OAUTH_STATE_SECRET"`
	StateTTL      time.Duration `env:"OAUTH_STATE_TTL"                 envDefault:"10m"`
	RequireState  bool          `env:"OAUTH_REQUIRE_STATE"             envDefault:"false"`
	Port          int           `env:"PORT"                            envDefault:"3005"`
	AppName       string        `env:"APP_NAME"                        envDefault:"Decap OAuth"`
	Env           string        `env:"ENV"                             envDefault:"DEV"`
	LogLevel      string        `env:"LOG_LEVEL"                       envDefault:"info"`
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	var raw oauthEnv
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidConfig, err)
	}
	return raw.build()
}

// LoadFrom reads the configuration from environ instead of the process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	var raw oauthEnv
	if err := env.ParseWithOptions(&raw, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidConfig, err)
	}
	return raw.build()
}

func (raw oauthEnv) build() (*Config, error) {
	c := &Config{
		ClientID:     strings.TrimSpace(raw.ClientID),
		Secret:       raw.Secret,
		Origins:      NewAllowedOrigins(raw.Origins...),
		Provider:     strings.ToLower(strings.TrimSpace(raw.Provider)),
		RedirectURL:  strings.TrimSpace(raw.RedirectURL),
		AuthStyle:    AuthStyle(strings.ToLower(strings.TrimSpace(raw.AuthStyle))),
		TokenTimeout: raw.TokenTimeout,
		StateSecret:  raw.StateSecret,
		StateTTL:     raw.StateTTL,
		RequireState: raw.RequireState,
		Port:         raw.Port,
		AppName:      raw.AppName,
		Env:          strings.ToUpper(raw.Env),
	}

	if c.ClientID == "" {
		return nil, invalid("OAUTH_CLIENT_ID is empty")
	}
	if len(c.Origins) == 0 {
		return nil, invalid("OAUTH_ORIGINS has no usable origins")
	}
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if !providerNamePattern.MatchString(c.Provider) {
		return nil, invalid("OAUTH_PROVIDER %q is not a valid provider name", c.Provider)
	}

	if err := c.resolveEndpoints(raw); err != nil {
		return nil, err
	}

	if c.RedirectURL != "" {
		if err := validateAbsoluteURL(c.RedirectURL); err != nil {
			return nil, invalid("OAUTH_REDIRECT_URL: %v", err)
		}
	}
	switch c.AuthStyle {
	case AuthStyleHeader, AuthStyleParams:
	default:
		return nil, invalid("OAUTH_AUTH_STYLE must be %q or %q, got %q", AuthStyleHeader, AuthStyleParams, c.AuthStyle)
	}
	if c.TokenTimeout <= 0 {
		return nil, invalid("OAUTH_TOKEN_TIMEOUT must be positive")
	}
	if c.StateTTL <= 0 {
		return nil, invalid("OAUTH_STATE_TTL must be positive")
	}
	if c.StateSecret == "" {
		c.StateSecret = c.Secret
	}
	if c.Port <= 0 || c.Port > 65535 {
		return nil, invalid("PORT %d is out of range", c.Port)
	}

	level, err := zerolog.ParseLevel(strings.ToLower(raw.LogLevel))
	if err != nil {
		return nil, invalid("LOG_LEVEL: %v", err)
	}
	c.LogLevel = level

	return c, nil
}

func (c *Config) resolveEndpoints(raw oauthEnv) error {
	defaults, known := ProviderEndpoints(c.Provider)

	c.Hostname = strings.TrimRight(strings.TrimSpace(raw.Hostname), "/")
	c.AuthorizePath = strings.TrimSpace(raw.AuthorizePath)
	c.TokenPath = strings.TrimSpace(raw.TokenPath)

	if !known && (c.Hostname == "" || c.AuthorizePath == "" || c.TokenPath == "") {
		return fmt.Errorf("%w: %w: %q has no defaults, set OAUTH_HOSTNAME, OAUTH_AUTHORIZE_PATH and OAUTH_TOKEN_PATH",
			apperrors.ErrInvalidConfig, apperrors.ErrUnknownProvider, c.Provider)
	}

	if c.Hostname == "" {
		c.Hostname = defaults.Hostname
	}
	if c.AuthorizePath == "" {
		c.AuthorizePath = defaults.AuthorizePath
	}
	if c.TokenPath == "" {
		c.TokenPath = defaults.TokenPath
	}
	c.AuthorizePath = ensureLeadingSlash(c.AuthorizePath)
	c.TokenPath = ensureLeadingSlash(c.TokenPath)

	c.Scopes = ParseScopes(raw.Scopes)
	if len(c.Scopes) == 0 {
		c.Scopes = ParseScopes(defaults.Scopes)
	}

	if err := validateAbsoluteURL(c.Hostname); err != nil {
		return invalid("OAUTH_HOSTNAME: %v", err)
	}
	return nil
}

// AuthURL is the provider's authorize endpoint.
func (c *Config) AuthURL() string {
	return c.Hostname + c.AuthorizePath
}

// TokenURL is the provider's token endpoint.
func (c *Config) TokenURL() string {
	return c.Hostname + c.TokenPath
}

func (c *Config) IsDev() bool {
	return c.Env == devEnv
}

// ParseScopes splits a scope list on commas and whitespace.
func ParseScopes(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

func validateAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}

func ensureLeadingSlash(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{apperrors.ErrInvalidConfig}, args...)...)
}
