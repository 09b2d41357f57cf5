package spotify

import (
	"errors"
)

// ErrMissingCredentials is returned when no client ID or secret is configured.
var ErrMissingCredentials = errors.New("missing spotify client credentials")

// Config holds Spotify API credentials. Lookups are disabled when empty.
type Config struct {
	ClientID     string
	ClientSecret string
}

// Enabled reports whether both credentials are set.
func (c *Config) Enabled() bool {
	return c != nil && c.ClientID != "" && c.ClientSecret != ""
}
