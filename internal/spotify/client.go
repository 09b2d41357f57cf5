// Package spotify looks recommended songs up in the Spotify catalog so the
// UI can link each recommendation to a playable track.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

// searchLimit is how many candidates are compared per lookup.
const searchLimit = 5

// ErrNoMatch is returned when a search yields no track by the requested artist.
var ErrNoMatch = errors.New("no matching track")

// Client wraps the Spotify API client with catalog lookups.
type Client struct {
	api *spotify.Client
}

// New creates a new Spotify client wrapper.
// The underlying client should already be authenticated.
func New(api *spotify.Client) *Client {
	return &Client{api: api}
}

// NewFromConfig authenticates with the client-credentials flow, which grants
// catalog access without a user login. Tokens are refreshed automatically.
func NewFromConfig(ctx context.Context, cfg *Config) (*Client, error) {
	if !cfg.Enabled() {
		return nil, ErrMissingCredentials
	}

	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	// Fail at startup rather than on the first turn if the credentials are wrong.
	if _, err := creds.Token(ctx); err != nil {
		return nil, fmt.Errorf("getting spotify token: %w", err)
	}

	return New(spotify.New(creds.Client(context.Background()), spotify.WithRetry(false))), nil
}

// SearchTracks returns up to searchLimit catalog tracks for a title and artist.
func (c *Client) SearchTracks(ctx context.Context, title, artist string) ([]Track, error) {
	query := fmt.Sprintf("track:%s artist:%s", title, artist)

	result, err := c.api.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(searchLimit))
	if err != nil {
		return nil, fmt.Errorf("searching tracks: %w", err)
	}
	if result.Tracks == nil {
		return nil, nil
	}

	tracks := make([]Track, len(result.Tracks.Tracks))
	for i, t := range result.Tracks.Tracks {
		tracks[i] = convertTrack(t)
	}
	return tracks, nil
}

// ResolveTrack returns the Spotify URL of the best match for title by artist.
func (c *Client) ResolveTrack(ctx context.Context, title, artist string) (string, error) {
	tracks, err := c.SearchTracks(ctx, title, artist)
	if err != nil {
		return "", err
	}

	best, ok := bestMatch(tracks, artist)
	if !ok {
		return "", fmt.Errorf("%w: %q by %q", ErrNoMatch, title, artist)
	}
	return best.URL, nil
}

// bestMatch picks the first candidate whose artists include artist, ignoring case.
func bestMatch(tracks []Track, artist string) (Track, bool) {
	want := strings.ToLower(strings.TrimSpace(artist))
	for _, t := range tracks {
		if t.URL == "" {
			continue
		}
		if want == "" || strings.Contains(strings.ToLower(t.Artist), want) {
			return t, true
		}
	}
	return Track{}, false
}
