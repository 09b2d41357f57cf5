package spotify

import (
	"strings"

	"github.com/zmb3/spotify/v2"
)

// Track is a catalog track matched to a recommendation.
type Track struct {
	ID     string
	Name   string
	Artist string // Comma-separated artist names
	Album  string
	URL    string // open.spotify.com link
}

// convertTrack converts a Spotify FullTrack to a Track.
func convertTrack(full spotify.FullTrack) Track {
	artists := make([]string, len(full.Artists))
	for i, a := range full.Artists {
		artists[i] = a.Name
	}

	return Track{
		ID:     full.ID.String(),
		Name:   full.Name,
		Artist: strings.Join(artists, ", "),
		Album:  full.Album.Name,
		URL:    full.ExternalURLs["spotify"],
	}
}
