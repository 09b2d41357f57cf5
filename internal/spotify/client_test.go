package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zmb3/spotify/v2"
)

func TestConvertTrack(t *testing.T) {
	tests := []struct {
		name           string
		full           spotify.FullTrack
		expectedID     string
		expectedArtist string
		expectedURL    string
	}{
		{
			name: "single artist",
			full: spotify.FullTrack{
				SimpleTrack: spotify.SimpleTrack{
					ID:           "track123",
					Name:         "Azzurro",
					Artists:      []spotify.SimpleArtist{{Name: "Adriano Celentano"}},
					ExternalURLs: map[string]string{"spotify": "https://open.spotify.com/track/track123"},
				},
				Album: spotify.SimpleAlbum{Name: "Azzurro / Una carezza in un pugno"},
			},
			expectedID:     "track123",
			expectedArtist: "Adriano Celentano",
			expectedURL:    "https://open.spotify.com/track/track123",
		},
		{
			name: "multiple artists",
			full: spotify.FullTrack{
				SimpleTrack: spotify.SimpleTrack{
					ID:   "track456",
					Name: "Duetto",
					Artists: []spotify.SimpleArtist{
						{Name: "Mina"},
						{Name: "Adriano Celentano"},
					},
				},
			},
			expectedID:     "track456",
			expectedArtist: "Mina, Adriano Celentano",
			expectedURL:    "",
		},
		{
			name: "no artists",
			full: spotify.FullTrack{
				SimpleTrack: spotify.SimpleTrack{
					ID:      "track000",
					Name:    "Unknown Track",
					Artists: []spotify.SimpleArtist{},
				},
			},
			expectedID:     "track000",
			expectedArtist: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertTrack(tt.full)

			if got.ID != tt.expectedID {
				t.Errorf("ID = %q, want %q", got.ID, tt.expectedID)
			}
			if got.Artist != tt.expectedArtist {
				t.Errorf("Artist = %q, want %q", got.Artist, tt.expectedArtist)
			}
			if got.URL != tt.expectedURL {
				t.Errorf("URL = %q, want %q", got.URL, tt.expectedURL)
			}
		})
	}
}

func TestBestMatch(t *testing.T) {
	tracks := []Track{
		{ID: "1", Artist: "Cover Band", URL: "https://open.spotify.com/track/1"},
		{ID: "2", Artist: "Domenico Modugno", URL: ""},
		{ID: "3", Artist: "Domenico Modugno, Orchestra", URL: "https://open.spotify.com/track/3"},
	}

	got, ok := bestMatch(tracks, "domenico modugno")
	if !ok || got.ID != "3" {
		t.Errorf("bestMatch() = %+v, %v; want track 3", got, ok)
	}

	if _, ok := bestMatch(tracks, "Lucio Dalla"); ok {
		t.Error("bestMatch() matched an unrelated artist")
	}

	if _, ok := bestMatch(nil, "Mina"); ok {
		t.Error("bestMatch() matched on empty input")
	}
}

const searchResponse = `{
	"tracks": {
		"href": "",
		"limit": 5,
		"offset": 0,
		"total": 2,
		"items": [
			{
				"id": "cover1",
				"name": "Volare",
				"artists": [{"name": "Gipsy Kings"}],
				"external_urls": {"spotify": "https://open.spotify.com/track/cover1"}
			},
			{
				"id": "orig1",
				"name": "Nel blu dipinto di blu",
				"artists": [{"name": "Domenico Modugno"}],
				"album": {"name": "Nel blu dipinto di blu"},
				"external_urls": {"spotify": "https://open.spotify.com/track/orig1"}
			}
		]
	}
}`

func TestResolveTrack(t *testing.T) {
	tests := []struct {
		name    string
		artist  string
		status  int
		body    string
		wantURL string
		wantErr error
	}{
		{
			name:    "matches requested artist",
			artist:  "Domenico Modugno",
			status:  http.StatusOK,
			body:    searchResponse,
			wantURL: "https://open.spotify.com/track/orig1",
		},
		{
			name:    "no artist match",
			artist:  "Lucio Battisti",
			status:  http.StatusOK,
			body:    searchResponse,
			wantErr: ErrNoMatch,
		},
		{
			name:    "empty result",
			artist:  "Domenico Modugno",
			status:  http.StatusOK,
			body:    `{"tracks": {"items": []}}`,
			wantErr: ErrNoMatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery, gotType string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.Query().Get("q")
				gotType = r.URL.Query().Get("type")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := New(spotify.New(server.Client(), spotify.WithBaseURL(server.URL+"/")))

			url, err := client.ResolveTrack(context.Background(), "Nel blu dipinto di blu", tt.artist)

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ResolveTrack() error = %v, wantErr %v", err, tt.wantErr)
			}
			if url != tt.wantURL {
				t.Errorf("ResolveTrack() = %q, want %q", url, tt.wantURL)
			}
			if gotType != "track" {
				t.Errorf("search type = %q, want track", gotType)
			}
			want := "track:Nel blu dipinto di blu artist:" + tt.artist
			if gotQuery != want {
				t.Errorf("search query = %q, want %q", gotQuery, want)
			}
		})
	}
}

func TestResolveTrack_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"status": 401, "message": "Invalid access token"}}`))
	}))
	defer server.Close()

	client := New(spotify.New(server.Client(), spotify.WithBaseURL(server.URL+"/")))

	if _, err := client.ResolveTrack(context.Background(), "Azzurro", "Adriano Celentano"); err == nil {
		t.Fatal("ResolveTrack() expected error for unauthorized response")
	}
}

func TestConfigEnabled(t *testing.T) {
	var nilCfg *Config
	if nilCfg.Enabled() {
		t.Error("nil config must be disabled")
	}
	if (&Config{ClientID: "id"}).Enabled() {
		t.Error("config without secret must be disabled")
	}
	if !(&Config{ClientID: "id", ClientSecret: "secret"}).Enabled() {
		t.Error("config with both credentials must be enabled")
	}
	if _, err := NewFromConfig(context.Background(), &Config{}); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("NewFromConfig() error = %v, want ErrMissingCredentials", err)
	}
}
