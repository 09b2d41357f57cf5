package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/justestif/go-mood-music-assistant/internal/mood"
	"github.com/justestif/go-mood-music-assistant/internal/prompt"
)

// Source tells where a recommendation sequence came from.
type Source string

const (
	// SourceModel means the songs were produced by the language model.
	SourceModel Source = "model"
	// SourceFallback means the static fallback sequence was substituted.
	SourceFallback Source = "fallback"
)

// ErrTooFewRecommendations is returned when the model names fewer valid songs than requested.
var ErrTooFewRecommendations = errors.New("too few recommendations")

// TrackResolver finds a playable link for a song.
type TrackResolver interface {
	ResolveTrack(ctx context.Context, title, artist string) (string, error)
}

// Recommendations is the outcome of a recommendation request.
// Songs is never empty. Err is the cause when Source is SourceFallback.
type Recommendations struct {
	Songs  []mood.SongRecommendation
	Source Source
	Err    error
}

// Recommender asks the model for songs matching an emotional profile.
type Recommender struct {
	client       ChatClient
	prompts      *prompt.Set
	opts         Options
	fallbackSize int
	resolver     TrackResolver
	log          logrus.FieldLogger
}

// Option configures a Recommender.
type Option func(*Recommender)

// WithFallbackSize sets how many entries the fallback sequence has.
func WithFallbackSize(n int) Option {
	return func(r *Recommender) {
		if n > 0 {
			r.fallbackSize = n
		}
	}
}

// WithTrackResolver attaches playable links to every recommendation.
func WithTrackResolver(resolver TrackResolver) Option {
	return func(r *Recommender) {
		r.resolver = resolver
	}
}

// NewRecommender creates a Recommender.
func NewRecommender(client ChatClient, prompts *prompt.Set, opts Options, log logrus.FieldLogger, options ...Option) *Recommender {
	r := &Recommender{
		client:       client,
		prompts:      prompts,
		opts:         opts.withDefaults(),
		fallbackSize: DefaultFallbackSize,
		log:          log,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// FallbackSize returns the configured fallback sequence length.
func (r *Recommender) FallbackSize() int {
	return r.fallbackSize
}

// Recommend returns exactly RecommendationCount songs from the model, or the
// fallback sequence if the call fails or its output is unusable.
func (r *Recommender) Recommend(ctx context.Context, profile mood.EmotionalProfile) Recommendations {
	songs, err := r.fromModel(ctx, profile)

	result := Recommendations{Songs: songs, Source: SourceModel}
	if err != nil {
		r.log.WithError(err).Warn("recommendation failed, using fallback sequence")
		result = Recommendations{
			Songs:  FallbackSongs(r.fallbackSize),
			Source: SourceFallback,
			Err:    err,
		}
	}

	if r.resolver != nil {
		r.resolveLinks(ctx, result.Songs)
	}
	return result
}

func (r *Recommender) fromModel(ctx context.Context, profile mood.EmotionalProfile) ([]mood.SongRecommendation, error) {
	system, err := r.prompts.Recommendation(profile, RecommendationCount)
	if err != nil {
		return nil, err
	}

	content, err := completeJSON(ctx, r.client, r.opts, system, r.prompts.RecommendationUser())
	if err != nil {
		return nil, fmt.Errorf("recommending: %w", err)
	}

	var resp struct {
		Recommendations []mood.SongRecommendation `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return nil, fmt.Errorf("decoding recommendations: %w", err)
	}

	songs := make([]mood.SongRecommendation, 0, RecommendationCount)
	for _, song := range resp.Recommendations {
		if err := song.Validate(); err != nil {
			r.log.WithError(err).Debug("dropping recommendation")
			continue
		}
		songs = append(songs, song.Normalize())
		if len(songs) == RecommendationCount {
			break
		}
	}

	if len(songs) < RecommendationCount {
		return nil, fmt.Errorf("%w: got %d valid of %d requested", ErrTooFewRecommendations, len(songs), RecommendationCount)
	}
	return songs, nil
}

// resolveLinks looks songs up one at a time; lookup failures leave the link empty.
func (r *Recommender) resolveLinks(ctx context.Context, songs []mood.SongRecommendation) {
	for i := range songs {
		link, err := r.resolver.ResolveTrack(ctx, songs[i].Title, songs[i].Artist)
		if err != nil {
			r.log.WithError(err).WithField("title", songs[i].Title).Debug("track lookup failed")
			continue
		}
		songs[i].SpotifyURL = link
	}
}
