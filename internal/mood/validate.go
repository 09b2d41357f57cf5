package mood

import (
	"errors"
	"fmt"
	"strings"
)

// Intensity and energy bounds.
const (
	MinIntensity = 1
	MaxIntensity = 100
	MinEnergy    = 1
	MaxEnergy    = 10
)

// Validation errors.
var (
	// ErrInvalidProfile is returned when an emotional profile does not match the schema.
	ErrInvalidProfile = errors.New("invalid emotional profile")

	// ErrInvalidSong is returned when a recommendation lacks a title or an artist.
	ErrInvalidSong = errors.New("invalid song recommendation")
)

// Validate checks the structural invariants of a decoded profile.
// Both emotion slots must be present and the primary emotion must be named.
// Intensities are optional but must be within 1-100 when given.
func (p EmotionalProfile) Validate() error {
	if p.State.Primary == nil {
		return fmt.Errorf("%w: missing primary emotion", ErrInvalidProfile)
	}
	if p.State.Secondary == nil {
		return fmt.Errorf("%w: missing secondary emotion", ErrInvalidProfile)
	}
	if strings.TrimSpace(p.State.Primary.Name) == "" {
		return fmt.Errorf("%w: primary emotion has no name", ErrInvalidProfile)
	}

	slots := []struct {
		name    string
		emotion *Emotion
	}{
		{"primary", p.State.Primary},
		{"secondary", p.State.Secondary},
	}
	for _, slot := range slots {
		i := slot.emotion.Intensity
		if i != 0 && (i < MinIntensity || i > MaxIntensity) {
			return fmt.Errorf("%w: %s intensity %d out of range %d-%d",
				ErrInvalidProfile, slot.name, i, MinIntensity, MaxIntensity)
		}
	}
	return nil
}

// Validate checks that a recommendation names a song.
func (s SongRecommendation) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidSong)
	}
	if strings.TrimSpace(s.Artist) == "" {
		return fmt.Errorf("%w: missing artist for %q", ErrInvalidSong, s.Title)
	}
	return nil
}

// Normalize clears out-of-range scalar fields so they render as unknown.
func (s SongRecommendation) Normalize() SongRecommendation {
	if s.Features.Energy < MinEnergy || s.Features.Energy > MaxEnergy {
		s.Features.Energy = 0
	}
	if s.Year < 0 {
		s.Year = 0
	}
	s.Title = strings.TrimSpace(s.Title)
	s.Artist = strings.TrimSpace(s.Artist)
	return s
}
