// Package speech converts recorded audio to text and text back to audio.
package speech

import (
	"context"
	"errors"
	"mime"
	"strings"
)

// Sentinel errors.
var (
	// ErrEmptyAudio is returned when a clip carries no data.
	ErrEmptyAudio = errors.New("empty audio clip")

	// ErrNoSpeech is returned when recognition produced no text.
	ErrNoSpeech = errors.New("no speech recognized")

	// ErrEmptyText is returned when there is nothing to synthesize.
	ErrEmptyText = errors.New("empty text")
)

// Clip is a recorded utterance as uploaded by the browser.
type Clip struct {
	Data        []byte
	ContentType string
}

// Audio is a synthesized speech clip.
type Audio struct {
	Data        []byte
	ContentType string
}

// Transcriber converts a clip to text.
type Transcriber interface {
	Transcribe(ctx context.Context, clip Clip) (string, error)
}

// Synthesizer converts text to a spoken clip.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (Audio, error)
}

// extensions maps recorder content types to the file names the recognition
// service uses to detect the container format.
var extensions = map[string]string{
	"audio/wav":    ".wav",
	"audio/wave":   ".wav",
	"audio/x-wav":  ".wav",
	"audio/webm":   ".webm",
	"video/webm":   ".webm",
	"audio/ogg":    ".ogg",
	"audio/mpeg":   ".mp3",
	"audio/mp3":    ".mp3",
	"audio/mp4":    ".m4a",
	"audio/x-m4a":  ".m4a",
	"audio/flac":   ".flac",
	"audio/x-flac": ".flac",
}

// Extension returns the file extension for a clip content type, ".wav" if unknown.
func Extension(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	if ext, ok := extensions[mediaType]; ok {
		return ext
	}
	return ".wav"
}

// Language returns the two-letter language of a locale ("it-IT" -> "it").
func Language(locale string) string {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		locale = locale[:i]
	}
	return strings.ToLower(locale)
}
