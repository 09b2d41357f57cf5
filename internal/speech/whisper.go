package speech

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// DefaultTranscriptionModel is the recognition model used when none is configured.
const DefaultTranscriptionModel = openai.Whisper1

// TranscriptionClient is the subset of the OpenAI client used for recognition.
type TranscriptionClient interface {
	CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}

// WhisperTranscriber recognizes speech through the OpenAI transcription API.
type WhisperTranscriber struct {
	client   TranscriptionClient
	model    string
	language string
}

// NewWhisperTranscriber creates a transcriber for the given locale (e.g. "it-IT").
func NewWhisperTranscriber(client TranscriptionClient, model, locale string) *WhisperTranscriber {
	if model == "" {
		model = DefaultTranscriptionModel
	}
	return &WhisperTranscriber{
		client:   client,
		model:    model,
		language: Language(locale),
	}
}

// Transcribe returns the text spoken in clip.
func (w *WhisperTranscriber) Transcribe(ctx context.Context, clip Clip) (string, error) {
	if len(clip.Data) == 0 {
		return "", ErrEmptyAudio
	}

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		Reader:   bytes.NewReader(clip.Data),
		FilePath: "utterance" + Extension(clip.ContentType),
		Language: w.language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("transcribing audio: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}
