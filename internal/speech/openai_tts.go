package speech

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// maxSpeechInput is the longest input the speech endpoint accepts.
const maxSpeechInput = 4096

// SpeechClient is the subset of the OpenAI client used for synthesis.
type SpeechClient interface {
	CreateSpeech(ctx context.Context, req openai.CreateSpeechRequest) (openai.RawResponse, error)
}

// OpenAISynthesizer speaks text through the OpenAI speech API.
type OpenAISynthesizer struct {
	client SpeechClient
	voice  openai.SpeechVoice
}

// NewOpenAISynthesizer creates a synthesizer using voice ("alloy" if empty).
func NewOpenAISynthesizer(client SpeechClient, voice string) *OpenAISynthesizer {
	if voice == "" {
		voice = string(openai.VoiceAlloy)
	}
	return &OpenAISynthesizer{client: client, voice: openai.SpeechVoice(voice)}
}

// Synthesize returns MP3 audio for text, truncated to the endpoint limit.
func (o *OpenAISynthesizer) Synthesize(ctx context.Context, text string) (Audio, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Audio{}, ErrEmptyText
	}
	if runes := []rune(text); len(runes) > maxSpeechInput {
		text = string(runes[:maxSpeechInput])
	}

	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          o.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return Audio{}, fmt.Errorf("creating speech: %w", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return Audio{}, fmt.Errorf("reading speech: %w", err)
	}
	if len(data) == 0 {
		return Audio{}, fmt.Errorf("creating speech: empty audio")
	}
	return Audio{Data: data, ContentType: "audio/mpeg"}, nil
}
