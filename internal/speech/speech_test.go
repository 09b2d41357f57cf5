package speech

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"audio/wav", ".wav"},
		{"audio/webm;codecs=opus", ".webm"},
		{"Audio/OGG", ".ogg"},
		{"audio/mp4", ".m4a"},
		{"", ".wav"},
		{"application/octet-stream", ".wav"},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, Extension(tt.contentType))
		})
	}
}

func TestLanguage(t *testing.T) {
	assert.Equal(t, "it", Language("it-IT"))
	assert.Equal(t, "en", Language("en_US"))
	assert.Equal(t, "it", Language("IT"))
	assert.Equal(t, "", Language(""))
}

func TestSplitText(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		limit     int
		wantCount int
	}{
		{name: "empty", text: "   ", limit: 10, wantCount: 0},
		{name: "fits", text: "ciao mondo", limit: 10, wantCount: 1},
		{name: "wraps words", text: "uno due tre quattro", limit: 7, wantCount: 3},
		{name: "cuts long word", text: strings.Repeat("à", 25), limit: 10, wantCount: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := splitText(tt.text, tt.limit)
			assert.Len(t, chunks, tt.wantCount)
			for _, c := range chunks {
				assert.LessOrEqual(t, utf8.RuneCountInString(c), tt.limit)
				assert.NotEmpty(t, c)
			}
		})
	}
}

type fakeTranscription struct {
	text string
	err  error
	last openai.AudioRequest
}

func (f *fakeTranscription) CreateTranscription(_ context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	f.last = req
	if f.err != nil {
		return openai.AudioResponse{}, f.err
	}
	return openai.AudioResponse{Text: f.text}, nil
}

func TestWhisperTranscriber_Transcribe(t *testing.T) {
	tests := []struct {
		name    string
		clip    Clip
		text    string
		err     error
		want    string
		wantErr error
	}{
		{name: "recognized", clip: Clip{Data: []byte("RIFF"), ContentType: "audio/wav"}, text: " Sono molto triste oggi ", want: "Sono molto triste oggi"},
		{name: "empty clip", clip: Clip{}, wantErr: ErrEmptyAudio},
		{name: "no speech", clip: Clip{Data: []byte("RIFF")}, text: "  ", wantErr: ErrNoSpeech},
		{name: "network error", clip: Clip{Data: []byte("RIFF")}, err: errors.New("dial tcp: connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeTranscription{text: tt.text, err: tt.err}
			tr := NewWhisperTranscriber(client, "", "it-IT")

			got, err := tr.Transcribe(context.Background(), tt.clip)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
			case tt.err != nil:
				assert.ErrorIs(t, err, tt.err)
				assert.Empty(t, got)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				assert.Equal(t, "it", client.last.Language)
				assert.Equal(t, "utterance.wav", client.last.FilePath)
				assert.Equal(t, DefaultTranscriptionModel, client.last.Model)
			}
		})
	}
}

func TestWhisperTranscriber_OpenAIClient(t *testing.T) {
	var gotLanguage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		gotLanguage = r.FormValue("language")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"Sono molto triste oggi"}`))
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	tr := NewWhisperTranscriber(openai.NewClientWithConfig(cfg), "", "it-IT")

	got, err := tr.Transcribe(context.Background(), Clip{Data: []byte("RIFF....WAVE"), ContentType: "audio/wav"})

	require.NoError(t, err)
	assert.Equal(t, "Sono molto triste oggi", got)
	assert.Equal(t, "it", gotLanguage)
}

func TestGoogleSynthesizer_Synthesize(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		q := r.URL.Query()
		if q.Get("tl") != "it" || q.Get("client") != "tw-ob" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if utf8.RuneCountInString(q.Get("q")) > maxChunkChars {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3"))
	}))
	defer srv.Close()

	g := &GoogleSynthesizer{language: "it", httpClient: srv.Client(), baseURL: srv.URL}
	text := strings.Repeat("brano consigliato numero uno ", 10)

	audio, err := g.Synthesize(context.Background(), text)

	require.NoError(t, err)
	assert.Equal(t, "audio/mpeg", audio.ContentType)
	chunks := int(requests.Load())
	assert.Greater(t, chunks, 1)
	assert.Equal(t, strings.Repeat("ID3", chunks), string(audio.Data))
}

func TestGoogleSynthesizer_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := &GoogleSynthesizer{language: "it", httpClient: srv.Client(), baseURL: srv.URL}

	_, err := g.Synthesize(context.Background(), "ciao")
	assert.Error(t, err)

	_, err = g.Synthesize(context.Background(), " \n ")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestOpenAISynthesizer_Synthesize(t *testing.T) {
	var got openai.CreateSpeechRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/speech" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3-mp3"))
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	s := NewOpenAISynthesizer(openai.NewClientWithConfig(cfg), "")

	audio, err := s.Synthesize(context.Background(), "Brani consigliati")

	require.NoError(t, err)
	assert.Equal(t, []byte("ID3-mp3"), audio.Data)
	assert.Equal(t, "Brani consigliati", got.Input)
	assert.Equal(t, openai.VoiceAlloy, got.Voice)

	_, err = s.Synthesize(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyText)
}
