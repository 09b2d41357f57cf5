package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	googleTTSURL   = "https://translate.google.com/translate_tts"
	googleTTSAgent = "Mozilla/5.0 (X11; Linux x86_64) mood-music-assistant/1.0"

	// maxChunkChars is the longest text the endpoint accepts per request.
	maxChunkChars = 100

	// maxAudioBytes bounds a single chunk response.
	maxAudioBytes = 2 << 20
)

// GoogleSynthesizer speaks text through the Google Translate TTS endpoint.
// Long text is split into chunks and the MP3 segments are concatenated.
type GoogleSynthesizer struct {
	language   string
	httpClient *http.Client
	baseURL    string
}

// NewGoogleSynthesizer creates a synthesizer for a language code such as "it".
func NewGoogleSynthesizer(language string) *GoogleSynthesizer {
	return &GoogleSynthesizer{
		language: Language(language),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: googleTTSURL,
	}
}

// Synthesize returns MP3 audio for text.
func (g *GoogleSynthesizer) Synthesize(ctx context.Context, text string) (Audio, error) {
	chunks := splitText(text, maxChunkChars)
	if len(chunks) == 0 {
		return Audio{}, ErrEmptyText
	}

	var buf bytes.Buffer
	for i, chunk := range chunks {
		data, err := g.fetchChunk(ctx, chunk, i, len(chunks))
		if err != nil {
			return Audio{}, fmt.Errorf("synthesizing chunk %d/%d: %w", i+1, len(chunks), err)
		}
		buf.Write(data)
	}

	return Audio{Data: buf.Bytes(), ContentType: "audio/mpeg"}, nil
}

// fetchChunk performs a single request for one chunk of text.
func (g *GoogleSynthesizer) fetchChunk(ctx context.Context, chunk string, idx, total int) ([]byte, error) {
	params := url.Values{
		"ie":       {"UTF-8"},
		"q":        {chunk},
		"tl":       {g.language},
		"client":   {"tw-ob"},
		"ttsspeed": {"1"},
		"idx":      {strconv.Itoa(idx)},
		"total":    {strconv.Itoa(total)},
		"textlen":  {strconv.Itoa(utf8.RuneCountInString(chunk))},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", googleTTSAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty audio response")
	}
	return data, nil
}

// splitText packs whitespace-separated words into chunks of at most limit runes.
// Words longer than limit are cut.
func splitText(text string, limit int) []string {
	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, word := range strings.Fields(text) {
		for utf8.RuneCountInString(word) > limit {
			flush()
			runes := []rune(word)
			chunks = append(chunks, string(runes[:limit]))
			word = string(runes[limit:])
		}

		wordLen := utf8.RuneCountInString(word)
		if wordLen == 0 {
			continue
		}
		if currentLen > 0 && currentLen+1+wordLen > limit {
			flush()
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(word)
		currentLen += wordLen
	}
	flush()

	return chunks
}
