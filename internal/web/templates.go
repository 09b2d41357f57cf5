package web

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/justestif/go-mood-music-assistant/internal/assistant"
	"github.com/justestif/go-mood-music-assistant/internal/llm"
	"github.com/justestif/go-mood-music-assistant/internal/mood"
	"github.com/justestif/go-mood-music-assistant/internal/speech"
)

// Templates manages HTML template rendering.
type Templates struct {
	templates map[string]*template.Template
	partials  map[string]*template.Template
	funcs     template.FuncMap
}

// NewTemplates creates a new template manager by loading templates from the given filesystem.
func NewTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{
		templates: make(map[string]*template.Template),
		partials:  make(map[string]*template.Template),
		funcs:     defaultFuncs(),
	}

	if err := t.load(templatesFS); err != nil {
		return nil, err
	}

	return t, nil
}

// Render renders a page template with the given data.
func (t *Templates) Render(w io.Writer, page string, data any) error {
	tmpl, ok := t.templates[page]
	if !ok {
		return fmt.Errorf("template %q not found", page)
	}

	// Execute the "base" template which includes the page content
	return tmpl.ExecuteTemplate(w, "base", data)
}

// RenderPartial renders a partial template (without base layout) with the given data.
func (t *Templates) RenderPartial(w io.Writer, partial string, data any) error {
	tmpl, ok := t.partials[partial]
	if !ok {
		return fmt.Errorf("partial %q not found", partial)
	}
	return tmpl.ExecuteTemplate(w, partial, data)
}

// load parses all templates from the filesystem.
func (t *Templates) load(templatesFS fs.FS) error {
	layouts, err := fs.Glob(templatesFS, "layouts/*.html")
	if err != nil {
		return fmt.Errorf("finding layouts: %w", err)
	}

	partials, err := fs.Glob(templatesFS, "partials/*.html")
	if err != nil {
		return fmt.Errorf("finding partials: %w", err)
	}

	pages, err := fs.Glob(templatesFS, "pages/*.html")
	if err != nil {
		return fmt.Errorf("finding pages: %w", err)
	}

	// Common files to include with every page
	commonFiles := append(layouts, partials...)

	for _, page := range pages {
		name := templateName(page)
		files := append([]string{page}, commonFiles...)

		tmpl, err := template.New(name).Funcs(t.funcs).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
		t.templates[name] = tmpl
	}

	// Partials are parsed together so they can include each other.
	for _, partial := range partials {
		name := templateName(partial)

		tmpl, err := template.New(name).Funcs(t.funcs).ParseFS(templatesFS, partials...)
		if err != nil {
			return fmt.Errorf("parsing partial %s: %w", name, err)
		}
		t.partials[name] = tmpl
	}

	return nil
}

// templateName strips the directory and .html extension.
func templateName(path string) string {
	name := filepath.Base(path)
	return name[:len(name)-len(".html")]
}

// defaultFuncs returns the default template functions.
func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		// formatTime formats a time as "02/01/2006 15:04"
		"formatTime": func(t time.Time) string {
			return t.Format("02/01/2006 15:04")
		},

		// add adds two integers (for 1-based indexing in loops)
		"add": func(a, b int) int {
			return a + b
		},
	}
}

// PageData contains common data passed to all page templates.
type PageData struct {
	Title       string
	Flash       *FlashMessage
	CurrentPath string
}

// FlashMessage represents a temporary notification message.
type FlashMessage struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// HomePageData contains data for the home page template.
type HomePageData struct {
	PageData
	History HistoryData
}

// HistoryData contains data for the history partial.
type HistoryData struct {
	Entries []HistoryEntry
}

// HistoryEntry is one completed turn as shown in the history panel.
type HistoryEntry struct {
	Number          int
	CreatedAt       time.Time
	Transcript      string
	Analysis        string
	Recommendations string
}

// TurnData contains data for the turn result partial.
type TurnData struct {
	Completed           bool
	Transcript          string
	AnalysisText        string
	RecommendationsText string
	Fallback            bool
	Songs               []SongLink
	AudioSrc            template.URL
	Messages            []string
	History             HistoryData
}

// SongLink is a recommended song with its optional Spotify link.
type SongLink struct {
	Title  string
	Artist string
	URL    string
}

// ErrorData contains data for the inline error partial.
type ErrorData struct {
	Message string
}

func newHistoryData(records []mood.SessionRecord) HistoryData {
	entries := make([]HistoryEntry, len(records))
	for i, rec := range records {
		entries[i] = HistoryEntry{
			Number:          i + 1,
			CreatedAt:       rec.CreatedAt,
			Transcript:      rec.Transcript,
			Analysis:        rec.Analysis,
			Recommendations: rec.Recommendations,
		}
	}
	return HistoryData{Entries: entries}
}

func newTurnData(turn *assistant.Turn, history []mood.SessionRecord) TurnData {
	data := TurnData{
		Completed:           turn.Completed(),
		Transcript:          turn.Transcript,
		AnalysisText:        turn.AnalysisText,
		RecommendationsText: turn.RecommendationsText,
		Fallback:            turn.Recommendations.Source == llm.SourceFallback,
		Messages:            turn.Messages(),
		History:             newHistoryData(history),
	}

	for _, song := range turn.Recommendations.Songs {
		data.Songs = append(data.Songs, SongLink{
			Title:  song.Title,
			Artist: song.Artist,
			URL:    song.SpotifyURL,
		})
	}

	if turn.Audio != nil {
		data.AudioSrc = audioDataURI(*turn.Audio)
	}
	return data
}

// audioDataURI inlines synthesized audio so nothing is stored server side.
func audioDataURI(audio speech.Audio) template.URL {
	contentType := audio.ContentType
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	//nolint:gosec // Content is produced by the synthesizer, not the user.
	return template.URL("data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(audio.Data))
}
