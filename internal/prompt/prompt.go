// Package prompt holds the versioned prompt templates used to ask the
// language model for an emotional analysis and for song recommendations.
package prompt

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/justestif/go-mood-music-assistant/internal/mood"
)

//go:embed prompts.yaml
var definitions []byte

// Set is a parsed set of prompt templates.
type Set struct {
	Version        int
	analysis       *template.Template
	recommendation *template.Template
	recommendUser  string
}

type fileFormat struct {
	SchemaVersion int `yaml:"schema_version"`
	Analysis      struct {
		System string `yaml:"system"`
	} `yaml:"analysis"`
	Recommendation struct {
		System string `yaml:"system"`
		User   string `yaml:"user"`
	} `yaml:"recommendation"`
}

// Default returns the prompt set embedded in the binary.
func Default() (*Set, error) {
	return Parse(definitions)
}

// Parse builds a Set from a YAML definition.
func Parse(data []byte) (*Set, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing prompt definitions: %w", err)
	}
	if f.SchemaVersion <= 0 {
		return nil, fmt.Errorf("prompt definitions: schema_version must be positive, got %d", f.SchemaVersion)
	}
	if strings.TrimSpace(f.Analysis.System) == "" || strings.TrimSpace(f.Recommendation.System) == "" {
		return nil, fmt.Errorf("prompt definitions: analysis and recommendation prompts are required")
	}

	analysis, err := template.New("analysis").Option("missingkey=error").Parse(f.Analysis.System)
	if err != nil {
		return nil, fmt.Errorf("parsing analysis prompt: %w", err)
	}
	recommendation, err := template.New("recommendation").Option("missingkey=error").Parse(f.Recommendation.System)
	if err != nil {
		return nil, fmt.Errorf("parsing recommendation prompt: %w", err)
	}

	user := strings.TrimSpace(f.Recommendation.User)
	if user == "" {
		user = "Genera raccomandazioni musicali dettagliate"
	}

	return &Set{
		Version:        f.SchemaVersion,
		analysis:       analysis,
		recommendation: recommendation,
		recommendUser:  user,
	}, nil
}

// Analysis renders the system prompt for the emotion analysis.
func (s *Set) Analysis() (string, error) {
	var sb strings.Builder
	if err := s.analysis.Execute(&sb, struct{ Version int }{s.Version}); err != nil {
		return "", fmt.Errorf("rendering analysis prompt: %w", err)
	}
	return sb.String(), nil
}

// Recommendation renders the system prompt asking for count songs matching profile.
func (s *Set) Recommendation(profile mood.EmotionalProfile, count int) (string, error) {
	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding profile: %w", err)
	}

	data := struct {
		Version int
		Profile string
		Count   int
	}{s.Version, string(profileJSON), count}

	var sb strings.Builder
	if err := s.recommendation.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("rendering recommendation prompt: %w", err)
	}
	return sb.String(), nil
}

// RecommendationUser returns the user turn sent with the recommendation prompt.
func (s *Set) RecommendationUser() string {
	return s.recommendUser
}
