package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/justestif/go-mood-music-assistant/internal/mood"
	"github.com/justestif/go-mood-music-assistant/internal/prompt"
)

// Analyzer turns a transcript into an emotional profile.
type Analyzer struct {
	client  ChatClient
	prompts *prompt.Set
	opts    Options
	log     logrus.FieldLogger
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(client ChatClient, prompts *prompt.Set, opts Options, log logrus.FieldLogger) *Analyzer {
	return &Analyzer{
		client:  client,
		prompts: prompts,
		opts:    opts.withDefaults(),
		log:     log,
	}
}

// Analyze asks the model for an emotional profile of text.
// On any failure it returns the empty profile together with the cause.
func (a *Analyzer) Analyze(ctx context.Context, text string) (mood.EmotionalProfile, error) {
	if strings.TrimSpace(text) == "" {
		return mood.EmotionalProfile{}, fmt.Errorf("analyzing: empty transcript")
	}

	system, err := a.prompts.Analysis()
	if err != nil {
		return mood.EmotionalProfile{}, err
	}

	content, err := completeJSON(ctx, a.client, a.opts, system, text)
	if err != nil {
		return mood.EmotionalProfile{}, fmt.Errorf("analyzing: %w", err)
	}

	var profile mood.EmotionalProfile
	if err := json.Unmarshal([]byte(content), &profile); err != nil {
		return mood.EmotionalProfile{}, fmt.Errorf("decoding analysis: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return mood.EmotionalProfile{}, err
	}

	a.log.WithFields(logrus.Fields{
		"primary":   profile.PrimaryEmotion(),
		"intensity": int(profile.State.Primary.Intensity),
	}).Debug("emotional analysis completed")

	return profile, nil
}
