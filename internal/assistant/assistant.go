// Package assistant sequences one conversational turn: transcription,
// emotional analysis, recommendation, formatting, speech synthesis and the
// append to the session history.
package assistant

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/justestif/go-mood-music-assistant/internal/format"
	"github.com/justestif/go-mood-music-assistant/internal/llm"
	"github.com/justestif/go-mood-music-assistant/internal/mood"
	"github.com/justestif/go-mood-music-assistant/internal/speech"
)

// Analyzer produces an emotional profile from a transcript.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (mood.EmotionalProfile, error)
}

// Recommender produces songs for a profile. It never fails.
type Recommender interface {
	Recommend(ctx context.Context, profile mood.EmotionalProfile) llm.Recommendations
}

// Turn is the outcome of a single RunTurn call.
type Turn struct {
	ID     string
	State  State
	Trail  []State
	Errors []*StageError

	Transcript      string
	Profile         mood.EmotionalProfile
	Recommendations llm.Recommendations

	AnalysisText        string
	RecommendationsText string

	// Audio is nil when synthesis failed or no synthesizer is configured.
	Audio *speech.Audio

	// Record is the history entry appended when the turn reached Done.
	Record *mood.SessionRecord
}

// Completed reports whether the turn reached Done.
func (t *Turn) Completed() bool {
	return t.State == Done
}

// Err returns the first stage error matching target, or nil.
func (t *Turn) Err(target error) *StageError {
	for _, e := range t.Errors {
		if errors.Is(e, target) {
			return e
		}
	}
	return nil
}

// Messages returns the user-facing text of every stage error.
func (t *Turn) Messages() []string {
	msgs := make([]string, 0, len(t.Errors))
	for _, e := range t.Errors {
		msgs = append(msgs, e.Message())
	}
	return msgs
}

func (t *Turn) enter(s State) {
	t.State = s
	t.Trail = append(t.Trail, s)
}

func (t *Turn) fail(stage State, err error) {
	t.Errors = append(t.Errors, &StageError{Stage: stage, Err: err})
}

// Assistant runs turns against the configured speech and language services.
// It holds no per-user state and may be shared by all sessions.
type Assistant struct {
	transcriber speech.Transcriber
	analyzer    Analyzer
	recommender Recommender
	synthesizer speech.Synthesizer
	log         logrus.FieldLogger
	now         func() time.Time
}

// New creates an Assistant. synthesizer may be nil to disable spoken replies.
func New(transcriber speech.Transcriber, analyzer Analyzer, recommender Recommender, synthesizer speech.Synthesizer, log logrus.FieldLogger) *Assistant {
	return &Assistant{
		transcriber: transcriber,
		analyzer:    analyzer,
		recommender: recommender,
		synthesizer: synthesizer,
		log:         log,
		now:         time.Now,
	}
}

// RunTurn processes one recorded clip for session. Each external service is
// called at most once and in sequence. The session history gains exactly one
// record if and only if the returned turn is Done. ErrTurnInProgress is the
// only error returned; every stage failure is reported on the Turn.
func (a *Assistant) RunTurn(ctx context.Context, session *Session, clip speech.Clip) (*Turn, error) {
	if !session.begin() {
		return nil, ErrTurnInProgress
	}
	defer session.end()

	turn := &Turn{ID: uuid.NewString()}
	turn.enter(Idle)

	log := a.log.WithFields(logrus.Fields{
		"session": session.ID,
		"turn":    turn.ID,
	})
	start := a.now()

	a.run(ctx, session, clip, turn, log)

	log.WithFields(logrus.Fields{
		"state":    turn.State,
		"errors":   len(turn.Errors),
		"duration": a.now().Sub(start).Round(time.Millisecond),
	}).Info("turn finished")

	return turn, nil
}

func (a *Assistant) run(ctx context.Context, session *Session, clip speech.Clip, turn *Turn, log logrus.FieldLogger) {
	turn.enter(Recording)
	if len(clip.Data) == 0 {
		a.abort(turn, Recording, speech.ErrEmptyAudio, log)
		return
	}

	turn.enter(Transcribing)
	text, err := a.transcriber.Transcribe(ctx, clip)
	if err == nil && text == "" {
		err = speech.ErrNoSpeech
	}
	if err != nil {
		a.abort(turn, Transcribing, err, log)
		return
	}
	turn.Transcript = text
	log.WithField("chars", len(text)).Debug("transcribed utterance")

	turn.enter(Analyzing)
	profile, err := a.analyzer.Analyze(ctx, text)
	if err == nil && profile.IsEmpty() {
		err = mood.ErrInvalidProfile
	}
	if err != nil {
		a.abort(turn, Analyzing, err, log)
		return
	}
	turn.Profile = profile
	log.WithField("emotion", profile.PrimaryEmotion()).Debug("analyzed utterance")

	turn.enter(Recommending)
	recs := a.recommender.Recommend(ctx, profile)
	turn.Recommendations = recs
	if recs.Source == llm.SourceFallback {
		cause := recs.Err
		if cause == nil {
			cause = llm.ErrTooFewRecommendations
		}
		turn.fail(Recommending, cause)
	}

	turn.enter(Rendering)
	turn.AnalysisText = format.FormatAnalysis(profile)
	turn.RecommendationsText = format.FormatRecommendations(recs.Songs)
	a.synthesize(ctx, turn, log)

	rec := mood.SessionRecord{
		ID:              uuid.NewString(),
		CreatedAt:       a.now(),
		Transcript:      turn.Transcript,
		Analysis:        turn.AnalysisText,
		Recommendations: turn.RecommendationsText,
	}
	session.append(rec)
	turn.Record = &rec
	turn.enter(Done)
}

// synthesize speaks the recommendations. Failure only loses the audio.
func (a *Assistant) synthesize(ctx context.Context, turn *Turn, log logrus.FieldLogger) {
	if a.synthesizer == nil {
		return
	}
	audio, err := a.synthesizer.Synthesize(ctx, turn.RecommendationsText)
	if err != nil {
		turn.fail(Rendering, err)
		log.WithError(err).Warn("speech synthesis failed")
		return
	}
	turn.Audio = &audio
}

func (a *Assistant) abort(turn *Turn, stage State, err error, log logrus.FieldLogger) {
	turn.fail(stage, err)
	turn.enter(Aborted)
	log.WithError(err).WithField("stage", stage).Warn("turn aborted")
}
