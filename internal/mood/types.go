// Package mood defines the emotional profile and song recommendation model
// exchanged between the language model, the formatter and the web UI.
package mood

import "time"

// Emotion is one emotion slot of an emotional profile.
type Emotion struct {
	Name        string `json:"emotion"`
	Intensity   Score  `json:"intensity"` // 1-100, zero when unknown
	Description string `json:"description"`
}

// EmotionalState holds the primary and secondary emotion slots.
// A nil slot means the model did not emit it.
type EmotionalState struct {
	Primary   *Emotion `json:"primary"`
	Secondary *Emotion `json:"secondary"`
}

// MusicalPreferences are hints the analysis gives for music selection.
type MusicalPreferences struct {
	SuggestedTempo  Text `json:"suggested_tempo"`
	Mood            Text `json:"mood"`
	Genres          List `json:"genres"`
	Characteristics List `json:"characteristics"`
}

// TherapeuticGoals describe what the listening session should achieve.
type TherapeuticGoals struct {
	PrimaryGoal      Text `json:"primary_goal"`
	Approach         Text `json:"approach"`
	Duration         Text `json:"duration"`
	ExpectedBenefits List `json:"expected_benefits"`
}

// EmotionalProfile is the structured output of the emotion analysis.
// The zero value means "analysis unavailable".
type EmotionalProfile struct {
	State       EmotionalState     `json:"emotional_state"`
	Musical     MusicalPreferences `json:"musical_preferences"`
	Therapeutic TherapeuticGoals   `json:"therapeutic_goals"`
}

// IsEmpty reports whether the profile carries no analysis at all.
func (p EmotionalProfile) IsEmpty() bool {
	return p.State.Primary == nil &&
		p.State.Secondary == nil &&
		p.Musical.SuggestedTempo == "" &&
		p.Musical.Mood == "" &&
		len(p.Musical.Genres) == 0 &&
		len(p.Musical.Characteristics) == 0 &&
		p.Therapeutic.PrimaryGoal == "" &&
		p.Therapeutic.Approach == "" &&
		p.Therapeutic.Duration == "" &&
		len(p.Therapeutic.ExpectedBenefits) == 0
}

// PrimaryEmotion returns the primary emotion name, or "" if absent.
func (p EmotionalProfile) PrimaryEmotion() string {
	if p.State.Primary == nil {
		return ""
	}
	return p.State.Primary.Name
}

// MusicalFeatures describes the sound of a recommended song.
type MusicalFeatures struct {
	BPM    Text  `json:"bpm"`
	Key    Text  `json:"key"`
	Energy Score `json:"energy"` // 1-10, zero when unknown
	Mood   Text  `json:"mood"`
}

// TherapeuticValue describes why and when to listen to a song.
type TherapeuticValue struct {
	PrimaryEffect    Text `json:"primary_effect"`
	EmotionalImpact  Text `json:"emotional_impact"`
	ListeningSetting Text `json:"listening_setting"`
	BestMoment       Text `json:"best_moment"`
}

// SongRecommendation is a single recommended song.
type SongRecommendation struct {
	Title       string           `json:"title"`
	Artist      string           `json:"artist"`
	Album       Text             `json:"album"`
	Year        Score            `json:"year"`
	Genre       Text             `json:"genre"`
	Subgenre    Text             `json:"subgenre"`
	Features    MusicalFeatures  `json:"musical_features"`
	Therapeutic TherapeuticValue `json:"therapeutic_value"`
	Reason      Text             `json:"reason"`

	// SpotifyURL is attached after catalog lookup; never produced by the model.
	SpotifyURL string `json:"-"`
}

// SessionRecord is one completed turn in a session history.
type SessionRecord struct {
	ID              string
	CreatedAt       time.Time
	Transcript      string
	Analysis        string
	Recommendations string
}
