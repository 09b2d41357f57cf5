package mood

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Score
	}{
		{name: "number", input: `80`, want: 80},
		{name: "float rounds", input: `7.5`, want: 8},
		{name: "numeric string", input: `"65"`, want: 65},
		{name: "fraction string", input: `"80/100"`, want: 80},
		{name: "string with prefix", input: `"circa 120 bpm"`, want: 120},
		{name: "null", input: `null`, want: 0},
		{name: "garbage string", input: `"alta"`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Score
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextAndListUnmarshal(t *testing.T) {
	var v struct {
		BPM    Text `json:"bpm"`
		Key    Text `json:"key"`
		Genres List `json:"genres"`
		Single List `json:"single"`
		Empty  List `json:"empty"`
	}
	input := `{"bpm": 125, "key": " D Major ", "genres": ["pop", "", 3], "single": "jazz", "empty": null}`

	require.NoError(t, json.Unmarshal([]byte(input), &v))
	assert.Equal(t, Text("125"), v.BPM)
	assert.Equal(t, Text("D Major"), v.Key)
	assert.Equal(t, List{"pop", "3"}, v.Genres)
	assert.Equal(t, List{"jazz"}, v.Single)
	assert.Nil(t, v.Empty)
}

func TestEmotionalProfileDecode(t *testing.T) {
	input := `{
		"emotional_state": {
			"primary": {"emotion": "tristezza", "intensity": "75", "description": "malinconia diffusa"},
			"secondary": {"emotion": "nostalgia", "intensity": 40, "description": ""}
		},
		"musical_preferences": {
			"suggested_tempo": "60-80 BPM",
			"mood": "riflessivo",
			"genres": ["cantautorato", "jazz"],
			"characteristics": ["acustico"]
		},
		"therapeutic_goals": {
			"primary_goal": "elaborare la tristezza",
			"approach": "ascolto guidato",
			"duration": 30,
			"expected_benefits": ["calma"]
		}
	}`

	var p EmotionalProfile
	require.NoError(t, json.Unmarshal([]byte(input), &p))
	require.NoError(t, p.Validate())

	assert.False(t, p.IsEmpty())
	assert.Equal(t, "tristezza", p.PrimaryEmotion())
	assert.Equal(t, Score(75), p.State.Primary.Intensity)
	assert.Equal(t, Text("30"), p.Therapeutic.Duration)
	assert.Equal(t, List{"cantautorato", "jazz"}, p.Musical.Genres)
}

func TestEmotionalProfileValidate(t *testing.T) {
	named := func(name string, intensity Score) *Emotion {
		return &Emotion{Name: name, Intensity: intensity}
	}

	tests := []struct {
		name    string
		profile EmotionalProfile
		wantErr bool
	}{
		{
			name: "valid",
			profile: EmotionalProfile{State: EmotionalState{
				Primary: named("gioia", 90), Secondary: named("", 0),
			}},
		},
		{
			name:    "empty profile",
			profile: EmotionalProfile{},
			wantErr: true,
		},
		{
			name: "missing secondary",
			profile: EmotionalProfile{State: EmotionalState{
				Primary: named("gioia", 90),
			}},
			wantErr: true,
		},
		{
			name: "unnamed primary",
			profile: EmotionalProfile{State: EmotionalState{
				Primary: named("  ", 10), Secondary: named("calma", 10),
			}},
			wantErr: true,
		},
		{
			name: "intensity out of range",
			profile: EmotionalProfile{State: EmotionalState{
				Primary: named("rabbia", 150), Secondary: named("paura", 10),
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidProfile), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestEmotionalProfileIsEmpty(t *testing.T) {
	assert.True(t, EmotionalProfile{}.IsEmpty())
	assert.False(t, EmotionalProfile{Musical: MusicalPreferences{Mood: "calmo"}}.IsEmpty())
	assert.Equal(t, "", EmotionalProfile{}.PrimaryEmotion())
}

func TestSongRecommendation(t *testing.T) {
	song := SongRecommendation{Title: " Azzurro ", Artist: "Adriano Celentano", Year: -1}
	song.Features.Energy = 12

	require.NoError(t, song.Validate())

	normalized := song.Normalize()
	assert.Equal(t, "Azzurro", normalized.Title)
	assert.Equal(t, Score(0), normalized.Features.Energy)
	assert.Equal(t, Score(0), normalized.Year)

	err := SongRecommendation{Title: "Senza artista"}.Validate()
	assert.ErrorIs(t, err, ErrInvalidSong)

	err = SongRecommendation{Artist: "Mina"}.Validate()
	assert.ErrorIs(t, err, ErrInvalidSong)
}
