package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justestif/go-mood-music-assistant/internal/mood"
)

func TestDefault(t *testing.T) {
	set, err := Default()
	require.NoError(t, err)
	assert.Positive(t, set.Version)

	analysis, err := set.Analysis()
	require.NoError(t, err)
	assert.Contains(t, analysis, `"emotional_state"`)
	assert.Contains(t, analysis, "therapeutic_goals")

	profile := mood.EmotionalProfile{State: mood.EmotionalState{
		Primary:   &mood.Emotion{Name: "tristezza", Intensity: 70},
		Secondary: &mood.Emotion{Name: "nostalgia"},
	}}
	rec, err := set.Recommendation(profile, 5)
	require.NoError(t, err)
	assert.Contains(t, rec, `"emotion": "tristezza"`)
	assert.Contains(t, rec, "ESATTAMENTE 5 brani")
	assert.Contains(t, rec, `"recommendations"`)

	assert.Equal(t, "Genera raccomandazioni musicali dettagliate", set.RecommendationUser())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name: "minimal valid",
			input: `
schema_version: 1
analysis:
  system: "analizza v{{.Version}}"
recommendation:
  system: "consiglia {{.Count}} brani per {{.Profile}}"
`,
		},
		{
			name: "missing version",
			input: `
analysis:
  system: "a"
recommendation:
  system: "b"
`,
			wantErr: true,
		},
		{
			name: "missing recommendation prompt",
			input: `
schema_version: 1
analysis:
  system: "a"
`,
			wantErr: true,
		},
		{
			name: "broken template",
			input: `
schema_version: 1
analysis:
  system: "{{.Version"
recommendation:
  system: "b"
`,
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			input:   "schema_version: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Parse([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			got, err := set.Analysis()
			require.NoError(t, err)
			assert.Equal(t, "analizza v1", got)
			assert.Equal(t, "Genera raccomandazioni musicali dettagliate", set.RecommendationUser())
		})
	}
}
