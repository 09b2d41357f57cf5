package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutput(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		wantLevel logrus.Level
		wantErr   bool
	}{
		{name: "text info", level: "info", format: "text", wantLevel: logrus.InfoLevel},
		{name: "json debug", level: "debug", format: "JSON", wantLevel: logrus.DebugLevel},
		{name: "empty format defaults to text", level: "warn", format: "", wantLevel: logrus.WarnLevel},
		{name: "bad level", level: "loud", format: "text", wantErr: true},
		{name: "bad format", level: "info", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := NewWithOutput(&bytes.Buffer{}, tt.level, tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, log.GetLevel())
		})
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithOutput(&buf, "info", FormatJSON)
	require.NoError(t, err)

	log.WithField("session", "abc").Info("turn finished")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "turn finished", entry["msg"])
	assert.Equal(t, "abc", entry["session"])
	assert.Equal(t, "info", entry["level"])
}
