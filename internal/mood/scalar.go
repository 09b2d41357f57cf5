package mood

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Score is an integer the model may emit as a number or as a string
// ("80", "80/100", "7.5"). Anything unparseable decodes to zero.
type Score int

// UnmarshalJSON implements json.Unmarshaler.
func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = 0
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		raw = leadingNumber(str)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*s = 0
		return nil
	}
	*s = Score(math.Round(f))
	return nil
}

// leadingNumber extracts the first decimal number in s, e.g. "  80/100" -> "80".
func leadingNumber(s string) string {
	s = strings.TrimSpace(s)
	start := strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' })
	if start < 0 {
		return ""
	}
	if start > 0 && s[start-1] == '-' {
		start--
	}
	end := start + 1
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c == '.' && !seenDot {
			seenDot = true
		} else if c < '0' || c > '9' {
			break
		}
		end++
	}
	return strings.TrimSuffix(s[start:end], ".")
}

// Text is a string the model may emit as a JSON string, number or bool.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*t = ""
	case data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*t = Text(strings.TrimSpace(str))
	case data[0] == '{' || data[0] == '[':
		// Nested values have no meaningful text rendering.
		*t = ""
	default:
		*t = Text(data)
	}
	return nil
}

// List is a list of strings the model may emit as a single string.
type List []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *List) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	if data[0] != '[' {
		var t Text
		if err := t.UnmarshalJSON(data); err != nil {
			return err
		}
		if t == "" {
			*l = nil
			return nil
		}
		*l = List{string(t)}
		return nil
	}

	var items []Text
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make(List, 0, len(items))
	for _, item := range items {
		if item != "" {
			out = append(out, string(item))
		}
	}
	*l = out
	return nil
}
