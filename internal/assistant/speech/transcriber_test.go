package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTranscript(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain text", "আমার ধানের পাতা হলুদ", "আমার ধানের পাতা হলুদ"},
		{"surrounding whitespace", "  when to plant rice  \n", "when to plant rice"},
		{"sentinel", "NO_SPEECH_DETECTED", ""},
		{"sentinel with padding", "  no_speech_detected  ", ""},
		{"sentinel embedded in chatter", "The recording contains NO_SPEECH_DETECTED", ""},
		{"empty", "", ""},
		{"whitespace only", "   \n\t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeTranscript(tt.raw))
		})
	}
}
