package speech

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/krishibondhu/server/internal/assistant/lang"
	"github.com/krishibondhu/server/internal/assistant/model"
)

// noSpeechSentinel is what the model is instructed to return for silent or
// unintelligible recordings. It is normalized to an empty transcript so the
// rest of the pipeline never sees the sentinel itself.
const noSpeechSentinel = "NO_SPEECH_DETECTED"

const transcribePrompt = `Transcribe this audio recording accurately.
The speaker is a farmer from Bangladesh asking an agricultural question. The speech is most likely in Bengali, but may be in English or a mix of both.
Return ONLY the transcribed text, nothing else. No explanations, no quotes.
If no speech can be heard in the recording, return exactly: NO_SPEECH_DETECTED`

// GeminiTranscriber converts farmer voice recordings to text using a
// multimodal Gemini model.
type GeminiTranscriber struct {
	client *genai.Client
	model  string
}

func NewGeminiTranscriber(client *genai.Client, config model.TranscriberConfig) *GeminiTranscriber {
	return &GeminiTranscriber{
		client: client,
		model:  config.Model,
	}
}

func (t *GeminiTranscriber) Transcribe(ctx context.Context, audio model.Audio) (model.TranscriptResult, error) {
	mime := audio.MIMEType
	if mime == "" {
		mime = "audio/ogg"
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(audio.Data, mime),
			genai.NewPartFromText(transcribePrompt),
		}, genai.RoleUser),
	}

	resp, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return model.TranscriptResult{}, fmt.Errorf("transcription request: %w", err)
	}

	transcript := normalizeTranscript(resp.Text())
	return model.TranscriptResult{
		Transcript: transcript,
		Language:   lang.Detect(transcript),
	}, nil
}

// normalizeTranscript maps the no-speech sentinel and whitespace-only output
// to the empty transcript.
func normalizeTranscript(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || strings.Contains(strings.ToUpper(s), noSpeechSentinel) {
		return ""
	}
	return s
}
