package parsers

import (
	"encoding/json"
	"strings"

	"github.com/krishibondhu/server/internal/assistant/model"
	logx "github.com/krishibondhu/server/pkg/logger"
)

// guard against pathological model output
const maxContentLen = 64 * 1024 // 64KB

// StripCodeFence removes a surrounding markdown code fence from model output.
// Gemini frequently wraps structured payloads in ```json ... ``` or ``` ... ```
// even when told not to.
func StripCodeFence(s string) string {
	if idx := strings.Index(s, "```json"); idx >= 0 {
		start := idx + len("```json")
		if end := strings.Index(s[start:], "```"); end >= 0 {
			return strings.TrimSpace(s[start : start+end])
		}
		return strings.TrimSpace(s[start:])
	}
	if idx := strings.Index(s, "```"); idx >= 0 {
		start := idx + len("```")
		if end := strings.Index(s[start:], "```"); end >= 0 {
			return strings.TrimSpace(s[start : start+end])
		}
		return strings.TrimSpace(s[start:])
	}
	return strings.TrimSpace(s)
}

// rawIntent mirrors the JSON contract of the extraction prompt. Crop is a
// pointer because the model is told to emit null when no crop is mentioned.
type rawIntent struct {
	Crop      *string `json:"crop"`
	Symptoms  string  `json:"symptoms"`
	NeedImage bool    `json:"need_image"`
	Note      string  `json:"note"`
}

// ParseIntentResponse turns model output into an IntentResult. It never
// fails: when the content is not parseable JSON the degraded result carries
// the transcript as symptoms and the raw content as the note, so extraction
// problems can only lower answer quality, not block the pipeline.
func ParseIntentResponse(content, transcript string) model.IntentResult {
	if len(content) > maxContentLen {
		logx.Warn().
			Str("component", "intent_parser").
			Int("orig_len", len(content)).
			Msg("content truncated due to size limit")
		content = content[:maxContentLen]
	}

	stripped := StripCodeFence(content)

	var raw rawIntent
	if err := json.Unmarshal([]byte(stripped), &raw); err != nil {
		logx.Warn().
			Str("component", "intent_parser").
			Err(err).
			Msg("intent response is not valid JSON, degrading")
		return model.IntentResult{
			Symptoms: transcript,
			Note:     strings.TrimSpace(content),
		}
	}

	result := model.IntentResult{
		Symptoms:  strings.TrimSpace(raw.Symptoms),
		NeedImage: raw.NeedImage,
		Note:      strings.TrimSpace(raw.Note),
	}
	if raw.Crop != nil {
		result.Crop = strings.TrimSpace(*raw.Crop)
	}
	return result
}

// DegradedIntent is the deterministic fallback used when the extraction call
// itself fails.
func DegradedIntent(transcript string) model.IntentResult {
	return model.IntentResult{
		Symptoms: transcript,
		Note:     transcript,
	}
}
