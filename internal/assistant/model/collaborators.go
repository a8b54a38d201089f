package model

import (
	"context"
	"time"
)

// SpeechTranscriber converts recorded audio into a transcript and language
// tag. Implementations must normalize "no speech detected" to an empty
// transcript rather than inventing content.
type SpeechTranscriber interface {
	Transcribe(ctx context.Context, audio Audio) (TranscriptResult, error)
}

// VisionAnalyzer inspects a crop image and returns structured findings.
// Reporting "uncertain" is a valid and expected output; implementations must
// not fabricate a diagnosis.
type VisionAnalyzer interface {
	Analyze(ctx context.Context, image Image) (*VisionFindings, error)
}

// WeatherProvider looks up a forecast snapshot for a GPS fix.
type WeatherProvider interface {
	Forecast(ctx context.Context, latitude, longitude float64) (*WeatherSnapshot, error)
}

// SpeechSynthesizer renders a reply as audio and returns an opaque handle
// (a file path) to the result.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, language string) (string, error)
}

// RunRecord is the completed-run payload handed to the archive after the
// pipeline reaches its terminal state.
type RunRecord struct {
	UserID         string           `json:"user_id"`
	ConversationID string           `json:"conversation_id"`
	Transcript     string           `json:"transcript"`
	Language       string           `json:"language"`
	Crop           string           `json:"crop,omitempty"`
	ReplyText      string           `json:"reply_text"`
	AudioReplyPath string           `json:"audio_reply_path,omitempty"`
	Vision         *VisionFindings  `json:"vision,omitempty"`
	Weather        *WeatherSnapshot `json:"weather,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// RunArchive persists completed runs. A failing archive is logged by the
// pipeline and never surfaces to the caller.
type RunArchive interface {
	SaveRun(ctx context.Context, record *RunRecord) error
}
