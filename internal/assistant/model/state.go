package model

import (
	"github.com/cloudwego/eino/schema"
)

// Audio is an opaque handle to recorded audio as received from the upload layer.
type Audio struct {
	Data     []byte
	MIMEType string
}

// Image is an opaque handle to an uploaded image.
type Image struct {
	Data     []byte
	MIMEType string
}

// Location is a GPS fix supplied by the client.
type Location struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether both coordinates are present. A zero coordinate is
// treated as absent, matching what clients send when no fix is available.
func (l *Location) Valid() bool {
	return l != nil && l.Latitude != 0 && l.Longitude != 0
}

// PipelineInput is one farmer request as handed over by the API layer.
// At most one of Audio/Text determines how the transcript is resolved.
type PipelineInput struct {
	UserID         string
	ConversationID string
	Text           string
	Audio          *Audio
	Image          *Image
	Location       *Location
}

// TranscriptResult is the resolved text form of the farmer's input together
// with its language tag. An empty transcript is a valid terminal value
// meaning "nothing usable was said".
type TranscriptResult struct {
	Transcript string
	Language   string
}

// IntentResult is the structured extraction derived from the transcript.
// All fields are advisory context for response generation.
type IntentResult struct {
	Crop      string `json:"crop"`
	Symptoms  string `json:"symptoms"`
	NeedImage bool   `json:"need_image"`
	Note      string `json:"note"`
}

// VisionFindings is the structured result of the image analysis stage.
// A non-empty Err marks a failed analysis; the response generator treats it
// as "no usable visual evidence" and proceeds.
type VisionFindings struct {
	Crop        string `json:"crop"`
	Disease     string `json:"disease"`
	Symptoms    string `json:"symptoms"`
	Description string `json:"description"`
	Confidence  string `json:"confidence"`
	Err         string `json:"error,omitempty"`
}

// Usable reports whether the findings carry a detection worth surfacing.
func (v *VisionFindings) Usable() bool {
	return v != nil && v.Err == "" && v.Disease != "" && v.Disease != "no_detection"
}

// HourlySeries is the Open-Meteo hourly forecast layout.
type HourlySeries struct {
	Time               []string  `json:"time"`
	Temperature2M      []float64 `json:"temperature_2m"`
	RelativeHumidity2M []float64 `json:"relativehumidity_2m"`
	Precipitation      []float64 `json:"precipitation"`
}

// WeatherSnapshot is an advisory forecast snapshot. Its absence never blocks
// response generation.
type WeatherSnapshot struct {
	Hourly HourlySeries `json:"hourly"`
}

// Empty reports whether the snapshot carries no usable series at all.
func (w *WeatherSnapshot) Empty() bool {
	return w == nil || (len(w.Hourly.Temperature2M) == 0 &&
		len(w.Hourly.RelativeHumidity2M) == 0 &&
		len(w.Hourly.Precipitation) == 0)
}

// ContextBundle is the typed payload flowing from intent extraction through
// context enrichment into response generation.
type ContextBundle struct {
	Transcript string
	Language   string
	Intent     IntentResult
	Vision     *VisionFindings
	Weather    *WeatherSnapshot
}

// Reply is the generated response on its way to the terminal state.
type Reply struct {
	Text     string
	Language string
	// Matched records whether the reply language matched the request
	// language; a mismatch is an internal diagnostic, never a user error.
	Matched   bool
	Retries   int
	AudioPath string
}

// RunOutput is the terminal state of one pipeline run. ReplyText is never
// empty here, regardless of which collaborators failed along the way.
type RunOutput struct {
	UserID         string
	ConversationID string
	Transcript     string
	Language       string
	Crop           string
	ReplyText      string
	AudioReplyPath string
	Vision         *VisionFindings
	Weather        *WeatherSnapshot
}

// RunState stores per-run state for the pipeline graph.
// Concurrency model:
//   - This struct is registered as Graph Local State via compose.WithGenLocalState,
//     so each Invoke gets its own instance; runs never observe each other.
//   - All reads/writes happen only inside Eino state handlers
//     (WithStatePreHandler, WithStatePostHandler) or compose.ProcessState,
//     which serialize access. No additional locking is required.
type RunState struct {
	UserID         string
	ConversationID string

	AudioPresent bool
	Image        *Image
	Location     *Location

	Transcript string
	Language   string

	Intent  *IntentResult
	Vision  *VisionFindings
	Weather *WeatherSnapshot

	ReplyText     string
	ReplyLanguage string
	ReplyMatched  bool
	ReplyRetries  int

	AudioReplyPath string

	History []*schema.Message // loaded for the text profile only
}
