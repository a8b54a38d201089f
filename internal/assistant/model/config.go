package model

// ================ Config ================
type PipelineConfig struct {
	// MaxLanguageRetries bounds the regenerate-and-revalidate loop when the
	// reply language mismatches the request language.
	MaxLanguageRetries int    `envconfig:"PIPELINE_MAX_LANGUAGE_RETRIES" default:"2"`
	StageTimeout       string `envconfig:"PIPELINE_STAGE_TIMEOUT" default:"30s"`
	UploadDir          string `envconfig:"PIPELINE_UPLOAD_DIR" default:"uploads"`
	// RunTTL bounds how long archived runs stay in Redis.
	RunTTL string `envconfig:"PIPELINE_RUN_TTL" default:"720h"`
}

type ConversationConfig struct {
	TTL     string `envconfig:"CONVERSATION_TTL" default:"15m"`
	History struct {
		MaxTurns int `envconfig:"CONVERSATION_HISTORY_MAX_TURNS" default:"10"`
	}
}

type IntentModelConfig struct {
	Model       string  `envconfig:"INTENT_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"INTENT_MAX_TOKENS" default:"1024"`
	Temperature float32 `envconfig:"INTENT_TEMPERATURE" default:"0.1"`
}

type ResponseModelConfig struct {
	Model       string  `envconfig:"RESPONSE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"RESPONSE_MAX_TOKENS" default:"2048"`
	Temperature float32 `envconfig:"RESPONSE_TEMPERATURE" default:"0.4"`
}

type TranscriberConfig struct {
	Model string `envconfig:"STT_MODEL" default:"gemini-2.5-flash"`
}

type VisionConfig struct {
	Model string `envconfig:"VISION_MODEL" default:"gemini-2.5-flash"`
}

type WeatherConfig struct {
	BaseURL        string `envconfig:"WEATHER_BASE_URL" default:"https://api.open-meteo.com/v1/forecast"`
	TimeoutSeconds int    `envconfig:"WEATHER_TIMEOUT_SECONDS" default:"10"`
}

type TTSConfig struct {
	BaseURL        string `envconfig:"TTS_BASE_URL" default:"https://translate.google.com/translate_tts"`
	TimeoutSeconds int    `envconfig:"TTS_TIMEOUT_SECONDS" default:"15"`
	// MaxFallbackChars truncates the English-forced retry after a failed
	// synthesis attempt.
	MaxFallbackChars int `envconfig:"TTS_MAX_FALLBACK_CHARS" default:"500"`
}
