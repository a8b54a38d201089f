package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"google.golang.org/genai"

	"github.com/krishibondhu/server/internal/assistant/graph"
	"github.com/krishibondhu/server/internal/assistant/model"
	"github.com/krishibondhu/server/internal/assistant/repo"
	"github.com/krishibondhu/server/internal/assistant/speech"
	"github.com/krishibondhu/server/internal/assistant/tts"
	"github.com/krishibondhu/server/internal/assistant/vision"
	"github.com/krishibondhu/server/internal/assistant/weather"
	"github.com/krishibondhu/server/internal/core"
	logx "github.com/krishibondhu/server/pkg/logger"
	pkgredis "github.com/krishibondhu/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the assistant,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Pipeline configs
	Intent       model.IntentModelConfig
	Response     model.ResponseModelConfig
	Pipeline     model.PipelineConfig
	Conversation model.ConversationConfig
	Transcriber  model.TranscriberConfig
	Vision       model.VisionConfig
	Weather      model.WeatherConfig
	TTS          model.TTSConfig
}

func main() {
	ctx := context.Background()
	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(envCfg.Environment)})

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	logx.Info().Msg("Connected to Redis successfully")

	conversationTTL, err := time.ParseDuration(envCfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", envCfg.Conversation.TTL, err)
	}
	runTTL, err := time.ParseDuration(envCfg.Pipeline.RunTTL)
	if err != nil {
		log.Fatalf("Invalid PIPELINE_RUN_TTL '%s': %v", envCfg.Pipeline.RunTTL, err)
	}

	// Shared multimodal client for transcription and image analysis
	genaiCfg := &genai.ClientConfig{
		APIKey:  envCfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if envCfg.BaseURL != "" {
		genaiCfg.HTTPOptions.BaseURL = envCfg.BaseURL
	}
	genaiClient, err := genai.NewClient(ctx, genaiCfg)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}

	cfg := graph.Config{
		APIKey:           envCfg.APIKey,
		BaseURL:          envCfg.BaseURL,
		IntentModel:      envCfg.Intent,
		ResponseModel:    envCfg.Response,
		Pipeline:         envCfg.Pipeline,
		Conversation:     envCfg.Conversation,
		ConversationRepo: repo.NewRedisConversationRepository(rdb, conversationTTL),
		Transcriber:      speech.NewGeminiTranscriber(genaiClient, envCfg.Transcriber),
		Vision:           vision.NewGeminiAnalyzer(genaiClient, envCfg.Vision),
		Weather:          weather.NewOpenMeteoProvider(envCfg.Weather),
		Synthesizer:      tts.NewGoogleSynthesizer(envCfg.TTS, envCfg.Pipeline.UploadDir),
		Archive:          repo.NewRedisRunArchive(rdb, runTTL),
	}

	runner, err := graph.BuildPipelineGraph(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to build pipeline graph: %v", err)
	}

	testRequests := []struct {
		description string
		input       model.PipelineInput
	}{
		{
			description: "Bengali text question",
			input: model.PipelineInput{
				UserID:         "demo-farmer",
				ConversationID: "demo-conversation-1",
				Text:           "টমেটো গাছের পাতা কুঁকড়ে যাচ্ছে, কী করব?",
			},
		},
		{
			description: "English follow-up",
			input: model.PipelineInput{
				UserID:         "demo-farmer",
				ConversationID: "demo-conversation-1",
				Text:           "How often should I water them this week?",
			},
		},
		{
			description: "Question with GPS context",
			input: model.PipelineInput{
				UserID:         "demo-farmer",
				ConversationID: "demo-conversation-1",
				Text:           "Should I spray fungicide today?",
				Location:       &model.Location{Latitude: 23.8103, Longitude: 90.4125},
			},
		},
	}

	if imagePath := os.Getenv("DEMO_IMAGE_PATH"); imagePath != "" {
		data, err := os.ReadFile(imagePath)
		if err != nil {
			log.Fatalf("Failed to read demo image %s: %v", imagePath, err)
		}
		testRequests = append(testRequests, struct {
			description string
			input       model.PipelineInput
		}{
			description: "Image diagnosis request",
			input: model.PipelineInput{
				UserID:         "demo-farmer",
				ConversationID: "demo-conversation-1",
				Text:           "What is wrong with this plant?",
				Image:          &model.Image{Data: data, MIMEType: "image/jpeg"},
			},
		})
	}

	for i, test := range testRequests {
		fmt.Printf("\nRequest %d: %s\n", i+1, test.description)
		fmt.Println("Processing...")

		out, err := runner.Run(ctx, test.input)
		if err != nil {
			log.Fatalf("Failed to run pipeline for request %d: %v", i+1, err)
		}

		fmt.Printf("Reply (%s): %s\n", out.Language, out.ReplyText)
		if out.AudioReplyPath != "" {
			fmt.Printf("Audio reply: %s\n", out.AudioReplyPath)
		}
		fmt.Println("─────────────────────────────────────────────")

		// add slight delay between requests for readability
		time.Sleep(500 * time.Millisecond)
	}

	fmt.Println("All pipeline requests completed successfully.")
}
