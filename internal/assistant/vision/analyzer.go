package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/krishibondhu/server/internal/assistant/graph/parsers"
	"github.com/krishibondhu/server/internal/assistant/model"
)

const analysisPrompt = `You are an expert agricultural plant pathologist. Analyze this crop image.

Respond with ONLY a JSON object in exactly this format:
{
  "crop": "identified crop name or empty string",
  "disease": "specific disease/pest name, or no_detection if the plant looks healthy or the image is unclear",
  "symptoms": "visible symptoms you observe",
  "description": "short plain-language summary of what you see",
  "confidence": "low, medium, or high"
}

Only report a disease you can actually see evidence of in the image. If you are not sure, use no_detection with a low confidence. Never invent a diagnosis.`

// GeminiAnalyzer inspects crop images with a multimodal Gemini model and
// returns structured findings.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

func NewGeminiAnalyzer(client *genai.Client, config model.VisionConfig) *GeminiAnalyzer {
	return &GeminiAnalyzer{
		client: client,
		model:  config.Model,
	}
}

func (a *GeminiAnalyzer) Analyze(ctx context.Context, image model.Image) (*model.VisionFindings, error) {
	mime := image.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image.Data, mime),
			genai.NewPartFromText(analysisPrompt),
		}, genai.RoleUser),
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("vision analysis request: %w", err)
	}

	return parseFindings(resp.Text()), nil
}

// parseFindings decodes the model output. Non-JSON output degrades to a
// descriptive no-detection result instead of failing the stage.
func parseFindings(raw string) *model.VisionFindings {
	cleaned := strings.TrimSpace(parsers.StripCodeFence(raw))

	var findings model.VisionFindings
	if err := json.Unmarshal([]byte(cleaned), &findings); err != nil {
		return &model.VisionFindings{
			Disease:     "no_detection",
			Description: strings.TrimSpace(raw),
			Confidence:  "low",
		}
	}
	if findings.Disease == "" {
		findings.Disease = "no_detection"
	}
	return &findings
}
