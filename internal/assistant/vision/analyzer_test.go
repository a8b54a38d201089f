package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFindingsPlainJSON(t *testing.T) {
	raw := `{"crop": "tomato", "disease": "early_blight", "symptoms": "brown concentric rings on lower leaves", "description": "classic early blight lesions", "confidence": "high"}`

	findings := parseFindings(raw)

	assert.Equal(t, "tomato", findings.Crop)
	assert.Equal(t, "early_blight", findings.Disease)
	assert.Equal(t, "high", findings.Confidence)
	assert.True(t, findings.Usable())
}

func TestParseFindingsFencedJSON(t *testing.T) {
	raw := "```json\n{\"crop\": \"rice\", \"disease\": \"no_detection\", \"symptoms\": \"\", \"description\": \"healthy rice plant\", \"confidence\": \"medium\"}\n```"

	findings := parseFindings(raw)

	assert.Equal(t, "rice", findings.Crop)
	assert.Equal(t, "no_detection", findings.Disease)
	assert.False(t, findings.Usable())
}

func TestParseFindingsNonJSONDegrades(t *testing.T) {
	raw := "I can see a plant with some yellowing but cannot make out details."

	findings := parseFindings(raw)

	assert.Equal(t, "no_detection", findings.Disease)
	assert.Equal(t, raw, findings.Description)
	assert.Equal(t, "low", findings.Confidence)
	assert.False(t, findings.Usable())
}

func TestParseFindingsEmptyDiseaseNormalized(t *testing.T) {
	raw := `{"crop": "jute", "disease": "", "symptoms": "", "description": "healthy", "confidence": "high"}`

	findings := parseFindings(raw)

	assert.Equal(t, "no_detection", findings.Disease)
	assert.False(t, findings.Usable())
}
