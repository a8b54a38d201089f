package nodes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/krishibondhu/server/internal/assistant/model"
)

func TestAssembleContextAllSections(t *testing.T) {
	bundle := model.ContextBundle{
		Transcript: "my tomato leaves are curling",
		Intent:     model.IntentResult{Crop: "tomato", Symptoms: "leaf curl"},
		Vision: &model.VisionFindings{
			Crop:       "tomato",
			Disease:    "leaf_curl_virus",
			Confidence: "high",
		},
		Weather: &model.WeatherSnapshot{
			Hourly: model.HourlySeries{
				Temperature2M:      []float64{31.4},
				RelativeHumidity2M: []float64{82},
				Precipitation:      []float64{2.5},
			},
		},
	}
	location := &model.Location{Latitude: 23.8103, Longitude: 90.4125}

	summary := assembleContext(bundle, location, true)

	assert.Contains(t, summary, "Farmer's query/question: my tomato leaves are curling")
	assert.Contains(t, summary, "Identified crop: tomato")
	assert.Contains(t, summary, "Computer vision analysis detected: leaf_curl_virus (confidence: high)")
	assert.Contains(t, summary, "Temperature: 31.4°C")
	assert.Contains(t, summary, "Humidity: 82%")
	assert.Contains(t, summary, "Expected precipitation: 2.5mm")
	assert.Contains(t, summary, "Latitude 23.8103, Longitude 90.4125")
}

func TestAssembleContextOmitsAbsentFields(t *testing.T) {
	bundle := model.ContextBundle{Transcript: "when should I irrigate?"}

	summary := assembleContext(bundle, nil, false)

	assert.Contains(t, summary, "Farmer's query/question: when should I irrigate?")
	assert.NotContains(t, summary, "Identified crop")
	assert.NotContains(t, summary, "vision")
	assert.NotContains(t, summary, "Weather conditions")
	assert.NotContains(t, summary, "location")
	assert.NotContains(t, summary, "unknown")
	assert.NotContains(t, summary, "none")
}

func TestAssembleContextImageOnly(t *testing.T) {
	summary := assembleContext(model.ContextBundle{}, nil, true)
	assert.Contains(t, summary, "Farmer has uploaded an image for analysis")
}

func TestAssembleContextVisionErrorMarker(t *testing.T) {
	bundle := model.ContextBundle{
		Transcript: "what is wrong with this plant",
		Vision:     &model.VisionFindings{Err: "analysis timed out"},
	}

	summary := assembleContext(bundle, nil, true)

	assert.Contains(t, summary, "Vision analysis note: analysis timed out")
	assert.NotContains(t, summary, "Computer vision analysis detected")
}

func TestAssembleContextVisionNoDetection(t *testing.T) {
	bundle := model.ContextBundle{
		Transcript: "check this leaf",
		Vision: &model.VisionFindings{
			Disease:     "no_detection",
			Description: "image too blurry for diagnosis",
		},
	}

	summary := assembleContext(bundle, nil, true)

	assert.Contains(t, summary, "Vision analysis note: image too blurry for diagnosis")
	assert.NotContains(t, summary, "Computer vision analysis detected")
}

func TestAssembleContextZeroPrecipitationOmitted(t *testing.T) {
	bundle := model.ContextBundle{
		Transcript: "rice question",
		Weather: &model.WeatherSnapshot{
			Hourly: model.HourlySeries{
				Temperature2M:      []float64{28.0},
				RelativeHumidity2M: []float64{70},
				Precipitation:      []float64{0},
			},
		},
	}

	summary := assembleContext(bundle, nil, false)

	assert.Contains(t, summary, "Temperature: 28.0°C")
	assert.NotContains(t, summary, "precipitation")
}

func TestAssembleContextEmpty(t *testing.T) {
	assert.Equal(t, noContextAvailable, assembleContext(model.ContextBundle{}, nil, false))
}
