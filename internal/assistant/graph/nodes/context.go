package nodes

import (
	"fmt"
	"strings"

	"github.com/krishibondhu/server/internal/assistant/model"
)

const noContextAvailable = "No additional context available."

// assembleContext flattens the bundle into the context summary fed to the
// response model. Absent fields are omitted entirely rather than described,
// so the model never sees "unknown" or "none" placeholders.
func assembleContext(in model.ContextBundle, location *model.Location, hasImage bool) string {
	var parts []string

	if strings.TrimSpace(in.Transcript) != "" {
		parts = append(parts, "Farmer's query/question: "+in.Transcript)
	} else if hasImage {
		parts = append(parts, "Farmer has uploaded an image for analysis (no text question provided).")
	}

	if in.Intent.Crop != "" {
		parts = append(parts, "Identified crop: "+in.Intent.Crop)
	}

	if in.Vision != nil {
		switch {
		case in.Vision.Usable():
			line := "Computer vision analysis detected: " + in.Vision.Disease
			if in.Vision.Confidence != "" {
				line += fmt.Sprintf(" (confidence: %s)", in.Vision.Confidence)
			}
			parts = append(parts, line)
		case in.Vision.Err != "":
			parts = append(parts, "Vision analysis note: "+in.Vision.Err)
		case in.Vision.Description != "":
			parts = append(parts, "Vision analysis note: "+in.Vision.Description)
		}
	}

	if weatherLine := weatherSummary(in.Weather); weatherLine != "" {
		parts = append(parts, weatherLine)
	}

	if location.Valid() {
		parts = append(parts, fmt.Sprintf("Farmer's location: Latitude %.4f, Longitude %.4f (Bangladesh)",
			location.Latitude, location.Longitude))
	}

	if len(parts) == 0 {
		return noContextAvailable
	}
	return strings.Join(parts, "\n")
}

// weatherSummary renders the first hour of the forecast. Precipitation is
// only mentioned when any is actually expected.
func weatherSummary(weather *model.WeatherSnapshot) string {
	if weather.Empty() {
		return ""
	}

	var info []string
	hourly := weather.Hourly
	if len(hourly.Temperature2M) > 0 {
		info = append(info, fmt.Sprintf("Temperature: %.1f°C", hourly.Temperature2M[0]))
	}
	if len(hourly.RelativeHumidity2M) > 0 {
		info = append(info, fmt.Sprintf("Humidity: %.0f%%", hourly.RelativeHumidity2M[0]))
	}
	if len(hourly.Precipitation) > 0 && hourly.Precipitation[0] > 0 {
		info = append(info, fmt.Sprintf("Expected precipitation: %.1fmm", hourly.Precipitation[0]))
	}
	if len(info) == 0 {
		return ""
	}
	return "Weather conditions: " + strings.Join(info, ", ")
}
