package nodes

import (
	"fmt"
	"strings"
)

// fallbackReply returns a canned agronomy answer keyed on the transcript when
// the response model is unavailable. The replies are deliberately generic but
// honest about the degraded state.
func fallbackReply(transcript string) string {
	query := strings.ToLower(strings.TrimSpace(transcript))

	switch {
	case query == "":
		return "I received your request but couldn't process it fully right now. " +
			"Please try again in a moment, or share more details about your farming question."

	case strings.Contains(query, "tomato"):
		return "For tomato cultivation in Bangladesh: plant during October-November for winter season. " +
			"Use well-drained soil, water regularly but avoid waterlogging, and watch for early blight and leaf curl. " +
			"Apply balanced fertilizer with adequate potassium for good fruit development."

	case strings.Contains(query, "leaf") || strings.Contains(query, "disease"):
		return "Leaf problems can be caused by various factors: fungal diseases (apply fungicide), " +
			"nutrient deficiency (use balanced fertilizer), or pest damage (inspect the underside of leaves). " +
			"Remove affected leaves and ensure the field is not waterlogged. " +
			"If symptoms spread, consult your local agriculture extension office."

	default:
		return fmt.Sprintf("Thank you for your question: '%s'. "+
			"I'm currently experiencing technical difficulties providing a detailed answer. "+
			"Please try again shortly, or contact your local agriculture extension office for immediate assistance.", transcript)
	}
}
