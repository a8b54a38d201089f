package prompts

import (
	"fmt"
	"strings"

	"github.com/krishibondhu/server/internal/assistant/lang"
	"github.com/krishibondhu/server/internal/assistant/model"
)

// NoInputReply is the fixed short-circuit reply when the request carries
// neither a transcript nor an image. No collaborator is called in that case.
const NoInputReply = "Please provide a question, upload an image, or record your voice to get assistance."

const bengaliDirective = `
You MUST respond ONLY in Bengali (বাংলা). Every single word must be in Bengali script.

ABSOLUTE REQUIREMENTS FOR BENGALI RESPONSE:
- Write the response using ONLY Bengali script
- Do NOT use ANY English words or Latin characters
- Do NOT mix languages

Example of a CORRECT Bengali response:
"আপনার ধানের পাতা হলুদ হওয়া সাধারণত পুষ্টির অভাব থেকে হয়। আপনি ইউরিয়া সার প্রয়োগ করুন এবং সেচ প্রদান করুন।"

WRONG examples you MUST NOT produce:
- "আপনার rice এর পাতা yellowing" (has English words)
- "Your ধান has disease" (mixed languages)

Remember: The user asked in Bengali. You MUST respond ONLY in Bengali script, no exceptions.`

const englishDirective = `
You MUST respond ONLY in English. Every single word must be in English.

ABSOLUTE REQUIREMENTS FOR ENGLISH RESPONSE:
- Write the response using ONLY English words and characters
- Do NOT use ANY Bengali words or script
- Do NOT mix languages

Example of a CORRECT English response:
"Your rice leaves turning yellow typically indicates nutrient deficiency. Apply urea fertilizer and provide adequate irrigation."

WRONG examples you MUST NOT produce:
- "আপনার rice has disease" (has Bengali)
- "Rice রোগ detected" (mixed languages)

Remember: The user asked in English. You MUST respond ONLY in English, no exceptions.`

// LanguageName is the human-readable form used inside prompt text.
func LanguageName(language string) string {
	if language == lang.Bengali {
		return "Bengali (বাংলা)"
	}
	return "English"
}

// LanguageDirective returns the hard language constraint block for the reply.
func LanguageDirective(language string) string {
	if language == lang.Bengali {
		return bengaliDirective
	}
	return englishDirective
}

// generation task lists per profile
const (
	imageOnlyTasks = `Please:
1. Describe what you see in the image (crop type, growth stage, visible issues)
2. Identify any problems (diseases, pests, nutrient deficiencies, etc.) - ONLY based on what's visible
3. Provide specific treatment recommendations
4. Suggest preventive measures`

	imageWithTextTasks = `Please:
1. Address the farmer's specific question
2. Analyze the image in relation to their question
3. Provide comprehensive advice combining both the question and image analysis
4. Give actionable recommendations`

	defaultTasks = `Please provide:
1. A direct answer to the farmer's question
2. Practical, actionable advice
3. Specific recommendations when applicable
4. Any relevant warnings or considerations`
)

// GenerationPrompt assembles the user prompt for the response model from the
// input profile, the context summary, and the language constraint.
func GenerationPrompt(profile model.InputProfile, contextSummary, language string) string {
	var tasks, header string
	switch profile {
	case model.ProfileImageOnly:
		header = "CRITICAL: Analyze ONLY the image provided in THIS request. Ignore any previous context."
		tasks = imageOnlyTasks
	case model.ProfileImageWithText:
		header = "CRITICAL: Analyze ONLY THIS image and question. Ignore any previous context, conversations, or images."
		tasks = imageWithTextTasks
	default:
		header = "Answer the farmer's current question. Base the answer on the context below."
		tasks = defaultTasks
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\nCURRENT REQUEST CONTEXT:\n")
	b.WriteString(contextSummary)
	b.WriteString("\n\n")
	b.WriteString(tasks)
	b.WriteString("\n")
	b.WriteString(LanguageDirective(language))
	fmt.Fprintf(&b, "\nThe farmer's input language is: %s. You MUST respond in %s.",
		LanguageName(language), LanguageName(language))
	return b.String()
}

// CorrectionPrompt quotes the rejected reply and restates the language
// requirement for a regeneration attempt.
func CorrectionPrompt(query, previousReply, language string) string {
	if strings.TrimSpace(query) == "" {
		query = "Image analysis request"
	}
	preview := previousReply
	if len(preview) > 200 {
		preview = truncateUTF8(preview, 200) + "..."
	}
	name := LanguageName(language)
	return fmt.Sprintf(`The previous response was in the wrong language.

ORIGINAL QUERY: %s

PREVIOUS RESPONSE (WRONG LANGUAGE): %s

CRITICAL: You MUST respond in %s ONLY. The previous response used the wrong language.
%s

Please regenerate your response in %s ONLY.`, query, preview, name, LanguageDirective(language), name)
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && (s[n]&0xC0) == 0x80 {
		n--
	}
	return s[:n]
}
