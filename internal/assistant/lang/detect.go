package lang

import "strings"

// Language tags understood by the pipeline. There is no third value;
// unclassifiable input is treated as English.
const (
	Bengali = "bn"
	English = "en"
)

// bengaliIndicators covers transliterated or mixed-script input where the
// Bengali block scan alone is not decisive. Greetings plus the agricultural
// vocabulary farmers actually use.
var bengaliIndicators = []string{
	"আমি", "তুমি", "আপনি", "কী", "কেন", "কখন", "কোথায়", "কিভাবে",
	"ধন্যবাদ", "নমস্কার", "ফসল", "ধান", "আলু", "টমেটো", "রোগ", "পোকা",
	"কৃষি", "চাষ", "জমি", "বীজ", "সার", "পানি", "বৃষ্টি", "সূর্য",
	"কীটনাশক", "ফল", "শাক", "সবজি", "গাছ", "গাছপালা",
}

// Valid reports whether tag is one of the two supported language tags.
func Valid(tag string) bool {
	return tag == Bengali || tag == English
}

// Detect classifies text as Bengali or English. Any code point in the
// Bengali Unicode block (U+0980..U+09FF) wins, then the indicator word list,
// then the presence of a basic-Latin letter. Empty or unclassifiable text
// defaults to English. Deterministic, no failure mode.
func Detect(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return English
	}

	for _, r := range text {
		if r >= 0x0980 && r <= 0x09FF {
			return Bengali
		}
	}

	for _, word := range bengaliIndicators {
		if strings.Contains(text, word) {
			return Bengali
		}
	}

	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return English
		}
	}

	return English
}
