package tts

import (
	"regexp"
	"strings"
)

// Markdown constructs are stripped before synthesis so the voice never reads
// out asterisks, list markers, or raw URLs, and never pauses on blank lines.
var (
	boldPattern      = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicPattern    = regexp.MustCompile(`\*([^*]+)\*`)
	boldUnderPattern = regexp.MustCompile(`__([^_]+)__`)
	underPattern     = regexp.MustCompile(`_([^_]+)_`)
	headerPattern    = regexp.MustCompile(`(?m)^#+\s+`)
	linkPattern      = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	fencePattern     = regexp.MustCompile("```[\\s\\S]*?```")
	codePattern      = regexp.MustCompile("`([^`]*)`")
	bulletPattern    = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	orderedPattern   = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	symbolPattern    = regexp.MustCompile("[#*_~`]")
	spacePattern     = regexp.MustCompile(`\s+`)
)

// CleanForSpeech strips markdown formatting from reply text, keeping the
// visible words. Link targets are dropped, link labels kept; fenced code
// blocks are removed whole; all whitespace runs collapse to single spaces.
func CleanForSpeech(text string) string {
	s := boldPattern.ReplaceAllString(text, "$1")
	s = italicPattern.ReplaceAllString(s, "$1")
	s = boldUnderPattern.ReplaceAllString(s, "$1")
	s = underPattern.ReplaceAllString(s, "$1")
	s = headerPattern.ReplaceAllString(s, "")
	s = linkPattern.ReplaceAllString(s, "$1")
	s = fencePattern.ReplaceAllString(s, "")
	s = codePattern.ReplaceAllString(s, "$1")
	s = bulletPattern.ReplaceAllString(s, "")
	s = orderedPattern.ReplaceAllString(s, "")
	s = symbolPattern.ReplaceAllString(s, "")
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
