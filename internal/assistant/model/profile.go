package model

import "strings"

// InputProfile selects the instruction template and context-assembly emphasis
// for response generation.
type InputProfile string

const (
	// ProfileVoice: the original input was recorded audio.
	ProfileVoice InputProfile = "voice"
	// ProfileImageOnly: an image with no transcript text.
	ProfileImageOnly InputProfile = "image_only"
	// ProfileImageWithText: an image accompanied by a question.
	ProfileImageWithText InputProfile = "image_with_text"
	// ProfileText: transcript only, possibly with chat history.
	ProfileText InputProfile = "text"
)

// ClassifyProfile maps the shape of the request onto an input profile.
// Audio wins over image because the voice instructions already cover an
// attached image.
func ClassifyProfile(hasAudio, hasImage bool, transcript string) InputProfile {
	hasText := strings.TrimSpace(transcript) != ""
	switch {
	case hasAudio:
		return ProfileVoice
	case hasImage && !hasText:
		return ProfileImageOnly
	case hasImage && hasText:
		return ProfileImageWithText
	default:
		return ProfileText
	}
}
