package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/krishibondhu/server/internal/assistant/model"
)

//go:embed template/intent_prompt.txt
var intentSystemPrompt string

//go:embed template/voice_prompt.txt
var voiceSystemPrompt string

//go:embed template/image_prompt.txt
var imageSystemPrompt string

//go:embed template/chat_prompt.txt
var chatSystemPrompt string

// RenderIntentSystem renders the extraction system prompt via the Eino prompt
// component. Routing through the component triggers Prompt callbacks.
func RenderIntentSystem(ctx context.Context) (string, error) {
	return renderSystem(ctx, intentSystemPrompt)
}

// RenderResponseSystem returns the system instruction for the given input
// profile. The voice and image profiles disclaim any carryover from prior
// requests; the text profile explicitly permits referencing chat history.
func RenderResponseSystem(ctx context.Context, profile model.InputProfile) (string, error) {
	var content string
	switch profile {
	case model.ProfileVoice:
		content = voiceSystemPrompt
	case model.ProfileImageOnly, model.ProfileImageWithText:
		content = imageSystemPrompt
	default:
		content = chatSystemPrompt
	}
	return renderSystem(ctx, content)
}

// renderSystem wraps a literal system prompt via a messages placeholder so
// brace-heavy template text is never interpreted as format directives.
func renderSystem(ctx context.Context, content string) (string, error) {
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("system prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("system prompt render: empty result")
	}
	return msgs[0].Content, nil
}
