package nodes

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/krishibondhu/server/internal/assistant/graph/conversations"
	"github.com/krishibondhu/server/internal/assistant/graph/prompts"
	"github.com/krishibondhu/server/internal/assistant/lang"
	"github.com/krishibondhu/server/internal/assistant/model"
	logx "github.com/krishibondhu/server/pkg/logger"
)

var errEmptyCompletion = errors.New("model returned an empty completion")

// NewGenerateReplyNode produces the reply text. It classifies the input
// profile, assembles the context summary, and calls the response model under
// the language consistency loop. Every failure path ends in a heuristic
// fallback reply, so the node never returns an empty reply.
func NewGenerateReplyNode(cm *ChatModels, messagesManager *conversations.MessagesManager, maxRetries int, timeout time.Duration) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.ContextBundle) (*model.Reply, error) {
		var (
			image          *model.Image
			location       *model.Location
			audioPresent   bool
			conversationID string
		)
		if err := compose.ProcessState(ctx, func(_ context.Context, state *model.RunState) error {
			image = state.Image
			location = state.Location
			audioPresent = state.AudioPresent
			conversationID = state.ConversationID
			return nil
		}); err != nil {
			return nil, err
		}

		language := in.Language
		if !lang.Valid(language) {
			language = lang.Detect(in.Transcript)
		}

		if strings.TrimSpace(in.Transcript) == "" && image == nil {
			return &model.Reply{Text: prompts.NoInputReply, Language: language, Matched: true}, nil
		}

		profile := model.ClassifyProfile(audioPresent, image != nil, in.Transcript)

		systemPrompt, err := prompts.RenderResponseSystem(ctx, profile)
		if err != nil {
			logx.Error().Err(err).Str("profile", string(profile)).Msg("response system prompt render failed")
			return fallback(in, language), nil
		}

		base := []*schema.Message{schema.SystemMessage(systemPrompt)}
		if profile == model.ProfileText {
			history, err := messagesManager.History(ctx, conversationID)
			if err != nil {
				logx.Warn().Err(err).Str("conversation_id", conversationID).Msg("history load failed, generating without it")
			} else {
				base = append(base, history...)
			}
		}

		contextSummary := assembleContext(in, location, image != nil)
		generationPrompt := prompts.GenerationPrompt(profile, contextSummary, language)

		tctx, cancel := stageContext(ctx, timeout)
		defer cancel()

		generate := func(attempt int, previous string) (string, error) {
			content := generationPrompt
			if attempt > 0 {
				content = prompts.CorrectionPrompt(in.Transcript, previous, language)
			}
			messages := append(append([]*schema.Message{}, base...), userMessage(content, image))
			output, err := cm.Response.Generate(tctx, messages)
			if err != nil {
				return "", err
			}
			reply := strings.TrimSpace(output.Content)
			if reply == "" {
				return "", errEmptyCompletion
			}
			return reply, nil
		}
		validate := func(reply string) bool {
			return lang.Detect(reply) == language
		}

		result, err := lang.Enforce(generate, validate, maxRetries)
		if err != nil {
			logx.Warn().Err(err).Str("profile", string(profile)).Msg("response generation failed, using heuristic fallback")
			return fallback(in, language), nil
		}
		if !result.Matched {
			logx.Warn().
				Str("expected", language).
				Str("got", lang.Detect(result.Reply)).
				Int("retries", result.Retries).
				Msg("reply language still mismatched after retry budget")
		}

		return &model.Reply{
			Text:     result.Reply,
			Language: language,
			Matched:  result.Matched,
			Retries:  result.Retries,
		}, nil
	})
}

// NewGenerateReplyPostHandler records the reply in state and appends it to
// the conversation as an assistant turn.
func NewGenerateReplyPostHandler(messagesManager *conversations.MessagesManager) func(ctx context.Context, out *model.Reply, state *model.RunState) (*model.Reply, error) {
	return func(ctx context.Context, out *model.Reply, state *model.RunState) (*model.Reply, error) {
		state.ReplyText = out.Text
		state.ReplyLanguage = out.Language
		state.ReplyMatched = out.Matched
		state.ReplyRetries = out.Retries

		if out.Text != "" && state.ConversationID != "" {
			if err := messagesManager.SaveReply(ctx, state.ConversationID, out.Text); err != nil {
				logx.Error().Err(err).Str("conversation_id", state.ConversationID).Msg("failed to save assistant turn")
			}
		}
		return out, nil
	}
}

// fallback wraps the heuristic reply. The fallback is English keyword
// matching, so a detected mismatch for Bengali requests is expected and
// recorded as such.
func fallback(in model.ContextBundle, language string) *model.Reply {
	text := fallbackReply(in.Transcript)
	return &model.Reply{
		Text:     text,
		Language: language,
		Matched:  lang.Detect(text) == language,
	}
}

// userMessage builds the user turn, attaching the image as an inline data URI
// part for the multimodal profiles.
func userMessage(content string, image *model.Image) *schema.Message {
	if image == nil {
		return schema.UserMessage(content)
	}

	mime := image.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	dataURI := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(image.Data)

	return &schema.Message{
		Role: schema.User,
		MultiContent: []schema.ChatMessagePart{
			{
				Type: schema.ChatMessagePartTypeText,
				Text: content,
			},
			{
				Type: schema.ChatMessagePartTypeImageURL,
				ImageURL: &schema.ChatMessageImageURL{
					URL:      dataURI,
					MIMEType: mime,
				},
			},
		},
	}
}
