package conversations

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"github.com/krishibondhu/server/internal/assistant/model"
)

// MessagesManager mediates between the pipeline and the conversation
// repository. Only the text profile consumes history; every profile appends
// to it so follow-up chat turns can reference earlier requests.
type MessagesManager struct {
	conversationRepo model.ConversationRepository
	maxTurns         int
}

func NewMessagesManager(conversationRepo model.ConversationRepository, config model.ConversationConfig) *MessagesManager {
	return &MessagesManager{
		conversationRepo: conversationRepo,
		maxTurns:         config.History.MaxTurns,
	}
}

// AppendUserTurn records the resolved transcript as a user turn.
func (m *MessagesManager) AppendUserTurn(ctx context.Context, conversationID, transcript string) error {
	return m.conversationRepo.AddMessage(ctx, conversationID, schema.UserMessage(transcript))
}

// History returns the most recent turns, oldest first, trimmed to the
// configured window. The current user turn is already part of the history by
// the time response generation runs.
func (m *MessagesManager) History(ctx context.Context, conversationID string) ([]*schema.Message, error) {
	history, err := m.conversationRepo.LoadHistory(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return trimTail(history.Messages, m.maxTurns), nil
}

// SaveReply records the generated reply as an assistant turn.
func (m *MessagesManager) SaveReply(ctx context.Context, conversationID, content string) error {
	return m.conversationRepo.AddMessage(ctx, conversationID, schema.AssistantMessage(content, nil))
}

// trimTail keeps the last maxTurns messages, copying so callers never alias
// repository-owned slices.
func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if maxTurns <= 0 || len(messages) <= maxTurns {
		result := make([]*schema.Message, len(messages))
		copy(result, messages)
		return result
	}
	source := messages[len(messages)-maxTurns:]
	result := make([]*schema.Message, len(source))
	copy(result, source)
	return result
}
