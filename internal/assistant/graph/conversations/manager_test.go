package conversations

import (
	"context"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishibondhu/server/internal/assistant/model"
)

type memoryRepo struct {
	messages map[string][]*schema.Message
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{messages: map[string][]*schema.Message{}}
}

func (r *memoryRepo) AddMessage(_ context.Context, conversationID string, message *schema.Message) error {
	r.messages[conversationID] = append(r.messages[conversationID], message)
	return nil
}

func (r *memoryRepo) LoadHistory(_ context.Context, conversationID string) (*model.ConversationHistory, error) {
	return &model.ConversationHistory{
		ConversationID: conversationID,
		Messages:       r.messages[conversationID],
	}, nil
}

func (r *memoryRepo) ClearHistory(_ context.Context, conversationID string) error {
	delete(r.messages, conversationID)
	return nil
}

func (r *memoryRepo) GetMessageCount(_ context.Context, conversationID string) (int, error) {
	return len(r.messages[conversationID]), nil
}

func managerWith(maxTurns int) (*MessagesManager, *memoryRepo) {
	repo := newMemoryRepo()
	var cfg model.ConversationConfig
	cfg.History.MaxTurns = maxTurns
	return NewMessagesManager(repo, cfg), repo
}

func TestAppendAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	mm, _ := managerWith(10)

	require.NoError(t, mm.AppendUserTurn(ctx, "c1", "how do I plant rice"))
	require.NoError(t, mm.SaveReply(ctx, "c1", "plant in monsoon season"))

	msgs, err := mm.History(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, schema.User, msgs[0].Role)
	assert.Equal(t, "how do I plant rice", msgs[0].Content)
	assert.Equal(t, schema.Assistant, msgs[1].Role)
}

func TestHistoryTrimsToWindow(t *testing.T) {
	ctx := context.Background()
	mm, _ := managerWith(3)

	for i := 0; i < 6; i++ {
		require.NoError(t, mm.AppendUserTurn(ctx, "c1", fmt.Sprintf("turn %d", i)))
	}

	msgs, err := mm.History(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "turn 3", msgs[0].Content)
	assert.Equal(t, "turn 5", msgs[2].Content)
}

func TestHistoryIsolatesConversations(t *testing.T) {
	ctx := context.Background()
	mm, _ := managerWith(10)

	require.NoError(t, mm.AppendUserTurn(ctx, "a", "rice question"))
	require.NoError(t, mm.AppendUserTurn(ctx, "b", "tomato question"))

	msgs, err := mm.History(ctx, "a")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "rice question", msgs[0].Content)
}
