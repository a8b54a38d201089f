package nodes

import (
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishibondhu/server/internal/assistant/model"
)

func TestUserMessageTextOnly(t *testing.T) {
	msg := userMessage("hello", nil)

	assert.Equal(t, schema.User, msg.Role)
	assert.Equal(t, "hello", msg.Content)
	assert.Empty(t, msg.MultiContent)
}

func TestUserMessageWithImage(t *testing.T) {
	image := &model.Image{Data: []byte{0xFF, 0xD8, 0xFF}, MIMEType: "image/jpeg"}

	msg := userMessage("what is this", image)

	require.Len(t, msg.MultiContent, 2)
	assert.Equal(t, schema.ChatMessagePartTypeText, msg.MultiContent[0].Type)
	assert.Equal(t, "what is this", msg.MultiContent[0].Text)

	part := msg.MultiContent[1]
	assert.Equal(t, schema.ChatMessagePartTypeImageURL, part.Type)
	require.NotNil(t, part.ImageURL)
	assert.True(t, strings.HasPrefix(part.ImageURL.URL, "data:image/jpeg;base64,"))
	assert.Equal(t, "image/jpeg", part.ImageURL.MIMEType)
}

func TestUserMessageDefaultsMIMEType(t *testing.T) {
	image := &model.Image{Data: []byte{0x01}}

	msg := userMessage("q", image)

	require.Len(t, msg.MultiContent, 2)
	assert.True(t, strings.HasPrefix(msg.MultiContent[1].ImageURL.URL, "data:image/jpeg;base64,"))
}
