package ai

import (
	"context"
	"sync"

	tccommon "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	v20230901 "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/hunyuan/v20230901"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/memory"
)

// historyWindow bounds how many prior turns are replayed per request.
const historyWindow = 10

// ChatSession is a stateful conversation with the model. The session owns
// the history: callers send only the new turn, and the window-buffer
// memory replays recent context on every request.
type ChatSession struct {
	mu     sync.Mutex
	client *Client
	system string
	memory *memory.ConversationWindowBuffer
}

// NewChat opens a chat session under a system instruction. The streaming
// credential is checked here so a misconfigured deployment fails before
// any session state exists.
func (c *Client) NewChat(system string) (*ChatSession, error) {
	if c.secretID == "" || c.secret == "" {
		return nil, ErrNotConfigured
	}
	return &ChatSession{
		client: c,
		system: system,
		memory: memory.NewConversationWindowBuffer(historyWindow),
	}, nil
}

// SendStream sends one user turn and streams the reply through onDelta in
// arrival order, returning the full text. On failure the turn is not
// recorded, so the session history stays as it was before the call.
func (s *ChatSession) SendStream(ctx context.Context, text string, onDelta func(string)) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs, err := s.buildMessages(ctx, text)
	if err != nil {
		return "", err
	}
	full, err := s.client.streamChatCompletions(msgs, onDelta)
	if err != nil {
		return "", err
	}
	if err := s.memory.ChatHistory.AddUserMessage(ctx, text); err != nil {
		return full, err
	}
	if err := s.memory.ChatHistory.AddAIMessage(ctx, full); err != nil {
		return full, err
	}
	return full, nil
}

func (s *ChatSession) buildMessages(ctx context.Context, text string) ([]*v20230901.Message, error) {
	history, err := s.memory.ChatHistory.Messages(ctx)
	if err != nil {
		return nil, err
	}
	msgs := []*v20230901.Message{{
		Role:    tccommon.StringPtr("system"),
		Content: tccommon.StringPtr(s.system),
	}}
	for _, h := range history {
		role := "user"
		if h.GetType() == llms.ChatMessageTypeAI {
			role = "assistant"
		}
		msgs = append(msgs, &v20230901.Message{
			Role:    tccommon.StringPtr(role),
			Content: tccommon.StringPtr(h.GetContent()),
		})
	}
	msgs = append(msgs, &v20230901.Message{
		Role:    tccommon.StringPtr("user"),
		Content: tccommon.StringPtr(text),
	})
	return msgs, nil
}
