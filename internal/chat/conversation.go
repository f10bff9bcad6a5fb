package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

var ErrEmptyMessage = errors.New("empty message")

// Conversation is an append-only, insertion-ordered chat log.
type Conversation struct {
	// sendMutex keeps each user message directly followed by its reply.
	sendMutex sync.Mutex
	mutex     sync.Mutex
	assistant Assistant
	now       func() time.Time
	messages  []Message
}

// NewConversation starts a conversation with the assistant greeting.
func NewConversation(assistant Assistant, now func() time.Time) *Conversation {
	if now == nil {
		now = time.Now
	}
	return &Conversation{
		assistant: assistant,
		now:       now,
		messages: []Message{
			{Speaker: SpeakerAssistant, Text: Greeting, SentAt: now()},
		},
	}
}

// Send appends the user message, then the assistant reply. Concurrent sends
// are serialized. If the assistant fails, the user message stays and the
// error is returned.
func (c *Conversation) Send(ctx context.Context, text string) ([]Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()

	c.mutex.Lock()
	userMsg := Message{Speaker: SpeakerUser, Text: text, SentAt: c.now()}
	c.messages = append(c.messages, userMsg)
	history := append([]Message(nil), c.messages...)
	c.mutex.Unlock()

	reply, err := c.assistant.Reply(ctx, history, text)
	if err != nil {
		return []Message{userMsg}, fmt.Errorf("assistant reply: %w", err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	replyMsg := Message{Speaker: SpeakerAssistant, Text: reply, SentAt: c.now()}
	c.messages = append(c.messages, replyMsg)

	return []Message{userMsg, replyMsg}, nil
}

func (c *Conversation) Messages() []Message {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append([]Message(nil), c.messages...)
}

func (c *Conversation) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.messages)
}
