package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 25, 12, 0, 0, 0, time.UTC)
}

func TestConversation_Greeting(t *testing.T) {
	conv := NewConversation(NewScriptedAssistant(), fixedNow)
	msgs := conv.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, SpeakerAssistant, msgs[0].Speaker)
	assert.Equal(t, Greeting, msgs[0].Text)
}

func TestConversation_SendAppendsInOrder(t *testing.T) {
	conv := NewConversation(NewScriptedAssistant(), fixedNow)

	sent, err := conv.Send(context.Background(), "  I feel tired  ")
	require.NoError(t, err)
	require.Len(t, sent, 2)
	assert.Equal(t, SpeakerUser, sent[0].Speaker)
	assert.Equal(t, "I feel tired", sent[0].Text)
	assert.Equal(t, SpeakerAssistant, sent[1].Speaker)
	assert.Contains(t, sent[1].Text, "fatigue")

	_, err = conv.Send(context.Background(), "hello")
	require.NoError(t, err)

	msgs := conv.Messages()
	require.Len(t, msgs, 5)
	speakers := make([]Speaker, len(msgs))
	for i, m := range msgs {
		speakers[i] = m.Speaker
	}
	assert.Equal(t, []Speaker{SpeakerAssistant, SpeakerUser, SpeakerAssistant, SpeakerUser, SpeakerAssistant}, speakers)
	assert.Equal(t, "hello", msgs[3].Text)
}

func TestConversation_ConcurrentSendsKeepReplyAfterItsMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	assistant := NewMockAssistant(ctrl)

	firstInReply := make(chan struct{})
	releaseFirst := make(chan struct{})
	assistant.EXPECT().Reply(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ []Message, text string) (string, error) {
			if text == "first" {
				close(firstInReply)
				<-releaseFirst
			}
			return "re: " + text, nil
		}).Times(2)

	conv := NewConversation(assistant, fixedNow)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := conv.Send(context.Background(), "first")
		assert.NoError(t, err)
	}()
	<-firstInReply
	go func() {
		defer wg.Done()
		_, err := conv.Send(context.Background(), "second")
		assert.NoError(t, err)
	}()
	// give the second send time to contend for the conversation
	time.Sleep(20 * time.Millisecond)
	close(releaseFirst)
	wg.Wait()

	msgs := conv.Messages()
	require.Len(t, msgs, 5)
	for i := 1; i < len(msgs); i += 2 {
		require.Equal(t, SpeakerUser, msgs[i].Speaker)
		require.Equal(t, SpeakerAssistant, msgs[i+1].Speaker)
		assert.Equal(t, "re: "+msgs[i].Text, msgs[i+1].Text)
	}
}

func TestConversation_EmptyRejected(t *testing.T) {
	conv := NewConversation(NewScriptedAssistant(), fixedNow)
	_, err := conv.Send(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Equal(t, 1, conv.Len())
}

func TestConversation_MessagesIsACopy(t *testing.T) {
	conv := NewConversation(NewScriptedAssistant(), fixedNow)
	msgs := conv.Messages()
	msgs[0].Text = "changed"
	assert.Equal(t, Greeting, conv.Messages()[0].Text)
}

func TestConversation_AssistantFailureKeepsUserMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	assistant := NewMockAssistant(ctrl)
	assistant.EXPECT().
		Reply(gomock.Any(), gomock.Len(2), "how am I doing").
		Return("", errors.New("backend unavailable"))

	conv := NewConversation(assistant, fixedNow)
	sent, err := conv.Send(context.Background(), "how am I doing")
	require.Error(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, SpeakerUser, sent[0].Speaker)
	assert.Equal(t, 2, conv.Len())
}

func TestScriptedAssistant_Reply(t *testing.T) {
	a := NewScriptedAssistant()
	reply, err := a.Reply(context.Background(), nil, "Which ZONE should I train in?")
	require.NoError(t, err)
	assert.Contains(t, reply, "Power zone")

	reply, err = a.Reply(context.Background(), nil, "something else")
	require.NoError(t, err)
	assert.Equal(t, a.fallback, reply)
}
