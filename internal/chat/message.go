// Package chat is the coach chat of a dashboard view. Replies come from an
// Assistant; the only one shipped is a scripted stub.
package chat

import "time"

type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

const Greeting = "Hi! I'm Fitty, your AI fitness coach! 😺 How can I help you today?"

// Message is immutable once created.
type Message struct {
	Speaker Speaker   `json:"speaker"`
	Text    string    `json:"text"`
	SentAt  time.Time `json:"sent_at"`
}
