// Package chat models the conversation with the report assistant.
package chat

import (
	"strings"
	"time"

	"github.com/vannoppenjarno/automatic-reporting/internal/api"
)

// FallbackAnswer is shown in place of an answer when the assistant call
// fails. Raw error detail never reaches the conversation.
const FallbackAnswer = "There was an error calling the assistant. Please try again."

// Role identifies who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation turn. Turns are never edited after being
// appended.
type Message struct {
	Role      Role
	Content   string
	Citations []api.Citation
	At        time.Time
}

// Log is the append-only conversation history for the current session.
type Log struct {
	messages []Message
}

// NewLog returns an empty log.
func NewLog() *Log { return &Log{} }

// AppendUser adds a user turn. The text is trimmed first; whitespace-only
// input is rejected and nothing is appended.
func (l *Log) AppendUser(text string) (Message, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, false
	}
	msg := Message{Role: RoleUser, Content: text, At: time.Now()}
	l.messages = append(l.messages, msg)
	return msg, true
}

// AppendAssistant adds an assistant turn. A nil citation list is stored as
// empty.
func (l *Log) AppendAssistant(answer string, citations []api.Citation) Message {
	if citations == nil {
		citations = []api.Citation{}
	}
	msg := Message{Role: RoleAssistant, Content: answer, Citations: citations, At: time.Now()}
	l.messages = append(l.messages, msg)
	return msg
}

// Messages returns the turns in append order.
func (l *Log) Messages() []Message { return l.messages }

// Len returns the number of turns.
func (l *Log) Len() int { return len(l.messages) }
