// Package models defines the data types shared by the conversation, API and TUI packages.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultAssistantName is the label shown above advice replies
const DefaultAssistantName = "RelationshipGPT"

// IDFunc generates message identifiers
type IDFunc func() string

// Clock returns the current instant
type Clock func() time.Time

// Message is a single entry in the chat timeline.
// Values are immutable once created: there are no setters and callers receive copies.
type Message struct {
	ID        string
	Text      string
	IsUser    bool
	Timestamp time.Time
}

// Factory creates messages with a configurable id generator and clock
type Factory struct {
	NewID IDFunc
	Now   Clock
}

// NewFactory returns a Factory backed by random UUIDs and the wall clock
func NewFactory() Factory {
	return Factory{
		NewID: uuid.NewString,
		Now:   time.Now,
	}
}

// User creates a user-authored message
func (f Factory) User(text string) Message {
	return f.build(text, true)
}

// Response creates an advice reply message
func (f Factory) Response(text string) Message {
	return f.build(text, false)
}

func (f Factory) build(text string, isUser bool) Message {
	newID := f.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	now := f.Now
	if now == nil {
		now = time.Now
	}
	return Message{
		ID:        newID(),
		Text:      text,
		IsUser:    isUser,
		Timestamp: now(),
	}
}

// Role returns "user" or "assistant"
func (m Message) Role() string {
	if m.IsUser {
		return RoleUser
	}
	return RoleAssistant
}

// Author returns the display label for the message
func (m Message) Author(assistantName string) string {
	if m.IsUser {
		return "You"
	}
	if assistantName == "" {
		return DefaultAssistantName
	}
	return assistantName
}

// TimeLabel formats the timestamp as hour:minute
func (m Message) TimeLabel() string {
	return m.Timestamp.Format("15:04")
}
