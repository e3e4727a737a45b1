// Package conversation holds the chat timeline and the pending-response flag.
package conversation

import (
	"context"
	"strings"
	"sync"

	apierrors "github.com/diogo/relgpt/internal/errors"
	"github.com/diogo/relgpt/internal/models"
)

// Advisor returns a reply for the given text. Implementations never fail:
// errors are converted to a fallback reply before they reach the conversation.
type Advisor interface {
	GetAdvice(ctx context.Context, text string) string
}

// Conversation is the ordered message timeline of one chat session.
// It owns all mutation; messages are only ever appended.
type Conversation struct {
	mu       sync.RWMutex
	messages []models.Message
	pending  bool
	factory  models.Factory
}

// Option configures a Conversation
type Option func(*Conversation)

// WithFactory sets the message factory (id generator and clock)
func WithFactory(f models.Factory) Option {
	return func(c *Conversation) {
		c.factory = f
	}
}

// New creates an empty conversation
func New(opts ...Option) *Conversation {
	c := &Conversation{
		factory: models.NewFactory(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit appends a user message and marks the conversation as awaiting a response.
// Blank text returns ErrEmptyMessage and a submission while a response is
// pending returns ErrResponsePending; neither appends anything.
func (c *Conversation) Submit(text string) (models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return models.Message{}, apierrors.ErrEmptyMessage
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending {
		return models.Message{}, apierrors.ErrResponsePending
	}

	msg := c.factory.User(text)
	c.messages = append(c.messages, msg)
	c.pending = true
	return msg, nil
}

// Receive appends a response message and clears the pending flag
func (c *Conversation) Receive(responseText string) models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg := c.factory.Response(responseText)
	c.messages = append(c.messages, msg)
	c.pending = false
	return msg
}

// Exchange runs one full turn: Submit, ask the advisor, Receive.
// The advisor is not called when Submit rejects the text.
func (c *Conversation) Exchange(ctx context.Context, advisor Advisor, text string) (models.Message, error) {
	if _, err := c.Submit(text); err != nil {
		return models.Message{}, err
	}
	reply := advisor.GetAdvice(ctx, text)
	return c.Receive(reply), nil
}

// Messages returns a copy of the timeline in display order
func (c *Conversation) Messages() []models.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// Pending reports whether a response is awaited for the latest user message
func (c *Conversation) Pending() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pending
}

// Last returns the newest message, if any
func (c *Conversation) Last() (models.Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.messages) == 0 {
		return models.Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// LastReply returns the newest non-user message, if any
func (c *Conversation) LastReply() (models.Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := len(c.messages) - 1; i >= 0; i-- {
		if !c.messages[i].IsUser {
			return c.messages[i], true
		}
	}
	return models.Message{}, false
}
