package api

import (
	"context"
	"sync"
)

// MockAdviceClient is a mock implementation of AdviceClientInterface for testing
type MockAdviceClient struct {
	// Mock return values
	Reply       string
	EndpointVal string

	// ReplyFunc, when set, computes the reply instead of Reply
	ReplyFunc func(ctx context.Context, text string) string

	// Call counters/recorders
	mu          sync.Mutex
	Prompts     []string
	CloseCalled bool
}

// Ensure MockAdviceClient implements AdviceClientInterface
var _ AdviceClientInterface = (*MockAdviceClient)(nil)

func (m *MockAdviceClient) GetAdvice(ctx context.Context, text string) string {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, text)
	fn := m.ReplyFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text)
	}
	return m.Reply
}

func (m *MockAdviceClient) Endpoint() string {
	return m.EndpointVal
}

func (m *MockAdviceClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
}

// CallCount returns how many times GetAdvice was called
func (m *MockAdviceClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}
