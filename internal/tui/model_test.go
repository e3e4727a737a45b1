package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/relgpt/internal/api"
	"github.com/diogo/relgpt/internal/conversation"
	"github.com/diogo/relgpt/internal/models"
)

func fixedFactory() models.Factory {
	n := 0
	return models.Factory{
		NewID: func() string {
			n++
			return "id-" + string(rune('a'+n))
		},
		Now: func() time.Time { return time.Date(2024, 1, 1, 9, 5, 0, 0, time.UTC) },
	}
}

// newTestModel returns a sized chat model backed by a mock advice client
func newTestModel(t *testing.T, reply string) (Model, *api.MockAdviceClient) {
	t.Helper()
	mock := &api.MockAdviceClient{Reply: reply, EndpointVal: "http://advice.test/advice/"}
	conv := conversation.New(conversation.WithFactory(fixedFactory()))

	m := NewChatModel(context.Background(), mock, conv, ChatOptions{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 60})
	return updated.(Model), mock
}

func typeText(m Model, text string) Model {
	m.textarea.SetValue(text)
	return m
}

func press(t *testing.T, m Model, key tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(key)
	typed, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return typed, cmd
}

var enterKey = tea.KeyMsg{Type: tea.KeyEnter}

// findAdvice runs cmd, descending into batches, until it yields an adviceMsg
func findAdvice(cmd tea.Cmd) (adviceMsg, bool) {
	if cmd == nil {
		return adviceMsg{}, false
	}
	switch msg := cmd().(type) {
	case adviceMsg:
		return msg, true
	case tea.BatchMsg:
		for _, c := range msg {
			if a, ok := findAdvice(c); ok {
				return a, true
			}
		}
	}
	return adviceMsg{}, false
}

func TestNewChatModel_Defaults(t *testing.T) {
	m := NewChatModel(nil, &api.MockAdviceClient{}, nil, ChatOptions{})

	if m.conv == nil {
		t.Fatal("expected a fresh conversation")
	}
	if m.ctx == nil {
		t.Error("expected a background context")
	}
	if m.opts.AssistantName != models.DefaultAssistantName {
		t.Errorf("AssistantName = %q", m.opts.AssistantName)
	}
	if m.opts.Render.Style == "" {
		t.Error("expected default render options")
	}
	if m.Init() == nil {
		t.Error("Init should start the cursor blink")
	}
}

func TestModel_Update_WindowSize(t *testing.T) {
	m, _ := newTestModel(t, "ok")

	if !m.ready {
		t.Fatal("model should be ready after WindowSizeMsg")
	}
	if m.width != 100 || m.height != 60 {
		t.Errorf("size = %dx%d", m.width, m.height)
	}
	if m.viewport.Width != 96 {
		t.Errorf("viewport width = %d, want 96", m.viewport.Width)
	}

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if vp := updated.(Model).viewport; vp.Height != 5 {
		t.Errorf("viewport height = %d, want minimum 5", vp.Height)
	}
}

func TestModel_View_NotReady(t *testing.T) {
	m := NewChatModel(context.Background(), &api.MockAdviceClient{}, nil, ChatOptions{})
	if !strings.Contains(m.View(), "Initializing") {
		t.Error("unsized model should show the initializing line")
	}
}

func TestModel_View_Welcome(t *testing.T) {
	m, _ := newTestModel(t, "ok")
	view := m.View()

	for _, want := range []string{welcomeTitle, welcomeSubtitle, "RelationshipGPT", "http://advice.test/advice/"} {
		if !strings.Contains(view, want) {
			t.Errorf("welcome view missing %q", want)
		}
	}
}

func TestModel_Enter_BlankInputDoesNothing(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t "} {
		m, mock := newTestModel(t, "ok")
		m = typeText(m, input)

		m, cmd := press(t, m, enterKey)

		if _, ok := findAdvice(cmd); ok {
			t.Errorf("input %q should not request advice", input)
		}
		if m.conv.Len() != 0 {
			t.Errorf("input %q appended %d messages", input, m.conv.Len())
		}
		if mock.CallCount() != 0 {
			t.Errorf("input %q called the advice client", input)
		}
	}
}

func TestModel_Enter_Submits(t *testing.T) {
	m, mock := newTestModel(t, "Talk to them.")
	m = typeText(m, "We keep arguing")

	m, cmd := press(t, m, enterKey)

	if m.conv.Len() != 1 {
		t.Fatalf("expected 1 message after submit, got %d", m.conv.Len())
	}
	if !m.pending() {
		t.Error("expected pending after submit")
	}
	if m.textarea.Value() != "" {
		t.Errorf("input should be cleared, got %q", m.textarea.Value())
	}

	msg, ok := findAdvice(cmd)
	if !ok {
		t.Fatal("submit should return the advice command")
	}
	if msg.reply != "Talk to them." {
		t.Errorf("reply = %q", msg.reply)
	}
	if len(mock.Prompts) != 1 || mock.Prompts[0] != "We keep arguing" {
		t.Errorf("prompts = %v", mock.Prompts)
	}
}

func TestModel_TypingIndicator(t *testing.T) {
	m, _ := newTestModel(t, "ok")
	m = typeText(m, "hello")
	m, _ = press(t, m, enterKey)

	if !strings.Contains(m.View(), "RelationshipGPT is typing") {
		t.Error("expected typing indicator while pending")
	}

	updated, _ := m.Update(adviceMsg{reply: "ok"})
	m = updated.(Model)

	if m.pending() {
		t.Error("reply should clear pending")
	}
	if strings.Contains(m.View(), "is typing") {
		t.Error("typing indicator should disappear after the reply")
	}
	if m.conv.Len() != 2 {
		t.Errorf("expected 2 messages, got %d", m.conv.Len())
	}
}

func TestModel_Enter_WhilePendingIsIgnored(t *testing.T) {
	m, _ := newTestModel(t, "ok")
	m = typeText(m, "first")
	m, _ = press(t, m, enterKey)

	m = typeText(m, "second")
	m, cmd := press(t, m, enterKey)

	if _, ok := findAdvice(cmd); ok {
		t.Error("no advice request while a reply is pending")
	}
	if m.conv.Len() != 1 {
		t.Errorf("expected 1 message, got %d", m.conv.Len())
	}
	if m.textarea.Value() != "second" {
		t.Errorf("pending input should be kept, got %q", m.textarea.Value())
	}
}

func TestModel_TypingWhilePending(t *testing.T) {
	m, _ := newTestModel(t, "ok")
	m = typeText(m, "first")
	m, _ = press(t, m, enterKey)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abc")})

	if m.textarea.Value() != "abc" {
		t.Errorf("textarea = %q, want typing to continue while pending", m.textarea.Value())
	}
}

func TestModel_FullCycles(t *testing.T) {
	m, mock := newTestModel(t, "")
	mock.ReplyFunc = func(_ context.Context, text string) string { return "re: " + text }

	const n = 5
	for i := 0; i < n; i++ {
		m = typeText(m, "turn")
		var cmd tea.Cmd
		m, cmd = press(t, m, enterKey)
		msg, ok := findAdvice(cmd)
		if !ok {
			t.Fatalf("cycle %d: no advice command", i)
		}
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}

	msgs := m.conv.Messages()
	if len(msgs) != 2*n {
		t.Fatalf("expected %d messages, got %d", 2*n, len(msgs))
	}
	for i, msg := range msgs {
		if msg.IsUser != (i%2 == 0) {
			t.Errorf("message %d IsUser = %v", i, msg.IsUser)
		}
	}
}

func TestModel_TimelineLabels(t *testing.T) {
	m, _ := newTestModel(t, "ok")
	m = typeText(m, "hello there")
	m, _ = press(t, m, enterKey)
	updated, _ := m.Update(adviceMsg{reply: "Breathe"})
	m = updated.(Model)

	view := m.viewport.View()
	for _, want := range []string{"You", "RelationshipGPT", "09:05", "hello there", "Breathe"} {
		if !strings.Contains(view, want) {
			t.Errorf("timeline missing %q", want)
		}
	}
}

func TestModel_StatusBar_SendOnlyWithInput(t *testing.T) {
	m, _ := newTestModel(t, "ok")

	if strings.Contains(m.renderStatusBar(80), "Send") {
		t.Error("Send should be hidden for empty input")
	}
	m = typeText(m, "   ")
	if strings.Contains(m.renderStatusBar(80), "Send") {
		t.Error("Send should be hidden for blank input")
	}
	m = typeText(m, "hi")
	if !strings.Contains(m.renderStatusBar(80), "Send") {
		t.Error("Send should be shown for non-blank input")
	}

	m, _ = press(t, m, enterKey)
	m = typeText(m, "more")
	if strings.Contains(m.renderStatusBar(80), "Send") {
		t.Error("Send should be hidden while pending")
	}
}

func TestModel_CopyLastReply(t *testing.T) {
	var copied string
	orig := copyToClipboard
	copyToClipboard = func(s string) error {
		copied = s
		return nil
	}
	defer func() { copyToClipboard = orig }()

	m, _ := newTestModel(t, "ok")
	ctrlY := tea.KeyMsg{Type: tea.KeyCtrlY}

	m, _ = press(t, m, ctrlY)
	if m.feedback != "Nothing to copy yet" {
		t.Errorf("feedback = %q", m.feedback)
	}

	m = typeText(m, "hello")
	m, _ = press(t, m, enterKey)
	updated, _ := m.Update(adviceMsg{reply: "Be patient."})
	m = updated.(Model)

	m, _ = press(t, m, ctrlY)
	if copied != "Be patient." {
		t.Errorf("copied %q", copied)
	}
	if !strings.Contains(m.renderStatusBar(80), "Copied") {
		t.Error("status bar should show copy feedback")
	}

	copyToClipboard = func(string) error { return errors.New("no display") }
	m, _ = press(t, m, ctrlY)
	if !strings.Contains(m.feedback, "no display") {
		t.Errorf("feedback = %q", m.feedback)
	}
}

func TestModel_QuitKeys(t *testing.T) {
	tests := []struct {
		name  string
		key   tea.KeyMsg
		input string
	}{
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, ""},
		{"esc", tea.KeyMsg{Type: tea.KeyEscape}, ""},
		{"esc with input", tea.KeyMsg{Type: tea.KeyEscape}, "half a thought"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t, "ok")
			m = typeText(m, tt.input)

			m, cmd := press(t, m, tt.key)
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("expected tea.QuitMsg")
			}
			if m.conv.Len() != 0 {
				t.Error("quitting must not submit")
			}
		})
	}
}

func TestModel_QuitWordsAreMessages(t *testing.T) {
	for _, word := range []string{"quit", "exit", "/quit", "/exit"} {
		t.Run(word, func(t *testing.T) {
			m, mock := newTestModel(t, "ok")
			m = typeText(m, word)

			m, cmd := press(t, m, enterKey)
			msg, ok := findAdvice(cmd)
			if !ok {
				t.Fatalf("%q should be sent as a message", word)
			}
			updated, _ := m.Update(msg)
			m = updated.(Model)

			if m.conv.Len() != 2 {
				t.Fatalf("expected user message and reply, got %d messages", m.conv.Len())
			}
			if got := m.conv.Messages()[0].Text; got != word {
				t.Errorf("user message = %q, want %q", got, word)
			}
			if len(mock.Prompts) != 1 {
				t.Errorf("advisor calls = %d, want 1", len(mock.Prompts))
			}
			if m.pending() {
				t.Error("pending should clear after the reply")
			}
		})
	}
}

func TestModel_AnimationTick(t *testing.T) {
	m, _ := newTestModel(t, "ok")

	updated, _ := m.Update(animationTickMsg(time.Now()))
	if updated.(Model).animationFrame != 0 {
		t.Error("idle model should not animate")
	}

	m = typeText(m, "hi")
	m, _ = press(t, m, enterKey)
	updated, cmd := m.Update(animationTickMsg(time.Now()))
	if updated.(Model).animationFrame != 1 {
		t.Error("pending model should advance the animation")
	}
	if cmd == nil {
		t.Error("expected the next tick to be scheduled")
	}
}
