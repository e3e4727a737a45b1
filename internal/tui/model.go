package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/relgpt/internal/api"
	"github.com/diogo/relgpt/internal/conversation"
	"github.com/diogo/relgpt/internal/models"
	"github.com/diogo/relgpt/internal/render"
)

const (
	welcomeTitle    = "Hi, How's going?"
	welcomeSubtitle = "Share your thoughts"
	inputLimit      = 4000
)

// copyToClipboard is swapped in tests
var copyToClipboard = clipboard.WriteAll

type animationTickMsg time.Time

// adviceMsg carries the reply for the pending turn. It always holds a
// displayable string: failures were already turned into the fallback text.
type adviceMsg struct {
	reply string
}

// ChatOptions configures the chat view
type ChatOptions struct {
	AssistantName string
	Render        render.Options
}

// Model is the chat view state. The message timeline and the pending flag
// live in the conversation; the model only mirrors them on screen.
type Model struct {
	ctx    context.Context
	client api.AdviceClientInterface
	conv   *conversation.Conversation
	opts   ChatOptions

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	ready          bool
	animationFrame int
	feedback       string

	width  int
	height int
}

// NewChatModel creates a chat model. A nil conversation starts a fresh one.
func NewChatModel(ctx context.Context, client api.AdviceClientInterface, conv *conversation.Conversation, opts ChatOptions) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if conv == nil {
		conv = conversation.New()
	}
	if opts.AssistantName == "" {
		opts.AssistantName = models.DefaultAssistantName
	}
	if opts.Render.Style == "" {
		opts.Render = render.DefaultOptions()
	}

	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = inputLimit
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	// Enter submits; newlines need alt+enter
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = typingStyle

	return Model{
		ctx:      ctx,
		client:   client,
		conv:     conv,
		opts:     opts,
		textarea: ta,
		spinner:  s,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*120, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		inputHeight := 7 // panel, label and typing line
		statusHeight := 2
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}
		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+y":
			m.feedback = m.copyLastReply()
			return m, nil

		case "enter":
			return m.submit()
		}
		m.feedback = ""

	case adviceMsg:
		m.conv.Receive(msg.reply)
		m.updateViewport()

	case spinner.TickMsg:
		if m.pending() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.pending() {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only key presses reach the textarea so terminal escape sequences stay out of the buffer.
	// Typing continues while a reply is pending.
	if _, ok := msg.(tea.KeyMsg); ok {
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit sends the input buffer as a user turn. Blank input and input
// entered while a reply is pending are left untouched.
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := m.textarea.Value()

	if _, err := m.conv.Submit(input); err != nil {
		return m, nil
	}

	m.textarea.Reset()
	m.feedback = ""
	m.animationFrame = 0
	m.updateViewport()

	return m, tea.Batch(
		m.requestAdvice(input),
		m.spinner.Tick,
		animationTick(),
	)
}

// requestAdvice runs the advice call off the update loop
func (m Model) requestAdvice(text string) tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		return adviceMsg{reply: client.GetAdvice(ctx, text)}
	}
}

func (m Model) pending() bool {
	return m.conv.Pending()
}

// copyLastReply copies the newest reply and returns the status line to show
func (m Model) copyLastReply() string {
	reply, ok := m.conv.LastReply()
	if !ok {
		return "Nothing to copy yet"
	}
	if err := copyToClipboard(reply.Text); err != nil {
		return fmt.Sprintf("Copy failed: %v", err)
	}
	return "Copied last reply to clipboard"
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return typingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("✦ "+m.opts.AssistantName),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.client.Endpoint()),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(header))

	messagesContent := m.viewport.View()
	if m.conv.Len() == 0 {
		messagesContent = m.renderWelcome()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	input := []string{inputLabelStyle.Render("You")}
	if m.pending() {
		input = append([]string{m.renderTyping()}, input...)
	}
	input = append(input, m.textarea.View())
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, input...),
	))

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWelcome renders the empty-timeline screen
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		welcomeIconStyle.Width(width).Render("♥"),
		"",
		welcomeTitleStyle.Width(width).Render(welcomeTitle),
		welcomeSubtitleStyle.Width(width).Render(welcomeSubtitle),
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderTyping renders the indicator shown while a reply is pending
func (m Model) renderTyping() string {
	var dots strings.Builder
	lit := m.animationFrame % 4
	for i := 0; i < 3; i++ {
		if i < lit {
			color := typingDotColors[(m.animationFrame+i)%len(typingDotColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(color).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	return fmt.Sprintf("%s %s %s",
		m.spinner.View(),
		typingStyle.Render(m.opts.AssistantName+" is typing"),
		dots.String(),
	)
}

// renderStatusBar renders the shortcut bar. Send is offered only when
// there is something to send and no reply is pending.
func (m Model) renderStatusBar(width int) string {
	type shortcut struct{ key, desc string }

	var shortcuts []shortcut
	if m.canSend() {
		shortcuts = append(shortcuts, shortcut{"Enter", "Send"})
	}
	if _, ok := m.conv.LastReply(); ok {
		shortcuts = append(shortcuts, shortcut{"^Y", "Copy"})
	}
	shortcuts = append(shortcuts,
		shortcut{"Esc", "Quit"},
		shortcut{"↑↓", "Scroll"},
	)

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	bar := statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
	if m.feedback != "" {
		bar = lipgloss.JoinVertical(lipgloss.Center, bar,
			feedbackStyle.Width(width).Align(lipgloss.Center).Render(m.feedback))
	}
	return bar
}

func (m Model) canSend() bool {
	return !m.pending() && strings.TrimSpace(m.textarea.Value()) != ""
}

// updateViewport redraws the timeline and scrolls to the newest entry
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}
	opts := m.opts.Render.WithWidth(bubbleWidth - 4)

	for i, msg := range m.conv.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}
		stamp := timestampStyle.Render(" · " + msg.TimeLabel())

		if msg.IsUser {
			label := userLabelStyle.Render("● "+msg.Author(m.opts.AssistantName)) + stamp
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Text)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := assistantLabelStyle.Render("✦ "+msg.Author(m.opts.AssistantName)) + stamp
			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(render.Reply(msg.Text, opts))
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
	m.viewport.GotoBottom()
}

// RunChat starts the chat TUI and blocks until the user quits
func RunChat(ctx context.Context, client api.AdviceClientInterface, conv *conversation.Conversation, opts ChatOptions) error {
	m := NewChatModel(ctx, client, conv, opts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
