package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/relgpt/internal/config"
	"github.com/diogo/relgpt/internal/render"
)

type configView int

const (
	viewMain configView = iota
	viewThemeSelect
	viewTUIThemeSelect
)

// Main menu rows
const (
	menuVerbose = iota
	menuCopyToClipboard
	menuTheme
	menuTUITheme
	menuExit
	menuItemCount
)

type feedbackClearMsg struct{}

// SaveFunc persists a config; config.SaveConfig outside of tests
type SaveFunc func(config.Config) error

// ConfigModel is the settings menu. The endpoint is shown but not editable:
// it comes from the environment or config.json.
type ConfigModel struct {
	config    config.Config
	configDir string
	save      SaveFunc

	view           configView
	cursor         int
	themeCursor    int
	tuiThemeCursor int

	feedback        string
	feedbackTimeout time.Duration

	width  int
	height int
	ready  bool
}

// NewConfigModel creates the settings menu for cfg. A nil save uses config.SaveConfig.
func NewConfigModel(cfg config.Config, save SaveFunc) ConfigModel {
	if save == nil {
		save = config.SaveConfig
	}
	configDir, _ := config.GetConfigDir()

	if cfg.TUITheme == "" {
		cfg.TUITheme = render.TokyoNightTheme.Name
	}
	if render.SetTUITheme(cfg.TUITheme) {
		UpdateTheme()
	}

	return ConfigModel{
		config:          cfg,
		configDir:       configDir,
		save:            save,
		themeCursor:     indexOf(render.StyleNames(), render.NormalizeStyle(cfg.Markdown.Style)),
		tuiThemeCursor:  indexOf(render.TUIThemeNames(), cfg.TUITheme),
		feedbackTimeout: 2 * time.Second,
	}
}

func indexOf(items []string, want string) int {
	for i, item := range items {
		if item == want {
			return i
		}
	}
	return 0
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// Config returns the settings as currently edited
func (m ConfigModel) Config() config.Config {
	return m.config
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "esc":
			if m.view != viewMain {
				m.view = viewMain
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			m.moveCursor(-1)

		case "down", "j":
			m.moveCursor(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

// moveCursor moves the cursor of the active view, wrapping at both ends
func (m *ConfigModel) moveCursor(delta int) {
	wrap := func(pos, n int) int {
		return ((pos+delta)%n + n) % n
	}

	switch m.view {
	case viewMain:
		m.cursor = wrap(m.cursor, menuItemCount)
	case viewThemeSelect:
		m.themeCursor = wrap(m.themeCursor, len(render.StyleNames()))
	case viewTUIThemeSelect:
		m.tuiThemeCursor = wrap(m.tuiThemeCursor, len(render.TUIThemeNames()))
	}
}

func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewMain:
		switch m.cursor {
		case menuVerbose:
			m.config.Verbose = !m.config.Verbose
			return m.persist("Verbose logging " + onOff(m.config.Verbose))

		case menuCopyToClipboard:
			m.config.CopyToClipboard = !m.config.CopyToClipboard
			return m.persist("Copy to clipboard " + onOff(m.config.CopyToClipboard))

		case menuTheme:
			m.view = viewThemeSelect

		case menuTUITheme:
			m.view = viewTUIThemeSelect

		case menuExit:
			return m, tea.Quit
		}
		return m, nil

	case viewThemeSelect:
		m.config.Markdown.Style = render.StyleNames()[m.themeCursor]
		m.view = viewMain
		return m.persist("Markdown theme set to " + m.config.Markdown.Style)

	case viewTUIThemeSelect:
		selected := render.TUIThemeNames()[m.tuiThemeCursor]
		m.config.TUITheme = selected
		render.SetTUITheme(selected)
		UpdateTheme()
		m.view = viewMain
		return m.persist("TUI theme set to " + selected)
	}

	return m, nil
}

// persist saves the config and shows ok as feedback, or the save error
func (m ConfigModel) persist(ok string) (tea.Model, tea.Cmd) {
	if err := m.save(m.config); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
	} else {
		m.feedback = ok
	}
	return m, clearFeedback(m.feedbackTimeout)
}

func onOff(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}

// View renders the TUI
func (m ConfigModel) View() string {
	if !m.ready {
		return typingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	sections := []string{
		configHeaderStyle.Width(contentWidth).Render("✦ Configuration"),
		configPanelStyle.Width(contentWidth).Render(m.renderService()),
	}

	var settings string
	switch m.view {
	case viewMain:
		settings = m.renderMainMenu()
	case viewThemeSelect:
		settings = m.renderChoices("Select Markdown Theme", m.styleChoices(), m.themeCursor)
	case viewTUIThemeSelect:
		settings = m.renderChoices("Select TUI Theme", m.tuiThemeChoices(), m.tuiThemeCursor)
	}
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(settings))

	if m.feedback != "" {
		sections = append(sections, configFeedbackStyle.Render("✓ "+m.feedback))
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderService shows where requests go and where settings live
func (m ConfigModel) renderService() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		configSectionTitleStyle.Render("Advice Service"),
		fmt.Sprintf("   Endpoint: %s", configValueStyle.Render(m.config.Endpoint)),
		fmt.Sprintf("   Timeout:  %s", configValueStyle.Render(m.config.Timeout().String())),
		fmt.Sprintf("   Config:   %s", configPathStyle.Render(filepath.Join(m.configDir, "config.json"))),
		hintStyle.Render(fmt.Sprintf("   Set %s to change the endpoint", config.EnvEndpoint)),
	)
}

func (m ConfigModel) renderMainMenu() string {
	rows := []struct {
		label string
		value string
	}{
		{"Verbose Logging", m.renderBoolValue(m.config.Verbose)},
		{"Copy to Clipboard", m.renderBoolValue(m.config.CopyToClipboard)},
		{"Markdown Theme", configValueStyle.Render(render.NormalizeStyle(m.config.Markdown.Style))},
		{"TUI Theme", configValueStyle.Render(m.config.TUITheme)},
		{"Exit", ""},
	}

	items := []string{configSectionTitleStyle.Render("Settings"), ""}
	for i, row := range rows {
		if i == menuExit {
			items = append(items, "")
		}
		line := m.menuCursor(i == m.cursor) + m.menuLabel(row.label, i == m.cursor)
		if row.value != "" {
			line += strings.Repeat(" ", 20-len(row.label)) + row.value
		}
		items = append(items, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

type choice struct {
	name        string
	description string
	current     bool
}

func (m ConfigModel) styleChoices() []choice {
	current := render.NormalizeStyle(m.config.Markdown.Style)
	var out []choice
	for _, s := range render.AvailableStyles() {
		out = append(out, choice{s.Name, s.Description, s.Name == current})
	}
	return out
}

func (m ConfigModel) tuiThemeChoices() []choice {
	var out []choice
	for _, t := range render.AvailableTUIThemes() {
		out = append(out, choice{t.Name, t.Description, t.Name == m.config.TUITheme})
	}
	return out
}

func (m ConfigModel) renderChoices(title string, choices []choice, cursor int) string {
	items := []string{configSectionTitleStyle.Render(title), ""}
	for i, c := range choices {
		line := m.menuCursor(i == cursor) + m.menuLabel(c.name+" - "+c.description, i == cursor)
		if c.current {
			line += configEnabledStyle.Render(" (current)")
		}
		items = append(items, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (m ConfigModel) menuCursor(selected bool) string {
	if selected {
		return configCursorStyle.Render("▸ ")
	}
	return "  "
}

func (m ConfigModel) menuLabel(label string, selected bool) string {
	if selected {
		return configMenuSelectedStyle.Render(label)
	}
	return configMenuItemStyle.Render(label)
}

func (m ConfigModel) renderBoolValue(value bool) string {
	if value {
		return configEnabledStyle.Render("enabled")
	}
	return configDisabledStyle.Render("disabled")
}

func (m ConfigModel) renderStatusBar(width int) string {
	back := "Exit"
	if m.view != viewMain {
		back = "Back"
	}
	items := []string{
		statusKeyStyle.Render("↑↓") + statusDescStyle.Render(" Navigate"),
		statusKeyStyle.Render("Enter") + statusDescStyle.Render(" Select"),
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" "+back),
	}
	return configStatusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunConfig starts the settings menu
func RunConfig(cfg config.Config) error {
	p := tea.NewProgram(
		NewConfigModel(cfg, nil),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
