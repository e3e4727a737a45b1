package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/diogo/relgpt/internal/api"
	"github.com/diogo/relgpt/internal/config"
	"github.com/diogo/relgpt/internal/conversation"
	"github.com/diogo/relgpt/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, client api.AdviceClientInterface, conv *conversation.Conversation, opts tui.ChatOptions) error
	RunConfig(cfg config.Config) error
}

// ClientFactory builds the advice client for a resolved config
type ClientFactory func(cfg config.Config, logger *slog.Logger) (api.AdviceClientInterface, error)

// Dependencies holds the external dependencies for the commands.
// Tests replace any of them; nil fields fall back to the defaults.
type Dependencies struct {
	NewClient ClientFactory
	TUI       TUIInterface

	// LoadConfig returns the effective config (file, .env and environment)
	LoadConfig func() (config.Config, error)
	// LoadFileConfig returns only what config.json holds, for editing
	LoadFileConfig func() (config.Config, error)

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// StdinIsPipe reports whether a message can be read from Stdin
	StdinIsPipe func() bool
	// StdoutIsTTY selects decorated or raw output
	StdoutIsTTY func() bool
	TermWidth   func() int
	Clipboard   func(string) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, client api.AdviceClientInterface, conv *conversation.Conversation, opts tui.ChatOptions) error {
	return tui.RunChat(ctx, client, conv, opts)
}

func (d *DefaultTUI) RunConfig(cfg config.Config) error {
	return tui.RunConfig(cfg)
}

// newAdviceClient is the production ClientFactory
func newAdviceClient(cfg config.Config, logger *slog.Logger) (api.AdviceClientInterface, error) {
	return api.NewClient(
		api.WithEndpoint(cfg.Endpoint),
		api.WithTimeout(cfg.Timeout()),
		api.WithLogger(logger),
	)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return (&Dependencies{}).withDefaults()
}

// withDefaults fills every nil field
func (d *Dependencies) withDefaults() *Dependencies {
	if d == nil {
		d = &Dependencies{}
	}
	if d.NewClient == nil {
		d.NewClient = newAdviceClient
	}
	if d.TUI == nil {
		d.TUI = &DefaultTUI{}
	}
	if d.LoadConfig == nil {
		d.LoadConfig = config.Load
	}
	if d.LoadFileConfig == nil {
		d.LoadFileConfig = config.LoadConfig
	}
	if d.Stdin == nil {
		d.Stdin = os.Stdin
	}
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}
	if d.Stderr == nil {
		d.Stderr = os.Stderr
	}
	if d.StdinIsPipe == nil {
		d.StdinIsPipe = stdinIsPipe
	}
	if d.StdoutIsTTY == nil {
		d.StdoutIsTTY = isStdoutTTY
	}
	if d.TermWidth == nil {
		d.TermWidth = getTerminalWidth
	}
	if d.Clipboard == nil {
		d.Clipboard = clipboard.WriteAll
	}
	return d
}

func stdinIsPipe() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
