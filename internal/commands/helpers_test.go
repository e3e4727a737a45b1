package commands

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/diogo/relgpt/internal/api"
	"github.com/diogo/relgpt/internal/config"
	"github.com/diogo/relgpt/internal/conversation"
	"github.com/diogo/relgpt/internal/tui"
)

// fakeTUI records what the commands hand to the TUI
type fakeTUI struct {
	chatCalled   bool
	chatClient   api.AdviceClientInterface
	chatConv     *conversation.Conversation
	chatOpts     tui.ChatOptions
	configCalled bool
	configCfg    config.Config
	err          error
}

func (f *fakeTUI) RunChat(ctx context.Context, client api.AdviceClientInterface, conv *conversation.Conversation, opts tui.ChatOptions) error {
	f.chatCalled = true
	f.chatClient = client
	f.chatConv = conv
	f.chatOpts = opts
	return f.err
}

func (f *fakeTUI) RunConfig(cfg config.Config) error {
	f.configCalled = true
	f.configCfg = cfg
	return f.err
}

type testEnv struct {
	deps      *Dependencies
	client    *api.MockAdviceClient
	tui       *fakeTUI
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	cfg       config.Config
	gotCfg    config.Config
	clipboard []string
}

// newTestEnv wires Dependencies to in-memory fakes. Output is raw unless tty is set.
func newTestEnv(t *testing.T, tty bool) *testEnv {
	t.Helper()
	t.Setenv(config.EnvConfigDir, t.TempDir())

	env := &testEnv{
		client: &api.MockAdviceClient{Reply: "Talk it through", EndpointVal: "http://advice.test/advice/"},
		tui:    &fakeTUI{},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		cfg:    config.DefaultConfig(),
	}

	env.deps = &Dependencies{
		NewClient: func(cfg config.Config, logger *slog.Logger) (api.AdviceClientInterface, error) {
			env.gotCfg = cfg
			return env.client, nil
		},
		TUI:            env.tui,
		LoadConfig:     func() (config.Config, error) { return env.cfg, nil },
		LoadFileConfig: func() (config.Config, error) { return env.cfg, nil },
		Stdin:          strings.NewReader(""),
		Stdout:         env.stdout,
		Stderr:         env.stderr,
		StdinIsPipe:    func() bool { return false },
		StdoutIsTTY:    func() bool { return tty },
		TermWidth:      func() int { return 80 },
		Clipboard: func(s string) error {
			env.clipboard = append(env.clipboard, s)
			return nil
		},
	}
	return env
}

// run executes the root command with args
func (e *testEnv) run(args ...string) error {
	cmd := NewRootCmd(e.deps)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}
