package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/relgpt/internal/conversation"
	"github.com/diogo/relgpt/internal/render"
	"github.com/diogo/relgpt/internal/tui"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat with the advice service.

Messages are kept for the session only and are gone when you quit.
Press Esc or Ctrl+C to end the session.
Ctrl+Y copies the latest reply to the clipboard.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, deps, opts)
		},
	}
}

func runChat(cmd *cobra.Command, deps *Dependencies, opts *rootOptions) error {
	sess, err := resolveSession(deps, opts)
	if err != nil {
		return err
	}
	defer sess.close()

	client, err := deps.NewClient(sess.cfg, sess.logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	if render.SetTUITheme(sess.cfg.TUITheme) {
		tui.UpdateTheme()
	}

	sess.logger.Info("chat started", "endpoint", client.Endpoint())
	defer sess.logger.Info("chat ended")

	return deps.TUI.RunChat(cmd.Context(), client, conversation.New(), tui.ChatOptions{
		AssistantName: sess.cfg.AssistantName,
		Render:        render.OptionsFromConfig(sess.cfg.Markdown),
	})
}
