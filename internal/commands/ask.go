package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/relgpt/internal/conversation"
	apierrors "github.com/diogo/relgpt/internal/errors"
	"github.com/diogo/relgpt/internal/render"
)

var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginBottom(1)
)

// runAsk performs a single exchange and prints the reply. The reply is
// plain text when --raw is set or stdout is not a terminal.
func runAsk(cmd *cobra.Command, deps *Dependencies, opts *rootOptions, message string) error {
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

	rawOutput := opts.raw || !deps.StdoutIsTTY()

	var spin *spinner
	if !rawOutput {
		spin = newSpinner(deps.Stderr, fmt.Sprintf("Asking %s", sess.cfg.AssistantName))
		spin.start()
	}

	conv := conversation.New()
	startTime := time.Now()
	reply, err := conv.Exchange(cmd.Context(), client, message)
	if err != nil {
		if spin != nil {
			spin.stopWithError()
		}
		if errors.Is(err, apierrors.ErrEmptyMessage) {
			return fmt.Errorf("message cannot be empty: %w", err)
		}
		return err
	}
	if spin != nil {
		spin.stopWithSuccess("Done")
	}
	sess.logger.Debug("exchange finished", "duration", time.Since(startTime).Round(time.Millisecond))

	text := reply.Text

	if rawOutput {
		if opts.output != "" {
			return writeOutput(opts.output, text)
		}
		fmt.Fprint(deps.Stdout, text)
		if !strings.HasSuffix(text, "\n") {
			fmt.Fprintln(deps.Stdout)
		}
		return nil
	}

	if sess.cfg.CopyToClipboard {
		if err := deps.Clipboard(text); err != nil {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorError).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			))
		} else {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	if opts.output != "" {
		if err := writeOutput(opts.output, text); err != nil {
			return err
		}
		fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Reply saved to %s", opts.output),
		))
		return nil
	}

	bubbleWidth := deps.TermWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}

	renderOpts := render.OptionsFromConfig(sess.cfg.Markdown).WithWidth(bubbleWidth - 4)

	fmt.Fprintln(deps.Stdout, assistantLabelStyle.Render("✦ "+reply.Author(sess.cfg.AssistantName)+" · "+reply.TimeLabel()))
	fmt.Fprintln(deps.Stdout, assistantBubbleStyle.Width(bubbleWidth).Render(render.Reply(text, renderOpts)))

	return nil
}

func writeOutput(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}
	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	switch {
	case errors.Is(err, apierrors.ErrEmptyMessage):
		sb.WriteString(dimStyle.Render("\n  Hint: Pass a message as an argument, with -f, or on stdin"))
	case errors.Is(err, os.ErrNotExist):
		sb.WriteString(dimStyle.Render("\n  Hint: Check the file path"))
	}

	return sb.String()
}
