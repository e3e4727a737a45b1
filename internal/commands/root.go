// Package commands provides CLI commands for relgpt.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/diogo/relgpt/internal/config"
	"github.com/diogo/relgpt/internal/logging"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootOptions holds the flags shared by every command
type rootOptions struct {
	endpoint string
	timeout  time.Duration
	debug    bool

	output string
	file   string
	raw    bool
}

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "relgpt [message]",
		Short: "Terminal chat client for a relationship advice service",
		Long: `relgpt sends what you write to an advice service and shows its reply.

Run without arguments inside a terminal for help, or use the chat
subcommand for a full conversation.

Examples:
  relgpt chat                                Start an interactive chat
  relgpt config                              Configure settings
  relgpt "We keep arguing about chores"      Ask once and print the reply
  relgpt -f note.md                          Read the message from a file
  cat note.md | relgpt                       Read the message from stdin
  relgpt "Hello" -o reply.md                 Save the reply to a file
  RELGPT_ENDPOINT=http://host:8000/advice/ relgpt chat`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "relgpt %s (built %s)\n", Version, BuildTime)
				return nil
			}

			message, ok, err := readMessage(deps, opts, args)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}
			return runAsk(cmd, deps, opts, message)
		},
	}

	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	cmd.PersistentFlags().StringVarP(&opts.endpoint, "endpoint", "e", "", "Advice service URL (overrides "+config.EnvEndpoint+")")
	cmd.PersistentFlags().DurationVarP(&opts.timeout, "timeout", "t", 0, "Request timeout, e.g. 30s (overrides "+config.EnvTimeout+")")
	cmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "Write debug logs to the config directory")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save the reply to a file")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read the message from a file")
	cmd.Flags().BoolVarP(&opts.raw, "raw", "r", false, "Print only the reply text")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(NewChatCmd(deps, opts))
	cmd.AddCommand(NewConfigCmd(deps))

	return cmd
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Error"))
		os.Exit(1)
	}
}

// readMessage picks the message from --file, stdin or the argument, in that
// order. ok is false when none was given.
func readMessage(deps *Dependencies, opts *rootOptions, args []string) (string, bool, error) {
	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if deps.StdinIsPipe() {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) != "" || len(args) == 0 {
			return string(data), true, nil
		}
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	return "", false, nil
}

// session is everything a command needs once settings are resolved
type session struct {
	cfg    config.Config
	logger *slog.Logger
	close  func() error
}

// resolveSession loads config, applies flags and sets up logging
func resolveSession(deps *Dependencies, opts *rootOptions) (*session, error) {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if opts.endpoint != "" {
		cfg.Endpoint = opts.endpoint
	}
	if opts.timeout > 0 {
		seconds := int(opts.timeout / time.Second)
		if seconds < 1 {
			return nil, fmt.Errorf("timeout must be at least 1s, got %s", opts.timeout)
		}
		cfg.RequestTimeout = seconds
	}
	if opts.debug {
		cfg.Verbose = true
	}

	if err := config.ValidateEndpoint(cfg.Endpoint); err != nil {
		return nil, err
	}

	logPath := ""
	if cfg.Verbose {
		if logPath, err = config.GetLogPath(); err != nil {
			return nil, err
		}
	}
	logger, closeLog, err := logging.Setup(logging.Options{Debug: cfg.Verbose, Path: logPath})
	if err != nil {
		return nil, err
	}
	logger.Debug("settings resolved",
		"endpoint", cfg.Endpoint,
		"timeout", cfg.Timeout(),
		"version", Version,
	)

	return &session{cfg: cfg, logger: logger, close: closeLog}, nil
}
