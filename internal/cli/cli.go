// Package cli implements the intentd command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"intentd/internal/config"
	"intentd/internal/intent"
)

// Version is overridden at build time with -ldflags "-X intentd/internal/cli.Version=...".
var Version = "dev"

// Options are the persistent flags shared by every subcommand.
type Options struct {
	ConfigPath string
	EnvFile    string
	LogLevel   string
	LogFormat  string
}

// Seams for tests.
var (
	fnServe    = serve
	fnClassify = classify
	getenv     = os.Getenv
)

// resolve loads the .env file and configuration, then lets flags override.
func (o *Options) resolve() (config.Config, error) {
	if err := config.LoadDotEnv(o.EnvFile); err != nil {
		return config.Config{}, fmt.Errorf("load %s: %w", o.EnvFile, err)
	}
	path := o.ConfigPath
	if path == "" {
		path = getenv("INTENTD_CONFIG")
	}
	cfg, err := config.Resolve(path, getenv)
	if err != nil {
		return cfg, err
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		cfg.LogFormat = o.LogFormat
	}
	return cfg, nil
}

// buildRootCmd constructs the command tree writing to out and errOut.
func buildRootCmd(opts *Options, out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "intentd",
		Short:         "Intent classification chat service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Config file (yaml|json|toml); defaults to INTENTD_CONFIG")
	root.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "Log level: debug|info|warn|error|off")
	root.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "Log format: console|json")

	var addr string
	serveCmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP server",
		Example: "  intentd serve --addr :8000",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			logger := newLogger(errOut, cfg.LogLevel, cfg.LogFormat)
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return fnServe(ctx, cfg, logger)
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address, e.g. :8000 (overrides PORT)")
	root.AddCommand(serveCmd)
	root.RunE = serveCmd.RunE

	var model string
	classifyCmd := &cobra.Command{
		Use:     "classify [text...]",
		Short:   "Classify text with one backend and print the result as JSON",
		Example: "  intentd classify --model zero_shot \"what's the weather in Oslo\"",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve()
			if err != nil {
				return err
			}
			res, err := fnClassify(cmd.Context(), cfg, strings.Join(args, " "), model)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	classifyCmd.Flags().StringVarP(&model, "model", "m", intent.Distilbert.String(), "Backend: distilbert|roberta|zero_shot")
	root.AddCommand(classifyCmd)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "intentd", Version)
		},
	})
	return root
}

func classify(ctx context.Context, cfg config.Config, text, model string) (intent.Result, error) {
	clf, _, err := newClassifier(cfg)
	if err != nil {
		return intent.Result{}, err
	}
	return clf.Classify(ctx, text, model)
}

// MainWithArgs runs the CLI and returns the process exit code.
func MainWithArgs(args []string, out, errOut io.Writer) int {
	root := buildRootCmd(&Options{}, out, errOut)
	root.SetArgs(args)
	if err := root.ExecuteContext(context.Background()); err != nil {
		l := zerolog.New(errOut)
		l.Error().Err(err).Msg("intentd")
		return 1
	}
	return 0
}

// Main is the entry point used by cmd/intentd.
func Main() int { return MainWithArgs(os.Args[1:], os.Stdout, os.Stderr) }
