// Command liststate inspects and serves list-state URLs of the device
// console.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/devconsole/liststate/internal/config"
	"github.com/devconsole/liststate/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are the persistent flags of the root command.
type globalFlags struct {
	configPath string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "liststate",
		Short: "Inspect and serve list-state URLs",
		Long: `liststate maps console list screens to URLs and back.

Every list screen (devices, deployments, releases, audit logs,
tenants) keeps its page, sort and filters in the URL. This tool
parses such URLs into list states, formats list states into
canonical URLs, and serves an inspector API with a navigation
websocket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file or s3://bucket/key (default: liststate.{json,yaml,toml} in the working directory or a parent)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		parseCmd(flags),
		formatCmd(flags),
		serveCmd(flags),
		versionCmd(),
	)

	return rootCmd
}

// newLogger returns a text logger on w at Info, or Debug when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig loads the config named by --config, or the nearest config
// file. Without any config file the defaults are used. An s3:// location
// is fetched from the bucket.
func loadConfig(ctx context.Context, flags *globalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case config.IsRemote(flags.configPath):
		cfg, err = config.LoadS3(ctx, config.NewS3Client(), flags.configPath)
	case flags.configPath != "":
		cfg, err = config.LoadFile(flags.configPath)
	default:
		cfg, err = config.LoadFromWorkingDir()
		if errors.HasCode(err, "E141") {
			cfg, err = config.New(), nil
		}
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// usageError reports invalid command arguments.
func usageError(cmd *cobra.Command, detail string) error {
	return errors.New("E160").
		WithDetail(detail).
		WithSuggestion("Usage: " + cmd.UseLine())
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
