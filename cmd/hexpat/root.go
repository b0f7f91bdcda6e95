package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/HicaroD/hexpat/internal/config"
	"github.com/HicaroD/hexpat/internal/diagnostics"
	"github.com/HicaroD/hexpat/internal/logging"
)

const (
	EXIT_OK      = 0
	EXIT_INVALID = 1
	EXIT_FAILURE = 2
)

var (
	// Global flags
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string

	// Set by loadConfig before any subcommand runs
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "hexpat",
	Short: "Semantic checker for binary pattern descriptions",
	Long: `hexpat checks the syntax trees of binary pattern descriptions before they
are evaluated against data. Trees are read as YAML or JSON documents.

A program is rejected when a name is declared twice in the same scope, when
an enum declares the same constant twice, or when the tree is malformed.

For more information, visit: https://github.com/HicaroD/hexpat`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	config.SetDevMode(DevMode == "1")
	return exitCode(rootCmd.Execute())
}

// exitCode maps rejected programs to EXIT_INVALID; their diagnostics have
// already been printed. Anything else is reported here.
func exitCode(err error) int {
	if err == nil {
		return EXIT_OK
	}
	if errors.Is(err, diagnostics.COMPILER_ERROR_FOUND) {
		return EXIT_INVALID
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	return EXIT_FAILURE
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default is the user config directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output, same as --log-level debug")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text, json")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return fmt.Errorf("failed to locate config file: %w", err)
		}
	}

	loaded, err := config.Load(path)
	if err != nil {
		return err
	}

	if logLevel != "" {
		loaded.Log.Level = logLevel
	}
	if verbose {
		loaded.Log.Level = "debug"
	}
	if logFormat != "" {
		loaded.Log.Format = logFormat
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	l, err := logging.New(logging.Config{
		Level:  loaded.Log.Level,
		Format: loaded.Log.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	slog.SetDefault(l)

	config.SetDevMode(config.DEV || loaded.Dev)
	if config.DEV {
		l.Debug("dev mode initialized")
	}

	cfg, cfgPath, logger = loaded, path, l
	return nil
}
