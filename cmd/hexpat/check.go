package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/HicaroD/hexpat/internal/checker"
	"github.com/HicaroD/hexpat/internal/diagnostics"
	"github.com/HicaroD/hexpat/internal/sema"
	"github.com/HicaroD/hexpat/internal/watch"
)

var checkFlags struct {
	format string
}

var checkCmd = &cobra.Command{
	Use:   "check [files or directories...]",
	Short: "Check pattern documents",
	Long: `Decode and validate pattern documents.

Directories are searched recursively for files with one of the configured
extensions. Every document is checked and reports its first error.

Exit status is 1 when a document was rejected and 2 when a file could not
be read.

Examples:
  # Check a single document
  hexpat check header.yaml

  # Check every document under a directory, as JSON
  hexpat check patterns/ --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkFlags.format, "format", "text", "output format: text, json")
}

// checkReport is one document in --format json output.
type checkReport struct {
	File    string `json:"file"`
	OK      bool   `json:"ok"`
	Kind    string `json:"kind,omitempty"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message,omitempty"`
}

func newValidator() *sema.Validator {
	return sema.New(sema.WithMaxDepth(cfg.Validator.MaxDepth))
}

// collectDocuments expands directories into the documents they contain.
func collectDocuments(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		files, err := watch.Collect(arg, cfg.Watch.Extensions)
		if err != nil {
			return nil, err
		}
		paths = append(paths, files...)
	}
	return paths, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkFlags.format != "text" && checkFlags.format != "json" {
		return fmt.Errorf("unknown output format '%s'", checkFlags.format)
	}

	paths, err := collectDocuments(args)
	if err != nil {
		return err
	}
	logger.Debug("checking documents", "count", len(paths))

	collector := diagnostics.New(io.Discard, logger)
	c := checker.New(collector,
		checker.WithValidator(newValidator()),
		checker.WithLogger(logger),
	)
	results, checkErr := c.CheckFiles(paths)

	out := cmd.OutOrStdout()
	if checkFlags.format == "json" {
		if err := writeJSONReport(out, results); err != nil {
			return err
		}
	} else {
		writeTextReport(out, results)
	}

	logger.Info("check finished",
		slog.Int("documents", len(results)),
		slog.Int("rejected", len(collector.Diags)),
	)
	return checkErr
}

func writeTextReport(out io.Writer, results []checker.Result) {
	for _, result := range results {
		if result.OK() {
			fmt.Fprintf(out, "%s: ok\n", result.File)
			continue
		}
		fmt.Fprintln(out, result.Diag)
	}
}

func writeJSONReport(out io.Writer, results []checker.Result) error {
	reports := make([]checkReport, 0, len(results))
	for _, result := range results {
		report := checkReport{File: result.File, OK: result.OK()}
		if !result.OK() {
			report.Kind = result.Diag.Kind.String()
			report.Line = result.Diag.Line
			report.Message = result.Diag.Message
		}
		reports = append(reports, report)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(reports)
}
