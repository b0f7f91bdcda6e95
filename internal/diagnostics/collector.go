package diagnostics

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

var (
	COMPILER_ERROR_FOUND = errors.New("compiler error found")
)

type Collector struct {
	Diags []Diag

	out    io.Writer
	logger *slog.Logger
}

// New creates a collector that prints every diagnostic to out (stdout when
// nil) and records it on logger (slog.Default when nil).
func New(out io.Writer, logger *slog.Logger) *Collector {
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		Diags:  nil,
		out:    out,
		logger: logger,
	}
}

func (collector *Collector) ReportAndSave(diag Diag) {
	fmt.Fprintln(collector.out, diag)
	collector.logger.Debug("diagnostic reported",
		"file", diag.File,
		"line", diag.Line,
		"kind", diag.Kind.String(),
	)
	collector.Diags = append(collector.Diags, diag)
}

// Report converts err with FromError and saves it. It returns
// COMPILER_ERROR_FOUND so callers can stop with a single check.
func (collector *Collector) Report(file string, err error) error {
	collector.ReportAndSave(FromError(file, err))
	return COMPILER_ERROR_FOUND
}

func (collector *Collector) HasErrors() bool {
	return len(collector.Diags) > 0
}

func (collector *Collector) Reset() {
	collector.Diags = nil
}
