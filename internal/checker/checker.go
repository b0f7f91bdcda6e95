// Package checker runs one pattern document through decoding and validation
// and reports the outcome to diagnostics, metrics and the log.
package checker

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/HicaroD/hexpat/internal/ast"
	"github.com/HicaroD/hexpat/internal/astio"
	"github.com/HicaroD/hexpat/internal/diagnostics"
	"github.com/HicaroD/hexpat/internal/metrics"
	"github.com/HicaroD/hexpat/internal/sema"
)

type Result struct {
	File    string
	Nodes   []ast.Node
	Diag    *diagnostics.Diag
	Elapsed time.Duration
}

func (r Result) OK() bool {
	return r.Diag == nil
}

// Class names the outcome the way the checks_total metric labels it.
func (r Result) Class() string {
	if r.Diag == nil {
		return metrics.RESULT_OK
	}
	switch r.Diag.Kind {
	case diagnostics.DIAG_DECODE:
		return metrics.RESULT_DECODE
	case diagnostics.DIAG_INTERNAL:
		return metrics.RESULT_INTERNAL
	}
	return metrics.RESULT_INVALID
}

type Option func(*Checker)

func WithValidator(v *sema.Validator) Option {
	return func(c *Checker) { c.validator = v }
}

func WithMetrics(m *metrics.Collector) Option {
	return func(c *Checker) { c.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) { c.logger = l }
}

type Checker struct {
	validator *sema.Validator
	collector *diagnostics.Collector
	metrics   *metrics.Collector
	logger    *slog.Logger
}

// New returns a checker that saves every failure on collector.
func New(collector *diagnostics.Collector, opts ...Option) *Checker {
	c := &Checker{
		validator: sema.New(),
		collector: collector,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckFile reads and checks path. The error is only set when the file
// cannot be read; problems with its contents end up in the Result.
func (c *Checker) CheckFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		c.logger.Error("failed to read document", "file", path, "error", err)
		return Result{File: path}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return c.CheckBytes(data, path), nil
}

func (c *Checker) CheckBytes(data []byte, file string) Result {
	start := time.Now()
	result := Result{File: file}

	nodes, err := astio.Decode(data, file)
	if err == nil {
		result.Nodes = nodes
		err = c.validator.Validate(nodes)
	}
	result.Elapsed = time.Since(start)

	if err != nil {
		diag := diagnostics.FromError(file, err)
		result.Diag = &diag
		c.collector.ReportAndSave(diag)
	}

	if c.metrics != nil {
		c.metrics.ObserveCheck(result.Class(), len(result.Nodes), result.Elapsed)
	}

	if result.OK() {
		c.logger.Debug("document checked",
			"file", file,
			"nodes", len(result.Nodes),
			"elapsed", result.Elapsed,
		)
	} else {
		c.logger.Info("document rejected",
			"file", file,
			"line", result.Diag.Line,
			"result", result.Class(),
		)
	}
	return result
}

// CheckFiles checks every path in order. It returns
// diagnostics.COMPILER_ERROR_FOUND when a document was rejected, and the
// joined read errors when a file could not be opened.
func (c *Checker) CheckFiles(paths []string) ([]Result, error) {
	results := make([]Result, 0, len(paths))
	var readErrs []error
	rejected := false

	for _, path := range paths {
		result, err := c.CheckFile(path)
		if err != nil {
			readErrs = append(readErrs, err)
			continue
		}
		if !result.OK() {
			rejected = true
		}
		results = append(results, result)
	}

	if len(readErrs) > 0 {
		return results, errors.Join(readErrs...)
	}
	if rejected {
		return results, diagnostics.COMPILER_ERROR_FOUND
	}
	return results, nil
}
