package grinlog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/grinscan/grinscan/internal/model"
)

// DefaultMaxLineSize bounds a single log line. Aggregated transactions
// produce long lines, so this is far above bufio's default.
const DefaultMaxLineSize = 16 * 1024 * 1024

// cancelCheckInterval is how many lines are read between context checks.
const cancelCheckInterval = 4096

// Stats counts what an extraction saw.
type Stats struct {
	// Lines is the number of lines read.
	Lines int

	// MatchedLines is the number of lines carrying the received-tx marker.
	MatchedLines int

	// Parsed is the number of lines parsed into a record, repeats included.
	Parsed int

	// Duplicates is the number of parsed records already in the collection.
	Duplicates int
}

// Result is the outcome of extracting one log source.
type Result struct {
	// Collection holds the distinct records in first-seen order.
	Collection *model.Collection

	// Stats counts lines and records.
	Stats Stats

	// Errors lists skipped lines. It is only populated with WithContinueOnError.
	Errors []*ParseError

	// Compression is the detected encoding of the source.
	Compression Compression
}

// Extractor reads log sources into transaction collections.
type Extractor struct {
	continueOnError bool
	maxLineSize     int
	logger          *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithContinueOnError makes the Extractor skip malformed received-tx lines
// and report them in Result.Errors instead of failing.
func WithContinueOnError(continueOnError bool) Option {
	return func(e *Extractor) {
		e.continueOnError = continueOnError
	}
}

// WithMaxLineSize overrides DefaultMaxLineSize.
func WithMaxLineSize(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxLineSize = n
		}
	}
}

// WithLogger sets the logger used for skipped lines and summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor creates an Extractor. By default it fails on the first
// malformed received-tx line.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		maxLineSize: DefaultMaxLineSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// ExtractFile reads the log at path. Errors are prefixed with the path.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path) //nolint:gosec // Log paths come from the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open log %s: %w", path, err)
	}
	defer f.Close()

	result, err := e.Extract(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	e.logger.Debug("extracted log source",
		"path", path,
		"compression", result.Compression,
		"lines", result.Stats.Lines,
		"matched", result.Stats.MatchedLines,
		"transactions", result.Collection.Len(),
		"duplicates", result.Stats.Duplicates,
	)
	return result, nil
}

// Extract reads a log stream, parses every received-tx line and
// deduplicates the resulting records.
func (e *Extractor) Extract(ctx context.Context, r io.Reader) (*Result, error) {
	rc, compression, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	result := &Result{
		Collection:  model.NewCollection(),
		Compression: compression,
	}

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, min(64*1024, e.maxLineSize)), e.maxLineSize)

	for scanner.Scan() {
		result.Stats.Lines++
		if result.Stats.Lines%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := scanner.Text()
		if !IsReceivedTx(line) {
			continue
		}
		result.Stats.MatchedLines++

		record, err := ParseLine(line)
		if err != nil {
			var perr *ParseError
			if !errors.As(err, &perr) {
				return nil, err
			}
			perr.Line = result.Stats.Lines
			if !e.continueOnError {
				return nil, perr
			}
			e.logger.Warn("skipping malformed line", "line", perr.Line, "error", perr.Err)
			result.Errors = append(result.Errors, perr)
			continue
		}

		result.Stats.Parsed++
		if !result.Collection.Add(*record) {
			result.Stats.Duplicates++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}

	return result, nil
}
