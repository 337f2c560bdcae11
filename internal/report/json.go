package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/itchyny/gojq"

	"github.com/grinscan/grinscan/internal/model"
)

// JSONWriter outputs reports in JSON format.
// With a jq filter, each value the filter produces is written on its own,
// the way the jq command line tool prints results.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	indentPrefix string
	indentString string

	// filter reduces the report before it is written.
	filter *gojq.Code
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithFilter applies a compiled jq program to the report.
func WithFilter(code *gojq.Code) JSONWriterOption {
	return func(w *JSONWriter) {
		w.filter = code
	}
}

// CompileFilter parses and compiles a jq program for WithFilter.
func CompileFilter(filter string) (*gojq.Code, error) {
	query, err := gojq.Parse(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to parse jq filter %q: %w", filter, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq filter %q: %w", filter, err)
	}
	return code, nil
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(report *model.AnalysisReport) (int, error) {
	if w.filter == nil {
		return w.writeJSON(report)
	}

	// gojq works on the generic form produced by encoding/json.
	raw, err := json.Marshal(report)
	if err != nil {
		return 0, err
	}
	var input any
	if err := json.Unmarshal(raw, &input); err != nil {
		return 0, err
	}

	var total int
	iter := w.filter.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			// halt stops the program without an error, as in jq.
			var herr *gojq.HaltError
			if errors.As(err, &herr) && herr.Value() == nil {
				break
			}
			return total, fmt.Errorf("jq filter failed: %w", err)
		}
		n, err := w.writeJSON(v)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if w.indent {
		encoder.SetIndent(w.indentPrefix, w.indentString)
	}

	// Encode appends the trailing newline.
	if err := encoder.Encode(v); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}
