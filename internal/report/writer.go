package report

import (
	"io"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/grinscan/grinscan/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.AnalysisReport) (int, error)
}

// MultiWriter writes to multiple Writers in turn.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.AnalysisReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output  io.Writer
	printer *message.Printer
}

// newBaseWriter creates a baseWriter with the given output destination.
// Numbers are grouped the English way: 1,234,567.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{
		output:  output,
		printer: message.NewPrinter(language.English),
	}
}

// number formats n with digit grouping.
func (b baseWriter) number(n int) string {
	return b.printer.Sprintf("%d", n)
}

// percent formats part of whole, or "-" when whole is zero.
func (b baseWriter) percent(part, whole int) string {
	if whole == 0 {
		return "-"
	}
	return b.printer.Sprintf("%.1f%%", 100*float64(part)/float64(whole))
}

// statusText describes how the run ended.
func statusText(report *model.AnalysisReport) string {
	if report.ErrorMessage != "" {
		return "ERROR - " + report.ErrorMessage
	}
	return "Complete"
}

// roundLabel names checkpoint i: round 0, then the elimination passes.
func roundLabel(i int) string {
	if i == 0 {
		return "Round 0"
	}
	return "Pass " + strconv.Itoa(i)
}
