package report

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/grinscan/grinscan/internal/model"
)

const ruleWidth = 70

// SimpleWriter outputs human-readable text reports.
type SimpleWriter struct {
	baseWriter

	// verbose adds parse errors and convergence checkpoints.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.AnalysisReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSources(&sb, report)
	w.writeIndex(&sb, report)
	w.writeAnalyses(&sb, report)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.AnalysisReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("                          GRINSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Analyzed:  %s\n", report.DateAnalyzed.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Sources:   %d\n", len(report.Sources))
	fmt.Fprintf(sb, "Status:    %s\n", statusText(report))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSources(sb *strings.Builder, report *model.AnalysisReport) {
	if len(report.Sources) == 0 {
		return
	}

	section(sb, "SOURCES")
	for _, s := range report.Sources {
		fmt.Fprintf(sb, "  [%s] %s\n", s.Name, s.Path)
		fmt.Fprintf(sb, "    Lines:         %s\n", w.number(s.Lines))
		fmt.Fprintf(sb, "    Received tx:   %s\n", w.number(s.MatchedLines))
		fmt.Fprintf(sb, "    Transactions:  %s (%s duplicates)\n", w.number(s.Transactions), w.number(s.Duplicates))
		fmt.Fprintf(sb, "    Kernels:       %s\n", w.number(s.Kernels))
		if len(s.ParseErrors) > 0 {
			fmt.Fprintf(sb, "    Skipped lines: %s\n", w.number(len(s.ParseErrors)))
			if w.verbose {
				for _, e := range s.ParseErrors {
					fmt.Fprintf(sb, "      - %s\n", e)
				}
			}
		}
	}
	sb.WriteString("\n")
	fmt.Fprintf(sb, "  Kernels seen by every source: %s\n\n", w.number(report.SharedKernels))
}

func (w *SimpleWriter) writeIndex(sb *strings.Builder, report *model.AnalysisReport) {
	if report.Index == nil {
		return
	}

	section(sb, "KERNEL INDEX")
	idx := report.Index
	fmt.Fprintf(sb, "  Kernels:        %s\n", w.number(idx.Kernels))
	fmt.Fprintf(sb, "  Transactions:   %s\n", w.number(idx.Transactions))
	fmt.Fprintf(sb, "  Shared kernels: %s\n", w.number(idx.SharedKernels))

	if len(idx.KernelSizes) > 0 {
		sb.WriteString("\n  Kernels per transaction:\n")
		for _, size := range sortedKeys(idx.KernelSizes) {
			fmt.Fprintf(sb, "    %4d: %s\n", size, w.number(idx.KernelSizes[size]))
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeAnalyses(sb *strings.Builder, report *model.AnalysisReport) {
	if len(report.Analyses) == 0 {
		return
	}

	section(sb, "ANALYSES")
	for _, a := range report.Analyses {
		fmt.Fprintf(sb, "[%s] transactions of %s against %s\n",
			a.Name, strings.Join(a.TransactionSources, ", "), a.TargetDescription)
		fmt.Fprintf(sb, "  Transactions:      %s\n", w.number(a.Transactions))
		fmt.Fprintf(sb, "  Attempted kernels: %s\n", w.number(a.AttemptedKernels))
		fmt.Fprintf(sb, "  Present:           %s\n", w.number(a.Total))

		checkpoints := []int{a.Deanon1, a.Deanon2, a.Deanon3}
		if w.verbose && len(a.Checkpoints) > len(checkpoints) {
			checkpoints = a.Checkpoints
		}
		for i, n := range checkpoints {
			fmt.Fprintf(sb, "  %-18s %s (%s)\n", roundLabel(i)+":", w.number(n), w.percent(n, a.Total))
		}
		if w.verbose {
			fmt.Fprintf(sb, "  Converged:         %t\n", a.Converged)
		}

		fmt.Fprintf(sb, "  %s\n\n", legacyLine(a))
	}
}

// legacyLine renders the one-line summary of an analysis with plain numbers,
// so existing scripts can keep parsing it.
func legacyLine(a model.AnalysisResult) string {
	return fmt.Sprintf("Among filtered kernels %d %d %d %d", a.Total, a.Deanon1, a.Deanon2, a.Deanon3)
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
}

func sortedKeys(m map[int]int) []int {
	return slices.Sorted(maps.Keys(m))
}
