package report

import (
	"io"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/grinscan/grinscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// Each analysis gets a mermaid pie chart of the round in which its kernels
// were attributed.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.AnalysisReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSources(md, report)
	w.writeIndex(md, report)
	w.writeAnalyses(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H1("grinscan Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Analyzed", report.DateAnalyzed.Format("2006-01-02 15:04:05 MST")},
			{"Sources", w.number(len(report.Sources))},
			{"Analyses", w.number(len(report.Analyses))},
			{"Status", w.statusBadge(report)},
		},
	})
	md.PlainText("")

	if report.ErrorMessage != "" {
		md.Cautionf("The run stopped early: %s", report.ErrorMessage)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) statusBadge(report *model.AnalysisReport) string {
	if report.ErrorMessage != "" {
		return "❌ Error"
	}
	return "✅ Complete"
}

func (w *MarkdownWriter) writeSources(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H2("Sources")
	md.PlainText("")

	if len(report.Sources) == 0 {
		md.PlainText("No log sources were read.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Sources))
	for i, s := range report.Sources {
		rows[i] = []string{
			s.Name,
			"`" + s.Path + "`",
			w.number(s.Lines),
			w.number(s.MatchedLines),
			w.number(s.Transactions),
			w.number(s.Duplicates),
			w.number(s.Kernels),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Source", "Path", "Lines", "Received tx", "Transactions", "Duplicates", "Kernels"},
		Rows:   rows,
	})
	md.PlainText("")
	md.PlainTextf("Kernels seen by every source: **%s**", w.number(report.SharedKernels))
	md.PlainText("")

	for _, s := range report.Sources {
		if len(s.ParseErrors) == 0 {
			continue
		}
		md.Warningf("%s lines of %s were skipped as malformed.", w.number(len(s.ParseErrors)), s.Name)
		md.PlainText("")
		md.Details(s.Name+" skipped lines", strings.Join(s.ParseErrors, "\n"))
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeIndex(md *markdown.Markdown, report *model.AnalysisReport) {
	if report.Index == nil {
		return
	}
	idx := report.Index

	md.H2("Kernel Index")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Kernels", "Transactions", "Shared kernels"},
		Rows: [][]string{{
			w.number(idx.Kernels),
			w.number(idx.Transactions),
			w.number(idx.SharedKernels),
		}},
	})
	md.PlainText("")

	if len(idx.KernelSizes) == 0 {
		return
	}
	sizes := sortedKeys(idx.KernelSizes)
	rows := make([][]string, len(sizes))
	for i, size := range sizes {
		rows[i] = []string{w.number(size), w.number(idx.KernelSizes[size])}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Kernels per transaction", "Transactions"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeAnalyses(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H2("Analyses")
	md.PlainText("")

	if len(report.Analyses) == 0 {
		md.PlainText("No analyses were run.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Analyses))
	for i, a := range report.Analyses {
		rows[i] = []string{
			a.Name,
			strings.Join(a.TransactionSources, ", "),
			a.TargetDescription,
			w.number(a.AttemptedKernels),
			w.number(a.Total),
			w.number(a.Deanon1),
			w.number(a.Deanon2),
			w.number(a.Deanon3),
			w.percent(a.Deanon3, a.Total),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Analysis", "Transactions", "Target", "Attempted", "Total", "Deanon1", "Deanon2", "Deanon3", "Deanonymized"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, a := range report.Analyses {
		w.writeAnalysis(md, a)
	}
}

func (w *MarkdownWriter) writeAnalysis(md *markdown.Markdown, a model.AnalysisResult) {
	md.H3(a.Name)
	md.PlainText("")

	if a.Total == 0 {
		md.Note("None of the attempted kernels appear in the analyzed transactions.")
		md.PlainText("")
		return
	}

	w.writePieChart(md, a)

	if len(a.Checkpoints) > 3 {
		rows := make([][]string, len(a.Checkpoints))
		for i, n := range a.Checkpoints {
			rows[i] = []string{roundLabel(i), w.number(n), w.percent(n, a.Total)}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Round", "Deanonymized", "Share"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if !a.Converged {
		md.Tip("Further elimination passes would attribute more kernels. Run with --converge to reach the fixed point.")
		md.PlainText("")
	}
}

// writePieChart writes how many present kernels each round attributed.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, a model.AnalysisResult) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle(a.Name+" kernel attribution"),
		piechart.WithShowData(true),
	)

	previous := 0
	for i, n := range a.Checkpoints {
		if added := n - previous; added > 0 {
			chart.LabelAndIntValue(roundLabel(i), uint64(added))
		}
		previous = n
	}
	if remaining := a.Remaining(); remaining > 0 {
		chart.LabelAndIntValue("Not attributed", uint64(remaining))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by grinscan*")
}
