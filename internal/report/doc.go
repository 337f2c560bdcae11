// Package report renders an AnalysisReport.
//
// This package contains writers for different output formats:
//   - SimpleWriter: human-readable text for the terminal
//   - JSONWriter: structured JSON, optionally reduced by a jq filter
//   - MarkdownWriter: Markdown with tables and per-analysis pie charts
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
