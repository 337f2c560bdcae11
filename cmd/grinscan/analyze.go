package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/grinscan/grinscan/internal/config"
	"github.com/grinscan/grinscan/internal/log"
	"github.com/grinscan/grinscan/internal/metrics"
	"github.com/grinscan/grinscan/internal/model"
	"github.com/grinscan/grinscan/internal/pipeline"
	"github.com/grinscan/grinscan/internal/report"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [name=]log...",
		Short: "Measure kernel deanonymization across node logs",
		Long: `Analyze reads Grin node logs and reports how many transaction kernels
can be attributed to a single transaction.

Each log is a source. A source is named by the "name=" prefix of its argument,
or by its file name without compression and log suffixes. Logs may be plain,
gzip or zstd compressed.

For every analysis the report shows:
- Total:   attempted kernels present in the analysed transactions
- Deanon1: kernels of single-kernel transactions
- Deanon2: attributed after the first elimination pass
- Deanon3: attributed after the second elimination pass

Examples:
  # Analyse two logs with the default analyses
  grinscan analyze aws_eu=logs/eu.log.gz htz_eu=logs/htz.log.gz

  # Use the sources and analyses of a configuration file
  grinscan analyze -c .grinscan

  # JSON report reduced with a jq filter
  grinscan analyze -j --jq '.analyses[] | {name, deanon3}' logs/*.log.gz

  # Run elimination to a fixed point and keep run metrics
  grinscan analyze --converge --metrics-file grinscan.prom logs/*.log.gz`,
		Args: cobra.ArbitraryArgs,
		RunE: runAnalyzeCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .grinscan in current, XDG config or home directory)")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().String("jq", "",
		"jq filter applied to the JSON report (requires --json)")
	cmd.Flags().String("metrics-file", "",
		"Write run metrics in the Prometheus text format to this file")

	cmd.Flags().String("log-format", config.LogFormatText,
		"Log line format on stderr: text or json")

	cmd.Flags().Bool("continue-on-error", false,
		"Skip malformed received-tx lines instead of aborting")
	cmd.Flags().Bool("converge", false,
		"Run elimination passes until nothing new is attributed")
	cmd.Flags().Int("jobs", config.DefaultJobs,
		"Number of logs read concurrently")

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runAnalyze(ctx, cfg, logger, cmd.OutOrStdout())
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	if cfg.LogFormat == config.LogFormatJSON {
		return log.NewJSONLogger(w, cfg.Verbose)
	}
	return log.NewLogger(w, cfg.Verbose)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates the configuration from the config file and flags.
// Flags win over the file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	for _, arg := range args {
		cfg.Sources = append(cfg.Sources, config.ParseSource(arg))
	}

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly given config file must exist; otherwise the file is optional.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if cfg.JQFilter, err = cmd.Flags().GetString("jq"); err != nil {
		return nil, err
	}
	if cfg.MetricsFile, err = cmd.Flags().GetString("metrics-file"); err != nil {
		return nil, err
	}
	if cfg.LogFormat, err = cmd.Flags().GetString("log-format"); err != nil {
		return nil, err
	}

	continueOnError, err := cmd.Flags().GetBool("continue-on-error")
	if err != nil {
		return nil, err
	}
	cfg.ContinueOnError = cfg.ContinueOnError || continueOnError

	converge, err := cmd.Flags().GetBool("converge")
	if err != nil {
		return nil, err
	}
	cfg.Converge = cfg.Converge || converge

	if cmd.Flags().Changed("jobs") {
		if cfg.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return nil, err
		}
	}

	if len(cfg.Analyses) == 0 {
		cfg.Analyses = config.DefaultAnalyses(cfg.SourceNames())
	}

	return cfg, nil
}

// runAnalyze executes the pipeline and writes the report. A failed run
// writes no report.
func runAnalyze(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	// Compile the filter before reading any log so a typo fails fast.
	jsonOpts, err := jsonOptions(cfg)
	if err != nil {
		return err
	}

	logger.Info("starting analysis",
		"sources", len(cfg.Sources),
		"analyses", len(cfg.Analyses),
		"jobs", cfg.Jobs,
	)

	m := metrics.NewMetrics(nil)
	analysisReport := model.NewAnalysisReport()
	if err := pipeline.Build(cfg, logger, m).Execute(ctx, analysisReport); err != nil {
		return err
	}

	if cfg.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			return fmt.Errorf("failed to write metrics file: %w", err)
		}
	}

	return outputReport(cfg, analysisReport, stdout, jsonOpts)
}

// jsonOptions returns the JSON writer options for cfg. A jq filter replaces
// pretty printing, as with the jq tool's compact output.
func jsonOptions(cfg *config.Config) ([]report.JSONWriterOption, error) {
	if cfg.JQFilter == "" {
		return []report.JSONWriterOption{report.WithPrettyPrint()}, nil
	}
	code, err := report.CompileFilter(cfg.JQFilter)
	if err != nil {
		return nil, err
	}
	return []report.JSONWriterOption{report.WithFilter(code)}, nil
}

// outputReport writes the report in the requested format to the report
// file, or to stdout when none is set.
func outputReport(cfg *config.Config, analysisReport *model.AnalysisReport, stdout io.Writer, jsonOpts []report.JSONWriterOption) error {
	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports link kernels to transactions; keep them owner-readable.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, jsonOpts...)
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	if _, err := writer.Write(analysisReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
