package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/grinscan/grinscan/internal/config"
	"github.com/grinscan/grinscan/internal/deanon"
	"github.com/grinscan/grinscan/internal/grinlog"
	"github.com/grinscan/grinscan/internal/kernel"
	"github.com/grinscan/grinscan/internal/metrics"
	"github.com/grinscan/grinscan/internal/model"
)

// ExtractStep reads every configured log source into the report.
// It adds one SourceSummary per source, in configuration order, and stores
// each source's transaction collection for later steps.
type ExtractStep struct {
	sources []config.Source
	loader  *SourceLoader
	metrics *metrics.Metrics
}

// NewExtractStep creates an extract step for the given sources.
// A nil loader extracts one source at a time with default settings.
func NewExtractStep(sources []config.Source, loader *SourceLoader, m *metrics.Metrics) *ExtractStep {
	if loader == nil {
		loader = NewSourceLoader(nil)
	}
	return &ExtractStep{
		sources: sources,
		loader:  loader,
		metrics: m,
	}
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do executes the extract step.
func (s *ExtractStep) Do(ctx context.Context, report *model.AnalysisReport) error {
	loaded, err := s.loader.Load(ctx, s.sources)
	if err != nil {
		return err
	}

	for _, l := range loaded {
		result := l.Result
		summary := model.SourceSummary{
			Name:         l.Source.Name,
			Path:         l.Source.Path,
			Lines:        result.Stats.Lines,
			MatchedLines: result.Stats.MatchedLines,
			Transactions: result.Collection.Len(),
			Duplicates:   result.Stats.Duplicates,
		}
		for _, perr := range result.Errors {
			summary.ParseErrors = append(summary.ParseErrors, perr.Error())
		}

		report.Sources = append(report.Sources, summary)
		report.SetCollection(l.Source.Name, result.Collection)

		s.metrics.RecordExtraction(l.Source.Name, metrics.Extraction{
			Lines:        result.Stats.Lines,
			MatchedLines: result.Stats.MatchedLines,
			Parsed:       result.Stats.Parsed,
			Duplicates:   result.Stats.Duplicates,
			ParseErrors:  len(result.Errors),
			Seconds:      l.Elapsed.Seconds(),
		})
	}
	return nil
}

// KernelSetStep builds the kernel set of every extracted source and counts
// the kernels that all sources have in common.
type KernelSetStep struct {
	logger *slog.Logger
}

// NewKernelSetStep creates a kernel set step.
func NewKernelSetStep(logger *slog.Logger) *KernelSetStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &KernelSetStep{logger: logger}
}

// Name returns the step name.
func (s *KernelSetStep) Name() string {
	return "kernel_sets"
}

// Do executes the kernel set step.
func (s *KernelSetStep) Do(_ context.Context, report *model.AnalysisReport) error {
	sets := make([]model.KernelSet, 0, len(report.Sources))
	for i := range report.Sources {
		summary := &report.Sources[i]
		collection := report.Collection(summary.Name)
		if collection == nil {
			return fmt.Errorf("%w: %s", ErrSourceNotLoaded, summary.Name)
		}

		set := collection.Kernels()
		report.SetKernelSet(summary.Name, set)
		summary.Kernels = set.Len()
		sets = append(sets, set)

		s.logger.Debug("kernel set built", "source", summary.Name, "kernels", set.Len())
	}

	if len(sets) > 0 {
		report.SharedKernels = sets[0].Intersect(sets[1:]...).Len()
	}
	return nil
}

// IndexStatsStep computes kernel index statistics over all sources.
type IndexStatsStep struct{}

// NewIndexStatsStep creates an index statistics step.
func NewIndexStatsStep() *IndexStatsStep {
	return &IndexStatsStep{}
}

// Name returns the step name.
func (s *IndexStatsStep) Name() string {
	return "index_stats"
}

// Do executes the index statistics step.
func (s *IndexStatsStep) Do(_ context.Context, report *model.AnalysisReport) error {
	collections := make([][]model.Record, 0, len(report.Sources))
	for _, summary := range report.Sources {
		collection := report.Collection(summary.Name)
		if collection == nil {
			return fmt.Errorf("%w: %s", ErrSourceNotLoaded, summary.Name)
		}
		collections = append(collections, collection.Records())
	}

	report.Index = kernel.NewIndex(collections...).Stats()
	return nil
}

// DeanonStep runs each configured analysis through the deanonymization engine.
type DeanonStep struct {
	analyses []config.Analysis
	engine   *deanon.Engine
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// DeanonStepOption configures a DeanonStep.
type DeanonStepOption func(*DeanonStep)

// WithDeanonLogger sets a custom logger for the deanonymization step.
func WithDeanonLogger(logger *slog.Logger) DeanonStepOption {
	return func(s *DeanonStep) {
		s.logger = logger
	}
}

// WithDeanonMetrics records each analysis in m.
func WithDeanonMetrics(m *metrics.Metrics) DeanonStepOption {
	return func(s *DeanonStep) {
		s.metrics = m
	}
}

// WithEngine sets the engine that runs the analyses.
func WithEngine(engine *deanon.Engine) DeanonStepOption {
	return func(s *DeanonStep) {
		s.engine = engine
	}
}

// NewDeanonStep creates a deanonymization step for the given analyses.
func NewDeanonStep(analyses []config.Analysis, opts ...DeanonStepOption) *DeanonStep {
	s := &DeanonStep{
		analyses: analyses,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.engine == nil {
		s.engine = deanon.NewEngine(deanon.WithLogger(s.logger))
	}

	return s
}

// Name returns the step name.
func (s *DeanonStep) Name() string {
	return "deanonymize"
}

// Do executes the deanonymization step.
func (s *DeanonStep) Do(ctx context.Context, report *model.AnalysisReport) error {
	for _, analysis := range s.analyses {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := s.run(report, analysis)
		if err != nil {
			return fmt.Errorf("analysis %s: %w", analysis.Name, err)
		}
		report.Analyses = append(report.Analyses, *result)
	}
	return nil
}

func (s *DeanonStep) run(report *model.AnalysisReport, analysis config.Analysis) (*model.AnalysisResult, error) {
	var records []model.Record
	for _, name := range analysis.Transactions {
		collection := report.Collection(name)
		if collection == nil {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotLoaded, name)
		}
		records = append(records, collection.Records()...)
	}

	for _, name := range analysis.Targets.Sources() {
		if report.KernelSet(name) == nil {
			return nil, fmt.Errorf("%w: %s", ErrKernelSetMissing, name)
		}
	}
	attempted := analysis.Targets.Resolve(report.KernelSet)

	outcome := s.engine.Analyze(records, attempted)

	result := &model.AnalysisResult{
		Name:               analysis.Name,
		TransactionSources: analysis.Transactions,
		TargetDescription:  analysis.Targets.String(),
		Transactions:       len(records),
		AttemptedKernels:   attempted.Len(),
		Total:              outcome.Total,
		Deanon1:            outcome.Deanon1(),
		Deanon2:            outcome.Deanon2(),
		Deanon3:            outcome.Deanon3(),
		Checkpoints:        outcome.Checkpoints,
		Converged:          outcome.Converged,
	}

	s.logger.Info("analysis complete",
		"analysis", analysis.Name,
		"total", result.Total,
		"deanon1", result.Deanon1,
		"deanon2", result.Deanon2,
		"deanon3", result.Deanon3,
	)
	s.metrics.RecordAnalysis(analysis.Name, result.Total, result.Checkpoints, result.Converged)

	return result, nil
}

// Build assembles the standard grinscan pipeline for cfg.
func Build(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	extractor := grinlog.NewExtractor(
		grinlog.WithContinueOnError(cfg.ContinueOnError),
		grinlog.WithLogger(logger),
	)
	loader := NewSourceLoader(extractor,
		WithJobs(cfg.Jobs),
		WithLoaderLogger(logger),
	)
	engine := deanon.NewEngine(
		deanon.WithConvergence(cfg.Converge),
		deanon.WithLogger(logger),
	)

	p := New(WithLogger(logger))
	p.AddSteps(
		NewExtractStep(cfg.Sources, loader, m),
		NewKernelSetStep(logger),
		NewIndexStatsStep(),
		NewDeanonStep(cfg.Analyses,
			WithEngine(engine),
			WithDeanonLogger(logger),
			WithDeanonMetrics(m),
		),
	)
	return p
}
