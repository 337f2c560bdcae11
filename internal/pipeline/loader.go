package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/grinscan/grinscan/internal/config"
	"github.com/grinscan/grinscan/internal/grinlog"
)

// LoadedSource is one extracted log source.
type LoadedSource struct {
	Source  config.Source
	Result  *grinlog.Result
	Elapsed time.Duration
}

// SourceLoader extracts several log sources with bounded concurrency.
// Results keep the order of the sources regardless of completion order.
type SourceLoader struct {
	extractor *grinlog.Extractor
	jobs      int
	logger    *slog.Logger
}

// LoaderOption configures a SourceLoader.
type LoaderOption func(*SourceLoader)

// WithLoaderLogger sets a custom logger for the loader.
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *SourceLoader) {
		l.logger = logger
	}
}

// WithJobs sets how many sources are extracted at once.
// Values below one are ignored.
func WithJobs(n int) LoaderOption {
	return func(l *SourceLoader) {
		if n > 0 {
			l.jobs = n
		}
	}
}

// NewSourceLoader creates a loader that extracts with the given extractor.
func NewSourceLoader(extractor *grinlog.Extractor, opts ...LoaderOption) *SourceLoader {
	l := &SourceLoader{
		extractor: extractor,
		jobs:      config.DefaultJobs,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.logger == nil {
		l.logger = slog.Default()
	}
	if l.extractor == nil {
		l.extractor = grinlog.NewExtractor(grinlog.WithLogger(l.logger))
	}

	return l
}

// Load extracts every source. The first failure cancels the remaining
// extractions and is returned; no partial results are returned with it.
func (l *SourceLoader) Load(ctx context.Context, sources []config.Source) ([]LoadedSource, error) {
	l.logger.Info("loading log sources",
		"total_sources", len(sources),
		"jobs", l.jobs,
	)

	startTime := time.Now()
	loaded := make([]LoadedSource, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.jobs)

	for i, source := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			l.logger.Debug("extracting source",
				"source", source.Name,
				"path", source.Path,
				"index", i+1,
				"total", len(sources),
			)

			began := time.Now()
			result, err := l.extractor.ExtractFile(ctx, source.Path)
			if err != nil {
				return err
			}

			loaded[i] = LoadedSource{
				Source:  source,
				Result:  result,
				Elapsed: time.Since(began),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.logger.Info("log sources loaded",
		"total_sources", len(sources),
		"elapsed", time.Since(startTime),
	)
	return loaded, nil
}
