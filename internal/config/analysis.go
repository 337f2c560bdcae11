package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/grinscan/grinscan/internal/model"
)

// CombinedAnalysis is the name of the default analysis that runs all
// transactions against kernels seen by every source.
const CombinedAnalysis = "combined"

// Source is a named node log.
type Source struct {
	// Name identifies the source in analyses and reports, e.g. "aws_eu".
	Name string `yaml:"name"`

	// Path is the log file. Gzip and zstd compressed logs are detected
	// from their content.
	Path string `yaml:"path"`
}

// Validate checks that the source has a name and a path.
func (s Source) Validate() error {
	if s.Name == "" || s.Path == "" {
		return fmt.Errorf("%w: name=%q path=%q", ErrInvalidSource, s.Name, s.Path)
	}
	return nil
}

// logSuffixes are stripped from file names when deriving a source name.
var logSuffixes = []string{".gz", ".zst", ".zstd", ".log", "_grin-server", "-grin-server"}

// ParseSource parses a command line source argument.
// The argument is either "name=path" or a bare path, in which case the
// name is the file name with compression and log suffixes removed:
// "logs/aws_eu_grin-server.log.gz" becomes "aws_eu".
func ParseSource(arg string) Source {
	if name, path, ok := strings.Cut(arg, "="); ok && name != "" && !strings.ContainsRune(name, filepath.Separator) {
		return Source{Name: name, Path: path}
	}

	name := filepath.Base(arg)
	for _, suffix := range logSuffixes {
		name = strings.TrimSuffix(name, suffix)
	}
	return Source{Name: name, Path: arg}
}

// Targets selects the attempted kernel set of an analysis.
// Exactly one of Union and Intersection must be set.
type Targets struct {
	// Union attempts every kernel seen by any of the listed sources.
	Union []string `yaml:"union,omitempty"`

	// Intersection attempts only kernels seen by all listed sources.
	Intersection []string `yaml:"intersection,omitempty"`
}

// Sources returns the source names the targets refer to.
func (t Targets) Sources() []string {
	if len(t.Union) > 0 {
		return t.Union
	}
	return t.Intersection
}

// Resolve builds the attempted kernel set from per-source kernel sets.
func (t Targets) Resolve(lookup func(name string) model.KernelSet) model.KernelSet {
	names := t.Sources()
	if len(names) == 0 {
		return model.NewKernelSet()
	}

	sets := make([]model.KernelSet, 0, len(names)-1)
	for _, name := range names[1:] {
		sets = append(sets, lookup(name))
	}

	first := lookup(names[0])
	if len(t.Union) > 0 {
		return first.Union(sets...)
	}
	return first.Intersect(sets...)
}

// String renders the targets as e.g. "intersection(aws_eu, htz_eu)".
func (t Targets) String() string {
	if len(t.Union) > 0 {
		return "union(" + strings.Join(t.Union, ", ") + ")"
	}
	return "intersection(" + strings.Join(t.Intersection, ", ") + ")"
}

// Analysis is one deanonymization run: the transactions of some sources
// attributed against the kernels of some sources.
type Analysis struct {
	// Name identifies the analysis in reports.
	Name string `yaml:"name"`

	// Transactions lists the sources whose records are concatenated.
	Transactions []string `yaml:"transactions"`

	// Targets selects the attempted kernels.
	Targets Targets `yaml:"targets"`
}

// Validate checks the analysis against the set of known source names.
func (a Analysis) Validate(known map[string]bool) error {
	if a.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidAnalysis)
	}
	if len(a.Transactions) == 0 {
		return fmt.Errorf("%w %q: no transaction sources", ErrInvalidAnalysis, a.Name)
	}
	if (len(a.Targets.Union) == 0) == (len(a.Targets.Intersection) == 0) {
		return fmt.Errorf("%w %q: targets need exactly one of union or intersection", ErrInvalidAnalysis, a.Name)
	}

	for _, name := range append(append([]string{}, a.Transactions...), a.Targets.Sources()...) {
		if !known[name] {
			return fmt.Errorf("%w %q in analysis %q", ErrUnknownSource, name, a.Name)
		}
	}
	return nil
}

// DefaultAnalyses returns the analyses run when none are configured:
// every source against its own kernels, then, for more than one source,
// all transactions against the kernels every source has seen. The combined
// analysis takes a numeric suffix when a source is already named after it.
func DefaultAnalyses(sources []string) []Analysis {
	analyses := make([]Analysis, 0, len(sources)+1)
	for _, name := range sources {
		analyses = append(analyses, Analysis{
			Name:         name,
			Transactions: []string{name},
			Targets:      Targets{Intersection: []string{name}},
		})
	}

	if len(sources) > 1 {
		name := CombinedAnalysis
		for i := 2; slices.Contains(sources, name); i++ {
			name = CombinedAnalysis + "_" + strconv.Itoa(i)
		}
		analyses = append(analyses, Analysis{
			Name:         name,
			Transactions: append([]string{}, sources...),
			Targets:      Targets{Intersection: append([]string{}, sources...)},
		})
	}
	return analyses
}
