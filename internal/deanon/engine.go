package deanon

import (
	"log/slog"

	"github.com/grinscan/grinscan/internal/kernel"
	"github.com/grinscan/grinscan/internal/model"
)

// DefaultEliminationPasses is the number of elimination passes after round 0.
const DefaultEliminationPasses = 2

// maxConvergencePasses bounds convergence mode. Every productive pass
// attributes at least one kernel, so this is never reached on real input.
const maxConvergencePasses = 1 << 20

// Engine runs the round-based attribution.
type Engine struct {
	passes   int
	converge bool
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithConvergence keeps running elimination passes after the fixed ones
// until a pass attributes no new kernel.
func WithConvergence(converge bool) Option {
	return func(e *Engine) {
		e.converge = converge
	}
}

// WithLogger sets the logger used for per-pass debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an Engine with the default number of passes.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		passes: DefaultEliminationPasses,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Result holds the statistics of one analysis.
type Result struct {
	// Total is the number of attempted kernels present in any record.
	Total int

	// Checkpoints holds the number of attempted kernels attributed after
	// round 0 and after each elimination pass.
	Checkpoints []int

	// Added holds how many kernels, attempted or not, each pass attributed.
	Added []int

	// Attributed is every kernel attributed by the last pass.
	Attributed model.KernelSet

	// Converged is true when the last pass attributed nothing new.
	Converged bool
}

// Deanon1 returns the attempted kernels attributed by round 0.
func (r *Result) Deanon1() int { return r.checkpoint(0) }

// Deanon2 returns the attempted kernels attributed after the first elimination pass.
func (r *Result) Deanon2() int { return r.checkpoint(1) }

// Deanon3 returns the attempted kernels attributed after the second elimination pass.
func (r *Result) Deanon3() int { return r.checkpoint(2) }

func (r *Result) checkpoint(i int) int {
	if i < len(r.Checkpoints) {
		return r.Checkpoints[i]
	}
	if len(r.Checkpoints) == 0 {
		return 0
	}
	return r.Checkpoints[len(r.Checkpoints)-1]
}

// Analyze attributes kernels of records and measures the result against
// attempted. Records may repeat; they are visited in the given order.
func (e *Engine) Analyze(records []model.Record, attempted model.KernelSet) *Result {
	idx := kernel.NewIndex(records)
	result := &Result{
		Total:      idx.Kernels().IntersectionSize(attempted),
		Attributed: make(model.KernelSet),
	}

	added := e.singleKernelRound(records, result.Attributed)
	result.record(added, attempted)

	for pass := 1; ; pass++ {
		if pass > e.passes && (!e.converge || added == 0 || pass > maxConvergencePasses) {
			break
		}
		added = e.eliminationPass(records, result.Attributed)
		result.record(added, attempted)
		e.logger.Debug("elimination pass",
			"pass", pass,
			"added", added,
			"attributed", result.Checkpoints[len(result.Checkpoints)-1],
			"total", result.Total,
		)
	}
	result.Converged = added == 0

	return result
}

func (r *Result) record(added int, attempted model.KernelSet) {
	r.Added = append(r.Added, added)
	r.Checkpoints = append(r.Checkpoints, r.Attributed.IntersectionSize(attempted))
}

// singleKernelRound attributes the kernel of every single-kernel record.
func (e *Engine) singleKernelRound(records []model.Record, attributed model.KernelSet) int {
	added := 0
	for _, r := range records {
		if len(r.Kernels) != 1 {
			continue
		}
		if !attributed.Has(r.Kernels[0]) {
			attributed.Add(r.Kernels[0])
			added++
		}
	}
	return added
}

// eliminationPass attributes the remaining kernel of every record that has
// exactly one kernel not yet attributed.
func (e *Engine) eliminationPass(records []model.Record, attributed model.KernelSet) int {
	added := 0
	for _, r := range records {
		var remaining model.Commitment
		n := 0
		for _, k := range r.Kernels {
			if !attributed.Has(k) {
				remaining = k
				n++
			}
		}
		if n == 1 {
			attributed.Add(remaining)
			added++
		}
	}
	return added
}
