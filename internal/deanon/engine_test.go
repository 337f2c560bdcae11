package deanon

import (
	"maps"
	"slices"
	"strings"
	"testing"

	"github.com/grinscan/grinscan/internal/model"
)

func c(seed string) model.Commitment {
	return model.Commitment(strings.Repeat(seed, model.CommitmentHexLen))
}

func rec(in, out string, kernels ...string) model.Record {
	ks := make([]model.Commitment, len(kernels))
	for i, k := range kernels {
		ks[i] = c(k)
	}
	return model.Record{
		Inputs:  []model.Commitment{c(in)},
		Outputs: []model.Commitment{c(out)},
		Kernels: ks,
	}
}

func kernels(seeds ...string) model.KernelSet {
	s := model.NewKernelSet()
	for _, seed := range seeds {
		s.Add(c(seed))
	}
	return s
}

func TestEngine_Analyze(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		records   []model.Record
		attempted model.KernelSet
		total     int
		deanon    [3]int
	}{
		{
			name: "every kernel alone somewhere",
			records: []model.Record{
				rec("a", "b", "1"),
				rec("c", "d", "1", "2"),
				rec("e", "f", "2"),
			},
			attempted: kernels("1", "2"),
			total:     2,
			deanon:    [3]int{2, 2, 2},
		},
		{
			name: "second kernel found by elimination",
			records: []model.Record{
				rec("a", "b", "1"),
				rec("c", "d", "1", "2"),
			},
			attempted: kernels("1", "2"),
			total:     2,
			deanon:    [3]int{1, 2, 2},
		},
		{
			name: "chain needs the second pass",
			records: []model.Record{
				rec("g", "h", "2", "3"),
				rec("c", "d", "1", "2"),
				rec("a", "b", "1"),
			},
			attempted: kernels("1", "2", "3"),
			total:     3,
			deanon:    [3]int{1, 2, 3},
		},
		{
			name: "same chain resolved in one pass when ordered",
			records: []model.Record{
				rec("a", "b", "1"),
				rec("c", "d", "1", "2"),
				rec("g", "h", "2", "3"),
			},
			attempted: kernels("1", "2", "3"),
			total:     3,
			deanon:    [3]int{1, 3, 3},
		},
		{
			name: "fully mixed pair stays anonymous",
			records: []model.Record{
				rec("a", "b", "1", "2"),
			},
			attempted: kernels("1", "2"),
			total:     2,
			deanon:    [3]int{0, 0, 0},
		},
		{
			name: "attempted kernels missing from the records do not count",
			records: []model.Record{
				rec("a", "b", "1"),
			},
			attempted: kernels("1", "7", "8"),
			total:     1,
			deanon:    [3]int{1, 1, 1},
		},
		{
			name: "attributed kernels outside the attempted set are not reported",
			records: []model.Record{
				rec("a", "b", "1"),
				rec("c", "d", "1", "2"),
			},
			attempted: kernels("2"),
			total:     1,
			deanon:    [3]int{0, 1, 1},
		},
		{
			name:      "no records",
			records:   nil,
			attempted: kernels("1"),
			total:     0,
			deanon:    [3]int{0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := NewEngine().Analyze(tt.records, tt.attempted)
			if result.Total != tt.total {
				t.Errorf("expected total %d, got %d", tt.total, result.Total)
			}
			got := [3]int{result.Deanon1(), result.Deanon2(), result.Deanon3()}
			if got != tt.deanon {
				t.Errorf("expected deanon %v, got %v", tt.deanon, got)
			}
			if len(result.Checkpoints) != 3 {
				t.Errorf("expected 3 checkpoints, got %v", result.Checkpoints)
			}
		})
	}
}

func TestEngine_RepeatedRecords(t *testing.T) {
	t.Parallel()

	eu := []model.Record{rec("a", "b", "1"), rec("c", "d", "1", "2")}
	us := []model.Record{rec("a", "b", "1"), rec("c", "d", "1", "2")}
	records := append(append([]model.Record{}, eu...), us...)

	result := NewEngine().Analyze(records, kernels("1", "2"))
	if result.Total != 2 {
		t.Errorf("expected total 2, got %d", result.Total)
	}
	if !slices.Equal(result.Checkpoints, []int{1, 2, 2}) {
		t.Errorf("unexpected checkpoints %v", result.Checkpoints)
	}
	if !slices.Equal(result.Added, []int{1, 1, 0}) {
		t.Errorf("unexpected additions per pass %v", result.Added)
	}
}

func TestEngine_Monotonic(t *testing.T) {
	t.Parallel()

	records := []model.Record{
		rec("a", "b", "5", "4"),
		rec("c", "d", "4", "3"),
		rec("e", "f", "3", "2"),
		rec("g", "h", "2", "1"),
		rec("i", "j", "1"),
		rec("k", "l", "8", "9"),
	}
	attempted := kernels("1", "2", "3", "4", "5", "8", "9")

	result := NewEngine(WithConvergence(true)).Analyze(records, attempted)
	if len(result.Checkpoints) < 3 {
		t.Fatalf("expected at least 3 checkpoints, got %v", result.Checkpoints)
	}
	for i := 1; i < len(result.Checkpoints); i++ {
		if result.Checkpoints[i-1] > result.Checkpoints[i] {
			t.Errorf("checkpoints decrease at %d: %v", i, result.Checkpoints)
		}
	}
	if last := result.Checkpoints[len(result.Checkpoints)-1]; last > result.Total {
		t.Errorf("attributed %d exceeds total %d", last, result.Total)
	}
	if result.Total != 7 {
		t.Errorf("expected total 7, got %d", result.Total)
	}
}

func TestEngine_Convergence(t *testing.T) {
	t.Parallel()

	// Reverse order forces one new attribution per pass.
	records := []model.Record{
		rec("a", "b", "5", "4"),
		rec("c", "d", "4", "3"),
		rec("e", "f", "3", "2"),
		rec("g", "h", "2", "1"),
		rec("i", "j", "1"),
	}
	attempted := kernels("1", "2", "3", "4", "5")

	fixed := NewEngine().Analyze(records, attempted)
	if !slices.Equal(fixed.Checkpoints, []int{1, 2, 3}) {
		t.Errorf("unexpected fixed checkpoints %v", fixed.Checkpoints)
	}
	if fixed.Converged {
		t.Error("expected fixed passes not to converge")
	}

	converged := NewEngine(WithConvergence(true)).Analyze(records, attempted)
	if !slices.Equal(converged.Checkpoints[:3], fixed.Checkpoints) {
		t.Errorf("convergence must not change the first checkpoints: %v", converged.Checkpoints)
	}
	if !slices.Equal(converged.Checkpoints, []int{1, 2, 3, 4, 5, 5}) {
		t.Errorf("unexpected converged checkpoints %v", converged.Checkpoints)
	}
	if !converged.Converged {
		t.Error("expected convergence")
	}
	if converged.Attributed.Len() != 5 {
		t.Errorf("expected 5 attributed kernels, got %d", converged.Attributed.Len())
	}
}

func TestEngine_Idempotent(t *testing.T) {
	t.Parallel()

	records := []model.Record{
		rec("a", "b", "1"),
		rec("c", "d", "1", "2"),
		rec("e", "f", "2", "3", "4"),
	}
	attempted := kernels("1", "2", "3", "4")
	engine := NewEngine()

	first := engine.Analyze(records, attempted)
	second := engine.Analyze(records, attempted)
	if first.Total != second.Total || !slices.Equal(first.Checkpoints, second.Checkpoints) {
		t.Errorf("runs differ: %d %v and %d %v", first.Total, first.Checkpoints, second.Total, second.Checkpoints)
	}
	if !maps.Equal(first.Attributed, second.Attributed) {
		t.Error("attributed kernels differ between runs")
	}
}

func TestResult_CheckpointFallback(t *testing.T) {
	t.Parallel()

	r := &Result{Checkpoints: []int{4}}
	if r.Deanon1() != 4 || r.Deanon3() != 4 {
		t.Errorf("expected missing checkpoints to repeat the last one, got %d and %d", r.Deanon1(), r.Deanon3())
	}

	empty := &Result{}
	if empty.Deanon2() != 0 {
		t.Errorf("expected 0 without checkpoints, got %d", empty.Deanon2())
	}
}
