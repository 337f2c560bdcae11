package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/grinscan/grinscan/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, report *model.AnalysisReport) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, report *model.AnalysisReport) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, report)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()
		if len(p.StepNames()) != 0 {
			t.Errorf("expected 0 steps, got %v", p.StepNames())
		}
		if p.logger == nil {
			t.Error("expected the default logger")
		}
	})

	t.Run("applies WithLogger option", func(t *testing.T) {
		t.Parallel()

		logger := discardLogger()
		if p := New(WithLogger(logger)); p.logger != logger {
			t.Error("expected the configured logger")
		}
	})
}

func TestPipelineStepOrder(t *testing.T) {
	t.Parallel()

	p := New(WithLogger(discardLogger()))
	p.AddStep(&mockStep{name: "first"})
	p.AddSteps(&mockStep{name: "second"}, &mockStep{name: "third"})

	want := []string{"first", "second", "third"}
	if !slices.Equal(p.StepNames(), want) {
		t.Errorf("expected %v, got %v", want, p.StepNames())
	}

	report := model.NewAnalysisReport()
	if err := p.Execute(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(report.PerformedSteps, want) {
		t.Errorf("expected performed steps %v, got %v", want, report.PerformedSteps)
	}
}

func TestPipelineLogsSteps(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p := New(WithLogger(logger))
	p.AddSteps(&mockStep{name: "load"}, &mockStep{name: "analyze"})
	if err := p.Execute(context.Background(), model.NewAnalysisReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(buf.String(), `msg="pipeline started" steps="[load analyze]"`) {
		t.Errorf("expected step list in debug log, got:\n%s", buf.String())
	}
}

func TestPipelineExecuteErrors(t *testing.T) {
	t.Parallel()

	errStep := errors.New("step failed")

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		failing := &mockStep{name: "failing", doFunc: func(context.Context, *model.AnalysisReport) error {
			return errStep
		}}
		after := &mockStep{name: "after"}

		p := New(WithLogger(discardLogger()))
		p.AddSteps(failing, after)

		report := model.NewAnalysisReport()
		err := p.Execute(context.Background(), report)
		if !errors.Is(err, errStep) {
			t.Errorf("expected %v, got %v", errStep, err)
		}
		if after.callCount != 0 {
			t.Error("expected later step not to run")
		}
		if report.ErrorMessage != errStep.Error() {
			t.Errorf("expected error message in report, got %q", report.ErrorMessage)
		}
		if len(report.PerformedSteps) != 0 {
			t.Errorf("expected no performed steps, got %v", report.PerformedSteps)
		}
	})

	t.Run("cancelled context stops before the first step", func(t *testing.T) {
		t.Parallel()

		step := &mockStep{name: "never"}
		p := New(WithLogger(discardLogger()))
		p.AddStep(step)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		report := model.NewAnalysisReport()
		if err := p.Execute(ctx, report); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("expected step not to run")
		}
	})
}
