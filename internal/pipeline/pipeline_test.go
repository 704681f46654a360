package pipeline

import (
	"context"
	"errors"
	"testing"

	"urlcat/internal/model"
)

// fakeStep records whether it ran and optionally fails.
type fakeStep struct {
	name string
	err  error
	ran  bool
}

func (f *fakeStep) Do(_ context.Context, _ *model.SiteReport) error {
	f.ran = true
	return f.err
}

func (f *fakeStep) Name() string { return f.name }

// TestPipelineExecute tests step sequencing and error policy.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("runs steps in order and records them", func(t *testing.T) {
		t.Parallel()

		first := &fakeStep{name: "first"}
		second := &fakeStep{name: "second"}

		p := New()
		p.AddSteps(first, second)

		report := model.NewSiteReport("https://example.com", "example.com", 10)
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("execute failed: %v", err)
		}

		if !first.ran || !second.ran {
			t.Error("expected both steps to run")
		}
		if len(report.PerformedSteps) != 2 ||
			report.PerformedSteps[0] != "first" || report.PerformedSteps[1] != "second" {
			t.Errorf("performed steps = %v", report.PerformedSteps)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		failErr := errors.New("boom")
		failing := &fakeStep{name: "failing", err: failErr}
		after := &fakeStep{name: "after"}

		p := New()
		p.AddSteps(failing, after)

		report := model.NewSiteReport("https://example.com", "example.com", 10)
		if err := p.Execute(context.Background(), report); !errors.Is(err, failErr) {
			t.Fatalf("expected step error, got %v", err)
		}

		if after.ran {
			t.Error("step after failure should not run")
		}
		if report.ErrorMessage != "boom" {
			t.Errorf("error message = %q", report.ErrorMessage)
		}
	})

	t.Run("continues past failures when configured", func(t *testing.T) {
		t.Parallel()

		failing := &fakeStep{name: "failing", err: errors.New("boom")}
		after := &fakeStep{name: "after"}

		p := New(WithContinueOnError(true))
		p.AddSteps(failing, after)

		report := model.NewSiteReport("https://example.com", "example.com", 10)
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("execute should swallow step errors, got %v", err)
		}

		if !after.ran {
			t.Error("expected later step to run despite failure")
		}
		if len(report.PerformedSteps) != 2 {
			t.Errorf("performed steps = %v", report.PerformedSteps)
		}
	})

	t.Run("cancellation marks the report timed out", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &fakeStep{name: "never"}
		p := New()
		p.AddStep(step)

		report := model.NewSiteReport("https://example.com", "example.com", 10)
		if err := p.Execute(ctx, report); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context error, got %v", err)
		}

		if step.ran {
			t.Error("step should not run after cancellation")
		}
		if !report.TimedOut {
			t.Error("expected TimedOut to be set")
		}
	})
}

// TestPipelineStepNames tests introspection helpers.
func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddSteps(&fakeStep{name: "crawl"}, &fakeStep{name: "taxonomy"})

	if p.StepCount() != 2 {
		t.Errorf("step count = %d, want 2", p.StepCount())
	}
	names := p.StepNames()
	if len(names) != 2 || names[0] != "crawl" || names[1] != "taxonomy" {
		t.Errorf("step names = %v", names)
	}
}
