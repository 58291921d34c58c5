package statemachine

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/workflow-go/domain/workflow"
)

func TestCanAccept(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from workflow.Status
		to   workflow.Status
		want bool
	}{
		{"running continues", workflow.StatusRunning, workflow.StatusRunning, true},
		{"running completes", workflow.StatusRunning, workflow.StatusCompleted, true},
		{"running escalates", workflow.StatusRunning, workflow.StatusNeedsClarification, true},
		{"reply may not claim error", workflow.StatusRunning, workflow.StatusError, false},
		{"terminal is final", workflow.StatusCompleted, workflow.StatusRunning, false},
		{"unknown status rejected", workflow.StatusRunning, workflow.Status("paused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := CanAccept(tt.from, tt.to); got != tt.want {
				t.Errorf("CanAccept(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestTracker(t *testing.T) {
	t.Parallel()

	t.Run("starts running", func(t *testing.T) {
		t.Parallel()

		tr, err := NewTracker("run-1")
		if err != nil {
			t.Fatalf("NewTracker() error = %v", err)
		}
		if tr.Current() != workflow.StatusRunning {
			t.Errorf("Current() = %s, want running", tr.Current())
		}
	})

	t.Run("accepts completion", func(t *testing.T) {
		t.Parallel()

		tr, err := NewTracker("run-1")
		if err != nil {
			t.Fatalf("NewTracker() error = %v", err)
		}

		if err := tr.Accept(workflow.StatusRunning); err != nil {
			t.Errorf("Accept(running) error = %v", err)
		}
		if err := tr.Accept(workflow.StatusCompleted); err != nil {
			t.Errorf("Accept(completed) error = %v", err)
		}
		if tr.Current() != workflow.StatusCompleted {
			t.Errorf("Current() = %s, want completed", tr.Current())
		}
	})

	t.Run("rejects reply-claimed error", func(t *testing.T) {
		t.Parallel()

		tr, err := NewTracker("run-1")
		if err != nil {
			t.Fatalf("NewTracker() error = %v", err)
		}

		err = tr.Accept(workflow.StatusError)
		if !errors.Is(err, workflow.ErrInvalidTransition) {
			t.Fatalf("Accept(error) error = %v, want ErrInvalidTransition", err)
		}
		if tr.Current() != workflow.StatusRunning {
			t.Errorf("Current() = %s, want unchanged", tr.Current())
		}
	})

	t.Run("rejects leaving terminal status", func(t *testing.T) {
		t.Parallel()

		tr, err := NewTracker("run-1")
		if err != nil {
			t.Fatalf("NewTracker() error = %v", err)
		}

		if err := tr.Accept(workflow.StatusNeedsClarification); err != nil {
			t.Fatalf("Accept(needs_clarification) error = %v", err)
		}
		if err := tr.Accept(workflow.StatusRunning); !errors.Is(err, workflow.ErrInvalidTransition) {
			t.Errorf("Accept() error = %v, want ErrInvalidTransition", err)
		}
	})

	t.Run("driver fail forces error", func(t *testing.T) {
		t.Parallel()

		tr, err := NewTracker("run-1")
		if err != nil {
			t.Fatalf("NewTracker() error = %v", err)
		}

		tr.Fail()
		if tr.Current() != workflow.StatusError {
			t.Errorf("Current() = %s, want error", tr.Current())
		}

		// Fail on a terminal tracker is a no-op.
		tr.Fail()
		if tr.Current() != workflow.StatusError {
			t.Errorf("Current() = %s, want error", tr.Current())
		}
	})
}
