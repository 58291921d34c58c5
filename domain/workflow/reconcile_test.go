package workflow

import "testing"

func hasViolation(vs []ReplyViolation, want ReplyViolation) bool {
	for _, v := range vs {
		if v == want {
			return true
		}
	}
	return false
}

func TestReconcile(t *testing.T) {
	t.Parallel()

	t.Run("restores rewritten initial plan", func(t *testing.T) {
		t.Parallel()

		prev, _ := New("goal", 5)
		prev.State.InitialPlan = []string{"a", "b"}
		reply := prev.Clone()
		reply.State.InitialPlan = []string{"x"}

		vs := Reconcile(prev, reply)
		if !hasViolation(vs, ViolationInitialPlanRewritten) {
			t.Fatal("expected initial_plan_rewritten violation")
		}
		if len(reply.State.InitialPlan) != 2 || reply.State.InitialPlan[0] != "a" {
			t.Errorf("InitialPlan = %v, want restored [a b]", reply.State.InitialPlan)
		}
	})

	t.Run("allows first plan write", func(t *testing.T) {
		t.Parallel()

		prev, _ := New("goal", 5)
		reply := prev.Clone()
		reply.State.InitialPlan = []string{"a", "b"}

		vs := Reconcile(prev, reply)
		if hasViolation(vs, ViolationInitialPlanRewritten) {
			t.Error("empty to non-empty plan flagged as violation")
		}
		if len(reply.State.InitialPlan) != 2 {
			t.Errorf("InitialPlan = %v, want [a b]", reply.State.InitialPlan)
		}
	})

	t.Run("overwrites model iteration counter", func(t *testing.T) {
		t.Parallel()

		prev, _ := New("goal", 5)
		prev.CurrentIteration = 3
		reply := prev.Clone()
		reply.CurrentIteration = 7
		reply.MaxIterations = 99

		vs := Reconcile(prev, reply)
		if !hasViolation(vs, ViolationIterationDrift) {
			t.Error("expected iteration_drift violation")
		}
		if reply.CurrentIteration != 3 {
			t.Errorf("CurrentIteration = %d, want 3", reply.CurrentIteration)
		}
		if reply.MaxIterations != 5 {
			t.Errorf("MaxIterations = %d, want 5", reply.MaxIterations)
		}
	})

	t.Run("restores rewritten goal", func(t *testing.T) {
		t.Parallel()

		prev, _ := New("original goal", 5)
		reply := prev.Clone()
		reply.Goal = "different goal"

		vs := Reconcile(prev, reply)
		if !hasViolation(vs, ViolationGoalRewritten) {
			t.Fatal("expected goal_rewritten violation")
		}
		if reply.Goal != "original goal" {
			t.Errorf("Goal = %q, want original", reply.Goal)
		}
	})

	t.Run("clean reply has no violations", func(t *testing.T) {
		t.Parallel()

		prev, _ := New("goal", 5)
		prev.State.InitialPlan = []string{"a"}
		reply := prev.Clone()
		reply.State.Notes = "progress"

		if vs := Reconcile(prev, reply); len(vs) != 0 {
			t.Errorf("violations = %v, want none", vs)
		}
	})
}
