package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	domainprovider "github.com/felixgeelhaar/workflow-go/domain/provider"
	"github.com/felixgeelhaar/workflow-go/domain/workflow"
)

// replyJSON returns a complete wire-shaped state reply with the given notes.
func replyJSON(notes string) string {
	return fmt.Sprintf(`{
		"goal": "Test goal",
		"maxIterations": 10,
		"currentIteration": 0,
		"status": "running",
		"runLog": [{"iteration": 0, "agent": "Planner", "summary": "planned"}],
		"state": {
			"goal": "Test goal",
			"steps": ["first step"],
			"initialPlan": ["first step"],
			"artifacts": [],
			"notes": %q,
			"progress": "started"
		},
		"finalResultMarkdown": "",
		"finalResultSummary": ""
	}`, notes)
}

func testRequest(t *testing.T) Request {
	t.Helper()
	state, err := workflow.New("Test goal", 10)
	if err != nil {
		t.Fatalf("workflow.New() error = %v", err)
	}
	return Request{State: state, Prompt: "instructions\n\n## CURRENT WORKFLOW STATE\n\n{}"}
}

func mustCall(t *testing.T, a Adapter, cfg domainprovider.Settings) *workflow.State {
	t.Helper()
	state, err := a.Call(context.Background(), testRequest(t), cfg)
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	return state
}

func writeJSON(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

func decodeBody(t *testing.T, data []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("request body is not valid JSON: %v", err)
	}
}
