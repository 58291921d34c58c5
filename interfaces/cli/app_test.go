package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()

	content := fmt.Sprintf(`
provider: ollama
providers:
  ollama:
    model: llama3
    baseURL: %s
`, baseURL)

	configPath := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return configPath
}

// completedReplyJSON is a full terminal state as the model would emit it.
const completedReplyJSON = `{
	"goal": "Test goal",
	"maxIterations": 20,
	"currentIteration": 0,
	"status": "completed",
	"runLog": [{"iteration": 1, "agent": "QA", "summary": "Verified the result."}],
	"state": {
		"goal": "Test goal",
		"steps": ["produce the result"],
		"initialPlan": ["produce the result"],
		"artifacts": [],
		"notes": "All done.",
		"progress": "finished"
	},
	"finalResultMarkdown": "# Result",
	"finalResultSummary": "The goal was accomplished.",
	"resultType": "text"
}`

func TestApp_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)

	err := app.ExecuteWithArgs(context.Background(), []string{"version"})
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	output := stdout.String()
	if !strings.Contains(output, "workflow version") {
		t.Errorf("version output missing 'workflow version', got: %s", output)
	}
}

func TestApp_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)

	err := app.ExecuteWithArgs(context.Background(), []string{"--help"})
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}

	output := stdout.String()
	if !strings.Contains(output, "Planner -> Worker -> QA") {
		t.Errorf("help output missing description, got: %s", output)
	}
	if !strings.Contains(output, "run") {
		t.Errorf("help output missing 'run' command, got: %s", output)
	}
	if !strings.Contains(output, "test") {
		t.Errorf("help output missing 'test' command, got: %s", output)
	}
}

func TestApp_Run(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewEncoder(w).Encode(map[string]string{"response": completedReplyJSON}); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	defer server.Close()

	configPath := writeConfig(t, server.URL)

	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)

	err := app.ExecuteWithArgs(context.Background(), []string{"run", "-c", configPath, "--json", "Test goal"})
	if err != nil {
		t.Fatalf("run command failed: %v", err)
	}

	output := stdout.String()
	if !strings.Contains(output, `"status": "completed"`) {
		t.Errorf("run output missing completed status, got: %s", output)
	}
	if !strings.Contains(output, "# Result") {
		t.Errorf("run output missing final markdown, got: %s", output)
	}
}

func TestApp_RunMissingConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)

	err := app.ExecuteWithArgs(context.Background(), []string{"run", "-c", filepath.Join(t.TempDir(), "absent.yaml"), "Test goal"})
	if err == nil {
		t.Fatal("run command succeeded with a missing config file")
	}
}

func TestApp_TestConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewEncoder(w).Encode(map[string]any{"models": []any{}}); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	defer server.Close()

	configPath := writeConfig(t, server.URL)

	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)

	err := app.ExecuteWithArgs(context.Background(), []string{"test", "-c", configPath})
	if err != nil {
		t.Fatalf("test command failed: %v", err)
	}

	if !strings.Contains(stdout.String(), "Connection to ollama succeeded.") {
		t.Errorf("test output = %s, want success message", stdout.String())
	}
}

func TestApp_TestConnectionUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no models here", http.StatusInternalServerError)
	}))
	defer server.Close()

	configPath := writeConfig(t, server.URL)

	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)

	err := app.ExecuteWithArgs(context.Background(), []string{"test", "-c", configPath})
	if err == nil {
		t.Fatal("test command succeeded against a failing endpoint")
	}
}
