package provider

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// stateSchemaJSON is the wire contract every provider reply must satisfy:
// the full workflow state with every field required except resultType.
const stateSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "goal": {"type": "string"},
    "maxIterations": {"type": "integer"},
    "currentIteration": {"type": "integer"},
    "status": {"type": "string", "enum": ["running", "completed", "needs_clarification", "error"]},
    "runLog": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "iteration": {"type": "integer"},
          "agent": {"type": "string", "enum": ["Planner", "Worker", "QA"]},
          "summary": {"type": "string"}
        },
        "required": ["iteration", "agent", "summary"]
      }
    },
    "state": {
      "type": "object",
      "properties": {
        "goal": {"type": "string"},
        "steps": {"type": "array", "items": {"type": "string"}},
        "initialPlan": {"type": "array", "items": {"type": "string"}},
        "artifacts": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "key": {"type": "string"},
              "value": {"type": "string"}
            },
            "required": ["key", "value"]
          }
        },
        "notes": {"type": "string"},
        "progress": {"type": "string"}
      },
      "required": ["goal", "steps", "artifacts", "notes", "progress"]
    },
    "finalResultMarkdown": {"type": "string"},
    "finalResultSummary": {"type": "string"},
    "resultType": {"type": "string", "enum": ["code", "text"]}
  },
  "required": ["goal", "maxIterations", "currentIteration", "status", "runLog", "state", "finalResultMarkdown", "finalResultSummary"]
}`

var (
	stateSchemaOnce sync.Once
	stateSchema     *jsonschema.Schema
	stateSchemaErr  error
)

// compiledStateSchema compiles the wire schema once per process.
func compiledStateSchema() (*jsonschema.Schema, error) {
	stateSchemaOnce.Do(func() {
		var doc any
		if err := json.Unmarshal([]byte(stateSchemaJSON), &doc); err != nil {
			stateSchemaErr = fmt.Errorf("unmarshal state schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("workflow-state.json", doc); err != nil {
			stateSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		stateSchema, stateSchemaErr = c.Compile("workflow-state.json")
	})
	return stateSchema, stateSchemaErr
}
