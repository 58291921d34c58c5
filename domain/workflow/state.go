// Package workflow provides the core domain model for an orchestrated
// Planner/Worker/QA workflow run.
package workflow

import "encoding/json"

// Status represents the lifecycle status of a workflow run.
// Statuses are identified by stable strings that round-trip through the
// LLM wire payload unchanged.
type Status string

// Canonical statuses.
const (
	StatusRunning            Status = "running"
	StatusCompleted          Status = "completed"
	StatusNeedsClarification Status = "needs_clarification"
	StatusError              Status = "error"
)

// IsTerminal returns true if no further iterations should run.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusNeedsClarification || s == StatusError
}

// IsValid returns true if the status is a recognized canonical status.
func (s Status) IsValid() bool {
	switch s {
	case StatusRunning, StatusCompleted, StatusNeedsClarification, StatusError:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// AgentRole labels which conceptual agent produced a run log entry.
// The three roles are phases of a single model response, not separate calls.
type AgentRole string

// Canonical roles.
const (
	RolePlanner AgentRole = "Planner"
	RoleWorker  AgentRole = "Worker"
	RoleQA      AgentRole = "QA"
)

// ResultType classifies the deliverable of a completed run.
type ResultType string

// Canonical result types.
const (
	ResultCode ResultType = "code"
	ResultText ResultType = "text"
)

// RunLogEntry is one append-only audit trail record.
type RunLogEntry struct {
	Iteration int       `json:"iteration"`
	Agent     AgentRole `json:"agent"`
	Summary   string    `json:"summary"`
}

// Artifact is a named string payload produced during a turn. Complex
// payloads are pre-serialized to a string by the producer.
type Artifact struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Reserved artifact keys used by the retrieval side-channel.
const (
	// ArtifactRAGQuery is a transient search request emitted by the Worker.
	// It is consumed and removed within the same turn it appears.
	ArtifactRAGQuery = "rag_query"

	// ArtifactRAGResults holds the search response spliced in by the
	// iteration controller.
	ArtifactRAGResults = "rag_results"
)

// InternalState is the mutable workspace section of the state.
type InternalState struct {
	Goal        string     `json:"goal"`
	Steps       []string   `json:"steps"`
	InitialPlan []string   `json:"initialPlan,omitempty"`
	Artifacts   []Artifact `json:"artifacts"`
	Notes       string     `json:"notes"`
	Progress    string     `json:"progress"`
}

// Artifact returns the value for a key and whether it exists.
func (s *InternalState) Artifact(key string) (string, bool) {
	for _, a := range s.Artifacts {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// SetArtifact appends an artifact or overwrites the value of an existing key.
func (s *InternalState) SetArtifact(key, value string) {
	for i, a := range s.Artifacts {
		if a.Key == key {
			s.Artifacts[i].Value = value
			return
		}
	}
	s.Artifacts = append(s.Artifacts, Artifact{Key: key, Value: value})
}

// RemoveArtifact deletes every artifact with the given key. It returns true
// if at least one entry was removed.
func (s *InternalState) RemoveArtifact(key string) bool {
	kept := s.Artifacts[:0]
	removed := false
	for _, a := range s.Artifacts {
		if a.Key == key {
			removed = true
			continue
		}
		kept = append(kept, a)
	}
	s.Artifacts = kept
	return removed
}

// State is the entire mutable, serializable state of one workflow run.
// It is passed whole into and out of every provider call.
type State struct {
	Goal                string        `json:"goal"`
	MaxIterations       int           `json:"maxIterations"`
	CurrentIteration    int           `json:"currentIteration"`
	Status              Status        `json:"status"`
	RunLog              []RunLogEntry `json:"runLog"`
	State               InternalState `json:"state"`
	FinalResultMarkdown string        `json:"finalResultMarkdown"`
	FinalResultSummary  string        `json:"finalResultSummary"`
	ResultType          ResultType    `json:"resultType,omitempty"`
}

// New creates the initial state for a goal.
func New(goal string, maxIterations int) (*State, error) {
	if goal == "" {
		return nil, ErrEmptyGoal
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &State{
		Goal:          goal,
		MaxIterations: maxIterations,
		Status:        StatusRunning,
		RunLog:        []RunLogEntry{},
		State: InternalState{
			Goal:      goal,
			Steps:     []string{},
			Artifacts: []Artifact{},
		},
	}, nil
}

// DefaultMaxIterations bounds a run when the caller does not set a budget.
const DefaultMaxIterations = 20

// Clone returns a deep copy of the state. Empty slices stay empty rather
// than becoming nil, so a clone serializes exactly like its source.
func (s *State) Clone() *State {
	c := *s
	c.RunLog = cloneSlice(s.RunLog)
	c.State.Steps = cloneSlice(s.State.Steps)
	c.State.InitialPlan = cloneSlice(s.State.InitialPlan)
	c.State.Artifacts = cloneSlice(s.State.Artifacts)
	return &c
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	c := make([]T, len(s))
	copy(c, s)
	return c
}

// MarshalIndent renders the state as formatted JSON.
func (s *State) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
