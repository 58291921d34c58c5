package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/workflow-go/domain/provider"
	"github.com/felixgeelhaar/workflow-go/domain/workflow"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// Str adds an arbitrary string field.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}

// RunID adds a run ID field.
func RunID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("run_id", id)
	}
}

// Provider adds a provider field.
func Provider(k provider.Key) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("provider", string(k))
	}
}

// Iteration adds an iteration field.
func Iteration(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("iteration", n)
	}
}

// Status adds a status field.
func Status(s workflow.Status) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("status", string(s))
	}
}

// Goal adds a goal field.
func Goal(goal string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("goal", goal)
	}
}

// Query adds a search query field.
func Query(q string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("query", q)
	}
}

// Violation adds a reply violation field.
func Violation(v workflow.ReplyViolation) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("violation", v.String())
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// RawReply adds a truncated raw reply excerpt for parse failure diagnosis.
func RawReply(raw string) Field {
	const maxLen = 2048
	if len(raw) > maxLen {
		raw = raw[:maxLen] + "...(truncated)"
	}
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("raw_reply", raw)
	}
}
