package provider

import (
	"encoding/json"
	"errors"

	domainprovider "github.com/felixgeelhaar/workflow-go/domain/provider"
	"github.com/felixgeelhaar/workflow-go/domain/workflow"
	"github.com/felixgeelhaar/workflow-go/infrastructure/logging"
)

// decodeState is the final step of every adapter's decode chain: the raw
// text that is supposed to be the workflow state is parsed, checked against
// the wire schema, and unmarshaled into the domain type. The layer name
// records which nesting level the text came from so a ParseError pinpoints
// the failing step.
func decodeState(key domainprovider.Key, layer string, raw []byte) (*workflow.State, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, parseError(key, layer, raw, err)
	}

	schema, err := compiledStateSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, parseError(key, layer, raw, err)
	}

	var state workflow.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, parseError(key, layer, raw, err)
	}
	return &state, nil
}

// parseError logs the offending text before raising, so a malformed reply
// can be diagnosed from the logs alone.
func parseError(key domainprovider.Key, layer string, raw []byte, err error) error {
	logging.Error().
		Add(logging.Provider(key)).
		Add(logging.RawReply(string(raw))).
		Add(logging.ErrorField(err)).
		Msg("failed to parse provider reply")

	return &domainprovider.ParseError{
		Provider: key,
		Layer:    layer,
		Raw:      string(raw),
		Err:      err,
	}
}

var errNoJSONObject = errors.New("no balanced JSON object found")

// extractJSONObject returns the first balanced {...} object in text.
// Message-API replies may wrap the state JSON in prose, so the body cannot
// be assumed to be pure JSON. Braces inside strings and escape sequences
// are skipped.
func extractJSONObject(text string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range text {
		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}

		switch r {
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start >= 0 {
				depth--
				if depth == 0 {
					return text[start : i+1], nil
				}
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}

	return "", errNoJSONObject
}
