package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// envExpander expands environment variables in configuration strings.
type envExpander struct {
	// strict fails if a referenced variable is not set.
	strict bool
	// missing tracks missing environment variables.
	missing []string
}

var bracketPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*)?\}`)

// Expand expands ${VAR} and ${VAR:-default} references in the input.
// Unset variables expand to the empty string unless strict mode is on.
func (e *envExpander) Expand(input string) (string, error) {
	e.missing = nil

	result := bracketPattern.ReplaceAllStringFunc(input, func(match string) string {
		inner := match[2 : len(match)-1]

		parts := strings.SplitN(inner, ":-", 2)
		varName := parts[0]

		value, exists := os.LookupEnv(varName)
		if !exists || value == "" {
			if len(parts) == 2 {
				return parts[1]
			}
			if e.strict {
				e.missing = append(e.missing, varName)
			}
			return ""
		}
		return value
	})

	if len(e.missing) > 0 {
		return "", fmt.Errorf("missing environment variables: %s", strings.Join(e.missing, ", "))
	}
	return result, nil
}
