// Package workflowgo provides the version information for workflow-go.
package workflowgo

// Version is the current version of workflow-go.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
