// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/graphfile/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/graphfile/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/graphfile/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import (
	"fmt"
	"strings"
)

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information. schemas lists the
// document schema versions this build reads, newest first.
func String(schemas []string) string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s\nschemas: %s",
		Version, Commit, Date, strings.Join(schemas, ", "))
}

// Template returns the version template string for cobra.
func Template(schemas []string) string {
	return "{{.Name}} " + strings.ReplaceAll(String(schemas), "version: ", "version ") + "\n"
}
