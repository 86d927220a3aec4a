// Package version holds the build version of nga.
package version

import "strings"

// Set at build time:
//
//	go build -ldflags "-X nga/internal/version.Version=0.5.0 -X nga/internal/version.Commit=$(git rev-parse HEAD)"
var (
	Version   = "0.4.0"
	Commit    = ""
	BuildDate = ""
)

// Name is the tool name written into documents and SCIP symbols.
const Name = "nga"

// shortCommit is the length commits are abbreviated to.
const shortCommit = 7

// Full returns the version line printed by "nga version", followed by the
// commit and build date when they were set.
func Full() string {
	var b strings.Builder
	b.WriteString(Name + " version " + Version)
	if c := Commit; c != "" {
		if len(c) > shortCommit {
			c = c[:shortCommit]
		}
		b.WriteString("\ncommit: " + c)
	}
	if BuildDate != "" {
		b.WriteString("\nbuilt: " + BuildDate)
	}
	return b.String()
}
