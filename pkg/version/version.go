// Package version holds the release version of trajplan.
package version

// Version is the current release.
const Version = "v0.3.0"
