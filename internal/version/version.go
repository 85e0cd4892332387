// Package version centralizes Orbit's version metadata, the same role the
// teacher's internal/version plays for its own CLI.
package version

var (
	// Version is the semantic version of this Orbit build.
	Version = "0.1.0"

	// BuildDate is set during build time (use -ldflags).
	BuildDate = "development"

	// GitCommit is set during build time (use -ldflags).
	GitCommit = "unknown"
)

// FullInfo returns a one-line "orbit <version> (commit: ..., built: ...)"
// string for diagnostic output.
func FullInfo() string {
	return "orbit " + Version + " (commit: " + GitCommit + ", built: " + BuildDate + ")"
}
