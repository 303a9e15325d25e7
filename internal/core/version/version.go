// Package version provides information about the build version of the linter.
package version

// BuildInfo holds version information about the build.
type BuildInfo struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

// Info returns the build information. The version, commit, and date variables
// are set at build time using -ldflags.
func Info() BuildInfo {
	// Set via -ldflags "-X 'taglint/internal/core/version.version=v0.1.0'
	// -X 'taglint/internal/core/version.commit=abcd' -X 'taglint/internal/core/version.date=2026-10-14'"
	return BuildInfo{
		Name:    "taglint",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// String renders the info on one line for the version command
func (b BuildInfo) String() string {
	return b.Name + " " + b.Version + " (" + b.Commit + ", " + b.Date + ")"
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
