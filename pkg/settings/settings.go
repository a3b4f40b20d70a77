// Package settings provides build metadata, runtime configuration, and
// context helpers used across the textcomplete CLI and its packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "textcomplete"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build, including the commit hash,
// build version, and build timestamp.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds configuration settings for a single execution of the application:
// where logs go, which config file was requested, and output behavior.
type Run struct {
	MinLogLevel int8
	// LogFile receives structured logs. Empty discards them, since the
	// interactive UI owns the terminal.
	LogFile     string
	ConfigPath  string
	NoColor     bool
	ExitOnError bool
}

// NewCliParams returns the defaults used by the CLI entry point.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		ExitOnError: true,
	}
}
