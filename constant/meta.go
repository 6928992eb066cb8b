// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Clipview is the canonical application identifier used for filesystem paths and CLI branding.
	Clipview = "clipview"

	// Version is the current application semantic version string.
	Version = "0.3.0"
)

// Build metadata, overridden through -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

// MinMpvVersion is the oldest mpv release whose JSON IPC behaves as the player expects.
const MinMpvVersion = "0.33.0"
