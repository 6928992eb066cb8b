// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Media Playback - these keys configure the external mpv process.
const (
	PlayerMpvPath   = "player.mpv_path"
	PlayerExtraArgs = "player.extra_args"
)

// Source Resolution - these keys parameterize the built-in resolver variants.
const (
	ResolverRedirectEndpoint = "resolver.redirect_endpoint"
	ResolverRedirectParam    = "resolver.redirect_param"
	ResolverLocalFile        = "resolver.local_file"
)

// Share Links
const (
	ShareBaseURL  = "share.base_url"
	ShareRemember = "share.remember"
)

// Terminal User Interface (TUI) - step sizes for keyboard driven controls.
const (
	TUISeekStep  = "tui.seek_step"
	TUISpeedStep = "tui.speed_step"
)
