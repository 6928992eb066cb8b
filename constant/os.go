package constant

// runtime.GOOS values that change how clipview installs hints for mpv,
// opens share links and names the mpv IPC endpoint.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
	Android = "android"
)
