package cmd

import (
	"encoding/json"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"text/template"

	"github.com/clipview/clipview/color"
	"github.com/clipview/clipview/constant"
	"github.com/clipview/clipview/key"
	"github.com/clipview/clipview/style"
	"github.com/clipview/clipview/version"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type versionInfo struct {
	App        string `json:"app"`
	Version    string `json:"version"`
	Revision   string `json:"revision"`
	BuiltAt    string `json:"built_at"`
	BuiltBy    string `json:"built_by"`
	Platform   string `json:"platform"`
	Mpv        string `json:"mpv"`
	MpvMinimum string `json:"mpv_minimum"`
	MpvOK      bool   `json:"mpv_ok"`
}

// collectVersion gathers build metadata and probes the configured mpv.
func collectVersion() versionInfo {
	info := versionInfo{
		App:        constant.Clipview,
		Version:    constant.Version,
		Revision:   constant.Revision,
		BuiltAt:    strings.TrimSpace(constant.BuiltAt),
		BuiltBy:    constant.BuiltBy,
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
		Mpv:        "not installed",
		MpvMinimum: constant.MinMpvVersion,
	}

	path, err := exec.LookPath(viper.GetString(key.PlayerMpvPath))
	if err != nil {
		return info
	}

	if v, err := version.Mpv(path); err != nil {
		info.Mpv = "unknown"
	} else {
		info.Mpv = v
		info.MpvOK = version.Supported(v, constant.MinMpvVersion)
	}

	return info
}

var versionTemplate = lo.Must(template.New("version").Funcs(template.FuncMap{
	"faint":  style.Faint,
	"bold":   style.Bold,
	"accent": style.Fg(color.Purple),
	"warn":   style.Fg(style.WarningColor),
}).Parse(`{{ accent .App }} {{ bold .Version }} {{ faint (print "(" .Revision ")") }}

  {{ faint "built" }}     {{ .BuiltAt }} by {{ .BuiltBy }}
  {{ faint "platform" }}  {{ .Platform }}
  {{ faint "mpv" }}       {{ if .MpvOK }}{{ bold .Mpv }}{{ else }}{{ warn .Mpv }} {{ faint (print "(needs " .MpvMinimum " or newer)") }}{{ end }}
`))

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Print only the version number")
	versionCmd.Flags().BoolP("json", "j", false, "Print the details as JSON")
	versionCmd.MarkFlagsMutuallyExclusive("short", "json")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the clipview version and the detected mpv",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		info := collectVersion()

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(info))
			return
		}

		handleErr(versionTemplate.Execute(cmd.OutOrStdout(), info))
	},
}
