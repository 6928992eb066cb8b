package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/clipview/clipview/constant"
	"github.com/clipview/clipview/icon"
	"github.com/clipview/clipview/key"
	"github.com/clipview/clipview/log"
	"github.com/clipview/clipview/style"
	"github.com/clipview/clipview/util"
	"github.com/clipview/clipview/version"
	"github.com/spf13/viper"
)

// CheckDependencies makes sure the configured mpv is installed and returns its full path.
// A missing mpv is fatal; an old one only prints a warning.
func CheckDependencies() string {
	configured := viper.GetString(key.PlayerMpvPath)

	path, err := exec.LookPath(configured)
	if err != nil {
		printMissingDependencyError(configured)
		os.Exit(1)
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking mpv version...", icon.Get(icon.Info)))
	v, err := version.Mpv(path)
	erase()

	switch {
	case errors.Is(err, version.ErrUnknownMpvVersion):
		log.Infof("mpv at %s does not report a release number", path)
	case err != nil:
		log.Warnf("could not detect mpv version: %v", err)
	case !version.Supported(v, constant.MinMpvVersion):
		fmt.Printf(
			"%s mpv %s is older than %s, playback control may not work\n",
			style.Fg(style.WarningColor)(icon.Get(icon.Warn)),
			v,
			constant.MinMpvVersion,
		)
	}

	return path
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case constant.Darwin:
		installCmd = "brew install mpv"
	case constant.Linux:
		installCmd = "sudo apt install mpv"
	case constant.Windows:
		installCmd = "scoop install mpv"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.ErrorColor).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.ErrorColor).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("'%s' was not found. Install mpv or set %s.", dep, key.PlayerMpvPath))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
