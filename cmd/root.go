// Package cmd is the command line interface of clipview.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/clipview/clipview/color"
	"github.com/clipview/clipview/constant"
	"github.com/clipview/clipview/icon"
	"github.com/clipview/clipview/key"
	"github.com/clipview/clipview/log"
	"github.com/clipview/clipview/option"
	"github.com/clipview/clipview/player"
	"github.com/clipview/clipview/resolve"
	"github.com/clipview/clipview/share"
	"github.com/clipview/clipview/style"
	"github.com/clipview/clipview/tui"
	"github.com/clipview/clipview/util"
	"github.com/clipview/clipview/where"
	"github.com/google/uuid"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Icon variant (emoji, nerd, plain, kaomoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.Flags().StringP("link", "l", "", "Start from the state encoded in a share link")
	rootCmd.Flags().StringP("source", "s", "", "Clip to open, e.g. a YouTube watch URL")
	rootCmd.Flags().StringP("delivery", "d", "", "Delivery variant used to resolve the source")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("delivery", completionVariants))

	// Sockets of crashed sessions are left behind in the temp directory.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

var rootCmd = &cobra.Command{
	Use:   constant.Clipview,
	Short: "Loop, slow down and share moments of video clips",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Loop, slow down and share moments of video clips"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		initial, decodeErr := initialState(
			lo.Must(cmd.Flags().GetString("link")),
			lo.Must(cmd.Flags().GetString("source")),
			lo.Must(cmd.Flags().GetString("delivery")),
		)

		mpvPath := CheckDependencies()

		mpv := player.NewMPV(player.Options{
			Path:      mpvPath,
			ExtraArgs: viper.GetStringSlice(key.PlayerExtraArgs),
			Instance:  uuid.NewString(),
		})
		handleErr(mpv.Launch())

		handleErr(tui.Run(mpv, &tui.Options{
			Initial:    initial,
			InitialErr: decodeErr,
			EngineDone: mpv.Wait(),
		}))
	},
}

// initialState builds the starting state from a link, then applies the source and
// delivery overrides. Malformed link options are returned as a non-fatal error.
func initialState(link, source, delivery string) (option.State, error) {
	state := option.Default()

	var decodeErr error
	if link != "" {
		var err error
		state, err = share.FromLink(link)
		if errors.Is(err, share.ErrInvalidLink) {
			handleErr(err)
		}
		decodeErr = err
	}

	if delivery != "" {
		handleErr(option.Assign(&state, option.MP4Source, resolve.Variant(delivery)))
	}

	if source != "" && source != state.SourceURL {
		variant := state.MP4Source
		state = option.Default()
		state.MP4Source = variant
		handleErr(option.Assign(&state, option.SourceURL, source))
	}

	return state, decodeErr
}

// Execute runs the command line.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}

func completionVariants(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Map(resolve.Variants(), func(v resolve.Variant, _ int) string {
		return string(v)
	}), cobra.ShellCompDirectiveNoFileComp
}
