package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/clipview/clipview/filesystem"
	"github.com/clipview/clipview/history"
	"github.com/clipview/clipview/icon"
	"github.com/clipview/clipview/style"
	"github.com/clipview/clipview/util"
	"github.com/clipview/clipview/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	clear    func() error
}

func removeAll(location func() string) func() error {
	return func() error {
		return filesystem.API().RemoveAll(location())
	}
}

var clearTargets = []clearTarget{
	{"cache directory", "cache", mo.Some("c"), removeAll(where.Cache)},
	{"link history", "links", mo.Some("l"), history.Clear},
	{"temp directory", "temp", mo.Some("t"), func() error { return util.Delete(where.Temp()) }},
	{"logs directory", "logs", mo.None[string](), removeAll(where.Logs)},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if target.argShort.IsPresent() {
			clearCmd.Flags().BoolP(target.argLong, target.argShort.MustGet(), false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}

	clearCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached and temporary files",
	Run: func(cmd *cobra.Command, args []string) {
		selected := lo.Filter(clearTargets, func(target clearTarget, _ int) bool {
			return lo.Must(cmd.Flags().GetBool(target.argLong))
		})

		if len(selected) == 0 {
			handleErr(cmd.Help())
			return
		}

		if !lo.Must(cmd.Flags().GetBool("yes")) {
			names := lo.Map(selected, func(target clearTarget, _ int) string {
				return target.name
			})

			var confirm bool
			handleErr(survey.AskOne(&survey.Confirm{
				Message: fmt.Sprintf("Clear %s?", util.Quantify(len(names), "target", "targets")),
				Help:    fmt.Sprint(names),
			}, &confirm))

			if !confirm {
				return
			}
		}

		for _, target := range selected {
			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Info), target.name))
			err := target.clear()
			erase()
			handleErr(err)

			fmt.Printf(
				"%s %s cleared\n",
				style.Fg(style.SuccessColor)(icon.Get(icon.Success)),
				util.Capitalize(target.name),
			)
		}
	},
}
