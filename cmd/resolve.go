package cmd

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/AlecAivazis/survey/v2"
	"github.com/clipview/clipview/color"
	"github.com/clipview/clipview/constant"
	"github.com/clipview/clipview/filesystem"
	"github.com/clipview/clipview/icon"
	"github.com/clipview/clipview/resolve"
	"github.com/clipview/clipview/style"
	"github.com/clipview/clipview/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const scriptExtension = ".lua"

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringP("delivery", "d", string(resolve.RemoteRedirect), "Delivery variant to resolve with")
	lo.Must0(resolveCmd.RegisterFlagCompletionFunc("delivery", completionVariants))
	resolveCmd.SetOut(os.Stdout)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <descriptor>",
	Short: "Print the playable URL a source resolves to",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		variant := resolve.Variant(lo.Must(cmd.Flags().GetString("delivery")))

		url, err := resolve.Resolve(args[0], variant)
		handleErr(err)

		cmd.Println(url)
	},
}

func init() {
	rootCmd.AddCommand(resolversCmd)
}

var resolversCmd = &cobra.Command{
	Use:   "resolvers",
	Short: "Manage delivery variants and Lua resolver scripts",
}

func init() {
	resolversCmd.AddCommand(resolversListCmd)
	resolversListCmd.Flags().BoolP("raw", "r", false, "Print only variant names")
	resolversListCmd.SetOut(os.Stdout)
}

var resolversListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every registered delivery variant",
	Run: func(cmd *cobra.Command, args []string) {
		raw := lo.Must(cmd.Flags().GetBool("raw"))

		for _, v := range resolve.Variants() {
			if raw {
				cmd.Println(v)
				continue
			}

			kind := style.Faint("builtin")
			if v != resolve.RemoteRedirect && v != resolve.LocalFile {
				kind = style.Fg(color.Cyan)(icon.Get(icon.Lua) + " script")
			}
			cmd.Printf("%s %s\n", style.Bold(string(v)), kind)
		}
	},
}

func init() {
	resolversCmd.AddCommand(resolversNewCmd)
	resolversNewCmd.SetOut(os.Stdout)
}

var resolversNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Scaffold a Lua resolver script",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var name string
		if len(args) == 1 {
			name = args[0]
		} else {
			handleErr(survey.AskOne(&survey.Input{
				Message: "Variant name",
				Help:    "The script is registered under this name, e.g. vimeo",
			}, &name, survey.WithValidator(survey.Required)))
		}

		name = strings.TrimSpace(name)
		if resolve.Known(resolve.Variant(name)) {
			handleErr(fmt.Errorf("variant %s already exists", name))
		}

		author := "anonymous"
		if usr, err := user.Current(); err == nil {
			author = usr.Username
		}

		tmpl, err := template.New("resolver").Parse(constant.ResolverTemplate)
		handleErr(err)

		target := filepath.Join(where.Resolvers(), name+scriptExtension)
		f, err := filesystem.API().Create(target)
		handleErr(err)
		defer f.Close()

		handleErr(tmpl.Execute(f, struct {
			Name      string
			Author    string
			ResolveFn string
		}{
			Name:      name,
			Author:    author,
			ResolveFn: constant.ResolveFn,
		}))

		cmd.Println(target)
	},
}

func init() {
	resolversCmd.AddCommand(resolversRemoveCmd)
}

var resolversRemoveCmd = &cobra.Command{
	Use:   "remove <name>...",
	Short: "Delete Lua resolver scripts",
	Args:  cobra.MinimumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return scriptVariants(), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range args {
			path := filepath.Join(where.Resolvers(), name+scriptExtension)
			handleErr(filesystem.API().Remove(path))
			fmt.Printf("%s removed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
		}
	},
}

func scriptVariants() []string {
	entries, err := filesystem.API().ReadDir(where.Resolvers())
	if err != nil {
		return nil
	}

	return lo.FilterMap(entries, func(item os.FileInfo, _ int) (string, bool) {
		name := item.Name()
		if !strings.HasSuffix(name, scriptExtension) {
			return "", false
		}
		return strings.TrimSuffix(name, scriptExtension), true
	})
}
