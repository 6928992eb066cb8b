package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/clipview/clipview/color"
	"github.com/clipview/clipview/filesystem"
	"github.com/clipview/clipview/history"
	"github.com/clipview/clipview/icon"
	"github.com/clipview/clipview/key"
	"github.com/clipview/clipview/loop"
	"github.com/clipview/clipview/open"
	"github.com/clipview/clipview/option"
	"github.com/clipview/clipview/resolve"
	"github.com/clipview/clipview/share"
	"github.com/clipview/clipview/style"
	"github.com/clipview/clipview/util"
	"github.com/invopop/jsonschema"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func init() {
	rootCmd.AddCommand(linkCmd)
}

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Create, inspect and find share links",
}

func init() {
	linkCmd.AddCommand(linkEncodeCmd)

	f := linkEncodeCmd.Flags()
	f.StringP("base", "b", "", "Base URL of the link (defaults to "+key.ShareBaseURL+")")
	f.StringP("source", "s", "", "Clip source")
	f.StringP("delivery", "d", string(resolve.RemoteRedirect), "Delivery variant")
	f.Bool("play", false, "Start playing when the link is opened")
	f.StringP("loop", "l", "", "Loop range as start-end, e.g. 12-20 or 1:05-1:12.5")
	f.Float64P("speed", "r", 1, "Playback speed")
	f.StringP("time", "t", "0", "Start position, seconds or m:ss")
	f.IntP("width", "w", 640, "Video width in pixels")
	f.Bool("qr", false, "Also print the link as a QR code")
	f.String("png", "", "Write the QR code as a PNG image to this file")
	f.BoolP("copy", "c", false, "Copy the link to the clipboard")
	f.BoolP("open", "o", false, "Open the link in the default browser")

	lo.Must0(linkEncodeCmd.RegisterFlagCompletionFunc("delivery", completionVariants))
	linkEncodeCmd.SetOut(os.Stdout)
}

var linkEncodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Build a share link from flags",
	Example: "  clipview link encode -s 'https://www.youtube.com/watch?v=dQw4w9WgXcQ' -l 43-51 -r 0.75 --qr",
	Run: func(cmd *cobra.Command, args []string) {
		f := cmd.Flags()
		state := option.Default()

		set := func(name option.Name, value any) {
			handleErr(option.Assign(&state, name, value))
		}

		set(option.SourceURL, lo.Must(f.GetString("source")))
		set(option.MP4Source, resolve.Variant(lo.Must(f.GetString("delivery"))))
		set(option.Paused, !lo.Must(f.GetBool("play")))
		set(option.PlaybackSpeed, lo.Must(f.GetFloat64("speed")))
		set(option.VideoWidth, lo.Must(f.GetInt("width")))

		at, err := util.ParseTimestamp(lo.Must(f.GetString("time")))
		handleErr(err)
		set(option.CurrentTime, at)

		if r := lo.Must(f.GetString("loop")); r != "" {
			start, end, err := util.ParseRange(r)
			handleErr(err)
			set(option.LoopStart, start)
			set(option.LoopEnd, end)
			set(option.LoopEnabled, true)
		}

		base := lo.Must(f.GetString("base"))
		if base == "" {
			base = viper.GetString(key.ShareBaseURL)
		}

		link, err := share.ToLink(base, state)
		handleErr(err)

		cmd.Println(link)

		if viper.GetBool(key.ShareRemember) {
			handleErr(history.Remember(link, state, 1))
		}

		if lo.Must(f.GetBool("qr")) {
			qr, err := share.QRTerminal(link)
			handleErr(err)
			cmd.Print(qr)
		}

		if path := lo.Must(f.GetString("png")); path != "" {
			png, err := share.QR(link)
			handleErr(err)
			handleErr(filesystem.API().WriteFile(path, png, 0o644))
			cmd.Printf("%s wrote %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), path)
		}

		if lo.Must(f.GetBool("copy")) {
			handleErr(clipboard.WriteAll(link))
			cmd.Printf("%s copied to clipboard\n", style.Fg(color.Green)(icon.Get(icon.Success)))
		}

		if lo.Must(f.GetBool("open")) {
			handleErr(open.Start(link))
		}
	},
}

func init() {
	linkCmd.AddCommand(linkDecodeCmd)

	linkDecodeCmd.Flags().BoolP("json", "j", false, "Print the state as JSON")
	linkDecodeCmd.Flags().BoolP("yaml", "y", false, "Print the state as YAML")
	linkDecodeCmd.MarkFlagsMutuallyExclusive("json", "yaml")
	linkDecodeCmd.SetOut(os.Stdout)
}

var linkDecodeCmd = &cobra.Command{
	Use:   "decode <link>",
	Short: "Show the state carried by a share link",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		state, err := share.FromLink(args[0])
		if errors.Is(err, share.ErrInvalidLink) {
			handleErr(err)
		}

		for _, decodeErr := range option.DecodeErrors(err) {
			_, _ = fmt.Fprintf(
				os.Stderr,
				"%s %s, using default %s\n",
				style.Fg(color.Yellow)(icon.Get(icon.Warn)),
				decodeErr,
				option.Format(decodeErr.Option, option.DefaultOf(decodeErr.Option)),
			)
		}

		switch {
		case lo.Must(cmd.Flags().GetBool("json")):
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(state))
		case lo.Must(cmd.Flags().GetBool("yaml")):
			encoder := yaml.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent(2)
			handleErr(encoder.Encode(yamlState{State: state, LoopEnabled: state.Loop.Active}))
			handleErr(encoder.Close())
		default:
			printState(cmd, state)
		}
	},
}

// yamlState flattens the loop flag, which the State keeps as a loop.Range.
type yamlState struct {
	option.State `yaml:",inline"`
	LoopEnabled  bool `yaml:"loop_enabled"`
}

func printState(cmd *cobra.Command, state option.State) {
	keyStyle := style.New().Bold(true).Foreground(color.Purple).Render
	for _, name := range option.Names() {
		cmd.Printf("%s %s\n", keyStyle(string(name)), style.Fg(color.Yellow)(option.Format(name, option.Get(state, name))))
	}
	cmd.Printf("%s %s\n", keyStyle("loop"), describeLoop(state.Loop))
}

func describeLoop(r loop.Range) string {
	if !r.Active {
		return style.Faint(r.String())
	}
	return style.Fg(color.Orange)(icon.Get(icon.Loop) + " " + r.String())
}

func init() {
	linkCmd.AddCommand(linkSchemaCmd)
	linkSchemaCmd.SetOut(os.Stdout)
}

var linkSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of a decoded link",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := &jsonschema.Reflector{
			ExpandedStruct: true,
		}

		schema := reflector.Reflect(&option.State{})
		schema.Title = "clipview state"

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(schema))
	},
}

func init() {
	linkCmd.AddCommand(linkHistoryCmd)

	linkHistoryCmd.Flags().BoolP("raw", "r", false, "Print only the links")
	linkHistoryCmd.Flags().IntP("limit", "n", 20, "Show at most this many links")
	linkHistoryCmd.Flags().String("remove", "", "Forget this link")
	linkHistoryCmd.SetOut(os.Stdout)
}

var linkHistoryCmd = &cobra.Command{
	Use:   "history [query]",
	Short: "List remembered share links, most used first",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if link := lo.Must(cmd.Flags().GetString("remove")); link != "" {
			handleErr(history.Remove(link))
			cmd.Printf("%s removed %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), link)
			return
		}

		entries, err := history.Search(strings.Join(args, " "))
		handleErr(err)

		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}

		if lo.Must(cmd.Flags().GetBool("raw")) {
			for _, e := range entries {
				cmd.Println(e.Link)
			}
			return
		}

		if len(entries) == 0 {
			cmd.Println(style.Faint("No links remembered yet"))
			return
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleLight)
		if width, _, err := util.TerminalSize(); err == nil {
			t.SetAllowedRowLength(width)
		}

		t.AppendHeader(table.Row{"Source", "Delivery", "Loop", "Uses", "Last used", "Link"})
		for _, e := range entries {
			t.AppendRow(table.Row{
				lo.Ternary(e.Source == "", text.FgHiBlack.Sprint("(no source)"), e.Source),
				e.Variant,
				e.Loop,
				e.Rank,
				e.UsedAt.Format(time.DateTime),
				text.FgCyan.Sprint(e.Link),
			})
		}

		t.Render()
	},
}
