package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/clipview/clipview/constant"
	"github.com/clipview/clipview/icon"
	"github.com/clipview/clipview/option"
	"github.com/clipview/clipview/style"
	"github.com/clipview/clipview/util"
	"github.com/muesli/reflow/wrap"
)

func (b *statefulBubble) View() string {
	switch b.state {
	case inputState:
		return b.viewInput()
	case historyState:
		return paddingStyle.Render(b.historyC.View())
	case qrState:
		return b.viewQR()
	case errorState:
		return b.viewError()
	default:
		return b.viewControl()
	}
}

func (b *statefulBubble) viewControl() string {
	s := b.sync.Snapshot()

	playing := icon.Get(icon.Pause) + " paused"
	if s.Playing() {
		playing = style.Fg(style.SuccessColor)(icon.Get(icon.Play) + " playing")
	}

	loopLine := style.Faint(fmt.Sprintf("%s loop off (inputs %s-%s)",
		icon.Get(icon.Loop),
		util.Timestamp(s.LoopStart),
		util.Timestamp(s.LoopEnd),
	))
	if start, end, ok := s.Loop.Bounds(); ok {
		loopLine = style.Fg(style.LoopColor)(fmt.Sprintf("%s looping %s-%s",
			icon.Get(icon.Loop),
			util.Timestamp(start),
			util.Timestamp(end),
		))
	}

	source := s.SourceURL
	if source == "" {
		source = style.Faint("no source, press s to choose one")
	}

	panel := style.Panel(true).Width(max(0, b.width-2)).Render(strings.Join([]string{
		style.Bold(style.Truncate(max(0, b.width-4))(source)),
		style.Faint(fmt.Sprintf("delivery %s · width %dpx", s.MP4Source, s.VideoWidth)),
		"",
		fmt.Sprintf("%s  %s  %s×",
			playing,
			util.Timestamp(s.CurrentTime),
			option.Format(option.PlaybackSpeed, s.PlaybackSpeed),
		),
		loopLine,
	}, "\n"))

	return b.renderLines(true, []string{
		style.Title(fmt.Sprintf("%s v%s", constant.Clipview, constant.Version)),
		"",
		panel,
	})
}

func (b *statefulBubble) viewInput() string {
	return b.renderLines(true, []string{
		style.Title(b.field.title()),
		"",
		b.inputC.View(),
	})
}

func (b *statefulBubble) viewQR() string {
	return b.renderLines(true, []string{
		style.Title("Share Link"),
		"",
		b.qr,
	})
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(style.ErrorColor).Bold(true)
	body := wrap.String(errorStyle.Render(b.lastError.Error()), b.width)

	return b.renderLines(true, []string{
		style.ErrorTitle("Error"),
		"",
		icon.Get(icon.Fail) + " Something went wrong:",
		"",
		body,
	})
}

// renderLines stacks lines, then the notification and the help at the bottom.
func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	content := strings.Join(lines, "\n")

	var footer []string
	if n := b.notifier.View(b.width); n != "" {
		footer = append(footer, n)
	}
	if addHelp {
		footer = append(footer, b.helpC.View(b.keymap))
	}

	used := lipgloss.Height(content) + lipgloss.Height(strings.Join(footer, "\n"))
	if len(footer) > 0 {
		if b.height > used {
			content += strings.Repeat("\n", b.height-used)
		}
		content += "\n" + strings.Join(footer, "\n")
	}

	return paddingStyle.Render(content)
}
