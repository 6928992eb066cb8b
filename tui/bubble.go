package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/clipview/clipview/internal/ui"
	"github.com/clipview/clipview/option"
	"github.com/clipview/clipview/player"
	"github.com/clipview/clipview/resolve"
	"github.com/clipview/clipview/style"
	"github.com/clipview/clipview/synchronizer"
	"github.com/clipview/clipview/util"
)

type statefulBubble struct {
	state    state
	previous state
	keymap   *statefulKeymap

	relay *player.Relay
	sync  *synchronizer.Synchronizer

	// components
	inputC   textinput.Model
	historyC list.Model
	helpC    help.Model
	notifier *ui.Model

	field     field
	qr        string
	lastError error

	// commands produced by synchronous callbacks, flushed at the end of Update
	queued []tea.Cmd

	width, height int
	options       *Options
}

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState remembers where to return on esc.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}
	b.previous = b.state
	b.setState(s)
}

func (b *statefulBubble) previousState() {
	b.setState(b.previous)
	b.previous = controlState
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

// notify shows err on the notification line.
func (b *statefulBubble) notify(err error) {
	level := ui.Error
	switch {
	case errors.Is(err, option.ErrConfigDecode):
		level = ui.Warn
	case errors.Is(err, resolve.ErrInvalidSourceURL):
		level = ui.Warn
	}
	b.say(err.Error(), level)
}

func (b *statefulBubble) say(text string, level ui.Level) {
	b.queued = append(b.queued, b.notifier.Set(ui.Notification{Text: text, Level: level}))
}

func (b *statefulBubble) flush() tea.Cmd {
	cmds := b.queued
	b.queued = nil
	return tea.Batch(cmds...)
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y

	b.historyC.SetSize(b.width, b.height)
	b.historyC.Help.Width = b.width
	b.inputC.Width = b.width - len(b.inputC.Prompt) - 1
	b.helpC.Width = b.width
}

func newBubble(relay *player.Relay, options *Options) *statefulBubble {
	bubble := &statefulBubble{
		keymap:   newStatefulKeymap(),
		relay:    relay,
		notifier: &ui.Model{},
		options:  options,
	}

	bubble.sync = synchronizer.New(
		relay,
		synchronizer.WithInitialState(options.Initial),
		synchronizer.WithNotifier(bubble.notify),
	)

	bubble.helpC = help.New()

	bubble.inputC = textinput.New()
	bubble.inputC.Prompt = "> "
	bubble.inputC.CharLimit = 2048

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	bubble.historyC = list.New([]list.Item{}, delegate, 0, 0)
	bubble.historyC.Title = "Link History"
	bubble.historyC.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("230")).
		Background(style.LoopColor).
		Padding(0, 1)
	bubble.historyC.KeyMap = bubble.keymap.forList()
	bubble.historyC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
	bubble.historyC.AdditionalFullHelpKeys = bubble.keymap.ShortHelp
	bubble.historyC.StatusMessageLifetime = 3 * time.Second
	bubble.historyC.SetStatusBarItemName("link", "links")
	bubble.historyC.SetShowPagination(false)

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return bubble
}

// matches reports whether msg triggers binding.
func matches(msg tea.KeyMsg, binding bubblesKey.Binding) bool {
	return bubblesKey.Matches(msg, binding)
}
