package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/clipview/clipview/history"
	"github.com/clipview/clipview/internal/ui"
	"github.com/clipview/clipview/key"
	"github.com/clipview/clipview/log"
	"github.com/clipview/clipview/option"
	"github.com/clipview/clipview/player"
	"github.com/clipview/clipview/resolve"
	"github.com/clipview/clipview/share"
	"github.com/clipview/clipview/util"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// eventMsg carries an engine event onto the update loop.
type eventMsg struct {
	event player.Event
}

func (b *statefulBubble) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return eventMsg{event: <-b.relay.C}
	}
}

// engineExitedMsg is sent once the engine is gone.
type engineExitedMsg struct{}

func (b *statefulBubble) waitForEngineExit() tea.Cmd {
	if b.options.EngineDone == nil {
		return nil
	}

	return func() tea.Msg {
		<-b.options.EngineDone
		return engineExitedMsg{}
	}
}

// shareLink encodes the current state and remembers it when enabled.
func (b *statefulBubble) shareLink() (string, error) {
	link, err := b.sync.UserRequestShareLink(viper.GetString(key.ShareBaseURL))
	if err != nil {
		return "", err
	}

	b.remember(link)
	return link, nil
}

func (b *statefulBubble) remember(link string) {
	if !viper.GetBool(key.ShareRemember) {
		return
	}

	if err := history.Remember(link, b.sync.Snapshot(), 1); err != nil {
		log.Warn(err)
	}
}

func (b *statefulBubble) copyLink() {
	link, err := b.shareLink()
	if err != nil {
		return
	}

	if err := clipboard.WriteAll(link); err != nil {
		log.Warn(err)
		b.say(link, ui.Info)
		return
	}

	b.say("Copied "+link, ui.Info)
}

func (b *statefulBubble) showQR() {
	link, err := b.shareLink()
	if err != nil {
		return
	}

	qr, err := share.QRTerminal(link)
	if err != nil {
		b.notify(err)
		return
	}

	b.qr = qr
	b.newState(qrState)
}

func (b *statefulBubble) loadHistory() tea.Cmd {
	entries, err := history.Search("")
	if err != nil {
		b.notify(err)
		return nil
	}

	items := lo.Map(entries, func(e *history.Entry, _ int) list.Item {
		return &listItem{entry: e}
	})

	b.newState(historyState)
	return b.historyC.SetItems(items)
}

func (b *statefulBubble) openLink(link string) {
	if err := b.sync.UserLoadLink(link); err != nil && !errors.Is(err, option.ErrConfigDecode) {
		return
	}
	b.remember(link)
}

// cycleDelivery switches to the next registered variant.
func (b *statefulBubble) cycleDelivery() {
	variants := resolve.Variants()
	current := b.sync.Snapshot().MP4Source

	_, index, _ := lo.FindIndexOf(variants, func(v resolve.Variant) bool {
		return v == current
	})
	next := variants[(index+1)%len(variants)]

	if err := b.sync.UserSetDelivery(next); err == nil {
		b.say(fmt.Sprintf("Delivery: %s", next), ui.Info)
	}
}

func (b *statefulBubble) seekBy(delta float64) {
	current := b.sync.Snapshot().CurrentTime
	b.handle(b.sync.UserSeek(max(0, current+delta)))
}

func (b *statefulBubble) changeSpeed(delta float64) {
	speed := b.sync.Snapshot().PlaybackSpeed
	b.handle(b.sync.UserSetSpeed(util.Clamp(speed+delta, minSpeed, maxSpeed)))
}

// markLoop sets one end of the loop range to the current position.
func (b *statefulBubble) markLoop(start bool) {
	s := b.sync.Snapshot()
	if start {
		b.handle(b.sync.UserSetLoopRange(s.CurrentTime, s.LoopEnd))
	} else {
		b.handle(b.sync.UserSetLoopRange(s.LoopStart, s.CurrentTime))
	}
}

// handle notifies validation errors. Engine and resolver errors are already notified.
func (b *statefulBubble) handle(err error) {
	if errors.Is(err, option.ErrInvalidOptionValue) {
		b.notify(err)
	}
}

// startInput opens the text input for f, prefilled with the current value.
func (b *statefulBubble) startInput(f field) tea.Cmd {
	s := b.sync.Snapshot()

	var value string
	switch f {
	case sourceField:
		value = s.SourceURL
	case loopField:
		value = fmt.Sprintf("%s-%s",
			option.Format(option.LoopStart, s.LoopStart),
			option.Format(option.LoopEnd, s.LoopEnd),
		)
	case speedField:
		value = option.Format(option.PlaybackSpeed, s.PlaybackSpeed)
	case seekField:
		value = util.Timestamp(s.CurrentTime)
	case widthField:
		value = option.Format(option.VideoWidth, s.VideoWidth)
	}

	b.field = f
	b.inputC.Placeholder = f.placeholder()
	b.inputC.SetValue(value)
	b.inputC.CursorEnd()
	b.newState(inputState)
	return b.inputC.Focus()
}

// submitInput applies the text input. It reports whether the input was accepted.
// Parse errors are shown here; the synchronizer reports its own failures.
func (b *statefulBubble) submitInput(text string) bool {
	text = strings.TrimSpace(text)

	var apply func() error
	var err error

	switch b.field {
	case sourceField:
		apply = func() error { return b.sync.UserSetSource(text) }
	case linkField:
		apply = func() error { b.openLink(text); return nil }
	case loopField:
		var start, end float64
		if start, end, err = util.ParseRange(text); err == nil {
			apply = func() error { return b.sync.UserSetLoopRange(start, end) }
		}
	case speedField:
		var v any
		if v, err = option.Parse(option.PlaybackSpeed, text); err == nil {
			apply = func() error { return b.sync.UserSetSpeed(v.(float64)) }
		}
	case seekField:
		var t float64
		if t, err = util.ParseTimestamp(text); err == nil {
			apply = func() error { return b.sync.UserSeek(t) }
		}
	case widthField:
		var v any
		if v, err = option.Parse(option.VideoWidth, text); err == nil {
			apply = func() error { return b.sync.UserSetWidth(v.(int)) }
		}
	}

	if err != nil {
		b.notify(err)
		return false
	}

	err = apply()
	b.handle(err)
	return err == nil
}
