package tui

import (
	"fmt"

	"github.com/clipview/clipview/history"
	"github.com/clipview/clipview/icon"
	"github.com/clipview/clipview/style"
	"github.com/clipview/clipview/util"
)

// listItem adapts a history entry to list.Item.
type listItem struct {
	entry *history.Entry
}

func (t *listItem) Title() string {
	source := t.entry.Source
	if source == "" {
		source = style.Faint("no source")
	}
	return fmt.Sprintf("%s %s", icon.Get(icon.Link), source)
}

func (t *listItem) Description() string {
	return fmt.Sprintf("%s · %s · used %s",
		t.entry.Variant,
		t.entry.Loop,
		util.Quantify(t.entry.Rank, "time", "times"),
	)
}

func (t *listItem) FilterValue() string {
	return t.entry.Source + " " + t.entry.Link
}
