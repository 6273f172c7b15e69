package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/wishctl/internal/models"
)

var (
	_ list.DefaultItem = itemRow{}
)

// itemRow wraps [models.Item] to implement [list.Item].
type itemRow struct {
	item models.Item
}

func (i itemRow) FilterValue() string { return i.item.Name }

func (i itemRow) Title() string {
	box := "[ ]"
	if i.item.Gotten {
		box = "[x]"
	}
	name := i.item.Name
	if name == "" {
		name = i.item.ID
	}
	title := fmt.Sprintf("%s %s", box, name)
	if i.item.Disabled {
		title += " 🔒"
	}
	return title
}

func (i itemRow) Description() string {
	desc := i.item.Description
	if i.item.URL != "" {
		if desc != "" {
			desc = fmt.Sprintf("%s • %s", desc, i.item.URL)
		} else {
			desc = i.item.URL
		}
	}
	return desc
}

func rows(items []models.Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = itemRow{item: it}
	}
	return out
}
