package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/mixify/internal/models"
	"github.com/desertthunder/mixify/internal/shared"
)

var (
	_ list.Item = trackItem{}
	_ list.Item = historyItem{}
)

// trackItem wraps [models.Track] to implement [list.Item]. The selected
// flag marks tracks staged for the playlist.
type trackItem struct {
	track    models.Track
	selected bool
}

func (i trackItem) FilterValue() string { return i.track.Title }

func (i trackItem) Title() string {
	if i.selected {
		return fmt.Sprintf("[x] %s", i.track.Title)
	}
	return fmt.Sprintf("[ ] %s", i.track.Title)
}

func (i trackItem) Description() string {
	desc := i.track.Artist
	if i.track.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album)
	}
	if i.track.DurationMS > 0 {
		desc = fmt.Sprintf("%s • %s", desc, shared.FormatDuration(i.track.DurationMS))
	}
	return desc
}

// historyItem wraps [models.HistoryRecord] to implement [list.Item].
type historyItem struct {
	record models.HistoryRecord
}

func (i historyItem) FilterValue() string { return i.record.Title }
func (i historyItem) Title() string       { return i.record.Title }
func (i historyItem) Description() string {
	return fmt.Sprintf("%d tracks • published %s", len(i.record.Songs), i.record.CreatedAt.Format("Jan 2, 2006"))
}
