// Package history provides read-side operations over published playlist
// records: text and date filtering plus chronological sorting.
//
// Filter and Sort are pure: they never mutate their input and always
// return fresh slices, so a UI can re-filter the same fetched records
// as the user types without refetching.
package history

import (
	"sort"
	"strings"
	"time"

	"github.com/desertthunder/mixify/internal/models"
)

// Direction selects chronological sort order.
type Direction int

const (
	Desc Direction = iota // newest first
	Asc                   // oldest first
)

func (d Direction) String() string {
	switch d {
	case Asc:
		return "asc"
	case Desc:
		return "desc"
	default:
		return ""
	}
}

// Filter describes which records to keep. The zero value matches everything.
type Filter struct {
	// Text matches case-insensitively against the playlist title, song
	// titles, and artist names. Empty matches all.
	Text string

	// From and To bound the record's creation time, inclusive. Zero
	// values leave that side unbounded.
	From time.Time
	To   time.Time
}

// Apply returns the records matching the filter, preserving input order.
func Apply(records []models.HistoryRecord, f Filter) []models.HistoryRecord {
	matched := make([]models.HistoryRecord, 0, len(records))
	for _, record := range records {
		if matches(record, f) {
			matched = append(matched, record)
		}
	}
	return matched
}

func matches(record models.HistoryRecord, f Filter) bool {
	if !f.From.IsZero() && record.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && record.CreatedAt.After(f.To) {
		return false
	}

	if f.Text == "" {
		return true
	}

	needle := strings.ToLower(f.Text)
	if strings.Contains(strings.ToLower(record.Title), needle) {
		return true
	}
	for _, song := range record.Songs {
		if strings.Contains(strings.ToLower(song.Title), needle) {
			return true
		}
		if strings.Contains(strings.ToLower(song.Artist), needle) {
			return true
		}
	}
	return false
}

// Sort returns the records ordered by creation time. Ties keep their
// relative input order.
func Sort(records []models.HistoryRecord, dir Direction) []models.HistoryRecord {
	sorted := make([]models.HistoryRecord, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		if dir == Asc {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	return sorted
}
