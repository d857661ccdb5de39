package tasks

import (
	"fmt"

	"github.com/desertthunder/mixify/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Validate Phase = iota
	CreateRemote
	AppendRemote
	MirrorTracks
	Done
)

func (p Phase) String() string {
	switch p {
	case Validate:
		return "validate"
	case CreateRemote:
		return "create_remote"
	case AppendRemote:
		return "append_remote"
	case MirrorTracks:
		return "mirror_tracks"
	case Done:
		return "done"
	default:
		return ""
	}
}

func validateUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Validate,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Validating %d tracks...", total),
	}
}

func createRemoteUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreateRemote,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist '%s' on Spotify...", name),
	}
}

func appendRemoteUpdate(total int, playlist *models.RemotePlaylist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AppendRemote,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Adding %d tracks to playlist...", total),
		Data:    playlist,
	}
}

func mirrorTrackUpdate(step, total int, track *models.Track) ProgressUpdate {
	update := ProgressUpdate{
		Phase: MirrorTracks,
		Step:  step,
		Total: total,
	}
	if track != nil {
		update.Message = fmt.Sprintf("Saving '%s' (%d/%d)...", track.Title, step, total)
		update.Data = track
	} else {
		update.Message = "Saving playlist history..."
	}
	return update
}

func doneUpdate(result *PublishResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Published '%s' with %d tracks", result.Remote.Name, result.SavedCount),
		Data:    result,
	}
}
