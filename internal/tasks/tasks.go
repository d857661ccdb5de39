// package tasks implements the playlist publish workflow.
//
// The core abstraction is PublishEngine, which pushes an assembled track
// list to the streaming provider and mirrors the published playlist into
// the local store. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixify/internal/models"
	"github.com/desertthunder/mixify/internal/repositories"
	"github.com/desertthunder/mixify/internal/services"
	"github.com/desertthunder/mixify/internal/shared"
)

// PublishRequest describes one publish operation: a named playlist, the
// tracks in their final order, and the owner on both sides.
type PublishRequest struct {
	Name           string
	Tracks         []models.Track
	LocalUserID    string // identity provider user, owns the history record
	ExternalUserID string // streaming provider user, owns the remote playlist
}

// TrackOutcome records what happened to one track during mirroring.
// A nil Err means the track's artist, song, and membership rows landed.
type TrackOutcome struct {
	Track  models.Track
	SongID string
	Err    error
}

// PublishResult contains all data from a completed publish operation.
// The remote side is authoritative: Remote is always set on success even
// when some tracks failed to mirror locally.
type PublishResult struct {
	Remote       *models.RemotePlaylist // Created provider playlist
	Record       *models.Playlist       // Local history record
	Outcomes     []TrackOutcome         // Per-track mirror results, in playlist order
	SavedCount   int                    // Tracks mirrored successfully
	SkippedCount int                    // Tracks that failed to mirror
}

// Publisher defines the publish operation for the CLI and UI layers.
type Publisher interface {
	// Publish pushes the request's tracks to the provider as a new private
	// playlist and mirrors the result into the local store.
	Publish(ctx context.Context, req PublishRequest, progress chan<- ProgressUpdate) (*PublishResult, error)
}

// PublishEngine implements Publisher against a [services.Catalog] and the
// local repositories.
type PublishEngine struct {
	catalog   services.Catalog
	artists   *repositories.ArtistRepository
	songs     *repositories.SongRepository
	playlists *repositories.PlaylistRepository
	logger    *log.Logger
}

// NewPublishEngine creates a PublishEngine with the provided dependencies.
func NewPublishEngine(
	catalog services.Catalog,
	artists *repositories.ArtistRepository,
	songs *repositories.SongRepository,
	playlists *repositories.PlaylistRepository,
	logger *log.Logger,
) *PublishEngine {
	return &PublishEngine{
		catalog:   catalog,
		artists:   artists,
		songs:     songs,
		playlists: playlists,
		logger:    logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *PublishEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// validate checks the request before any side effect happens. A rejected
// request leaves both the provider and the store untouched.
func (e *PublishEngine) validate(req PublishRequest) error {
	if e.catalog == nil {
		return fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}
	if req.Name == "" {
		return fmt.Errorf("%w: playlist name required", shared.ErrInvalidInput)
	}
	if len(req.Tracks) == 0 {
		return fmt.Errorf("%w: cannot publish an empty playlist", shared.ErrInvalidInput)
	}
	if req.LocalUserID == "" || req.ExternalUserID == "" {
		return fmt.Errorf("%w: sign in before publishing", shared.ErrSessionMissing)
	}

	for i, track := range req.Tracks {
		if track.URI == "" {
			return fmt.Errorf("%w: track %d ('%s') has no URI", shared.ErrInvalidInput, i+1, track.Title)
		}
	}

	return nil
}

// Publish runs the full workflow: validate, create the remote playlist,
// append every track in one call, then mirror each track into the store.
//
// Remote failures are terminal. A failed append leaves the empty remote
// playlist behind and writes nothing locally; the provider holds no delete
// operation so there is nothing to undo. Mirror failures are per-track:
// a track that cannot be saved is skipped and the rest continue.
func (e *PublishEngine) Publish(ctx context.Context, req PublishRequest, progress chan<- ProgressUpdate) (*PublishResult, error) {
	total := len(req.Tracks)
	e.sendProgress(progress, validateUpdate(total))

	if err := e.validate(req); err != nil {
		return nil, err
	}

	e.sendProgress(progress, createRemoteUpdate(req.Name))

	remote, err := e.catalog.CreatePlaylist(ctx, req.ExternalUserID, req.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRemoteCreate, err)
	}

	e.logger.Debug("created remote playlist", "id", remote.ID, "name", remote.Name)
	e.sendProgress(progress, appendRemoteUpdate(total, remote))

	uris := make([]string, total)
	for i, track := range req.Tracks {
		uris[i] = track.URI
	}

	if err := e.catalog.AppendTracks(ctx, remote.ID, uris); err != nil {
		e.logger.Error("append failed, remote playlist left empty", "playlist_id", remote.ID)
		return nil, fmt.Errorf("%w: %v", shared.ErrRemoteAppend, err)
	}

	result := &PublishResult{Remote: remote, Outcomes: make([]TrackOutcome, 0, total)}

	record := models.NewPlaylist(req.LocalUserID, req.ExternalUserID, req.Name, remote.ID)
	e.sendProgress(progress, mirrorTrackUpdate(0, total, nil))

	if err := e.playlists.Create(record); err != nil {
		// the provider playlist exists and is populated, report it even
		// though history could not be written
		return result, fmt.Errorf("failed to save playlist record: %w", err)
	}
	result.Record = record

	for i, track := range req.Tracks {
		e.sendProgress(progress, mirrorTrackUpdate(i+1, total, &track))

		songID, err := e.mirrorTrack(record.ID(), track, i+1)
		result.Outcomes = append(result.Outcomes, TrackOutcome{Track: track, SongID: songID, Err: err})

		if err != nil {
			result.SkippedCount++
			e.logger.Error("failed to mirror track", "title", track.Title, "err", err)
			continue
		}
		result.SavedCount++
	}

	e.sendProgress(progress, doneUpdate(result))
	return result, nil
}

// mirrorTrack writes one track's artist, song, and membership rows.
func (e *PublishEngine) mirrorTrack(playlistID string, track models.Track, position int) (string, error) {
	artistID, err := e.artists.Upsert(models.NewArtist(track.Artist))
	if err != nil {
		return "", fmt.Errorf("artist: %w", err)
	}

	songID, err := e.songs.Upsert(models.NewSong(track.Title, artistID, track.DurationMS, track.Genre))
	if err != nil {
		return "", fmt.Errorf("song: %w", err)
	}

	if err := e.playlists.AddSong(models.NewPlaylistSong(playlistID, songID, position)); err != nil {
		return songID, fmt.Errorf("membership: %w", err)
	}

	return songID, nil
}
