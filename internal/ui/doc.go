// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for assembling and publishing playlists:
//  1. [SearchView] : Search the Spotify catalog by text or genre
//  2. [TrackSelectView] : Stage tracks for the playlist (space toggles)
//  3. [NameView] : Name the playlist
//  4. [PublishView] : Monitor real-time publish progress
//  5. [ResultView] : Display saved and skipped tracks
//  6. [HistoryView] : Browse previously published playlists
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the PublishEngine, providing non-blocking status reporting while publishing.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, space, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
