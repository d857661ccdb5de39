package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mixify/internal/models"
	"github.com/desertthunder/mixify/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSearchDone MsgKind = iota
	MsgProgressUpdate
	MsgPublishDone
	MsgHistoryFetched
)

type searchOutcome struct {
	tracks []models.Track
	err    error
}

// searchDoneMsg is the constructor for [MsgSearchDone]
func searchDoneMsg(tracks []models.Track, err error) Msg {
	return Msg{kind: MsgSearchDone, data: searchOutcome{tracks, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

type publishOutcome struct {
	result *tasks.PublishResult
	err    error
}

// publishDoneMsg is the constructor for [MsgPublishDone]
func publishDoneMsg(result *tasks.PublishResult, err error) Msg {
	return Msg{kind: MsgPublishDone, data: publishOutcome{result, err}}
}

type historyOutcome struct {
	records []models.HistoryRecord
	err     error
}

// historyFetchedMsg is the constructor for [MsgHistoryFetched]
func historyFetchedMsg(records []models.HistoryRecord, err error) Msg {
	return Msg{kind: MsgHistoryFetched, data: historyOutcome{records, err}}
}
