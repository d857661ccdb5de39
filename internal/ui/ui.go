package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mixify/internal/models"
	"github.com/desertthunder/mixify/internal/repositories"
	"github.com/desertthunder/mixify/internal/services"
	"github.com/desertthunder/mixify/internal/session"
	"github.com/desertthunder/mixify/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	TrackSelectView
	NameView
	PublishView
	ResultView
	HistoryView
)

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	catalog   services.Catalog
	engine    tasks.Publisher
	store     *session.Store
	playlists *repositories.PlaylistRepository

	width  int
	height int

	searchInput textinput.Model
	nameInput   textinput.Model
	resultList  list.Model
	historyList list.Model

	results  []models.Track
	selected []models.Track

	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.PublishResult
	err          error

	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(
	ctx context.Context,
	catalog services.Catalog,
	engine tasks.Publisher,
	store *session.Store,
	playlists *repositories.PlaylistRepository,
) *Model {
	searchInput := textinput.New()
	searchInput.Placeholder = "Search tracks (prefix with genre: for a genre search)"
	searchInput.Focus()

	nameInput := textinput.New()
	nameInput.Placeholder = "Playlist name"

	return &Model{
		ctx:         ctx,
		view:        SearchView,
		catalog:     catalog,
		engine:      engine,
		store:       store,
		playlists:   playlists,
		searchInput: searchInput,
		nameInput:   nameInput,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init focuses the search input.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.resultList.Width() != 0 {
			m.resultList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.historyList.Width() != 0 {
			m.historyList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SearchView:
			return m.handleSearchKeys(msg)
		case TrackSelectView:
			return m.handleTrackSelectKeys(msg)
		case NameView:
			return m.handleNameKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		case HistoryView:
			return m.handleHistoryKeys(msg)
		}

	case Msg:
		return m.handleAppMsg(msg)
	}

	return m, nil
}

func (m *Model) handleAppMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSearchDone:
		outcome := msg.data.(searchOutcome)
		if outcome.err != nil {
			m.err = outcome.err
			return m, nil
		}
		m.err = nil
		m.results = outcome.tracks
		m.resultList = list.New(m.resultItems(), list.NewDefaultDelegate(), m.width-4, m.height-8)
		m.resultList.Title = fmt.Sprintf("Results for '%s'", m.searchInput.Value())
		m.resultList.SetFilteringEnabled(false)
		m.view = TrackSelectView
		return m, nil

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgPublishDone:
		outcome := msg.data.(publishOutcome)
		m.result = outcome.result
		m.err = outcome.err
		m.view = ResultView
		m.progressChan = nil
		if m.result != nil && m.result.Record != nil {
			m.store.SetLastPlaylist(m.result.Record.ID())
		}
		return m, nil

	case MsgHistoryFetched:
		outcome := msg.data.(historyOutcome)
		if outcome.err != nil {
			m.err = outcome.err
			m.view = SearchView
			return m, nil
		}
		items := make([]list.Item, len(outcome.records))
		for i, record := range outcome.records {
			items[i] = historyItem{record: record}
		}
		m.historyList = list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-8)
		m.historyList.Title = "Published Playlists"
		m.view = HistoryView
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SearchView:
		return m.renderSearch()
	case TrackSelectView:
		return m.renderTrackSelect()
	case NameView:
		return m.renderNameInput()
	case PublishView:
		return m.renderPublish()
	case ResultView:
		return m.renderResult()
	case HistoryView:
		return m.renderHistory()
	default:
		return ""
	}
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case msg.Type == tea.KeyEsc:
		return m, tea.Quit
	case key.Matches(msg, m.keys.history):
		return m, m.fetchHistory()
	case msg.Type == tea.KeyEnter:
		query := strings.TrimSpace(m.searchInput.Value())
		if query == "" {
			return m, nil
		}
		return m, m.search(query)
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) handleTrackSelectKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = SearchView
		return m, nil
	case " ":
		m.toggleSelected()
		return m, nil
	case "enter":
		if len(m.selected) == 0 {
			return m, nil
		}
		m.nameInput.Focus()
		m.view = NameView
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.resultList, cmd = m.resultList.Update(msg)
	return m, cmd
}

func (m *Model) handleNameKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.view = TrackSelectView
		return m, nil
	case tea.KeyEnter:
		name := strings.TrimSpace(m.nameInput.Value())
		if name == "" {
			return m, nil
		}
		m.view = PublishView
		return m, m.startPublish(name)
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.reset()
		return m, textinput.Blink
	case "tab":
		return m, m.fetchHistory()
	}
	return m, nil
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "tab":
		m.view = SearchView
		return m, nil
	}

	var cmd tea.Cmd
	m.historyList, cmd = m.historyList.Update(msg)
	return m, cmd
}

// reset returns the model to a fresh search, dropping staged tracks.
func (m *Model) reset() {
	m.view = SearchView
	m.results = nil
	m.selected = nil
	m.result = nil
	m.err = nil
	m.searchInput.SetValue("")
	m.nameInput.SetValue("")
	m.searchInput.Focus()
}

// resultItems builds list items from the current results, marking staged tracks.
func (m *Model) resultItems() []list.Item {
	items := make([]list.Item, len(m.results))
	for i, track := range m.results {
		items[i] = trackItem{track: track, selected: m.isSelected(track.URI)}
	}
	return items
}

func (m *Model) isSelected(uri string) bool {
	for _, track := range m.selected {
		if track.URI == uri {
			return true
		}
	}
	return false
}

// toggleSelected stages or unstages the highlighted track. Staging order is
// playlist order.
func (m *Model) toggleSelected() {
	index := m.resultList.Index()
	if index < 0 || index >= len(m.results) {
		return
	}

	track := m.results[index]
	if m.isSelected(track.URI) {
		kept := make([]models.Track, 0, len(m.selected)-1)
		for _, t := range m.selected {
			if t.URI != track.URI {
				kept = append(kept, t)
			}
		}
		m.selected = kept
	} else {
		m.selected = append(m.selected, track)
	}

	m.resultList.SetItem(index, trackItem{track: track, selected: m.isSelected(track.URI)})
}

func (m *Model) search(query string) tea.Cmd {
	return func() tea.Msg {
		if genre, ok := strings.CutPrefix(query, "genre:"); ok {
			results, err := m.catalog.SearchByGenre(m.ctx, strings.TrimSpace(genre), services.KindTrack)
			if err != nil {
				return searchDoneMsg(nil, err)
			}
			return searchDoneMsg(results.Tracks, nil)
		}

		results, err := m.catalog.Search(m.ctx, query, services.KindTrack, 10)
		if err != nil {
			return searchDoneMsg(nil, err)
		}
		return searchDoneMsg(results.Tracks, nil)
	}
}

func (m *Model) startPublish(name string) tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progressChan := m.progressChan

	req := tasks.PublishRequest{
		Name:           name,
		Tracks:         m.selected,
		LocalUserID:    m.store.LocalUserID(),
		ExternalUserID: m.store.ExternalUserID(),
	}

	go func() {
		result, err := m.engine.Publish(m.ctx, req, progressChan)
		m.result = result
		m.err = err
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return publishDoneMsg(m.result, m.err)
		}

		update, ok := <-m.progressChan
		if !ok {
			return publishDoneMsg(m.result, m.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) fetchHistory() tea.Cmd {
	return func() tea.Msg {
		records, err := m.playlists.ListByOwner(m.store.LocalUserID())
		return historyFetchedMsg(records, err)
	}
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Search the Catalog")

	var errLine string
	if m.err != nil {
		errLine = styles.err.Render(fmt.Sprintf("\n%v\n", m.err))
	}

	var staged string
	if len(m.selected) > 0 {
		staged = styles.ok.Render(fmt.Sprintf("\n%d tracks staged\n", len(m.selected)))
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.history, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s%s\n%s", title, m.searchInput.View(), errLine, staged, helpView)
}

func (m *Model) renderTrackSelect() string {
	staged := styles.help.Render(fmt.Sprintf("%d tracks staged", len(m.selected)))

	helpKeys := []key.Binding{m.keys.space, m.keys.enter, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", m.resultList.View(), staged, helpView)
}

func (m *Model) renderNameInput() string {
	title := styles.title.Render(fmt.Sprintf("Name your playlist (%d tracks)", len(m.selected)))

	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, m.nameInput.View(), helpView)
}

func (m *Model) renderPublish() string {
	title := styles.title.Render("Publishing Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.CreateRemote:
		phase = "Creating playlist on Spotify..."
	case tasks.AppendRemote:
		phase = "Adding tracks..."
	case tasks.MirrorTracks:
		phase = fmt.Sprintf("Saving history (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Working..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.restart, m.keys.history, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s",
			styles.err.Render(fmt.Sprintf("Publish failed: %v", m.err)),
			helpView)
	}

	if m.result == nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No result available"), helpView)
	}

	title := styles.ok.Render("✓ Playlist Published")
	info := fmt.Sprintf("\nPlaylist: %s\nSaved: %d tracks", m.result.Remote.Name, m.result.SavedCount)

	var skipped string
	if m.result.SkippedCount > 0 {
		skipped = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("%d tracks were not saved to history:", m.result.SkippedCount)))
		for _, outcome := range m.result.Outcomes {
			if outcome.Err != nil {
				skipped += fmt.Sprintf("\n  • %s - %s", outcome.Track.Artist, outcome.Track.Title)
			}
		}
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, skipped, helpView)
}

func (m *Model) renderHistory() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.historyList.View(), helpView)
}
