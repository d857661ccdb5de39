// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/mixify/internal/models"
	"github.com/desertthunder/mixify/internal/services"
)

// MockCatalog is a configurable test double for [services.Catalog].
// Each func field overrides the corresponding method; nil fields return
// empty values. Call slices record invocation order.
type MockCatalog struct {
	SearchFunc          func(ctx context.Context, query string, kind services.SearchKind, limit int) (*services.SearchResults, error)
	CreatePlaylistFunc  func(ctx context.Context, ownerID, name string) (*models.RemotePlaylist, error)
	AppendTracksFunc    func(ctx context.Context, playlistID string, uris []string) error
	ProfileFunc         func(ctx context.Context) (*models.Profile, error)
	TopTracksFunc       func(ctx context.Context, artistID, market string) ([]models.Track, error)
	PlaylistDetailsFunc func(ctx context.Context, playlistID string) (*models.PlaylistDetail, error)

	Calls []string
}

func (m *MockCatalog) record(name string) {
	m.Calls = append(m.Calls, name)
}

func (m *MockCatalog) Authenticate(ctx context.Context, credentials map[string]string) error {
	m.record("Authenticate")
	return nil
}

func (m *MockCatalog) Search(ctx context.Context, query string, kind services.SearchKind, limit int) (*services.SearchResults, error) {
	m.record("Search")
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, kind, limit)
	}
	return &services.SearchResults{}, nil
}

func (m *MockCatalog) SearchByGenre(ctx context.Context, genre string, kind services.SearchKind) (*services.SearchResults, error) {
	m.record("SearchByGenre")
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, genre, kind, 0)
	}
	return &services.SearchResults{}, nil
}

func (m *MockCatalog) Profile(ctx context.Context) (*models.Profile, error) {
	m.record("Profile")
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx)
	}
	return &models.Profile{ID: "mock_user"}, nil
}

func (m *MockCatalog) TopTracks(ctx context.Context, artistID, market string) ([]models.Track, error) {
	m.record("TopTracks")
	if m.TopTracksFunc != nil {
		return m.TopTracksFunc(ctx, artistID, market)
	}
	return nil, nil
}

func (m *MockCatalog) PlaylistDetails(ctx context.Context, playlistID string) (*models.PlaylistDetail, error) {
	m.record("PlaylistDetails")
	if m.PlaylistDetailsFunc != nil {
		return m.PlaylistDetailsFunc(ctx, playlistID)
	}
	return nil, nil
}

func (m *MockCatalog) CreatePlaylist(ctx context.Context, ownerID, name string) (*models.RemotePlaylist, error) {
	m.record("CreatePlaylist")
	if m.CreatePlaylistFunc != nil {
		return m.CreatePlaylistFunc(ctx, ownerID, name)
	}
	return &models.RemotePlaylist{ID: "mock_playlist", Name: name}, nil
}

func (m *MockCatalog) AppendTracks(ctx context.Context, playlistID string, uris []string) error {
	m.record("AppendTracks")
	if m.AppendTracksFunc != nil {
		return m.AppendTracksFunc(ctx, playlistID, uris)
	}
	return nil
}

func (m *MockCatalog) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
