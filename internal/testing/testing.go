// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"stationsync/internal/models"
	"stationsync/internal/shared"
)

// MockCatalog is a configurable test double for [catalog.Client]. Tracks
// are served by search title (lowercased); mutations are recorded on the
// struct for assertions.
type MockCatalog struct {
	TracksByTitle map[string][]models.CatalogTrack
	Playlists     map[string]*models.Playlist

	PingErr   error
	SearchErr error
	CreateErr error
	AppendErr error

	// AppendApplied caps how many tracks an append applies before
	// AppendErr is returned. Ignored when AppendErr is nil.
	AppendApplied int

	Created  []string
	Appended map[string][]string
	Tagged   []string
}

func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		TracksByTitle: make(map[string][]models.CatalogTrack),
		Playlists:     make(map[string]*models.Playlist),
		Appended:      make(map[string][]string),
	}
}

func (m *MockCatalog) Ping(ctx context.Context) error {
	return m.PingErr
}

func (m *MockCatalog) SearchByTitle(ctx context.Context, title string) ([]models.CatalogTrack, error) {
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.TracksByTitle[strings.ToLower(title)], nil
}

func (m *MockCatalog) GetPlaylist(ctx context.Context, name string) (*models.Playlist, error) {
	p, ok := m.Playlists[name]
	if !ok {
		return nil, shared.ErrPlaylistNotFound
	}
	cp := *p
	cp.TrackIDs = append([]string(nil), p.TrackIDs...)
	return &cp, nil
}

func (m *MockCatalog) CreatePlaylist(ctx context.Context, name string, trackIDs []string) (*models.Playlist, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.Created = append(m.Created, name)
	m.Playlists[name] = &models.Playlist{
		ID:       "pl-" + name,
		Name:     name,
		TrackIDs: append([]string(nil), trackIDs...),
	}
	return m.Playlists[name], nil
}

func (m *MockCatalog) PlaylistTracks(ctx context.Context, name string) ([]models.CatalogTrack, error) {
	p, ok := m.Playlists[name]
	if !ok {
		return nil, shared.ErrPlaylistNotFound
	}
	var tracks []models.CatalogTrack
	for _, id := range p.TrackIDs {
		tracks = append(tracks, models.CatalogTrack{ID: id})
	}
	return tracks, nil
}

func (m *MockCatalog) AppendToPlaylist(ctx context.Context, playlistID string, trackIDs []string) (int, error) {
	if m.AppendErr != nil {
		applied := m.AppendApplied
		if applied > len(trackIDs) {
			applied = len(trackIDs)
		}
		m.applyAppend(playlistID, trackIDs[:applied])
		return applied, m.AppendErr
	}
	m.applyAppend(playlistID, trackIDs)
	return len(trackIDs), nil
}

func (m *MockCatalog) applyAppend(playlistID string, trackIDs []string) {
	m.Appended[playlistID] = append(m.Appended[playlistID], trackIDs...)
	for _, p := range m.Playlists {
		if p.ID == playlistID {
			p.TrackIDs = append(p.TrackIDs, trackIDs...)
		}
	}
}

func (m *MockCatalog) TagAndRate(ctx context.Context, trackID string) error {
	m.Tagged = append(m.Tagged, trackID)
	return nil
}

// MockFetcher serves canned page bodies by URL.
type MockFetcher struct {
	Pages map[string]string
	Errs  map[string]error
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{Pages: make(map[string]string), Errs: make(map[string]error)}
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	if err := m.Errs[url]; err != nil {
		return nil, err
	}
	body, ok := m.Pages[url]
	if !ok {
		return nil, errors.New("no page for " + url)
	}
	return io.NopCloser(bytes.NewReader([]byte(body))), nil
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	Handler func(*http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.Handler(req)
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
