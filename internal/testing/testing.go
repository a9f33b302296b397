// package testing contains shared testing utilities
package testing

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/dfaust/spotify-playlist-importer/internal/models"
	"github.com/dfaust/spotify-playlist-importer/internal/services"
)

// FakeCatalog is a scripted, synchronous test double for
// [services.Catalog]. It records every call in order so tests can
// assert the one-call-at-a-time discipline and pagination boundaries.
type FakeCatalog struct {
	mu sync.Mutex

	// SearchResults maps query strings to canned search results.
	// Queries without an entry return an empty result set.
	SearchResults map[string][]models.Track
	// TrackData maps bare track ids to canned bulk-lookup results.
	TrackData map[string]models.Track
	// Playlists is returned by UserPlaylists.
	Playlists []services.Playlist

	SearchErr error
	TracksErr error
	ListErr   error
	CreateErr error
	AddErr    error

	// Calls records each catalog call as "op:args".
	Calls []string
}

func (f *FakeCatalog) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, fmt.Sprintf(format, args...))
}

// CallLog returns a copy of the recorded calls.
func (f *FakeCatalog) CallLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Calls...)
}

func (f *FakeCatalog) SearchTracks(ctx context.Context, query string) ([]models.Track, error) {
	f.record("search:%s", query)
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	return f.SearchResults[query], nil
}

func (f *FakeCatalog) TracksByIDs(ctx context.Context, ids []string) ([]models.Track, error) {
	f.record("tracks:%s", strings.Join(ids, ","))
	if f.TracksErr != nil {
		return nil, f.TracksErr
	}

	tracks := make([]models.Track, 0, len(ids))
	for _, id := range ids {
		if track, ok := f.TrackData[services.ParseTrackID(id)]; ok {
			tracks = append(tracks, track)
		}
	}
	return tracks, nil
}

func (f *FakeCatalog) UserPlaylists(ctx context.Context) ([]services.Playlist, error) {
	f.record("playlists")
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Playlists, nil
}

func (f *FakeCatalog) CreatePlaylist(ctx context.Context, name string, public bool) (*services.Playlist, error) {
	f.record("create:%s", name)
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	playlist := services.Playlist{ID: "playlist-" + name, Name: name}
	f.mu.Lock()
	f.Playlists = append(f.Playlists, playlist)
	f.mu.Unlock()
	return &playlist, nil
}

func (f *FakeCatalog) AddPlaylistItems(ctx context.Context, playlistID string, uris []string) error {
	f.record("add:%s:%s", playlistID, strings.Join(uris, ","))
	return f.AddErr
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error

	mu       sync.Mutex
	requests []*http.Request
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.response, m.err
}

// Requests returns the requests seen so far.
func (m *MockRoundTripper) Requests() []*http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*http.Request(nil), m.requests...)
}
