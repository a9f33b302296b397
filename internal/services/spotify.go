// Spotify Web API implementation of [Catalog]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dfaust/spotify-playlist-importer/internal/models"
	"github.com/dfaust/spotify-playlist-importer/internal/shared"
	"golang.org/x/time/rate"
)

const spotifyBaseURL = "https://api.spotify.com/v1"

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	Name string `json:"name"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	Name string `json:"name"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	URI         string          `json:"uri"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	Album       SpotifyAlbum    `json:"album"`
	TrackNumber int             `json:"track_number"`
	DurationMS  int             `json:"duration_ms"`
}

// Track converts the API shape to the shared track model. Multiple
// artists flatten into one comma-joined name.
func (st SpotifyTrack) Track() models.Track {
	artists := make([]string, 0, len(st.Artists))
	for _, artist := range st.Artists {
		artists = append(artists, artist.Name)
	}

	return models.Track{
		Identifier:  st.URI,
		Title:       st.Name,
		Artist:      strings.Join(artists, ", "),
		Album:       st.Album.Name,
		TrackNumber: st.TrackNumber,
		Duration:    st.DurationMS,
	}
}

// Owner represents a playlist owner.
type Owner struct {
	ID string `json:"id"`
}

// SpotifyPlaylist represents a Spotify playlist.
type SpotifyPlaylist struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Owner         Owner  `json:"owner"`
	Collaborative bool   `json:"collaborative"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID string `json:"id"`
}

type pagination[T any] struct {
	Items []T `json:"items"`
}

type searchResult struct {
	Tracks pagination[SpotifyTrack] `json:"tracks"`
}

// SpotifyService implements [Catalog] against the Spotify Web API using
// a bearer token session and a request rate limiter.
type SpotifyService struct {
	session    *Session
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// NewSpotifyService creates a Spotify catalog client for the given
// session. rateLimit caps requests per second; values <= 0 fall back to
// the default of 5.
func NewSpotifyService(session *Session, rateLimit float64) *SpotifyService {
	if rateLimit <= 0 {
		rateLimit = 5.0
	}

	return &SpotifyService{
		session:    session,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(rateLimit), 1),
		baseURL:    spotifyBaseURL,
	}
}

// Session returns the session this client authenticates with.
func (s *SpotifyService) Session() *Session {
	return s.session
}

// doRequest performs an authenticated, rate-limited HTTP request.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	if s.session == nil || s.session.AccessToken == "" {
		return shared.ErrNotAuthenticated
	}
	if s.session.Expired() {
		return fmt.Errorf("%w: expired at %s", shared.ErrSessionExpired, s.session.ExpiresAt.Format(time.RFC3339))
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.session.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// UserProfile retrieves the authenticated user's profile. Used once at
// session start to resolve the user id for the access token.
func (s *SpotifyService) UserProfile(ctx context.Context) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchTracks performs a track search for the given query string.
func (s *SpotifyService) SearchTracks(ctx context.Context, query string) ([]models.Track, error) {
	endpoint := fmt.Sprintf("/search?q=%s&type=track", url.QueryEscape(query))

	var result searchResult
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(result.Tracks.Items))
	for _, item := range result.Tracks.Items {
		tracks = append(tracks, item.Track())
	}

	return tracks, nil
}

// TracksByIDs retrieves full track data for up to 50 ids. Spotify URIs
// are reduced to bare ids before the request.
func (s *SpotifyService) TracksByIDs(ctx context.Context, ids []string) ([]models.Track, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no track ids provided", shared.ErrInvalidInput)
	}
	if len(ids) > 50 {
		return nil, fmt.Errorf("%w: maximum 50 track ids allowed", shared.ErrInvalidInput)
	}

	bare := make([]string, 0, len(ids))
	for _, id := range ids {
		bare = append(bare, ParseTrackID(id))
	}
	endpoint := fmt.Sprintf("/tracks?ids=%s", url.QueryEscape(strings.Join(bare, ",")))

	var response struct {
		Tracks []SpotifyTrack `json:"tracks"`
	}
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(response.Tracks))
	for _, item := range response.Tracks {
		tracks = append(tracks, item.Track())
	}

	return tracks, nil
}

// UserPlaylists lists playlists the session user owns or collaborates
// on. Playlists merely followed by the user are dropped since tracks
// cannot be added to them.
func (s *SpotifyService) UserPlaylists(ctx context.Context) ([]Playlist, error) {
	endpoint := fmt.Sprintf("/users/%s/playlists?limit=50", url.PathEscape(s.session.UserID))

	var response pagination[SpotifyPlaylist]
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	playlists := make([]Playlist, 0, len(response.Items))
	for _, sp := range response.Items {
		if sp.Owner.ID != s.session.UserID && !sp.Collaborative {
			continue
		}
		playlists = append(playlists, Playlist{
			ID:            sp.ID,
			Name:          sp.Name,
			OwnerID:       sp.Owner.ID,
			Collaborative: sp.Collaborative,
		})
	}

	return playlists, nil
}

// CreatePlaylist creates a playlist for the session user.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, name string, public bool) (*Playlist, error) {
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(s.session.UserID))
	body := map[string]any{"name": name, "public": public}

	var created SpotifyPlaylist
	if err := s.doRequest(ctx, http.MethodPost, endpoint, body, &created); err != nil {
		return nil, err
	}

	return &Playlist{
		ID:            created.ID,
		Name:          created.Name,
		OwnerID:       created.Owner.ID,
		Collaborative: created.Collaborative,
	}, nil
}

// AddPlaylistItems appends up to 50 track URIs to the playlist.
func (s *SpotifyService) AddPlaylistItems(ctx context.Context, playlistID string, uris []string) error {
	if len(uris) > 50 {
		return fmt.Errorf("%w: maximum 50 uris allowed", shared.ErrInvalidInput)
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	body := map[string]any{"uris": uris}

	return s.doRequest(ctx, http.MethodPost, endpoint, body, nil)
}
