// package services implements the Spotify Web API client used by the
// matching engine and the sync driver.
package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/dfaust/spotify-playlist-importer/internal/models"
	"golang.org/x/oauth2/spotify"
)

// Catalog defines the remote catalog operations the importer consumes.
//
// Implementations must treat every call as independent; the matching
// engine enforces its own one-call-at-a-time budget on top.
type Catalog interface {
	// SearchTracks performs a track search for the given query string.
	SearchTracks(ctx context.Context, query string) ([]models.Track, error)
	// TracksByIDs retrieves full track data for up to 50 track ids.
	TracksByIDs(ctx context.Context, ids []string) ([]models.Track, error)
	// UserPlaylists lists the playlists the session user owns or collaborates on.
	UserPlaylists(ctx context.Context) ([]Playlist, error)
	// CreatePlaylist creates a playlist for the session user.
	CreatePlaylist(ctx context.Context, name string, public bool) (*Playlist, error)
	// AddPlaylistItems appends up to 50 track URIs to a playlist.
	AddPlaylistItems(ctx context.Context, playlistID string, uris []string) error
}

// Playlist is a Spotify playlist summary.
type Playlist struct {
	ID            string
	Name          string
	OwnerID       string
	Collaborative bool
}

// Session carries the credentials obtained from the implicit grant flow.
//
// The importer only observes the expiration; it never refreshes the
// token.
type Session struct {
	UserID      string
	AccessToken string
	ExpiresAt   time.Time
}

// Remaining returns the time until the session expires.
func (s *Session) Remaining() time.Duration {
	return time.Until(s.ExpiresAt)
}

// Expired reports whether the session's access token has expired.
func (s *Session) Expired() bool {
	return s.Remaining() <= 0
}

// Scopes requested during the authorize redirect.
var authScopes = []string{
	"playlist-read-private",
	"playlist-modify-private",
	"user-library-read",
	"user-library-modify",
}

// AuthorizeURL builds the implicit-grant authorize URL for the Spotify
// accounts service. The state token is echoed back on the redirect for
// CSRF protection.
func AuthorizeURL(clientID, redirectURI, state string) string {
	params := url.Values{}
	params.Set("client_id", clientID)
	params.Set("response_type", "token")
	params.Set("redirect_uri", redirectURI)
	params.Set("scope", strings.Join(authScopes, " "))
	params.Set("state", state)
	return spotify.Endpoint.AuthURL + "?" + params.Encode()
}

// ParseTrackID extracts the bare track id from a Spotify URI such as
// "spotify:track:4uLU6hMCjMI75M1A2tKUQC". Bare ids pass through.
func ParseTrackID(uri string) string {
	parts := strings.Split(uri, ":")
	return parts[len(parts)-1]
}
