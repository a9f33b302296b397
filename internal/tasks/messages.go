package tasks

import (
	"context"

	"github.com/dfaust/spotify-playlist-importer/internal/models"
	"github.com/dfaust/spotify-playlist-importer/internal/services"
)

// Msg is a single event consumed by [Importer.Update]: either a user
// intent or the completion of a catalog call.
type Msg interface{}

// Cmd is deferred work produced by [Importer.Update], typically one
// catalog call. The returned message, if any, is fed back into the
// update loop.
type Cmd func(ctx context.Context) Msg

// Initiator distinguishes automatic searches from user-triggered ones.
//
// Only the first automatic attempt ever spawns a relaxed-query
// follow-up; manual searches never do, regardless of result.
type Initiator struct {
	Manual  bool
	Attempt int
}

// Auto returns the initiator for an automatic search attempt (1 or 2).
func Auto(attempt int) Initiator {
	return Initiator{Attempt: attempt}
}

// Manual is the initiator for user-triggered re-searches.
var Manual = Initiator{Manual: true}

// fetchTask is one queued catalog search.
type fetchTask struct {
	inputID   string
	query     string
	initiator Initiator
}

// User intents.
type (
	// LoadPlaylistMsg replaces the input track set wholesale and seeds
	// one search task per track.
	LoadPlaylistMsg struct {
		Tracks []models.Track
	}

	// SetMappingMsg records a user override for the given input track.
	// An empty OutputID removes the mapping.
	SetMappingMsg struct {
		InputID  string
		OutputID string
	}

	// RequeryMsg queues a manual search with a user-supplied query.
	RequeryMsg struct {
		InputID string
		Query   string
	}

	// ListPlaylistsMsg requests the user's Spotify playlists.
	ListPlaylistsMsg struct{}

	// SelectPlaylistMsg selects the import target playlist.
	SelectPlaylistMsg struct {
		PlaylistID string
	}

	// CreatePlaylistMsg creates a private Spotify playlist and selects it.
	CreatePlaylistMsg struct {
		Name string
	}

	// ImportMatchedMsg starts submitting mapped tracks to the selected
	// playlist, 50 input tracks per page.
	ImportMatchedMsg struct{}

	// TickMsg re-enters the scheduler. Liveness safety net, not a
	// correctness requirement.
	TickMsg struct{}
)

// Catalog call completions.
type (
	searchDoneMsg struct {
		gen       int
		inputID   string
		tracks    []models.Track
		initiator Initiator
	}

	bulkDoneMsg struct {
		gen    int
		tracks []models.Track
		lookup map[string]string // candidate id → input id for the requested page
	}

	playlistsLoadedMsg struct {
		playlists []services.Playlist
	}

	playlistCreatedMsg struct {
		playlist services.Playlist
	}

	pageAddedMsg struct {
		playlistID string
	}

	requestFailedMsg struct {
		gen int
		op  string
		err error
	}
)

// internal requests served by the loop goroutine
type (
	snapshotMsg struct {
		reply chan Snapshot
	}

	waitIdleMsg struct {
		reply chan struct{}
	}
)
