package tasks

import (
	"context"

	"github.com/dfaust/spotify-playlist-importer/internal/models"
	"github.com/dfaust/spotify-playlist-importer/internal/services"
	"github.com/dfaust/spotify-playlist-importer/internal/xspf"
)

// ExportTitle is the playlist title written on exported documents.
const ExportTitle = "spotify-playlist-importer"

// startImport begins paginating the input track list into the selected
// playlist. Pages cover the full input list, 50 tracks each; every page
// is filtered down to tracks that currently have a mapping before
// submission. Without a selected playlist the intent is ignored.
func (imp *Importer) startImport() []Cmd {
	if imp.selected == "" {
		return nil
	}

	imp.importing = true
	imp.importDone = false
	imp.importPage = 0
	return imp.submitNextPage()
}

// submitNextPage queues the add-items call for the current page and
// advances the page cursor. Mappings gained after a page is queued are
// not retroactively included in it.
func (imp *Importer) submitNextPage() []Cmd {
	if imp.importPage >= imp.importPageCount() {
		imp.importing = false
		imp.importDone = true
		imp.notifyIfIdle()
		return nil
	}

	start := imp.importPage * PageSize
	end := min(start+PageSize, len(imp.inTracks))

	var uris []string
	for _, track := range imp.inTracks[start:end] {
		if outputID, ok := imp.idMapping[track.ID()]; ok {
			uris = append(uris, outputID)
		}
	}

	imp.importPage++
	imp.pendingOps = append(imp.pendingOps, imp.addItemsCmd(imp.selected, uris))
	return imp.pump()
}

func (imp *Importer) importPageCount() int {
	return (len(imp.inTracks) + PageSize - 1) / PageSize
}

func (imp *Importer) addItemsCmd(playlistID string, uris []string) Cmd {
	gen := imp.gen
	return func(ctx context.Context) Msg {
		if err := imp.catalog.AddPlaylistItems(ctx, playlistID, uris); err != nil {
			return requestFailedMsg{gen: gen, op: "add to playlist", err: err}
		}
		return pageAddedMsg{playlistID: playlistID}
	}
}

// pageAdded advances the import after a successful page submission and
// flags completion once the final page lands.
func (imp *Importer) pageAdded(msg pageAddedMsg) []Cmd {
	imp.slot.Release()
	imp.errMessage = ""

	if imp.importing {
		if cmds := imp.submitNextPage(); cmds != nil {
			return cmds
		}
	}

	return imp.pump()
}

// Snapshot is an immutable copy of the importer state for rendering.
type Snapshot struct {
	Tracks           []models.Track
	Matches          map[string][]MatchEntry
	Mapping          map[string]string
	Playlists        []services.Playlist
	SelectedPlaylist string
	ImportDone       bool
	ErrorMessage     string
}

func (imp *Importer) snapshot() Snapshot {
	mapping := make(map[string]string, len(imp.idMapping))
	for inputID, outputID := range imp.idMapping {
		mapping[inputID] = outputID
	}

	return Snapshot{
		Tracks:           append([]models.Track(nil), imp.inTracks...),
		Matches:          imp.cache.copyLists(),
		Mapping:          mapping,
		Playlists:        append([]services.Playlist(nil), imp.playlists...),
		SelectedPlaylist: imp.selected,
		ImportDone:       imp.importDone,
		ErrorMessage:     imp.errMessage,
	}
}

// Unmatched returns the input tracks without a mapping, in file order.
func (s Snapshot) Unmatched() []models.Track {
	var unmatched []models.Track
	for _, track := range s.Tracks {
		if _, ok := s.Mapping[track.ID()]; !ok {
			unmatched = append(unmatched, track)
		}
	}
	return unmatched
}

// ExportUnmatched serializes the unmatched tracks as an XSPF document.
// Pure transformation, no network.
func (s Snapshot) ExportUnmatched() []byte {
	playlist := &xspf.Playlist{
		Title:  ExportTitle,
		Tracks: s.Unmatched(),
	}
	return playlist.Serialize()
}
