package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dfaust/spotify-playlist-importer/internal/shared"
	"github.com/dfaust/spotify-playlist-importer/internal/tasks"
	"github.com/dfaust/spotify-playlist-importer/internal/xspf"
	"github.com/urfave/cli/v3"
)

// startEngine parses the playlist file and starts the matching engine on
// it. The engine runs until ctx is cancelled.
func (r *Runner) startEngine(ctx context.Context, path string) (*tasks.Importer, *xspf.Playlist, error) {
	if path == "" {
		return nil, nil, fmt.Errorf("%w: playlist file path is required", shared.ErrInvalidInput)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	playlist, err := xspf.Parse(data)
	if err != nil {
		return nil, nil, err
	}

	catalog, err := r.requireCatalog()
	if err != nil {
		return nil, nil, err
	}

	imp, err := tasks.NewImporter(tasks.ImporterOpts{
		Catalog:  catalog,
		Mappings: r.mappings,
		Logger:   shared.WithLogger(r.logger, "playlist", path),
		Tick:     time.Duration(r.config.Importer.TickSeconds) * time.Second,
	})
	if err != nil {
		return nil, nil, err
	}

	go imp.Run(ctx)
	imp.Post(tasks.LoadPlaylistMsg{Tracks: playlist.Tracks})
	return imp, playlist, nil
}

// MatchRun matches a playlist file and prints the candidates per track.
func (r *Runner) MatchRun(ctx context.Context, cmd *cli.Command) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	imp, playlist, err := r.startEngine(ctx, cmd.StringArg("path"))
	if err != nil {
		return err
	}
	if err := imp.WaitIdle(ctx); err != nil {
		return err
	}

	for _, requery := range cmd.StringSlice("requery") {
		inputID, query, ok := strings.Cut(requery, "=")
		if !ok {
			return fmt.Errorf("%w: requery must be INPUT_ID=QUERY", shared.ErrInvalidInput)
		}
		imp.Post(tasks.RequeryMsg{InputID: inputID, Query: query})
	}
	if err := imp.WaitIdle(ctx); err != nil {
		return err
	}

	snapshot := imp.Snapshot()
	if cmd.Bool("json") {
		return r.writeJSON(snapshot, cmd.Bool("pretty"))
	}

	r.renderMatches(playlist, snapshot)
	return nil
}

// ImportRun matches a playlist file and imports the matched tracks into
// an existing or freshly created playlist.
func (r *Runner) ImportRun(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("playlist")
	createName := cmd.String("create")
	if playlistID == "" && createName == "" {
		return fmt.Errorf("%w: either --playlist or --create is required", shared.ErrInvalidInput)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	imp, _, err := r.startEngine(ctx, cmd.StringArg("path"))
	if err != nil {
		return err
	}
	if err := imp.WaitIdle(ctx); err != nil {
		return err
	}

	if createName != "" {
		imp.Post(tasks.CreatePlaylistMsg{Name: createName})
		if err := imp.WaitIdle(ctx); err != nil {
			return err
		}
	} else {
		imp.Post(tasks.SelectPlaylistMsg{PlaylistID: playlistID})
	}

	imp.Post(tasks.ImportMatchedMsg{})
	if err := imp.WaitIdle(ctx); err != nil {
		return err
	}

	snapshot := imp.Snapshot()
	if snapshot.ErrorMessage != "" {
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, snapshot.ErrorMessage)
	}
	if !snapshot.ImportDone {
		return fmt.Errorf("%w: import did not complete", shared.ErrAPIRequest)
	}

	unmatched := snapshot.Unmatched()
	matched := len(snapshot.Tracks) - len(unmatched)

	r.writePlainHeader("Import Complete")
	r.writePlain("Playlist: %s\n", snapshot.SelectedPlaylist)
	r.writePlain("Imported %d/%d tracks\n", matched, len(snapshot.Tracks))

	if len(unmatched) > 0 {
		r.writePlain("\nUnmatched tracks:\n")
		for _, track := range unmatched {
			r.writePlain("  - %s - %s\n", track.Artist, track.Title)
		}
		if output := cmd.String("export"); output != "" {
			if err := os.WriteFile(output, snapshot.ExportUnmatched(), 0644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			r.writePlain("\nUnmatched tracks written to %s\n", output)
		}
	}

	return nil
}

// ExportRun matches a playlist file and writes the unmatched remainder
// as an XSPF document.
func (r *Runner) ExportRun(ctx context.Context, cmd *cli.Command) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	imp, _, err := r.startEngine(ctx, cmd.StringArg("path"))
	if err != nil {
		return err
	}
	if err := imp.WaitIdle(ctx); err != nil {
		return err
	}

	snapshot := imp.Snapshot()
	unmatched := snapshot.Unmatched()
	if len(unmatched) == 0 {
		return r.writePlain("All tracks matched, nothing to export\n")
	}

	output := cmd.String("output")
	if err := os.WriteFile(output, snapshot.ExportUnmatched(), 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return r.writePlain("✓ %d unmatched tracks written to %s\n", len(unmatched), output)
}

// renderMatches prints the per-track candidate lists with the current
// mapping marked.
func (r *Runner) renderMatches(playlist *xspf.Playlist, snapshot tasks.Snapshot) {
	title := playlist.Title
	if title == "" {
		title = "playlist"
	}
	r.writePlainHeader(fmt.Sprintf("Matches for %s", title))

	for i, track := range snapshot.Tracks {
		inputID := track.ID()
		matches := snapshot.Matches[inputID]
		mapped := snapshot.Mapping[inputID]

		r.writePlain("%d. %s - %s\n", i+1, track.Artist, track.Title)
		if len(matches) == 0 && mapped == "" {
			r.writePlain("   no match found (id %s)\n", inputID)
			continue
		}

		shown := min(len(matches), 3)
		inList := false
		for _, match := range matches[:shown] {
			marker := " "
			if match.Track.ID() == mapped {
				marker = "*"
				inList = true
			}
			r.writePlain("   %s %.3f %s - %s (%s)\n", marker, match.Score, match.Track.Artist, match.Track.Title, match.Track.Identifier)
		}
		if mapped != "" && !inList {
			r.writePlain("   * mapped to %s\n", mapped)
		}
	}

	unmatched := snapshot.Unmatched()
	r.writePlainln("%d/%d tracks matched", len(snapshot.Tracks)-len(unmatched), len(snapshot.Tracks))
	if snapshot.ErrorMessage != "" {
		r.writePlain("%s\n", snapshot.ErrorMessage)
	}
}
