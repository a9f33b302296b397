package main

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/dfaust/spotify-playlist-importer/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistsList prints the user's editable playlists.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.requireCatalog()
	if err != nil {
		return err
	}

	playlists, err := catalog.UserPlaylists(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	if len(playlists) == 0 {
		return r.writePlain("No editable playlists found\n")
	}

	for i, playlist := range playlists {
		r.writePlain("%d. %s (%s)", i+1, playlist.Name, playlist.ID)
		if playlist.Collaborative {
			r.writePlain(" [collaborative]")
		}
		r.writePlain("\n")
	}
	return nil
}

// PlaylistsCreate creates a private playlist and prints its id.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}

	catalog, err := r.requireCatalog()
	if err != nil {
		return err
	}

	playlist, err := catalog.CreatePlaylist(ctx, name, false)
	if err != nil {
		return err
	}

	r.logger.Info("playlist created", "id", playlist.ID, "name", playlist.Name)
	return r.writePlain("✓ Created playlist %s (%s)\n", playlist.Name, playlist.ID)
}

// MappingList prints the persisted id mapping sorted by input id.
func (r *Runner) MappingList(ctx context.Context, cmd *cli.Command) error {
	mapping, err := r.mappings.Load()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(mapping, cmd.Bool("pretty"))
	}

	if len(mapping) == 0 {
		return r.writePlain("No mappings stored\n")
	}

	for _, inputID := range slices.Sorted(maps.Keys(mapping)) {
		r.writePlain("%s -> %s\n", inputID, mapping[inputID])
	}
	return nil
}

// MappingSet stores an input-to-output track id mapping.
func (r *Runner) MappingSet(ctx context.Context, cmd *cli.Command) error {
	inputID := cmd.StringArg("input")
	outputID := cmd.StringArg("output")
	if inputID == "" || outputID == "" {
		return fmt.Errorf("%w: input and output track ids are required", shared.ErrInvalidInput)
	}

	if err := r.mappings.Set(inputID, outputID); err != nil {
		return err
	}
	return r.writePlain("✓ %s -> %s\n", inputID, outputID)
}

// MappingRemove deletes a stored mapping.
func (r *Runner) MappingRemove(ctx context.Context, cmd *cli.Command) error {
	inputID := cmd.StringArg("input")
	if inputID == "" {
		return fmt.Errorf("%w: input track id is required", shared.ErrInvalidInput)
	}

	if err := r.mappings.Remove(inputID); err != nil {
		return err
	}
	return r.writePlain("✓ Removed mapping for %s\n", inputID)
}
