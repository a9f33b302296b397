package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dfaust/spotify-playlist-importer/internal/models"
	"github.com/dfaust/spotify-playlist-importer/internal/repositories"
	"github.com/dfaust/spotify-playlist-importer/internal/services"
	"github.com/dfaust/spotify-playlist-importer/internal/shared"
)

// Importer owns all reconciliation state. State is mutated only inside
// [Importer.Update]; other goroutines interact through [Importer.Post],
// [Importer.Snapshot], and [Importer.WaitIdle].
type Importer struct {
	catalog  services.Catalog
	mappings repositories.MappingStore
	logger   *log.Logger

	msgs chan Msg
	tick time.Duration

	// generation of the current playlist load; stale completions are
	// discarded
	gen int

	inTracks []models.Track
	byID     map[string]models.Track

	cache     *MatchCache
	idMapping map[string]string
	remainder *RemainderSet

	queue      []fetchTask
	pendingOps []Cmd
	slot       CallSlot

	playlists []services.Playlist
	selected  string

	importing  bool
	importPage int
	importDone bool

	errMessage string

	idleWaiters []chan struct{}
}

// ImporterOpts contains configuration options for creating an Importer.
type ImporterOpts struct {
	Catalog  services.Catalog
	Mappings repositories.MappingStore
	Logger   *log.Logger
	Tick     time.Duration
}

// NewImporter creates an Importer and loads the persisted id mapping.
func NewImporter(opts ImporterOpts) (*Importer, error) {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Tick <= 0 {
		opts.Tick = time.Minute
	}

	idMapping, err := opts.Mappings.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load id mapping: %w", err)
	}

	return &Importer{
		catalog:   opts.Catalog,
		mappings:  opts.Mappings,
		logger:    opts.Logger,
		msgs:      make(chan Msg, 64),
		tick:      opts.Tick,
		byID:      make(map[string]models.Track),
		cache:     NewMatchCache(),
		idMapping: idMapping,
		remainder: NewRemainderSet(),
	}, nil
}

// Post enqueues a message for the update loop.
func (imp *Importer) Post(msg Msg) {
	imp.msgs <- msg
}

// Run drives the update loop until ctx is cancelled. Commands returned
// by Update run on their own goroutines; their completion messages are
// processed in arrival order.
func (imp *Importer) Run(ctx context.Context) {
	ticker := time.NewTicker(imp.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-imp.msgs:
			imp.exec(ctx, imp.Update(msg))
		case <-ticker.C:
			imp.exec(ctx, imp.Update(TickMsg{}))
		}
	}
}

func (imp *Importer) exec(ctx context.Context, cmds []Cmd) {
	for _, cmd := range cmds {
		go func(cmd Cmd) {
			msg := cmd(ctx)
			if msg == nil {
				return
			}
			select {
			case imp.msgs <- msg:
			case <-ctx.Done():
			}
		}(cmd)
	}
}

// Snapshot returns a copy of the current state for rendering. Safe to
// call from any goroutine while Run is active.
func (imp *Importer) Snapshot() Snapshot {
	reply := make(chan Snapshot, 1)
	imp.Post(snapshotMsg{reply: reply})
	return <-reply
}

// WaitIdle blocks until no catalog work is queued or outstanding, or
// until ctx is cancelled.
func (imp *Importer) WaitIdle(ctx context.Context) error {
	reply := make(chan struct{})
	imp.Post(waitIdleMsg{reply: reply})
	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Update is the single state-transition function. It must only be
// called from one goroutine at a time.
func (imp *Importer) Update(msg Msg) []Cmd {
	switch msg := msg.(type) {
	case LoadPlaylistMsg:
		return imp.loadPlaylist(msg.Tracks)

	case SetMappingMsg:
		imp.setMapping(msg.InputID, msg.OutputID)
		return nil

	case RequeryMsg:
		// user-supplied ids are validated here so a typo cannot reach
		// the unknown-id panic in mustTrack
		if _, ok := imp.byID[msg.InputID]; !ok {
			imp.logger.Warn("requery for unknown input id", "input", msg.InputID)
			return nil
		}
		imp.queue = append(imp.queue, fetchTask{inputID: msg.InputID, query: msg.Query, initiator: Manual})
		return imp.pump()

	case ListPlaylistsMsg:
		imp.pendingOps = append(imp.pendingOps, imp.listPlaylistsCmd())
		return imp.pump()

	case SelectPlaylistMsg:
		imp.selected = msg.PlaylistID
		return nil

	case CreatePlaylistMsg:
		imp.pendingOps = append(imp.pendingOps, imp.createPlaylistCmd(msg.Name))
		return imp.pump()

	case ImportMatchedMsg:
		return imp.startImport()

	case TickMsg:
		return imp.pump()

	case searchDoneMsg:
		return imp.searchDone(msg)

	case bulkDoneMsg:
		return imp.bulkDone(msg)

	case playlistsLoadedMsg:
		imp.slot.Release()
		imp.errMessage = ""
		imp.playlists = msg.playlists
		return imp.pump()

	case playlistCreatedMsg:
		imp.slot.Release()
		imp.errMessage = ""
		imp.playlists = append(imp.playlists, msg.playlist)
		imp.selected = msg.playlist.ID
		return imp.pump()

	case pageAddedMsg:
		return imp.pageAdded(msg)

	case requestFailedMsg:
		imp.slot.Release()
		if msg.gen != imp.gen {
			return imp.pump()
		}
		imp.errMessage = fmt.Sprintf("Request failed: %s", msg.op)
		imp.logger.Error("catalog request failed", "op", msg.op, "err", msg.err)
		imp.notifyIfIdle()
		return nil

	case snapshotMsg:
		msg.reply <- imp.snapshot()
		return nil

	case waitIdleMsg:
		if imp.idle() {
			close(msg.reply)
		} else {
			imp.idleWaiters = append(imp.idleWaiters, msg.reply)
		}
		return nil
	}

	return nil
}

// loadPlaylist replaces the input track set wholesale: new generation,
// fresh match cache, one queued search per track in file order, and a
// rebuilt remainder set covering every previously-mapped track whose
// candidate data is not yet cached.
func (imp *Importer) loadPlaylist(tracks []models.Track) []Cmd {
	imp.gen++
	imp.inTracks = tracks
	imp.byID = make(map[string]models.Track, len(tracks))
	imp.cache = NewMatchCache()
	imp.queue = imp.queue[:0]
	imp.remainder = NewRemainderSet()
	imp.errMessage = ""

	for _, track := range tracks {
		inputID := track.ID()
		imp.byID[inputID] = track
		imp.queue = append(imp.queue, fetchTask{
			inputID:   inputID,
			query:     track.Query(),
			initiator: Auto(1),
		})
	}

	for _, track := range tracks {
		inputID := track.ID()
		if outputID, ok := imp.idMapping[inputID]; ok && !imp.cache.Contains(inputID, outputID) {
			imp.remainder.Add(inputID, outputID)
		}
	}

	imp.logger.Info("playlist loaded", "tracks", len(tracks), "remainder", imp.remainder.Len())
	return imp.pump()
}

func (imp *Importer) setMapping(inputID, outputID string) {
	if outputID == "" {
		delete(imp.idMapping, inputID)
		if err := imp.mappings.Remove(inputID); err != nil {
			imp.logger.Error("failed to persist mapping removal", "input", inputID, "err", err)
		}
		return
	}

	imp.idMapping[inputID] = outputID
	if err := imp.mappings.Set(inputID, outputID); err != nil {
		imp.logger.Error("failed to persist mapping", "input", inputID, "err", err)
	}
}

// pump issues the next catalog call if the slot is free: pending
// playlist operations first, then queued searches FIFO, then the next
// bulk-lookup page.
func (imp *Importer) pump() []Cmd {
	if !imp.slot.TryAcquire() {
		return nil
	}

	if len(imp.pendingOps) > 0 {
		op := imp.pendingOps[0]
		imp.pendingOps = imp.pendingOps[1:]
		return []Cmd{op}
	}

	if len(imp.queue) > 0 {
		task := imp.queue[0]
		imp.queue = imp.queue[1:]
		return []Cmd{imp.searchCmd(task)}
	}

	if imp.remainder.HasNext() {
		ids, lookup := imp.remainder.NextPage()
		return []Cmd{imp.bulkCmd(ids, lookup)}
	}

	imp.slot.Release()
	imp.notifyIfIdle()
	return nil
}

func (imp *Importer) searchCmd(task fetchTask) Cmd {
	gen := imp.gen
	return func(ctx context.Context) Msg {
		tracks, err := imp.catalog.SearchTracks(ctx, task.query)
		if err != nil {
			return requestFailedMsg{gen: gen, op: "search track", err: err}
		}
		return searchDoneMsg{gen: gen, inputID: task.inputID, tracks: tracks, initiator: task.initiator}
	}
}

func (imp *Importer) bulkCmd(ids []string, lookup map[string]string) Cmd {
	gen := imp.gen
	return func(ctx context.Context) Msg {
		tracks, err := imp.catalog.TracksByIDs(ctx, ids)
		if err != nil {
			return requestFailedMsg{gen: gen, op: "get tracks", err: err}
		}
		return bulkDoneMsg{gen: gen, tracks: tracks, lookup: lookup}
	}
}

func (imp *Importer) listPlaylistsCmd() Cmd {
	gen := imp.gen
	return func(ctx context.Context) Msg {
		playlists, err := imp.catalog.UserPlaylists(ctx)
		if err != nil {
			return requestFailedMsg{gen: gen, op: "get playlists", err: err}
		}
		return playlistsLoadedMsg{playlists: playlists}
	}
}

func (imp *Importer) createPlaylistCmd(name string) Cmd {
	gen := imp.gen
	return func(ctx context.Context) Msg {
		playlist, err := imp.catalog.CreatePlaylist(ctx, name, false)
		if err != nil {
			return requestFailedMsg{gen: gen, op: "create playlist", err: err}
		}
		return playlistCreatedMsg{playlist: *playlist}
	}
}

func (imp *Importer) searchDone(msg searchDoneMsg) []Cmd {
	imp.slot.Release()
	if msg.gen != imp.gen {
		return imp.pump()
	}

	imp.errMessage = ""

	if len(msg.tracks) > 0 {
		imp.insertCandidates(msg.inputID, msg.tracks)
	} else if !msg.initiator.Manual && msg.initiator.Attempt == 1 {
		track := imp.mustTrack(msg.inputID)
		query := track.Query()
		adjusted := track.AdjustedQuery()
		if adjusted != query {
			imp.queue = append(imp.queue, fetchTask{
				inputID:   msg.inputID,
				query:     adjusted,
				initiator: Auto(2),
			})
		}
	}

	return imp.pump()
}

func (imp *Importer) bulkDone(msg bulkDoneMsg) []Cmd {
	imp.slot.Release()
	if msg.gen != imp.gen {
		return imp.pump()
	}

	imp.errMessage = ""

	for _, track := range msg.tracks {
		inputID, ok := msg.lookup[track.ID()]
		if !ok {
			// The catalog answered with a track we never asked for;
			// routing it anywhere would corrupt the caches.
			panic(fmt.Sprintf("tasks: bulk lookup returned unrequested track %s", track.ID()))
		}
		imp.insertCandidates(inputID, []models.Track{track})
	}

	return imp.pump()
}

// insertCandidates scores the candidates, merges them into the match
// cache, applies the default-mapping policy, and clears any satisfied
// remainder entry.
func (imp *Importer) insertCandidates(inputID string, candidates []models.Track) {
	track := imp.mustTrack(inputID)

	entries := make([]MatchEntry, 0, len(candidates))
	for _, candidate := range candidates {
		entries = append(entries, MatchEntry{Score: track.Similarity(candidate), Track: candidate})
	}
	list := imp.cache.Insert(inputID, entries)

	// first successful match sets the default; a user choice is never
	// overridden
	if _, ok := imp.idMapping[inputID]; !ok {
		imp.setMapping(inputID, list[0].Track.ID())
	}

	if outputID, ok := imp.remainder.Get(inputID); ok && imp.cache.Contains(inputID, outputID) {
		imp.remainder.Remove(inputID)
	}
}

// mustTrack resolves an input id or panics: completions referencing
// unknown ids indicate a logic error upstream, not a recoverable
// condition.
func (imp *Importer) mustTrack(inputID string) models.Track {
	track, ok := imp.byID[inputID]
	if !ok {
		panic(fmt.Sprintf("tasks: received tracks for unknown input id %s", inputID))
	}
	return track
}

func (imp *Importer) idle() bool {
	return !imp.slot.Held() &&
		len(imp.queue) == 0 &&
		len(imp.pendingOps) == 0 &&
		!imp.remainder.HasNext()
}

func (imp *Importer) notifyIfIdle() {
	if !imp.idle() {
		return
	}
	for _, waiter := range imp.idleWaiters {
		close(waiter)
	}
	imp.idleWaiters = nil
}
