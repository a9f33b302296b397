package tasks

import (
	"math"
	"sort"

	"github.com/dfaust/spotify-playlist-importer/internal/models"
)

// MatchEntry is one scored candidate for an input track.
type MatchEntry struct {
	Score float64
	Track models.Track
}

// MatchCache holds the ranked candidate lists discovered so far, one
// list per input track id. Lists grow monotonically within a playlist
// load; inserting re-sorts but never de-duplicates.
type MatchCache struct {
	lists map[string][]MatchEntry
}

// NewMatchCache creates an empty cache.
func NewMatchCache() *MatchCache {
	return &MatchCache{lists: make(map[string][]MatchEntry)}
}

// Insert appends entries to the input track's list, re-sorts it
// descending by score, and returns the updated list. The sort is stable
// so ties keep insertion order; NaN scores rank last.
func (c *MatchCache) Insert(inputID string, entries []MatchEntry) []MatchEntry {
	list := append(c.lists[inputID], entries...)
	sort.SliceStable(list, func(i, j int) bool {
		return scoreBetter(list[i].Score, list[j].Score)
	})
	c.lists[inputID] = list
	return list
}

// Get returns the ranked candidate list for the input track id.
func (c *MatchCache) Get(inputID string) []MatchEntry {
	return c.lists[inputID]
}

// Contains reports whether the input track's list holds a candidate
// with the given catalog id.
func (c *MatchCache) Contains(inputID, candidateID string) bool {
	for _, entry := range c.lists[inputID] {
		if entry.Track.ID() == candidateID {
			return true
		}
	}
	return false
}

// copyLists returns a deep copy for rendering snapshots.
func (c *MatchCache) copyLists() map[string][]MatchEntry {
	lists := make(map[string][]MatchEntry, len(c.lists))
	for id, list := range c.lists {
		lists[id] = append([]MatchEntry(nil), list...)
	}
	return lists
}

// scoreBetter ranks a strictly above b, treating NaN as worse than any
// number so broken duration terms sink instead of crashing the sort.
func scoreBetter(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a > b
}
