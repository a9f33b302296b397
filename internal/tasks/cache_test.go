package tasks

import (
	"math"
	"testing"

	"github.com/dfaust/spotify-playlist-importer/internal/models"
)

func TestMatchCache(t *testing.T) {
	t.Run("Insert Sorts Descending", func(t *testing.T) {
		cache := NewMatchCache()

		list := cache.Insert("in1", []MatchEntry{
			{Score: 0.2, Track: models.Track{Identifier: "low"}},
			{Score: 0.9, Track: models.Track{Identifier: "high"}},
			{Score: 0.5, Track: models.Track{Identifier: "mid"}},
		})

		want := []string{"high", "mid", "low"}
		for i, id := range want {
			if list[i].Track.Identifier != id {
				t.Errorf("position %d: expected %s, got %s", i, id, list[i].Track.Identifier)
			}
		}
	})

	t.Run("Ties Keep Insertion Order", func(t *testing.T) {
		cache := NewMatchCache()

		cache.Insert("in1", []MatchEntry{{Score: 0.5, Track: models.Track{Identifier: "first"}}})
		list := cache.Insert("in1", []MatchEntry{{Score: 0.5, Track: models.Track{Identifier: "second"}}})

		if list[0].Track.Identifier != "first" || list[1].Track.Identifier != "second" {
			t.Errorf("expected stable tie order, got %s then %s",
				list[0].Track.Identifier, list[1].Track.Identifier)
		}
	})

	t.Run("Appends Without Deduplicating", func(t *testing.T) {
		cache := NewMatchCache()
		entries := []MatchEntry{
			{Score: 0.9, Track: models.Track{Identifier: "a"}},
			{Score: 0.4, Track: models.Track{Identifier: "b"}},
		}

		cache.Insert("in1", entries)
		list := cache.Insert("in1", entries)

		if len(list) != 4 {
			t.Fatalf("expected both copies present, got %d entries", len(list))
		}
		for i := 1; i < len(list); i++ {
			if scoreBetter(list[i].Score, list[i-1].Score) {
				t.Errorf("list not sorted at position %d", i)
			}
		}
	})

	t.Run("NaN Scores Sort Last", func(t *testing.T) {
		cache := NewMatchCache()

		list := cache.Insert("in1", []MatchEntry{
			{Score: math.NaN(), Track: models.Track{Identifier: "broken"}},
			{Score: 0.1, Track: models.Track{Identifier: "ok"}},
		})

		if list[0].Track.Identifier != "ok" {
			t.Errorf("expected NaN entry to sort last, got %s first", list[0].Track.Identifier)
		}
	})

	t.Run("Contains", func(t *testing.T) {
		cache := NewMatchCache()
		cache.Insert("in1", []MatchEntry{{Score: 1, Track: models.Track{Identifier: "a"}}})

		if !cache.Contains("in1", "a") {
			t.Error("expected candidate to be found")
		}
		if cache.Contains("in1", "b") || cache.Contains("in2", "a") {
			t.Error("expected missing candidates to be absent")
		}
	})
}
