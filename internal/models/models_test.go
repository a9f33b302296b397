package models

import (
	"math"
	"strings"
	"testing"
)

func TestTrackID(t *testing.T) {
	t.Run("Uses Identifier When Present", func(t *testing.T) {
		track := Track{Identifier: "spotify:track:abc123", Title: "Song"}
		if track.ID() != "spotify:track:abc123" {
			t.Errorf("expected identifier as id, got %s", track.ID())
		}
	})

	t.Run("Hash Is Stable", func(t *testing.T) {
		track := Track{Artist: "Artist", Title: "Title", Duration: 200000}
		if track.ID() != track.ID() {
			t.Error("expected identical ids for identical tracks")
		}

		same := Track{Artist: "Artist", Title: "Title", Duration: 200000}
		if track.ID() != same.ID() {
			t.Error("expected structurally identical tracks to share an id")
		}
	})

	t.Run("Hash Differs Per Field", func(t *testing.T) {
		a := Track{Artist: "Artist", Title: "Title"}
		b := Track{Artist: "Artist", Title: "Title", Duration: 1}
		if a.ID() == b.ID() {
			t.Error("expected different ids when any field differs")
		}

		// field boundaries must not blur into each other
		c := Track{Artist: "ArtistT", Title: "itle"}
		if a.ID() == c.ID() {
			t.Error("expected field-by-field hashing, not concatenation")
		}
	})
}

func TestQuery(t *testing.T) {
	t.Run("Joins Artist And Title", func(t *testing.T) {
		track := Track{Artist: "Artist", Title: "Title"}
		if got := track.Query(); got != "Artist Title" {
			t.Errorf("expected 'Artist Title', got %q", got)
		}
	})

	t.Run("Empty Fields Leave No Stray Spaces", func(t *testing.T) {
		for _, track := range []Track{
			{Title: "Title"},
			{Artist: "Artist"},
			{Artist: "  Artist  ", Title: "  Title  "},
		} {
			got := track.Query()
			if strings.Contains(got, "  ") {
				t.Errorf("query %q contains a double space", got)
			}
			if got != strings.TrimSpace(got) {
				t.Errorf("query %q has leading or trailing space", got)
			}
		}
	})

	t.Run("Collapses Whitespace Runs", func(t *testing.T) {
		track := Track{Artist: "The  Band", Title: "A\t Song"}
		if got := track.Query(); got != "The Band A Song" {
			t.Errorf("expected collapsed whitespace, got %q", got)
		}
	})
}

func TestAdjustedQuery(t *testing.T) {
	t.Run("Strips Bracketed Spans", func(t *testing.T) {
		track := Track{Artist: "Artist [Top]", Title: "Title (feat. Somebody)"}
		if got := track.AdjustedQuery(); got != "Artist Title" {
			t.Errorf("expected 'Artist Title', got %q", got)
		}
	})

	t.Run("Greedy Strip Spans First To Last Bracket", func(t *testing.T) {
		track := Track{Title: "Title (live) extra (remix)"}
		if got := track.AdjustedQuery(); got != "Title" {
			t.Errorf("expected single greedy strip, got %q", got)
		}
	})

	t.Run("Equals Query Without Brackets", func(t *testing.T) {
		track := Track{Artist: "Plain Artist", Title: "Plain Title"}
		if track.AdjustedQuery() != track.Query() {
			t.Error("expected adjusted query to equal query when nothing is bracketed")
		}
	})

	t.Run("Never Lengthens", func(t *testing.T) {
		tracks := []Track{
			{Artist: "Artist (x)", Title: "Title"},
			{Artist: "A", Title: "B [C] D"},
			{Artist: "", Title: "(all bracketed)"},
		}
		for _, track := range tracks {
			if len(track.AdjustedQuery()) > len(track.Query()) {
				t.Errorf("adjusted query %q longer than query %q", track.AdjustedQuery(), track.Query())
			}
		}
	})
}

func TestSimilarity(t *testing.T) {
	t.Run("Identical Tracks Score One", func(t *testing.T) {
		track := Track{Artist: "Artist", Album: "Album", Title: "Title", Duration: 200000}
		if got := track.Similarity(track); math.Abs(got-1) > 1e-9 {
			t.Errorf("expected 1.0 for identical tracks, got %f", got)
		}
	})

	t.Run("Symmetric", func(t *testing.T) {
		a := Track{Artist: "Daft Punk", Album: "Discovery", Title: "One More Time", Duration: 320000}
		b := Track{Artist: "Daft Punk", Album: "Discovery (Remastered)", Title: "One More Time", Duration: 321000}
		if a.Similarity(b) != b.Similarity(a) {
			t.Errorf("expected symmetric score, got %f and %f", a.Similarity(b), b.Similarity(a))
		}
	})

	t.Run("Case Insensitive Text Terms", func(t *testing.T) {
		a := Track{Artist: "ARTIST", Title: "TITLE", Duration: 1000}
		b := Track{Artist: "artist", Title: "title", Duration: 1000}
		c := Track{Artist: "artist", Title: "title", Duration: 1000}
		if a.Similarity(b) != c.Similarity(b) {
			t.Error("expected case folding before comparison")
		}
	})

	t.Run("Duration Mismatch Lowers Score", func(t *testing.T) {
		a := Track{Artist: "Artist", Title: "Title", Duration: 200000}
		close := Track{Artist: "Artist", Title: "Title", Duration: 201000}
		far := Track{Artist: "Artist", Title: "Title", Duration: 90000}
		if a.Similarity(close) <= a.Similarity(far) {
			t.Error("expected closer duration to score higher")
		}
	})

	t.Run("Zero Durations Produce NaN", func(t *testing.T) {
		a := Track{Artist: "Artist", Title: "Title"}
		b := Track{Artist: "Artist", Title: "Title"}
		if !math.IsNaN(a.Similarity(b)) {
			t.Errorf("expected NaN when both durations are zero, got %f", a.Similarity(b))
		}
	})
}
