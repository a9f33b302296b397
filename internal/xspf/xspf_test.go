package xspf

import (
	"errors"
	"strings"
	"testing"

	"github.com/dfaust/spotify-playlist-importer/internal/models"
	"github.com/dfaust/spotify-playlist-importer/internal/shared"
)

const sampleDocument = `<?xml version="1.0" encoding="UTF-8"?>
<playlist version="1" xmlns="http://xspf.org/ns/0/">
  <title>Mix</title>
  <trackList>
    <track>
      <title>One More Time</title>
      <creator>Daft Punk</creator>
      <album>Discovery</album>
      <trackNum>1</trackNum>
      <duration>320000</duration>
    </track>
    <track>
      <identifier>xspf-track-2</identifier>
      <title>Untitled</title>
    </track>
  </trackList>
</playlist>`

func TestParse(t *testing.T) {
	t.Run("Valid Document", func(t *testing.T) {
		playlist, err := Parse([]byte(sampleDocument))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if playlist.Title != "Mix" {
			t.Errorf("expected title 'Mix', got %q", playlist.Title)
		}
		if len(playlist.Tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(playlist.Tracks))
		}

		first := playlist.Tracks[0]
		if first.Artist != "Daft Punk" || first.Title != "One More Time" {
			t.Errorf("unexpected first track: %+v", first)
		}
		if first.TrackNumber != 1 || first.Duration != 320000 {
			t.Errorf("expected numeric fields parsed, got %+v", first)
		}

		if playlist.Tracks[1].Identifier != "xspf-track-2" {
			t.Errorf("expected identifier parsed, got %+v", playlist.Tracks[1])
		}
	})

	t.Run("Malformed Document", func(t *testing.T) {
		_, err := Parse([]byte("<playlist><trackList>"))
		if err == nil {
			t.Fatal("expected error for malformed document")
		}
		if !errors.Is(err, shared.ErrInvalidPlaylist) {
			t.Errorf("expected ErrInvalidPlaylist, got %v", err)
		}
	})
}

func TestSerialize(t *testing.T) {
	t.Run("Emits Only Present Fields", func(t *testing.T) {
		playlist := &Playlist{
			Title: "spotify-playlist-importer",
			Tracks: []models.Track{
				{Artist: "B", Title: "Y", Duration: 180000},
			},
		}

		out := string(playlist.Serialize())

		if !strings.HasPrefix(out, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<playlist version=\"1\" xmlns=\"http://xspf.org/ns/0/\">\n  <title>spotify-playlist-importer</title>\n  <trackList>\n") {
			t.Errorf("unexpected document header:\n%s", out)
		}
		if !strings.HasSuffix(out, "  </trackList>\n</playlist>") {
			t.Errorf("unexpected document footer:\n%s", out)
		}
		if !strings.Contains(out, "      <creator>B</creator>\n") {
			t.Errorf("expected creator element, got:\n%s", out)
		}
		if !strings.Contains(out, "      <duration>180000</duration>\n") {
			t.Errorf("expected duration element, got:\n%s", out)
		}
		if strings.Contains(out, "<album>") || strings.Contains(out, "<location>") {
			t.Errorf("expected absent fields to be omitted, got:\n%s", out)
		}
	})

	t.Run("Preserves Track Order And Field Order", func(t *testing.T) {
		playlist := &Playlist{
			Tracks: []models.Track{
				{Artist: "A", Title: "X"},
				{Artist: "B", Title: "Y"},
			},
		}

		out := string(playlist.Serialize())
		if strings.Index(out, "<creator>A</creator>") > strings.Index(out, "<creator>B</creator>") {
			t.Error("expected tracks serialized in input order")
		}
		if strings.Index(out, "<title>X</title>") > strings.Index(out, "<creator>A</creator>") {
			t.Error("expected title element before creator element")
		}
	})

	t.Run("Escapes Markup In Values", func(t *testing.T) {
		playlist := &Playlist{
			Tracks: []models.Track{{Title: "Rock & Roll <live>"}},
		}

		out := string(playlist.Serialize())
		if !strings.Contains(out, "Rock &amp; Roll &lt;live&gt;") {
			t.Errorf("expected escaped markup, got:\n%s", out)
		}
	})

	t.Run("Round Trips", func(t *testing.T) {
		playlist, err := Parse([]byte(sampleDocument))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		again, err := Parse(playlist.Serialize())
		if err != nil {
			t.Fatalf("expected serialized output to parse, got %v", err)
		}
		if len(again.Tracks) != len(playlist.Tracks) {
			t.Errorf("expected %d tracks after round trip, got %d", len(playlist.Tracks), len(again.Tracks))
		}
		if again.Title != playlist.Title {
			t.Errorf("expected title %q after round trip, got %q", playlist.Title, again.Title)
		}
	})
}
