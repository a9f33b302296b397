// package models defines the track data model shared by the playlist
// parser, the matching engine, and the Spotify client.
package models

import (
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

var (
	whitespaceRE = regexp.MustCompile(`\s+`)
	bracketsRE   = regexp.MustCompile(`[(\[].*[)\]]`)
)

// Track represents a single track, either parsed from an input playlist
// file or returned by the Spotify catalog. Empty strings and zero values
// mean the field was absent in the source document.
type Track struct {
	Location    string
	Identifier  string
	Title       string
	Artist      string
	Annotation  string
	Info        string
	Album       string
	TrackNumber int
	Duration    int // milliseconds
}

// ID returns the identity used to key match lists and persisted mappings.
//
// If the track carries an explicit identifier (catalog tracks always do)
// that identifier is the identity. Otherwise the identity is a hash over
// all fields, which is stable across reloads of a byte-identical file.
// Two textually identical tracks without identifiers share one identity
// and therefore one mapping slot.
func (t Track) ID() string {
	if t.Identifier != "" {
		return t.Identifier
	}

	h := fnv.New64a()
	for _, field := range []string{
		t.Location, t.Identifier, t.Title, t.Artist, t.Annotation, t.Info, t.Album,
	} {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	fmt.Fprintf(h, "%d\x00%d", t.TrackNumber, t.Duration)

	return fmt.Sprintf("%d", h.Sum64())
}

// Query returns the search query for this track: artist and title joined
// by a single space, trimmed, with whitespace runs collapsed.
func (t Track) Query() string {
	return collapse(t.Artist + " " + t.Title)
}

// AdjustedQuery returns a relaxed search query with one parenthesized or
// bracketed span stripped from the artist and from the title, dropping
// annotations like "(feat. X)" or "[Remastered]". Callers must not queue
// a retry when the adjusted query equals [Track.Query].
func (t Track) AdjustedQuery() string {
	artist := bracketsRE.ReplaceAllString(t.Artist, "")
	title := bracketsRE.ReplaceAllString(t.Title, "")
	return collapse(artist + " " + title)
}

func collapse(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

var jaro = metrics.NewJaro()

// Similarity scores how well other matches t.
//
// Artist, album, and title contribute case-folded Jaro similarity with
// weights 2/1/2; the squared duration term carries weight 5 since
// duration is the strongest disambiguator between same-named covers and
// remixes. The result is NaN when both durations are zero; ranking code
// sorts NaN last instead of rejecting it.
func (t Track) Similarity(other Track) float64 {
	artistSim := strutil.Similarity(strings.ToLower(t.Artist), strings.ToLower(other.Artist), jaro)
	albumSim := strutil.Similarity(strings.ToLower(t.Album), strings.ToLower(other.Album), jaro)
	titleSim := strutil.Similarity(strings.ToLower(t.Title), strings.ToLower(other.Title), jaro)

	durationSim := 1 - float64(2*abs(t.Duration-other.Duration))/float64(t.Duration+other.Duration)
	durationSim = math.Pow(durationSim, 2)

	return (artistSim*2 + albumSim + titleSim*2 + durationSim*5) / 10
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
