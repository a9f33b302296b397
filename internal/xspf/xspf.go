// package xspf parses and serializes XSPF playlist documents.
//
// Parsing uses encoding/xml and tolerates missing fields. Serialization
// emits the fixed document frame with one <track> block per track in
// input order, writing only the fields a track actually has.
package xspf

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/dfaust/spotify-playlist-importer/internal/models"
	"github.com/dfaust/spotify-playlist-importer/internal/shared"
)

// Playlist is a parsed XSPF document.
type Playlist struct {
	Title      string
	Annotation string
	Tracks     []models.Track
}

type document struct {
	XMLName    xml.Name       `xml:"playlist"`
	Title      string         `xml:"title"`
	Annotation string         `xml:"annotation"`
	Tracks     []trackElement `xml:"trackList>track"`
}

type trackElement struct {
	Location   string `xml:"location"`
	Identifier string `xml:"identifier"`
	Title      string `xml:"title"`
	Creator    string `xml:"creator"`
	Annotation string `xml:"annotation"`
	Info       string `xml:"info"`
	Album      string `xml:"album"`
	TrackNum   int    `xml:"trackNum"`
	Duration   int    `xml:"duration"`
}

// Parse decodes an XSPF document. A document that fails to decode is a
// fatal error for the load attempt; there is no partial recovery.
func Parse(data []byte) (*Playlist, error) {
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidPlaylist, err)
	}

	playlist := &Playlist{
		Title:      doc.Title,
		Annotation: doc.Annotation,
		Tracks:     make([]models.Track, 0, len(doc.Tracks)),
	}
	for _, el := range doc.Tracks {
		playlist.Tracks = append(playlist.Tracks, models.Track{
			Location:    el.Location,
			Identifier:  el.Identifier,
			Title:       el.Title,
			Artist:      el.Creator,
			Annotation:  el.Annotation,
			Info:        el.Info,
			Album:       el.Album,
			TrackNumber: el.TrackNum,
			Duration:    el.Duration,
		})
	}

	return playlist, nil
}

const (
	header = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<playlist version=\"1\" xmlns=\"http://xspf.org/ns/0/\">\n"
	footer = "  </trackList>\n</playlist>"
)

// Serialize renders the playlist as an XSPF document.
func (p *Playlist) Serialize() []byte {
	var buf bytes.Buffer
	buf.WriteString(header)
	if p.Title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escape(p.Title))
	}
	if p.Annotation != "" {
		fmt.Fprintf(&buf, "  <annotation>%s</annotation>\n", escape(p.Annotation))
	}
	buf.WriteString("  <trackList>\n")

	for _, track := range p.Tracks {
		buf.WriteString("    <track>\n")
		writeElement(&buf, "location", track.Location)
		writeElement(&buf, "identifier", track.Identifier)
		writeElement(&buf, "title", track.Title)
		writeElement(&buf, "creator", track.Artist)
		writeElement(&buf, "annotation", track.Annotation)
		writeElement(&buf, "info", track.Info)
		writeElement(&buf, "album", track.Album)
		if track.TrackNumber != 0 {
			writeElement(&buf, "trackNum", fmt.Sprintf("%d", track.TrackNumber))
		}
		if track.Duration != 0 {
			writeElement(&buf, "duration", fmt.Sprintf("%d", track.Duration))
		}
		buf.WriteString("    </track>\n")
	}

	buf.WriteString(footer)
	return buf.Bytes()
}

func writeElement(buf *bytes.Buffer, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(buf, "      <%s>%s</%s>\n", name, escape(value), name)
}

func escape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
