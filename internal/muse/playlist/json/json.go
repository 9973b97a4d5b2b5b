// Package json writes playlists as pretty-printed JSON. The JSON layout is
// the one the playlist export download has always used.
package json

import (
	"encoding/json"
	"io"
	"time"

	"github.com/diamondburned/muselist/internal/muse/playlist"
	"github.com/pkg/errors"
)

// Ext is the file extension of exported JSON playlists.
const Ext = ".json"

func init() {
	playlist.Register(Ext, Write)
}

// Playlist is the exported JSON playlist.
type Playlist struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Songs     []Track `json:"songs"`
	CreatedAt string  `json:"createdAt"`
}

// Track is a single exported song. Duration is in seconds.
type Track struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	Duration   float64 `json:"duration"`
	URL        string  `json:"url"`
	IsFavorite bool    `json:"isFavorite"`
}

// timeFormat is ISO 8601 in UTC with millisecond precision.
const timeFormat = "2006-01-02T15:04:05.000Z07:00"

// Convert converts the playlist into its JSON form.
func Convert(pl *playlist.Playlist) Playlist {
	jsonPl := Playlist{
		ID:        pl.ID,
		Name:      pl.Name,
		Songs:     make([]Track, len(pl.Tracks)),
		CreatedAt: pl.CreatedAt.UTC().Format(timeFormat),
	}

	for i, track := range pl.Tracks {
		jsonPl.Songs[i] = Track{
			ID:         track.ID,
			Title:      track.Title,
			Artist:     track.Artist,
			Duration:   track.Length.Round(time.Millisecond).Seconds(),
			URL:        track.Source,
			IsFavorite: track.Favorite,
		}
	}

	return jsonPl
}

func Write(w io.Writer, pl *playlist.Playlist) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if err := enc.Encode(Convert(pl)); err != nil {
		return errors.Wrap(err, "failed to encode playlist")
	}

	return nil
}
