package playlist

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/diamondburned/muselist/internal/durafmt"
)

// UnknownArtist is the artist given to tracks without one.
const UnknownArtist = "Unknown Artist"

type Track struct {
	ID     string
	Title  string
	Artist string
	Album  string
	Number int
	// Length is 0 until known.
	Length time.Duration
	// Source is the source handle URL the playback engine loads.
	Source   string
	Favorite bool
}

func (t *Track) String() string {
	return fmt.Sprintf("%s - %s (%s)", t.Artist, t.Title, durafmt.Format(t.Length))
}

// Draft is a track read from a file that has not been added to any playlist
// yet. It has no ID and no source handle.
type Draft struct {
	Title  string
	Artist string
	Album  string
	Number int
	Length time.Duration
	// Path is the local file backing the track.
	Path string
}

// NewDraft creates a draft with the title guessed from the path.
func NewDraft(path string) Draft {
	return Draft{
		Title:  TitleFromPath(path),
		Artist: UnknownArtist,
		Path:   path,
	}
}

// TitleFromPath returns the file name without its extension.
func TitleFromPath(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
