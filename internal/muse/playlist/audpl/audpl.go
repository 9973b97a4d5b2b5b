package audpl

import (
	"bufio"
	"io"
	"strconv"
	"time"

	"github.com/diamondburned/audpl"
	"github.com/diamondburned/muselist/internal/muse/playlist"
	"github.com/pkg/errors"
)

const Ext = ".audpl"

func init() {
	playlist.Register(Ext, Write)
}

// Convert converts the playlist into an Audacious playlist.
func Convert(p *playlist.Playlist) audpl.Playlist {
	plist := audpl.Playlist{
		Name:   p.Name,
		Tracks: make([]audpl.Track, len(p.Tracks)),
	}

	for i, track := range p.Tracks {
		plist.Tracks[i] = audpl.Track{
			Title:  track.Title,
			Artist: track.Artist,
			Album:  track.Album,
			Length: strconv.Itoa(int(track.Length / time.Millisecond)),
			URI:    track.Source,
		}

		if track.Number > 0 {
			plist.Tracks[i].TrackNumber = strconv.Itoa(track.Number)
		}
	}

	return plist
}

func Write(w io.Writer, p *playlist.Playlist) error {
	plist := Convert(p)
	buf := bufio.NewWriter(w)

	if err := plist.SaveTo(buf); err != nil {
		return errors.Wrap(err, "failed to write playlist")
	}

	if err := buf.Flush(); err != nil {
		return errors.Wrap(err, "failed to flush")
	}

	return nil
}
