package m3u

import (
	"bufio"
	"fmt"
	"io"

	"github.com/diamondburned/muselist/internal/muse/playlist"
	"github.com/pkg/errors"
	"github.com/ushis/m3u"
)

const Ext = ".m3u"

func init() {
	playlist.Register(Ext, Write)
}

// Convert converts the playlist into an extended M3U playlist. Track paths are
// the source handles.
func Convert(p *playlist.Playlist) m3u.Playlist {
	var plist = make(m3u.Playlist, len(p.Tracks))

	for i, track := range p.Tracks {
		plist[i] = m3u.Track{
			Title: fmt.Sprintf("%s - %s", track.Artist, track.Title),
			Path:  track.Source,
			Time:  int64(track.Length.Seconds()),
		}
	}

	return plist
}

func Write(w io.Writer, p *playlist.Playlist) error {
	plist := Convert(p)
	buf := bufio.NewWriter(w)

	if _, err := plist.WriteTo(buf); err != nil {
		return errors.Wrap(err, "failed to write playlist")
	}

	if err := buf.Flush(); err != nil {
		return errors.Wrap(err, "failed to flush")
	}

	return nil
}
