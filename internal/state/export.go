package state

import (
	"fmt"
	"io"

	"github.com/diamondburned/muselist/internal/muse/playlist"
	"github.com/diamondburned/muselist/internal/muse/playlist/json"

	_ "github.com/diamondburned/muselist/internal/muse/playlist/audpl"
	_ "github.com/diamondburned/muselist/internal/muse/playlist/m3u"
)

// DefaultExportExt is the export format used when none is given.
const DefaultExportExt = json.Ext

// Export returns a snapshot of the playlist for writing out. The snapshot does
// not share tracks with the store.
func (s *Store) Export(playlistID string) (*playlist.Playlist, error) {
	snapshot, err := s.export(playlistID)
	if err != nil {
		return nil, err
	}

	s.exported(snapshot.Name)
	return snapshot, nil
}

// ExportTo writes the playlist into w in the format registered for fileExt
// and returns the file name the export should be saved as.
func (s *Store) ExportTo(w io.Writer, playlistID, fileExt string) (string, error) {
	if fileExt == "" {
		fileExt = DefaultExportExt
	}

	snapshot, err := s.export(playlistID)
	if err != nil {
		return "", err
	}

	if err := playlist.Write(w, fileExt, snapshot); err != nil {
		return "", s.fail("export_playlist", "Cannot export playlist", err)
	}

	s.exported(snapshot.Name)
	return playlist.Filename(snapshot.Name, fileExt), nil
}

func (s *Store) export(playlistID string) (*playlist.Playlist, error) {
	pl, ok := s.byID[playlistID]
	if !ok {
		return nil, s.fail("export_playlist", "Cannot export playlist", playlistNotFound(playlistID))
	}

	return pl.Copy(), nil
}

func (s *Store) exported(name string) {
	s.succeed("export_playlist")
	s.notify(Success, "Playlist exported!", fmt.Sprintf("%q was downloaded.", name))
}
