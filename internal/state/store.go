package state

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/diamondburned/muselist/internal/importer"
	"github.com/diamondburned/muselist/internal/muse/playlist"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Store owns the playlists and the selected playlist. Every playlist and track
// mutation goes through it.
type Store struct {
	cfg    *Config
	cursor *Cursor

	playlists []*playlist.Playlist
	byID      map[string]*playlist.Playlist
	selected  *playlist.Playlist

	// usedIDs keeps every ID ever handed out so that IDs are never reused
	// within the process.
	usedIDs map[string]struct{}
}

func newStore(cfg *Config) *Store {
	return &Store{
		cfg:     cfg,
		byID:    make(map[string]*playlist.Playlist),
		usedIDs: make(map[string]struct{}),
	}
}

func (s *Store) newID() string {
	for i := 0; i < 100; i++ {
		id := s.cfg.NewID()
		if _, used := s.usedIDs[id]; !used && id != "" {
			s.usedIDs[id] = struct{}{}
			return id
		}
	}

	failIf(true, "ID generator keeps returning used IDs")
	return ""
}

func (s *Store) notify(kind NotificationKind, title, desc string) {
	s.cfg.Metrics.Notification(kind.String())
	s.cfg.Notifier.Notify(Notification{
		Kind:        kind,
		Title:       title,
		Description: desc,
	})
}

// fail records the failed operation, notifies the user and returns err.
func (s *Store) fail(op, title string, err error) error {
	s.cfg.Metrics.Operation(op, err)
	s.notify(Failure, title, err.Error())
	return err
}

func (s *Store) succeed(op string) {
	s.cfg.Metrics.Operation(op, nil)
}

func (s *Store) updateCounts() {
	if s.cfg.Metrics == nil {
		return
	}

	var tracks int
	for _, pl := range s.playlists {
		tracks += len(pl.Tracks)
	}

	s.cfg.Metrics.SetCounts(len(s.playlists), tracks)
}

// Playlists returns all playlists in creation order.
func (s *Store) Playlists() []*playlist.Playlist {
	return append([]*playlist.Playlist(nil), s.playlists...)
}

// Playlist returns a playlist, or nil if none. It also returns a boolean to
// indicate.
func (s *Store) Playlist(id string) (*playlist.Playlist, bool) {
	pl, ok := s.byID[id]
	return pl, ok
}

// Selected returns the selected playlist, or nil if none.
func (s *Store) Selected() *playlist.Playlist {
	return s.selected
}

// CreatePlaylist creates an empty playlist and selects it. The name must not
// be blank.
func (s *Store) CreatePlaylist(name string) (*playlist.Playlist, error) {
	const op = "create_playlist"

	if strings.TrimSpace(name) == "" {
		err := &ValidationError{Field: "playlist name", Reason: "must not be empty"}
		s.cfg.Metrics.Operation(op, err)
		s.notify(Failure, "Error!", "Enter a playlist name.")
		return nil, err
	}

	pl := playlist.New(s.newID(), name, s.cfg.Now())

	s.playlists = append(s.playlists, pl)
	s.byID[pl.ID] = pl
	s.selectPlaylist(pl)

	s.succeed(op)
	s.updateCounts()
	s.notify(Success, "Playlist created!", fmt.Sprintf("%q was created successfully.", name))

	return pl, nil
}

// SelectPlaylist selects the playlist with the given ID. If the current track
// belongs to another playlist, playback stops and the current track is
// cleared.
func (s *Store) SelectPlaylist(id string) error {
	const op = "select_playlist"

	pl, ok := s.byID[id]
	if !ok {
		return s.fail(op, "Cannot select playlist", playlistNotFound(id))
	}

	s.selectPlaylist(pl)
	s.succeed(op)
	return nil
}

func (s *Store) selectPlaylist(pl *playlist.Playlist) {
	if s.selected == pl {
		return
	}

	s.selected = pl
	s.cursor.playlistSelected(pl)
}

// DeletePlaylist deletes the playlist and releases the sources of all its
// tracks.
func (s *Store) DeletePlaylist(id string) error {
	const op = "delete_playlist"

	pl, ok := s.byID[id]
	if !ok {
		return s.fail(op, "Cannot delete playlist", playlistNotFound(id))
	}

	for i, p := range s.playlists {
		if p == pl {
			s.playlists = append(s.playlists[:i], s.playlists[i+1:]...)
			break
		}
	}

	delete(s.byID, id)

	s.cursor.playlistDeleted(pl)
	if s.selected == pl {
		s.selected = nil
	}

	for _, track := range pl.Tracks {
		s.cfg.Sources.Release(track.Source)
	}

	s.succeed(op)
	s.updateCounts()
	s.notify(Success, "Playlist deleted!", fmt.Sprintf("%q was deleted.", pl.Name))

	return nil
}

// AddTracks appends the drafts to the playlist in order, acquiring a source
// handle for each.
func (s *Store) AddTracks(playlistID string, drafts ...playlist.Draft) ([]*playlist.Track, error) {
	const op = "add_tracks"

	pl, ok := s.byID[playlistID]
	if !ok {
		return nil, s.fail(op, "Cannot add tracks", playlistNotFound(playlistID))
	}

	if len(drafts) == 0 {
		return nil, nil
	}

	tracks := make([]*playlist.Track, len(drafts))
	for i, draft := range drafts {
		tracks[i] = &playlist.Track{
			ID:     s.newID(),
			Title:  draft.Title,
			Artist: draft.Artist,
			Album:  draft.Album,
			Number: draft.Number,
			Length: draft.Length,
			Source: s.cfg.Sources.Acquire(draft.Path),
		}
	}

	pl.Append(tracks...)
	s.cursor.playlistChanged(pl)

	s.succeed(op)
	s.updateCounts()
	s.notify(Success, "Tracks added!", "New tracks were added to the playlist.")

	return tracks, nil
}

// ImportFiles imports the audio files among files into the playlist. Files
// that are not audio are skipped.
func (s *Store) ImportFiles(
	ctx context.Context, playlistID string, files []importer.File) ([]*playlist.Track, error) {

	if _, ok := s.byID[playlistID]; !ok {
		return nil, s.fail("add_tracks", "Cannot add tracks", playlistNotFound(playlistID))
	}

	drafts, skipped, err := importer.Import(ctx, files)
	if err != nil {
		return nil, s.fail("add_tracks", "Cannot add tracks", err)
	}

	for _, file := range skipped {
		log.Printf("Skipping non-audio file %q (%s)", file.Name, file.Type())
	}

	return s.AddTracks(playlistID, drafts...)
}

// RemoveTrack removes the track from the playlist and releases its source. If
// the track is the current track, playback stops and the current track is
// cleared.
func (s *Store) RemoveTrack(playlistID, trackID string) error {
	const op = "remove_track"

	pl, ok := s.byID[playlistID]
	if !ok {
		return s.fail(op, "Cannot remove track", playlistNotFound(playlistID))
	}

	ix := pl.Index(trackID)
	if ix < 0 {
		return s.fail(op, "Cannot remove track", trackNotFound(trackID))
	}

	track := pl.Tracks[ix]
	pl.Remove(ix)

	s.cursor.trackRemoved(pl, track.ID, ix)
	s.cfg.Sources.Release(track.Source)

	s.succeed(op)
	s.updateCounts()
	s.notify(Success, "Track removed!", "The track was removed from the playlist.")

	return nil
}

func (s *Store) track(playlistID, trackID string) (*playlist.Playlist, *playlist.Track, error) {
	pl, ok := s.byID[playlistID]
	if !ok {
		return nil, nil, playlistNotFound(playlistID)
	}

	track, ok := pl.Track(trackID)
	if !ok {
		return nil, nil, trackNotFound(trackID)
	}

	return pl, track, nil
}

// ToggleFavorite flips the track's favorite flag and returns the new value.
// The cursor resolves its current track from the store, so both always agree.
func (s *Store) ToggleFavorite(playlistID, trackID string) (bool, error) {
	const op = "toggle_favorite"

	_, track, err := s.track(playlistID, trackID)
	if err != nil {
		return false, s.fail(op, "Cannot change favorite", err)
	}

	track.Favorite = !track.Favorite

	if s.cursor.isCurrent(track.ID) {
		s.cursor.update()
	}

	s.succeed(op)
	return track.Favorite, nil
}

// SetTrackLength records the track's duration once the playback engine knows
// it.
func (s *Store) SetTrackLength(playlistID, trackID string, length time.Duration) error {
	_, track, err := s.track(playlistID, trackID)
	if err != nil {
		return err
	}

	if track.Length != length {
		track.Length = length

		if s.cursor.isCurrent(track.ID) {
			s.cursor.update()
		}
	}

	return nil
}

// Search returns the playlist's tracks whose title or artist fuzzily match the
// query, best match first. An empty query matches every track.
func (s *Store) Search(playlistID, query string) ([]*playlist.Track, error) {
	pl, ok := s.byID[playlistID]
	if !ok {
		return nil, playlistNotFound(playlistID)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return append([]*playlist.Track(nil), pl.Tracks...), nil
	}

	type match struct {
		track *playlist.Track
		rank  int
	}

	var matches []match

	for _, track := range pl.Tracks {
		rank := bestRank(query, track.Title, track.Artist, track.Title+" "+track.Artist)
		if rank > -1 {
			matches = append(matches, match{track, rank})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].rank < matches[j].rank
	})

	tracks := make([]*playlist.Track, len(matches))
	for i, m := range matches {
		tracks[i] = m.track
	}

	return tracks, nil
}

// bestRank returns the lowest fuzzy distance of query across targets, or -1
// if none match.
func bestRank(query string, targets ...string) int {
	best := -1
	for _, target := range targets {
		rank := fuzzy.RankMatchFold(query, target)
		if rank > -1 && (best == -1 || rank < best) {
			best = rank
		}
	}
	return best
}

// Close stops playback and releases every source handle. The store must not be
// used afterwards.
func (s *Store) Close() {
	s.cursor.clear()

	if n := s.cfg.Sources.ReleaseAll(); n > 0 {
		log.Printf("Released %d source handles", n)
	}
}
