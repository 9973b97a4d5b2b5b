package playlist

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrUnknownFormat is returned by Write if no writer is registered for the
// given extension.
var ErrUnknownFormat = errors.New("unknown format")

// PlaylistWriter writes the given playlist into w in a single format.
type PlaylistWriter func(w io.Writer, pl *Playlist) error

var playlistWriters = map[string]PlaylistWriter{}

// Register registers a writer for the given file extension, including the
// leading dot.
func Register(fileExt string, w PlaylistWriter) {
	playlistWriters[fileExt] = w
}

// SupportedExtensions returns the registered extensions in sorted order.
func SupportedExtensions() []string {
	var exts = make([]string, 0, len(playlistWriters))
	for ext := range playlistWriters {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Write writes pl into w using the writer registered for fileExt.
func Write(w io.Writer, fileExt string, pl *Playlist) error {
	fn, ok := playlistWriters[fileExt]
	if !ok {
		return errors.Wrapf(ErrUnknownFormat,
			"no writer for %q, supported: %s", fileExt, strings.Join(SupportedExtensions(), " "))
	}

	return fn(w, pl)
}

var slashesc = strings.NewReplacer("/", "∕", `\`, "⧵").Replace

// Filename returns the file name an exported playlist should be saved as.
func Filename(name, fileExt string) string {
	return fmt.Sprintf("%s-playlist%s", slashesc(name), fileExt)
}

type Playlist struct {
	ID        string
	Name      string
	Tracks    []*Track
	CreatedAt time.Time
}

// New creates a new empty playlist.
func New(id, name string, createdAt time.Time) *Playlist {
	return &Playlist{
		ID:        id,
		Name:      name,
		Tracks:    []*Track{},
		CreatedAt: createdAt,
	}
}

// Append appends the given tracks in order. The returned integers are the
// positions of the appended tracks.
func (pl *Playlist) Append(tracks ...*Track) (start, end int) {
	return pl.Insert(len(pl.Tracks)-1, false, tracks...)
}

// Insert inserts the given tracks into the playlist. If before is false, then
// the tracks are inserted after the index. If before is true, then the tracks
// are inserted before the index. The returned integers are the positions of
// the inserted tracks. If len(tracks) is 0, then ix is returned for both.
func (pl *Playlist) Insert(ix int, before bool, tracks ...*Track) (start, end int) {
	if len(tracks) == 0 {
		return ix, ix
	}

	if !before {
		ix++
	}

	// https://github.com/golang/go/wiki/SliceTricks
	pl.Tracks = append(pl.Tracks, make([]*Track, len(tracks))...)
	copy(pl.Tracks[ix+len(tracks):], pl.Tracks[ix:])
	copy(pl.Tracks[ix:], tracks)

	return ix, ix + len(tracks)
}

// Remove removes the tracks with the given indices. The function guarantees
// that the delete will never touch tracks that didn't have the given indices
// before removal; it does this by sorting the internal array of ixs.
func (pl *Playlist) Remove(ixs ...int) {
	if len(ixs) == 0 {
		return
	}

	// Sort indices from largest to smallest so we could pop the last track off
	// first to preserve order. The caller's slice is left alone.
	ixs = append([]int(nil), ixs...)
	sort.Sort(sort.Reverse(sort.IntSlice(ixs)))

	for _, ix := range ixs {
		// https://github.com/golang/go/wiki/SliceTricks
		copy(pl.Tracks[ix:], pl.Tracks[ix+1:])   // shift backwards
		pl.Tracks[len(pl.Tracks)-1] = nil        // nil last
		pl.Tracks = pl.Tracks[:len(pl.Tracks)-1] // omit last
	}
}

// Index returns the position of the track with the given ID, or -1.
func (pl *Playlist) Index(trackID string) int {
	for i, track := range pl.Tracks {
		if track.ID == trackID {
			return i
		}
	}
	return -1
}

// Track returns the track with the given ID.
func (pl *Playlist) Track(trackID string) (*Track, bool) {
	if ix := pl.Index(trackID); ix > -1 {
		return pl.Tracks[ix], true
	}
	return nil, false
}

// Copy returns a deep copy of the playlist. Modifying the copy's tracks does
// not affect the original.
func (pl *Playlist) Copy() *Playlist {
	cpy := *pl
	cpy.Tracks = make([]*Track, len(pl.Tracks))

	for i, track := range pl.Tracks {
		t := *track
		cpy.Tracks[i] = &t
	}

	return &cpy
}
