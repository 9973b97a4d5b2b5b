package mpris

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/diamondburned/muselist/internal/muse/playlist"
	"github.com/diamondburned/muselist/internal/state"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"
)

// Controls is the part of the playback cursor that MPRIS clients may drive.
// *state.State satisfies it.
type Controls interface {
	Next() (*playlist.Track, error)
	Previous() (*playlist.Track, error)
	SetPlaying(playing bool) error
	TogglePlayPause() error
	Stop()
	Elapsed() float64
	SetVolume(volume int) int
	SetShuffling(shuffling bool)
	SetRepeatMode(mode state.RepeatMode)
}

// Seeker seeks within the loaded track. *muse.Session satisfies it.
type Seeker interface {
	Seek(pos float64) error
}

type microsecond = int64

func secondsToMicroseconds(secs float64) microsecond {
	const us = float64(time.Second / time.Microsecond)
	return int64(math.Round(secs * us))
}

func microsecondsToSeconds(usec microsecond) float64 {
	const us = float64(time.Second / time.Microsecond)
	return float64(usec) / us
}

func trackID(trackIx int) dbus.ObjectPath {
	if trackIx < 0 {
		return dbus.ObjectPath("/org/mpris/MediaPlayer2/TrackList/NoTrack")
	}
	const trackIDfmt = tracksPath + "/%d"
	return dbus.ObjectPath(fmt.Sprintf(trackIDfmt, trackIx))
}

var loopStatuses = map[state.RepeatMode]string{
	state.RepeatNone:   "None",
	state.RepeatSingle: "Track",
	state.RepeatAll:    "Playlist",
}

func loopStatus(mode state.RepeatMode) string {
	return loopStatuses[mode]
}

func repeatMode(status string) (state.RepeatMode, bool) {
	for mode, s := range loopStatuses {
		if s == status {
			return mode, true
		}
	}
	return 0, false
}

type player struct {
	controls Controls
	seeker   Seeker
	dispatch func(func())

	propQ chan propChange
	stop  chan struct{}

	// trackID is only touched from dispatched functions.
	trackID dbus.ObjectPath
}

type propChange struct {
	n string
	v interface{}
}

func newPlayer(controls Controls, seeker Seeker, dispatch func(func())) *player {
	return &player{
		controls: controls,
		seeker:   seeker,
		dispatch: dispatch,
		propQ:    make(chan propChange, 10),
		stop:     make(chan struct{}),
		trackID:  trackID(-1),
	}
}

// start sends queued property changes until the player is destroyed.
func (p *player) start(props *prop.Properties) {
	go func() {
		for {
			select {
			case <-p.stop:
				return
			case send := <-p.propQ:
				// SetMust skips the change callbacks.
				props.SetMust(playerID, send.n, send.v)
			}
		}
	}()
}

// Destroy stops background workers.
func (p *player) Destroy() {
	close(p.stop)
}

// sendProp queues the prop to be sent through DBus. It pops off the first item
// of the queue if it's full.
func (p *player) sendProp(n string, v interface{}) {
	prop := propChange{n, v}

	for {
		select {
		case <-p.stop:
			return
		case p.propQ <- prop:
			return
		default:
			log.Println("Warning: prop send buffer overflow.")

			// Try and pop the earliest prop out.
			select {
			case <-p.propQ:
			default:
			}
		}
	}
}

var noTrackMetadata = map[string]interface{}{
	"mpris:trackid": trackID(-1),
}

func trackMetadata(id dbus.ObjectPath, track *playlist.Track) map[string]interface{} {
	return map[string]interface{}{
		"mpris:trackid":     id,
		"mpris:length":      track.Length.Microseconds(),
		"xesam:title":       track.Title,
		"xesam:album":       track.Album,
		"xesam:artist":      []string{track.Artist},
		"xesam:trackNumber": int32(track.Number),
		"xesam:url":         track.Source,
	}
}

func playbackStatus(c *state.Cursor) string {
	switch _, track := c.NowPlaying(); {
	case track == nil:
		return "Stopped"
	case c.IsPlaying():
		return "Playing"
	default:
		return "Paused"
	}
}

func (p *player) sendPlaying(c *state.Cursor) {
	i, track := c.NowPlaying()
	p.trackID = trackID(i)

	if track == nil {
		p.sendProp("Metadata", noTrackMetadata)
	} else {
		p.sendProp("Metadata", trackMetadata(p.trackID, track))
	}

	p.sendProp("PlaybackStatus", playbackStatus(c))
	p.sendProp("Position", secondsToMicroseconds(c.Elapsed()))
	p.sendProp("Volume", float64(c.EffectiveVolume())/100)
	p.sendProp("Shuffle", c.IsShuffling())
	p.sendProp("LoopStatus", loopStatus(c.RepeatMode()))
}

// Property write callbacks. These run on the DBus goroutine.

func (p *player) onVolume(c *prop.Change) *dbus.Error {
	v, ok := c.Value.(float64)
	if !ok {
		return dbus.MakeFailedError(fmt.Errorf("invalid volume %v", c.Value))
	}

	volume := int(math.Round(v * 100))
	p.dispatch(func() { p.controls.SetVolume(volume) })
	return nil
}

func (p *player) onShuffle(c *prop.Change) *dbus.Error {
	shuffle, ok := c.Value.(bool)
	if !ok {
		return dbus.MakeFailedError(fmt.Errorf("invalid shuffle %v", c.Value))
	}

	p.dispatch(func() { p.controls.SetShuffling(shuffle) })
	return nil
}

func (p *player) onLoopStatus(c *prop.Change) *dbus.Error {
	status, _ := c.Value.(string)

	mode, ok := repeatMode(status)
	if !ok {
		return dbus.MakeFailedError(fmt.Errorf("invalid loop status %q", status))
	}

	p.dispatch(func() { p.controls.SetRepeatMode(mode) })
	return nil
}

// DBus methods.

// do runs fn through dispatch and logs its error, if any. Errors from the
// cursor have already been shown to the user.
func (p *player) do(name string, fn func() error) *dbus.Error {
	p.dispatch(func() {
		if err := fn(); err != nil {
			log.Printf("MPRIS %s failed: %v", name, err)
		}
	})
	return nil
}

func (p *player) Next() *dbus.Error {
	return p.do("Next", func() error {
		_, err := p.controls.Next()
		return err
	})
}

func (p *player) Previous() *dbus.Error {
	return p.do("Previous", func() error {
		_, err := p.controls.Previous()
		return err
	})
}

func (p *player) Pause() *dbus.Error {
	return p.do("Pause", func() error { return p.controls.SetPlaying(false) })
}

func (p *player) Play() *dbus.Error {
	return p.do("Play", func() error { return p.controls.SetPlaying(true) })
}

func (p *player) PlayPause() *dbus.Error {
	return p.do("PlayPause", p.controls.TogglePlayPause)
}

func (p *player) Stop() *dbus.Error {
	p.dispatch(p.controls.Stop)
	return nil
}

func (p *player) Seek(us microsecond) *dbus.Error {
	if p.seeker == nil {
		return errUnimplemented
	}

	return p.do("Seek", func() error {
		pos := p.controls.Elapsed() + microsecondsToSeconds(us)
		if pos < 0 {
			pos = 0
		}
		return p.seeker.Seek(pos)
	})
}

func (p *player) SetPosition(id dbus.ObjectPath, us microsecond) *dbus.Error {
	if p.seeker == nil {
		return errUnimplemented
	}

	return p.do("SetPosition", func() error {
		// Ignore stale track IDs.
		if p.trackID != id {
			return nil
		}
		return p.seeker.Seek(microsecondsToSeconds(us))
	})
}

func (p *player) OpenUri(string) *dbus.Error {
	return errUnimplemented
}
