package state

import (
	"log"
	"time"

	"github.com/diamondburned/muselist/internal/muse/playlist"
)

// Cursor tracks playback intent and position. It holds the IDs of the current
// track and its playlist rather than copies; track data is always resolved
// from the store.
type Cursor struct {
	store *Store

	// onUpdate is called when the playing track or playback state changes.
	onUpdate func(c *Cursor)

	current struct {
		Playlist *playlist.Playlist
		TrackID  string
	}

	// queue is the play order over the selected playlist; it holds indices
	// into its tracks and is shuffled while shuffling.
	queue []int

	playing   bool
	elapsed   float64 // seconds
	volume    int
	muted     bool
	shuffling bool
	repeating RepeatMode

	// stopped is true when the engine has nothing loaded for the current
	// track, so resuming has to load it again.
	stopped bool
}

func newCursor(store *Store) *Cursor {
	return &Cursor{
		store:    store,
		onUpdate: func(*Cursor) {},
		volume:   *store.cfg.Volume,
	}
}

// OnUpdate adds into the call stack a callback that is triggered when the
// cursor is changed. Elapsed time updates do not trigger it.
func (c *Cursor) OnUpdate(fn func(*Cursor)) {
	old := c.onUpdate
	c.onUpdate = func(c *Cursor) {
		old(c)
		fn(c)
	}
}

func (c *Cursor) update() {
	c.onUpdate(c)
}

func (c *Cursor) player() Player {
	return c.store.cfg.Player
}

func (c *Cursor) report(err error) {
	if err != nil {
		log.Println("player error:", err)
	}
}

func (c *Cursor) isCurrent(trackID string) bool {
	return c.current.Playlist != nil && c.current.TrackID == trackID
}

// NowPlaying returns the current track and its index in the selected playlist.
// If there is no current track, then this method returns (-1, nil).
func (c *Cursor) NowPlaying() (int, *playlist.Track) {
	if c.current.Playlist == nil {
		return -1, nil
	}

	ix := c.current.Playlist.Index(c.current.TrackID)
	failIf(ix < 0, "current track is not in its playlist")

	return ix, c.current.Playlist.Tracks[ix]
}

// IsPlaying returns true if a track is playing and not paused.
func (c *Cursor) IsPlaying() bool {
	return c.playing
}

// Elapsed returns the elapsed time of the current track in seconds.
func (c *Cursor) Elapsed() float64 {
	return c.elapsed
}

// Progress returns the elapsed time as a percentage of the current track's
// length, or 0 if the length is unknown.
func (c *Cursor) Progress() float64 {
	_, track := c.NowPlaying()
	if track == nil || track.Length <= 0 {
		return 0
	}

	p := c.elapsed / track.Length.Seconds() * 100
	if p > 100 {
		return 100
	}
	return p
}

// Volume returns the stored volume, which is unaffected by muting.
func (c *Cursor) Volume() int {
	return c.volume
}

func (c *Cursor) Muted() bool {
	return c.muted
}

// EffectiveVolume returns the volume that is actually heard.
func (c *Cursor) EffectiveVolume() int {
	if c.muted {
		return 0
	}
	return c.volume
}

// IsShuffling returns true if the list is being shuffled.
func (c *Cursor) IsShuffling() bool {
	return c.shuffling
}

// RepeatMode returns the current repeat mode.
func (c *Cursor) RepeatMode() RepeatMode {
	return c.repeating
}

func (c *Cursor) fail(op, reason string) error {
	err := &InvalidStateError{Op: op, Reason: reason}
	return c.store.fail(op, "Playback error", err)
}

// Play makes the track the current track and starts playing it from the
// start. The track must be in the selected playlist.
func (c *Cursor) Play(track *playlist.Track) error {
	if track == nil {
		return c.fail("play", "no track given")
	}

	sel := c.store.selected
	if sel == nil {
		return c.fail("play", "no playlist selected")
	}

	t, ok := sel.Track(track.ID)
	if !ok {
		return c.store.fail("play", "Playback error", trackNotFound(track.ID))
	}

	c.play(sel, t)
	c.store.succeed("play")
	return nil
}

func (c *Cursor) play(pl *playlist.Playlist, track *playlist.Track) {
	// Detach the old source before attaching the new one.
	if c.current.Playlist != nil {
		c.report(c.player().Stop())
	}

	c.current.Playlist = pl
	c.current.TrackID = track.ID
	c.playing = true
	c.stopped = false
	c.elapsed = 0

	c.report(c.player().Load(track.Source))
	c.report(c.player().SetPlay(true))

	c.update()
}

// TogglePlayPause pauses if playing and resumes if paused.
func (c *Cursor) TogglePlayPause() error {
	return c.setPlaying("toggle_play_pause", !c.playing)
}

// SetPlaying resumes or pauses the current track.
func (c *Cursor) SetPlaying(playing bool) error {
	return c.setPlaying("set_playing", playing)
}

func (c *Cursor) setPlaying(op string, playing bool) error {
	if c.current.Playlist == nil {
		return c.fail(op, "no current track")
	}

	if c.playing != playing {
		if playing && c.stopped {
			_, track := c.NowPlaying()
			c.report(c.player().Load(track.Source))
			c.stopped = false
		}

		c.playing = playing
		c.report(c.player().SetPlay(playing))
		c.update()
	}

	c.store.succeed(op)
	return nil
}

// Stop stops playback and rewinds, keeping the current track.
func (c *Cursor) Stop() {
	if c.current.Playlist == nil {
		return
	}

	c.report(c.player().Stop())
	c.playing = false
	c.stopped = true
	c.elapsed = 0
	c.update()
}

// clear stops playback and drops the current track.
func (c *Cursor) clear() {
	if c.current.Playlist == nil {
		return
	}

	c.report(c.player().Stop())
	c.current.Playlist = nil
	c.current.TrackID = ""
	c.playing = false
	c.stopped = false
	c.elapsed = 0
	c.update()
}

// Next plays the next track in the selected playlist, wrapping around after
// the last one. Repeat mode does not apply; see AutoNext.
func (c *Cursor) Next() (*playlist.Track, error) {
	return c.skip("next", true)
}

// Previous plays the previous track in the selected playlist, wrapping around
// before the first one.
func (c *Cursor) Previous() (*playlist.Track, error) {
	return c.skip("previous", false)
}

func (c *Cursor) skip(op string, forward bool) (*playlist.Track, error) {
	ix, _, err := c.position(op)
	if err != nil {
		return nil, err
	}

	next, _ := c.peek(forward, ix)
	track := c.store.selected.Tracks[next]

	c.play(c.store.selected, track)
	c.store.succeed(op)
	return track, nil
}

// AutoNext advances after the current track finished, honoring the repeat
// mode: RepeatSingle replays the track, RepeatAll wraps around after the last
// track and RepeatNone stops there. It returns the track that is now playing,
// or nil if playback stopped.
func (c *Cursor) AutoNext() (*playlist.Track, error) {
	const op = "auto_next"

	ix, track, err := c.position(op)
	if err != nil {
		return nil, err
	}

	if c.repeating == RepeatSingle {
		c.play(c.store.selected, track)
		c.store.succeed(op)
		return track, nil
	}

	next, oob := c.peek(true, ix)
	if oob && c.repeating == RepeatNone {
		c.Stop()
		c.store.succeed(op)
		return nil, nil
	}

	track = c.store.selected.Tracks[next]
	c.play(c.store.selected, track)
	c.store.succeed(op)
	return track, nil
}

// position returns the current track and its index in the selected playlist.
func (c *Cursor) position(op string) (int, *playlist.Track, error) {
	if c.current.Playlist == nil {
		return -1, nil, c.fail(op, "no current track")
	}
	if c.store.selected == nil {
		return -1, nil, c.fail(op, "no playlist selected")
	}

	ix := c.store.selected.Index(c.current.TrackID)
	failIf(ix < 0, "current track is not in the selected playlist")

	return ix, c.store.selected.Tracks[ix], nil
}

// peek returns the index of the track after (or before) the track at ix in
// play order, and whether the order wrapped around.
func (c *Cursor) peek(forward bool, ix int) (int, bool) {
	c.ensureQueue()

	if !c.shuffling {
		return spinIndex(forward, ix, len(c.queue))
	}

	pos := 0
	for i, qix := range c.queue {
		if qix == ix {
			pos = i
			break
		}
	}

	next, oob := spinIndex(forward, pos, len(c.queue))
	return c.queue[next], oob
}

// spinIndex spins the index. It returns the newly spun index and whether it was
// spun back.
func spinIndex(fwd bool, i, max int) (int, bool) {
	if fwd {
		i++

		if i >= max {
			return 0, true
		}
	} else {
		i--

		if i < 0 {
			return max - 1, true
		}
	}

	return i, false
}

// ensureQueue rebuilds the queue if it is out of sync with the selected
// playlist.
func (c *Cursor) ensureQueue() {
	if c.store.selected == nil {
		c.queue = nil
		return
	}

	if len(c.queue) != len(c.store.selected.Tracks) {
		c.reloadQueue()
	}
}

// reloadQueue reloads the play queue for the selected playlist. It is called
// when the playlist's track slice is changed.
func (c *Cursor) reloadQueue() {
	if c.store.selected == nil {
		c.queue = nil
		return
	}

	if newlen := len(c.store.selected.Tracks); newlen != len(c.queue) {
		c.queue = make([]int, newlen)
	}

	playlist.ResetQueue(c.queue)

	// Restore shuffling.
	if c.shuffling {
		playlist.ShuffleQueue(c.store.cfg.Rand, c.queue)
	}
}

// SetVolume sets the volume clamped to [0, 100] and returns the stored value.
// The mute state is untouched.
func (c *Cursor) SetVolume(volume int) int {
	volume = clampVolume(volume)
	if c.volume == volume {
		return volume
	}

	c.volume = volume
	c.report(c.player().SetVolume(volume))
	c.update()

	return volume
}

func clampVolume(volume int) int {
	switch {
	case volume < 0:
		return 0
	case volume > 100:
		return 100
	default:
		return volume
	}
}

// ToggleMute flips the mute state without changing the stored volume and
// returns the new state.
func (c *Cursor) ToggleMute() bool {
	c.muted = !c.muted
	c.report(c.player().SetMute(c.muted))
	c.update()
	return c.muted
}

// CycleRepeatMode advances the repeat mode none, all, one, none and returns
// the new mode.
func (c *Cursor) CycleRepeatMode() RepeatMode {
	c.SetRepeatMode(c.repeating.Cycle())
	return c.repeating
}

// SetRepeatMode sets the current repeat mode.
func (c *Cursor) SetRepeatMode(mode RepeatMode) {
	if c.repeating == mode {
		return
	}

	c.repeating = mode
	c.update()
}

// ToggleShuffle flips the shuffling mode and returns the new mode.
func (c *Cursor) ToggleShuffle() bool {
	c.SetShuffling(!c.shuffling)
	return c.shuffling
}

// SetShuffling sets the shuffling mode. Turning it on draws a new play order.
func (c *Cursor) SetShuffling(shuffling bool) {
	// Do nothing if we're setting the same thing. Helps a bit w/ state
	// inconsistency.
	if c.shuffling == shuffling {
		return
	}

	c.shuffling = shuffling
	c.reloadQueue()
	c.update()
}

// OnTimeUpdate records the elapsed time reported by the playback engine. It
// is called at a high rate and does nothing else.
func (c *Cursor) OnTimeUpdate(elapsed float64) {
	c.elapsed = elapsed
}

// OnPauseUpdate syncs the playing flag with a pause the playback engine
// reported on its own. The engine is not told again.
func (c *Cursor) OnPauseUpdate(pause bool) {
	if c.current.Playlist == nil || c.stopped || c.playing == !pause {
		return
	}

	c.playing = !pause
	c.update()
}

// OnDurationUpdate stores the duration of the current track once the playback
// engine has read it.
func (c *Cursor) OnDurationUpdate(secs float64) {
	if c.current.Playlist == nil || secs <= 0 {
		return
	}

	length := time.Duration(secs * float64(time.Second))

	err := c.store.SetTrackLength(c.current.Playlist.ID, c.current.TrackID, length)
	if err != nil {
		log.Println("failed to record track length:", err)
	}
}

// OnSongFinish advances to the next track according to the repeat mode.
func (c *Cursor) OnSongFinish() {
	if _, err := c.AutoNext(); err != nil {
		log.Println("failed to advance after the song finished:", err)
	}
}

// playlistSelected is called after the selected playlist changed.
func (c *Cursor) playlistSelected(pl *playlist.Playlist) {
	if c.current.Playlist != nil && c.current.Playlist != pl {
		c.clear()
	}

	c.reloadQueue()
}

// playlistChanged is called after tracks were appended to pl.
func (c *Cursor) playlistChanged(pl *playlist.Playlist) {
	if pl != c.store.selected {
		return
	}

	old := len(c.queue)
	if old > len(pl.Tracks) {
		c.reloadQueue()
		return
	}

	for ix := old; ix < len(pl.Tracks); ix++ {
		c.queue = append(c.queue, ix)
	}

	// New tracks are queued after the current order.
	if c.shuffling {
		playlist.ShuffleQueue(c.store.cfg.Rand, c.queue[old:])
	}
}

// trackRemoved is called after the track at ix was removed from pl.
func (c *Cursor) trackRemoved(pl *playlist.Playlist, trackID string, ix int) {
	if c.current.Playlist == pl && c.current.TrackID == trackID {
		c.clear()
	}

	if pl != c.store.selected {
		return
	}

	queue := c.queue[:0]
	for _, qix := range c.queue {
		switch {
		case qix == ix:
			continue
		case qix > ix:
			qix--
		}
		queue = append(queue, qix)
	}
	c.queue = queue

	c.ensureQueue()
}

// playlistDeleted is called before the store forgets pl.
func (c *Cursor) playlistDeleted(pl *playlist.Playlist) {
	if c.current.Playlist == pl {
		c.clear()
	}

	if pl == c.store.selected {
		c.queue = nil
	}
}
