package state

import (
	"log"
	"math/rand"
	"time"

	"github.com/diamondburned/muselist/internal/metrics"
	"github.com/diamondburned/muselist/internal/muse/playlist"
	"github.com/diamondburned/muselist/internal/source"
	"github.com/google/uuid"
)

func failIf(b bool, e string) {
	if b {
		log.Panicln("BUG: assertion failed:", e)
	}
}

// Player is the playback engine. The state only tells it what to do; errors
// are logged and never roll the state back.
type Player interface {
	// Load detaches any previous source and attaches the given one.
	Load(source string) error
	SetPlay(playing bool) error
	// Stop detaches the current source.
	Stop() error
	SetVolume(volume int) error
	SetMute(mute bool) error
}

type nopPlayer struct{}

func (nopPlayer) Load(string) error   { return nil }
func (nopPlayer) SetPlay(bool) error  { return nil }
func (nopPlayer) Stop() error         { return nil }
func (nopPlayer) SetVolume(int) error { return nil }
func (nopPlayer) SetMute(bool) error  { return nil }

// DefaultVolume is the initial volume if Config.Volume is nil.
const DefaultVolume = 50

// Config configures a State. Every field is optional.
type Config struct {
	Player   Player
	Notifier Notifier
	Sources  *source.Registry
	Metrics  *metrics.Recorder

	// NewID generates playlist and track IDs.
	NewID func() string
	Now   func() time.Time
	// Rand is used for shuffling.
	Rand *rand.Rand
	// Volume is the initial volume. A nil Volume means DefaultVolume.
	Volume *int
}

func (c *Config) setDefaults() {
	if c.Player == nil {
		c.Player = nopPlayer{}
	}
	if c.Notifier == nil {
		c.Notifier = nopNotifier{}
	}
	if c.Sources == nil {
		c.Sources = source.NewRegistry()
	}
	if c.NewID == nil {
		c.NewID = uuid.NewString
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Rand == nil {
		c.Rand = playlist.NewRand()
	}
	volume := DefaultVolume
	if c.Volume != nil {
		volume = clampVolume(*c.Volume)
	}
	c.Volume = &volume
}

// State is the playlist store and the playback cursor sharing one
// configuration. It must only be used from a single goroutine.
type State struct {
	*Store
	*Cursor
}

func New(cfg Config) *State {
	cfg.setDefaults()

	store := newStore(&cfg)
	cursor := newCursor(store)
	store.cursor = cursor

	cfg.Sources.OnRelease(func(string) { cfg.Metrics.SourceReleased() })

	return &State{
		Store:  store,
		Cursor: cursor,
	}
}
