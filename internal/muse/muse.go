package muse

import (
	"os/exec"
	"strings"

	"github.com/DexterLB/mpvipc"
	"github.com/pkg/errors"
)

// Resolver resolves a track source URL into something mpv can open.
type Resolver interface {
	Resolve(url string) (string, error)
}

// Session is a running mpv process controlled over its IPC socket. It plays
// one source at a time; the caller decides what comes next.
type Session struct {
	Playback *mpvipc.Connection
	Command  *exec.Cmd
	mpvRead  *mpvReader

	sources  Resolver
	handler  EventHandler
	dispatch func(func())

	socketPath string
}

// NewSession starts mpv. Sources given to Load are resolved through sources.
func NewSession(sources Resolver) (*Session, error) {
	return newMpv(sources)
}

// Load replaces whatever is loaded with the given source. Playback stays paused
// until SetPlay is called.
func (s *Session) Load(source string) error {
	path, err := s.sources.Resolve(source)
	if err != nil {
		return errors.Wrap(err, "failed to resolve source")
	}

	if _, err := s.Playback.Call("loadfile", path, "replace"); err != nil {
		return errors.Wrapf(err, "failed to load %q", path)
	}

	return nil
}

// Stop unloads the current file.
func (s *Session) Stop() error {
	_, err := s.Playback.Call("stop")
	return err
}

func (s *Session) Seek(pos float64) error {
	return s.Playback.Set("time-pos", pos)
}

func (s *Session) SetPlay(playing bool) error {
	return s.Playback.Set("pause", !playing)
}

func (s *Session) SetVolume(volume int) error {
	return s.Playback.Set("volume", volume)
}

func (s *Session) SetMute(mute bool) error {
	return s.Playback.Set("mute", mute)
}

type batchErrors []error

func makeBatchErrors(errs ...error) error {
	var nonNils = errs[:0]
	for _, err := range errs {
		if err != nil {
			nonNils = append(nonNils, err)
		}
	}

	if len(nonNils) == 0 {
		return nil
	}

	return batchErrors(nonNils)
}

func (b batchErrors) Error() string {
	var errors = make([]string, len(b))
	for i, err := range b {
		errors[i] = err.Error()
	}

	// English moment.
	return strings.Join(errors, ", and ")
}
