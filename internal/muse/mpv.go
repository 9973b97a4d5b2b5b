package muse

import (
	"context"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/DexterLB/mpvipc"
	"github.com/pkg/errors"
)

type mpvEvent uint

const (
	allEvent mpvEvent = iota
	pauseEvent
	timePositionEvent
	durationEvent
	audioDeviceEvent
)

var events = []string{
	"idle",
	"end-file",
}

var propertyMap = map[mpvEvent]string{
	pauseEvent:        "pause",
	timePositionEvent: "time-pos",
	durationEvent:     "duration",
	audioDeviceEvent:  "audio-device",
}

type mpvLineEvent uint

const (
	openFailedLine mpvLineEvent = iota
	audioOutputLine
)

var lineMatches = map[mpvLineEvent]*regexp.Regexp{
	openFailedLine:  regexp.MustCompile(`^(?:\[\w+\] )?Failed to open (.+?)\.?$`),
	audioOutputLine: regexp.MustCompile(`^AO: \[(\w+)\] (.+)$`),
}

// EventHandler methods are all called through the dispatch function given to
// SetHandler.
type EventHandler interface {
	OnTimeUpdate(elapsed float64)
	OnDurationUpdate(secs float64)
	OnPauseUpdate(pause bool)
	OnSongFinish()
}

var tmpdir = filepath.Join(os.TempDir(), "muselist")

func newMpv(sources Resolver) (*Session, error) {
	sockPath := filepath.Join(tmpdir, "mpv", "mpv.sock")

	if err := os.MkdirAll(filepath.Dir(sockPath), os.ModePerm); err != nil {
		return nil, errors.Wrap(err, "failed to make socket directory")
	}

	if err := os.RemoveAll(sockPath); err != nil {
		return nil, errors.Wrap(err, "failed to clean up socket")
	}

	args := []string{
		"--idle",
		"--pause",
		"--no-input-terminal",
		"--loop-file=no",
		"--gapless-audio=weak",
		"--replaygain=track",
		"--replaygain-clip=no",
		"--ad=lavc:*",
		"--input-ipc-server=" + sockPath,
		"--volume=100",
		"--volume-max=100",
		"--no-video",
	}

	// Try and support MPV_MPRIS.
	if scripts := os.Getenv("MPV_SCRIPTS"); scripts != "" {
		for _, script := range strings.Split(scripts, ":") {
			args = append(args, "--script="+script)
		}
	}

	mpvRead := newMpvReader(os.Stderr, lineMatches)

	cmd := exec.Command("mpv", args...)
	cmd.Env = os.Environ()
	cmd.Stderr = mpvRead

	conn := mpvipc.NewConnection(sockPath)

	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(err, "failed to start mpv")
	}

	// Give us a 5-second period timeout.
	ctx, cancel := context.WithTimeout(context.TODO(), 5*time.Second)
	defer cancel()

	// Spin until we can connect.
	var err error
RetryOpen:
	for {
		err = conn.Open()
		if err == nil {
			cancel()
			break RetryOpen
		}
		select {
		case <-ctx.Done():
			break RetryOpen
		default:
			runtime.Gosched()
			continue RetryOpen
		}
	}

	if err != nil {
		cmd.Process.Kill()
		return nil, errors.Wrap(err, "failed to open connection")
	}

	for _, event := range events {
		_, err := conn.Call("enable_event", event)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to enable event %q", event)
		}
	}

	for id, property := range propertyMap {
		_, err := conn.Call("observe_property", id, property)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to observe property %q", property)
		}
	}

	return &Session{
		Playback:   conn,
		Command:    cmd,
		mpvRead:    mpvRead,
		sources:    sources,
		socketPath: sockPath,
	}, nil
}

// SetHandler sets the event handler. Events arrive on mpv's goroutines, so
// every handler call is wrapped in a function and passed to dispatch, which
// should run it wherever the handler's state lives.
func (s *Session) SetHandler(h EventHandler, dispatch func(func())) {
	s.handler = h
	s.dispatch = dispatch
}

// Start starts all the event listeners in background goroutines. As such, it is
// non-blocking.
func (s *Session) Start() {
	s.mpvRead.Start(onMpvLine)
	s.Playback.ListenForEvents(s.handleEvent)
}

func onMpvLine(event mpvLineEvent, matches []string) {
	switch event {
	case openFailedLine:
		log.Printf("mpv could not open %s", matches[1])
	case audioOutputLine:
		log.Printf("Audio output is %s: %s", matches[1], matches[2])
	}
}

func (s *Session) handleEvent(event *mpvipc.Event) {
	// Copy the handler so the caller cannot change it.
	var handler = s.handler
	if handler == nil {
		return
	}

	if event.Data == nil {
		goto handleAllEvents
	}

	switch mpvEvent(event.ID) {
	case allEvent:
		goto handleAllEvents

	case pauseEvent:
		if b, ok := event.Data.(bool); ok {
			s.dispatch(func() { handler.OnPauseUpdate(b) })
		}

	case timePositionEvent:
		if f, ok := event.Data.(float64); ok {
			s.dispatch(func() { handler.OnTimeUpdate(f) })
		}

	case durationEvent:
		if f, ok := event.Data.(float64); ok {
			s.dispatch(func() { handler.OnDurationUpdate(f) })
		}

	case audioDeviceEvent:
		log.Println("Audio device changed to", event.Data)
	}

	return

handleAllEvents:
	switch event.Name {
	case "end-file":
		// Files replaced by loadfile or unloaded by stop also end, but only
		// a file that played to its end should advance the playlist.
		if event.Reason == "eof" {
			s.dispatch(func() { handler.OnSongFinish() })
		}
	}
}

// Close stops the mpv session. A closed session cannot be reused.
func (s *Session) Close() error {
	var connErr, procErr, sockErr error

	connErr = s.Playback.Close()

	// Unblock mpv's stderr copier so Wait can return.
	s.mpvRead.Close()

	if err := s.Command.Process.Signal(os.Interrupt); err != nil {
		log.Println("Attempted to send SIGINT failed, error occured:", err)
		log.Println("Killing anyway.")

		if err = s.Command.Process.Kill(); err != nil {
			procErr = errors.Wrap(err, "failed to kill mpv")
		}
	} else {
		// Wait for mpv to finish up.
		s.Command.Wait()
	}

	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		sockErr = errors.Wrap(err, "failed to clean up socket")
	}

	return makeBatchErrors(connErr, procErr, sockErr)
}
