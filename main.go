package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/diamondburned/muselist/internal/durafmt"
	"github.com/diamondburned/muselist/internal/importer"
	"github.com/diamondburned/muselist/internal/metrics"
	"github.com/diamondburned/muselist/internal/mpris"
	"github.com/diamondburned/muselist/internal/muse"
	"github.com/diamondburned/muselist/internal/muse/playlist"
	"github.com/diamondburned/muselist/internal/source"
	"github.com/diamondburned/muselist/internal/state"
	"github.com/prometheus/client_golang/prometheus"
)

var metricsPath = filepath.Join(os.TempDir(), "muselist", "metrics.prom")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sources := source.NewRegistry()

	s, err := muse.NewSession(sources)
	if err != nil {
		log.Fatalln("Failed to create mpv session:", err)
	}

	reg := prometheus.NewRegistry()
	loop := newEventLoop()

	st := state.New(state.Config{
		Player:   s,
		Notifier: state.NotifierFunc(logNotification),
		Sources:  sources,
		Metrics:  metrics.New(reg),
	})

	if err := s.SetVolume(st.Volume()); err != nil {
		log.Println("Failed to set the initial volume:", err)
	}

	st.OnUpdate(logPlayback())

	s.SetHandler(st.Cursor, loop.dispatch)
	// Start is non-blocking; events are queued onto the loop.
	s.Start()

	m, err := mpris.New(st, s, loop.dispatch)
	if err != nil {
		log.Println("MPRIS is unavailable:", err)
	} else {
		st.OnUpdate(m.Update)
	}

	if files := os.Args[1:]; len(files) > 0 {
		loop.dispatch(func() { playFiles(ctx, st, files) })
	} else {
		log.Println("No files given; waiting for MPRIS commands.")
	}

	loop.run(ctx)

	st.Close()

	if err := m.Close(); err != nil {
		log.Println("Failed to close MPRIS:", err)
	}

	if err := s.Close(); err != nil {
		log.Println("Failed to stop mpv:", err)
	}

	if err := prometheus.WriteToTextfile(metricsPath, reg); err != nil {
		log.Println("Failed to write metrics:", err)
	}
}

// playFiles puts files into a new playlist and starts playing it.
func playFiles(ctx context.Context, st *state.State, paths []string) {
	files := make([]importer.File, len(paths))
	for i, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}

		files[i] = importer.File{
			Name: filepath.Base(path),
			Path: abs,
		}
	}

	pl, err := st.CreatePlaylist("Command line")
	if err != nil {
		return
	}

	tracks, err := st.ImportFiles(ctx, pl.ID, files)
	if err != nil || len(tracks) == 0 {
		return
	}

	st.Play(tracks[0])
}

// logPlayback returns a cursor observer that logs track changes and pauses.
func logPlayback() func(*state.Cursor) {
	var lastTrack *playlist.Track
	var lastPlaying bool

	return func(c *state.Cursor) {
		_, track := c.NowPlaying()
		playing := c.IsPlaying()

		switch {
		case track == nil:
		case track != lastTrack:
			log.Println("Now playing:", track)
		case playing != lastPlaying && !playing:
			log.Println("Paused at", durafmt.FormatSeconds(c.Elapsed()))
		case playing != lastPlaying:
			log.Println("Resumed at", durafmt.FormatSeconds(c.Elapsed()))
		}

		lastTrack = track
		lastPlaying = playing
	}
}

func logNotification(n state.Notification) {
	log.Printf("[%s] %s %s", n.Kind, n.Title, n.Description)
}

// eventLoop runs every state access on a single goroutine.
type eventLoop struct {
	funcs chan func()
	done  chan struct{}
}

func newEventLoop() *eventLoop {
	return &eventLoop{
		funcs: make(chan func(), 64),
		done:  make(chan struct{}),
	}
}

// dispatch queues fn to be run on the loop. It drops fn if the loop has
// stopped.
func (l *eventLoop) dispatch(fn func()) {
	select {
	case l.funcs <- fn:
	case <-l.done:
	}
}

func (l *eventLoop) run(ctx context.Context) {
	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.funcs:
			fn()
		}
	}
}
