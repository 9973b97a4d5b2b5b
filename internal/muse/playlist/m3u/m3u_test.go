package m3u

import (
	"testing"
	"time"

	"github.com/diamondburned/muselist/internal/muse/playlist"
	"github.com/go-test/deep"
	"github.com/ushis/m3u"
)

func TestConvert(t *testing.T) {
	pl := playlist.New("p1", "Road Trip", time.Now())
	pl.Append(
		&playlist.Track{ID: "1", Title: "Intro", Artist: "Band", Length: 90 * time.Second, Source: "blob:1"},
		&playlist.Track{ID: "2", Title: "Outro", Artist: "Band", Source: "blob:2"},
	)

	expect := m3u.Playlist{
		{Title: "Band - Intro", Path: "blob:1", Time: 90},
		{Title: "Band - Outro", Path: "blob:2", Time: 0},
	}

	if ineqs := deep.Equal(Convert(pl), expect); ineqs != nil {
		t.Errorf("unexpected m3u playlist: %v", ineqs)
	}
}
