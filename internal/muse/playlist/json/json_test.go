package json

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/diamondburned/muselist/internal/muse/playlist"
	"github.com/go-test/deep"
)

func TestWrite(t *testing.T) {
	pl := playlist.New("p1", "Favorites", time.Date(2024, 2, 21, 6, 0, 0, 0, time.UTC))
	pl.Append(&playlist.Track{
		ID:       "t1",
		Title:    "Ekusher Gaan",
		Artist:   playlist.UnknownArtist,
		Length:   240 * time.Second,
		Source:   "blob:abc",
		Favorite: true,
	})

	var buf bytes.Buffer
	if err := playlist.Write(&buf, Ext, pl); err != nil {
		t.Fatal("failed to write:", err)
	}

	if !strings.Contains(buf.String(), "\n  \"name\": \"Favorites\"") {
		t.Errorf("output is not pretty-printed:\n%s", buf.String())
	}

	var got Playlist
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal("output is not valid JSON:", err)
	}

	expect := Playlist{
		ID:   "p1",
		Name: "Favorites",
		Songs: []Track{{
			ID:         "t1",
			Title:      "Ekusher Gaan",
			Artist:     playlist.UnknownArtist,
			Duration:   240,
			URL:        "blob:abc",
			IsFavorite: true,
		}},
		CreatedAt: "2024-02-21T06:00:00.000Z",
	}

	if ineqs := deep.Equal(got, expect); ineqs != nil {
		t.Errorf("unexpected export: %v", ineqs)
	}
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, playlist.New("p1", "Empty", time.Now())); err != nil {
		t.Fatal("failed to write:", err)
	}

	if !strings.Contains(buf.String(), `"songs": []`) {
		t.Errorf("empty playlist should export an empty songs array:\n%s", buf.String())
	}
}
