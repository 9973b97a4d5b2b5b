// Package importer turns user-supplied files into track drafts. Files that are
// not audio are skipped without error; audio files have their tags read
// concurrently.
package importer

import (
	"context"
	"log"
	"mime"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dhowden/tag"
	"github.com/diamondburned/muselist/internal/muse/playlist"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// File is a file-like input handed over by the file picker or a drop.
type File struct {
	// Name is the user-visible file name.
	Name string
	// Path is the local file. It may be empty if the file cannot be opened.
	Path string
	// MediaType is the declared MIME type. It is guessed from the name if
	// empty.
	MediaType string
}

// audioTypes covers extensions that the system MIME table commonly misses.
var audioTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/opus",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".wav":  "audio/wav",
	".wma":  "audio/x-ms-wma",
	".aiff": "audio/aiff",
}

// Type returns the media type of the file.
func (f File) Type() string {
	if f.MediaType != "" {
		return f.MediaType
	}

	name := f.Name
	if name == "" {
		name = f.Path
	}

	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := audioTypes[ext]; ok {
		return t
	}

	return mime.TypeByExtension(ext)
}

// IsAudio returns true if the file has an audio media type.
func (f File) IsAudio() bool {
	return strings.HasPrefix(f.Type(), "audio/")
}

// Filter splits files into audio files and everything else, preserving order.
func Filter(files []File) (audio, skipped []File) {
	for _, file := range files {
		if file.IsAudio() {
			audio = append(audio, file)
		} else {
			skipped = append(skipped, file)
		}
	}
	return
}

// ReadTags reads the file's tags into a draft. A file without readable tags
// still produces a draft named after the file.
func ReadTags(file File) (playlist.Draft, error) {
	name := file.Name
	if name == "" {
		name = file.Path
	}

	draft := playlist.NewDraft(name)
	draft.Path = file.Path

	if file.Path == "" {
		return draft, nil
	}

	f, err := os.Open(file.Path)
	if err != nil {
		return draft, errors.Wrap(err, "failed to open file")
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return draft, errors.Wrap(err, "failed to read tag")
	}

	draft.Title = stringOr(m.Title(), draft.Title)
	draft.Artist = stringOr(m.Artist(), draft.Artist)
	draft.Album = m.Album()
	draft.Number, _ = m.Track()

	return draft, nil
}

// This is quite arbitrary, but it should be fast enough on a local disk and
// doesn't clog much on a remote mount.
var maxJobs = runtime.GOMAXPROCS(-1)

// Import filters the files and reads tags from the audio ones. Drafts are returned in
// the order the files were given. Tag read failures are logged and fall back to
// the file name; only a cancelled context fails the import.
func Import(ctx context.Context, files []File) (drafts []playlist.Draft, skipped []File, err error) {
	audio, skipped := Filter(files)
	drafts = make([]playlist.Draft, len(audio))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxJobs)

	for i, file := range audio {
		i, file := i, file

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			d, err := ReadTags(file)
			if err != nil {
				log.Printf("error probing %q: %v", file.Path, err)
			}

			drafts[i] = d
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, skipped, errors.Wrap(err, "import cancelled")
	}

	return drafts, skipped, nil
}

func stringOr(str, or string) string {
	if str != "" {
		return str
	}
	return or
}
