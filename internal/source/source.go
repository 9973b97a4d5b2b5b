// Package source hands out opaque source handles for local audio files. A
// handle is a URL that stays valid until it is released; the playback engine
// resolves it back into the file it stands for.
package source

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Scheme prefixes every handle URL.
const Scheme = "blob:"

// ErrReleased is returned when resolving a handle that was released or never
// acquired.
var ErrReleased = errors.New("source handle released")

// Registry maps handle URLs to the files backing them. A zero Registry is not
// usable; use NewRegistry.
type Registry struct {
	paths map[string]string
	// onRelease is called after a handle is released.
	onRelease func(url string)
}

func NewRegistry() *Registry {
	return &Registry{
		paths: make(map[string]string),
	}
}

// OnRelease adds into the call stack a callback that is triggered when a handle
// is released.
func (r *Registry) OnRelease(fn func(url string)) {
	old := r.onRelease
	r.onRelease = func(url string) {
		if old != nil {
			old(url)
		}
		fn(url)
	}
}

// Acquire creates a new handle for the file at path.
func (r *Registry) Acquire(path string) string {
	url := Scheme + uuid.NewString()
	r.paths[url] = path
	return url
}

// Resolve returns the file path behind the handle.
func (r *Registry) Resolve(url string) (string, error) {
	path, ok := r.paths[url]
	if !ok {
		return "", errors.Wrapf(ErrReleased, "cannot resolve %q", url)
	}
	return path, nil
}

// Release invalidates the handle. It returns false if the handle was not held,
// which makes double releases harmless.
func (r *Registry) Release(url string) bool {
	if _, ok := r.paths[url]; !ok {
		return false
	}

	delete(r.paths, url)

	if r.onRelease != nil {
		r.onRelease(url)
	}

	return true
}

// ReleaseAll releases every held handle and returns how many there were.
func (r *Registry) ReleaseAll() int {
	n := 0
	for url := range r.paths {
		if r.Release(url) {
			n++
		}
	}
	return n
}

// Len returns the number of held handles.
func (r *Registry) Len() int {
	return len(r.paths)
}

// IsHandle returns true if the string looks like a handle URL.
func IsHandle(s string) bool {
	return strings.HasPrefix(s, Scheme)
}
