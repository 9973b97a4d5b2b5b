package state

import "fmt"

// ValidationError is returned when user input is rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", err.Field, err.Reason)
}

// NotFoundError is returned when an operation references an unknown playlist
// or track.
type NotFoundError struct {
	Kind string // "playlist" or "track"
	ID   string
}

func (err *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", err.Kind, err.ID)
}

func playlistNotFound(id string) error {
	return &NotFoundError{Kind: "playlist", ID: id}
}

func trackNotFound(id string) error {
	return &NotFoundError{Kind: "track", ID: id}
}

// InvalidStateError is returned when a playback operation is attempted
// without a current track or a selected playlist.
type InvalidStateError struct {
	Op     string
	Reason string
}

func (err *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s: %s", err.Op, err.Reason)
}
