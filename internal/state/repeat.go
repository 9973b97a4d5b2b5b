package state

type RepeatMode uint8

const (
	RepeatNone RepeatMode = iota
	RepeatAll
	RepeatSingle
	repeatLen
)

// Cycle returns the next mode to be activated when the repeat button is
// constantly pressed.
func (m RepeatMode) Cycle() RepeatMode {
	return (m + 1) % repeatLen
}

func (m RepeatMode) String() string {
	switch m {
	case RepeatNone:
		return "none"
	case RepeatAll:
		return "all"
	case RepeatSingle:
		return "one"
	default:
		return "unknown"
	}
}
