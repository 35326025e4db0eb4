package capture

import "fmt"

// Event is one observable step of a capture run.
type Event interface {
	String() string
}

// CountdownEvent fires once per countdown second before a shot.
type CountdownEvent struct {
	Shot      int // 1-based
	Remaining int // seconds until the shot fires
}

func (e CountdownEvent) String() string {
	return fmt.Sprintf("Shot %d in %d...", e.Shot, e.Remaining)
}

// ShotEvent fires when a shot resolves, taken or skipped.
type ShotEvent struct {
	Shot    int
	Skipped bool
}

func (e ShotEvent) String() string {
	if e.Skipped {
		return fmt.Sprintf("Shot %d skipped", e.Shot)
	}
	return fmt.Sprintf("Shot %d!", e.Shot)
}

// DoneEvent fires when the sequence ends, with the number of photos kept.
type DoneEvent struct {
	Count int
}

func (e DoneEvent) String() string {
	return fmt.Sprintf("Captured %d photo(s)", e.Count)
}
