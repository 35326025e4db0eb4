package types

import "fmt"

type StripStyle string

const (
	StripStyleClassic   StripStyle = "classic"
	StripStyleNoir      StripStyle = "noir"
	StripStyleBubblegum StripStyle = "bubblegum"
	StripStyleCosmic    StripStyle = "cosmic"
	StripStyleCustom    StripStyle = "custom"
	StripStyleAuto      StripStyle = "auto"
)

// Countdown is the per-shot countdown length in seconds.
type Countdown int

const (
	CountdownShort  Countdown = 3
	CountdownMedium Countdown = 5
	CountdownLong   Countdown = 10
)

func (c Countdown) Valid() bool {
	switch c {
	case CountdownShort, CountdownMedium, CountdownLong:
		return true
	}
	return false
}

func (c Countdown) Seconds() int {
	return int(c)
}

// ParseCountdown validates a user-supplied countdown value.
func ParseCountdown(secs int) (Countdown, error) {
	c := Countdown(secs)
	if !c.Valid() {
		return 0, fmt.Errorf("unsupported countdown: %d (supported: 3, 5, 10)", secs)
	}
	return c, nil
}
