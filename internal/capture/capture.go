// Package capture drives the timed multi-shot sequence against a live
// camera source and owns the snapshots it produces.
package capture

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"log"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/CyberJohn04/myfotobooth/internal/camera"
	"github.com/CyberJohn04/myfotobooth/internal/config"
	"github.com/CyberJohn04/myfotobooth/internal/filter"
	"github.com/CyberJohn04/myfotobooth/pkg/types"
)

var (
	// ErrBusy means a sequence is already running. It is a guard, not a
	// failure; callers keep watching the run in flight.
	ErrBusy = errors.New("capture sequence already running")

	// ErrNoSource means no live video source is attached.
	ErrNoSource = errors.New("no live video source")
)

const (
	DefaultShots = 3
	DefaultPause = 1200 * time.Millisecond

	// LabelFormat renders the capture moment for the strip footer.
	LabelFormat = "Jan 2, 2006 3:04 PM"
)

// Snapshot is one captured still with the filter active at shot time
// burned in. Snapshots never change after the shot.
type Snapshot struct {
	Index   int // position in the sequence, 0-based
	TakenAt time.Time
	Data    []byte // JPEG
}

// Decode returns the snapshot raster.
func (s Snapshot) Decode() (image.Image, error) {
	img, err := jpeg.Decode(bytes.NewReader(s.Data))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode snapshot %d", s.Index+1)
	}
	return img, nil
}

// Options configures a Sequencer.
type Options struct {
	Countdown types.Countdown
	Shots     int // 0 means DefaultShots

	// Filter is sampled right before each shot, so a filter switched
	// mid-sequence applies from the next shot on. Nil means no filter.
	Filter func() filter.Filter

	StyleEnv filter.StyleEnv
	Tick     time.Duration // countdown granularity, 0 means one second
	Pause    time.Duration // delay between shots, 0 means DefaultPause
	Quality  int           // snapshot JPEG quality, 0 means config.SnapshotQuality
	Verbose  bool
}

// Result is one completed run.
type Result struct {
	Label     string // capture moment, fixed when the run starts
	StartedAt time.Time
	Snapshots []Snapshot
}

// Sequencer runs timed capture sequences, one at a time.
type Sequencer struct {
	src  camera.Source
	opts Options

	mu        sync.Mutex
	running   bool
	snapshots []Snapshot

	events chan Event
}

func New(src camera.Source, opts Options) *Sequencer {
	if opts.Countdown == 0 {
		opts.Countdown = types.Countdown(config.DefaultCountdown)
	}
	if opts.Shots <= 0 {
		opts.Shots = DefaultShots
	}
	if opts.Filter == nil {
		opts.Filter = func() filter.Filter { return filter.NoFilter() }
	}
	if opts.StyleEnv == nil {
		opts.StyleEnv = filter.DefaultStyleEnv()
	}
	if opts.Tick <= 0 {
		opts.Tick = time.Second
	}
	if opts.Pause <= 0 {
		opts.Pause = DefaultPause
	}
	if opts.Quality <= 0 {
		opts.Quality = config.SnapshotQuality
	}
	return &Sequencer{src: src, opts: opts, events: make(chan Event, 64)}
}

// Events exposes run progress. Nobody listening means events are dropped,
// never queued without bound.
func (s *Sequencer) Events() <-chan Event {
	return s.events
}

// Running reports whether a sequence is in progress.
func (s *Sequencer) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Snapshots returns a copy of the most recent run's snapshots.
func (s *Sequencer) Snapshots() []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Snapshot, len(s.snapshots))
	copy(out, s.snapshots)
	return out
}

// Run executes one full sequence: per shot, a counted-down wait, then the
// grab. A shot whose frame cannot be produced is skipped without aborting
// the run. Starting a run discards the previous run's snapshots before the
// first new shot lands. Cancelling discards partial progress.
func (s *Sequencer) Run(ctx context.Context) (*Result, error) {
	if !s.opts.Countdown.Valid() {
		return nil, errors.Errorf("unsupported countdown: %d (supported: 3, 5, 10)", s.opts.Countdown)
	}
	if s.src == nil || !s.src.Live() {
		return nil, ErrNoSource
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.running = true
	s.snapshots = nil
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	start := time.Now()
	res := &Result{Label: start.Format(LabelFormat), StartedAt: start}

	for shot := 1; shot <= s.opts.Shots; shot++ {
		for remaining := s.opts.Countdown.Seconds(); remaining > 0; remaining-- {
			s.emit(CountdownEvent{Shot: shot, Remaining: remaining})
			if err := sleep(ctx, s.opts.Tick); err != nil {
				s.discard()
				return nil, err
			}
		}

		snap, err := s.take(ctx)
		switch {
		case err != nil && ctx.Err() != nil:
			s.discard()
			return nil, ctx.Err()
		case err != nil:
			// The source had no frame for this instant; the strip just
			// comes out one photo shorter.
			if s.opts.Verbose {
				log.Printf("shot %d skipped: %v", shot, err)
			}
			s.emit(ShotEvent{Shot: shot, Skipped: true})
		default:
			s.mu.Lock()
			snap.Index = len(s.snapshots)
			s.snapshots = append(s.snapshots, snap)
			s.mu.Unlock()
			s.emit(ShotEvent{Shot: shot})
		}

		if shot < s.opts.Shots {
			if err := sleep(ctx, s.opts.Pause); err != nil {
				s.discard()
				return nil, err
			}
		}
	}

	res.Snapshots = s.Snapshots()
	s.emit(DoneEvent{Count: len(res.Snapshots)})
	return res, nil
}

// take grabs a frame and burns in whichever filter is active right now.
func (s *Sequencer) take(ctx context.Context) (Snapshot, error) {
	img, err := s.src.Frame(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	f := s.opts.Filter()
	out := f.Resolve(s.opts.StyleEnv).Apply(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: s.opts.Quality}); err != nil {
		return Snapshot{}, errors.Wrap(err, "failed to encode snapshot")
	}
	return Snapshot{TakenAt: time.Now(), Data: buf.Bytes()}, nil
}

func (s *Sequencer) discard() {
	s.mu.Lock()
	s.snapshots = nil
	s.mu.Unlock()
}

func (s *Sequencer) emit(e Event) {
	select {
	case s.events <- e:
	default:
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
