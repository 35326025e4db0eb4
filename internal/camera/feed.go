package camera

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Feed is a continuously running frame stream with fan-out. The booth page
// subscribes for its live preview while capture pulls whichever frame is
// freshest, so a shot never waits on the device.
type Feed struct {
	mu     sync.Mutex
	subs   map[int]chan []byte
	nextID int
	latest []byte
	live   bool
	closed bool

	stop func()
	done chan struct{}
}

func newFeed() *Feed {
	return &Feed{
		subs: make(map[int]chan []byte),
		done: make(chan struct{}),
	}
}

// OpenDeviceFeed starts one long-lived ffmpeg process streaming MJPEG from
// the device and keeps it until Close.
func OpenDeviceFeed(path string, width, height, fps int, verbose bool) (*Feed, error) {
	pr, pw := io.Pipe()

	stream := ffmpeg.Input(path, inputKwargs(width, height)).
		Output("pipe:", ffmpeg.KwArgs{
			"format": "mjpeg",
			"vcodec": "mjpeg",
			"q:v":    4,
			"r":      fps,
		}).
		WithOutput(pw)
	if verbose {
		stream = stream.ErrorToStdOut()
	}

	cmd := stream.Compile()
	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, errors.Wrapf(err, "failed to start camera stream on %s", path)
	}

	f := newFeed()
	f.stop = func() {
		cmd.Process.Kill()
		cmd.Wait()
		pw.Close()
	}
	go func() {
		defer close(f.done)
		f.pump(pr)
	}()
	return f, nil
}

// OpenSourceFeed adapts a frame source into a feed by polling it. It backs
// the preview when no real device is attached and takes ownership of src.
func OpenSourceFeed(src Source, fps int) *Feed {
	if fps <= 0 {
		fps = 15
	}

	f := newFeed()
	stopCh := make(chan struct{})
	f.stop = func() {
		close(stopCh)
		src.Close()
	}
	go func() {
		defer close(f.done)
		tick := time.NewTicker(time.Second / time.Duration(fps))
		defer tick.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-tick.C:
				img, err := src.Frame(context.Background())
				if err != nil {
					continue
				}
				var buf bytes.Buffer
				if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
					continue
				}
				f.publish(buf.Bytes())
			}
		}
	}()
	return f
}

// pump splits the raw MJPEG byte stream into frames until the producer
// goes away.
func (f *Feed) pump(r io.Reader) {
	var buf []byte
	chunk := make([]byte, 64*1024)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			for {
				frame, rest, ok := extractJPEGFrame(buf)
				buf = rest
				if !ok {
					break
				}
				f.publish(frame)
			}
		}
		if err != nil {
			f.mu.Lock()
			f.live = false
			f.mu.Unlock()
			return
		}
	}
}

// JPEG stream markers.
const (
	markerPrefix = 0xff
	markerSOI    = 0xd8
	markerEOI    = 0xd9
)

// extractJPEGFrame scans for the next complete SOI..EOI frame. It returns
// the frame, the unconsumed remainder, and whether a frame was found.
// Bytes before the first start marker are dropped so the buffer stays
// bounded on a noisy stream.
func extractJPEGFrame(data []byte) (frame, rest []byte, ok bool) {
	start := -1
	for i := 0; i+1 < len(data); i++ {
		if data[i] != markerPrefix {
			continue
		}
		switch data[i+1] {
		case markerSOI:
			if start == -1 {
				start = i
			}
		case markerEOI:
			if start != -1 {
				end := i + 2
				frame = make([]byte, end-start)
				copy(frame, data[start:end])
				return frame, data[end:], true
			}
		}
	}
	if start > 0 {
		return nil, data[start:], false
	}
	return nil, data, false
}

func (f *Feed) publish(frame []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// A frame may still be in flight while Close runs; drop it so a closed
	// feed never reports live again.
	if f.closed {
		return
	}
	f.latest = frame
	f.live = true
	for _, ch := range f.subs {
		select {
		case ch <- frame:
		default:
			// A stalled subscriber misses frames rather than blocking
			// everyone else.
		}
	}
}

// Subscribe registers a preview consumer. The returned cancel must be
// called when the consumer goes away.
func (f *Feed) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, 1)

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = ch
	f.mu.Unlock()

	return ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, exists := f.subs[id]; exists {
			delete(f.subs, id)
			close(ch)
		}
	}
}

// Latest returns the most recent frame, or nil before the first one lands.
func (f *Feed) Latest() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest
}

// Frame decodes the freshest frame, satisfying Source.
func (f *Feed) Frame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	frame, live := f.latest, f.live
	f.mu.Unlock()

	if !live || frame == nil {
		return nil, errors.New("no live frame available")
	}
	img, err := jpeg.Decode(bytes.NewReader(frame))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode feed frame")
	}
	return img, nil
}

func (f *Feed) Live() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.live
}

// Close stops the producer, waits for the pump to drain and releases all
// subscribers. Closing twice is fine.
func (f *Feed) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	f.live = false
	stop := f.stop
	f.mu.Unlock()

	if stop != nil {
		stop()
	}
	<-f.done

	f.mu.Lock()
	defer f.mu.Unlock()
	for id, ch := range f.subs {
		delete(f.subs, id)
		close(ch)
	}
	return nil
}

// WaitLive blocks until the feed produces its first frame or the timeout
// passes, and reports whether it went live.
func (f *Feed) WaitLive(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if f.Live() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return f.Live()
}
