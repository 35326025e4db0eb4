// Package camera acquires frames for the booth: a real device read through
// ffmpeg, a synthetic test pattern for boothless runs, and a streaming Feed
// that fans preview frames out to subscribers.
package camera

import (
	"context"
	"fmt"
	"image"
	"runtime"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Source supplies stills from a live video input.
type Source interface {
	// Frame grabs the current frame. A source that cannot produce one at
	// this instant returns an error; capture treats that as a skipped shot.
	Frame(ctx context.Context) (image.Image, error)

	// Live reports whether the source is attached and producing frames.
	Live() bool

	// Close releases the underlying device.
	Close() error
}

// inputKwargs selects the platform capture input. The requested size is a
// hint; the device may deliver less.
func inputKwargs(width, height int) ffmpeg.KwArgs {
	kw := ffmpeg.KwArgs{"video_size": fmt.Sprintf("%dx%d", width, height)}
	switch runtime.GOOS {
	case "darwin":
		kw["f"] = "avfoundation"
		kw["framerate"] = "30"
	case "windows":
		kw["f"] = "dshow"
	default:
		kw["f"] = "v4l2"
	}
	return kw
}
