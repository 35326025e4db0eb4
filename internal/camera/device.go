package camera

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"log"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Device reads a camera one frame at a time through ffmpeg. Each grab
// spawns a short-lived process, which keeps the device free between shots.
type Device struct {
	path    string
	width   int
	height  int
	verbose bool
	live    bool
}

// OpenDevice probes the device with a trial grab. An unreachable device
// comes back non-live so capture starts stay disabled instead of failing
// mid-sequence.
func OpenDevice(path string, width, height int, verbose bool) *Device {
	d := &Device{path: path, width: width, height: height, verbose: verbose}
	if _, err := d.grab(); err != nil {
		log.Printf("camera %s unavailable: %v", path, err)
		return d
	}
	d.live = true
	return d
}

func (d *Device) Frame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := d.grab()
	if err != nil {
		d.live = false
		return nil, err
	}
	d.live = true
	return img, nil
}

func (d *Device) grab() (image.Image, error) {
	buf := bytes.NewBuffer(nil)

	stream := ffmpeg.Input(d.path, inputKwargs(d.width, d.height)).
		Output("pipe:", ffmpeg.KwArgs{
			"vframes": 1,
			"format":  "image2",
			"vcodec":  "mjpeg",
			"q:v":     2,
		}).
		WithOutput(buf)
	if d.verbose {
		stream = stream.ErrorToStdOut()
	}
	if err := stream.Run(); err != nil {
		return nil, errors.Wrapf(err, "failed to grab frame from %s", d.path)
	}

	img, err := jpeg.Decode(buf)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode frame from %s", d.path)
	}
	return img, nil
}

func (d *Device) Live() bool {
	return d.live
}

func (d *Device) Close() error {
	d.live = false
	return nil
}
