// Package strip composes captured snapshots into the downloadable
// photo-strip artifact: styled background, header caption, the photos in
// capture order, sticker decoration and the timestamp footer.
package strip

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/CyberJohn04/myfotobooth/internal/capture"
	"github.com/CyberJohn04/myfotobooth/internal/config"
	"github.com/CyberJohn04/myfotobooth/internal/filter"
	"github.com/CyberJohn04/myfotobooth/internal/sticker"
	"github.com/CyberJohn04/myfotobooth/internal/style"
)

// ErrNoSnapshots means composition was asked to run with nothing to draw.
// Callers gate on snapshot count; this is the backstop.
var ErrNoSnapshots = errors.New("no snapshots to compose")

// Request carries everything one composite needs.
type Request struct {
	Snapshots   []capture.Snapshot
	Style       style.Style
	CustomColor string
	Filter      filter.Filter
	StyleEnv    filter.StyleEnv
	Theme       sticker.Theme
	Caption     string
	Label       string    // footer text; empty means TakenAt
	TakenAt     time.Time // capture moment; zero means now
	FontPath    string
	Seed        int64 // sticker placement seed; 0 seeds from the clock
	Verbose     bool
}

// Artifact is the composed strip, ready to save or send.
type Artifact struct {
	Filename string
	Data     []byte      // JPEG
	Image    image.Image // the raster the JPEG was encoded from
	Width    int
	Height   int
}

// CanvasSize returns the strip dimensions for n photos. Width is fixed;
// height grows with the photo count.
func CanvasSize(n int) (w, h int) {
	w = config.StripWidth
	h = config.HeaderPad + n*config.PhotoHeight + (n-1)*config.PhotoGap + config.BottomPad
	return w, h
}

// Compose renders one strip. Every snapshot is decoded up front and any
// decode failure aborts the composite; a strip silently missing a photo
// would lie about the session.
func Compose(ctx context.Context, req *Request) (*Artifact, error) {
	n := len(req.Snapshots)
	if n == 0 {
		return nil, ErrNoSnapshots
	}
	if req.Style == nil {
		return nil, errors.New("no strip style selected")
	}

	photos := make([]image.Image, n)
	g, gctx := errgroup.WithContext(ctx)
	for i, snap := range req.Snapshots {
		i, snap := i, snap
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := snap.Decode()
			if err != nil {
				return err
			}
			photos[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	w, h := CanvasSize(n)
	dc := gg.NewContext(w, h)

	if err := req.Style.Paint(dc, w, h, &style.Context{
		CustomColor: req.CustomColor,
		Photos:      photos,
		Rand:        rng,
	}); err != nil {
		return nil, errors.Wrapf(err, "failed to paint %s background", req.Style.GetKey())
	}

	faces, err := loadFaces(req.FontPath)
	if err != nil {
		return nil, err
	}
	ink := captionInk(dc)

	caption := req.Caption
	if caption == "" {
		caption = config.DefaultCaption
	}
	dc.SetFontFace(faces.header)
	dc.SetHexColor(ink)
	dc.DrawStringAnchored(caption, float64(w)/2, float64(config.HeaderPad)/2, 0.5, 0.5)

	m := req.Filter.Resolve(req.StyleEnv)
	for i, photo := range photos {
		drawPhoto(dc, m.Apply(photo), config.SideMargin, slotTop(i))
	}

	if !req.Theme.Disabled() {
		decorate(dc, req.Theme, n, rng, req.Verbose)
	}

	takenAt := req.TakenAt
	if takenAt.IsZero() {
		takenAt = time.Now()
	}
	label := req.Label
	if label == "" {
		label = takenAt.Format(capture.LabelFormat)
	}
	dc.SetFontFace(faces.label)
	dc.SetHexColor(ink)
	labelY := float64(slotTop(n-1)+config.PhotoHeight) + float64(config.BottomPad)/2
	dc.DrawStringAnchored(label, float64(w)/2, labelY, 0.5, 0.5)

	img := dc.Image()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: config.StripQuality}); err != nil {
		return nil, errors.Wrap(err, "failed to encode strip")
	}

	return &Artifact{
		Filename: fmt.Sprintf("%s%d.jpg", config.FilenamePrefix, takenAt.UnixMilli()),
		Data:     buf.Bytes(),
		Image:    img,
		Width:    w,
		Height:   h,
	}, nil
}

// slotTop returns the y offset of photo slot i.
func slotTop(i int) int {
	return config.HeaderPad + i*(config.PhotoHeight+config.PhotoGap)
}

// drawPhoto scales one snapshot into its fixed slot. Snapshots and slots
// share the 4:3 ratio, so scaling never distorts.
func drawPhoto(dc *gg.Context, img image.Image, x, y int) {
	slot := image.NewRGBA(image.Rect(0, 0, config.PhotoWidth, config.PhotoHeight))
	xdraw.CatmullRom.Scale(slot, slot.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	dc.DrawImage(slot, x, y)
}

// decorate scatters the theme's lead sticker across each photo. Placement
// is decorative: positions and rotations are random, overlap is allowed,
// and a sticker that fails to load is dropped without touching the strip.
func decorate(dc *gg.Context, theme sticker.Theme, photos int, rng *rand.Rand, verbose bool) {
	img, err := sticker.Load(theme.Images[0])
	if err != nil {
		if verbose {
			log.Printf("sticker %s unavailable: %v", theme.Images[0], err)
		}
		return
	}

	scaled := image.NewRGBA(image.Rect(0, 0, config.StickerSize, config.StickerSize))
	xdraw.BiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Over, nil)

	for i := 0; i < photos; i++ {
		top := slotTop(i)
		for j := stickerCount(rng); j > 0; j-- {
			x := float64(config.SideMargin + rng.Intn(config.PhotoWidth))
			y := float64(top + rng.Intn(config.PhotoHeight))
			angle := (rng.Float64()*2 - 1) * math.Pi / 4

			dc.Push()
			dc.RotateAbout(angle, x, y)
			dc.DrawImageAnchored(scaled, int(x), int(y), 0.5, 0.5)
			dc.Pop()
		}
	}
}

// stickerCount picks how many stickers one photo gets.
func stickerCount(rng *rand.Rand) int {
	return 7 + rng.Intn(2)
}

// captionInk picks a text color that stays readable on whatever the style
// painted underneath the header.
func captionInk(dc *gg.Context) string {
	r, g, b, _ := dc.Image().At(dc.Width()/2, config.HeaderPad/4).RGBA()
	y := 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
	if y < 0.5*65535 {
		return "#f5f2ff"
	}
	return "#2b2330"
}

// WriteFile saves the artifact into dir, creating the directory if needed,
// and returns the written path.
func (a *Artifact) WriteFile(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "failed to create output directory %s", dir)
	}

	path := filepath.Join(dir, a.Filename)
	if err := os.WriteFile(path, a.Data, 0644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", path)
	}
	return path, nil
}
