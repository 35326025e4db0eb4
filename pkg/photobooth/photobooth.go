// Package photobooth is the public entry point for driving the booth from
// code: run a countdown capture, compose strips from image files, start the
// web booth and manage the session gate.
package photobooth

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/CyberJohn04/myfotobooth/internal/camera"
	"github.com/CyberJohn04/myfotobooth/internal/capture"
	"github.com/CyberJohn04/myfotobooth/internal/config"
	"github.com/CyberJohn04/myfotobooth/internal/filter"
	"github.com/CyberJohn04/myfotobooth/internal/server"
	"github.com/CyberJohn04/myfotobooth/internal/session"
	"github.com/CyberJohn04/myfotobooth/internal/sticker"
	"github.com/CyberJohn04/myfotobooth/internal/strip"
	"github.com/CyberJohn04/myfotobooth/internal/style"
	"github.com/CyberJohn04/myfotobooth/pkg/types"
)

// CaptureStripOptions defines options for running a countdown capture
type CaptureStripOptions struct {
	Device      string // camera device, "none" selects the synthetic test pattern
	OutputDir   string
	Countdown   int // seconds per shot: 3, 5 or 10
	Filter      string
	Style       string
	CustomColor string // hex fill, required by the custom style
	Theme       string
	Caption     string
	FontPath    string
	Seed        int64 // 0 means time-seeded sticker placement
	Print       bool
	NoGate      bool
	ConfigPath  string
	Verbose     bool
}

// ComposeStripOptions defines options for composing a strip from existing
// image files instead of a live capture
type ComposeStripOptions struct {
	InputPaths  []string
	OutputDir   string
	Filter      string
	Style       string
	CustomColor string
	Theme       string
	Caption     string
	Label       string // timestamp footer; empty means "now"
	FontPath    string
	Seed        int64
	Verbose     bool
}

// ServeOptions defines options for the booth web UI
type ServeOptions struct {
	Addr       string
	Device     string
	OutputDir  string
	Countdown  int
	Caption    string
	FontPath   string
	NoGate     bool
	ConfigPath string
	Verbose    bool
}

// GetSupportedFilters returns the keys of the built-in live filters
func GetSupportedFilters() []string {
	all := filter.List()
	keys := make([]string, 0, len(all))
	for _, f := range all {
		keys = append(keys, f.Key)
	}
	return keys
}

// GetSupportedStyles returns the keys of the built-in strip styles
func GetSupportedStyles() []string {
	return style.GetSupportedStyles()
}

// GetSupportedStickerThemes returns the keys of the built-in sticker themes
func GetSupportedStickerThemes() []string {
	catalog, err := sticker.NewCatalog()
	if err != nil {
		return nil
	}
	all := catalog.List()
	keys := make([]string, 0, len(all))
	for _, t := range all {
		keys = append(keys, t.Key)
	}
	return keys
}

// CaptureStrip runs one countdown sequence against the camera, composes the
// strip and writes it into the output directory. It returns the written
// path.
func CaptureStrip(ctx context.Context, opts *CaptureStripOptions) (string, error) {
	cfg := &config.CaptureOptions{
		Device:      opts.Device,
		OutputDir:   opts.OutputDir,
		Countdown:   opts.Countdown,
		FilterKey:   opts.Filter,
		StyleKey:    opts.Style,
		CustomColor: opts.CustomColor,
		ThemeKey:    opts.Theme,
		Caption:     opts.Caption,
		FontPath:    opts.FontPath,
		Seed:        opts.Seed,
		Print:       opts.Print,
		NoGate:      opts.NoGate,
		ConfigPath:  opts.ConfigPath,
		Verbose:     opts.Verbose,
	}
	file, err := config.ResolveCapture(cfg)
	if err != nil {
		return "", err
	}
	if err := requireSession(cfg.NoGate); err != nil {
		return "", err
	}

	countdown, err := types.ParseCountdown(cfg.Countdown)
	if err != nil {
		return "", err
	}

	look, err := resolveLook(cfg.FilterKey, cfg.StyleKey, cfg.CustomColor, cfg.ThemeKey, file)
	if err != nil {
		return "", err
	}

	if cfg.Verbose {
		log.Printf("Opening camera device: %s\n", cfg.Device)
	}
	src := openSource(cfg.Device, cfg.Verbose)
	defer src.Close()

	seq := capture.New(src, capture.Options{
		Countdown: countdown,
		Filter:    func() filter.Filter { return look.filter },
		StyleEnv:  look.env,
		Verbose:   cfg.Verbose,
	})

	stop := make(chan struct{})
	go echoEvents(seq.Events(), stop)
	res, err := seq.Run(ctx)
	close(stop)
	if err != nil {
		return "", err
	}

	art, err := strip.Compose(ctx, &strip.Request{
		Snapshots:   res.Snapshots,
		Style:       look.style,
		CustomColor: look.color,
		Filter:      look.filter,
		StyleEnv:    look.env,
		Theme:       look.theme,
		Caption:     cfg.Caption,
		Label:       res.Label,
		TakenAt:     res.StartedAt,
		FontPath:    cfg.FontPath,
		Seed:        cfg.Seed,
		Verbose:     cfg.Verbose,
	})
	if err != nil {
		return "", err
	}

	path, err := art.WriteFile(cfg.OutputDir)
	if err != nil {
		return "", err
	}
	fmt.Printf("Created strip: %s\n", path)

	if cfg.Print {
		if err := strip.Print(ctx, path); err != nil {
			return path, err
		}
		fmt.Printf("Sent to printer: %s\n", path)
	}
	return path, nil
}

// ComposeStrip builds a strip from image files on disk. Inputs are decoded
// in order, so the first path becomes the top photo.
func ComposeStrip(ctx context.Context, opts *ComposeStripOptions) (string, error) {
	if len(opts.InputPaths) == 0 {
		return "", fmt.Errorf("no input images provided")
	}

	look, err := resolveLook(opts.Filter, opts.Style, opts.CustomColor, opts.Theme, nil)
	if err != nil {
		return "", err
	}

	takenAt := time.Now()
	snaps := make([]capture.Snapshot, len(opts.InputPaths))
	for i, path := range opts.InputPaths {
		if opts.Verbose {
			log.Printf("Reading input image %d/%d: %s\n", i+1, len(opts.InputPaths), path)
		}
		img, err := loadImage(path)
		if err != nil {
			return "", err
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: config.SnapshotQuality}); err != nil {
			return "", errors.Wrapf(err, "failed to encode input %s", path)
		}
		snaps[i] = capture.Snapshot{Index: i, TakenAt: takenAt, Data: buf.Bytes()}
	}

	art, err := strip.Compose(ctx, &strip.Request{
		Snapshots:   snaps,
		Style:       look.style,
		CustomColor: look.color,
		Filter:      look.filter,
		StyleEnv:    look.env,
		Theme:       look.theme,
		Caption:     opts.Caption,
		Label:       opts.Label,
		TakenAt:     takenAt,
		FontPath:    opts.FontPath,
		Seed:        opts.Seed,
		Verbose:     opts.Verbose,
	})
	if err != nil {
		return "", err
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = config.DefaultOutputDir
	}
	path, err := art.WriteFile(outputDir)
	if err != nil {
		return "", err
	}
	fmt.Printf("Created strip: %s\n", path)
	return path, nil
}

// Serve runs the booth web UI until ctx is cancelled.
func Serve(ctx context.Context, opts *ServeOptions) error {
	cfg := &config.ServeOptions{
		Addr:       opts.Addr,
		Device:     opts.Device,
		OutputDir:  opts.OutputDir,
		Countdown:  opts.Countdown,
		Caption:    opts.Caption,
		FontPath:   opts.FontPath,
		NoGate:     opts.NoGate,
		ConfigPath: opts.ConfigPath,
		Verbose:    opts.Verbose,
	}
	file, err := config.ResolveServe(cfg)
	if err != nil {
		return err
	}

	themes, err := catalogFrom(file)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	srv, err := server.New(cfg, themes, logger)
	if err != nil {
		return err
	}
	defer srv.Close()

	return srv.Run(ctx)
}

// Login starts a booth session for name.
func Login(name string) error {
	store, err := session.NewStore()
	if err != nil {
		return err
	}
	return store.Login(name)
}

// Logout ends the current booth session, if any.
func Logout() error {
	store, err := session.NewStore()
	if err != nil {
		return err
	}
	return store.Logout()
}

// look bundles one validated filter, style and theme selection.
type look struct {
	filter filter.Filter
	style  style.Style
	color  string
	theme  sticker.Theme
	env    filter.StyleEnv
}

func resolveLook(filterKey, styleKey, customColor, themeKey string, file *config.BoothFile) (*look, error) {
	f, err := filter.Get(orDefault(filterKey, filter.NoFilter().Key))
	if err != nil {
		return nil, err
	}
	st, err := style.Get(orDefault(styleKey, "classic"))
	if err != nil {
		return nil, err
	}
	color := customColor
	if st.NeedsColor() {
		color, err = style.NormalizeColor(color)
		if err != nil {
			return nil, err
		}
	}
	themes, err := catalogFrom(file)
	if err != nil {
		return nil, err
	}
	theme, err := themes.Get(orDefault(themeKey, themes.None().Key))
	if err != nil {
		return nil, err
	}

	return &look{
		filter: f,
		style:  st,
		color:  color,
		theme:  theme,
		env:    filter.DefaultStyleEnv(),
	}, nil
}

// catalogFrom builds the sticker catalog, appending any extra themes the
// booth file declares.
func catalogFrom(file *config.BoothFile) (*sticker.Catalog, error) {
	var extra []sticker.Theme
	if file != nil {
		for _, tc := range file.Themes {
			images := make([]string, 0, len(tc.Images))
			for _, p := range tc.Images {
				images = append(images, "file:"+p)
			}
			extra = append(extra, sticker.Theme{Name: tc.Name, Key: tc.Key, Images: images})
		}
	}
	return sticker.NewCatalog(extra...)
}

func openSource(device string, verbose bool) camera.Source {
	if device == "none" {
		return camera.NewSynthetic(config.CaptureWidth, config.CaptureHeight)
	}
	return camera.OpenDevice(device, config.CaptureWidth, config.CaptureHeight, verbose)
}

func requireSession(noGate bool) error {
	if noGate {
		return nil
	}
	store, err := session.NewStore()
	if err != nil {
		return err
	}
	if !store.Active() {
		return fmt.Errorf("no active session: run `myfotobooth login <name>` first or pass --no-gate")
	}
	return nil
}

// echoEvents prints sequencer progress until stop closes, then drains
// whatever is still queued.
func echoEvents(events <-chan capture.Event, stop <-chan struct{}) {
	for {
		select {
		case ev := <-events:
			fmt.Println(ev)
		case <-stop:
			for {
				select {
				case ev := <-events:
					fmt.Println(ev)
				default:
					return
				}
			}
		}
	}
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open input %s", path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode input %s", path)
	}
	return img, nil
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
