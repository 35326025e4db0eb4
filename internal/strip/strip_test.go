package strip

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/CyberJohn04/myfotobooth/internal/capture"
	"github.com/CyberJohn04/myfotobooth/internal/config"
	"github.com/CyberJohn04/myfotobooth/internal/filter"
	"github.com/CyberJohn04/myfotobooth/internal/sticker"
	"github.com/CyberJohn04/myfotobooth/internal/style"
)

func makeSnapshot(t testing.TB, index int, c color.NRGBA) capture.Snapshot {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: config.SnapshotQuality}); err != nil {
		t.Fatalf("encode snapshot: %v", err)
	}
	return capture.Snapshot{Index: index, TakenAt: time.Now(), Data: buf.Bytes()}
}

func threeSnapshots(t testing.TB) []capture.Snapshot {
	t.Helper()
	return []capture.Snapshot{
		makeSnapshot(t, 0, color.NRGBA{R: 200, G: 60, B: 60, A: 255}),
		makeSnapshot(t, 1, color.NRGBA{R: 60, G: 200, B: 60, A: 255}),
		makeSnapshot(t, 2, color.NRGBA{R: 60, G: 60, B: 200, A: 255}),
	}
}

func mustStyle(t testing.TB, key string) style.Style {
	t.Helper()
	s, err := style.Get(key)
	if err != nil {
		t.Fatalf("style %s: %v", key, err)
	}
	return s
}

func mustTheme(t testing.TB, key string) sticker.Theme {
	t.Helper()
	c, err := sticker.NewCatalog()
	if err != nil {
		t.Fatal(err)
	}
	theme, err := c.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	return theme
}

func TestCanvasSize(t *testing.T) {
	for n := 1; n <= 4; n++ {
		w, h := CanvasSize(n)
		if w != config.StripWidth {
			t.Errorf("n=%d: width %d", n, w)
		}
		want := config.HeaderPad + n*config.PhotoHeight + (n-1)*config.PhotoGap + config.BottomPad
		if h != want {
			t.Errorf("n=%d: height %d, want %d", n, h, want)
		}
	}

	if _, h := CanvasSize(3); h != 1328 {
		t.Errorf("3-photo strip height = %d, want 1328", h)
	}
}

func TestComposeCustomColorExact(t *testing.T) {
	art, err := Compose(context.Background(), &Request{
		Snapshots:   threeSnapshots(t),
		Style:       mustStyle(t, "custom"),
		CustomColor: "#e0f7fa",
		Filter:      filter.NoFilter(),
		Theme:       mustTheme(t, "none"),
		Seed:        1,
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	w, h := CanvasSize(3)
	if art.Width != w || art.Height != h {
		t.Fatalf("artifact %dx%d, want %dx%d", art.Width, art.Height, w, h)
	}
	if b := art.Image.Bounds(); b.Dx() != w || b.Dy() != h {
		t.Fatalf("raster %v", b)
	}

	want := color.RGBA{R: 0xe0, G: 0xf7, B: 0xfa, A: 0xff}
	for _, pt := range [][2]int{
		{0, 0}, {w - 1, 0}, {0, h - 1}, {w - 1, h - 1},
		{10, config.HeaderPad + 50},     // left margin beside photo 1
		{w - 10, config.HeaderPad + 50}, // right margin
	} {
		got := color.RGBAModel.Convert(art.Image.At(pt[0], pt[1])).(color.RGBA)
		if got != want {
			t.Fatalf("pixel %v: got %+v, want %+v", pt, got, want)
		}
	}

	if ok, _ := regexp.MatchString(`^cosmic-photobooth-\d+\.jpg$`, art.Filename); !ok {
		t.Errorf("bad filename %q", art.Filename)
	}
	if _, err := jpeg.Decode(bytes.NewReader(art.Data)); err != nil {
		t.Errorf("artifact is not valid JPEG: %v", err)
	}
}

func TestComposeGuards(t *testing.T) {
	_, err := Compose(context.Background(), &Request{Style: mustStyle(t, "classic")})
	if err != ErrNoSnapshots {
		t.Errorf("empty snapshots: got %v", err)
	}

	_, err = Compose(context.Background(), &Request{Snapshots: threeSnapshots(t)})
	if err == nil {
		t.Error("expected error for missing style")
	}
}

func TestComposeShortStrip(t *testing.T) {
	art, err := Compose(context.Background(), &Request{
		Snapshots: threeSnapshots(t)[:2],
		Style:     mustStyle(t, "classic"),
		Filter:    filter.NoFilter(),
		Theme:     mustTheme(t, "none"),
		Seed:      1,
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if _, h := CanvasSize(2); art.Height != h {
		t.Errorf("2-photo strip height %d, want %d", art.Height, h)
	}
}

func TestComposeDecodeFailureNamesShot(t *testing.T) {
	snaps := threeSnapshots(t)
	snaps[1].Data = []byte("not a jpeg")

	_, err := Compose(context.Background(), &Request{
		Snapshots: snaps,
		Style:     mustStyle(t, "classic"),
		Filter:    filter.NoFilter(),
		Theme:     mustTheme(t, "none"),
	})
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !strings.Contains(err.Error(), "snapshot 2") {
		t.Errorf("error does not name the shot: %v", err)
	}
}

func TestComposeSeedReproducible(t *testing.T) {
	takenAt := time.UnixMilli(1756100000000)
	req := func() *Request {
		return &Request{
			Snapshots: threeSnapshots(t),
			Style:     mustStyle(t, "cosmic"),
			Filter:    filter.NoFilter(),
			Theme:     mustTheme(t, "heart"),
			Label:     "Aug 25, 2026 1:00 PM",
			TakenAt:   takenAt,
			Seed:      42,
		}
	}

	a, err := Compose(context.Background(), req())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	b, err := Compose(context.Background(), req())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if a.Filename != b.Filename {
		t.Errorf("filenames differ: %q vs %q", a.Filename, b.Filename)
	}
	if !bytes.Equal(a.Data, b.Data) {
		t.Error("seeded composites should be byte-identical")
	}
}

func TestComposeUnseededVaries(t *testing.T) {
	takenAt := time.UnixMilli(1756100000000)
	req := func() *Request {
		return &Request{
			Snapshots: threeSnapshots(t),
			Style:     mustStyle(t, "classic"),
			Filter:    filter.NoFilter(),
			Theme:     mustTheme(t, "star"),
			Label:     "Aug 25, 2026 1:00 PM",
			TakenAt:   takenAt,
		}
	}

	a, err := Compose(context.Background(), req())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	b, err := Compose(context.Background(), req())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if bytes.Equal(a.Data, b.Data) {
		t.Error("unseeded composites should differ in sticker placement")
	}
}

func TestComposeAppliesFilter(t *testing.T) {
	art, err := Compose(context.Background(), &Request{
		Snapshots: threeSnapshots(t),
		Style:     mustStyle(t, "classic"),
		Filter:    filter.Filter{Name: "Grayscale", Key: "grayscale", Transform: "grayscale(1)"},
		Theme:     mustTheme(t, "none"),
		Seed:      1,
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	// Center of the first photo slot.
	x := config.SideMargin + config.PhotoWidth/2
	y := config.HeaderPad + config.PhotoHeight/2
	got := color.RGBAModel.Convert(art.Image.At(x, y)).(color.RGBA)
	if got.R != got.G || got.G != got.B {
		t.Errorf("photo not grayscaled: %+v", got)
	}
}

func TestStickerCountRange(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		n := stickerCount(rng)
		if n != 7 && n != 8 {
			t.Fatalf("sticker count %d out of range", n)
		}
		seen[n] = true
	}
	if !seen[7] || !seen[8] {
		t.Errorf("expected both counts to occur, saw %v", seen)
	}
}

func TestWriteFile(t *testing.T) {
	art, err := Compose(context.Background(), &Request{
		Snapshots: threeSnapshots(t)[:1],
		Style:     mustStyle(t, "classic"),
		Filter:    filter.NoFilter(),
		Theme:     mustTheme(t, "none"),
		Seed:      1,
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "strips", "today")
	path, err := art.WriteFile(dir)
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if filepath.Base(path) != art.Filename {
		t.Errorf("path %q does not end in %q", path, art.Filename)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, art.Data) {
		t.Error("written bytes differ from artifact")
	}
}

func BenchmarkCompose(b *testing.B) {
	snaps := threeSnapshots(b)
	st := mustStyle(b, "cosmic")
	theme := mustTheme(b, "heart")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Compose(context.Background(), &Request{
			Snapshots: snaps,
			Style:     st,
			Filter:    filter.NoFilter(),
			Theme:     theme,
			Seed:      42,
		})
		if err != nil {
			b.Fatal(err)
		}
	}
}
