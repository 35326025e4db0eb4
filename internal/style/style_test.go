package style

import (
	"image"
	"image/color"
	"math/rand"
	"strings"
	"testing"

	"github.com/fogleman/gg"
)

func paintOn(t *testing.T, s Style, ctx *Context) *gg.Context {
	t.Helper()
	dc := gg.NewContext(120, 160)
	if err := s.Paint(dc, 120, 160, ctx); err != nil {
		t.Fatalf("%s Paint failed: %v", s.GetKey(), err)
	}
	return dc
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func solidPhoto(c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestRegistryHoldsAllStyles(t *testing.T) {
	for _, key := range []string{"classic", "noir", "bubblegum", "cosmic", "custom", "auto"} {
		s, err := Get(key)
		if err != nil {
			t.Fatalf("Get(%s) failed: %v", key, err)
		}
		if s.GetKey() != key {
			t.Errorf("key mismatch: %q", s.GetKey())
		}
	}
	if len(List()) != 6 {
		t.Errorf("expected 6 styles, got %d", len(List()))
	}
	if len(GetSupportedStyles()) != 6 {
		t.Errorf("expected 6 keys, got %v", GetSupportedStyles())
	}

	_, err := Get("plaid")
	if err == nil || !strings.Contains(err.Error(), "unsupported style") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestOnlyCustomNeedsColor(t *testing.T) {
	for _, s := range List() {
		if got, want := s.NeedsColor(), s.GetKey() == "custom"; got != want {
			t.Errorf("%s: NeedsColor() = %v", s.GetKey(), got)
		}
	}
}

func TestCustomPaintExactFill(t *testing.T) {
	s, err := Get("custom")
	if err != nil {
		t.Fatal(err)
	}

	dc := paintOn(t, s, &Context{CustomColor: "#E0F7FA"})
	want := color.RGBA{R: 0xe0, G: 0xf7, B: 0xfa, A: 0xff}
	for _, pt := range [][2]int{{0, 0}, {119, 0}, {60, 80}, {0, 159}, {119, 159}} {
		if got := rgbaAt(dc.Image(), pt[0], pt[1]); got != want {
			t.Fatalf("pixel %v: got %+v, want %+v", pt, got, want)
		}
	}
}

func TestCustomPaintRejectsBadInput(t *testing.T) {
	s, err := Get("custom")
	if err != nil {
		t.Fatal(err)
	}
	dc := gg.NewContext(10, 10)

	if err := s.Paint(dc, 10, 10, nil); err == nil {
		t.Error("expected error for missing context")
	}
	if err := s.Paint(dc, 10, 10, &Context{}); err == nil {
		t.Error("expected error for missing color")
	}
	if err := s.Paint(dc, 10, 10, &Context{CustomColor: "chartreuse"}); err == nil {
		t.Error("expected error for non-hex color")
	}
}

func TestNormalizeColor(t *testing.T) {
	got, err := NormalizeColor(" E0F7FA ")
	if err != nil {
		t.Fatalf("NormalizeColor failed: %v", err)
	}
	if got != "#e0f7fa" {
		t.Errorf("got %q, want %q", got, "#e0f7fa")
	}

	for _, bad := range []string{"", "#12", "#gggggg", "red"} {
		if _, err := NormalizeColor(bad); err == nil {
			t.Errorf("NormalizeColor(%q) should fail", bad)
		}
	}
}

func TestFixedStylesPaintTheirBase(t *testing.T) {
	cases := map[string]color.RGBA{
		"classic":   {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		"noir":      {R: 0x17, G: 0x15, B: 0x1c, A: 0xff},
		"bubblegum": {R: 0xff, G: 0xd6, B: 0xea, A: 0xff},
		"cosmic":    {R: 0x1b, G: 0x10, B: 0x35, A: 0xff},
	}
	for key, want := range cases {
		s, err := Get(key)
		if err != nil {
			t.Fatal(err)
		}
		dc := paintOn(t, s, &Context{Rand: rand.New(rand.NewSource(7))})
		// Ornaments stay near corners and edges; mid-canvas is base fill.
		if got := rgbaAt(dc.Image(), 60, 80); got != want {
			t.Errorf("%s: got %+v, want %+v", key, got, want)
		}
	}
}

func TestAutoPaintFollowsPhotos(t *testing.T) {
	s, err := Get("auto")
	if err != nil {
		t.Fatal(err)
	}

	photo := solidPhoto(color.NRGBA{R: 220, G: 90, B: 40, A: 255})
	dc := paintOn(t, s, &Context{Photos: []image.Image{photo}, Rand: rand.New(rand.NewSource(7))})

	got := rgbaAt(dc.Image(), 60, 80)
	if got.R <= got.B {
		t.Errorf("background lost the warm cast: %+v", got)
	}
	if got.R >= 220 {
		t.Errorf("background should be darker than the photo: %+v", got)
	}

	dcEmpty := gg.NewContext(10, 10)
	if err := s.Paint(dcEmpty, 10, 10, &Context{}); err == nil {
		t.Error("expected error without photos")
	}
}

func TestPreviewFills(t *testing.T) {
	custom, err := Get("custom")
	if err != nil {
		t.Fatal(err)
	}
	if got := custom.PreviewFill(&Context{CustomColor: "00ff00"}); got != "#00ff00" {
		t.Errorf("custom preview fill: %q", got)
	}
	if got := custom.PreviewFill(nil); got != "#ffffff" {
		t.Errorf("custom preview fallback: %q", got)
	}

	for _, s := range List() {
		if s.PreviewFill(&Context{CustomColor: "#123456"}) == "" {
			t.Errorf("%s has no preview fill", s.GetKey())
		}
	}
}
