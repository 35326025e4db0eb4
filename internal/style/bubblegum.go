package style

import (
	"math"
	"math/rand"

	"github.com/fogleman/gg"

	"github.com/CyberJohn04/myfotobooth/pkg/types"
)

type Bubblegum struct{}

func init() {
	Register(&Bubblegum{})
}

func (s *Bubblegum) GetName() string {
	return "Bubblegum"
}

func (s *Bubblegum) GetKey() string {
	return string(types.StripStyleBubblegum)
}

func (s *Bubblegum) NeedsColor() bool {
	return false
}

func (s *Bubblegum) Paint(dc *gg.Context, w, h int, ctx *Context) error {
	fill(dc, "#ffd6ea")

	// Candy dot clusters in opposing corners.
	r := randOf(ctx)
	s.dots(dc, r, 32, 32)
	s.dots(dc, r, float64(w)-32, float64(h)-32)
	return nil
}

func (s *Bubblegum) dots(dc *gg.Context, r *rand.Rand, cx, cy float64) {
	for i := 0; i < 7; i++ {
		a := float64(i) * 2 * math.Pi / 7
		x := cx + 16*math.Cos(a) + jitter(r, 3)
		y := cy + 16*math.Sin(a) + jitter(r, 3)
		dc.SetHexColor("#ff7eb8")
		dc.DrawCircle(x, y, 4.5)
		dc.Fill()
	}
	dc.SetHexColor("#ffffff")
	dc.DrawCircle(cx, cy, 6)
	dc.Fill()
}

func (s *Bubblegum) PreviewFill(_ *Context) string {
	return "#ffd6ea"
}
