package style

import (
	"math"
	"math/rand"

	"github.com/fogleman/gg"

	"github.com/CyberJohn04/myfotobooth/pkg/types"
)

type Cosmic struct{}

func init() {
	Register(&Cosmic{})
}

func (s *Cosmic) GetName() string {
	return "Cosmic"
}

func (s *Cosmic) GetKey() string {
	return string(types.StripStyleCosmic)
}

func (s *Cosmic) NeedsColor() bool {
	return false
}

func (s *Cosmic) Paint(dc *gg.Context, w, h int, ctx *Context) error {
	fill(dc, "#1b1035")

	r := randOf(ctx)
	s.constellation(dc, r, 34, 40)
	s.constellation(dc, r, float64(w)-34, float64(h)-44)

	// One orbit arc behind the header.
	dc.SetHexColor("#6a4fc1")
	dc.SetLineWidth(2)
	dc.DrawArc(float64(w)/2, -float64(w)*0.55, float64(w)*0.72, math.Pi*0.32, math.Pi*0.68)
	dc.Stroke()
	return nil
}

func (s *Cosmic) constellation(dc *gg.Context, r *rand.Rand, cx, cy float64) {
	dc.SetHexColor("#f6e96b")
	starPath(dc, cx, cy, 4, 13, 3.5, 0)
	dc.Fill()

	dc.SetHexColor("#cdb7ff")
	for i := 0; i < 5; i++ {
		a := float64(i)*2*math.Pi/5 + jitter(r, 0.4)
		d := 22 + jitter(r, 6)
		dc.DrawCircle(cx+d*math.Cos(a), cy+d*math.Sin(a), 1.8)
		dc.Fill()
	}
}

func (s *Cosmic) PreviewFill(_ *Context) string {
	return "#1b1035"
}
