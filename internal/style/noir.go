package style

import (
	"github.com/fogleman/gg"

	"github.com/CyberJohn04/myfotobooth/pkg/types"
)

type Noir struct{}

func init() {
	Register(&Noir{})
}

func (s *Noir) GetName() string {
	return "Noir"
}

func (s *Noir) GetKey() string {
	return string(types.StripStyleNoir)
}

func (s *Noir) NeedsColor() bool {
	return false
}

func (s *Noir) Paint(dc *gg.Context, w, h int, _ *Context) error {
	fill(dc, "#17151c")

	// Faint double keyline, silver on black.
	dc.SetHexColor("#4a4552")
	dc.SetLineWidth(3)
	dc.DrawRectangle(8, 8, float64(w)-16, float64(h)-16)
	dc.Stroke()
	dc.SetLineWidth(1)
	dc.DrawRectangle(14, 14, float64(w)-28, float64(h)-28)
	dc.Stroke()
	return nil
}

func (s *Noir) PreviewFill(_ *Context) string {
	return "#17151c"
}
