package style

import (
	"github.com/fogleman/gg"

	"github.com/CyberJohn04/myfotobooth/pkg/types"
)

type Classic struct{}

func init() {
	Register(&Classic{})
}

func (s *Classic) GetName() string {
	return "Classic"
}

func (s *Classic) GetKey() string {
	return string(types.StripStyleClassic)
}

func (s *Classic) NeedsColor() bool {
	return false
}

func (s *Classic) Paint(dc *gg.Context, w, h int, _ *Context) error {
	fill(dc, "#ffffff")

	// Thin keyline just inside the edge, like a cut print.
	dc.SetHexColor("#d8d2e0")
	dc.SetLineWidth(2)
	dc.DrawRectangle(6, 6, float64(w)-12, float64(h)-12)
	dc.Stroke()
	return nil
}

func (s *Classic) PreviewFill(_ *Context) string {
	return "#ffffff"
}
